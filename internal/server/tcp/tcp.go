// Copyright (c) FleetForge
// SPDX-License-Identifier: Apache-2.0

package tcp

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"sync"
	"time"

	"github.com/fleetforge/provision/internal/server"
)

// ConnHandler serves one accepted mTLS connection and returns when the
// session is over. It owns closing the connection.
type ConnHandler interface {
	ServeConn(ctx context.Context, conn *tls.Conn)
}

type tcpServer struct {
	server.BaseServer
	handler   ConnHandler
	tlsConfig *tls.Config
	listener  net.Listener
	sessions  sync.WaitGroup
}

var _ server.Server = (*tcpServer)(nil)

// NewServer returns a TCP server that accepts TLS connections requiring a
// client certificate chained to the configured CA, one session goroutine
// per accepted connection.
func NewServer(ctx context.Context, cancel context.CancelFunc, name string, config server.Config, handler ConnHandler, logger *slog.Logger) server.Server {
	return &tcpServer{
		BaseServer: server.NewBaseServer(ctx, cancel, name, config, logger),
		handler:    handler,
	}
}

func (s *tcpServer) Start() error {
	tlsConfig, err := server.LoadTLSConfig(s.Config)
	if err != nil {
		return fmt.Errorf("failed to load TLS configuration: %w", err)
	}
	if tlsConfig == nil || tlsConfig.ClientAuth != tls.RequireAndVerifyClientCert {
		return fmt.Errorf("%s server requires server certificates and a client CA", s.Name)
	}
	s.tlsConfig = tlsConfig

	listener, err := net.Listen("tcp", s.Address)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", s.Address, err)
	}
	s.listener = listener
	s.Logger.Info(fmt.Sprintf("%s service TCP server listening at %s with mTLS", s.Name, s.Address))

	errCh := make(chan error)
	go func() {
		errCh <- s.acceptLoop()
	}()

	select {
	case <-s.Ctx.Done():
		return s.Stop()
	case err := <-errCh:
		s.Cancel()
		return err
	}
}

func (s *tcpServer) acceptLoop() error {
	for {
		conn, err := s.listener.Accept()
		if err != nil {
			if errors.Is(err, net.ErrClosed) {
				return nil
			}
			return fmt.Errorf("accept failed on %s: %w", s.Address, err)
		}

		// The handshake itself runs in the session goroutine so a slow
		// peer never stalls the accept loop.
		s.sessions.Add(1)
		go func() {
			defer s.sessions.Done()
			s.handler.ServeConn(s.Ctx, tls.Server(conn, s.tlsConfig))
		}()
	}
}

func (s *tcpServer) Stop() error {
	defer s.Cancel()
	if s.listener != nil {
		if err := s.listener.Close(); err != nil {
			s.Logger.Error(fmt.Sprintf("%s service TCP listener close failed at %s: %s", s.Name, s.Address, err))
		}
	}

	done := make(chan struct{})
	go func() {
		defer close(done)
		s.sessions.Wait()
	}()
	select {
	case <-done:
	case <-time.After(server.StopWaitTime):
	}
	s.Logger.Info(fmt.Sprintf("%s TCP service shutdown at %s", s.Name, s.Address))

	return nil
}
