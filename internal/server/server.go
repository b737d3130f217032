// Copyright (c) FleetForge
// SPDX-License-Identifier: Apache-2.0

package server

import (
	"context"
	"crypto/tls"
	"crypto/x509"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"
)

// StopWaitTime bounds graceful shutdown.
const StopWaitTime = 5 * time.Second

// Server is a common interface for all transport servers.
type Server interface {
	// Start starts the server and blocks until it stops or fails.
	Start() error

	// Stop gracefully stops the server.
	Stop() error
}

// Config is the shared transport server configuration.
type Config struct {
	Host         string        `env:"HOST"            envDefault:""`
	Port         string        `env:"PORT"            envDefault:""`
	CertFile     string        `env:"SERVER_CERT"     envDefault:""`
	KeyFile      string        `env:"SERVER_KEY"      envDefault:""`
	ClientCAFile string        `env:"CLIENT_CA_CERTS" envDefault:""`
	ReadTimeout  time.Duration `env:"READ_TIMEOUT"    envDefault:"5m"`
	WriteTimeout time.Duration `env:"WRITE_TIMEOUT"   envDefault:"30s"`
}

// BaseServer carries the state every transport server shares.
type BaseServer struct {
	Ctx      context.Context
	Cancel   context.CancelFunc
	Name     string
	Address  string
	Config   Config
	Logger   *slog.Logger
	Protocol string
}

// NewBaseServer returns the shared server state for the given config.
func NewBaseServer(ctx context.Context, cancel context.CancelFunc, name string, config Config, logger *slog.Logger) BaseServer {
	return BaseServer{
		Ctx:     ctx,
		Cancel:  cancel,
		Name:    name,
		Address: fmt.Sprintf("%s:%s", config.Host, config.Port),
		Config:  config,
		Logger:  logger,
	}
}

// LoadTLSConfig builds the server TLS configuration. When a client CA file
// is configured the returned config requires and verifies client
// certificates against it.
func LoadTLSConfig(c Config) (*tls.Config, error) {
	if c.CertFile == "" && c.KeyFile == "" {
		return nil, nil
	}

	certificate, err := tls.LoadX509KeyPair(c.CertFile, c.KeyFile)
	if err != nil {
		return nil, fmt.Errorf("failed to load server certificates: %w", err)
	}
	tlsConfig := &tls.Config{
		Certificates: []tls.Certificate{certificate},
		MinVersion:   tls.VersionTLS12,
	}

	if c.ClientCAFile != "" {
		clientCA, err := loadCertPool(c.ClientCAFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load client ca file: %w", err)
		}
		tlsConfig.ClientCAs = clientCA
		tlsConfig.ClientAuth = tls.RequireAndVerifyClientCert
	}

	return tlsConfig, nil
}

func loadCertPool(caFile string) (*x509.CertPool, error) {
	pemData, err := os.ReadFile(caFile)
	if err != nil {
		return nil, err
	}
	pool := x509.NewCertPool()
	if !pool.AppendCertsFromPEM(pemData) {
		return nil, fmt.Errorf("no valid PEM certificates in %s", caFile)
	}
	return pool, nil
}

// StopSignalHandler stops all the given servers on SIGINT or SIGTERM.
func StopSignalHandler(ctx context.Context, cancel context.CancelFunc, logger *slog.Logger, svcName string, servers ...Server) error {
	c := make(chan os.Signal, 2)
	signal.Notify(c, syscall.SIGINT, syscall.SIGTERM)
	select {
	case sig := <-c:
		defer cancel()
		for _, server := range servers {
			if err := server.Stop(); err != nil {
				logger.Error(fmt.Sprintf("error stopping %s server: %s", svcName, err))
			}
		}
		logger.Info(fmt.Sprintf("%s service shutdown by signal: %s", svcName, sig))
		return nil
	case <-ctx.Done():
		return nil
	}
}
