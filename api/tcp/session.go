// Copyright (c) FleetForge
// SPDX-License-Identifier: Apache-2.0

// Package tcp is the registration transport: it turns an accepted mTLS
// connection into an authenticated command session against the device
// registry. One command, one response, strictly alternating; the protocol
// is not multiplexed.
package tcp

import (
	"context"
	"crypto/tls"
	"io"
	"log/slog"
	"net"
	"time"

	"github.com/fleetforge/provision"
	"github.com/fleetforge/provision/errors"
	"github.com/fleetforge/provision/wire"
)

const (
	msgRegistered        = "registration completed"
	msgAlreadyRegistered = "already registered"
	msgHeartbeat         = "heartbeat received"
	msgNotRegistered     = "not registered"
	msgCorruptedRecord   = "corrupted record"
	msgUnsupported       = "unsupported command"
	msgInvalid           = "invalid command"
	msgInternal          = "internal server error"
)

// Handler serves registration sessions over accepted connections.
type Handler struct {
	svc          provision.Registry
	logger       *slog.Logger
	readTimeout  time.Duration
	writeTimeout time.Duration
}

// NewHandler returns a session handler dispatching to the given registry.
// readTimeout bounds the wait for the next command frame and must exceed the
// fleet heartbeat interval; writeTimeout bounds each response write. A zero
// timeout disables the corresponding deadline.
func NewHandler(svc provision.Registry, logger *slog.Logger, readTimeout, writeTimeout time.Duration) *Handler {
	return &Handler{
		svc:          svc,
		logger:       logger,
		readTimeout:  readTimeout,
		writeTimeout: writeTimeout,
	}
}

// ServeConn authenticates one accepted mTLS connection and runs its command
// loop. The chain was already verified during the handshake; identity
// extraction is the second, mandatory authentication step. A peer whose
// identity cannot be extracted gets no application-level response: the
// connection is simply closed.
func (h *Handler) ServeConn(ctx context.Context, conn *tls.Conn) {
	defer conn.Close()

	peer := conn.RemoteAddr().String()

	if h.readTimeout > 0 {
		if err := conn.SetDeadline(time.Now().Add(h.readTimeout)); err != nil {
			h.logger.Error("failed to set handshake deadline", slog.String("peer", peer), slog.Any("error", err))
			return
		}
	}
	if err := conn.HandshakeContext(ctx); err != nil {
		h.logger.Warn("TLS handshake failed", slog.String("peer", peer), slog.Any("error", err))
		return
	}

	state := conn.ConnectionState()
	if len(state.PeerCertificates) == 0 {
		h.logger.Warn("peer presented no certificate", slog.String("peer", peer))
		return
	}
	id, err := provision.IdentityFromCertificate(state.PeerCertificates[0])
	if err != nil {
		h.logger.Warn("unidentifiable device, closing connection", slog.String("peer", peer), slog.Any("error", err))
		return
	}

	h.logger.Info("device session established", slog.String("peer", peer), slog.String("device_id", id.String()))
	h.ServeSession(ctx, conn, id)
}

// ServeSession runs the command loop for an authenticated session. The
// identity is bound once and used for every dispatch: commands carry no
// identity claim of their own, so a connected device cannot act on another
// device's record.
func (h *Handler) ServeSession(ctx context.Context, conn net.Conn, id provision.DeviceIdentity) {
	logger := h.logger.With(slog.String("device_id", id.String()))

	for {
		if h.readTimeout > 0 {
			if err := conn.SetReadDeadline(time.Now().Add(h.readTimeout)); err != nil {
				logger.Error("failed to set read deadline", slog.Any("error", err))
				return
			}
		}

		payload, err := wire.ReadFrame(conn)
		switch {
		case err == nil:
		case err == io.EOF:
			logger.Info("connection closed by device")
			return
		case errors.Contains(err, wire.ErrFrameTooLarge):
			// Fatal framing violation: close without a response.
			logger.Warn("oversized frame, closing connection")
			return
		default:
			logger.Error("frame read failed", slog.Any("error", err))
			return
		}

		res := h.dispatch(ctx, logger, id, payload)

		out, err := wire.EncodeResponse(res)
		if err != nil {
			logger.Error("response encoding failed", slog.Any("error", err))
			return
		}
		if h.writeTimeout > 0 {
			if err := conn.SetWriteDeadline(time.Now().Add(h.writeTimeout)); err != nil {
				logger.Error("failed to set write deadline", slog.Any("error", err))
				return
			}
		}
		if err := wire.WriteFrame(conn, out); err != nil {
			logger.Error("response write failed", slog.Any("error", err))
			return
		}
	}
}

func (h *Handler) dispatch(ctx context.Context, logger *slog.Logger, id provision.DeviceIdentity, payload []byte) wire.Response {
	kind, verb, err := wire.DecodeCommand(payload)
	if err != nil {
		logger.Warn("malformed command payload", slog.Any("error", err))
		return wire.Error(msgInvalid)
	}

	switch kind {
	case wire.KindRegister:
		_, created, err := h.svc.Register(ctx, id)
		if err != nil {
			logger.Error("registration failed", slog.Any("error", err))
			return wire.Error(msgInternal)
		}
		if !created {
			return wire.OK(msgAlreadyRegistered)
		}
		return wire.OK(msgRegistered)

	case wire.KindHeartbeat:
		_, err := h.svc.Heartbeat(ctx, id)
		switch {
		case err == nil:
			return wire.OK(msgHeartbeat)
		case errors.Contains(err, provision.ErrDeviceNotRegistered):
			return wire.Error(msgNotRegistered)
		case errors.Contains(err, provision.ErrCorruptedRecord):
			return wire.Error(msgCorruptedRecord)
		default:
			logger.Error("heartbeat failed", slog.Any("error", err))
			return wire.Error(msgInternal)
		}

	default:
		logger.Warn("unsupported command", slog.String("command", verb))
		return wire.Error(msgUnsupported)
	}
}
