// Copyright (c) FleetForge
// SPDX-License-Identifier: Apache-2.0

package sdk

import (
	"crypto/tls"
	"crypto/x509"

	"github.com/fleetforge/provision/errors"
	"github.com/fleetforge/provision/wire"
)

var errUntrustedCA = errors.New("no valid PEM certificates in CA bundle")

// DeviceConn is a device-side registration session: an mTLS connection
// exchanging framed commands, one response per command.
type DeviceConn struct {
	conn *tls.Conn
}

// Connect dials the registration server with the device certificate and the
// CA trust root obtained during bootstrap.
func Connect(addr string, deviceCert tls.Certificate, caPEM []byte) (*DeviceConn, error) {
	pool := x509.NewCertPool()
	if !pool.AppendCertsFromPEM(caPEM) {
		return nil, errUntrustedCA
	}

	conn, err := tls.Dial("tcp", addr, &tls.Config{
		Certificates: []tls.Certificate{deviceCert},
		RootCAs:      pool,
		MinVersion:   tls.VersionTLS12,
	})
	if err != nil {
		return nil, err
	}

	return &DeviceConn{conn: conn}, nil
}

// Register announces the device to the fleet registry.
func (c *DeviceConn) Register() (wire.Response, error) {
	return c.exchange(wire.CmdRegister)
}

// Heartbeat reports liveness for a registered device.
func (c *DeviceConn) Heartbeat() (wire.Response, error) {
	return c.exchange(wire.CmdHeartbeat)
}

// Close closes the underlying connection.
func (c *DeviceConn) Close() error {
	return c.conn.Close()
}

func (c *DeviceConn) exchange(verb string) (wire.Response, error) {
	payload, err := wire.EncodeCommand(verb)
	if err != nil {
		return wire.Response{}, err
	}
	if err := wire.WriteFrame(c.conn, payload); err != nil {
		return wire.Response{}, err
	}

	res, err := wire.ReadFrame(c.conn)
	if err != nil {
		return wire.Response{}, err
	}
	return wire.DecodeResponse(res)
}
