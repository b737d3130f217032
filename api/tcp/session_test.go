// Copyright (c) FleetForge
// SPDX-License-Identifier: Apache-2.0

package tcp_test

import (
	"bytes"
	"context"
	"log/slog"
	"net"
	"testing"
	"time"

	"github.com/fleetforge/provision"
	tcpapi "github.com/fleetforge/provision/api/tcp"
	"github.com/fleetforge/provision/errors"
	"github.com/fleetforge/provision/mocks"
	"github.com/fleetforge/provision/wire"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

const deviceID = provision.DeviceIdentity("device-123")

func testLogger() *slog.Logger {
	return slog.New(slog.NewJSONHandler(&bytes.Buffer{}, nil))
}

// runSession drives ServeSession over an in-memory pipe and returns the
// device end of the connection.
func runSession(t *testing.T, svc provision.Registry, id provision.DeviceIdentity) net.Conn {
	t.Helper()

	server, client := net.Pipe()
	handler := tcpapi.NewHandler(svc, testLogger(), 0, 0)

	done := make(chan struct{})
	go func() {
		defer close(done)
		defer server.Close()
		handler.ServeSession(context.Background(), server, id)
	}()
	t.Cleanup(func() {
		client.Close()
		<-done
	})

	return client
}

func exchange(t *testing.T, conn net.Conn, payload []byte) wire.Response {
	t.Helper()

	require.NoError(t, wire.WriteFrame(conn, payload))
	out, err := wire.ReadFrame(conn)
	require.NoError(t, err)
	res, err := wire.DecodeResponse(out)
	require.NoError(t, err)

	return res
}

func command(t *testing.T, verb string) []byte {
	t.Helper()
	payload, err := wire.EncodeCommand(verb)
	require.NoError(t, err)
	return payload
}

func TestSessionRegister(t *testing.T) {
	svc := new(mocks.Registry)
	svc.On("Register", mock.Anything, deviceID).Return(provision.Device{DeviceID: deviceID.String()}, true, nil).Once()
	svc.On("Register", mock.Anything, deviceID).Return(provision.Device{DeviceID: deviceID.String()}, false, nil).Once()

	conn := runSession(t, svc, deviceID)

	res := exchange(t, conn, command(t, wire.CmdRegister))
	assert.Equal(t, wire.OK("registration completed"), res)

	res = exchange(t, conn, command(t, wire.CmdRegister))
	assert.Equal(t, wire.OK("already registered"), res)
}

func TestSessionHeartbeat(t *testing.T) {
	testCases := []struct {
		desc   string
		svcErr error
		res    wire.Response
	}{
		{
			desc: "heartbeat for registered device",
			res:  wire.OK("heartbeat received"),
		},
		{
			desc:   "heartbeat before registration",
			svcErr: provision.ErrDeviceNotRegistered,
			res:    wire.Error("not registered"),
		},
		{
			desc:   "heartbeat against corrupted record",
			svcErr: provision.ErrCorruptedRecord,
			res:    wire.Error("corrupted record"),
		},
		{
			desc:   "heartbeat against failing store",
			svcErr: errors.ErrViewEntity,
			res:    wire.Error("internal server error"),
		},
	}

	for _, tc := range testCases {
		t.Run(tc.desc, func(t *testing.T) {
			svc := new(mocks.Registry)
			svc.On("Heartbeat", mock.Anything, deviceID).Return(provision.Device{DeviceID: deviceID.String()}, tc.svcErr)

			conn := runSession(t, svc, deviceID)
			res := exchange(t, conn, command(t, wire.CmdHeartbeat))
			assert.Equal(t, tc.res, res)
		})
	}
}

func TestSessionRegisterFailure(t *testing.T) {
	svc := new(mocks.Registry)
	svc.On("Register", mock.Anything, deviceID).Return(provision.Device{}, false, errors.ErrCreateEntity)

	conn := runSession(t, svc, deviceID)
	res := exchange(t, conn, command(t, wire.CmdRegister))
	assert.Equal(t, wire.Error("internal server error"), res)
}

func TestSessionUnsupportedCommand(t *testing.T) {
	svc := new(mocks.Registry)
	conn := runSession(t, svc, deviceID)

	res := exchange(t, conn, command(t, "REBOOT"))
	assert.Equal(t, wire.Error("unsupported command"), res)

	// The session survives an unsupported command.
	res = exchange(t, conn, command(t, "UPGRADE"))
	assert.Equal(t, wire.Error("unsupported command"), res)
	svc.AssertNotCalled(t, "Register", mock.Anything, mock.Anything)
	svc.AssertNotCalled(t, "Heartbeat", mock.Anything, mock.Anything)
}

func TestSessionInvalidPayload(t *testing.T) {
	svc := new(mocks.Registry)
	conn := runSession(t, svc, deviceID)

	res := exchange(t, conn, []byte(`{"command":`))
	assert.Equal(t, wire.Error("invalid command"), res)
}

func TestSessionIdentityIsConnectionBound(t *testing.T) {
	other := provision.DeviceIdentity("device-999")
	svc := new(mocks.Registry)
	svc.On("Register", mock.Anything, other).Return(provision.Device{DeviceID: other.String()}, true, nil)

	conn := runSession(t, svc, other)

	// The command names another device; the bound identity wins.
	res := exchange(t, conn, []byte(`{"command":"REGISTER","device_id":"device-123"}`))
	assert.Equal(t, wire.OK("registration completed"), res)
	svc.AssertCalled(t, "Register", mock.Anything, other)
}

func TestSessionOversizedFrameClosesConnection(t *testing.T) {
	svc := new(mocks.Registry)

	server, client := net.Pipe()
	handler := tcpapi.NewHandler(svc, testLogger(), 0, 0)

	done := make(chan struct{})
	go func() {
		defer close(done)
		defer server.Close()
		handler.ServeSession(context.Background(), server, deviceID)
	}()

	// Declare a frame one byte over the limit. The server must close
	// without answering.
	header := []byte{0x00, 0x10, 0x00, 0x01}
	_, err := client.Write(header)
	require.NoError(t, err)

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("session did not close on oversized frame")
	}

	buf := make([]byte, 1)
	client.SetReadDeadline(time.Now().Add(100 * time.Millisecond))
	_, err = client.Read(buf)
	assert.Error(t, err, "no response may be sent for an oversized frame")
	client.Close()
}

func TestSessionCleanClose(t *testing.T) {
	svc := new(mocks.Registry)

	server, client := net.Pipe()
	handler := tcpapi.NewHandler(svc, testLogger(), 0, 0)

	done := make(chan struct{})
	go func() {
		defer close(done)
		handler.ServeSession(context.Background(), server, deviceID)
	}()

	client.Close()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("session did not end on peer close")
	}
}
