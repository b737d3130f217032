// Copyright (c) FleetForge
// SPDX-License-Identifier: Apache-2.0

package wire_test

import (
	"testing"

	"github.com/fleetforge/provision/errors"
	"github.com/fleetforge/provision/wire"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeCommand(t *testing.T) {
	testCases := []struct {
		desc    string
		payload []byte
		kind    wire.Kind
		verb    string
		err     error
	}{
		{
			desc:    "register command",
			payload: []byte(`{"command":"REGISTER"}`),
			kind:    wire.KindRegister,
			verb:    wire.CmdRegister,
		},
		{
			desc:    "heartbeat command",
			payload: []byte(`{"command":"HEARTBEAT"}`),
			kind:    wire.KindHeartbeat,
			verb:    wire.CmdHeartbeat,
		},
		{
			desc:    "unknown verb decodes as unsupported",
			payload: []byte(`{"command":"REBOOT"}`),
			kind:    wire.KindUnsupported,
			verb:    "REBOOT",
		},
		{
			desc:    "verbs are case sensitive",
			payload: []byte(`{"command":"register"}`),
			kind:    wire.KindUnsupported,
			verb:    "register",
		},
		{
			desc:    "extra fields are ignored",
			payload: []byte(`{"command":"REGISTER","device_id":"spoofed"}`),
			kind:    wire.KindRegister,
			verb:    wire.CmdRegister,
		},
		{
			desc:    "malformed JSON",
			payload: []byte(`{"command":`),
			kind:    wire.KindUnsupported,
			err:     wire.ErrInvalidCommand,
		},
		{
			desc:    "non-object payload",
			payload: []byte(`"REGISTER"`),
			kind:    wire.KindUnsupported,
			err:     wire.ErrInvalidCommand,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.desc, func(t *testing.T) {
			kind, verb, err := wire.DecodeCommand(tc.payload)
			if tc.err != nil {
				assert.True(t, errors.Contains(err, tc.err), "expected %v, got %v", tc.err, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.kind, kind)
			assert.Equal(t, tc.verb, verb)
		})
	}
}

func TestResponseRoundTrip(t *testing.T) {
	res := wire.OK("registration completed")

	payload, err := wire.EncodeResponse(res)
	require.NoError(t, err)
	assert.JSONEq(t, `{"status":"ok","message":"registration completed"}`, string(payload))

	got, err := wire.DecodeResponse(payload)
	require.NoError(t, err)
	assert.Equal(t, res, got)
}

func TestErrorResponse(t *testing.T) {
	payload, err := wire.EncodeResponse(wire.Error("not registered"))
	require.NoError(t, err)
	assert.JSONEq(t, `{"status":"error","message":"not registered"}`, string(payload))
}
