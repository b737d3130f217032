// Copyright (c) FleetForge
// SPDX-License-Identifier: Apache-2.0

package wire_test

import (
	"bytes"
	"encoding/binary"
	"io"
	"testing"

	"github.com/fleetforge/provision/errors"
	"github.com/fleetforge/provision/wire"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFrameRoundTrip(t *testing.T) {
	testCases := []struct {
		desc    string
		payload []byte
	}{
		{
			desc:    "small payload",
			payload: []byte(`{"command":"REGISTER"}`),
		},
		{
			desc:    "empty payload",
			payload: []byte{},
		},
		{
			desc:    "payload at the size limit",
			payload: bytes.Repeat([]byte{0xAB}, wire.MaxFrameSize),
		},
	}

	for _, tc := range testCases {
		t.Run(tc.desc, func(t *testing.T) {
			var buf bytes.Buffer
			require.NoError(t, wire.WriteFrame(&buf, tc.payload))

			got, err := wire.ReadFrame(&buf)
			require.NoError(t, err)
			assert.Equal(t, tc.payload, got)
			assert.Zero(t, buf.Len(), "frame should consume the whole encoding")
		})
	}
}

func TestWriteFrameTooLarge(t *testing.T) {
	var buf bytes.Buffer
	err := wire.WriteFrame(&buf, make([]byte, wire.MaxFrameSize+1))
	assert.True(t, errors.Contains(err, wire.ErrFrameTooLarge), "expected %v, got %v", wire.ErrFrameTooLarge, err)
	assert.Zero(t, buf.Len(), "oversized frame must not be written")
}

func TestReadFrameTooLarge(t *testing.T) {
	var buf bytes.Buffer
	var header [4]byte
	binary.BigEndian.PutUint32(header[:], wire.MaxFrameSize+1)
	buf.Write(header[:])

	_, err := wire.ReadFrame(&buf)
	assert.True(t, errors.Contains(err, wire.ErrFrameTooLarge), "expected %v, got %v", wire.ErrFrameTooLarge, err)
}

func TestReadFrameShortStream(t *testing.T) {
	testCases := []struct {
		desc  string
		input []byte
		err   error
	}{
		{
			desc:  "empty stream",
			input: nil,
			err:   io.EOF,
		},
		{
			desc:  "truncated length prefix",
			input: []byte{0x00, 0x00},
			err:   io.ErrUnexpectedEOF,
		},
		{
			desc:  "truncated payload",
			input: []byte{0x00, 0x00, 0x00, 0x08, 'h', 'a', 'l', 'f'},
			err:   io.ErrUnexpectedEOF,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.desc, func(t *testing.T) {
			_, err := wire.ReadFrame(bytes.NewReader(tc.input))
			assert.ErrorIs(t, err, tc.err)
		})
	}
}

func TestFramePrefixIsBigEndian(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, wire.WriteFrame(&buf, []byte("ping")))

	encoded := buf.Bytes()
	require.Len(t, encoded, 8)
	assert.Equal(t, []byte{0x00, 0x00, 0x00, 0x04}, encoded[:4])
	assert.Equal(t, []byte("ping"), encoded[4:])
}
