// Copyright (c) FleetForge
// SPDX-License-Identifier: Apache-2.0

// Package wire implements the length-prefixed binary envelope spoken over
// the registration channel. A frame is a 4-byte big-endian payload length
// followed by exactly that many payload bytes. The envelope is symmetric:
// server and device use the same codec on both ends of the TLS stream.
package wire

import (
	"encoding/binary"
	"io"

	"github.com/fleetforge/provision/errors"
)

// MaxFrameSize bounds the memory a single frame may claim. The limit is
// inclusive: a declared length of exactly MaxFrameSize is accepted.
const MaxFrameSize = 1 << 20 // 1 MiB

const lenSize = 4

// ErrFrameTooLarge indicates a declared frame length above MaxFrameSize.
// The violation is fatal to the connection, not to the process.
var ErrFrameTooLarge = errors.New("frame exceeds maximum size")

// ReadFrame reads one length-prefixed frame from r. It blocks until the
// whole payload arrives or the stream ends. A clean peer close before the
// length prefix surfaces as io.EOF.
func ReadFrame(r io.Reader) ([]byte, error) {
	var header [lenSize]byte
	if _, err := io.ReadFull(r, header[:]); err != nil {
		return nil, err
	}

	length := binary.BigEndian.Uint32(header[:])
	if length > MaxFrameSize {
		return nil, ErrFrameTooLarge
	}

	payload := make([]byte, length)
	if _, err := io.ReadFull(r, payload); err != nil {
		return nil, err
	}
	return payload, nil
}

// WriteFrame writes payload as one frame to w. A partial write followed by
// a stream error aborts the session; the caller must treat any error as
// fatal to the connection.
func WriteFrame(w io.Writer, payload []byte) error {
	if len(payload) > MaxFrameSize {
		return ErrFrameTooLarge
	}

	buf := make([]byte, lenSize+len(payload))
	binary.BigEndian.PutUint32(buf[:lenSize], uint32(len(payload)))
	copy(buf[lenSize:], payload)

	_, err := w.Write(buf)
	return err
}
