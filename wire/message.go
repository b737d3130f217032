// Copyright (c) FleetForge
// SPDX-License-Identifier: Apache-2.0

package wire

import (
	"encoding/json"

	"github.com/fleetforge/provision/errors"
)

// Protocol verbs carried in a command payload.
const (
	CmdRegister  = "REGISTER"
	CmdHeartbeat = "HEARTBEAT"
)

// Response statuses.
const (
	StatusOK    = "ok"
	StatusError = "error"
)

// ErrInvalidCommand indicates a payload that does not deserialize as a
// command.
var ErrInvalidCommand = errors.New("invalid command payload")

// Command is the device-to-server half of the protocol. Commands carry no
// identity claim: the identity acted upon is always the one bound to the
// connection at handshake time.
type Command struct {
	Command string `json:"command"`
}

// Response is the server-to-device half of the protocol.
type Response struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}

// Kind is the closed set of dispatch outcomes for a received command.
// Decoding happens once, at the protocol boundary.
type Kind int

const (
	KindRegister Kind = iota
	KindHeartbeat
	KindUnsupported
)

// DecodeCommand parses a frame payload into a command kind. An unsupported
// verb is a valid decode: the session answers it and continues, while
// ErrInvalidCommand means the payload itself was malformed.
func DecodeCommand(payload []byte) (Kind, string, error) {
	var cmd Command
	if err := json.Unmarshal(payload, &cmd); err != nil {
		return KindUnsupported, "", errors.Wrap(ErrInvalidCommand, err)
	}

	switch cmd.Command {
	case CmdRegister:
		return KindRegister, cmd.Command, nil
	case CmdHeartbeat:
		return KindHeartbeat, cmd.Command, nil
	default:
		return KindUnsupported, cmd.Command, nil
	}
}

// EncodeCommand serializes a command payload for the given verb.
func EncodeCommand(verb string) ([]byte, error) {
	return json.Marshal(Command{Command: verb})
}

// DecodeResponse parses a frame payload into a response.
func DecodeResponse(payload []byte) (Response, error) {
	var res Response
	if err := json.Unmarshal(payload, &res); err != nil {
		return Response{}, err
	}
	return res, nil
}

// EncodeResponse serializes a response payload.
func EncodeResponse(res Response) ([]byte, error) {
	return json.Marshal(res)
}

// OK returns a success response with the given message.
func OK(message string) Response {
	return Response{Status: StatusOK, Message: message}
}

// Error returns an error response with the given message.
func Error(message string) Response {
	return Response{Status: StatusError, Message: message}
}
