package protocol

import "errors"

var (
	// ErrMalformed is returned when an inbound message lacks a required field
	// or is not a JSON object.
	ErrMalformed = errors.New("malformed message")
	// ErrUnknownStatus is returned for a status the phase does not define.
	ErrUnknownStatus = errors.New("unknown status")
	// ErrNoPhase is returned when no message is expected in the current phase.
	ErrNoPhase = errors.New("no message expected in this phase")
	// ErrNotConnected is returned by Send when no channel is open.
	ErrNotConnected = errors.New("not connected")
	// ErrSendQueueFull is returned when the write pump cannot keep up.
	ErrSendQueueFull = errors.New("send queue full")
)
