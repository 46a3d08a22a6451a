package lump

import "errors"

var (
	// ErrInvalidPayloadSize indicates a payload size that is not an
	// encodable power of two.
	ErrInvalidPayloadSize = errors.New("invalid payload size")
	// ErrPayloadTooLarge indicates a payload exceeding the 32-byte limit.
	ErrPayloadTooLarge = errors.New("payload too large")
	// ErrEmptyPayload indicates an attempt to send an empty payload.
	ErrEmptyPayload = errors.New("empty payload")
	// ErrNotCommunicating indicates the handshake has not completed yet.
	ErrNotCommunicating = errors.New("not communicating")
	// ErrNoModes indicates a device constructed without any mode.
	ErrNoModes = errors.New("no modes")
)
