package lump

import (
	"encoding/binary"
	"math"
)

// Decode helpers for payloads the host wrote via CMD_WRITE or DATA
// frames. All multi-byte values on the wire are little-endian.

// DecodeInt16 decodes the first DATA16 value of a payload.
func DecodeInt16(p []byte) int16 {
	return int16(binary.LittleEndian.Uint16(p))
}

// DecodeInt32 decodes the first DATA32 value of a payload.
func DecodeInt32(p []byte) int32 {
	return int32(binary.LittleEndian.Uint32(p))
}

// DecodeFloat32 decodes the first DATAF value of a payload.
func DecodeFloat32(p []byte) float32 {
	return math.Float32frombits(binary.LittleEndian.Uint32(p))
}
