package lump

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDecode(t *testing.T) {
	require.Equal(t, int16(-2), DecodeInt16([]byte{0xFE, 0xFF}))
	require.Equal(t, int32(0x01020304), DecodeInt32([]byte{0x04, 0x03, 0x02, 0x01}))
	require.Equal(t, float32(1.0), DecodeFloat32([]byte{0x00, 0x00, 0x80, 0x3F}))
}
