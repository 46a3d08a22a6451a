package lump

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestChecksum(t *testing.T) {
	testCases := []struct {
		msg    []byte
		expect byte
	}{
		{[]byte{}, 0xFF},
		{[]byte{0x00}, 0xFF},
		{[]byte{0x40, 0x41}, 0xFE},
		{[]byte{0x52, 0x00, 0x00, 0x00, 0x00}, 0xAD},
		{[]byte{0x5F, 0x00, 0x00, 0x00, 0x10, 0x00, 0x00, 0x00, 0x10}, 0xA0},
	}
	for _, tc := range testCases {
		require.Equalf(t, tc.expect, Checksum(tc.msg), "msg %#x", tc.msg)
	}
}

func TestLog2(t *testing.T) {
	expect := map[uint8]uint8{1: 0, 2: 1, 4: 2, 8: 3, 16: 4, 32: 5}
	for x := uint8(0); x < 64; x++ {
		l, ok := expect[x]
		if !ok {
			l = 255
		}
		require.Equalf(t, l, Log2(x), "x=%d", x)
	}
	require.Equal(t, uint8(255), Log2(64))
	require.Equal(t, uint8(255), Log2(255))
}

func TestCeilPow2(t *testing.T) {
	for x := uint8(0); x <= 32; x++ {
		var expect uint8
		switch {
		case x <= 2:
			expect = x
		case x <= 4:
			expect = 4
		case x <= 8:
			expect = 8
		case x <= 16:
			expect = 16
		default:
			expect = 32
		}
		require.Equalf(t, expect, CeilPow2(x), "x=%d", x)
	}
	require.Equal(t, uint8(255), CeilPow2(33))
	require.Equal(t, uint8(255), CeilPow2(255))
}

func TestEncodeHeader(t *testing.T) {
	testCases := []struct {
		msgType byte
		size    uint8
		cmd     byte
		expect  byte
	}{
		{MsgTypeCmd, 1, CmdType, 0x40},
		{MsgTypeCmd, 4, CmdModes, 0x51},
		{MsgTypeCmd, 4, CmdSpeed, 0x52},
		{MsgTypeCmd, 8, CmdVersion, 0x5F},
		{MsgTypeInfo, 4, 0, 0x90},
		{MsgTypeInfo, 2, 0, 0x88},
		{MsgTypeData, 1, 2, 0xC2},
		{MsgTypeData, 32, 7, 0xEF},
	}
	for _, tc := range testCases {
		t.Run(fmt.Sprintf("%#x_%d_%#x", tc.msgType, tc.size, tc.cmd), func(t *testing.T) {
			h, err := EncodeHeader(tc.msgType, tc.size, tc.cmd)
			require.NoError(t, err)
			require.Equal(t, tc.expect, h)
			require.Equal(t, tc.size, payloadSizeOf(h))
		})
	}

	_, err := EncodeHeader(MsgTypeData, 3, 0)
	require.Equal(t, ErrInvalidPayloadSize, err)
	_, err = EncodeHeader(MsgTypeData, 0, 0)
	require.Equal(t, ErrInvalidPayloadSize, err)
}

func TestVersionToBCD(t *testing.T) {
	testCases := []struct {
		version uint32
		expect  uint32
	}{
		{0, 0},
		{10000000, 0x10000000},
		{10203040, 0x10203040},
		{99999999, 0x99999999},
		{10000512, 0x10000512},
	}
	for _, tc := range testCases {
		require.Equalf(t, tc.expect, VersionToBCD(tc.version), "version %d", tc.version)
	}
}

func TestDataTypeSize(t *testing.T) {
	require.Equal(t, uint8(1), DataTypeSize(Data8))
	require.Equal(t, uint8(2), DataTypeSize(Data16))
	require.Equal(t, uint8(4), DataTypeSize(Data32))
	require.Equal(t, uint8(4), DataTypeSize(DataF))
	require.Equal(t, uint8(0), DataTypeSize(DataType(9)))
}
