package lump

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNewModeName(t *testing.T) {
	testCases := []struct {
		name   string
		in     string
		expect string
	}{
		{"valid", "DIST", "DIST"},
		{"lower case", "dist", "dist"},
		{"empty", "", "null"},
		{"digit start", "3sen", "null"},
		{"symbol start", "_abc", "null"},
		{"truncated", "ABCDEFGHIJKLMNOP", "ABCDEFGHIJK"},
		{"exactly max", "ABCDEFGHIJK", "ABCDEFGHIJK"},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			m := NewMode(ModeConfig{Name: tc.in, DataType: Data8, NumData: 1})
			require.Equal(t, tc.expect, m.Name())
		})
	}
}

func TestNewModeFlagsInName(t *testing.T) {
	blob := "LPF2\x00\x00\x00\x00\x00\x40\x00\x84"
	m := NewMode(ModeConfig{Name: blob, DataType: Data8, NumData: 1, FlagsInName: true})
	require.Equal(t, "LPF2", m.Name())
	require.Equal(t, byte(0x40), m.name[ShortNameMax+4])
	require.Equal(t, byte(0x84), m.name[ShortNameMax+6])
	// the trailing byte stays NUL
	require.Equal(t, byte(0), m.name[ShortNameMax+7])
}

func TestNewModeSymbol(t *testing.T) {
	m := NewMode(ModeConfig{Name: "M", DataType: Data8, NumData: 1, Symbol: "mm"})
	require.Equal(t, "mm", m.Symbol())

	m = NewMode(ModeConfig{Name: "M", DataType: Data8, NumData: 1, Symbol: "meters"})
	require.Equal(t, "mete", m.Symbol())

	m = NewMode(ModeConfig{Name: "M", DataType: Data8, NumData: 1})
	require.Equal(t, "", m.Symbol())
}

func TestNewModeDerivedSizes(t *testing.T) {
	testCases := []struct {
		name       string
		dataType   DataType
		numData    uint8
		expectNum  uint8
		expectSize uint8
	}{
		{"d8 single", Data8, 1, 1, 1},
		{"d8 full", Data8, 32, 32, 32},
		{"d8 clamped", Data8, 40, 32, 32},
		{"d16 full", Data16, 16, 16, 32},
		{"d16 clamped", Data16, 17, 16, 32},
		{"d32 clamped", Data32, 9, 8, 32},
		{"f32", DataF, 3, 3, 12},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			m := NewMode(ModeConfig{Name: "M", DataType: tc.dataType, NumData: tc.numData})
			require.Equal(t, tc.expectNum, m.NumData())
			require.Equal(t, tc.expectSize, m.DataMsgSize())
		})
	}
}

func TestNewModeDataMsgAllocation(t *testing.T) {
	m := NewMode(ModeConfig{Name: "M", DataType: Data16, NumData: 2})
	require.Nil(t, m.dataMsg)
	require.False(t, m.Writable())

	m = NewMode(ModeConfig{Name: "M", DataType: Data16, NumData: 2, MapOut: MappingAbs})
	require.NotNil(t, m.dataMsg)
	require.True(t, m.Writable())
	require.Len(t, m.dataMsg, 4)
}

func TestNewModeDisplayHints(t *testing.T) {
	m := NewMode(ModeConfig{Name: "M", DataType: Data8, NumData: 1, Figures: 31, Decimals: 18})
	require.Equal(t, uint8(15), m.figures)
	require.Equal(t, uint8(2), m.decimals)
}

func TestValueSpan(t *testing.T) {
	var absent ValueSpan
	require.False(t, absent.Present())
	require.False(t, absent.broadcast())

	s := Span(0, 100)
	require.True(t, s.Present())
	require.True(t, s.Valid())
	require.True(t, s.broadcast())
	require.Equal(t, float32(0), s.Min())
	require.Equal(t, float32(100), s.Max())

	inverted := Span(10, -10)
	require.True(t, inverted.Present())
	require.False(t, inverted.Valid())
	require.False(t, inverted.broadcast())
}
