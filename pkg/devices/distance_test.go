package devices

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/bricktalks/lump.go/pkg/lump"
)

type nullPort struct{}

func (nullPort) Begin(uint32) error      { return nil }
func (nullPort) End() error              { return nil }
func (nullPort) WriteByte(byte) error    { return nil }
func (nullPort) Write([]byte) error      { return nil }
func (nullPort) ReadByte() (byte, error) { return 0, nil }
func (nullPort) Available() bool         { return false }
func (nullPort) Flush() error            { return nil }

func TestDistanceModes(t *testing.T) {
	modes := DistanceModes()
	require.Len(t, modes, 3)
	require.Equal(t, "DISTL", modes[0].Name())
	require.Equal(t, "DISTS", modes[1].Name())
	require.Equal(t, "LIGHT", modes[2].Name())

	require.Equal(t, lump.Data16, modes[0].DataType())
	require.Equal(t, uint8(2), modes[0].DataMsgSize())
	require.False(t, modes[0].Writable())

	// only the light ring accepts host writes
	require.True(t, modes[2].Writable())
	require.Equal(t, uint8(4), modes[2].DataMsgSize())
}

func TestNewDistanceSensor(t *testing.T) {
	dev, err := NewDistanceSensor(nullPort{}, 0, 1)
	require.NoError(t, err)
	require.Len(t, dev.Modes(), 3)
	require.False(t, dev.IsCommunicating())
}
