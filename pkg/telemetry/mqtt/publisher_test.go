package mqtt

import (
	"encoding/json"
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

type capturePub struct {
	topics   []string
	payloads [][]byte
}

func (p *capturePub) Publish(topic string, payload []byte) error {
	p.topics = append(p.topics, topic)
	p.payloads = append(p.payloads, payload)
	return nil
}

func TestDevicePublisherStatus(t *testing.T) {
	dev, err := lump.NewDevice(nullPort{}, 0, 1, 0x41, lump.SpeedLPF2, []lump.Mode{
		lump.NewMode(lump.ModeConfig{Name: "TEST", DataType: lump.Data8, NumData: 1}),
	})
	require.NoError(t, err)
	dev.Begin()

	pub := &capturePub{}
	p := NewDevicePublisher(dev, pub)

	p.Tick()
	require.Equal(t, []string{"status"}, pub.topics)
	var st Status
	require.NoError(t, json.Unmarshal(pub.payloads[0], &st))
	require.Equal(t, "InitWdt", st.State)
	require.False(t, st.Communicating)

	// no change, no publish
	p.Tick()
	require.Len(t, pub.topics, 1)

	// device advances, the transition is published
	dev.Run()
	p.Tick()
	require.Len(t, pub.topics, 2)
	require.NoError(t, json.Unmarshal(pub.payloads[1], &st))
	require.Equal(t, "Reset", st.State)
}
