package firmware

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestMailbox(t *testing.T) {
	var m Mailbox
	var got []int
	m.Tick()

	m.Post(func() { got = append(got, 1) })
	m.Post(func() { got = append(got, 2) })
	require.Empty(t, got, "posted calls wait for the next tick")

	m.Tick()
	require.Equal(t, []int{1, 2}, got)

	m.Tick()
	require.Equal(t, []int{1, 2}, got, "queue drains")
}
