package firmware

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestLoopTicks(t *testing.T) {
	var ticks int64
	l := NewLoop()
	l.Interval = time.Millisecond
	l.AddTicker(TickFunc(func() { atomic.AddInt64(&ticks, 1) }))

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	err := l.Run(ctx)
	require.Equal(t, context.DeadlineExceeded, err)
	require.Greater(t, atomic.LoadInt64(&ticks), int64(10))
}

type errRunnable struct{ err error }

func (r errRunnable) Run(ctx context.Context) error {
	if r.err != nil {
		return r.err
	}
	<-ctx.Done()
	return ctx.Err()
}

func TestLoopStopsOnRunnerFailure(t *testing.T) {
	errBroker := errors.New("broker gone")
	l := NewLoop()
	l.Interval = time.Millisecond
	l.AddRunnable(errRunnable{err: errBroker}, errRunnable{})

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	err := l.Run(ctx)
	require.ErrorIs(t, err, errBroker)
}

func TestLoopOutlivesCleanRunnerExit(t *testing.T) {
	done := errRunnable{err: context.Canceled}
	var ticks int64
	l := NewLoop()
	l.Interval = time.Millisecond
	l.AddRunnable(done)
	l.AddTicker(TickFunc(func() { atomic.AddInt64(&ticks, 1) }))

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	err := l.Run(ctx)
	require.Equal(t, context.DeadlineExceeded, err)
	require.Greater(t, atomic.LoadInt64(&ticks), int64(10))
}
