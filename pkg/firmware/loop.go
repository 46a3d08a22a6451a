package firmware

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/golang/glog"
)

// DefaultInterval keeps the tick rate comfortably above the fastest
// LUMP byte rate (115200 baud is roughly 87 us per byte, buffered by
// the port driver).
const DefaultInterval = time.Millisecond

// Loop drives Tickers at a fixed interval from a single goroutine.
// Everything the LUMP engine touches runs on the loop; background
// Runnables run in their own goroutines and end the loop if they fail.
type Loop struct {
	Interval time.Duration

	tickers []Ticker
	runners []Runnable
}

// NewLoop creates a Loop with the default interval.
func NewLoop() *Loop {
	return &Loop{Interval: DefaultInterval}
}

// AddTicker registers tickers with the loop.
func (l *Loop) AddTicker(tickers ...Ticker) *Loop {
	l.tickers = append(l.tickers, tickers...)
	for _, t := range tickers {
		if runner, ok := t.(Runnable); ok {
			l.runners = append(l.runners, runner)
		}
	}
	return l
}

// AddRunnable adds background Runnables started alongside the loop.
func (l *Loop) AddRunnable(runnables ...Runnable) *Loop {
	l.runners = append(l.runners, runnables...)
	return l
}

// Run implements Runnable. It starts the background runnables, then
// ticks until the context is canceled or a runnable fails. The first
// failure wins; the remaining runnables are canceled and drained before
// returning.
func (l *Loop) Run(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	errCh := make(chan error, 1)
	for _, r := range l.runners {
		go func(r Runnable) { errCh <- r.Run(ctx) }(r)
	}
	pending := len(l.runners)
	defer func() {
		cancel()
		for ; pending > 0; pending-- {
			<-errCh
		}
	}()

	interval := l.Interval
	if interval <= 0 {
		interval = DefaultInterval
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case err := <-errCh:
			pending--
			if err != nil && err != context.Canceled {
				return fmt.Errorf("firmware: background runner: %w", err)
			}
		case <-ticker.C:
			for _, t := range l.tickers {
				t.Tick()
			}
		}
	}
}

// Main runs the loop from a firmware main, stopping cleanly on Ctrl-C
// or SIGTERM.
func (l *Loop) Main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	err := l.Run(ctx)
	if ctx.Err() != nil {
		glog.Info("stop requested")
		return
	}
	if err != nil && err != context.Canceled {
		log.Fatalln(err)
	}
}
