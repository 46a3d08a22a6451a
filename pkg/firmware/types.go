// Package firmware provides the cooperative scheduling glue around the
// LUMP engine: a fixed-interval tick loop with background runners and a
// mailbox for marshalling calls onto the loop.
package firmware

import "context"

// Runnable is a background worker started alongside the tick loop,
// such as a telemetry connection. It runs until its context is
// canceled; a non-nil, non-cancellation error stops the whole loop.
type Runnable interface {
	Run(context.Context) error
}

// Ticker is invoked once per loop iteration. The LUMP device engine is
// a Ticker: each tick performs one bounded unit of protocol work and
// never blocks.
type Ticker interface {
	Tick()
}

// TickFunc is the func form of Ticker.
type TickFunc func()

// Tick implements Ticker.
func (f TickFunc) Tick() { f() }
