package hal

import "time"

// SystemClock implements Clock on the wall clock, counting milliseconds
// since creation so the uint32 counter starts near zero.
type SystemClock struct {
	epoch time.Time
}

// NewSystemClock creates a SystemClock.
func NewSystemClock() *SystemClock {
	return &SystemClock{epoch: time.Now()}
}

// Millis implements Clock.
func (c *SystemClock) Millis() uint32 {
	return uint32(time.Since(c.epoch) / time.Millisecond)
}
