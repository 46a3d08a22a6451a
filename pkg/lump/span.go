package lump

// ValueSpan describes a raw, percent or SI display range of a mode.
// The zero value is an absent span: the corresponding INFO frame is
// skipped during the handshake and the host falls back to its default
// range.
type ValueSpan struct {
	min, max       float32
	valid, present bool
}

// Span creates a value span with explicit bounds. The span is valid iff
// min <= max; an invalid span is still present but never broadcast.
func Span(min, max float32) ValueSpan {
	return ValueSpan{min: min, max: max, valid: min <= max, present: true}
}

// Min returns the lower bound.
func (s ValueSpan) Min() float32 { return s.min }

// Max returns the upper bound.
func (s ValueSpan) Max() float32 { return s.max }

// Valid reports whether min <= max.
func (s ValueSpan) Valid() bool { return s.valid }

// Present reports whether the span was given explicit bounds.
func (s ValueSpan) Present() bool { return s.present }

// broadcast reports whether the span takes part in the handshake.
func (s ValueSpan) broadcast() bool { return s.present && s.valid }
