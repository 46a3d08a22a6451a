// Package hal defines the hardware capabilities the LUMP engine
// consumes: byte-level UART access, pin control and a millisecond
// clock. Implementations live in subpackages (serialport, ws) or in
// target-specific firmware.
package hal

// Port is a half-duplex byte port. The engine re-opens the port at
// different baud rates during the handshake, reads it one byte at a
// time and never blocks: Available gates every ReadByte.
type Port interface {
	// Begin opens the port at the given baud rate, closing it first if
	// it is already open.
	Begin(baud uint32) error
	// End closes the port. Ending a closed port is a no-op.
	End() error
	// WriteByte writes a single byte.
	WriteByte(b byte) error
	// Write writes the whole buffer contiguously.
	Write(p []byte) error
	// ReadByte reads one received byte. Callers check Available first.
	ReadByte() (byte, error)
	// Available reports whether a received byte is waiting.
	Available() bool
	// Flush blocks until all written bytes are on the wire.
	Flush() error
}

// GPIO drives digital output pins. The engine only needs it to hold the
// TX pin low during host auto-detection and release it afterwards.
type GPIO interface {
	SetOutput(pin uint8)
	DriveLow(pin uint8)
	DriveHigh(pin uint8)
}

// Clock supplies monotonic milliseconds for the protocol timeouts.
type Clock interface {
	Millis() uint32
}
