// Package serialport implements hal.Port on a real serial device via
// go.bug.st/serial.
package serialport

import (
	"fmt"
	"sync"

	"github.com/golang/glog"
	"go.bug.st/serial"
)

// Port adapts a serial device to hal.Port. A background reader feeds a
// buffered channel so Available and ReadByte never block the engine
// tick.
type Port struct {
	Device string

	mu     sync.Mutex
	port   serial.Port
	rx     chan byte
	done   chan struct{}
	closed sync.WaitGroup
}

// New creates a Port for the given device path, e.g. /dev/ttyUSB0.
func New(device string) *Port {
	return &Port{Device: device}
}

// Begin implements hal.Port.
func (p *Port) Begin(baud uint32) error {
	p.End()

	mode := &serial.Mode{
		BaudRate: int(baud),
		DataBits: 8,
		Parity:   serial.NoParity,
		StopBits: serial.OneStopBit,
	}
	port, err := serial.Open(p.Device, mode)
	if err != nil {
		return fmt.Errorf("serialport: open %s: %w", p.Device, err)
	}
	glog.V(2).Infof("serialport: %s open at %d baud", p.Device, baud)

	p.mu.Lock()
	p.port = port
	p.rx = make(chan byte, 256)
	p.done = make(chan struct{})
	p.mu.Unlock()

	p.closed.Add(1)
	go p.readLoop(port, p.rx, p.done)
	return nil
}

func (p *Port) readLoop(port serial.Port, rx chan byte, done chan struct{}) {
	defer p.closed.Done()
	buf := make([]byte, 64)
	for {
		select {
		case <-done:
			return
		default:
		}
		n, err := port.Read(buf)
		if err != nil {
			return
		}
		for _, b := range buf[:n] {
			select {
			case rx <- b:
			case <-done:
				return
			}
		}
	}
}

// End implements hal.Port.
func (p *Port) End() error {
	p.mu.Lock()
	port, done := p.port, p.done
	p.port, p.rx, p.done = nil, nil, nil
	p.mu.Unlock()
	if port == nil {
		return nil
	}
	close(done)
	err := port.Close()
	p.closed.Wait()
	return err
}

// WriteByte implements hal.Port.
func (p *Port) WriteByte(b byte) error {
	return p.Write([]byte{b})
}

// Write implements hal.Port.
func (p *Port) Write(buf []byte) error {
	p.mu.Lock()
	port := p.port
	p.mu.Unlock()
	if port == nil {
		return fmt.Errorf("serialport: %s not open", p.Device)
	}
	_, err := port.Write(buf)
	return err
}

// ReadByte implements hal.Port.
func (p *Port) ReadByte() (byte, error) {
	p.mu.Lock()
	rx := p.rx
	p.mu.Unlock()
	if rx == nil {
		return 0, fmt.Errorf("serialport: %s not open", p.Device)
	}
	select {
	case b := <-rx:
		return b, nil
	default:
		return 0, fmt.Errorf("serialport: no byte available")
	}
}

// Available implements hal.Port.
func (p *Port) Available() bool {
	p.mu.Lock()
	rx := p.rx
	p.mu.Unlock()
	return rx != nil && len(rx) > 0
}

// Flush implements hal.Port.
func (p *Port) Flush() error {
	p.mu.Lock()
	port := p.port
	p.mu.Unlock()
	if port == nil {
		return nil
	}
	return port.Drain()
}
