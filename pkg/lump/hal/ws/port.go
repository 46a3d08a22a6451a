// Package ws implements hal.Port over a websocket, for talking to
// emulated hubs. Each binary websocket message carries a run of raw
// UART bytes.
package ws

import (
	"fmt"
	"sync"

	"github.com/golang/glog"
	"golang.org/x/net/websocket"
)

// Port adapts a websocket connection to hal.Port. Baud rates have no
// transport meaning here; Begin closes any open connection, dials a new
// one with an empty receive queue and logs the requested speed so
// handshake traces stay readable.
type Port struct {
	URL    string
	Origin string

	mu   sync.Mutex
	conn *websocket.Conn
	rx   []byte
}

// New creates a Port dialing the given websocket URL.
func New(url string) *Port {
	return &Port{URL: url, Origin: "http://localhost/"}
}

// Begin implements hal.Port.
func (p *Port) Begin(baud uint32) error {
	p.End()
	conn, err := websocket.Dial(p.URL, "", p.Origin)
	if err != nil {
		return fmt.Errorf("ws: dial %s: %w", p.URL, err)
	}
	glog.V(2).Infof("ws: %s open, logical baud %d", p.URL, baud)

	p.mu.Lock()
	p.conn = conn
	p.rx = nil
	p.mu.Unlock()

	go p.readLoop(conn)
	return nil
}

func (p *Port) readLoop(conn *websocket.Conn) {
	for {
		var msg []byte
		if err := websocket.Message.Receive(conn, &msg); err != nil {
			return
		}
		p.mu.Lock()
		if p.conn == conn {
			p.rx = append(p.rx, msg...)
		}
		p.mu.Unlock()
	}
}

// End implements hal.Port.
func (p *Port) End() error {
	p.mu.Lock()
	conn := p.conn
	p.conn, p.rx = nil, nil
	p.mu.Unlock()
	if conn == nil {
		return nil
	}
	return conn.Close()
}

// WriteByte implements hal.Port.
func (p *Port) WriteByte(b byte) error {
	return p.Write([]byte{b})
}

// Write implements hal.Port.
func (p *Port) Write(buf []byte) error {
	p.mu.Lock()
	conn := p.conn
	p.mu.Unlock()
	if conn == nil {
		return fmt.Errorf("ws: %s not open", p.URL)
	}
	return websocket.Message.Send(conn, buf)
}

// ReadByte implements hal.Port.
func (p *Port) ReadByte() (byte, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if len(p.rx) == 0 {
		return 0, fmt.Errorf("ws: no byte available")
	}
	b := p.rx[0]
	p.rx = p.rx[1:]
	return b, nil
}

// Available implements hal.Port.
func (p *Port) Available() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.rx) > 0
}

// Flush implements hal.Port.
func (p *Port) Flush() error { return nil }
