// lumpcli is an interactive console for exercising a LUMP device
// against a real or emulated hub. It runs the demo distance sensor on
// the chosen port and lets you inspect and poke it while the protocol
// engine keeps ticking in the background.
package main

import (
	"context"
	"encoding/hex"
	"flag"
	"fmt"
	"log"
	"strconv"

	"github.com/abiosoft/ishell"

	"github.com/bricktalks/lump.go/pkg/devices"
	"github.com/bricktalks/lump.go/pkg/firmware"
	"github.com/bricktalks/lump.go/pkg/lump"
	"github.com/bricktalks/lump.go/pkg/lump/hal"
	"github.com/bricktalks/lump.go/pkg/lump/hal/serialport"
	wsport "github.com/bricktalks/lump.go/pkg/lump/hal/ws"
)

var (
	serialDev  = "/dev/ttyUSB0"
	wsURL      = ""
	detectHost = true
)

func init() {
	flag.StringVar(&serialDev, "serial", serialDev, "Serial device connected to the hub.")
	flag.StringVar(&wsURL, "ws", wsURL, "Websocket URL of an emulated hub (overrides -serial).")
	flag.BoolVar(&detectHost, "detect-host", detectHost, "Listen for an LPF2 host during auto-ID.")
}

// console owns the device and the mailbox marshalling shell commands
// onto the tick loop.
type console struct {
	dev  *lump.Device
	mail *firmware.Mailbox
}

func (cs *console) do(fn func()) {
	done := make(chan struct{})
	cs.mail.Post(func() {
		fn()
		close(done)
	})
	<-done
}

func (cs *console) status(c *ishell.Context) {
	cs.do(func() {
		c.Printf("state: %v\n", cs.dev.State())
		c.Printf("mode:  %d\n", cs.dev.Mode())
		c.Printf("communicating: %v\n", cs.dev.IsCommunicating())
	})
}

func (cs *console) modes(c *ishell.Context) {
	cs.do(func() {
		for i, m := range cs.dev.Modes() {
			rw := "ro"
			if m.Writable() {
				rw = "rw"
			}
			c.Printf("%2d %-11s type=%d num=%d size=%d %s %s\n",
				i, m.Name(), m.DataType(), m.NumData(), m.DataMsgSize(), rw, m.Symbol())
		}
	})
}

func (cs *console) send(c *ishell.Context) {
	if len(c.Args) == 0 {
		c.Println("usage: send <hex bytes> [mode]")
		return
	}
	data, err := hex.DecodeString(c.Args[0])
	if err != nil {
		c.Err(err)
		return
	}
	mode := int(-1)
	if len(c.Args) > 1 {
		if mode, err = strconv.Atoi(c.Args[1]); err != nil {
			c.Err(err)
			return
		}
	}
	cs.do(func() {
		var err error
		if mode < 0 {
			err = cs.dev.Send(data)
		} else {
			err = cs.dev.SendToMode(data, uint8(mode))
		}
		if err != nil {
			c.Err(err)
		}
	})
}

func (cs *console) recv(c *ishell.Context) {
	cs.do(func() {
		if cs.dev.HasCmdWriteData() {
			c.Printf("write: %x\n", cs.dev.ReadCmdWriteData())
		}
		for i := range cs.dev.Modes() {
			if cs.dev.HasDataMsg(uint8(i)) {
				c.Printf("data[%d]: %x\n", i, cs.dev.ReadDataMsg(uint8(i)))
			}
		}
	})
}

func main() {
	flag.Parse()

	var port hal.Port
	if wsURL != "" {
		port = wsport.New(wsURL)
	} else {
		port = serialport.New(serialDev)
	}

	dev, err := devices.NewDistanceSensor(port, 0, 1, lump.WithHostTypeDetection(detectHost))
	if err != nil {
		log.Fatalln(err)
	}
	dev.Begin()
	defer dev.End()

	cs := &console{dev: dev, mail: &firmware.Mailbox{}}

	loop := firmware.NewLoop().
		AddTicker(firmware.TickFunc(dev.Run)).
		AddTicker(cs.mail)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go loop.Run(ctx)

	shell := ishell.New()
	shell.Println("LUMP device console")
	shell.SetPrompt(fmt.Sprintf("[%s] > ", devName()))
	shell.AddCmd(&ishell.Cmd{Name: "status", Help: "show device state", Func: cs.status})
	shell.AddCmd(&ishell.Cmd{Name: "modes", Help: "dump the mode catalog", Func: cs.modes})
	shell.AddCmd(&ishell.Cmd{Name: "send", Help: "send <hex bytes> [mode]", Func: cs.send})
	shell.AddCmd(&ishell.Cmd{Name: "recv", Help: "show pending host writes", Func: cs.recv})
	shell.Run()
}

func devName() string {
	if wsURL != "" {
		return wsURL
	}
	return serialDev
}
