package main

import (
	"flag"
	"log"
	"os"

	"github.com/bricktalks/lump.go/pkg/devices"
	"github.com/bricktalks/lump.go/pkg/firmware"
	"github.com/bricktalks/lump.go/pkg/lump"
	"github.com/bricktalks/lump.go/pkg/lump/hal"
	"github.com/bricktalks/lump.go/pkg/lump/hal/serialport"
	wsport "github.com/bricktalks/lump.go/pkg/lump/hal/ws"
	"github.com/bricktalks/lump.go/pkg/telemetry/mqtt"
)

var (
	serialDev  = "/dev/ttyUSB0"
	wsURL      = ""
	mqttURL    = ""
	detectHost = true
	sendPeriod = 100
)

func init() {
	if val := os.Getenv("LUMP_SERIAL"); val != "" {
		serialDev = val
	}
	if val := os.Getenv("LUMP_MQTT_URL"); val != "" {
		mqttURL = val
	}
	flag.StringVar(&serialDev, "serial", serialDev, "Serial device connected to the hub.")
	flag.StringVar(&wsURL, "ws", wsURL, "Websocket URL of an emulated hub (overrides -serial).")
	flag.StringVar(&mqttURL, "mqtt", mqttURL, "MQTT broker URL for telemetry, e.g. mqtt://localhost:1883/lump/.")
	flag.BoolVar(&detectHost, "detect-host", detectHost, "Listen for an LPF2 host during auto-ID.")
	flag.IntVar(&sendPeriod, "send-period", sendPeriod, "Ticks between unsolicited data sends.")
}

func main() {
	flag.Parse()
	log.SetFlags(log.Lmicroseconds)

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

	loop := firmware.NewLoop().
		AddTicker(firmware.TickFunc(dev.Run)).
		AddTicker(devices.NewDistanceSimulator(dev, sendPeriod))

	if mqttURL != "" {
		q, err := mqtt.NewQueueFromURL(mqttURL)
		if err != nil {
			log.Fatalln(err)
		}
		if err := q.Connect(); err != nil {
			log.Fatalln(err)
		}
		defer q.Close()
		loop.AddTicker(mqtt.NewDevicePublisher(dev, q))
	}

	loop.Main()
}
