// Package devices contains ready-made LUMP device definitions used by
// the bundled commands.
package devices

import (
	"github.com/bricktalks/lump.go/pkg/lump"
	"github.com/bricktalks/lump.go/pkg/lump/hal"
)

// DistanceSensorType is the device type id the demo distance sensor
// advertises during the handshake.
const DistanceSensorType byte = 0x3E

// DistanceModes builds the mode catalog of the demo distance sensor:
// a long-range distance reading in millimeters, a short-range reading
// and a writable light ring.
func DistanceModes() []lump.Mode {
	return []lump.Mode{
		lump.NewMode(lump.ModeConfig{
			Name:     "DISTL",
			DataType: lump.Data16,
			NumData:  1,
			Figures:  4,
			Symbol:   "mm",
			Raw:      lump.Span(0, 2500),
			Pct:      lump.Span(0, 100),
			SI:       lump.Span(0, 2500),
			MapIn:    lump.MappingAbs,
		}),
		lump.NewMode(lump.ModeConfig{
			Name:     "DISTS",
			DataType: lump.Data16,
			NumData:  1,
			Figures:  4,
			Decimals: 1,
			Symbol:   "mm",
			Raw:      lump.Span(0, 320),
			Pct:      lump.Span(0, 100),
			SI:       lump.Span(0, 320),
			MapIn:    lump.MappingAbs,
		}),
		lump.NewMode(lump.ModeConfig{
			Name:     "LIGHT",
			DataType: lump.Data8,
			NumData:  4,
			Figures:  3,
			Symbol:   "pct",
			Raw:      lump.Span(0, 100),
			Pct:      lump.Span(0, 100),
			SI:       lump.Span(0, 100),
			MapOut:   lump.MappingAbs,
		}),
	}
}

// NewDistanceSensor creates the demo distance sensor on the given port.
func NewDistanceSensor(port hal.Port, rxPin, txPin uint8, opts ...lump.Option) (*lump.Device, error) {
	return lump.NewDevice(port, rxPin, txPin, DistanceSensorType, lump.SpeedLPF2, DistanceModes(), opts...)
}
