package devices

import (
	"github.com/golang/glog"

	"github.com/bricktalks/lump.go/pkg/lump"
)

// DistanceSimulator feeds the demo distance sensor with a synthetic
// triangle-wave reading. It sends on every host NACK and additionally
// at a fixed tick interval while communicating, the cadence real
// sensors use.
type DistanceSimulator struct {
	Device *lump.Device
	// Period is the number of ticks between unsolicited sends.
	Period int

	ticks   int
	reading int16
	rising  bool
}

// NewDistanceSimulator creates a simulator sending every period ticks.
func NewDistanceSimulator(dev *lump.Device, period int) *DistanceSimulator {
	return &DistanceSimulator{Device: dev, Period: period, rising: true}
}

// Tick implements firmware.Ticker.
func (s *DistanceSimulator) Tick() {
	if !s.Device.IsCommunicating() {
		s.ticks = 0
		return
	}

	if s.Device.HasCmdWriteData() {
		glog.V(2).Infof("sim: host write %x", s.Device.ReadCmdWriteData())
	}
	if s.Device.HasDataMsg(2) {
		glog.V(2).Infof("sim: light ring %x", s.Device.ReadDataMsg(2))
	}

	s.ticks++
	send := s.Device.HasNack() || s.ticks >= s.Period
	if !send {
		return
	}
	s.ticks = 0
	s.advance()
	if err := s.Device.SendInt16(s.reading); err != nil {
		glog.Warningf("sim: send: %v", err)
	}
}

func (s *DistanceSimulator) advance() {
	const step = 5
	if s.rising {
		s.reading += step
		if s.reading >= 2500 {
			s.rising = false
		}
	} else {
		s.reading -= step
		if s.reading <= 0 {
			s.rising = true
		}
	}
}
