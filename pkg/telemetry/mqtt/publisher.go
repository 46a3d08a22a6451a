package mqtt

import (
	"encoding/hex"
	"encoding/json"
	"strconv"

	"github.com/golang/glog"

	"github.com/bricktalks/lump.go/pkg/lump"
)

// Publisher is the sink DevicePublisher writes to, implemented by
// *Queue.
type Publisher interface {
	Publish(topic string, payload []byte) error
}

// Status is the JSON document published on lifecycle changes.
type Status struct {
	State         string `json:"state"`
	Mode          uint8  `json:"mode"`
	Communicating bool   `json:"communicating"`
}

// DevicePublisher mirrors a device onto MQTT topics: "status" carries
// lifecycle transitions, "write" the CMD_WRITE payloads and
// "data/<mode>" the DATA payloads the host wrote.
//
// It consumes the device's read-and-clear flags, so it must be the only
// consumer of inbound host writes when installed.
type DevicePublisher struct {
	Device *lump.Device
	Pub    Publisher

	started   bool
	lastState lump.DeviceState
	lastMode  uint8
}

// NewDevicePublisher creates a DevicePublisher.
func NewDevicePublisher(dev *lump.Device, pub Publisher) *DevicePublisher {
	return &DevicePublisher{Device: dev, Pub: pub}
}

// Tick implements firmware.Ticker. Run it on the same loop as the
// device.
func (p *DevicePublisher) Tick() {
	state, mode := p.Device.State(), p.Device.Mode()
	if !p.started || state != p.lastState || mode != p.lastMode {
		p.started = true
		p.lastState, p.lastMode = state, mode
		p.publishJSON("status", Status{
			State:         state.String(),
			Mode:          mode,
			Communicating: p.Device.IsCommunicating(),
		})
	}

	if p.Device.HasCmdWriteData() {
		p.publishHex("write", p.Device.ReadCmdWriteData())
	}
	for m := range p.Device.Modes() {
		if p.Device.HasDataMsg(uint8(m)) {
			p.publishHex("data/"+strconv.Itoa(m), p.Device.ReadDataMsg(uint8(m)))
		}
	}
}

func (p *DevicePublisher) publishJSON(topic string, v interface{}) {
	payload, err := json.Marshal(v)
	if err != nil {
		glog.Errorf("mqtt: marshal %s: %v", topic, err)
		return
	}
	if err := p.Pub.Publish(topic, payload); err != nil {
		glog.Warningf("mqtt: publish %s: %v", topic, err)
	}
}

func (p *DevicePublisher) publishHex(topic string, data []byte) {
	if err := p.Pub.Publish(topic, []byte(hex.EncodeToString(data))); err != nil {
		glog.Warningf("mqtt: publish %s: %v", topic, err)
	}
}
