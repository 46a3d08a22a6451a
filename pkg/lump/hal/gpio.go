package hal

import "github.com/golang/glog"

// NopGPIO implements GPIO for ports whose transport has no usable pin
// control, such as USB serial adapters or websocket bridges. Host
// auto-detection still works when the host volunteers CMD_SPEED without
// observing the TX line.
type NopGPIO struct{}

// SetOutput implements GPIO.
func (NopGPIO) SetOutput(pin uint8) { glog.V(4).Infof("gpio: pin %d output", pin) }

// DriveLow implements GPIO.
func (NopGPIO) DriveLow(pin uint8) { glog.V(4).Infof("gpio: pin %d low", pin) }

// DriveHigh implements GPIO.
func (NopGPIO) DriveHigh(pin uint8) { glog.V(4).Infof("gpio: pin %d high", pin) }
