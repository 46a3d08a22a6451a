package lump

import (
	"encoding/binary"
	"math"

	"github.com/golang/glog"

	"github.com/bricktalks/lump.go/pkg/lump/hal"
)

// DeviceState is the state of the device lifecycle machine. States at
// or beyond StateInitMode form the communication phase.
type DeviceState uint8

const (
	// Initialization phase
	StateInitWdt DeviceState = iota
	StateReset
	// Handshake phase
	StateInitAutoID
	StateWaitingAutoID
	StateInitUart
	StateWaitingUartInit
	StateSendingType
	StateSendingModes
	StateSendingSpeed
	StateSendingVersion
	StateSendingName
	StateSendingValueSpans
	StateSendingSymbol
	StateSendingMapping
	StateSendingFormat
	StateInterModePause
	StateSendingAck
	StateWaitingAckReply
	StateSwitchingUartSpeed
	// Communication phase
	StateInitMode
	StateCommunicating
	StateSendingNack
)

var stateNames = [...]string{
	"InitWdt", "Reset",
	"InitAutoID", "WaitingAutoID", "InitUart", "WaitingUartInit",
	"SendingType", "SendingModes", "SendingSpeed", "SendingVersion",
	"SendingName", "SendingValueSpans", "SendingSymbol", "SendingMapping",
	"SendingFormat", "InterModePause", "SendingAck", "WaitingAckReply",
	"SwitchingUartSpeed",
	"InitMode", "Communicating", "SendingNack",
}

// String implements fmt.Stringer.
func (s DeviceState) String() string {
	if int(s) < len(stateNames) {
		return stateNames[s]
	}
	return "Unknown"
}

// Device is a LUMP peripheral. It is driven by calling Run repeatedly
// from a single goroutine; Run never blocks and performs at most one
// lifecycle transition and one byte of receive work per call.
type Device struct {
	port  hal.Port
	gpio  hal.GPIO
	clock hal.Clock

	rxPin uint8
	txPin uint8

	typ        byte
	speed      uint32
	modes      []Mode
	numModes   uint8
	view       uint8
	fwVersion  uint32
	hwVersion  uint32
	detectHost bool

	initWdtFn   func()
	feedWdtFn   func()
	deinitWdtFn func()

	isLpf2Host bool

	deviceMode uint8
	extMode    uint8
	modeIdx    int8

	deviceState     DeviceState
	prevDeviceState DeviceState
	rxState         receiverState

	currentMillis uint32
	prevMillis    uint32
	nackMillis    uint32

	txBuf [bufferSize]byte
	rxBuf [bufferSize]byte
	rxLen uint8
	rxIdx uint8
	nack  bool

	cmdWriteData [MaxMsgSize]byte
	cmdWriteSize uint8
	cmdWrite     bool
}

// Option configures a Device.
type Option func(*Device)

// WithView sets how many modes appear in the host's view and data log.
// ViewAll (the default) shows every mode.
func WithView(view uint8) Option {
	return func(d *Device) { d.view = view }
}

// WithVersion sets the firmware and hardware versions, each an 8-digit
// decimal in [10000000, 99999999]. Out-of-range values fall back to
// 10000000 (v1.0.00.0000).
func WithVersion(fw, hw uint32) Option {
	return func(d *Device) {
		d.fwVersion = normalizeVersion(fw)
		d.hwVersion = normalizeVersion(hw)
	}
}

// WithHostTypeDetection enables or disables listening for an LPF2 host
// during auto-ID. It defaults to true; disable it on targets whose UART
// cannot release the TX pin without being closed first.
func WithHostTypeDetection(on bool) Option {
	return func(d *Device) { d.detectHost = on }
}

// WithGPIO sets the pin driver used to signal UART mode on the TX pin.
func WithGPIO(g hal.GPIO) Option {
	return func(d *Device) { d.gpio = g }
}

// WithClock sets the millisecond time source.
func WithClock(c hal.Clock) Option {
	return func(d *Device) { d.clock = c }
}

func normalizeVersion(v uint32) uint32 {
	if v < 10000000 || v > 99999999 {
		return 10000000
	}
	return v
}

// NewDevice creates a device of the given type with the given modes.
// At most 16 modes are used; extras are ignored.
func NewDevice(port hal.Port, rxPin, txPin uint8, typ byte, speed uint32, modes []Mode, opts ...Option) (*Device, error) {
	if len(modes) == 0 {
		return nil, ErrNoModes
	}
	if len(modes) > MaxExtMode+1 {
		modes = modes[:MaxExtMode+1]
	}
	d := &Device{
		port:       port,
		gpio:       hal.NopGPIO{},
		clock:      hal.NewSystemClock(),
		rxPin:      rxPin,
		txPin:      txPin,
		typ:        typ,
		speed:      speed,
		modes:      modes,
		numModes:   uint8(len(modes)),
		view:       ViewAll,
		fwVersion:  10000000,
		hwVersion:  10000000,
		detectHost: true,
	}
	for _, opt := range opts {
		opt(d)
	}
	return d, nil
}

// SetWdtCallback installs the optional watchdog hooks. Any of the three
// may be nil.
func (d *Device) SetWdtCallback(init, feed, deinit func()) {
	d.initWdtFn = init
	d.feedWdtFn = feed
	d.deinitWdtFn = deinit
}

// Begin resets both state machines to their initial states. The next
// Run call starts the handshake from scratch.
func (d *Device) Begin() {
	d.deviceState = StateInitWdt
	d.prevDeviceState = StateInitWdt
	d.rxState = rxReadByte
	d.rxIdx = 0
	d.rxLen = 0
}

// End deinitializes the watchdog and closes the port.
func (d *Device) End() {
	if d.deinitWdtFn != nil {
		d.deinitWdtFn()
	}
	d.port.End()
}

// Run executes one cooperative tick: one lifecycle state's work, then
// at most one byte of receive work. Call it at a rate comfortably above
// the UART byte rate (every millisecond or faster at 115200 baud).
func (d *Device) Run() {
	d.currentMillis = d.clock.Millis()
	d.step()
	d.receive()
}

// State returns the lifecycle state.
func (d *Device) State() DeviceState { return d.deviceState }

// Mode returns the currently selected mode.
func (d *Device) Mode() uint8 { return d.deviceMode }

// Modes returns the mode catalog.
func (d *Device) Modes() []Mode { return d.modes }

// IsCommunicating reports whether the handshake completed and the line
// is at the communication speed.
func (d *Device) IsCommunicating() bool { return d.deviceState >= StateInitMode }

// HasNack reports whether a NACK arrived since the last call, clearing
// the flag. Hosts NACK periodically to request fresh data.
func (d *Device) HasNack() bool {
	n := d.nack
	d.nack = false
	return n
}

// HasCmdWriteData reports whether a CMD_WRITE payload arrived since the
// last call, clearing the flag.
func (d *Device) HasCmdWriteData() bool {
	w := d.cmdWrite
	d.cmdWrite = false
	return w
}

// ReadCmdWriteData returns a copy of the last CMD_WRITE payload.
func (d *Device) ReadCmdWriteData() []byte {
	out := make([]byte, d.cmdWriteSize)
	copy(out, d.cmdWriteData[:d.cmdWriteSize])
	return out
}

// ClearCmdWriteData zeroes the CMD_WRITE buffer and flag.
func (d *Device) ClearCmdWriteData() {
	d.cmdWriteData = [MaxMsgSize]byte{}
	d.cmdWriteSize = 0
	d.cmdWrite = false
}

// HasDataMsg reports whether a DATA payload for the given mode arrived
// since the last call, clearing the flag.
func (d *Device) HasDataMsg(mode uint8) bool {
	if mode >= d.numModes {
		return false
	}
	m := &d.modes[mode]
	h := m.hasDataMsg
	m.hasDataMsg = false
	return h
}

// ReadDataMsg returns a copy of the last DATA payload written to the
// given mode, or nil if the mode is not writable.
func (d *Device) ReadDataMsg(mode uint8) []byte {
	if mode >= d.numModes || d.modes[mode].dataMsg == nil {
		return nil
	}
	out := make([]byte, len(d.modes[mode].dataMsg))
	copy(out, d.modes[mode].dataMsg)
	return out
}

// ClearDataMsg zeroes the given mode's data buffer and flag.
func (d *Device) ClearDataMsg(mode uint8) {
	if mode < d.numModes {
		d.modes[mode].reset()
	}
}

// step executes exactly one lifecycle state's work and at most one
// transition.
func (d *Device) step() {
	switch d.deviceState {

	case StateInitWdt:
		if d.initWdtFn != nil {
			if d.deinitWdtFn != nil {
				d.deinitWdtFn()
			}
			d.initWdtFn()
		}
		d.setState(StateReset)

	case StateReset:
		d.feedWdt()
		d.deviceMode = 0
		d.extMode = 0
		d.isLpf2Host = false
		d.nack = false
		d.cmdWrite = false
		d.cmdWriteSize = 0
		for i := range d.modes {
			d.modes[i].reset()
		}
		d.setState(StateInitAutoID)

	case StateInitAutoID:
		if d.detectHost {
			d.port.Begin(SpeedLPF2)
		} else {
			d.port.End()
		}
		// TX low signals "UART mode" to the host. An LPF2 host answers
		// with CMD_SPEED at 115200 baud within the auto-ID window.
		d.gpio.SetOutput(d.txPin)
		d.gpio.DriveLow(d.txPin)
		d.prevMillis = d.currentMillis
		d.setState(StateWaitingAutoID)

	case StateWaitingAutoID:
		// The receiver promotes to InitUart directly when CMD_SPEED
		// arrives; expiry of the window means an EV3 host.
		if d.currentMillis-d.prevMillis > autoIDDelay {
			d.setState(StateInitUart)
		}

	case StateInitUart:
		d.feedWdt()
		baud := SpeedMin
		if d.isLpf2Host {
			baud = SpeedLPF2
		}
		d.initUart(baud)
		d.prevMillis = d.currentMillis
		d.setState(StateWaitingUartInit)

	case StateWaitingUartInit:
		if d.currentMillis-d.prevMillis > uartInitDelay {
			if d.isLpf2Host {
				d.port.WriteByte(SysAck)
			}
			d.setState(StateSendingType)
		}

	case StateSendingType:
		d.writeCmd(CmdType, []byte{d.typ}, 1)
		d.setState(StateSendingModes)

	case StateSendingModes:
		d.writeCmd(CmdModes, d.modesPayload(), 4)
		d.setState(StateSendingSpeed)

	case StateSendingSpeed:
		var p [4]byte
		binary.LittleEndian.PutUint32(p[:], d.speed)
		d.writeCmd(CmdSpeed, p[:], 4)
		d.setState(StateSendingVersion)

	case StateSendingVersion:
		var p [8]byte
		binary.LittleEndian.PutUint32(p[:4], VersionToBCD(d.fwVersion))
		binary.LittleEndian.PutUint32(p[4:], VersionToBCD(d.hwVersion))
		d.writeCmd(CmdVersion, p[:], 8)
		d.modeIdx = int8(d.numModes) - 1
		d.setState(StateSendingName)

	case StateSendingName:
		d.sendName()
		d.setState(StateSendingValueSpans)

	case StateSendingValueSpans:
		m := &d.modes[d.modeIdx]
		d.sendValueSpan(m.raw, InfoRaw)
		d.sendValueSpan(m.pct, InfoPct)
		d.sendValueSpan(m.si, InfoSI)
		d.setState(StateSendingSymbol)

	case StateSendingSymbol:
		m := &d.modes[d.modeIdx]
		if m.symbolLen > 0 {
			d.writeInfo(InfoUnits, m.symbol[:m.symbolLen], CeilPow2(m.symbolLen))
		}
		d.setState(StateSendingMapping)

	case StateSendingMapping:
		m := &d.modes[d.modeIdx]
		d.writeInfo(InfoMapping, []byte{m.mapIn, m.mapOut}, 2)
		d.setState(StateSendingFormat)

	case StateSendingFormat:
		m := &d.modes[d.modeIdx]
		d.writeInfo(InfoFormat, []byte{m.numData, byte(m.dataType), m.figures, m.decimals}, 4)
		d.feedWdt()
		if d.modeIdx == 0 {
			d.setState(StateSendingAck)
		} else {
			d.prevMillis = d.currentMillis
			d.setState(StateInterModePause)
		}

	case StateInterModePause:
		if d.currentMillis-d.prevMillis > interModePause {
			d.modeIdx--
			d.setState(StateSendingName)
		}

	case StateSendingAck:
		d.port.Flush()
		d.port.WriteByte(SysAck)
		d.prevMillis = d.currentMillis
		d.setState(StateWaitingAckReply)

	case StateWaitingAckReply:
		// The receiver promotes to SwitchingUartSpeed on ACK.
		if d.currentMillis-d.prevMillis > ackTimeout {
			glog.V(4).Info("lump: ACK timeout, restarting handshake")
			d.setState(StateReset)
		}

	case StateSwitchingUartSpeed:
		d.initUart(d.speed)
		d.setState(StateInitMode)

	case StateInitMode:
		d.nackMillis = d.currentMillis
		d.setState(StateCommunicating)

	case StateCommunicating:
		if d.currentMillis-d.nackMillis > nackTimeout {
			glog.V(4).Info("lump: host silent, soft reset")
			d.setState(StateReset)
		}

	case StateSendingNack:
		d.port.WriteByte(SysNack)
		d.deviceState = d.prevDeviceState
	}
}

func (d *Device) setState(s DeviceState) {
	if s != d.deviceState {
		glog.V(4).Infof("lump: %v -> %v", d.deviceState, s)
	}
	d.deviceState = s
}

func (d *Device) feedWdt() {
	if d.feedWdtFn != nil {
		d.feedWdtFn()
	}
}

// initUart re-opens the port at the given speed with the TX pin
// released to the UART.
func (d *Device) initUart(baud uint32) {
	d.port.End()
	d.gpio.DriveHigh(d.txPin)
	if err := d.port.Begin(baud); err != nil {
		glog.Warningf("lump: open port at %d baud: %v", baud, err)
	}
}

// modesPayload builds the CMD_MODES payload: mode and view maxima for
// EV3 (capped at 8 modes) and LPF2 hosts.
func (d *Device) modesPayload() []byte {
	views := d.view
	if views == ViewAll || views > d.numModes {
		views = d.numModes
	}
	if views == 0 {
		views = 1
	}
	lpf2MaxMode := d.numModes - 1
	lpf2MaxView := views - 1
	ev3MaxMode := lpf2MaxMode
	if ev3MaxMode > MaxMode {
		ev3MaxMode = MaxMode
	}
	ev3MaxView := lpf2MaxView
	if ev3MaxView > MaxMode {
		ev3MaxView = MaxMode
	}
	return []byte{ev3MaxMode, ev3MaxView, lpf2MaxMode, lpf2MaxView}
}

// sendName emits the INFO_NAME frame for the mode being broadcast.
// Three layouts exist: plain name bytes, name plus the six-byte flag
// trailer built here (power, when any mode sets it), or a
// caller-supplied 13-byte blob with the trailer embedded (flagsInName).
func (d *Device) sendName() {
	m := &d.modes[d.modeIdx]
	power := false
	for i := range d.modes {
		if d.modes[i].power && !d.modes[i].flagsInName {
			power = true
		}
	}
	var data [2*ShortNameMax + 6]byte
	switch {
	case m.flagsInName:
		copy(data[:ShortNameMax+8], m.name[:])
		d.writeInfo(InfoName, data[:ShortNameMax+8], CeilPow2(ShortNameMax+8))
	case power:
		n := m.nameLen
		if n > ShortNameMax {
			n = ShortNameMax
		}
		copy(data[:n], m.name[:n])
		data[ShortNameMax+1] = InfoFlags0NeedsSupplyPin2
		data[ShortNameMax+6] = spike3NameFlag
		d.writeInfo(InfoName, data[:ShortNameMax+7], CeilPow2(ShortNameMax+8))
	default:
		d.writeInfo(InfoName, m.name[:m.nameLen], CeilPow2(m.nameLen))
	}
}

// sendValueSpan emits one INFO value-span frame, skipping absent or
// invalid spans.
func (d *Device) sendValueSpan(s ValueSpan, infoType byte) {
	if !s.broadcast() {
		return
	}
	var p [8]byte
	binary.LittleEndian.PutUint32(p[:4], math.Float32bits(s.min))
	binary.LittleEndian.PutUint32(p[4:], math.Float32bits(s.max))
	d.writeInfo(infoType, p[:], 8)
}

// writeCmd emits one CMD frame with the payload zero-padded to encSize.
func (d *Device) writeCmd(cmd byte, payload []byte, encSize uint8) {
	n := encSize + 2
	buf := d.txBuf[:n]
	clear(buf)
	buf[0] = encHeader(MsgTypeCmd, encSize, cmd)
	copy(buf[1:], payload)
	buf[n-1] = Checksum(buf[:n-1])
	d.write(buf)
}

// writeInfo emits one INFO frame for the mode being broadcast. encSize
// counts the payload after the info-type byte.
func (d *Device) writeInfo(infoType byte, payload []byte, encSize uint8) {
	mode := uint8(d.modeIdx)
	n := encSize + 3
	buf := d.txBuf[:n]
	clear(buf)
	buf[0] = encHeader(MsgTypeInfo, encSize, mode&MsgCmdMask)
	buf[1] = infoType
	if mode > MaxMode {
		buf[1] |= InfoModePlus8
	}
	copy(buf[2:], payload)
	buf[n-1] = Checksum(buf[:n-1])
	d.write(buf)
}

// Send transmits a DATA payload for the currently selected mode.
func (d *Device) Send(data []byte) error {
	return d.SendToMode(data, d.deviceMode)
}

// SendToMode transmits a DATA payload for a specific mode. When the
// device has more than 8 modes, every DATA frame is preceded by a
// CMD_EXT_MODE frame selecting the mode bank, even for modes below 8.
func (d *Device) SendToMode(data []byte, mode uint8) error {
	if !d.IsCommunicating() {
		return ErrNotCommunicating
	}
	if len(data) == 0 {
		return ErrEmptyPayload
	}
	if len(data) > MaxMsgSize {
		return ErrPayloadTooLarge
	}
	if d.numModes > MaxMode+1 {
		ext := ExtMode0
		if mode > MaxMode {
			ext = ExtMode8
		}
		d.writeCmd(CmdExtMode, []byte{ext}, 1)
	}
	size := CeilPow2(uint8(len(data)))
	n := size + 2
	buf := d.txBuf[:n]
	clear(buf)
	buf[0] = encHeader(MsgTypeData, size, mode&MsgCmdMask)
	copy(buf[1:], data)
	buf[n-1] = Checksum(buf[:n-1])
	d.write(buf)
	return nil
}

// SendInt8 transmits a single DATA8 value for the selected mode.
func (d *Device) SendInt8(v int8) error {
	return d.Send([]byte{byte(v)})
}

// SendInt16 transmits a single DATA16 value for the selected mode.
func (d *Device) SendInt16(v int16) error {
	var p [2]byte
	binary.LittleEndian.PutUint16(p[:], uint16(v))
	return d.Send(p[:])
}

// SendInt32 transmits a single DATA32 value for the selected mode.
func (d *Device) SendInt32(v int32) error {
	var p [4]byte
	binary.LittleEndian.PutUint32(p[:], uint32(v))
	return d.Send(p[:])
}

// SendFloat32 transmits a single DATAF value for the selected mode.
func (d *Device) SendFloat32(v float32) error {
	var p [4]byte
	binary.LittleEndian.PutUint32(p[:], math.Float32bits(v))
	return d.Send(p[:])
}

func (d *Device) write(p []byte) {
	if err := d.port.Write(p); err != nil {
		glog.V(4).Infof("lump: write: %v", err)
	}
}
