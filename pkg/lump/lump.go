package lump

// Message type bits, stored in the top 2 bits of every frame header.
const (
	MsgTypeSys  byte = 0x00
	MsgTypeCmd  byte = 0x40
	MsgTypeInfo byte = 0x80
	MsgTypeData byte = 0xC0

	MsgTypeMask  byte = 0xC0
	MsgCmdMask   byte = 0x07
	MsgSizeShift      = 3
)

// System messages. Each is a lone byte on the wire, no checksum.
const (
	SysSync byte = 0x00
	SysNack byte = 0x02
	SysAck  byte = 0x04
)

// Commands, carried in the low 3 bits of a CMD frame header.
const (
	CmdType    byte = 0x00
	CmdModes   byte = 0x01
	CmdSpeed   byte = 0x02
	CmdSelect  byte = 0x03
	CmdWrite   byte = 0x04
	CmdExtMode byte = 0x06
	CmdVersion byte = 0x07
)

// Info types, carried in the low 7 bits of the first payload byte of
// an INFO frame. InfoModePlus8 is OR-ed in when the mode is >= 8.
const (
	InfoName    byte = 0x00
	InfoRaw     byte = 0x01
	InfoPct     byte = 0x02
	InfoSI      byte = 0x03
	InfoUnits   byte = 0x04
	InfoMapping byte = 0x05
	InfoFormat  byte = 0x80

	InfoModePlus8 byte = 0x20
)

// Mode mapping flags for the INFO_MAPPING frame.
const (
	MappingNone        byte = 0
	MappingNA0         byte = 1 << 0
	MappingNA1         byte = 1 << 1
	MappingDis         byte = 1 << 2
	MappingRel         byte = 1 << 3
	MappingAbs         byte = 1 << 4
	MappingNA5         byte = 1 << 5
	MappingFunctional2 byte = 1 << 6
	MappingNull        byte = 1 << 7
)

// DataType identifies the wire encoding of one datum in a DATA frame.
type DataType uint8

// Data types and their little-endian encodings.
const (
	Data8  DataType = 0 // 8-bit signed integer
	Data16 DataType = 1 // 16-bit signed integer
	Data32 DataType = 2 // 32-bit signed integer
	DataF  DataType = 3 // 32-bit IEEE 754 float
)

// Size and length limits.
const (
	ShortNameMax = 5
	NameMax      = 11
	UomMax       = 4
	MaxMsgSize   = 32
	MaxMode      = 7
	MaxExtMode   = 15

	// bufferSize fits header + payload + checksum of the largest frame,
	// plus the INFO type byte.
	bufferSize = MaxMsgSize + 3
)

// Baud rates. The handshake always starts at SpeedMin (EV3) or
// SpeedLPF2 (SPIKE / Powered-Up); the post-handshake speed is chosen by
// the device.
const (
	SpeedMin  uint32 = 2400
	SpeedMid  uint32 = 57600
	SpeedLPF2 uint32 = 115200
	SpeedMax  uint32 = 460800
)

// ViewAll shows all modes in the host's view and data log.
const ViewAll uint8 = 255

// CMD_EXT_MODE payload values.
const (
	ExtMode0 byte = 0x00 // addressed mode is < 8
	ExtMode8 byte = 0x08 // addressed mode is >= 8
)

// INFO_NAME flag trailer bytes.
const (
	// InfoFlags0NeedsSupplyPin2 asks the host for constant power on pin 2.
	InfoFlags0NeedsSupplyPin2 byte = 1 << 6

	// spike3NameFlag is required by SPIKE firmware 3; its meaning is unknown.
	spike3NameFlag byte = 0x84
)

// Protocol timing thresholds, in milliseconds.
const (
	autoIDDelay    uint32 = 500
	uartInitDelay  uint32 = 5
	interModePause uint32 = 10
	ackTimeout     uint32 = 80
	nackTimeout    uint32 = 1500
)
