package lump

// ModeConfig describes one operating mode of a device. Invalid fields
// are silently normalized by NewMode; the protocol has no in-band way
// to report them.
type ModeConfig struct {
	// Name of the mode. Must start with an ASCII letter; empty or
	// invalid names become "null". Truncated to 11 bytes.
	Name string
	// DataType is the wire encoding of one datum.
	DataType DataType
	// NumData is the datum count per DATA frame. Clamped so that
	// NumData * size(DataType) <= 32.
	NumData uint8
	// Figures and Decimals are display hints, each in [0, 15].
	Figures  uint8
	Decimals uint8
	// Symbol is the measurement unit, at most 4 bytes. Empty skips the
	// INFO_UNITS frame.
	Symbol string
	// Raw, Pct and SI are the display ranges. Absent spans are skipped
	// during the handshake.
	Raw, Pct, SI ValueSpan
	// MapIn and MapOut are the mode mapping flag bytes. A mode with
	// MapOut != MappingNone is writable by the host.
	MapIn, MapOut byte
	// Power asks the host for constant power on pin 2. Setting it on
	// any mode enables it across all modes.
	Power bool
	// FlagsInName marks Name as a raw 13-byte blob with the six-byte
	// flag trailer embedded (5 name bytes + NUL + 6 flags + NUL).
	// Power is ignored when set.
	FlagsInName bool
}

// Mode is the normalized, immutable description of one operating mode
// plus the buffer for data the host writes to it.
type Mode struct {
	name        [ShortNameMax + 8]byte
	nameLen     uint8
	dataType    DataType
	numData     uint8
	figures     uint8
	decimals    uint8
	symbol      [UomMax]byte
	symbolLen   uint8
	raw         ValueSpan
	pct         ValueSpan
	si          ValueSpan
	mapIn       byte
	mapOut      byte
	power       bool
	flagsInName bool

	dataTypeSize uint8
	dataMsgSize  uint8

	// dataMsg holds the last DATA payload the host wrote to this mode.
	// Allocated iff mapOut != MappingNone.
	dataMsg    []byte
	hasDataMsg bool
}

// NewMode normalizes cfg into a Mode.
func NewMode(cfg ModeConfig) Mode {
	m := Mode{
		dataType:    cfg.DataType,
		numData:     cfg.NumData,
		figures:     cfg.Figures & 0x0F,
		decimals:    cfg.Decimals & 0x0F,
		raw:         cfg.Raw,
		pct:         cfg.Pct,
		si:          cfg.SI,
		mapIn:       cfg.MapIn,
		mapOut:      cfg.MapOut,
		power:       cfg.Power,
		flagsInName: cfg.FlagsInName,
	}

	switch {
	case cfg.FlagsInName && cfg.Name != "":
		copy(m.name[:ShortNameMax+7], cfg.Name)
		m.nameLen = ShortNameMax + 8
	case validName(cfg.Name):
		m.nameLen = uint8(copy(m.name[:NameMax], cfg.Name))
	default:
		m.nameLen = uint8(copy(m.name[:], "null"))
	}

	if cfg.Symbol != "" {
		m.symbolLen = uint8(copy(m.symbol[:], cfg.Symbol))
	}

	m.dataTypeSize = DataTypeSize(m.dataType)
	if m.dataTypeSize > 0 && m.numData > MaxMsgSize/m.dataTypeSize {
		m.numData = MaxMsgSize / m.dataTypeSize
	}
	m.dataMsgSize = m.numData * m.dataTypeSize

	if m.mapOut != MappingNone {
		m.dataMsg = make([]byte, m.dataMsgSize)
	}
	return m
}

func validName(name string) bool {
	if name == "" {
		return false
	}
	c := name[0]
	return c >= 'A' && c <= 'Z' || c >= 'a' && c <= 'z'
}

// Name returns the mode name. For a FlagsInName mode this is the short
// name up to its first NUL.
func (m *Mode) Name() string {
	n := m.nameLen
	if m.flagsInName {
		n = 0
		for n < ShortNameMax && m.name[n] != 0 {
			n++
		}
	}
	return string(m.name[:n])
}

// Symbol returns the measurement unit symbol.
func (m *Mode) Symbol() string { return string(m.symbol[:m.symbolLen]) }

// DataType returns the wire encoding of one datum.
func (m *Mode) DataType() DataType { return m.dataType }

// NumData returns the datum count per DATA frame.
func (m *Mode) NumData() uint8 { return m.numData }

// DataMsgSize returns the byte size of one full DATA payload.
func (m *Mode) DataMsgSize() uint8 { return m.dataMsgSize }

// Writable reports whether the host may write to this mode.
func (m *Mode) Writable() bool { return m.dataMsg != nil }

// reset clears the received-data buffer and flag.
func (m *Mode) reset() {
	for i := range m.dataMsg {
		m.dataMsg[i] = 0
	}
	m.hasDataMsg = false
}
