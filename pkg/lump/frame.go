package lump

// Every LUMP frame except the single-byte system messages has the shape
// [header, payload..., checksum]. The header packs the message type in
// the top 2 bits, log2 of the payload size in bits 3-5 and a command or
// mode number in the low 3 bits.

// Checksum computes the XOR checksum over msg seeded with 0xFF.
func Checksum(msg []byte) byte {
	c := byte(0xFF)
	for _, b := range msg {
		c ^= b
	}
	return c
}

// Log2 returns log2(x) for x in {1,2,4,8,16,32}, or 255 otherwise.
func Log2(x uint8) uint8 {
	switch x {
	case 1:
		return 0
	case 2:
		return 1
	case 4:
		return 2
	case 8:
		return 3
	case 16:
		return 4
	case 32:
		return 5
	}
	return 255
}

// CeilPow2 returns the smallest encodable payload size >= x, or 255
// when x exceeds the 32-byte payload limit. 0, 1 and 2 encode as-is.
func CeilPow2(x uint8) uint8 {
	switch {
	case x <= 2:
		return x
	case x <= 4:
		return 4
	case x <= 8:
		return 8
	case x <= 16:
		return 16
	case x <= 32:
		return 32
	}
	return 255
}

// EncodeHeader builds a frame header from a message type, a payload
// size and a command or mode number. The payload size must be a power
// of two in {1,2,4,8,16,32}.
func EncodeHeader(msgType byte, payloadSize uint8, cmdOrMode byte) (byte, error) {
	l := Log2(payloadSize)
	if l == 255 {
		return 0, ErrInvalidPayloadSize
	}
	return msgType | l<<MsgSizeShift | cmdOrMode&MsgCmdMask, nil
}

// encHeader is EncodeHeader for internal call sites that guarantee a
// valid payload size.
func encHeader(msgType byte, payloadSize uint8, cmdOrMode byte) byte {
	return msgType | Log2(payloadSize)<<MsgSizeShift | cmdOrMode&MsgCmdMask
}

// payloadSizeOf decodes the payload size encoded in a frame header.
func payloadSizeOf(header byte) uint8 {
	return 1 << (header >> MsgSizeShift & 0x07)
}

// VersionToBCD converts a decimal version number such as 10203040 into
// its binary-coded-decimal form, packing each base-10 digit into one
// nibble starting from the least significant.
func VersionToBCD(version uint32) uint32 {
	var bcd uint32
	var shift uint
	for version != 0 {
		bcd |= version % 10 << shift
		version /= 10
		shift += 4
	}
	return bcd
}

// DataTypeSize returns the byte size of one datum of the given type, or
// 0 for an unknown type.
func DataTypeSize(t DataType) uint8 {
	switch t {
	case Data8:
		return 1
	case Data16:
		return 2
	case Data32, DataF:
		return 4
	}
	return 0
}
