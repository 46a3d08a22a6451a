package lump

import "github.com/golang/glog"

// receiverState is the state of the frame receiver machine.
type receiverState uint8

const (
	rxReadByte receiverState = iota
	rxParseMsgType
	rxVerifyChecksum
	rxProcessMsg
)

// receive advances the receiver machine, consuming at most one byte per
// tick. Header parsing, checksum verification and dispatch of a
// completed frame all happen within the tick that consumed the byte.
func (d *Device) receive() {
	consumed := false
	for {
		switch d.rxState {
		case rxReadByte:
			if consumed || !d.port.Available() {
				return
			}
			b, err := d.port.ReadByte()
			if err != nil {
				return
			}
			consumed = true
			d.rxBuf[d.rxIdx] = b
			if d.rxIdx == 0 {
				d.rxState = rxParseMsgType
			} else if d.rxIdx == d.rxLen-1 {
				d.rxState = rxVerifyChecksum
			}
			d.rxIdx++

		case rxParseMsgType:
			switch b := d.rxBuf[0]; b {
			case SysSync, SysNack, SysAck:
				d.rxIdx = 0
				d.rxLen = 1
				d.rxState = rxProcessMsg
			default:
				if size := payloadSizeOf(b); size <= MaxMsgSize {
					d.rxLen = size + 2
					d.rxState = rxReadByte
				} else {
					// Malformed size field: drop the byte and resync.
					d.rxIdx = 0
					d.rxState = rxReadByte
				}
			}

		case rxVerifyChecksum:
			if Checksum(d.rxBuf[:d.rxLen-1]) == d.rxBuf[d.rxLen-1] {
				d.rxState = rxProcessMsg
				continue
			}
			glog.V(4).Infof("lump: checksum mismatch on %#x", d.rxBuf[0])
			d.prevDeviceState = d.deviceState
			d.deviceState = StateSendingNack
			d.rxIdx = 0
			d.rxState = rxReadByte

		case rxProcessMsg:
			d.dispatch(d.rxBuf[:d.rxLen])
			d.rxIdx = 0
			d.rxState = rxReadByte
		}
	}
}

// dispatch reacts to a verified inbound frame, possibly promoting the
// lifecycle machine or mutating the mode catalog. Unknown messages are
// ignored.
func (d *Device) dispatch(msg []byte) {
	header := msg[0]
	switch header & MsgTypeMask {
	case MsgTypeSys:
		d.dispatchSys(header)
	case MsgTypeCmd:
		d.dispatchCmd(header&MsgCmdMask, payloadSizeOf(header), msg)
	case MsgTypeData:
		d.dispatchData(header&MsgCmdMask, payloadSizeOf(header), msg)
	}
}

func (d *Device) dispatchSys(header byte) {
	switch header {
	case SysSync:
	case SysNack:
		// NACKs double as the host's heartbeat during communication.
		if d.deviceState == StateCommunicating {
			d.nack = true
			d.nackMillis = d.currentMillis
			d.feedWdt()
		}
	case SysAck:
		if d.deviceState == StateWaitingAckReply {
			glog.V(4).Info("lump: handshake acknowledged")
			d.deviceState = StateSwitchingUartSpeed
		}
	}
}

func (d *Device) dispatchCmd(cmd byte, size uint8, msg []byte) {
	switch cmd {
	case CmdSpeed:
		// The payload value is ignored; receiving CMD_SPEED at LPF2 baud
		// is itself the host-type signal.
		if d.deviceState == StateWaitingAutoID {
			glog.V(4).Info("lump: LPF2 host detected")
			d.isLpf2Host = true
			d.deviceState = StateInitUart
		}
	case CmdSelect:
		if d.deviceState == StateCommunicating {
			d.deviceMode = msg[1]
			d.deviceState = StateInitMode
		}
	case CmdWrite:
		if d.deviceState == StateCommunicating && size <= MaxMsgSize {
			copy(d.cmdWriteData[:size], msg[1:1+size])
			d.cmdWriteSize = size
			d.cmdWrite = true
		}
	case CmdExtMode:
		if d.deviceState == StateCommunicating {
			d.extMode = msg[1]
		}
	}
}

func (d *Device) dispatchData(mode byte, size uint8, msg []byte) {
	if d.deviceState != StateCommunicating {
		return
	}
	m := mode + d.extMode
	if m >= d.numModes {
		return
	}
	dst := &d.modes[m]
	if dst.dataMsg == nil || size < dst.dataMsgSize {
		return
	}
	copy(dst.dataMsg, msg[1:1+dst.dataMsgSize])
	dst.hasDataMsg = true
}
