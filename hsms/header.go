// Package hsms implements the High-Speed SECS Message Services session
// layer (SEMI E37): framing, the control-message vocabulary, the
// connection state machine and its timers.
package hsms

import (
	"encoding/binary"
	"fmt"
)

// HeaderLen is the fixed size of an HSMS message header.
const HeaderLen = 10

// PType identifies the presentation layer in use. SECS-II is the only
// defined value.
type PType byte

// SType classifies control messages; data messages carry SType 0.
type SType byte

// Control message SType values, per section 5 "Control messages".
const (
	STypeDataMessage SType = 0
	STypeSelectReq   SType = 1
	STypeSelectRsp   SType = 2
	STypeDeselectReq SType = 3
	STypeDeselectRsp SType = 4
	STypeLinktestReq SType = 5
	STypeLinktestRsp SType = 6
	STypeRejectReq   SType = 7
	STypeSeparateReq SType = 9
)

// String returns the control-message mnemonic.
func (s SType) String() string {
	switch s {
	case STypeDataMessage:
		return "data.message"
	case STypeSelectReq:
		return "select.req"
	case STypeSelectRsp:
		return "select.rsp"
	case STypeDeselectReq:
		return "deselect.req"
	case STypeDeselectRsp:
		return "deselect.rsp"
	case STypeLinktestReq:
		return "linktest.req"
	case STypeLinktestRsp:
		return "linktest.rsp"
	case STypeRejectReq:
		return "reject.req"
	case STypeSeparateReq:
		return "separate.req"
	default:
		return fmt.Sprintf("stype(%d)", byte(s))
	}
}

// SelectStatus is the status code carried in a select.rsp/deselect.rsp
// header's byte3, per section 5.
type SelectStatus byte

const (
	StatusOK                 SelectStatus = 0
	StatusAlreadyActive      SelectStatus = 1
	StatusNotReady           SelectStatus = 2
	StatusBackedOrSimilar    SelectStatus = 3
	StatusEntityNotSupported SelectStatus = 4
)

// Header is the 10-byte HSMS message header, per section 5 "HSMS
// message format". Its byte2/byte3 pair carries (stream, function) for
// a data message; for a control message byte3 carries the
// select/deselect status, and PType/SType (bytes 4 and 5) classify the
// message. This struct exposes both readings rather than forcing the
// caller to pick one up front.
type Header struct {
	SessionID uint16
	Byte2     byte // stream (bit 7 = W-bit) for data messages
	Byte3     byte // function for data messages; select status for control rsp
	PType     PType
	SType     SType
	System    uint32
}

// Stream returns byte2 with the W-bit masked off.
func (h Header) Stream() uint8 { return h.Byte2 &^ 0x80 }

// WBit reports whether a reply is requested.
func (h Header) WBit() bool { return h.Byte2&0x80 != 0 }

// Function returns byte3 as a data message's function code.
func (h Header) Function() uint8 { return h.Byte3 }

// Status returns byte3 as a control message's select/deselect status.
func (h Header) Status() SelectStatus { return SelectStatus(h.Byte3) }

// IsControl reports whether SType marks this header as belonging to a
// control message rather than a data message.
func (h Header) IsControl() bool { return h.SType != STypeDataMessage }

// DataHeader builds the header of an SxFy data message.
func DataHeader(sessionID uint16, stream, function uint8, wBit bool, system uint32) Header {
	b2 := stream
	if wBit {
		b2 |= 0x80
	}
	return Header{SessionID: sessionID, Byte2: b2, Byte3: function, PType: 0, SType: STypeDataMessage, System: system}
}

// ControlHeader builds the header of a control message.
func ControlHeader(sessionID uint16, sType SType, status SelectStatus, system uint32) Header {
	return Header{SessionID: sessionID, Byte2: 0, Byte3: byte(status), PType: 0, SType: sType, System: system}
}

// EncodeHeader appends the wire representation of h to buf.
func EncodeHeader(buf []byte, h Header) []byte {
	var b [HeaderLen]byte
	binary.BigEndian.PutUint16(b[0:2], h.SessionID)
	b[2] = h.Byte2
	b[3] = h.Byte3
	b[4] = byte(h.PType)
	b[5] = byte(h.SType)
	binary.BigEndian.PutUint32(b[6:10], h.System)
	return append(buf, b[:]...)
}

// DecodeHeader reads a header from the first HeaderLen bytes of buf.
func DecodeHeader(buf []byte) (Header, error) {
	if len(buf) < HeaderLen {
		return Header{}, fmt.Errorf("%w: header needs %d bytes, got %d", ErrTruncated, HeaderLen, len(buf))
	}
	return Header{
		SessionID: binary.BigEndian.Uint16(buf[0:2]),
		Byte2:     buf[2],
		Byte3:     buf[3],
		PType:     PType(buf[4]),
		SType:     SType(buf[5]),
		System:    binary.BigEndian.Uint32(buf[6:10]),
	}, nil
}
