package hsms

// RejectReason is the byte3 value of a reject.req message, per section
// 5 "Reject.req".
type RejectReason byte

const (
	// RejectSType signals an SType not recognised by the receiver.
	RejectSType RejectReason = 1
	// RejectPType signals a PType other than SECS-II.
	RejectPType RejectReason = 3
	// RejectTransactionNotOpen signals a data message received while
	// not-selected, or a control message referencing an unknown
	// transaction.
	RejectTransactionNotOpen RejectReason = 4
	// RejectEntityUnsupported mirrors a select.rsp/deselect.rsp status
	// of StatusEntityNotSupported, surfaced via reject.req when there
	// is no open transaction to answer directly.
	RejectEntityUnsupported RejectReason = 5
)

// SelectReq builds a select.req control message.
func SelectReq(sessionID uint16, system uint32) Frame {
	return Frame{Header: ControlHeader(sessionID, STypeSelectReq, 0, system)}
}

// SelectRsp builds a select.rsp reply to system.
func SelectRsp(sessionID uint16, system uint32, status SelectStatus) Frame {
	return Frame{Header: ControlHeader(sessionID, STypeSelectRsp, status, system)}
}

// DeselectReq builds a deselect.req control message.
func DeselectReq(sessionID uint16, system uint32) Frame {
	return Frame{Header: ControlHeader(sessionID, STypeDeselectReq, 0, system)}
}

// DeselectRsp builds a deselect.rsp reply to system.
func DeselectRsp(sessionID uint16, system uint32, status SelectStatus) Frame {
	return Frame{Header: ControlHeader(sessionID, STypeDeselectRsp, status, system)}
}

// LinktestReq builds a linktest.req control message.
func LinktestReq(system uint32) Frame {
	return Frame{Header: ControlHeader(0xffff, STypeLinktestReq, 0, system)}
}

// LinktestRsp builds a linktest.rsp reply to system.
func LinktestRsp(system uint32) Frame {
	return Frame{Header: ControlHeader(0xffff, STypeLinktestRsp, 0, system)}
}

// SeparateReq builds a separate.req control message, the unilateral
// connection teardown notice of section 5.
func SeparateReq(sessionID uint16, system uint32) Frame {
	return Frame{Header: ControlHeader(sessionID, STypeSeparateReq, 0, system)}
}

// RejectReq builds a reject.req referencing the offending message's
// header, per section 5: byte2 carries the rejected SType (or PType),
// byte3 carries the reason.
func RejectReq(offending Header, reason RejectReason) Frame {
	h := Header{
		SessionID: offending.SessionID,
		Byte2:     byte(offending.SType),
		Byte3:     byte(reason),
		PType:     0,
		SType:     STypeRejectReq,
		System:    offending.System,
	}
	if reason == RejectPType {
		h.Byte2 = byte(offending.PType)
	}
	return Frame{Header: h}
}
