package hsms

import "testing"

func TestRejectReqSType(t *testing.T) {
	offending := ControlHeader(3, SType(42), 0, 0x1234)
	rej := RejectReq(offending, RejectSType)

	if rej.Header.SType != STypeRejectReq {
		t.Fatalf("SType = %v, want reject.req", rej.Header.SType)
	}
	if SType(rej.Header.Byte2) != SType(42) {
		t.Errorf("Byte2 = %d, want the offending SType 42", rej.Header.Byte2)
	}
	if RejectReason(rej.Header.Byte3) != RejectSType {
		t.Errorf("Byte3 = %d, want RejectSType", rej.Header.Byte3)
	}
	if rej.Header.System != 0x1234 {
		t.Errorf("System = %#x, want %#x", rej.Header.System, 0x1234)
	}
}

func TestRejectReqPType(t *testing.T) {
	offending := Header{SessionID: 1, PType: 5, SType: STypeDataMessage, System: 9}
	rej := RejectReq(offending, RejectPType)
	if rej.Header.Byte2 != byte(offending.PType) {
		t.Errorf("Byte2 = %d, want offending PType %d", rej.Header.Byte2, offending.PType)
	}
}

func TestLinktestUsesBroadcastSessionID(t *testing.T) {
	req := LinktestReq(5)
	if req.Header.SessionID != 0xffff {
		t.Errorf("linktest.req session id = %#x, want 0xffff", req.Header.SessionID)
	}
}
