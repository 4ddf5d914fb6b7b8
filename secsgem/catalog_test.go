package secsgem

import (
	"testing"

	"github.com/helios-fab/secsgem/secs2"
)

func TestRegisterDuplicateSVPanics(t *testing.T) {
	cat := NewCatalog()
	cat.RegisterSV(&StatusVariable{ID: "SV1"})
	defer func() {
		if recover() == nil {
			t.Fatal("duplicate RegisterSV did not panic")
		}
	}()
	cat.RegisterSV(&StatusVariable{ID: "SV1"})
}

func TestECDefaultAppliedWhenValueUnset(t *testing.T) {
	cat := NewCatalog()
	cat.RegisterEC(&EquipmentConstant{ID: "EC1", WireFormat: secs2.FormatU2, Default: uint16(7)})
	item, ok := cat.ECValue("EC1")
	if !ok {
		t.Fatal("ECValue reported unknown id")
	}
	if len(item.Uints()) != 1 || item.Uints()[0] != 7 {
		t.Errorf("value = %v, want default 7", item.Uints())
	}
}

func TestWriteECWithinRange(t *testing.T) {
	cat := NewCatalog()
	cat.RegisterEC(&EquipmentConstant{ID: "EC1", WireFormat: secs2.FormatU2, Min: uint16(0), Max: uint16(100), Default: uint16(10)})

	if eac := cat.WriteEC("EC1", uint64(50)); eac != EACOK {
		t.Fatalf("eac = %d, want OK", eac)
	}
	item, ok := cat.ECValue("EC1")
	if !ok {
		t.Fatal("ECValue reported unknown id")
	}
	if len(item.Uints()) != 1 || item.Uints()[0] != 50 {
		t.Errorf("stored value = %v, want 50", item.Uints())
	}
}

func TestWriteECOutOfRange(t *testing.T) {
	cat := NewCatalog()
	cat.RegisterEC(&EquipmentConstant{ID: "EC1", WireFormat: secs2.FormatU2, Min: uint16(0), Max: uint16(100), Default: uint16(10)})

	if eac := cat.WriteEC("EC1", uint64(500)); eac != EACOutOfRange {
		t.Fatalf("eac = %d, want OutOfRange", eac)
	}
}

func TestWriteECUnknownID(t *testing.T) {
	cat := NewCatalog()
	if eac := cat.WriteEC("NOSUCH", uint64(1)); eac != EACUnknownECID {
		t.Fatalf("eac = %d, want UnknownECID", eac)
	}
}

func TestVariableValueUsesCallback(t *testing.T) {
	cat := NewCatalog()
	cat.RegisterSV(&StatusVariable{ID: "SV1", WireFormat: secs2.FormatU4, UseCallback: true, Value: uint64(1)})

	item, err := cat.variableValue("SV1", func(id ID) (any, bool) {
		return uint64(99), true
	}, nil)
	if err != nil {
		t.Fatalf("variableValue: %v", err)
	}
	if len(item.Uints()) != 1 || item.Uints()[0] != 99 {
		t.Errorf("value = %v, want 99 from callback", item.Uints())
	}
}

func TestVariableValueUnknownID(t *testing.T) {
	cat := NewCatalog()
	if _, err := cat.variableValue("NOSUCH", nil, nil); err == nil {
		t.Fatal("expected error for unknown VID")
	}
}

func TestCoerceASCII(t *testing.T) {
	item, err := coerce(secs2.FormatASCII, "hello")
	if err != nil {
		t.Fatalf("coerce: %v", err)
	}
	if item.String() != "hello" {
		t.Errorf("item = %q, want hello", item.String())
	}
}

func TestCoerceTypeMismatch(t *testing.T) {
	if _, err := coerce(secs2.FormatASCII, uint64(5)); err == nil {
		t.Fatal("expected an error coercing a uint into ASCII")
	}
}
