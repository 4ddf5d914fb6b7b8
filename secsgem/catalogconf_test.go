package secsgem

import "testing"

const testCatalogJSON = `{
  "statusVariables": [
    {"id": "SV1", "name": "ChamberTemp", "unit": "C", "format": "F4"}
  ],
  "equipmentConstants": [
    {"id": "EC1", "name": "Setpoint", "format": "U2", "min": 0, "max": 100, "default": 10}
  ],
  "collectionEvents": [
    {"id": "CE1", "name": "LotStart"}
  ],
  "alarms": [
    {"id": "AL1", "name": "OverTemp", "text": "chamber over temperature", "code": 16, "ceOn": "CE1"}
  ],
  "remoteCommands": [
    {"rcmd": "START", "name": "Start", "paramNames": []}
  ]
}`

func TestLoadCatalogJSON(t *testing.T) {
	cat := NewCatalog()
	if err := LoadCatalogJSON(cat, []byte(testCatalogJSON)); err != nil {
		t.Fatalf("LoadCatalogJSON: %v", err)
	}

	if _, ok := cat.sv("SV1"); !ok {
		t.Error("SV1 not registered")
	}
	if ec, ok := cat.ec("EC1"); !ok {
		t.Error("EC1 not registered")
	} else if ec.Max != float64(100) {
		t.Errorf("EC1.Max = %v, want 100", ec.Max)
	}
	if _, ok := cat.ce("CE1"); !ok {
		t.Error("CE1 not registered")
	}
	if a, ok := cat.alarm("AL1"); !ok {
		t.Error("AL1 not registered")
	} else if a.CEOn != ID("CE1") {
		t.Errorf("AL1.CEOn = %v, want CE1", a.CEOn)
	}
	if _, ok := cat.remoteCommand("START"); !ok {
		t.Error("START not registered")
	}
}

func TestLoadCatalogJSONMalformed(t *testing.T) {
	cat := NewCatalog()
	if err := LoadCatalogJSON(cat, []byte("{not json")); err == nil {
		t.Fatal("expected an error for malformed JSON")
	}
}

func TestLoadCatalogJSONUnknownFormat(t *testing.T) {
	cat := NewCatalog()
	doc := `{"statusVariables": [{"id": "SV1", "format": "NOPE"}]}`
	if err := LoadCatalogJSON(cat, []byte(doc)); err == nil {
		t.Fatal("expected an error for an unknown wire format")
	}
}
