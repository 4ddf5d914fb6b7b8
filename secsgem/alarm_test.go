package secsgem

import "testing"

func newTestAlarmCatalog() (*Catalog, *AlarmEngine) {
	cat := NewCatalog()
	cat.RegisterAlarm(&Alarm{ID: "AL1", Code: AlarmEquipmentStatus, CEOn: "CE_ON", CEOff: "CE_OFF"})
	cat.RegisterCE(&CollectionEvent{ID: "CE_ON"})
	cat.RegisterCE(&CollectionEvent{ID: "CE_OFF"})
	return cat, NewAlarmEngine(cat)
}

func TestEnableAlarmUnknownID(t *testing.T) {
	_, e := newTestAlarmCatalog()
	if err := e.EnableAlarm("NOSUCH", true); err != ErrUnknownAlarm {
		t.Fatalf("err = %v, want ErrUnknownAlarm", err)
	}
}

func TestSetAlarmUnknownIDPanics(t *testing.T) {
	_, e := newTestAlarmCatalog()
	defer func() {
		if recover() == nil {
			t.Fatal("SetAlarm on unknown id did not panic")
		}
	}()
	e.SetAlarm("NOSUCH")
}

func TestSetAlarmEnabledSendsReportAndTriggersCEOn(t *testing.T) {
	cat, e := newTestAlarmCatalog()
	e.EnableAlarm("AL1", true)

	var sentALCD byte
	sent := 0
	e.BindSender(func(id ID, alcd byte) error {
		sent++
		sentALCD = alcd
		return nil
	})
	triggered := ""
	e.BindTrigger(func(ceID ID) error {
		triggered = ceID.(string)
		return nil
	})

	if err := e.SetAlarm("AL1"); err != nil {
		t.Fatalf("SetAlarm: %v", err)
	}
	if sent != 1 {
		t.Fatalf("sendAlarmReport called %d times, want 1", sent)
	}
	if sentALCD != AlarmEquipmentStatus|AlarmSet {
		t.Errorf("ALCD = %#x, want base|SET", sentALCD)
	}
	if triggered != "CE_ON" {
		t.Errorf("triggered CE = %q, want CE_ON", triggered)
	}
	if !cat.alarms["AL1"].Set {
		t.Error("alarm not marked Set")
	}

	sent = 0
	if err := e.SetAlarm("AL1"); err != nil {
		t.Fatalf("second SetAlarm: %v", err)
	}
	if sent != 0 {
		t.Error("SetAlarm on an already-set alarm sent wire traffic")
	}
}

func TestSetAlarmDisabledSkipsWireButStillTriggers(t *testing.T) {
	_, e := newTestAlarmCatalog()

	wireCalled := false
	e.BindSender(func(id ID, alcd byte) error {
		wireCalled = true
		return nil
	})
	triggered := false
	e.BindTrigger(func(ceID ID) error {
		triggered = true
		return nil
	})

	if err := e.SetAlarm("AL1"); err != nil {
		t.Fatalf("SetAlarm: %v", err)
	}
	if wireCalled {
		t.Error("disabled alarm still emitted S5F1")
	}
	if !triggered {
		t.Error("ce_on did not fire for a disabled alarm")
	}
}

func TestClearAlarmSymmetric(t *testing.T) {
	_, e := newTestAlarmCatalog()
	e.EnableAlarm("AL1", true)
	e.SetAlarm("AL1")

	var alcd byte
	e.BindSender(func(id ID, a byte) error { alcd = a; return nil })
	triggered := ""
	e.BindTrigger(func(ceID ID) error { triggered = ceID.(string); return nil })

	if err := e.ClearAlarm("AL1"); err != nil {
		t.Fatalf("ClearAlarm: %v", err)
	}
	if alcd != AlarmEquipmentStatus|AlarmClear {
		t.Errorf("ALCD = %#x, want base|CLEAR", alcd)
	}
	if triggered != "CE_OFF" {
		t.Errorf("triggered CE = %q, want CE_OFF", triggered)
	}
}
