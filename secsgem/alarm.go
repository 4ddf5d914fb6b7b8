package secsgem

import "fmt"

// AlarmEngine implements enable/set/clear per section 4.11. S5F1/S5F2
// wire traffic is sent only when the alarm is enabled and the
// transition is real; ce_on/ce_off fire on every real transition
// regardless of enablement.
type AlarmEngine struct {
	cat *Catalog

	// sendAlarmReport emits S5F1 for id with the given ALCD and
	// awaits S5F2, wired by the owning handler.
	sendAlarmReport func(id ID, alcd byte) error

	trigger func(ceID ID) error
}

// NewAlarmEngine binds engine operations to cat.
func NewAlarmEngine(cat *Catalog) *AlarmEngine {
	return &AlarmEngine{cat: cat}
}

// BindSender installs the S5F1/S5F2 transport.
func (e *AlarmEngine) BindSender(fn func(id ID, alcd byte) error) {
	e.sendAlarmReport = fn
}

// BindTrigger installs the collection-event trigger callback used for
// ce_on/ce_off.
func (e *AlarmEngine) BindTrigger(fn func(ceID ID) error) {
	e.trigger = fn
}

// ErrUnknownAlarm is returned by EnableAlarm for section 4.11's
// ACKC5=1 case.
var ErrUnknownAlarm = fmt.Errorf("secsgem: unknown alarm id")

// EnableAlarm marks id enabled or disabled; an unknown id reports
// ACKC5=1 by returning a non-nil error instead of panicking, since an
// unrecognized id arriving from the host is an input error, not a
// programmer error (contrast SetAlarm).
func (e *AlarmEngine) EnableAlarm(id ID, enable bool) error {
	e.cat.mu.Lock()
	defer e.cat.mu.Unlock()
	a, ok := e.cat.alarms[id]
	if !ok {
		return ErrUnknownAlarm
	}
	a.Enabled = enable
	return nil
}

// SetAlarm raises id. An unknown id is a programmer error and panics,
// per section 4.11 ("set_alarm(id) on an unknown id is a programmer
// error (hard fault)") since the caller is equipment code, not the
// host.
func (e *AlarmEngine) SetAlarm(id ID) error {
	e.cat.mu.Lock()
	a, ok := e.cat.alarms[id]
	if !ok {
		e.cat.mu.Unlock()
		panic(fmt.Sprintf("secsgem: set_alarm on unknown alarm %v", id))
	}
	if a.Set {
		e.cat.mu.Unlock()
		return nil
	}
	a.Set = true
	enabled := a.Enabled
	alcd := a.Code | AlarmSet
	ceOn := a.CEOn
	e.cat.mu.Unlock()

	if enabled {
		if e.sendAlarmReport != nil {
			if err := e.sendAlarmReport(id, alcd); err != nil {
				return err
			}
		}
	}
	if ceOn != nil && e.trigger != nil {
		return e.trigger(ceOn)
	}
	return nil
}

// ClearAlarm lowers id, symmetric with SetAlarm using ce_off.
func (e *AlarmEngine) ClearAlarm(id ID) error {
	e.cat.mu.Lock()
	a, ok := e.cat.alarms[id]
	if !ok {
		e.cat.mu.Unlock()
		panic(fmt.Sprintf("secsgem: clear_alarm on unknown alarm %v", id))
	}
	if !a.Set {
		e.cat.mu.Unlock()
		return nil
	}
	a.Set = false
	enabled := a.Enabled
	alcd := a.Code | AlarmClear
	ceOff := a.CEOff
	e.cat.mu.Unlock()

	if enabled {
		if e.sendAlarmReport != nil {
			if err := e.sendAlarmReport(id, alcd); err != nil {
				return err
			}
		}
	}
	if ceOff != nil && e.trigger != nil {
		return e.trigger(ceOff)
	}
	return nil
}
