package secsgem

import (
	"fmt"
	"time"

	"github.com/helios-fab/secsgem/secs2"
	"github.com/rs/xid"
)

// Predefined ids reserved by section 4.10. These are typed as string
// ids so they can coexist with caller-chosen integer ids in the same
// Catalog maps without collision.
const (
	IDClock                         = "CLOCK"
	IDControlState                  = "CONTROL_STATE"
	IDEventsEnabled                 = "EVENTS_ENABLED"
	IDAlarmsEnabled                 = "ALARMS_ENABLED"
	IDAlarmsSet                     = "ALARMS_SET"
	IDEstablishCommunicationsTimeout = "ESTABLISH_COMMUNICATIONS_TIMEOUT"
	IDTimeFormat                    = "TIME_FORMAT"
	IDCmdStartDone                  = "CMD_START_DONE"
	IDCmdStopDone                   = "CMD_STOP_DONE"
)

// TimeFormat selects CLOCK's wire encoding, per section 4.10.
type TimeFormat uint8

const (
	TimeFormatShort   TimeFormat = 0 // YYMMDDhhmmss
	TimeFormatCentury TimeFormat = 1 // YYYYMMDDhhmmssSS, SS centiseconds
	TimeFormatRFC3339 TimeFormat = 2
)

// EncodeClock formats t per format, the three CLOCK variants named by
// section 4.10.
func EncodeClock(t time.Time, format TimeFormat) (string, error) {
	switch format {
	case TimeFormatShort:
		return t.Format("060102150405"), nil
	case TimeFormatCentury:
		cs := t.Nanosecond() / 10_000_000
		return fmt.Sprintf("%s%02d", t.Format("20060102150405"), cs), nil
	case TimeFormatRFC3339:
		return t.Format(time.RFC3339), nil
	default:
		return "", fmt.Errorf("secsgem: unknown TIME_FORMAT %d", format)
	}
}

// registerPredefined installs all 9 predefined ids of section 4.10
// into catalog. CLOCK, CONTROL_STATE, EVENTS_ENABLED, ALARMS_ENABLED
// and ALARMS_SET carry UseCallback so NewHandler's svValue resolves
// them against the live StateMachine/Catalog rather than a stored
// value; CMD_START_DONE/CMD_STOP_DONE are registered as collection
// events so RemoteCommandEngine's reserved START/STOP completions
// have a live CE to trigger through the report engine.
func registerPredefined(cat *Catalog, sm *StateMachine, timeFormat TimeFormat) {
	cat.RegisterSV(&StatusVariable{
		ID: IDClock, Name: "CLOCK", WireFormat: secs2.FormatASCII,
		UseCallback: true,
	})
	cat.RegisterSV(&StatusVariable{
		ID: IDControlState, Name: "CONTROL_STATE", WireFormat: secs2.FormatU1,
		UseCallback: true,
	})
	cat.RegisterSV(&StatusVariable{
		ID: IDEventsEnabled, Name: "EVENTS_ENABLED", WireFormat: secs2.FormatList,
		UseCallback: true,
	})
	cat.RegisterSV(&StatusVariable{
		ID: IDAlarmsEnabled, Name: "ALARMS_ENABLED", WireFormat: secs2.FormatList,
		UseCallback: true,
	})
	cat.RegisterSV(&StatusVariable{
		ID: IDAlarmsSet, Name: "ALARMS_SET", WireFormat: secs2.FormatList,
		UseCallback: true,
	})
	cat.RegisterEC(&EquipmentConstant{
		ID: IDTimeFormat, Name: "TIME_FORMAT", WireFormat: secs2.FormatU1,
		Min: uint8(0), Max: uint8(2), Default: uint8(timeFormat),
	})
	cat.RegisterEC(&EquipmentConstant{
		ID: IDEstablishCommunicationsTimeout, Name: "ESTABLISH_COMMUNICATIONS_TIMEOUT",
		WireFormat: secs2.FormatU2, Min: uint16(1), Max: uint16(120), Default: uint16(10),
	})
	cat.RegisterCE(&CollectionEvent{ID: IDCmdStartDone, Name: "CMD_START_DONE"})
	cat.RegisterCE(&CollectionEvent{ID: IDCmdStopDone, Name: "CMD_STOP_DONE"})
}

// newDataID returns a fresh, sortable DATAID using xid, the
// deployment's per-transaction unique-id generator (section 4.9's
// S2F33/35 and S6F11 bodies all open with a DATAID field).
func newDataID() string {
	return xid.New().String()
}
