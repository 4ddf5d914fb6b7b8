package secsgem

import (
	"fmt"
	"sync"

	"github.com/helios-fab/secsgem/secs2"
)

// ID identifies a catalog entity (SV, DV, EC, CE, Report, Alarm,
// RemoteCommand); section 3 permits either an integer or string
// identity. Using `any` directly as the map key lets both coexist in
// the same map, the way the source's dynamic identity does.
type ID any

// StatusVariable is a read-only value the host polls via S1F3/4.
type StatusVariable struct {
	ID          ID
	Name        string
	Unit        string
	WireFormat  secs2.Format
	UseCallback bool
	Value       any
}

// DataValue is a StatusVariable counterpart included only in event
// reports, never polled directly.
type DataValue struct {
	ID          ID
	Name        string
	WireFormat  secs2.Format
	UseCallback bool
	Value       any
}

// EquipmentConstant is host-writable via S2F15/16, subject to
// [Min,Max] validation (section 3, invariant 3).
type EquipmentConstant struct {
	ID         ID
	Name       string
	Min, Max   any // nil disables the bound
	Default    any
	Unit       string
	WireFormat secs2.Format

	UseCallback bool
	Value       any
}

// CollectionEvent is a named trigger point bundling the DV/SV ids a
// linked Report may draw from.
type CollectionEvent struct {
	ID      ID
	Name    string
	Members []ID // DV/SV ids this CE makes available to reports
}

// Report is a list of VIDs (SV/DV ids) created by the host via S2F33.
type Report struct {
	ID   ID
	VIDs []ID
}

// Alarm has enabled/set flags mutable independently of its
// configuration, per section 4.11.
type Alarm struct {
	ID     ID
	Name   string
	Text   string
	Code   byte // ALCD base code, combined with AlarmSet/AlarmClear
	CEOn   ID   // collection event fired on set, nil if none
	CEOff  ID   // collection event fired on clear, nil if none

	Enabled bool
	Set     bool
}

// RemoteCommand is dispatched from S2F41 by its RCMD name.
type RemoteCommand struct {
	RCMD           string
	Name           string
	ParamNames     []string
	CompletionCE   ID
	Callback       Callback
}

// ALCD bit values, per section 8 scenario S5.
const (
	AlarmPersonalSafety  byte = 0x80
	AlarmEquipmentSafety byte = 0x40
	AlarmParameterBound  byte = 0x20
	AlarmEquipmentStatus byte = 0x10
	AlarmAttention       byte = 0x08
	AlarmSet             byte = 0x80 // bit 8, ORed onto the ALCD base code
	AlarmClear           byte = 0x00
)

// Catalog is a handler's owned set of SV/DV/EC/CE/Report/Alarm/
// RemoteCommand registries plus the CE-link and enabled-CE sets, per
// the DESIGN NOTES "Global catalogs" re-architecture: never
// process-global, always an instance field of the owning handler.
type Catalog struct {
	mu sync.RWMutex

	svs   map[ID]*StatusVariable
	dvs   map[ID]*DataValue
	ecs   map[ID]*EquipmentConstant
	ces   map[ID]*CollectionEvent
	rpts  map[ID]*Report
	alarms map[ID]*Alarm
	rcmds map[string]*RemoteCommand

	// links maps a CE id to the set of Report ids bound to it via
	// S2F35.
	links map[ID]map[ID]bool

	// enabled is the set of CE ids enabled via S2F37.
	enabled map[ID]bool
}

// NewCatalog returns an empty catalog.
func NewCatalog() *Catalog {
	return &Catalog{
		svs:     make(map[ID]*StatusVariable),
		dvs:     make(map[ID]*DataValue),
		ecs:     make(map[ID]*EquipmentConstant),
		ces:     make(map[ID]*CollectionEvent),
		rpts:    make(map[ID]*Report),
		alarms:  make(map[ID]*Alarm),
		rcmds:   make(map[string]*RemoteCommand),
		links:   make(map[ID]map[ID]bool),
		enabled: make(map[ID]bool),
	}
}

// RegisterSV adds a status variable. Registering a duplicate id is a
// programmer error and panics, mirroring the registration-time
// panics of this codebase's other static catalogs.
func (c *Catalog) RegisterSV(sv *StatusVariable) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, exists := c.svs[sv.ID]; exists {
		panic(fmt.Sprintf("secsgem: SV %v already registered", sv.ID))
	}
	c.svs[sv.ID] = sv
}

// RegisterDV adds a data value.
func (c *Catalog) RegisterDV(dv *DataValue) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, exists := c.dvs[dv.ID]; exists {
		panic(fmt.Sprintf("secsgem: DV %v already registered", dv.ID))
	}
	c.dvs[dv.ID] = dv
}

// RegisterEC adds an equipment constant.
func (c *Catalog) RegisterEC(ec *EquipmentConstant) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, exists := c.ecs[ec.ID]; exists {
		panic(fmt.Sprintf("secsgem: EC %v already registered", ec.ID))
	}
	if ec.Value == nil {
		ec.Value = ec.Default
	}
	c.ecs[ec.ID] = ec
}

// RegisterCE adds a collection event.
func (c *Catalog) RegisterCE(ce *CollectionEvent) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, exists := c.ces[ce.ID]; exists {
		panic(fmt.Sprintf("secsgem: CE %v already registered", ce.ID))
	}
	c.ces[ce.ID] = ce
}

// RegisterAlarm adds an alarm, disabled and cleared by default.
func (c *Catalog) RegisterAlarm(a *Alarm) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, exists := c.alarms[a.ID]; exists {
		panic(fmt.Sprintf("secsgem: alarm %v already registered", a.ID))
	}
	c.alarms[a.ID] = a
}

// RegisterRemoteCommand adds a remote command.
func (c *Catalog) RegisterRemoteCommand(rc *RemoteCommand) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, exists := c.rcmds[rc.RCMD]; exists {
		panic(fmt.Sprintf("secsgem: remote command %s already registered", rc.RCMD))
	}
	c.rcmds[rc.RCMD] = rc
}

func (c *Catalog) sv(id ID) (*StatusVariable, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	sv, ok := c.svs[id]
	return sv, ok
}

func (c *Catalog) dv(id ID) (*DataValue, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	dv, ok := c.dvs[id]
	return dv, ok
}

// EC write ack codes (EAC), echoed by S2F16.
const (
	EACOK          uint8 = 0
	EACUnknownECID uint8 = 1
	EACOutOfRange  uint8 = 3
)

// ECValue returns id's current value and wire format for an S2F14
// reply, or false if id is unknown.
func (c *Catalog) ECValue(id ID) (secs2.Item, bool) {
	ec, ok := c.ec(id)
	if !ok {
		return secs2.Item{}, false
	}
	item, err := coerce(ec.WireFormat, ec.Value)
	if err != nil {
		return secs2.Item{}, false
	}
	return item, true
}

// WriteEC sets id's value after checking it against [Min, Max] and
// against the EC's wire format, per invariant 3. Unknown ids, and
// values that are out of range or do not coerce to the wire format,
// are reported via the returned EAC code rather than an error.
func (c *Catalog) WriteEC(id ID, v any) uint8 {
	c.mu.Lock()
	defer c.mu.Unlock()
	ec, ok := c.ecs[id]
	if !ok {
		return EACUnknownECID
	}
	if !compareRange(v, ec.Min, ec.Max) {
		return EACOutOfRange
	}
	if _, err := coerce(ec.WireFormat, v); err != nil {
		return EACOutOfRange
	}
	ec.Value = v
	return EACOK
}

func (c *Catalog) ec(id ID) (*EquipmentConstant, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	ec, ok := c.ecs[id]
	return ec, ok
}

func (c *Catalog) ce(id ID) (*CollectionEvent, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	ce, ok := c.ces[id]
	return ce, ok
}

func (c *Catalog) alarm(id ID) (*Alarm, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	a, ok := c.alarms[id]
	return a, ok
}

func (c *Catalog) remoteCommand(rcmd string) (*RemoteCommand, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	rc, ok := c.rcmds[rcmd]
	return rc, ok
}

// EnabledCEs returns the ids of every collection event currently
// enabled via S2F37, backing the EVENTS_ENABLED predefined SV.
func (c *Catalog) EnabledCEs() []ID {
	c.mu.RLock()
	defer c.mu.RUnlock()
	ids := make([]ID, 0, len(c.enabled))
	for id, on := range c.enabled {
		if on {
			ids = append(ids, id)
		}
	}
	return ids
}

// EnabledAlarms returns the ids of every alarm currently enabled,
// backing the ALARMS_ENABLED predefined SV.
func (c *Catalog) EnabledAlarms() []ID {
	c.mu.RLock()
	defer c.mu.RUnlock()
	var ids []ID
	for id, a := range c.alarms {
		if a.Enabled {
			ids = append(ids, id)
		}
	}
	return ids
}

// SetAlarms returns the ids of every alarm currently set (active),
// backing the ALARMS_SET predefined SV.
func (c *Catalog) SetAlarms() []ID {
	c.mu.RLock()
	defer c.mu.RUnlock()
	var ids []ID
	for id, a := range c.alarms {
		if a.Set {
			ids = append(ids, id)
		}
	}
	return ids
}

// variableValue resolves a VID (SV or DV) to its current wire value,
// invoking the owner's callback when UseCallback is set, per section
// 4.9 "Value resolution".
func (c *Catalog) variableValue(id ID, svCallback func(ID) (any, bool), dvCallback func(ID) (any, bool)) (secs2.Item, error) {
	if sv, ok := c.sv(id); ok {
		v := sv.Value
		if sv.UseCallback && svCallback != nil {
			if cv, ok := svCallback(id); ok {
				v = cv
			}
		}
		return coerce(sv.WireFormat, v)
	}
	if dv, ok := c.dv(id); ok {
		v := dv.Value
		if dv.UseCallback && dvCallback != nil {
			if cv, ok := dvCallback(id); ok {
				v = cv
			}
		}
		return coerce(dv.WireFormat, v)
	}
	return secs2.Item{}, fmt.Errorf("secsgem: unknown VID %v", id)
}

// EC writes are committed only if within bounds and the value
// type-coerces to the declared wire-type, per invariant 3.
var errOutOfRange = fmt.Errorf("secsgem: equipment constant value out of range")

// coerce converts a Go value into a typed secs2.Item of the requested
// wire format. Unlike the source's lenient runtime coercion, this
// keeps the strict typed mapping section 9's Open Question 3 flags as
// the deliberate divergence: SV/DV/EC values are always stored as one
// of this set of Go types and refused otherwise.
func coerce(format secs2.Format, v any) (secs2.Item, error) {
	switch format {
	case secs2.FormatASCII:
		s, ok := v.(string)
		if !ok {
			return secs2.Item{}, fmt.Errorf("secsgem: value %v is not a string for ASCII", v)
		}
		return secs2.A(s), nil
	case secs2.FormatU1:
		return numericItem(v, func(n uint64) secs2.Item { return secs2.U1(uint8(n)) })
	case secs2.FormatU2:
		return numericItem(v, func(n uint64) secs2.Item { return secs2.U2(uint16(n)) })
	case secs2.FormatU4:
		return numericItem(v, func(n uint64) secs2.Item { return secs2.U4(uint32(n)) })
	case secs2.FormatU8:
		return numericItem(v, func(n uint64) secs2.Item { return secs2.U8(n) })
	case secs2.FormatI1:
		return numericItem(v, func(n uint64) secs2.Item { return secs2.I1(int8(n)) })
	case secs2.FormatI2:
		return numericItem(v, func(n uint64) secs2.Item { return secs2.I2(int16(n)) })
	case secs2.FormatI4:
		return numericItem(v, func(n uint64) secs2.Item { return secs2.I4(int32(n)) })
	case secs2.FormatI8:
		return numericItem(v, func(n uint64) secs2.Item { return secs2.I8(int64(n)) })
	case secs2.FormatF4:
		f, ok := asFloat(v)
		if !ok {
			return secs2.Item{}, fmt.Errorf("secsgem: value %v is not numeric for F4", v)
		}
		return secs2.F4(float32(f)), nil
	case secs2.FormatF8:
		f, ok := asFloat(v)
		if !ok {
			return secs2.Item{}, fmt.Errorf("secsgem: value %v is not numeric for F8", v)
		}
		return secs2.F8(f), nil
	case secs2.FormatList:
		ids, ok := v.([]ID)
		if !ok {
			return secs2.Item{}, fmt.Errorf("secsgem: value %v is not a []ID for LIST", v)
		}
		items := make([]secs2.Item, len(ids))
		for i, id := range ids {
			items[i] = idItem(id)
		}
		return secs2.L(items...), nil
	default:
		return secs2.Item{}, fmt.Errorf("secsgem: unsupported wire format %s", format)
	}
}

func numericItem(v any, build func(uint64) secs2.Item) (secs2.Item, error) {
	n, ok := asUint64(v)
	if !ok {
		return secs2.Item{}, fmt.Errorf("secsgem: value %v is not numeric", v)
	}
	return build(n), nil
}

func asUint64(v any) (uint64, bool) {
	switch n := v.(type) {
	case int:
		return uint64(n), true
	case int8:
		return uint64(n), true
	case int16:
		return uint64(n), true
	case int32:
		return uint64(n), true
	case int64:
		return uint64(n), true
	case uint:
		return uint64(n), true
	case uint8:
		return uint64(n), true
	case uint16:
		return uint64(n), true
	case uint32:
		return uint64(n), true
	case uint64:
		return n, true
	default:
		return 0, false
	}
}

func asFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float32:
		return float64(n), true
	case float64:
		return n, true
	default:
		u, ok := asUint64(v)
		return float64(u), ok
	}
}

// compareRange reports whether v is within [min, max], using numeric
// comparison; a nil bound is unconstrained.
func compareRange(v, min, max any) bool {
	if min == nil && max == nil {
		return true
	}
	nv, ok := asFloat(v)
	if !ok {
		return false
	}
	if min != nil {
		if nmin, ok := asFloat(min); ok && nv < nmin {
			return false
		}
	}
	if max != nil {
		if nmax, ok := asFloat(max); ok && nv > nmax {
			return false
		}
	}
	return true
}
