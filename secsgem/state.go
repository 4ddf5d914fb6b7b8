package secsgem

import "sync"

// CommState is the GEM Communication state machine of section 4.7.
type CommState int

const (
	Disabled CommState = iota
	WaitCRFromHost
	WaitDelay
	Communicating
)

func (s CommState) String() string {
	switch s {
	case Disabled:
		return "DISABLED"
	case WaitCRFromHost:
		return "WAIT-CR-FROM-HOST"
	case WaitDelay:
		return "WAIT-DELAY"
	case Communicating:
		return "COMMUNICATING"
	default:
		return "unknown"
	}
}

// ControlState is the GEM Control state machine of section 4.8.
type ControlState int

const (
	EquipmentOffline ControlState = iota
	AttemptOnline
	HostOffline
	OnlineLocal
	OnlineRemote
)

func (s ControlState) String() string {
	switch s {
	case EquipmentOffline:
		return "EquipmentOffline"
	case AttemptOnline:
		return "AttemptOnline"
	case HostOffline:
		return "HostOffline"
	case OnlineLocal:
		return "OnlineLocal"
	case OnlineRemote:
		return "OnlineRemote"
	default:
		return "unknown"
	}
}

// controlStateID is the status-variable encoding of the Control state,
// per section 4.8's `_get_control_state_id()`: 1 Init, 2
// EquipmentOffline, 3 HostOffline, 4 OnlineLocal, 5 OnlineRemote.
// AttemptOnline reports as Init since it has not yet resolved.
func (s ControlState) controlStateID() uint8 {
	switch s {
	case EquipmentOffline:
		return 2
	case AttemptOnline:
		return 1
	case HostOffline:
		return 3
	case OnlineLocal:
		return 4
	case OnlineRemote:
		return 5
	default:
		return 1
	}
}

// OnlinePreference selects which Online state AttemptOnline resolves
// to on a successful S1F2.
type OnlinePreference int

const (
	PreferLocal OnlinePreference = iota
	PreferRemote
)

// StateMachine owns both GEM state machines for one handler instance.
// Both start in fixed states (see NewStateMachine); the only
// configurable choice is the Online state reached from AttemptOnline,
// via OnlinePreference.
type StateMachine struct {
	mu sync.Mutex

	comm    CommState
	control ControlState
	prefer  OnlinePreference

	events *EventProducer
}

// NewStateMachine starts in Disabled/EquipmentOffline, the
// conservative defaults a fresh handler boots into.
func NewStateMachine(prefer OnlinePreference, events *EventProducer) *StateMachine {
	return &StateMachine{
		comm:    Disabled,
		control: EquipmentOffline,
		prefer:  prefer,
		events:  events,
	}
}

func (m *StateMachine) fire(name string, payload any) {
	if m.events != nil {
		m.events.Fire(name, payload)
	}
}

// Comm returns the current Communication state.
func (m *StateMachine) Comm() CommState {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.comm
}

// Control returns the current Control state.
func (m *StateMachine) Control() ControlState {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.control
}

// ControlStateID returns the status-variable encoding of the current
// Control state.
func (m *StateMachine) ControlStateID() uint8 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.control.controlStateID()
}

// Enable moves Disabled -> WaitCRFromHost, per section 4.7.
func (m *StateMachine) Enable() {
	m.mu.Lock()
	if m.comm != Disabled {
		m.mu.Unlock()
		return
	}
	m.comm = WaitCRFromHost
	m.mu.Unlock()
	m.fire("comm_enable", nil)
}

// Disable moves any Communication state back to Disabled.
func (m *StateMachine) Disable() {
	m.mu.Lock()
	m.comm = Disabled
	m.control = EquipmentOffline
	m.mu.Unlock()
	m.fire("comm_disable", nil)
}

// CommACKEstablished handles a received S1F14 COMMACK: 0 moves
// WaitCRFromHost -> Communicating; any other value moves to
// WaitDelay, to retry after EstablishCommunicationsTimeout.
func (m *StateMachine) CommACKEstablished(commack uint8) {
	m.mu.Lock()
	if m.comm != WaitCRFromHost {
		m.mu.Unlock()
		return
	}
	if commack == 0 {
		m.comm = Communicating
		m.mu.Unlock()
		m.fire("comm_established", nil)
		return
	}
	m.comm = WaitDelay
	m.mu.Unlock()
	m.fire("comm_wait_delay", nil)
}

// RetryAfterDelay moves WaitDelay back to WaitCRFromHost so the
// caller can resend S1F13.
func (m *StateMachine) RetryAfterDelay() {
	m.mu.Lock()
	if m.comm == WaitDelay {
		m.comm = WaitCRFromHost
	}
	m.mu.Unlock()
}

// BeginAttemptOnline moves EquipmentOffline -> AttemptOnline, the
// state that sends S1F1.
func (m *StateMachine) BeginAttemptOnline() {
	m.mu.Lock()
	m.control = AttemptOnline
	m.mu.Unlock()
	m.fire("control_attempt_online", nil)
}

// AreYouThereAck handles the local-side response to S1F1: ok moves to
// Online* per the configured preference; !ok (timeout or denial)
// moves to HostOffline.
func (m *StateMachine) AreYouThereAck(ok bool) {
	m.mu.Lock()
	if m.control != AttemptOnline {
		m.mu.Unlock()
		return
	}
	if !ok {
		m.control = HostOffline
		m.mu.Unlock()
		m.fire("control_host_offline", nil)
		return
	}
	if m.prefer == PreferRemote {
		m.control = OnlineRemote
	} else {
		m.control = OnlineLocal
	}
	state := m.control
	m.mu.Unlock()
	m.fire("control_online", state)
}

// RequestOffline handles S1F15: any Online state moves to
// HostOffline, always acknowledged OFLACK=0.
func (m *StateMachine) RequestOffline() (oflack uint8) {
	m.mu.Lock()
	wasOnline := m.control == OnlineLocal || m.control == OnlineRemote
	if wasOnline {
		m.control = HostOffline
	}
	m.mu.Unlock()
	if wasOnline {
		m.fire("control_host_offline", nil)
	}
	return 0
}

// RequestOnline handles S1F17: HostOffline -> OnlineRemote with
// ONLACK=0; an already-online state is unchanged and returns
// ONLACK=2.
func (m *StateMachine) RequestOnline() (onlack uint8) {
	m.mu.Lock()
	switch m.control {
	case OnlineLocal, OnlineRemote:
		m.mu.Unlock()
		return 2
	case HostOffline:
		m.control = OnlineRemote
		m.mu.Unlock()
		m.fire("control_online", OnlineRemote)
		return 0
	default:
		m.mu.Unlock()
		return 2
	}
}
