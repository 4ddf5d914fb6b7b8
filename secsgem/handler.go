package secsgem

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/helios-fab/secsgem/hsms"
	"github.com/helios-fab/secsgem/secs2"
)

var logger = log.New(os.Stderr, "secsgem: ", log.LstdFlags)

// Handler is the Equipment-side GEM facade: it owns a Catalog, the
// Control/Communication state machines, the report/alarm/remote-
// command engines, and dispatches inbound SxFy traffic over an hsms
// Session to callbacks named `s<stream>f<function>`, per section 6
// "Callback naming". Remote commands are not looked up by name in
// Callbacks: an S2F41 runs the Callback field of the matching
// RemoteCommand in the Catalog.
type Handler struct {
	Session  *hsms.Session
	Registry *secs2.Registry
	Catalog  *Catalog

	State    *StateMachine
	Reports  *ReportEngine
	Alarms   *AlarmEngine
	Commands *RemoteCommandEngine

	Callbacks *CallbackHandler
	Events    *EventProducer
	Metrics   *Metrics

	TimeFormat TimeFormat

	ctx    context.Context
	cancel context.CancelFunc
}

// NewHandler wires a fresh Handler around session using the default
// SEMI E5/E37 registry, per the PACKAGE LAYOUT "Equipment/Host facade
// wiring hsms + secs2 + GEM".
func NewHandler(session *hsms.Session, prefer OnlinePreference) *Handler {
	cat := NewCatalog()
	events := NewEventProducer()
	sm := NewStateMachine(prefer, events)
	registerPredefined(cat, sm, TimeFormatShort)

	ctx, cancel := context.WithCancel(context.Background())
	h := &Handler{
		Session:    session,
		Registry:   secs2.Default,
		Catalog:    cat,
		State:      sm,
		Reports:    NewReportEngine(cat),
		Alarms:     NewAlarmEngine(cat),
		Commands:   NewRemoteCommandEngine(cat),
		Callbacks:  NewCallbackHandler(),
		Events:     events,
		TimeFormat: TimeFormatShort,
		ctx:        ctx,
		cancel:     cancel,
	}
	h.Metrics = NewMetrics(sm, []string{"session"}, []string{fmt.Sprint(session.SessionID)})

	h.Reports.BindSender(h.sendEventReport)
	h.Reports.BindValueCallbacks(h.svValue, nil)
	h.Alarms.BindSender(h.sendAlarmReport)
	h.Alarms.BindTrigger(h.trigger)
	h.Commands.BindTrigger(h.trigger)

	return h
}

// svValue resolves the predefined ids registered by registerPredefined
// against the live session state, rather than a value frozen at
// registration time.
func (h *Handler) svValue(id ID) (any, bool) {
	switch id {
	case IDClock:
		ts, err := EncodeClock(time.Now(), h.TimeFormat)
		if err != nil {
			return nil, false
		}
		return ts, true
	case IDControlState:
		return h.State.ControlStateID(), true
	case IDEventsEnabled:
		return h.Catalog.EnabledCEs(), true
	case IDAlarmsEnabled:
		return h.Catalog.EnabledAlarms(), true
	case IDAlarmsSet:
		return h.Catalog.SetAlarms(), true
	default:
		return nil, false
	}
}

// trigger fires a collection event and records it for Metrics,
// wrapping Reports.Trigger so every ce_on/ce_off and remote-command
// completion trigger is observable regardless of entry point.
func (h *Handler) trigger(ceID ID) error {
	h.Metrics.RecordTrigger()
	return h.Reports.Trigger(ceID)
}

// Run drains the session's inbound channel, dispatching each data
// message to its named callback until the session closes or ctx is
// done. Per section 5's "no callback on the reader thread may block
// on a reply from the same connection" rule, callback dispatch runs
// in its own goroutine per message so a slow handler cannot stall
// delivery of the next frame.
func (h *Handler) Run(ctx context.Context) error {
	for {
		select {
		case fr, ok := <-h.Session.In:
			if !ok {
				return nil
			}
			go h.dispatch(fr)
		case err, ok := <-h.Session.Err:
			if !ok || err == nil {
				return nil
			}
			return err
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

func (h *Handler) dispatch(fr hsms.Frame) {
	stream, function := fr.Header.Stream(), fr.Header.Function()
	fv, err := h.Registry.Decode(stream, function, fr.Header.WBit(), fr.Body)
	if err != nil {
		logger.Printf("decode S%dF%d: %v", stream, function, err)
		return
	}

	name := fmt.Sprintf("s%df%d", stream, function)
	if result, ok := h.Callbacks.Call(name, fv); ok {
		if reply, ok := result.(*secs2.FunctionValue); ok && fv.Descriptor.WBit {
			h.replyTo(fr, reply)
		}
		return
	}

	switch fv.Descriptor.Name() {
	case "S1F1":
		h.handleAreYouThere(fr, fv)
	case "S1F13":
		h.handleEstablishCommunications(fr, fv)
	case "S1F15":
		h.handleRequestOffline(fr, fv)
	case "S1F17":
		h.handleRequestOnline(fr, fv)
	case "S2F33":
		h.handleDefineReport(fr, fv)
	case "S2F35":
		h.handleLinkReport(fr, fv)
	case "S2F37":
		h.handleEnableEvents(fr, fv)
	case "S2F41":
		h.handleRemoteCommand(fr, fv)
	case "S2F13":
		h.handleECRequest(fr, fv)
	case "S2F15":
		h.handleECWrite(fr, fv)
	}
}

func (h *Handler) replyTo(req hsms.Frame, reply *secs2.FunctionValue) {
	body, err := reply.Encode()
	if err != nil {
		logger.Printf("encode %s: %v", reply.Descriptor.Name(), err)
		return
	}
	rsp := hsms.Frame{
		Header: hsms.DataHeader(req.Header.SessionID, reply.Descriptor.Stream, reply.Descriptor.Function, false, req.Header.System),
		Body:   body,
	}
	if err := h.Session.Reply(rsp); err != nil {
		logger.Printf("reply %s: %v", reply.Descriptor.Name(), err)
	}
}

func (h *Handler) handleAreYouThere(fr hsms.Frame, _ *secs2.FunctionValue) {
	d, _ := h.Registry.Lookup(1, 2)
	reply, _ := secs2.NewFunctionValue(d, secs2.L(secs2.A(""), secs2.A("")))
	h.replyTo(fr, reply)
}

func (h *Handler) handleEstablishCommunications(fr hsms.Frame, _ *secs2.FunctionValue) {
	d, _ := h.Registry.Lookup(1, 14)
	reply, _ := secs2.NewFunctionValue(d, secs2.L(secs2.U1(0), secs2.L(secs2.A(""), secs2.A(""))))
	h.replyTo(fr, reply)
	h.State.CommACKEstablished(0)
}

// Enable moves the Communication state machine from Disabled into
// WaitCRFromHost and starts the loop that sends S1F13 on demand,
// retrying after ESTABLISH_COMMUNICATIONS_TIMEOUT on a denied or
// unanswered COMMACK, per section 4.7.
func (h *Handler) Enable(ctx context.Context) {
	h.State.Enable()
	go h.establishLoop(ctx)
}

// establishLoop drives WaitCRFromHost -> Communicating, retrying
// through WaitDelay until the host acks S1F13 with COMMACK=0.
func (h *Handler) establishLoop(ctx context.Context) {
	for {
		switch h.State.Comm() {
		case Communicating, Disabled:
			return
		case WaitCRFromHost:
			commack, err := h.sendEstablishCommunications(ctx)
			if err != nil {
				commack = 1
			}
			h.State.CommACKEstablished(commack)
		case WaitDelay:
			select {
			case <-time.After(h.establishTimeout()):
			case <-ctx.Done():
				return
			}
			h.State.RetryAfterDelay()
		}

		select {
		case <-ctx.Done():
			return
		default:
		}
	}
}

// sendEstablishCommunications sends S1F13 and returns the host's
// COMMACK, bounded by T3.
func (h *Handler) sendEstablishCommunications(ctx context.Context) (uint8, error) {
	d, ok := h.Registry.Lookup(1, 13)
	if !ok {
		return 0, fmt.Errorf("secsgem: S1F13 not registered")
	}
	fv, err := secs2.NewFunctionValue(d, secs2.L(secs2.A(""), secs2.A("")))
	if err != nil {
		return 0, err
	}
	payload, err := fv.Encode()
	if err != nil {
		return 0, err
	}

	system := h.Session.NextSystem()
	frame := hsms.Frame{Header: hsms.DataHeader(h.Session.SessionID, 1, 13, true, system), Body: payload}
	reply, err := h.Session.SendData(ctx, frame)
	if err != nil {
		return 0, err
	}
	replyFV, err := h.Registry.Decode(reply.Header.Stream(), reply.Header.Function(), reply.Header.WBit(), reply.Body)
	if err != nil {
		return 0, err
	}
	commack, _ := replyFV.GetUint("COMMACK")
	return uint8(commack), nil
}

// establishTimeout reads ESTABLISH_COMMUNICATIONS_TIMEOUT from the
// catalog, falling back to the EC's registered default if it is
// missing or carries an unexpected wire shape.
func (h *Handler) establishTimeout() time.Duration {
	item, ok := h.Catalog.ECValue(IDEstablishCommunicationsTimeout)
	if ok {
		if u := item.Uints(); len(u) > 0 {
			return time.Duration(u[0]) * time.Second
		}
	}
	return 10 * time.Second
}

func (h *Handler) handleRequestOffline(fr hsms.Frame, _ *secs2.FunctionValue) {
	oflack := h.State.RequestOffline()
	d, _ := h.Registry.Lookup(1, 16)
	reply, _ := secs2.NewFunctionValue(d, secs2.L(secs2.U1(oflack)))
	h.replyTo(fr, reply)
}

func (h *Handler) handleRequestOnline(fr hsms.Frame, _ *secs2.FunctionValue) {
	onlack := h.State.RequestOnline()
	d, _ := h.Registry.Lookup(1, 18)
	reply, _ := secs2.NewFunctionValue(d, secs2.L(secs2.U1(onlack)))
	h.replyTo(fr, reply)
}

func (h *Handler) handleDefineReport(fr hsms.Frame, fv *secs2.FunctionValue) {
	dataItems, _ := fv.GetList("DATA")
	var ack uint8
	if len(dataItems) == 0 {
		ack = h.Reports.ClearAllReports()
	} else {
		for _, entry := range dataItems {
			rptID := itemToID(entry.List()[0])
			vidItems := entry.List()[1].List()
			vids := make([]ID, len(vidItems))
			for i, v := range vidItems {
				vids[i] = itemToID(v)
			}
			if a := h.Reports.DefineReport(rptID, vids); a != DefineReportOK {
				ack = a
				break
			}
		}
	}
	d, _ := h.Registry.Lookup(2, 34)
	reply, _ := secs2.NewFunctionValue(d, secs2.L(secs2.U1(ack)))
	h.replyTo(fr, reply)
}

func (h *Handler) handleLinkReport(fr hsms.Frame, fv *secs2.FunctionValue) {
	dataItems, _ := fv.GetList("DATA")
	var ack uint8
	for _, entry := range dataItems {
		ceID := itemToID(entry.List()[0])
		rptItems := entry.List()[1].List()
		rptIDs := make([]ID, len(rptItems))
		for i, r := range rptItems {
			rptIDs[i] = itemToID(r)
		}
		if a := h.Reports.LinkReport(ceID, rptIDs); a != LinkReportOK {
			ack = a
			break
		}
	}
	d, _ := h.Registry.Lookup(2, 36)
	reply, _ := secs2.NewFunctionValue(d, secs2.L(secs2.U1(ack)))
	h.replyTo(fr, reply)
}

func (h *Handler) handleEnableEvents(fr hsms.Frame, fv *secs2.FunctionValue) {
	ceedItem, _ := fv.Get("CEED")
	enable := len(ceedItem.Bools()) > 0 && ceedItem.Bools()[0]
	ceItems, _ := fv.GetList("CEID")
	ceIDs := make([]ID, len(ceItems))
	for i, it := range ceItems {
		ceIDs[i] = itemToID(it)
	}
	ack := h.Reports.EnableEvents(enable, ceIDs)
	d, _ := h.Registry.Lookup(2, 38)
	reply, _ := secs2.NewFunctionValue(d, secs2.L(secs2.U1(ack)))
	h.replyTo(fr, reply)
}

func (h *Handler) handleECRequest(fr hsms.Frame, fv *secs2.FunctionValue) {
	ecItems, _ := fv.GetList("ECID")
	values := make([]secs2.Item, len(ecItems))
	for i, it := range ecItems {
		if v, ok := h.Catalog.ECValue(itemToID(it)); ok {
			values[i] = v
		} else {
			values[i] = secs2.L()
		}
	}
	d, _ := h.Registry.Lookup(2, 14)
	reply, _ := secs2.NewFunctionValue(d, secs2.L(values...))
	h.replyTo(fr, reply)
}

func (h *Handler) handleECWrite(fr hsms.Frame, fv *secs2.FunctionValue) {
	dataItems, _ := fv.GetList("DATA")
	var eac uint8
	for _, entry := range dataItems {
		children := entry.List()
		id := itemToID(children[0])
		if a := h.Catalog.WriteEC(id, valueFromItem(children[1])); a != EACOK {
			eac = a
			break
		}
	}
	d, _ := h.Registry.Lookup(2, 16)
	reply, _ := secs2.NewFunctionValue(d, secs2.L(secs2.U1(eac)))
	h.replyTo(fr, reply)
}

func (h *Handler) handleRemoteCommand(fr hsms.Frame, fv *secs2.FunctionValue) {
	h.Metrics.RecordRemoteCommand()
	rcmd, _ := fv.GetString("RCMD")
	paramItems, _ := fv.GetList("PARAMS")
	params := make([]CommandParam, len(paramItems))
	for i, p := range paramItems {
		children := p.List()
		params[i] = CommandParam{CPNAME: children[0].String(), CPVAL: children[1]}
	}

	result, complete := h.Commands.Dispatch(rcmd, params)
	d, _ := h.Registry.Lookup(2, 42)
	cpackItems := make([]secs2.Item, len(result.CPACKs))
	for i, c := range result.CPACKs {
		cpackItems[i] = secs2.L(secs2.A(params[i].CPNAME), secs2.U1(c))
	}
	reply, _ := secs2.NewFunctionValue(d, secs2.L(secs2.U1(result.HCACK), secs2.L(cpackItems...)))
	h.replyTo(fr, reply)

	if complete != nil {
		go complete()
	}
}

// sendEventReport transmits one S6F11 per linked report for a
// trigger, waiting for its S6F12 ack, bounded by T3.
func (h *Handler) sendEventReport(dataID string, ceID ID, reports []reportValues) error {
	for _, r := range reports {
		rptItem := secs2.L(idItem(r.RPTID), secs2.L(valuesToItems(r.V)...))
		body := secs2.L(idItem(dataID), idItem(ceID), secs2.L(rptItem))

		d, _ := h.Registry.Lookup(6, 11)
		fv, err := secs2.NewFunctionValue(d, body)
		if err != nil {
			return err
		}
		payload, err := fv.Encode()
		if err != nil {
			return err
		}

		system := h.Session.NextSystem()
		ctx, cancel := context.WithTimeout(h.ctx, 45*time.Second)
		frame := hsms.Frame{Header: hsms.DataHeader(h.Session.SessionID, 6, 11, true, system), Body: payload}
		_, err = h.Session.SendData(ctx, frame)
		cancel()
		if err != nil {
			return err
		}
	}
	return nil
}

// sendAlarmReport transmits S5F1 for an alarm transition and waits
// for S5F2.
func (h *Handler) sendAlarmReport(id ID, alcd byte) error {
	a, ok := h.Catalog.alarm(id)
	if !ok {
		return fmt.Errorf("secsgem: unknown alarm %v", id)
	}
	body := secs2.L(secs2.U1(alcd), idItem(id), secs2.A(a.Text))
	d, _ := h.Registry.Lookup(5, 1)
	fv, err := secs2.NewFunctionValue(d, body)
	if err != nil {
		return err
	}
	payload, err := fv.Encode()
	if err != nil {
		return err
	}

	system := h.Session.NextSystem()
	ctx, cancel := context.WithTimeout(h.ctx, 45*time.Second)
	defer cancel()
	frame := hsms.Frame{Header: hsms.DataHeader(h.Session.SessionID, 5, 1, true, system), Body: payload}
	_, err = h.Session.SendData(ctx, frame)
	return err
}

// SetAlarm raises an alarm and records it for Metrics, the entry
// point equipment-side code should use instead of h.Alarms.SetAlarm
// directly.
func (h *Handler) SetAlarm(id ID) error {
	h.Metrics.RecordAlarmSet()
	return h.Alarms.SetAlarm(id)
}

// ClearAlarm lowers an alarm and records it for Metrics.
func (h *Handler) ClearAlarm(id ID) error {
	h.Metrics.RecordAlarmClear()
	return h.Alarms.ClearAlarm(id)
}

// Close stops Run and releases the handler's background context.
func (h *Handler) Close() {
	h.cancel()
}

// itemToID widens a decoded id-leaf into a comparable ID value:
// ASCII ids stay strings, numeric ids widen to their signed/unsigned
// 64-bit form, matching how registerPredefined and LoadCatalogJSON
// key their maps.
func itemToID(it secs2.Item) ID {
	switch it.Format() {
	case secs2.FormatASCII, secs2.FormatJIS8:
		return it.String()
	case secs2.FormatU1, secs2.FormatU2, secs2.FormatU4, secs2.FormatU8:
		if u := it.Uints(); len(u) > 0 {
			return u[0]
		}
	case secs2.FormatI1, secs2.FormatI2, secs2.FormatI4, secs2.FormatI8:
		if i := it.Ints(); len(i) > 0 {
			return i[0]
		}
	}
	return nil
}

// valueFromItem widens a decoded wire item into the plain Go value
// WriteEC's range check and re-encode expect.
func valueFromItem(it secs2.Item) any {
	switch it.Format() {
	case secs2.FormatASCII, secs2.FormatJIS8:
		return it.String()
	case secs2.FormatU1, secs2.FormatU2, secs2.FormatU4, secs2.FormatU8:
		if u := it.Uints(); len(u) > 0 {
			return u[0]
		}
	case secs2.FormatI1, secs2.FormatI2, secs2.FormatI4, secs2.FormatI8:
		if i := it.Ints(); len(i) > 0 {
			return i[0]
		}
	case secs2.FormatF4, secs2.FormatF8:
		if f := it.Floats(); len(f) > 0 {
			return f[0]
		}
	}
	return nil
}

// idItem is itemToID's inverse for ids the handler itself originates
// (DATAID, CEID, RPTID, ALID): a string becomes an A item, a uint64 a
// U4 and an int64 an I4 (both truncated to 32 bits), and any other
// value the A item of its fmt.Sprint text.
func idItem(id ID) secs2.Item {
	switch v := id.(type) {
	case string:
		return secs2.A(v)
	case uint64:
		return secs2.U4(uint32(v))
	case int64:
		return secs2.I4(int32(v))
	default:
		return secs2.A(fmt.Sprint(v))
	}
}

// valuesToItems converts the report engine's resolved values (already
// secs2.Item from Catalog.variableValue) back to a plain []secs2.Item
// for list construction.
func valuesToItems(vs []any) []secs2.Item {
	items := make([]secs2.Item, len(vs))
	for i, v := range vs {
		if it, ok := v.(secs2.Item); ok {
			items[i] = it
			continue
		}
		items[i] = secs2.A(fmt.Sprint(v))
	}
	return items
}
