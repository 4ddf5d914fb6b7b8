package secsgem

import (
	"fmt"
	"sync"
)

// Report engine ack codes, section 4.9.
const (
	DefineReportOK           uint8 = 0
	DefineReportAlreadyExists uint8 = 3
	DefineReportUnknownVID   uint8 = 4

	LinkReportOK          uint8 = 0
	LinkReportAlreadyLinked uint8 = 3
	LinkReportUnknownRPT  uint8 = 4
	LinkReportUnknownCE   uint8 = 5

	EnableEventsOK      uint8 = 0
	EnableEventsUnknownCE uint8 = 1
)

// ReportEngine implements S2F33/35/37 and the S6F11 trigger path of
// section 4.9, serialized so a trigger always observes a consistent
// snapshot of reports/links/enabled sets (section 5, "Shared
// resources").
type ReportEngine struct {
	mu  sync.Mutex
	cat *Catalog

	svCallback func(ID) (any, bool)
	dvCallback func(ID) (any, bool)

	// sendReport delivers one S6F11 RPT bundle for a trigger and
	// blocks for the S6F12 ack, wired by the owning handler.
	sendReport func(dataID string, ceID ID, reports []reportValues) error
}

type reportValues struct {
	RPTID ID
	V     []any
}

// NewReportEngine binds engine operations to cat, invoked by the
// owning handler with its own transport closures.
func NewReportEngine(cat *Catalog) *ReportEngine {
	return &ReportEngine{cat: cat}
}

// BindValueCallbacks installs the optional per-VID value resolvers of
// section 4.9 "Value resolution".
func (e *ReportEngine) BindValueCallbacks(sv, dv func(ID) (any, bool)) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.svCallback, e.dvCallback = sv, dv
}

// BindSender installs the S6F11/S6F12 transport, invoked once by the
// owning handler during setup.
func (e *ReportEngine) BindSender(fn func(dataID string, ceID ID, reports []reportValues) error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.sendReport = fn
}

// DefineReport implements S2F33 for a single {RPTID, VID} entry.
// Passing a nil/empty vids slice deletes rptID and removes it from
// every CE link (clearing every report is ClearAllReports); a
// non-empty vids list creates rptID if it is new.
func (e *ReportEngine) DefineReport(rptID ID, vids []ID) uint8 {
	e.cat.mu.Lock()
	defer e.cat.mu.Unlock()

	if len(vids) == 0 {
		delete(e.cat.rpts, rptID)
		for _, linked := range e.cat.links {
			delete(linked, rptID)
		}
		return DefineReportOK
	}

	for _, vid := range vids {
		if _, isSV := e.cat.svs[vid]; isSV {
			continue
		}
		if _, isDV := e.cat.dvs[vid]; isDV {
			continue
		}
		return DefineReportUnknownVID
	}

	if _, exists := e.cat.rpts[rptID]; exists {
		return DefineReportAlreadyExists
	}
	e.cat.rpts[rptID] = &Report{ID: rptID, VIDs: append([]ID(nil), vids...)}
	return DefineReportOK
}

// ClearAllReports implements S2F33's empty-DATA case: delete every
// report and every CE-link, ack 0.
func (e *ReportEngine) ClearAllReports() uint8 {
	e.cat.mu.Lock()
	defer e.cat.mu.Unlock()
	e.cat.rpts = make(map[ID]*Report)
	e.cat.links = make(map[ID]map[ID]bool)
	return DefineReportOK
}

// LinkReport implements S2F35 for a single {CEID, RPTID} entry. An
// empty rptIDs slice unlinks every report from ceID.
func (e *ReportEngine) LinkReport(ceID ID, rptIDs []ID) uint8 {
	e.cat.mu.Lock()
	defer e.cat.mu.Unlock()

	if _, ok := e.cat.ces[ceID]; !ok {
		return LinkReportUnknownCE
	}
	if len(rptIDs) == 0 {
		delete(e.cat.links, ceID)
		return LinkReportOK
	}

	linked := e.cat.links[ceID]
	for _, rptID := range rptIDs {
		if _, ok := e.cat.rpts[rptID]; !ok {
			return LinkReportUnknownRPT
		}
		if linked != nil && linked[rptID] {
			return LinkReportAlreadyLinked
		}
	}

	if linked == nil {
		linked = make(map[ID]bool)
		e.cat.links[ceID] = linked
	}
	for _, rptID := range rptIDs {
		linked[rptID] = true
	}
	return LinkReportOK
}

// EnableEvents implements S2F37. An empty ceIDs list targets every
// known CE.
func (e *ReportEngine) EnableEvents(enable bool, ceIDs []ID) uint8 {
	e.cat.mu.Lock()
	defer e.cat.mu.Unlock()

	targets := ceIDs
	if len(targets) == 0 {
		targets = make([]ID, 0, len(e.cat.ces))
		for id := range e.cat.ces {
			targets = append(targets, id)
		}
	} else {
		for _, id := range targets {
			if _, ok := e.cat.ces[id]; !ok {
				return EnableEventsUnknownCE
			}
		}
	}

	for _, id := range targets {
		if enable {
			e.cat.enabled[id] = true
		} else {
			delete(e.cat.enabled, id)
		}
	}
	return EnableEventsOK
}

// Trigger implements trigger_collection_events: for each requested CE
// that is enabled, resolve every linked report's VID values and
// deliver one S6F11 per report, per section 4.9 "Triggering".
func (e *ReportEngine) Trigger(ceIDs ...ID) error {
	for _, ceID := range ceIDs {
		if err := e.triggerOne(ceID); err != nil {
			return err
		}
	}
	return nil
}

// reportSnapshot holds the (RPTID -> VIDs) pairs linked to a CE at one
// instant, taken under the catalog's lock so a trigger never observes
// a link/report update mid-iteration (section 5, "Shared resources").
type reportSnapshot struct {
	rptID ID
	vids  []ID
}

func (e *ReportEngine) triggerOne(ceID ID) error {
	e.cat.mu.RLock()
	enabled := e.cat.enabled[ceID]
	var snapshot []reportSnapshot
	if enabled {
		for rptID := range e.cat.links[ceID] {
			if rpt, ok := e.cat.rpts[rptID]; ok {
				snapshot = append(snapshot, reportSnapshot{rptID: rptID, vids: append([]ID(nil), rpt.VIDs...)})
			}
		}
	}
	e.cat.mu.RUnlock()

	if !enabled || len(snapshot) == 0 {
		return nil
	}

	e.mu.Lock()
	svCallback, dvCallback, sender := e.svCallback, e.dvCallback, e.sendReport
	e.mu.Unlock()

	var bundles []reportValues
	for _, s := range snapshot {
		values := make([]any, 0, len(s.vids))
		for _, vid := range s.vids {
			item, err := e.cat.variableValue(vid, svCallback, dvCallback)
			if err != nil {
				return err
			}
			values = append(values, item)
		}
		bundles = append(bundles, reportValues{RPTID: s.rptID, V: values})
	}

	if sender == nil {
		return fmt.Errorf("secsgem: report engine has no sender bound")
	}
	return sender(newDataID(), ceID, bundles)
}
