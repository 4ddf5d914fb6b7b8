// Package secsgem implements the GEM behavioral layer (SEMI E30/E37)
// atop the hsms session engine and the secs2 item codec: status
// variables, data values, equipment constants, collection events with
// user-configured reports, alarms, remote commands, and the Control
// and Communication state machines.
package secsgem

import "sync"

// Callback is a single named handler, e.g. "s1f1" or "rcmd_START".
type Callback func(args ...any) any

// Delegate is an optional fallback target consulted when a name has
// no directly bound Callback. Handler objects implement it to expose
// "_on_X"-style methods without every name needing an explicit Bind.
type Delegate interface {
	// OnCallback is tried for name when no direct binding exists. ok
	// is false if the delegate has no handler for name.
	OnCallback(name string, args ...any) (result any, ok bool)
}

// CallbackHandler is a thread-safe name -> Callback table with
// delegate fallback, the "bind(name, fn)" re-architecture of the
// source's attribute-style `handler.test = f` assignment (DESIGN
// NOTES, "Callback/event attribute magic").
type CallbackHandler struct {
	mu        sync.RWMutex
	direct    map[string]Callback
	delegates []Delegate
}

// NewCallbackHandler returns an empty handler.
func NewCallbackHandler() *CallbackHandler {
	return &CallbackHandler{direct: make(map[string]Callback)}
}

// Bind registers fn under name, replacing any existing binding.
// Binding nil clears the name.
func (h *CallbackHandler) Bind(name string, fn Callback) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if fn == nil {
		delete(h.direct, name)
		return
	}
	h.direct[name] = fn
}

// AddDelegate registers a fallback target, consulted in registration
// order after the direct table misses.
func (h *CallbackHandler) AddDelegate(d Delegate) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.delegates = append(h.delegates, d)
}

// Has reports whether name resolves to a direct callback or any
// delegate.
func (h *CallbackHandler) Has(name string) bool {
	h.mu.RLock()
	defer h.mu.RUnlock()
	if _, ok := h.direct[name]; ok {
		return true
	}
	for _, d := range h.delegates {
		if _, ok := d.OnCallback(name); ok {
			return true
		}
	}
	return false
}

// Call invokes name's callback, direct table first, then each
// delegate in order. ok is false if nothing handles name.
func (h *CallbackHandler) Call(name string, args ...any) (result any, ok bool) {
	h.mu.RLock()
	fn, direct := h.direct[name]
	delegates := append([]Delegate(nil), h.delegates...)
	h.mu.RUnlock()

	if direct {
		return fn(args...), true
	}
	for _, d := range delegates {
		if result, ok := d.OnCallback(name, args...); ok {
			return result, true
		}
	}
	return nil, false
}
