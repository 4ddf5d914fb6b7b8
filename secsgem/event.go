package secsgem

import "sync"

// EventSubscriber receives a fired event's payload.
type EventSubscriber func(name string, payload any)

// EventTarget is an optional fan-out recipient: per-name handlers
// named "_on_event_X", plus a catch-all "_on_event", per section 4.6.
type EventTarget interface {
	// OnEvent is called for every fired event, after any name-specific
	// OnNamedEvent.
	OnEvent(name string, payload any)
}

// NamedEventHandler is an optional, more specific fan-out recipient a
// target may additionally implement for one event name.
type NamedEventHandler interface {
	OnNamedEvent(name string, payload any)
}

// EventProducer fires named events to an ordered list of subscribers
// plus a set of fan-out targets, per section 4.6's event producer.
// Producers compose via Merge.
type EventProducer struct {
	mu          sync.RWMutex
	subscribers map[string][]EventSubscriber
	targets     []EventTarget
}

// NewEventProducer returns an empty producer.
func NewEventProducer() *EventProducer {
	return &EventProducer{subscribers: make(map[string][]EventSubscriber)}
}

// Subscribe appends fn to name's subscriber list.
func (p *EventProducer) Subscribe(name string, fn EventSubscriber) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.subscribers[name] = append(p.subscribers[name], fn)
}

// AddTarget registers a fan-out recipient for every fired event.
func (p *EventProducer) AddTarget(t EventTarget) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.targets = append(p.targets, t)
}

// Fire invokes name's subscribers in registration order, then each
// target's OnNamedEvent (if implemented) followed by OnEvent.
func (p *EventProducer) Fire(name string, payload any) {
	p.mu.RLock()
	subs := append([]EventSubscriber(nil), p.subscribers[name]...)
	targets := append([]EventTarget(nil), p.targets...)
	p.mu.RUnlock()

	for _, fn := range subs {
		fn(name, payload)
	}
	for _, t := range targets {
		if named, ok := t.(NamedEventHandler); ok {
			named.OnNamedEvent(name, payload)
		}
		t.OnEvent(name, payload)
	}
}

// Merge returns a producer that fans every Fire out to p and each
// other, the "producers compose via merge" requirement of section
// 4.6.
func (p *EventProducer) Merge(others ...*EventProducer) *EventProducer {
	merged := NewEventProducer()
	all := append([]*EventProducer{p}, others...)
	merged.AddTarget(fanOutTarget(all))
	return merged
}

// fanOutTarget adapts a slice of producers into a single EventTarget
// that re-fires into each.
type fanOutTarget []*EventProducer

func (f fanOutTarget) OnEvent(name string, payload any) {
	for _, p := range f {
		p.Fire(name, payload)
	}
}
