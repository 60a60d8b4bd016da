// Package events carries structured notifications out of committed account
// operations. Events are advisory: emission happens after a state transition
// has been persisted, and no operation fails because an emitter did.
package events

import "sync"

// Event is a single typed notification with string attributes. Types use
// dotted names ("warden.recovery.executed"); attribute keys are short
// lowercase words.
type Event struct {
	Type       string
	Attributes map[string]string
}

// Copy returns an independent copy of the event.
func (e Event) Copy() Event {
	attrs := make(map[string]string, len(e.Attributes))
	for k, v := range e.Attributes {
		attrs[k] = v
	}
	return Event{Type: e.Type, Attributes: attrs}
}

// Emitter receives events from committed operations.
type Emitter interface {
	Emit(Event)
}

// NoopEmitter discards every event. It is the default when a service is
// constructed without an emitter.
type NoopEmitter struct{}

func (NoopEmitter) Emit(Event) {}

// Buffer is an Emitter that records events in order. Safe for concurrent
// emitters; used by tests and by the CLI's dry-run output.
type Buffer struct {
	mu     sync.Mutex
	events []Event
}

func (b *Buffer) Emit(e Event) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.events = append(b.events, e.Copy())
}

// Events returns a snapshot of everything emitted so far.
func (b *Buffer) Events() []Event {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make([]Event, len(b.events))
	for i, e := range b.events {
		out[i] = e.Copy()
	}
	return out
}

// Reset discards all recorded events.
func (b *Buffer) Reset() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.events = nil
}

// Multi fans one event out to several emitters in order.
type Multi []Emitter

func (m Multi) Emit(e Event) {
	for _, em := range m {
		if em != nil {
			em.Emit(e)
		}
	}
}
