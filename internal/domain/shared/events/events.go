// Package events holds the contract shared by booking and holiday events on
// their way to the outbox.
package events

import (
	"slices"
	"time"
)

// DomainEvent is a fact recorded by an aggregate. EventName is unversioned
// ("booking.created"); the outbox appends the schema version.
type DomainEvent interface {
	EventName() string
	AggregateID() string
	OccurredAt() time.Time
}

// EventRecorder is embedded by aggregates. Events stay pending until the
// handler drains them into the outbox inside the same unit of work.
type EventRecorder struct {
	pending []DomainEvent
}

func (r *EventRecorder) Record(event DomainEvent) {
	if event != nil {
		r.pending = append(r.pending, event)
	}
}

// PendingEvents returns a copy of the events not yet drained.
func (r *EventRecorder) PendingEvents() []DomainEvent {
	return slices.Clone(r.pending)
}

func (r *EventRecorder) ClearEvents() {
	r.pending = nil
}

// Drain returns the pending events and forgets them.
func (r *EventRecorder) Drain() []DomainEvent {
	out := r.pending
	r.pending = nil
	return out
}

// Names lists event names for log attributes.
func Names(evs []DomainEvent) []string {
	out := make([]string, 0, len(evs))
	for _, ev := range evs {
		out = append(out, ev.EventName())
	}
	return out
}
