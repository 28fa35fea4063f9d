// Package testutil holds helpers shared by the integration suites.
package testutil

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/Geogebrd/scaond-hand-platform/internal/domain/shared"
)

// EventRecorder is a shared.EventHandler that keeps every event it receives.
// An optional error is returned from Handle to exercise bus failure paths.
type EventRecorder struct {
	mu      sync.Mutex
	types   []string
	events  []shared.DomainEvent
	failErr error
}

// NewEventRecorder subscribes to the given types, or to everything when none are given
func NewEventRecorder(eventTypes ...string) *EventRecorder {
	return &EventRecorder{types: eventTypes}
}

func (r *EventRecorder) EventTypes() []string {
	return r.types
}

func (r *EventRecorder) Handle(ctx context.Context, event shared.DomainEvent) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, event)
	return r.failErr
}

// FailWith makes subsequent Handle calls return err after recording the event
func (r *EventRecorder) FailWith(err error) {
	r.mu.Lock()
	r.failErr = err
	r.mu.Unlock()
}

// Events returns a copy of everything recorded so far
func (r *EventRecorder) Events() []shared.DomainEvent {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]shared.DomainEvent(nil), r.events...)
}

// Types lists the recorded event types in arrival order
func (r *EventRecorder) Types() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, len(r.events))
	for i, e := range r.events {
		out[i] = e.EventType()
	}
	return out
}

// OfType returns the recorded events with the given type
func (r *EventRecorder) OfType(eventType string) []shared.DomainEvent {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []shared.DomainEvent
	for _, e := range r.events {
		if e.EventType() == eventType {
			out = append(out, e)
		}
	}
	return out
}

func (r *EventRecorder) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.events)
}

// AwaitEvents blocks until at least n events were recorded or timeout passes
func AwaitEvents(t *testing.T, r *EventRecorder, n int, timeout time.Duration) bool {
	t.Helper()
	deadline := time.Now().Add(timeout)
	for {
		if r.Len() >= n {
			return true
		}
		if time.Now().After(deadline) {
			return false
		}
		time.Sleep(10 * time.Millisecond)
	}
}
