package testutil

import (
	"context"
	"sync"

	"github.com/storefront/backend/internal/domain/shared"
)

// RecordingPublisher is a shared.EventPublisher that keeps published events
type RecordingPublisher struct {
	mu     sync.Mutex
	events []shared.DomainEvent
	err    error
}

// NewRecordingPublisher creates an empty RecordingPublisher
func NewRecordingPublisher() *RecordingPublisher {
	return &RecordingPublisher{}
}

// Publish records events, returning the configured error if any
func (p *RecordingPublisher) Publish(_ context.Context, events ...shared.DomainEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, events...)
	return p.err
}

// SetError makes subsequent Publish calls fail
func (p *RecordingPublisher) SetError(err error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.err = err
}

// Events returns a copy of everything published
func (p *RecordingPublisher) Events() []shared.DomainEvent {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]shared.DomainEvent, len(p.events))
	copy(out, p.events)
	return out
}

// OfType returns the published events of one type
func (p *RecordingPublisher) OfType(eventType string) []shared.DomainEvent {
	var out []shared.DomainEvent
	for _, e := range p.Events() {
		if e.EventType() == eventType {
			out = append(out, e)
		}
	}
	return out
}
