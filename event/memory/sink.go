// Package memory provides an in-memory event sink for tests.
package memory

import (
	"context"
	"sync"

	"github.com/streamless/streamless/event"
)

// compile-time interface check
var _ event.Sink = (*Sink)(nil)

// Sink collects every envelope written to it, in emission order.
type Sink struct {
	mu       sync.Mutex
	captured []event.Envelope
}

// New creates an empty collecting sink.
func New() *Sink {
	return &Sink{}
}

func (s *Sink) Name() string { return "memory" }

func (s *Sink) Write(_ context.Context, env event.Envelope) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.captured = append(s.captured, env)
	return nil
}

// Events returns all captured envelopes in emission order.
func (s *Sink) Events() []event.Envelope {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]event.Envelope, len(s.captured))
	copy(out, s.captured)
	return out
}

// OfKind returns captured envelopes of one kind, in emission order.
func (s *Sink) OfKind(kind event.Kind) []event.Envelope {
	s.mu.Lock()
	defer s.mu.Unlock()

	var out []event.Envelope
	for _, env := range s.captured {
		if env.Kind == kind {
			out = append(out, env)
		}
	}
	return out
}

// Reset discards all captured envelopes.
func (s *Sink) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.captured = nil
}
