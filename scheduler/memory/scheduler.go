// Package memory provides a deterministic scheduler for tests.
//
// It records requests instead of arming timers. A test harness drains the
// pending requests and re-invokes the engine itself, which makes multi-cycle
// scenarios reproducible without real time passing — and makes duplicate or
// late delivery trivial to simulate by invoking a drained request twice.
package memory

import (
	"context"
	"sync"

	"github.com/streamless/streamless/scheduler"
)

// compile-time interface check
var _ scheduler.Scheduler = (*Scheduler)(nil)

// Scheduler queues requests in arrival order.
type Scheduler struct {
	mu      sync.Mutex
	pending []scheduler.Request
}

// New creates an empty queue scheduler.
func New() *Scheduler {
	return &Scheduler{}
}

func (s *Scheduler) Schedule(_ context.Context, req scheduler.Request) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.pending = append(s.pending, req)
	return nil
}

// Pending returns the queued requests without consuming them.
func (s *Scheduler) Pending() []scheduler.Request {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]scheduler.Request, len(s.pending))
	copy(out, s.pending)
	return out
}

// Drain removes and returns all queued requests in arrival order.
func (s *Scheduler) Drain() []scheduler.Request {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := s.pending
	s.pending = nil
	return out
}

// Len returns the number of queued requests.
func (s *Scheduler) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	return len(s.pending)
}
