package event

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/streamless/streamless/id"
)

// Registry fans emitted events out to all registered sinks.
type Registry struct {
	mu     sync.RWMutex
	sinks  []Sink
	logger *slog.Logger
}

// NewRegistry creates an empty sink registry.
func NewRegistry() *Registry {
	return &Registry{
		logger: slog.Default(),
	}
}

// WithLogger sets the logger for the registry.
func (r *Registry) WithLogger(logger *slog.Logger) *Registry {
	r.logger = logger
	return r
}

// Register adds a sink. Sink names must be unique.
func (r *Registry) Register(s Sink) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, existing := range r.sinks {
		if existing.Name() == s.Name() {
			return fmt.Errorf("event: duplicate sink registration: %s", s.Name())
		}
	}
	r.sinks = append(r.sinks, s)
	return nil
}

// Emit assigns the event an id and delivers it to every sink. Sink failures
// are logged and skipped; emission never fails the calling operation.
func (r *Registry) Emit(ctx context.Context, at uint64, ev Event) {
	env := Envelope{
		ID:    id.NewEventID(),
		Time:  at,
		Kind:  ev.Kind(),
		Attrs: ev.Attrs(),
	}

	r.mu.RLock()
	sinks := r.sinks
	r.mu.RUnlock()

	for _, s := range sinks {
		if err := s.Write(ctx, env); err != nil {
			r.logger.Error("event sink write failed",
				"sink", s.Name(),
				"kind", env.Kind,
				"event_id", env.ID.String(),
				"error", err,
			)
		}
	}
}
