// Package local provides a timer-backed scheduler driver for hosts that run
// the engine in-process.
//
// It is a best-effort shim over the scheduler boundary: each accepted request
// arms one timer at NotBefore and invokes the delivery callback when it
// fires. Delivery is at-least-once in spirit only — a crashed host loses its
// timers — which is acceptable for local runs; production hosts supply their
// own durable scheduler.
package local

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/streamless/streamless/scheduler"
)

// compile-time interface check
var _ scheduler.Scheduler = (*Driver)(nil)

// Deliver invokes the scheduled engine function. It is called once per fired
// timer, outside the driver's lock.
type Deliver func(ctx context.Context, req scheduler.Request) error

// Driver arms one timer per accepted request.
type Driver struct {
	deliver Deliver
	logger  *slog.Logger

	mu     sync.Mutex
	timers map[string]*time.Timer
	closed bool
}

// Option configures a Driver.
type Option func(*Driver)

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(d *Driver) { d.logger = logger }
}

// New creates a driver that invokes deliver when requests come due.
func New(deliver Deliver, opts ...Option) *Driver {
	d := &Driver{
		deliver: deliver,
		logger:  slog.Default(),
		timers:  make(map[string]*time.Timer),
	}
	for _, o := range opts {
		o(d)
	}
	return d
}

// Schedule arms a timer for the request. Requests whose window already opened
// are delivered immediately.
func (d *Driver) Schedule(_ context.Context, req scheduler.Request) error {
	d.mu.Lock()
	if d.closed {
		d.mu.Unlock()
		return context.Canceled
	}

	// Each delivery attempt gets its own handle so late-cancelled timers
	// never collide with a re-armed request for the same pair.
	handle := uuid.NewString()
	delay := time.Until(req.NotBefore)
	if delay < 0 {
		delay = 0
	}

	timer := time.AfterFunc(delay, func() {
		d.fire(handle, req)
	})
	d.timers[handle] = timer
	d.mu.Unlock()

	d.logger.Debug("delivery armed",
		"request_id", req.ID.String(),
		"function", req.Function,
		"not_before", req.NotBefore,
		"delay", delay,
	)
	return nil
}

func (d *Driver) fire(handle string, req scheduler.Request) {
	d.mu.Lock()
	delete(d.timers, handle)
	closed := d.closed
	d.mu.Unlock()
	if closed {
		return
	}

	ctx, cancel := context.WithDeadline(context.Background(), req.NotAfter)
	defer cancel()

	if err := d.deliver(ctx, req); err != nil {
		d.logger.Error("delivery failed",
			"request_id", req.ID.String(),
			"function", req.Function,
			"args", req.Args,
			"error", err,
		)
		return
	}

	d.logger.Info("delivered",
		"request_id", req.ID.String(),
		"function", req.Function,
		"args", req.Args,
	)
}

// Close stops all armed timers. In-flight deliveries finish; nothing new
// fires afterwards.
func (d *Driver) Close() {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.closed = true
	for handle, t := range d.timers {
		t.Stop()
		delete(d.timers, handle)
	}
}
