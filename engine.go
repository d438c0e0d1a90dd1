package streamless

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/streamless/streamless/codec"
	"github.com/streamless/streamless/event"
	"github.com/streamless/streamless/scheduler"
	"github.com/streamless/streamless/store"
	"github.com/streamless/streamless/transfer"
)

// Default scheduling parameters. The drift tolerance is the width of the
// delivery window handed to the scheduler; it must be wide enough to absorb
// host scheduling jitter but is otherwise uninteresting to the engine, which
// guards against early and duplicate delivery itself.
const (
	DefaultDriftTolerance  = 15 * time.Minute
	DefaultExecutionBudget = 100_000_000
	DefaultTarget          = "streamless"
)

// Engine is the autonomous recurring billing engine: plan registry, deposit
// ledger, and the self-rescheduling subscription state machine.
//
// The engine executes one invocation at a time: every operation takes the
// engine lock, runs to completion, and commits its state mutations before the
// next call starts. All persistent state lives behind the KeyedStore; all
// outbound value moves through the Custodian; all future work is re-armed
// through the Scheduler.
type Engine struct {
	mu sync.Mutex

	store   store.KeyedStore
	custody transfer.Custodian
	sched   scheduler.Scheduler
	events  *event.Registry
	logger  *slog.Logger

	clock  func() time.Time
	target string

	driftTolerance  time.Duration
	executionBudget uint64
}

// New creates an Engine over the given store, custodian, and scheduler.
func New(s store.KeyedStore, custody transfer.Custodian, sched scheduler.Scheduler, opts ...Option) *Engine {
	e := &Engine{
		store:           s,
		custody:         custody,
		sched:           sched,
		events:          event.NewRegistry(),
		logger:          slog.Default(),
		clock:           time.Now,
		target:          DefaultTarget,
		driftTolerance:  DefaultDriftTolerance,
		executionBudget: DefaultExecutionBudget,
	}

	for _, opt := range opts {
		opt(e)
	}

	return e
}

// Option configures an Engine instance.
type Option func(*Engine)

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) {
		e.logger = logger
		e.events.WithLogger(logger)
	}
}

// WithClock overrides the time source. The host environment supplies the
// authoritative timestamp for each call; tests use a fake clock to run
// multi-cycle scenarios without real time passing.
func WithClock(clock func() time.Time) Option {
	return func(e *Engine) {
		e.clock = clock
	}
}

// WithSink registers an event sink.
func WithSink(s event.Sink) Option {
	return func(e *Engine) {
		_ = e.events.Register(s) //nolint:errcheck // best-effort sink registration during init
	}
}

// WithDriftTolerance sets the width of the scheduler delivery window.
func WithDriftTolerance(d time.Duration) Option {
	return func(e *Engine) {
		e.driftTolerance = d
	}
}

// WithExecutionBudget sets the resource budget attached to delivery requests.
func WithExecutionBudget(budget uint64) Option {
	return func(e *Engine) {
		e.executionBudget = budget
	}
}

// WithTarget sets the engine instance name used in delivery requests.
func WithTarget(target string) Option {
	return func(e *Engine) {
		e.target = target
	}
}

// Ping checks that the backing store is reachable.
func (e *Engine) Ping(ctx context.Context) error {
	return e.store.Ping(ctx)
}

// Close releases the backing store.
func (e *Engine) Close() error {
	return e.store.Close()
}

// ==================== Internal helpers ====================

// nowMillis returns the host timestamp in milliseconds. All due times and
// event times use this axis.
func (e *Engine) nowMillis() uint64 {
	return uint64(e.clock().UnixMilli())
}

func millisToTime(ms uint64) time.Time {
	return time.UnixMilli(int64(ms))
}

// validIdentifier rejects identifiers that are empty or would corrupt the
// '|'-joined index wire format.
func validIdentifier(s string) bool {
	return s != "" && !strings.Contains(s, codec.ListSeparator)
}

// getU64 reads and strictly decodes an unsigned decimal. A malformed stored
// value means a non-conforming writer touched the store; it surfaces as
// corruption, not user error.
func (e *Engine) getU64(ctx context.Context, key string) (uint64, error) {
	raw, err := e.store.Get(ctx, key)
	if err != nil {
		return 0, err
	}
	v, err := codec.ParseU64(raw)
	if err != nil {
		return 0, fmt.Errorf("%w: %s: %v", ErrCorruptValue, key, err)
	}
	return v, nil
}

func (e *Engine) getU32(ctx context.Context, key string) (uint32, error) {
	raw, err := e.store.Get(ctx, key)
	if err != nil {
		return 0, err
	}
	v, err := codec.ParseU32(raw)
	if err != nil {
		return 0, fmt.Errorf("%w: %s: %v", ErrCorruptValue, key, err)
	}
	return v, nil
}

func (e *Engine) getBool(ctx context.Context, key string) (bool, error) {
	raw, err := e.store.Get(ctx, key)
	if err != nil {
		return false, err
	}
	v, err := codec.ParseBool(raw)
	if err != nil {
		return false, fmt.Errorf("%w: %s: %v", ErrCorruptValue, key, err)
	}
	return v, nil
}
