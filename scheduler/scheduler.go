// Package scheduler defines the deferred-delivery boundary the engine re-arms
// itself through.
//
// The engine never loops: after every settlement it hands the scheduler a
// request naming the function to invoke, its arguments, and a delivery window.
// The scheduler guarantees eventual at-least-once delivery at-or-after
// NotBefore, within the window; duplicates and late deliveries are handled
// idempotently by the engine itself.
package scheduler

import (
	"context"
	"time"

	"github.com/streamless/streamless/id"
)

// FuncExecutePayment is the only function the engine schedules today.
const FuncExecutePayment = "executePayment"

// Request asks for a future invocation of an engine function.
type Request struct {
	// ID identifies the request. The engine mints one per re-arm; the
	// scheduler carries it through so deliveries can be traced to the
	// request that armed them.
	ID id.ID

	// Target names the engine instance the delivery is addressed to.
	Target string

	// Function is the engine function to invoke, e.g. FuncExecutePayment.
	Function string

	// Args are the function arguments, in order. For executePayment:
	// subscriber address, plan id.
	Args []string

	// NotBefore and NotAfter bound the delivery window. The width of the
	// window absorbs host scheduling jitter.
	NotBefore time.Time
	NotAfter  time.Time

	// Budget bounds the execution cost the host will spend on the
	// delivered call.
	Budget uint64
}

// Scheduler accepts delivery requests. Implementations are untrusted but
// assumed available: the engine tolerates duplicate and late deliveries but
// depends on every accepted request being delivered eventually.
type Scheduler interface {
	Schedule(ctx context.Context, req Request) error
}
