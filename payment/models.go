// Package payment defines the settlement history records appended by the
// engine at every due payment attempt.
package payment

import "github.com/streamless/streamless/id"

// Outcome classifies a settlement attempt. An insufficient-funds attempt is a
// business outcome, not an error: the record is kept and the next attempt is
// deferred one full cycle.
type Outcome string

const (
	OutcomeSettled      Outcome = "settled"
	OutcomeInsufficient Outcome = "insufficient"
)

// Record is one settlement attempt for a (subscriber, plan) pair.
type Record struct {
	ID         id.ID   `json:"id"`
	Subscriber string  `json:"subscriber"`
	PlanID     string  `json:"plan_id"`
	Amount     uint64  `json:"amount"`
	Time       uint64  `json:"time"` // milliseconds
	Outcome    Outcome `json:"outcome"`
}

// Settled reports whether funds moved for this attempt.
func (r *Record) Settled() bool { return r.Outcome == OutcomeSettled }
