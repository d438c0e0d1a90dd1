// Package event defines the observable events the engine emits and the sink
// boundary external indexers consume them through.
//
// Events are append-only and ordered; the engine never reads them back. Sinks
// are best-effort: a failing sink is logged and skipped, never allowed to
// break the call that emitted the event.
package event

import (
	"context"

	"github.com/streamless/streamless/id"
)

// Kind names an event type on the wire.
type Kind string

const (
	KindPlanCreated           Kind = "PlanCreated"
	KindPlanUpdated           Kind = "PlanUpdated"
	KindSubscribed            Kind = "Subscribed"
	KindSubscriptionCancelled Kind = "SubscriptionCancelled"
	KindPaymentExecuted       Kind = "PaymentExecuted"
	KindDeposit               Kind = "Deposit"
	KindWithdraw              Kind = "Withdraw"
)

// Event is implemented by every typed event.
type Event interface {
	Kind() Kind
	// Attrs returns the event payload as flat string pairs, the form sinks
	// serialize. All integers use the engine's canonical decimal encoding.
	Attrs() map[string]string
}

// Envelope wraps a typed event with its engine-assigned identity and time.
type Envelope struct {
	ID    id.ID
	Time  uint64 // milliseconds
	Kind  Kind
	Attrs map[string]string
}

// Sink receives emitted events. Implementations must be safe for sequential
// reuse; the engine serializes all emission.
type Sink interface {
	Name() string
	Write(ctx context.Context, env Envelope) error
}

// ==================== Typed events ====================

// PlanCreated is emitted once per successful createPlan.
type PlanCreated struct {
	PlanID        string
	Creator       string
	Amount        string
	FrequencyDays string
}

func (PlanCreated) Kind() Kind { return KindPlanCreated }

func (e PlanCreated) Attrs() map[string]string {
	return map[string]string{
		"plan_id":        e.PlanID,
		"creator":        e.Creator,
		"amount":         e.Amount,
		"frequency_days": e.FrequencyDays,
	}
}

// PlanUpdated is emitted when a creator mutates an existing plan.
type PlanUpdated struct {
	PlanID        string
	Amount        string
	FrequencyDays string
	Active        string
}

func (PlanUpdated) Kind() Kind { return KindPlanUpdated }

func (e PlanUpdated) Attrs() map[string]string {
	return map[string]string{
		"plan_id":        e.PlanID,
		"amount":         e.Amount,
		"frequency_days": e.FrequencyDays,
		"active":         e.Active,
	}
}

// Subscribed is emitted when a subscriber enrolls (or re-enrolls) in a plan.
type Subscribed struct {
	Subscriber string
	PlanID     string
}

func (Subscribed) Kind() Kind { return KindSubscribed }

func (e Subscribed) Attrs() map[string]string {
	return map[string]string{
		"subscriber": e.Subscriber,
		"plan_id":    e.PlanID,
	}
}

// SubscriptionCancelled is emitted on a logical cancellation.
type SubscriptionCancelled struct {
	Subscriber string
	PlanID     string
}

func (SubscriptionCancelled) Kind() Kind { return KindSubscriptionCancelled }

func (e SubscriptionCancelled) Attrs() map[string]string {
	return map[string]string{
		"subscriber": e.Subscriber,
		"plan_id":    e.PlanID,
	}
}

// PaymentExecuted is emitted for every due settlement attempt, successful or
// not. Outcome is "settled" or "insufficient".
type PaymentExecuted struct {
	Subscriber string
	PlanID     string
	Amount     string
	Time       string
	Outcome    string
}

func (PaymentExecuted) Kind() Kind { return KindPaymentExecuted }

func (e PaymentExecuted) Attrs() map[string]string {
	return map[string]string{
		"subscriber": e.Subscriber,
		"plan_id":    e.PlanID,
		"amount":     e.Amount,
		"time":       e.Time,
		"outcome":    e.Outcome,
	}
}

// Deposit is emitted when custody funds are credited to a subscriber.
type Deposit struct {
	Who    string
	Amount string
}

func (Deposit) Kind() Kind { return KindDeposit }

func (e Deposit) Attrs() map[string]string {
	return map[string]string{
		"who":    e.Who,
		"amount": e.Amount,
	}
}

// Withdraw is emitted when a subscriber reclaims custody funds.
type Withdraw struct {
	Who    string
	Amount string
}

func (Withdraw) Kind() Kind { return KindWithdraw }

func (e Withdraw) Attrs() map[string]string {
	return map[string]string{
		"who":    e.Who,
		"amount": e.Amount,
	}
}
