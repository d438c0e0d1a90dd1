package streamless

import (
	"github.com/streamless/streamless/payment"
	"github.com/streamless/streamless/plan"
	"github.com/streamless/streamless/subscription"
)

// Re-export the entity types engine methods traffic in so callers don't have
// to import the model packages for simple use.

// Plan is re-exported from the plan package.
type Plan = plan.Plan

// Subscription is re-exported from the subscription package.
type Subscription = subscription.Subscription

// PaymentRecord is re-exported from the payment package.
type PaymentRecord = payment.Record

// Settlement outcomes, re-exported from the payment package.
const (
	OutcomeSettled      = payment.OutcomeSettled
	OutcomeInsufficient = payment.OutcomeInsufficient
)
