package streamless

import (
	"context"
	"errors"
	"fmt"

	"github.com/streamless/streamless/codec"
	"github.com/streamless/streamless/event"
	"github.com/streamless/streamless/id"
	"github.com/streamless/streamless/keys"
	"github.com/streamless/streamless/scheduler"
	"github.com/streamless/streamless/subscription"
)

// Subscribe enrolls the subscriber in a plan and arms the first settlement.
// The first due time is one full cycle out; nothing is charged at enrollment.
//
// Re-subscribing to the same pair overwrites the prior schedule fields. No
// attempt is made to retract an already-accepted delivery request for the old
// schedule: the premature guard in ExecutePayment makes the stale delivery a
// no-op.
func (e *Engine) Subscribe(ctx context.Context, subscriber, planID string, cycles *uint32) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if !validIdentifier(subscriber) {
		return fmt.Errorf("%w: subscriber address is required", ErrInvalidArgument)
	}

	p, err := e.readPlan(ctx, planID)
	if err != nil {
		return err
	}
	if !p.Active {
		return fmt.Errorf("%w: plan %q", ErrPlanInactive, planID)
	}

	nextDue := e.nowMillis() + p.CycleMillis()

	if err := e.store.Set(ctx, keys.SubActive(subscriber, planID), codec.FormatBool(true)); err != nil {
		return err
	}
	if err := e.store.Set(ctx, keys.SubNext(subscriber, planID), codec.FormatU64(nextDue)); err != nil {
		return err
	}
	// The store has no delete, so an unbounded re-subscription clears a
	// previous cycle bound by tombstoning the key with "".
	remain := ""
	if cycles != nil {
		remain = codec.FormatU32(*cycles)
	}
	if err := e.store.Set(ctx, keys.SubRemain(subscriber, planID), remain); err != nil {
		return err
	}
	if err := e.pushUnique(ctx, keys.SubscriberPlans(subscriber), planID); err != nil {
		return err
	}

	if err := e.armSchedule(ctx, subscriber, planID, nextDue); err != nil {
		return err
	}

	e.events.Emit(ctx, e.nowMillis(), event.Subscribed{
		Subscriber: subscriber,
		PlanID:     planID,
	})

	e.logger.Info("subscribed",
		"subscriber", subscriber,
		"plan_id", planID,
		"next_due", nextDue,
		"bounded", cycles != nil,
	)
	return nil
}

// Cancel deactivates a subscription. Cancellation is logical: an
// already-dispatched delivery cannot be retracted, so the next
// ExecutePayment for the pair observes the cleared flag and becomes a no-op.
func (e *Engine) Cancel(ctx context.Context, subscriber, planID string) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	exists, err := e.store.Has(ctx, keys.SubActive(subscriber, planID))
	if err != nil {
		return err
	}
	if !exists {
		return fmt.Errorf("%w: %s has no subscription to %q", ErrSubscriptionNotFound, subscriber, planID)
	}

	if err := e.store.Set(ctx, keys.SubActive(subscriber, planID), codec.FormatBool(false)); err != nil {
		return err
	}

	e.events.Emit(ctx, e.nowMillis(), event.SubscriptionCancelled{
		Subscriber: subscriber,
		PlanID:     planID,
	})

	e.logger.Info("subscription cancelled", "subscriber", subscriber, "plan_id", planID)
	return nil
}

// GetSubscription returns the record for one (subscriber, plan) pair.
// Cancelled and exhausted subscriptions remain queryable.
func (e *Engine) GetSubscription(ctx context.Context, subscriber, planID string) (*subscription.Subscription, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	return e.readSubscription(ctx, subscriber, planID)
}

// Subscriptions returns every subscription record for a subscriber, most
// recently enrolled first.
func (e *Engine) Subscriptions(ctx context.Context, subscriber string) ([]*subscription.Subscription, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	planIDs, err := e.readIndex(ctx, keys.SubscriberPlans(subscriber))
	if err != nil {
		return nil, err
	}

	subs := make([]*subscription.Subscription, 0, len(planIDs))
	for _, planID := range planIDs {
		sub, err := e.readSubscription(ctx, subscriber, planID)
		if err != nil {
			return nil, err
		}
		subs = append(subs, sub)
	}
	return subs, nil
}

// readSubscription loads one pair's record. Callers hold the engine lock.
func (e *Engine) readSubscription(ctx context.Context, subscriber, planID string) (*subscription.Subscription, error) {
	exists, err := e.store.Has(ctx, keys.SubActive(subscriber, planID))
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, fmt.Errorf("%w: %s has no subscription to %q", ErrSubscriptionNotFound, subscriber, planID)
	}

	active, err := e.getBool(ctx, keys.SubActive(subscriber, planID))
	if err != nil {
		return nil, err
	}
	nextDue, err := e.getU64(ctx, keys.SubNext(subscriber, planID))
	if errors.Is(err, ErrKeyNotFound) {
		return nil, fmt.Errorf("%w: subscription %s/%q is missing its schedule", ErrCorruptValue, subscriber, planID)
	}
	if err != nil {
		return nil, err
	}

	sub := &subscription.Subscription{
		Subscriber: subscriber,
		PlanID:     planID,
		Active:     active,
		NextDue:    nextDue,
	}

	remain, err := e.readRemaining(ctx, subscriber, planID)
	if err != nil {
		return nil, err
	}
	sub.RemainingCycles = remain

	return sub, nil
}

// readRemaining returns the cycle bound, nil when unbounded. Both a missing
// key and the "" tombstone mean unbounded.
func (e *Engine) readRemaining(ctx context.Context, subscriber, planID string) (*uint32, error) {
	key := keys.SubRemain(subscriber, planID)
	ok, err := e.store.Has(ctx, key)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, nil
	}
	raw, err := e.store.Get(ctx, key)
	if err != nil {
		return nil, err
	}
	if raw == "" {
		return nil, nil
	}
	v, err := codec.ParseU32(raw)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrCorruptValue, key, err)
	}
	return &v, nil
}

// armSchedule asks the Scheduler to deliver executePayment for the pair at
// dueMillis, with the configured drift tolerance window and budget.
func (e *Engine) armSchedule(ctx context.Context, subscriber, planID string, dueMillis uint64) error {
	notBefore := millisToTime(dueMillis)
	req := scheduler.Request{
		ID:        id.NewRequestID(),
		Target:    e.target,
		Function:  scheduler.FuncExecutePayment,
		Args:      []string{subscriber, planID},
		NotBefore: notBefore,
		NotAfter:  notBefore.Add(e.driftTolerance),
		Budget:    e.executionBudget,
	}

	if err := e.sched.Schedule(ctx, req); err != nil {
		return fmt.Errorf("streamless: schedule %s(%s, %s): %w", req.Function, subscriber, planID, err)
	}

	e.logger.Debug("settlement armed",
		"request_id", req.ID.String(),
		"subscriber", subscriber,
		"plan_id", planID,
		"due", dueMillis,
	)
	return nil
}
