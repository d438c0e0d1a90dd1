package streamless

import (
	"context"
	"errors"
	"fmt"

	"github.com/streamless/streamless/codec"
	"github.com/streamless/streamless/event"
	"github.com/streamless/streamless/id"
	"github.com/streamless/streamless/keys"
	"github.com/streamless/streamless/payment"
)

// ExecutePayment is the self-rescheduling settlement step. The Scheduler
// delivers it at (or after) each due time; the call attempts one settlement,
// advances the schedule, and — while the subscription stays active — asks
// for its own next delivery. Control never returns to an external initiator
// between cycles.
//
// The returned bool reports whether the settlement succeeded AND the
// subscription remains active. Insufficient funds is a business outcome, not
// an error: the call still succeeds, still advances the schedule (failures
// defer a full cycle, never retry within one), and still re-arms, so an empty
// balance can never break the chain.
//
// Deliveries for cancelled or never-subscribed pairs, and deliveries arriving
// before the due time, are silent no-ops: the scheduler is at-least-once, so
// duplicates and stragglers are expected, and a premature delivery must not
// re-arm a timer that is presumably still outstanding.
func (e *Engine) ExecutePayment(ctx context.Context, subscriber, planID string) (bool, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	// 1. No active subscription: covers never-subscribed, cancelled, and
	// exhausted pairs alike.
	active, err := e.getBool(ctx, keys.SubActive(subscriber, planID))
	if errors.Is(err, ErrKeyNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	if !active {
		e.logger.Debug("late delivery for inactive subscription",
			"subscriber", subscriber, "plan_id", planID)
		return false, nil
	}

	// 2. Premature delivery guard. Doubles as the idempotence barrier: the
	// first due delivery advances next_due past now, so a duplicate of it
	// lands here and changes nothing.
	now := e.nowMillis()
	nextDue, err := e.getU64(ctx, keys.SubNext(subscriber, planID))
	if err != nil {
		return false, err
	}
	if now < nextDue {
		e.logger.Debug("premature delivery",
			"subscriber", subscriber, "plan_id", planID,
			"now", now, "next_due", nextDue)
		return false, nil
	}

	// 3. Attempt settlement under the plan's current terms.
	p, err := e.readPlan(ctx, planID)
	if err != nil {
		return false, err
	}

	balance, err := e.balance(ctx, subscriber)
	if err != nil {
		return false, err
	}
	custody, err := e.custody.CustodyBalance(ctx)
	if err != nil {
		return false, err
	}

	success := balance >= p.Amount && custody >= p.Amount
	if success {
		if err := e.debitBalance(ctx, subscriber, p.Amount); err != nil {
			return false, err
		}
		if err := e.custody.Transfer(ctx, p.Creator, p.Amount); err != nil {
			// The debit is already committed; the host's atomic-effect
			// semantics are what make debit-then-transfer all-or-nothing.
			return false, fmt.Errorf("%w: settle %s -> %s: %v", ErrTransferFailed, subscriber, p.Creator, err)
		}
	}

	// 4. Consume a cycle only on successful settlement.
	if success {
		if err := e.consumeCycle(ctx, subscriber, planID); err != nil {
			return false, err
		}
	}

	// 5. Re-read the flag: consumeCycle may have exhausted the bound.
	stillActive, err := e.getBool(ctx, keys.SubActive(subscriber, planID))
	if err != nil {
		return false, err
	}

	// 6. Advance the schedule unconditionally, success or not, using the
	// plan's frequency as of now.
	newNext := now + p.CycleMillis()
	if err := e.store.Set(ctx, keys.SubNext(subscriber, planID), codec.FormatU64(newNext)); err != nil {
		return false, err
	}

	// 7. Re-arm only while the subscription lives.
	if stillActive {
		if err := e.armSchedule(ctx, subscriber, planID, newNext); err != nil {
			return false, err
		}
	}

	// 8. Record the attempt for observers and the queryable history.
	outcome := payment.OutcomeInsufficient
	if success {
		outcome = payment.OutcomeSettled
	}
	if err := e.appendPayment(ctx, &payment.Record{
		ID:         id.NewPaymentID(),
		Subscriber: subscriber,
		PlanID:     planID,
		Amount:     p.Amount,
		Time:       now,
		Outcome:    outcome,
	}); err != nil {
		return false, err
	}

	e.events.Emit(ctx, now, event.PaymentExecuted{
		Subscriber: subscriber,
		PlanID:     planID,
		Amount:     codec.FormatU64(p.Amount),
		Time:       codec.FormatU64(now),
		Outcome:    string(outcome),
	})

	e.logger.Info("payment executed",
		"subscriber", subscriber,
		"plan_id", planID,
		"amount", p.Amount,
		"outcome", outcome,
		"next_due", newNext,
		"still_active", stillActive,
	)
	return success && stillActive, nil
}

// consumeCycle decrements a bounded subscription's remaining cycles and
// deactivates the pair when the bound hits zero. Unbounded subscriptions are
// untouched. Callers hold the engine lock.
func (e *Engine) consumeCycle(ctx context.Context, subscriber, planID string) error {
	remain, err := e.readRemaining(ctx, subscriber, planID)
	if err != nil {
		return err
	}
	if remain == nil || *remain == 0 {
		return nil
	}

	left := *remain - 1
	if err := e.store.Set(ctx, keys.SubRemain(subscriber, planID), codec.FormatU32(left)); err != nil {
		return err
	}
	if left == 0 {
		return e.store.Set(ctx, keys.SubActive(subscriber, planID), codec.FormatBool(false))
	}
	return nil
}

// appendPayment persists a settlement record and indexes it for the
// subscriber, newest first. Callers hold the engine lock.
func (e *Engine) appendPayment(ctx context.Context, rec *payment.Record) error {
	if err := e.store.Set(ctx, keys.Payment(rec.ID.String()), rec.Encode()); err != nil {
		return err
	}
	return e.pushUnique(ctx, keys.Payments(rec.Subscriber), rec.ID.String())
}

// PaymentsOf returns a subscriber's settlement history, newest first.
func (e *Engine) PaymentsOf(ctx context.Context, subscriber string) ([]*payment.Record, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	ids, err := e.readIndex(ctx, keys.Payments(subscriber))
	if err != nil {
		return nil, err
	}

	records := make([]*payment.Record, 0, len(ids))
	for _, rid := range ids {
		raw, err := e.store.Get(ctx, keys.Payment(rid))
		if err != nil {
			return nil, err
		}
		rec, err := payment.Decode(raw)
		if err != nil {
			return nil, fmt.Errorf("%w: payment %s: %v", ErrCorruptValue, rid, err)
		}
		records = append(records, rec)
	}
	return records, nil
}
