package streamless

import (
	"context"
	"errors"
	"fmt"

	"github.com/streamless/streamless/codec"
	"github.com/streamless/streamless/event"
	"github.com/streamless/streamless/keys"
	"github.com/streamless/streamless/plan"
)

// CreatePlan registers a new plan under a caller-supplied unique id. The
// caller becomes the plan's creator and the only account allowed to mutate it.
func (e *Engine) CreatePlan(ctx context.Context, caller, planID string, amount uint64, frequencyDays uint32) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if !validIdentifier(planID) || !validIdentifier(caller) {
		return fmt.Errorf("%w: plan id and creator are required", ErrInvalidArgument)
	}
	if frequencyDays == 0 {
		return fmt.Errorf("%w: frequency_days must be > 0", ErrInvalidArgument)
	}

	exists, err := e.store.Has(ctx, keys.PlanCreator(planID))
	if err != nil {
		return err
	}
	if exists {
		return fmt.Errorf("%w: plan %q", ErrAlreadyExists, planID)
	}

	if err := e.store.Set(ctx, keys.PlanCreator(planID), caller); err != nil {
		return err
	}
	if err := e.store.Set(ctx, keys.PlanAmount(planID), codec.FormatU64(amount)); err != nil {
		return err
	}
	if err := e.store.Set(ctx, keys.PlanFreq(planID), codec.FormatU32(frequencyDays)); err != nil {
		return err
	}
	if err := e.store.Set(ctx, keys.PlanActive(planID), codec.FormatBool(true)); err != nil {
		return err
	}
	if err := e.pushUnique(ctx, keys.PlanIDs, planID); err != nil {
		return err
	}
	if err := e.pushUnique(ctx, keys.CreatorPlans(caller), planID); err != nil {
		return err
	}

	e.events.Emit(ctx, e.nowMillis(), event.PlanCreated{
		PlanID:        planID,
		Creator:       caller,
		Amount:        codec.FormatU64(amount),
		FrequencyDays: codec.FormatU32(frequencyDays),
	})

	e.logger.Info("plan created",
		"plan_id", planID,
		"creator", caller,
		"amount", amount,
		"frequency_days", frequencyDays,
	)
	return nil
}

// UpdatePlan mutates a plan's amount, cadence, and active flag. Only the
// creator may call it. Already-scheduled due times are untouched; settlements
// read the plan's current terms when they run, and only future reschedules
// pick up the new frequency.
func (e *Engine) UpdatePlan(ctx context.Context, caller, planID string, amount uint64, frequencyDays uint32, active bool) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	exists, err := e.store.Has(ctx, keys.PlanCreator(planID))
	if err != nil {
		return err
	}
	if !exists {
		return fmt.Errorf("%w: plan %q", ErrPlanNotFound, planID)
	}

	creator, err := e.store.Get(ctx, keys.PlanCreator(planID))
	if err != nil {
		return err
	}
	if caller != creator {
		return fmt.Errorf("%w: only the creator may update plan %q", ErrUnauthorized, planID)
	}
	if frequencyDays == 0 {
		return fmt.Errorf("%w: frequency_days must be > 0", ErrInvalidArgument)
	}

	if err := e.store.Set(ctx, keys.PlanAmount(planID), codec.FormatU64(amount)); err != nil {
		return err
	}
	if err := e.store.Set(ctx, keys.PlanFreq(planID), codec.FormatU32(frequencyDays)); err != nil {
		return err
	}
	if err := e.store.Set(ctx, keys.PlanActive(planID), codec.FormatBool(active)); err != nil {
		return err
	}

	e.events.Emit(ctx, e.nowMillis(), event.PlanUpdated{
		PlanID:        planID,
		Amount:        codec.FormatU64(amount),
		FrequencyDays: codec.FormatU32(frequencyDays),
		Active:        codec.FormatBool(active),
	})

	e.logger.Info("plan updated",
		"plan_id", planID,
		"amount", amount,
		"frequency_days", frequencyDays,
		"active", active,
	)
	return nil
}

// GetPlan retrieves a plan by id.
func (e *Engine) GetPlan(ctx context.Context, planID string) (*plan.Plan, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	return e.readPlan(ctx, planID)
}

// ListPlans returns every registered plan id, most recently created first.
func (e *Engine) ListPlans(ctx context.Context) ([]string, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	return e.readIndex(ctx, keys.PlanIDs)
}

// ListPlansBy returns the plan ids created by one creator, newest first.
func (e *Engine) ListPlansBy(ctx context.Context, creator string) ([]string, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	return e.readIndex(ctx, keys.CreatorPlans(creator))
}

// readPlan loads all plan fields. Callers hold the engine lock.
func (e *Engine) readPlan(ctx context.Context, planID string) (*plan.Plan, error) {
	exists, err := e.store.Has(ctx, keys.PlanCreator(planID))
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, fmt.Errorf("%w: plan %q", ErrPlanNotFound, planID)
	}

	creator, err := e.store.Get(ctx, keys.PlanCreator(planID))
	if err != nil {
		return nil, err
	}
	amount, err := e.getU64(ctx, keys.PlanAmount(planID))
	if err != nil {
		return nil, planReadErr(planID, err)
	}
	freq, err := e.getU32(ctx, keys.PlanFreq(planID))
	if err != nil {
		return nil, planReadErr(planID, err)
	}
	active, err := e.getBool(ctx, keys.PlanActive(planID))
	if err != nil {
		return nil, planReadErr(planID, err)
	}

	return &plan.Plan{
		ID:            planID,
		Creator:       creator,
		Amount:        amount,
		FrequencyDays: freq,
		Active:        active,
	}, nil
}

// planReadErr upgrades a missing field to corruption: a plan with a creator
// record but no amount/freq/active fields cannot have been written by a
// conforming writer.
func planReadErr(planID string, err error) error {
	if errors.Is(err, ErrKeyNotFound) {
		return fmt.Errorf("%w: plan %q is missing fields", ErrCorruptValue, planID)
	}
	return err
}
