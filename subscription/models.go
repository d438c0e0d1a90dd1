// Package subscription defines a subscriber's enrollment in a plan.
package subscription

// Subscription is the engine's record for one (subscriber, plan) pair.
// At most one live record exists per pair; re-subscribing overwrites the
// schedule fields rather than stacking a second record.
type Subscription struct {
	Subscriber string `json:"subscriber"`
	PlanID     string `json:"plan_id"`
	Active     bool   `json:"active"`

	// NextDue is the absolute millisecond timestamp of the next attempted
	// settlement. Once scheduling is armed it only moves forward.
	NextDue uint64 `json:"next_due"`

	// RemainingCycles bounds how many more settlements may succeed.
	// nil means unbounded.
	RemainingCycles *uint32 `json:"remaining_cycles,omitempty"`
}

// Bounded reports whether the subscription has a cycle bound.
func (s *Subscription) Bounded() bool { return s.RemainingCycles != nil }

// Status describes the pair-scoped lifecycle state.
type Status string

const (
	// StatusActive means settlements are being attempted and rescheduled.
	StatusActive Status = "active"
	// StatusInactive covers cancelled and exhausted subscriptions; the
	// record remains queryable but no further settlement is attempted.
	StatusInactive Status = "inactive"
)

// Status derives the lifecycle state from the active flag.
func (s *Subscription) Status() Status {
	if s.Active {
		return StatusActive
	}
	return StatusInactive
}
