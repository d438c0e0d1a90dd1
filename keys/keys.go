// Package keys defines the storage key scheme shared by every component that
// reads or writes engine state. Keys are flat strings with ':'-separated
// segments; the layout is part of the persistence contract and must not
// change once data exists under it.
package keys

// Global index of every plan id, newest first.
const PlanIDs = "plan:ids"

// Plan field keys.

func PlanCreator(id string) string { return "plan:" + id + ":creator" }
func PlanAmount(id string) string  { return "plan:" + id + ":amount" }
func PlanFreq(id string) string    { return "plan:" + id + ":freq" }
func PlanActive(id string) string  { return "plan:" + id + ":active" }

// CreatorPlans indexes the plan ids owned by a creator address.
func CreatorPlans(creator string) string { return "creator:" + creator + ":plans" }

// Subscription field keys, scoped to the (subscriber, plan) pair.

func SubActive(subscriber, planID string) string { return "sub:" + subscriber + ":" + planID + ":active" }
func SubNext(subscriber, planID string) string   { return "sub:" + subscriber + ":" + planID + ":next" }
func SubRemain(subscriber, planID string) string { return "sub:" + subscriber + ":" + planID + ":remain" }

// SubscriberPlans indexes the plan ids a subscriber has ever enrolled in.
func SubscriberPlans(subscriber string) string { return "subs:" + subscriber + ":index" }

// DepositBalance holds a subscriber's pre-funded custody balance.
func DepositBalance(subscriber string) string { return "deposit:" + subscriber + ":balance" }

// DepositTotal holds the sum of all deposit balances, maintained for the
// solvency check: engine custody must always cover it.
const DepositTotal = "deposit:total"

// Payments indexes the settlement history of a subscriber, newest first.
func Payments(subscriber string) string { return "payments:" + subscriber + ":index" }

// Payment holds one serialized settlement record.
func Payment(id string) string { return "payment:" + id }
