// Package transfer defines the value-transfer boundary.
//
// The engine holds all pre-funded deposits under a single custody balance and
// only moves value outward through this interface: to a creator at
// settlement, or back to a subscriber on withdrawal. The host guarantees each
// Transfer is atomic — it either fully moves the amount or fails without
// moving anything.
package transfer

import "context"

// Custodian is the host capability the engine settles through.
type Custodian interface {
	// Transfer moves amount units from engine custody to the given
	// address, atomically.
	Transfer(ctx context.Context, to string, amount uint64) error

	// CustodyBalance returns the engine's total custody balance. The
	// engine checks it defensively before promising funds it may not
	// hold (solvency invariant).
	CustodyBalance(ctx context.Context) (uint64, error)
}
