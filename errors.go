package streamless

import "errors"

// Sentinel errors for common failure scenarios. Every operation rejects its
// precondition violations with one of these before mutating any state.
var (
	// General errors
	ErrInvalidArgument = errors.New("streamless: invalid argument")
	ErrNotFound        = errors.New("streamless: not found")
	ErrAlreadyExists   = errors.New("streamless: already exists")
	ErrUnauthorized    = errors.New("streamless: unauthorized")

	// Plan errors
	ErrPlanNotFound = errors.New("streamless: plan not found")
	ErrPlanInactive = errors.New("streamless: plan is inactive")

	// Subscription errors
	ErrSubscriptionNotFound = errors.New("streamless: subscription not found")

	// Ledger / custody errors
	ErrInsufficientFunds = errors.New("streamless: insufficient deposit balance")
	ErrEngineUnderfunded = errors.New("streamless: engine custody underfunded")
	ErrTransferFailed    = errors.New("streamless: value transfer failed")

	// Store errors
	ErrKeyNotFound  = errors.New("streamless: key not found")
	ErrCorruptValue = errors.New("streamless: corrupt stored value")
	ErrStoreClosed  = errors.New("streamless: store is closed")
)

// IsNotFound returns true if the error is a not found error.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound) ||
		errors.Is(err, ErrPlanNotFound) ||
		errors.Is(err, ErrSubscriptionNotFound) ||
		errors.Is(err, ErrKeyNotFound)
}

// IsRejected returns true if the error is a precondition rejection: the call
// was refused up front and no state was touched.
func IsRejected(err error) bool {
	return errors.Is(err, ErrInvalidArgument) ||
		errors.Is(err, ErrAlreadyExists) ||
		errors.Is(err, ErrUnauthorized) ||
		errors.Is(err, ErrPlanInactive) ||
		errors.Is(err, ErrInsufficientFunds) ||
		errors.Is(err, ErrEngineUnderfunded) ||
		IsNotFound(err)
}

// IsFatal returns true if the error indicates a condition the engine cannot
// recover from within the call: a transfer that failed after the ledger debit
// was committed, or stored state no conforming writer could have produced.
func IsFatal(err error) bool {
	return errors.Is(err, ErrTransferFailed) ||
		errors.Is(err, ErrCorruptValue)
}
