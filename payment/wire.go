package payment

import (
	"fmt"
	"strings"

	"github.com/streamless/streamless/codec"
	"github.com/streamless/streamless/id"
)

// fieldSeparator joins record fields on the wire. Subscriber addresses and
// plan ids must not contain it, which the engine enforces at the boundary.
const fieldSeparator = "|"

// Encode serializes a record to its stored string form.
func (r *Record) Encode() string {
	return strings.Join([]string{
		r.ID.String(),
		r.Subscriber,
		r.PlanID,
		codec.FormatU64(r.Amount),
		codec.FormatU64(r.Time),
		string(r.Outcome),
	}, fieldSeparator)
}

// Decode parses a stored record string.
func Decode(s string) (*Record, error) {
	parts := strings.Split(s, fieldSeparator)
	if len(parts) != 6 {
		return nil, fmt.Errorf("%w: expected 6 fields, got %d", codec.ErrMalformed, len(parts))
	}

	rid, err := id.ParseWithPrefix(parts[0], id.PrefixPayment)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", codec.ErrMalformed, err)
	}
	amount, err := codec.ParseU64(parts[3])
	if err != nil {
		return nil, err
	}
	at, err := codec.ParseU64(parts[4])
	if err != nil {
		return nil, err
	}

	outcome := Outcome(parts[5])
	switch outcome {
	case OutcomeSettled, OutcomeInsufficient:
	default:
		return nil, fmt.Errorf("%w: unknown outcome %q", codec.ErrMalformed, parts[5])
	}

	return &Record{
		ID:         rid,
		Subscriber: parts[1],
		PlanID:     parts[2],
		Amount:     amount,
		Time:       at,
		Outcome:    outcome,
	}, nil
}
