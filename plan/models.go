// Package plan defines the recurring charge template published by a creator.
package plan

// Plan is a creator-defined recurring charge: a fixed amount debited every
// FrequencyDays. Plans are identified by a caller-supplied unique string id
// and are never deleted, only deactivated.
type Plan struct {
	ID            string `json:"id"`
	Creator       string `json:"creator"`
	Amount        uint64 `json:"amount"`
	FrequencyDays uint32 `json:"frequency_days"`
	Active        bool   `json:"active"`
}

// CycleMillis returns the length of one billing cycle in milliseconds.
func (p *Plan) CycleMillis() uint64 {
	return uint64(p.FrequencyDays) * MillisPerDay
}

// MillisPerDay is the engine's day length. All due times are absolute
// millisecond timestamps supplied by the host clock.
const MillisPerDay uint64 = 86_400_000
