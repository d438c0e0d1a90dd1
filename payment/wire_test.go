package payment

import (
	"errors"
	"testing"

	"github.com/streamless/streamless/codec"
	"github.com/streamless/streamless/id"
)

func TestEncodeDecode(t *testing.T) {
	rec := &Record{
		ID:         id.NewPaymentID(),
		Subscriber: "AU1bob",
		PlanID:     "gold",
		Amount:     100,
		Time:       1_700_000_000_000,
		Outcome:    OutcomeSettled,
	}

	got, err := Decode(rec.Encode())
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if got.Subscriber != rec.Subscriber || got.PlanID != rec.PlanID ||
		got.Amount != rec.Amount || got.Time != rec.Time || got.Outcome != rec.Outcome {
		t.Errorf("round trip mismatch: got %+v, want %+v", got, rec)
	}
}

func TestDecodeMalformed(t *testing.T) {
	rid := id.NewPaymentID().String()

	tests := []struct {
		name  string
		input string
	}{
		{"empty", ""},
		{"too few fields", rid + "|bob|gold|100"},
		{"bad id prefix", "evt_01h2xcejqtf2nbrexx3vqjhp41|bob|gold|100|1|settled"},
		{"signed amount", rid + "|bob|gold|-100|1|settled"},
		{"unknown outcome", rid + "|bob|gold|100|1|maybe"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := Decode(tc.input); !errors.Is(err, codec.ErrMalformed) {
				t.Errorf("Decode(%q) = %v, want ErrMalformed", tc.input, err)
			}
		})
	}
}
