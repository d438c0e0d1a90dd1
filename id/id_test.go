package id_test

import (
	"strings"
	"testing"

	"github.com/streamless/streamless/id"
)

func TestConstructors(t *testing.T) {
	tests := []struct {
		name   string
		newFn  func() id.ID
		prefix string
	}{
		{"EventID", id.NewEventID, "evt_"},
		{"RequestID", id.NewRequestID, "req_"},
		{"PaymentID", id.NewPaymentID, "pay_"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.newFn().String()
			if !strings.HasPrefix(got, tt.prefix) {
				t.Errorf("expected prefix %q, got %q", tt.prefix, got)
			}
		})
	}
}

func TestParseRoundTrip(t *testing.T) {
	original := id.NewEventID()
	parsed, err := id.Parse(original.String())
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	if parsed.String() != original.String() {
		t.Errorf("round-trip mismatch: %q != %q", parsed.String(), original.String())
	}
}

func TestParseWithPrefixRejection(t *testing.T) {
	evt := id.NewEventID().String()
	if _, err := id.ParseWithPrefix(evt, id.PrefixRequest); err == nil {
		t.Error("expected prefix mismatch error")
	}
	if _, err := id.ParseWithPrefix(evt, id.PrefixEvent); err != nil {
		t.Errorf("matching prefix rejected: %v", err)
	}
}

func TestNil(t *testing.T) {
	var zero id.ID
	if !zero.IsNil() {
		t.Error("zero value must be nil")
	}
	if zero.String() != "" {
		t.Errorf("nil String = %q, want empty", zero.String())
	}
	if _, err := id.Parse(""); err == nil {
		t.Error("Parse of empty string must fail")
	}
}

func TestTextMarshaling(t *testing.T) {
	original := id.NewRequestID()
	data, err := original.MarshalText()
	if err != nil {
		t.Fatal(err)
	}

	var decoded id.ID
	if err := decoded.UnmarshalText(data); err != nil {
		t.Fatal(err)
	}
	if decoded.String() != original.String() {
		t.Errorf("text round-trip mismatch: %q != %q", decoded.String(), original.String())
	}
}
