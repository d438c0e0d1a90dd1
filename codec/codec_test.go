package codec

import (
	"errors"
	"math"
	"testing"
)

func TestParseU64(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    uint64
		wantErr bool
	}{
		{"zero", "0", 0, false},
		{"simple", "42", 42, false},
		{"max", "18446744073709551615", math.MaxUint64, false},
		{"leading zeros accepted", "0042", 42, false},
		{"empty", "", 0, true},
		{"sign", "-1", 0, true},
		{"plus", "+1", 0, true},
		{"whitespace", " 1", 0, true},
		{"hex", "0x10", 0, true},
		{"trailing junk", "12a", 0, true},
		{"overflow", "18446744073709551616", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseU64(tt.input)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("ParseU64(%q): expected error, got %d", tt.input, got)
				}
				if !errors.Is(err, ErrMalformed) {
					t.Errorf("ParseU64(%q): error is not ErrMalformed: %v", tt.input, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseU64(%q): %v", tt.input, err)
			}
			if got != tt.want {
				t.Errorf("ParseU64(%q) = %d, want %d", tt.input, got, tt.want)
			}
		})
	}
}

func TestParseU32(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    uint32
		wantErr bool
	}{
		{"simple", "30", 30, false},
		{"max", "4294967295", math.MaxUint32, false},
		{"overflow", "4294967296", 0, true},
		{"sign", "-30", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseU32(tt.input)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("ParseU32(%q): expected error, got %d", tt.input, got)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseU32(%q): %v", tt.input, err)
			}
			if got != tt.want {
				t.Errorf("ParseU32(%q) = %d, want %d", tt.input, got, tt.want)
			}
		})
	}
}

func TestFormatParseRoundTrip(t *testing.T) {
	for _, v := range []uint64{0, 1, 86400000, math.MaxUint32, math.MaxUint64} {
		got, err := ParseU64(FormatU64(v))
		if err != nil {
			t.Fatalf("round trip %d: %v", v, err)
		}
		if got != v {
			t.Errorf("round trip %d: got %d", v, got)
		}
	}
}

func TestBool(t *testing.T) {
	if FormatBool(true) != "1" || FormatBool(false) != "0" {
		t.Fatal("bool encoding must be 1/0")
	}
	if v, err := ParseBool("1"); err != nil || !v {
		t.Errorf("ParseBool(1) = %v, %v", v, err)
	}
	if v, err := ParseBool("0"); err != nil || v {
		t.Errorf("ParseBool(0) = %v, %v", v, err)
	}
	for _, bad := range []string{"", "true", "false", "2", "01"} {
		if _, err := ParseBool(bad); err == nil {
			t.Errorf("ParseBool(%q): expected error", bad)
		}
	}
}

func TestIDLists(t *testing.T) {
	tests := []struct {
		name string
		ids  []string
		raw  string
	}{
		{"empty", nil, ""},
		{"single", []string{"p1"}, "p1"},
		{"multiple", []string{"p3", "p2", "p1"}, "p3|p2|p1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := JoinIDs(tt.ids); got != tt.raw {
				t.Errorf("JoinIDs = %q, want %q", got, tt.raw)
			}
			got := SplitIDs(tt.raw)
			if len(got) != len(tt.ids) {
				t.Fatalf("SplitIDs = %v, want %v", got, tt.ids)
			}
			for i := range got {
				if got[i] != tt.ids[i] {
					t.Errorf("SplitIDs[%d] = %q, want %q", i, got[i], tt.ids[i])
				}
			}
		})
	}
}
