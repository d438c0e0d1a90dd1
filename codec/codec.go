// Package codec implements the string wire format used for all engine state.
//
// Every value persisted through the KeyedStore is a string: unsigned integers
// as strict base-10 decimals (no sign, no leading '+', no whitespace),
// booleans as "1"/"0", and identifier lists joined with '|'. The strictness is
// a cross-component invariant: writers only ever produce canonical encodings,
// and readers reject anything else instead of guessing.
package codec

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// ErrMalformed is returned when a stored value does not match the canonical
// encoding. Callers treat it as state corruption, not user error.
var ErrMalformed = errors.New("codec: malformed value")

// ListSeparator joins identifier lists. Identifiers must not contain it.
const ListSeparator = "|"

// FormatU64 encodes an unsigned 64-bit quantity as a canonical decimal string.
func FormatU64(v uint64) string {
	return strconv.FormatUint(v, 10)
}

// FormatU32 encodes an unsigned 32-bit quantity as a canonical decimal string.
func FormatU32(v uint32) string {
	return strconv.FormatUint(uint64(v), 10)
}

// ParseU64 decodes a canonical decimal string into an unsigned 64-bit value.
// It rejects empty strings, signs, leading '+', non-digit characters, and
// values that overflow uint64.
func ParseU64(s string) (uint64, error) {
	if s == "" {
		return 0, fmt.Errorf("%w: empty string", ErrMalformed)
	}

	var x uint64
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c < '0' || c > '9' {
			return 0, fmt.Errorf("%w: %q is not a decimal", ErrMalformed, s)
		}
		d := uint64(c - '0')
		if x > (math.MaxUint64-d)/10 {
			return 0, fmt.Errorf("%w: %q overflows uint64", ErrMalformed, s)
		}
		x = x*10 + d
	}
	return x, nil
}

// ParseU32 decodes a canonical decimal string into an unsigned 32-bit value.
func ParseU32(s string) (uint32, error) {
	x, err := ParseU64(s)
	if err != nil {
		return 0, err
	}
	if x > math.MaxUint32 {
		return 0, fmt.Errorf("%w: %q overflows uint32", ErrMalformed, s)
	}
	return uint32(x), nil
}

// FormatBool encodes a boolean as "1" or "0".
func FormatBool(b bool) string {
	if b {
		return "1"
	}
	return "0"
}

// ParseBool decodes "1" or "0". Any other input is malformed.
func ParseBool(s string) (bool, error) {
	switch s {
	case "1":
		return true, nil
	case "0":
		return false, nil
	default:
		return false, fmt.Errorf("%w: %q is not a boolean", ErrMalformed, s)
	}
}

// JoinIDs encodes an identifier list. The empty list encodes to "".
func JoinIDs(ids []string) string {
	return strings.Join(ids, ListSeparator)
}

// SplitIDs decodes an identifier list. "" decodes to an empty list.
func SplitIDs(s string) []string {
	if s == "" {
		return nil
	}
	return strings.Split(s, ListSeparator)
}
