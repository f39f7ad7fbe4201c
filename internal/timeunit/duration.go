package timeunit

import (
	"fmt"
	"strconv"
	"strings"
)

// Duration is a whole number of time units
type Duration struct {
	Unit   TimeUnit
	Length int
}

// NewDuration creates a Duration of length units
func NewDuration(unit TimeUnit, length int) Duration {
	return Duration{Unit: unit, Length: length}
}

// IsZero reports whether the duration has zero length
func (d Duration) IsZero() bool {
	return d.Length == 0
}

// Negate returns the duration with the opposite sign
func (d Duration) Negate() Duration {
	return Duration{Unit: d.Unit, Length: -d.Length}
}

// String formats the duration in ISO 8601 form
func (d Duration) String() string {
	return FormatISO8601(d)
}

// FormatISO8601 formats a unit duration to ISO 8601
// Examples: 3 days -> P3D, 2 weeks -> P2W, 5 hours -> PT5H, -1 day -> -P1D
func FormatISO8601(d Duration) string {
	length := d.Length
	sign := ""
	if length < 0 {
		sign = "-"
		length = -length
	}

	name := "day"
	if d.Unit != nil {
		name = d.Unit.Name()
	}

	switch name {
	case "hour":
		return fmt.Sprintf("%sPT%dH", sign, length)
	case "week":
		return fmt.Sprintf("%sP%dW", sign, length)
	case "month":
		return fmt.Sprintf("%sP%dM", sign, length)
	default:
		return fmt.Sprintf("%sP%dD", sign, length)
	}
}

// ParseISO8601 parses a single-component ISO 8601 duration into a unit Duration
// Supported formats:
//   - PT8H -> 8 hours
//   - P3D  -> 3 days
//   - P2W  -> 2 weeks
//   - P1M  -> 1 month
//   - -P1D -> minus 1 day
//
// Mixed durations such as P1W2D have no single unit and are rejected.
func ParseISO8601(s string) (Duration, error) {
	if s == "" {
		return Duration{}, fmt.Errorf("empty duration")
	}

	negative := false
	if s[0] == '-' {
		negative = true
		s = s[1:]
	}

	if s == "" || s[0] != 'P' {
		return Duration{}, fmt.Errorf("invalid duration format: must start with P")
	}
	body := s[1:]

	timePart := false
	if strings.HasPrefix(body, "T") {
		timePart = true
		body = body[1:]
	}

	if len(body) < 2 {
		return Duration{}, fmt.Errorf("invalid duration format: %q", s)
	}

	designator := body[len(body)-1]
	number := body[:len(body)-1]

	length, err := strconv.Atoi(number)
	if err != nil || length < 0 {
		return Duration{}, fmt.Errorf("invalid duration length %q: must be a single non-negative number", number)
	}

	var unit TimeUnit
	switch {
	case timePart && designator == 'H':
		unit = Hour
	case !timePart && designator == 'D':
		unit = Day
	case !timePart && designator == 'W':
		unit = Week
	case !timePart && designator == 'M':
		unit = Month
	default:
		return Duration{}, fmt.Errorf("unsupported duration designator %q in %q", designator, s)
	}

	if negative {
		length = -length
	}

	return Duration{Unit: unit, Length: length}, nil
}
