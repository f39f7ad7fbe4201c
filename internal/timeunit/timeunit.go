package timeunit

import (
	"fmt"
	"strings"
	"time"

	"github.com/username/gantt-calendar/pkg/dateutil"
)

// TimeUnit aligns instants to the boundaries of a fixed granularity.
// Units tile the timeline: AdjustLeft(x) <= x < AdjustRight(x).
type TimeUnit interface {
	// Name returns the unit name used in config and CLI flags
	Name() string

	// AdjustLeft rounds t down to the start of its unit
	AdjustLeft(t time.Time) time.Time

	// AdjustRight returns the start of the unit following the one containing t
	AdjustRight(t time.Time) time.Time

	// JumpLeft returns the start of the unit preceding the one containing t
	JumpLeft(t time.Time) time.Time
}

var (
	Hour  TimeUnit = hourUnit{}
	Day   TimeUnit = dayUnit{}
	Week  TimeUnit = weekUnit{}
	Month TimeUnit = monthUnit{}
)

// ByName resolves a unit by its name ("hour", "day", "week", "month")
func ByName(name string) (TimeUnit, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "hour", "hours", "h":
		return Hour, nil
	case "", "day", "days", "d":
		return Day, nil
	case "week", "weeks", "w":
		return Week, nil
	case "month", "months", "m":
		return Month, nil
	default:
		return nil, fmt.Errorf("unknown time unit: %q", name)
	}
}

// Count returns how many AdjustRight steps it takes to get from `from`
// to an instant at or after `to`. Empty and inverted ranges count as zero.
func Count(unit TimeUnit, from, to time.Time) int {
	n := 0
	for t := from; t.Before(to); n++ {
		next := unit.AdjustRight(t)
		if !next.After(t) {
			// Broken unit, stop rather than loop
			return n + 1
		}
		t = next
	}
	return n
}

type hourUnit struct{}

func (hourUnit) Name() string { return "hour" }

// AdjustLeft works on absolute time: across a fall-back the repeated wall-clock
// hour is two distinct units.
func (hourUnit) AdjustLeft(t time.Time) time.Time {
	return t.Add(-(time.Duration(t.Minute())*time.Minute +
		time.Duration(t.Second())*time.Second +
		time.Duration(t.Nanosecond())))
}

func (u hourUnit) AdjustRight(t time.Time) time.Time {
	return u.AdjustLeft(t).Add(time.Hour)
}

func (u hourUnit) JumpLeft(t time.Time) time.Time {
	return u.AdjustLeft(t).Add(-time.Hour)
}

type dayUnit struct{}

func (dayUnit) Name() string { return "day" }

func (dayUnit) AdjustLeft(t time.Time) time.Time {
	return dateutil.StartOfDay(t)
}

func (dayUnit) AdjustRight(t time.Time) time.Time {
	return dateutil.NextDay(t)
}

func (dayUnit) JumpLeft(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day()-1, 0, 0, 0, 0, t.Location())
}

type weekUnit struct{}

func (weekUnit) Name() string { return "week" }

func (weekUnit) AdjustLeft(t time.Time) time.Time {
	return dateutil.StartOfWeek(t)
}

func (weekUnit) AdjustRight(t time.Time) time.Time {
	monday := dateutil.StartOfWeek(t)
	return time.Date(monday.Year(), monday.Month(), monday.Day()+7, 0, 0, 0, 0, monday.Location())
}

func (weekUnit) JumpLeft(t time.Time) time.Time {
	monday := dateutil.StartOfWeek(t)
	return time.Date(monday.Year(), monday.Month(), monday.Day()-7, 0, 0, 0, 0, monday.Location())
}

type monthUnit struct{}

func (monthUnit) Name() string { return "month" }

func (monthUnit) AdjustLeft(t time.Time) time.Time {
	return dateutil.StartOfMonth(t)
}

func (monthUnit) AdjustRight(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month()+1, 1, 0, 0, 0, 0, t.Location())
}

func (monthUnit) JumpLeft(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month()-1, 1, 0, 0, 0, 0, t.Location())
}
