package calendar

import (
	"errors"
	"fmt"
	"time"

	"github.com/username/gantt-calendar/internal/timeunit"
)

// DayMask is a bit set classifying a calendar day
type DayMask int

const (
	DayMaskWorking DayMask = 1 << iota
	DayMaskWeekend
	DayMaskHoliday
)

// IsWorking reports whether the WORKING bit is set
func (m DayMask) IsWorking() bool {
	return m&DayMaskWorking != 0
}

func (m DayMask) String() string {
	s := ""
	add := func(name string) {
		if s != "" {
			s += "|"
		}
		s += name
	}
	if m&DayMaskWorking != 0 {
		add("working")
	}
	if m&DayMaskWeekend != 0 {
		add("weekend")
	}
	if m&DayMaskHoliday != 0 {
		add("holiday")
	}
	if s == "" {
		return "non-working"
	}
	return s
}

var (
	// ErrZeroInstant is returned when a required instant is the zero time
	ErrZeroInstant = errors.New("instant must not be zero")

	// ErrInvertedRange is returned when a range ends before it starts
	ErrInvertedRange = errors.New("range end is before its start")

	// ErrNoProgress is returned when a calendar or time unit fails to move time forward
	ErrNoProgress = errors.New("walk made no forward progress")

	// ErrStepLimit is returned when a walk exceeds its step budget
	ErrStepLimit = errors.New("walk exceeded step limit")
)

// Activity is a half-open span [Start, End) of uniformly working or non-working time
type Activity struct {
	Start   time.Time
	End     time.Time
	Working bool
}

// Duration returns the wall-clock length of the activity
func (a Activity) Duration() time.Duration {
	return a.End.Sub(a.Start)
}

func (a Activity) String() string {
	state := "non-working"
	if a.Working {
		state = "working"
	}
	return fmt.Sprintf("[%s, %s) %s", a.Start.Format(time.RFC3339), a.End.Format(time.RFC3339), state)
}

// Classifier is the part of a calendar the walker needs
type Classifier interface {
	// DayMask returns the classification of the day containing t
	DayMask(t time.Time) DayMask

	// FindClosestWorkingTime returns t when t is working time, otherwise
	// the first working instant after t
	FindClosestWorkingTime(t time.Time) time.Time
}

// Calendar answers working-time questions for scheduling and chart rendering
type Calendar interface {
	Classifier

	// Activities splits [start, end) into contiguous working/non-working spans
	Activities(start, end time.Time) ([]Activity, error)

	// UnitActivities returns the spans covering count working units starting at
	// unit.AdjustLeft(start). Negative count walks backward and the result ends
	// at the aligned start.
	UnitActivities(start time.Time, unit timeunit.TimeUnit, count int) ([]Activity, error)
}

func checkRange(start, end time.Time) error {
	if start.IsZero() || end.IsZero() {
		return ErrZeroInstant
	}
	if end.Before(start) {
		return fmt.Errorf("%w: %s > %s", ErrInvertedRange,
			start.Format(time.RFC3339), end.Format(time.RFC3339))
	}
	return nil
}

// appendActivity appends a span, extending the last activity when the
// status matches and the spans touch
func appendActivity(acts []Activity, start, end time.Time, working bool) []Activity {
	if n := len(acts); n > 0 && acts[n-1].Working == working && acts[n-1].End.Equal(start) {
		acts[n-1].End = end
		return acts
	}
	return append(acts, Activity{Start: start, End: end, Working: working})
}
