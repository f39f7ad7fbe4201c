package calendar

import (
	"fmt"
	"time"

	"github.com/username/gantt-calendar/internal/timeunit"
)

// AlwaysWorkingCalendar treats every instant as working time
type AlwaysWorkingCalendar struct {
	maxSteps int
}

// NewAlwaysWorkingCalendar creates a calendar without non-working time
func NewAlwaysWorkingCalendar() *AlwaysWorkingCalendar {
	return &AlwaysWorkingCalendar{maxSteps: DefaultMaxSteps}
}

// DayMask always reports a working day
func (c *AlwaysWorkingCalendar) DayMask(time.Time) DayMask {
	return DayMaskWorking
}

// FindClosestWorkingTime returns t unchanged
func (c *AlwaysWorkingCalendar) FindClosestWorkingTime(t time.Time) time.Time {
	return t
}

// Activities collapses the whole range into a single working activity
func (c *AlwaysWorkingCalendar) Activities(start, end time.Time) ([]Activity, error) {
	if err := checkRange(start, end); err != nil {
		return nil, err
	}
	if start.Equal(end) {
		return []Activity{}, nil
	}
	return []Activity{{Start: start, End: end, Working: true}}, nil
}

// UnitActivities returns one working activity spanning count units
func (c *AlwaysWorkingCalendar) UnitActivities(start time.Time, unit timeunit.TimeUnit, count int) ([]Activity, error) {
	if start.IsZero() {
		return nil, ErrZeroInstant
	}
	if count == 0 {
		return []Activity{}, nil
	}

	aligned := unit.AdjustLeft(start)
	edge := aligned
	steps := count
	if steps < 0 {
		steps = -steps
	}
	if steps > c.maxSteps {
		return nil, fmt.Errorf("%w: %d %s units requested", ErrStepLimit, steps, unit.Name())
	}

	for i := 0; i < steps; i++ {
		var next time.Time
		if count > 0 {
			next = unit.AdjustRight(edge)
			if !next.After(edge) {
				return nil, fmt.Errorf("%w: %s unit does not advance past %s", ErrNoProgress, unit.Name(), edge)
			}
		} else {
			next = unit.JumpLeft(edge)
			if !next.Before(edge) {
				return nil, fmt.Errorf("%w: %s unit does not move back from %s", ErrNoProgress, unit.Name(), edge)
			}
		}
		edge = next
	}

	if count > 0 {
		return []Activity{{Start: aligned, End: edge, Working: true}}, nil
	}
	return []Activity{{Start: edge, End: aligned, Working: true}}, nil
}
