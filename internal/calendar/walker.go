package calendar

import (
	"fmt"
	"time"

	"github.com/username/gantt-calendar/internal/timeunit"
)

// DefaultMaxSteps bounds the number of intervals a single walk may produce
const DefaultMaxSteps = 1_000_000

// Interval is one step of a walk: a whole working unit, or a non-working
// span skipped up to the next working instant
type Interval struct {
	Start   time.Time
	End     time.Time
	Working bool
}

// Walker steps forward through time in TimeUnit increments, classifying
// every step as working or non-working. It keeps no per-walk state and is
// safe for concurrent use.
type Walker struct {
	classifier Classifier
	unit       timeunit.TimeUnit
	maxSteps   int
}

// NewWalker creates a walker over the classifier's working time
func NewWalker(classifier Classifier, unit timeunit.TimeUnit) *Walker {
	return &Walker{
		classifier: classifier,
		unit:       unit,
		maxSteps:   DefaultMaxSteps,
	}
}

// WithMaxSteps returns a copy of the walker with a different step budget
func (w *Walker) WithMaxSteps(maxSteps int) *Walker {
	if maxSteps <= 0 {
		maxSteps = DefaultMaxSteps
	}
	return &Walker{
		classifier: w.classifier,
		unit:       w.unit,
		maxSteps:   maxSteps,
	}
}

// Unit returns the walker's time unit
func (w *Walker) Unit() timeunit.TimeUnit {
	return w.unit
}

// Walk visits intervals starting at unit.AdjustLeft(start) for as long as
// visit returns true.
func (w *Walker) Walk(start time.Time, visit func(Interval) bool) error {
	if start.IsZero() {
		return ErrZeroInstant
	}

	unitStart := w.unit.AdjustLeft(start)
	for step := 0; ; step++ {
		if step >= w.maxSteps {
			return fmt.Errorf("%w: %d steps from %s", ErrStepLimit, w.maxSteps, start.Format(time.RFC3339))
		}

		interval, err := w.next(unitStart)
		if err != nil {
			return err
		}
		unitStart = interval.End

		if !visit(interval) {
			return nil
		}
	}
}

func (w *Walker) next(unitStart time.Time) (Interval, error) {
	if !w.classifier.DayMask(unitStart).IsWorking() {
		workingStart := w.classifier.FindClosestWorkingTime(unitStart)
		if !workingStart.After(unitStart) {
			return Interval{}, fmt.Errorf("%w: no working time after non-working %s",
				ErrNoProgress, unitStart.Format(time.RFC3339))
		}
		return Interval{Start: unitStart, End: workingStart, Working: false}, nil
	}

	nextUnitStart := w.unit.AdjustRight(unitStart)
	if !nextUnitStart.After(unitStart) {
		return Interval{}, fmt.Errorf("%w: %s unit does not advance past %s",
			ErrNoProgress, w.unit.Name(), unitStart.Format(time.RFC3339))
	}
	return Interval{Start: unitStart, End: nextUnitStart, Working: true}, nil
}
