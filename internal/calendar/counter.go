package calendar

import (
	"time"

	"github.com/username/gantt-calendar/internal/timeunit"
	"go.uber.org/zap"
)

// CountResult holds the unit counts of one WorkingUnitCounter run
type CountResult struct {
	Unit       timeunit.TimeUnit
	Working    int
	NonWorking int
}

// WorkingDuration returns the elapsed working time
func (r CountResult) WorkingDuration() timeunit.Duration {
	return timeunit.NewDuration(r.Unit, r.Working)
}

// NonWorkingDuration returns the non-working time traversed by the run
func (r CountResult) NonWorkingDuration() timeunit.Duration {
	return timeunit.NewDuration(r.Unit, r.NonWorking)
}

// WorkingUnitCounter counts working and non-working units between two instants
type WorkingUnitCounter struct {
	walker *Walker
	logger *zap.Logger
}

// NewWorkingUnitCounter creates a new counter
func NewWorkingUnitCounter(classifier Classifier, unit timeunit.TimeUnit, logger *zap.Logger) *WorkingUnitCounter {
	return &WorkingUnitCounter{
		walker: NewWalker(classifier, unit),
		logger: logger,
	}
}

// WithMaxSteps sets the step budget of the underlying walker
func (c *WorkingUnitCounter) WithMaxSteps(maxSteps int) *WorkingUnitCounter {
	c.walker = c.walker.WithMaxSteps(maxSteps)
	return c
}

// Run counts units from start to end. A unit straddling end counts in full.
func (c *WorkingUnitCounter) Run(start, end time.Time) (CountResult, error) {
	unit := c.walker.Unit()
	result := CountResult{Unit: unit}

	if start.IsZero() || end.IsZero() {
		return result, ErrZeroInstant
	}
	if start.Equal(end) {
		return result, nil
	}
	if err := checkRange(start, end); err != nil {
		return result, err
	}

	err := c.walker.Walk(start, func(interval Interval) bool {
		if interval.Working {
			result.Working++
		} else {
			// Non-working time past end is not traversed
			spanEnd := interval.End
			if spanEnd.After(end) {
				spanEnd = end
			}
			result.NonWorking += max(timeunit.Count(unit, interval.Start, spanEnd), 1)
		}
		return interval.End.Before(end)
	})
	if err != nil {
		c.logger.Warn("Working unit count failed",
			zap.Time("start", start),
			zap.Time("end", end),
			zap.String("unit", unit.Name()),
			zap.Error(err))
		return CountResult{Unit: unit}, err
	}

	c.logger.Debug("Working units counted",
		zap.Time("start", start),
		zap.Time("end", end),
		zap.String("unit", unit.Name()),
		zap.Int("working", result.Working),
		zap.Int("non_working", result.NonWorking))

	return result, nil
}
