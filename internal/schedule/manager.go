package schedule

import (
	"fmt"
	"time"

	"github.com/username/gantt-calendar/internal/calendar"
	"github.com/username/gantt-calendar/internal/timeunit"
	"github.com/username/gantt-calendar/pkg/dateutil"
	"go.uber.org/zap"
)

// Manager answers scheduling questions against a working-time calendar
type Manager struct {
	calendar calendar.Calendar
	unit     timeunit.TimeUnit
	counter  *calendar.WorkingUnitCounter
	logger   *zap.Logger
}

// NewManager creates a new schedule manager. A maxSteps of zero keeps the
// walker default.
func NewManager(cal calendar.Calendar, unit timeunit.TimeUnit, maxSteps int, logger *zap.Logger) *Manager {
	counter := calendar.NewWorkingUnitCounter(cal, unit, logger)
	if maxSteps > 0 {
		counter = counter.WithMaxSteps(maxSteps)
	}

	return &Manager{
		calendar: cal,
		unit:     unit,
		counter:  counter,
		logger:   logger,
	}
}

// Unit returns the manager's default time unit
func (m *Manager) Unit() timeunit.TimeUnit {
	return m.unit
}

// Calendar returns the underlying calendar
func (m *Manager) Calendar() calendar.Calendar {
	return m.calendar
}

// Duration counts working and non-working units between start and end
func (m *Manager) Duration(start, end time.Time) (calendar.CountResult, error) {
	result, err := m.counter.Run(start, end)
	if err != nil {
		return result, fmt.Errorf("failed to count working units: %w", err)
	}
	return result, nil
}

// Shift moves start by d working units. A positive duration returns the end
// of the span, a negative one its beginning. A zero duration returns start.
func (m *Manager) Shift(start time.Time, d timeunit.Duration) (time.Time, error) {
	if start.IsZero() {
		return time.Time{}, calendar.ErrZeroInstant
	}
	if d.IsZero() {
		return start, nil
	}

	unit := d.Unit
	if unit == nil {
		unit = m.unit
	}

	acts, err := m.calendar.UnitActivities(start, unit, d.Length)
	if err != nil {
		return time.Time{}, fmt.Errorf("failed to shift %s by %s: %w",
			start.Format(time.RFC3339), timeunit.FormatISO8601(d), err)
	}

	var shifted time.Time
	if d.Length > 0 {
		shifted = acts[len(acts)-1].End
	} else {
		shifted = acts[0].Start
	}

	m.logger.Debug("Date shifted",
		zap.Time("start", start),
		zap.String("by", timeunit.FormatISO8601(d)),
		zap.Time("result", shifted))

	return shifted, nil
}

// NextWorkingTime returns t when it is working time, otherwise the next working instant
func (m *Manager) NextWorkingTime(t time.Time) (time.Time, error) {
	if t.IsZero() {
		return time.Time{}, calendar.ErrZeroInstant
	}
	return m.calendar.FindClosestWorkingTime(t), nil
}

// Activities splits [start, end) into working and non-working spans
func (m *Manager) Activities(start, end time.Time) ([]calendar.Activity, error) {
	acts, err := m.calendar.Activities(start, end)
	if err != nil {
		return nil, fmt.Errorf("failed to scan activities: %w", err)
	}
	return acts, nil
}

// UnitActivities returns the spans covering count working units from start
func (m *Manager) UnitActivities(start time.Time, count int) ([]calendar.Activity, error) {
	acts, err := m.calendar.UnitActivities(start, m.unit, count)
	if err != nil {
		return nil, fmt.Errorf("failed to scan %d %s units: %w", count, m.unit.Name(), err)
	}
	return acts, nil
}

// WorkingDays lists the working days between from and to, both inclusive
func (m *Manager) WorkingDays(from, to time.Time) ([]time.Time, error) {
	if from.IsZero() || to.IsZero() {
		return nil, calendar.ErrZeroInstant
	}
	if to.Before(from) {
		return nil, fmt.Errorf("%w: %s > %s", calendar.ErrInvertedRange,
			from.Format(dateutil.DateLayout), to.Format(dateutil.DateLayout))
	}

	days := []time.Time{}
	for d := dateutil.StartOfDay(from); !d.After(to); d = dateutil.NextDay(d) {
		if m.calendar.DayMask(d).IsWorking() {
			days = append(days, d)
		}
	}
	return days, nil
}
