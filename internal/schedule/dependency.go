package schedule

import (
	"fmt"
	"time"

	"github.com/username/gantt-calendar/internal/calendar"
	"github.com/username/gantt-calendar/internal/timeunit"
	"go.uber.org/zap"
)

// Dependency is a finish-to-start link between two tasks
type Dependency struct {
	PredecessorEnd time.Time
	SuccessorStart time.Time
	Lag            timeunit.Duration
}

// DependencyCheck is the outcome of CheckDependency
type DependencyCheck struct {
	// RequiredStart is the earliest working instant the successor may start at
	RequiredStart time.Time
	Violated      bool
	// Delay is the working time the successor must move by, zero when satisfied
	Delay timeunit.Duration
}

// CheckDependency tells whether the successor starts before the predecessor
// end plus lag allows, and by how many working units it would have to move
func (m *Manager) CheckDependency(dep Dependency) (DependencyCheck, error) {
	var check DependencyCheck

	earliest, err := m.Shift(dep.PredecessorEnd, dep.Lag)
	if err != nil {
		return check, fmt.Errorf("failed to apply lag: %w", err)
	}

	required, err := m.NextWorkingTime(earliest)
	if err != nil {
		return check, err
	}
	if dep.SuccessorStart.IsZero() {
		return check, fmt.Errorf("successor start: %w", calendar.ErrZeroInstant)
	}

	check.RequiredStart = required
	check.Delay = timeunit.NewDuration(m.unit, 0)

	if !dep.SuccessorStart.Before(required) {
		return check, nil
	}

	result, err := m.Duration(dep.SuccessorStart, required)
	if err != nil {
		return check, fmt.Errorf("failed to measure delay: %w", err)
	}

	check.Violated = true
	check.Delay = result.WorkingDuration()

	m.logger.Info("Dependency violated",
		zap.Time("predecessor_end", dep.PredecessorEnd),
		zap.Time("successor_start", dep.SuccessorStart),
		zap.Time("required_start", required),
		zap.String("delay", timeunit.FormatISO8601(check.Delay)))

	return check, nil
}
