package calendar

import (
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/username/gantt-calendar/internal/timeunit"
	"github.com/username/gantt-calendar/pkg/dateutil"
	"go.uber.org/zap"
)

// DefaultMaxSearchDays bounds the look-ahead of FindClosestWorkingTime
const DefaultMaxSearchDays = 3660

// Exception overrides the weekday rule for a single date
type Exception struct {
	Date    time.Time
	Working bool
	Note    string
}

// WeekendCalendar is a day-granular calendar: configured weekdays are
// weekends, and per-date exceptions mark holidays or transferred working days
type WeekendCalendar struct {
	weekend       map[time.Weekday]bool
	exceptions    map[string]Exception // key: "YYYY-MM-DD"
	mu            sync.RWMutex
	maxSearchDays int
	maxSteps      int
	logger        *zap.Logger
}

// NewWeekendCalendar creates a calendar with the given weekend days.
// A nil slice means Saturday and Sunday.
func NewWeekendCalendar(weekend []time.Weekday, logger *zap.Logger) *WeekendCalendar {
	if weekend == nil {
		weekend = []time.Weekday{time.Saturday, time.Sunday}
	}

	days := make(map[time.Weekday]bool, len(weekend))
	for _, d := range weekend {
		days[d] = true
	}

	return &WeekendCalendar{
		weekend:       days,
		exceptions:    make(map[string]Exception),
		maxSearchDays: DefaultMaxSearchDays,
		maxSteps:      DefaultMaxSteps,
		logger:        logger,
	}
}

// WithMaxSearchDays sets how far FindClosestWorkingTime looks ahead
func (c *WeekendCalendar) WithMaxSearchDays(days int) *WeekendCalendar {
	if days > 0 {
		c.maxSearchDays = days
	}
	return c
}

// WithMaxSteps sets the step budget for unit scans
func (c *WeekendCalendar) WithMaxSteps(steps int) *WeekendCalendar {
	if steps > 0 {
		c.maxSteps = steps
	}
	return c
}

// IsWeekendDay reports whether the weekday is a weekend by default
func (c *WeekendCalendar) IsWeekendDay(d time.Weekday) bool {
	return c.weekend[d]
}

// AddHoliday marks the date as non-working
func (c *WeekendCalendar) AddHoliday(date time.Time, note string) {
	c.setException(date, false, note)
}

// AddWorkingDay marks the date as working, even if it falls on a weekend
func (c *WeekendCalendar) AddWorkingDay(date time.Time, note string) {
	c.setException(date, true, note)
}

// RemoveException restores the weekday rule for the date
func (c *WeekendCalendar) RemoveException(date time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()

	delete(c.exceptions, dateutil.DayKey(date))
}

// Exceptions returns all exceptions ordered by date
func (c *WeekendCalendar) Exceptions() []Exception {
	c.mu.RLock()
	result := make([]Exception, 0, len(c.exceptions))
	for _, ex := range c.exceptions {
		result = append(result, ex)
	}
	c.mu.RUnlock()

	sort.Slice(result, func(i, j int) bool {
		return result[i].Date.Before(result[j].Date)
	})
	return result
}

func (c *WeekendCalendar) setException(date time.Time, working bool, note string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.exceptions[dateutil.DayKey(date)] = Exception{
		Date:    dateutil.StartOfDay(date),
		Working: working,
		Note:    note,
	}
}

// DayMask classifies the day containing t
func (c *WeekendCalendar) DayMask(t time.Time) DayMask {
	var mask DayMask
	working := true

	if c.weekend[t.Weekday()] {
		mask |= DayMaskWeekend
		working = false
	}

	c.mu.RLock()
	ex, ok := c.exceptions[dateutil.DayKey(t)]
	c.mu.RUnlock()

	if ok {
		working = ex.Working
		if !ex.Working {
			mask |= DayMaskHoliday
		}
	}

	if working {
		mask |= DayMaskWorking
	}
	return mask
}

// FindClosestWorkingTime returns t on a working day, otherwise the start of
// the next working day. When no working day exists within the search bound
// t itself is returned.
func (c *WeekendCalendar) FindClosestWorkingTime(t time.Time) time.Time {
	if c.DayMask(t).IsWorking() {
		return t
	}

	day := dateutil.NextDay(t)
	for i := 0; i < c.maxSearchDays; i++ {
		if c.DayMask(day).IsWorking() {
			return day
		}
		day = dateutil.NextDay(day)
	}

	c.logger.Warn("No working day found within search bound",
		zap.Time("from", t),
		zap.Int("max_search_days", c.maxSearchDays))

	return t
}

// Activities splits [start, end) on day boundaries and merges runs of equal status
func (c *WeekendCalendar) Activities(start, end time.Time) ([]Activity, error) {
	if err := checkRange(start, end); err != nil {
		return nil, err
	}

	acts := []Activity{}
	for cur := start; cur.Before(end); {
		next := dateutil.NextDay(cur)
		if next.After(end) {
			next = end
		}
		acts = appendActivity(acts, cur, next, c.DayMask(cur).IsWorking())
		cur = next
	}

	return acts, nil
}

// UnitActivities scans count working units forward (count > 0) or backward (count < 0)
func (c *WeekendCalendar) UnitActivities(start time.Time, unit timeunit.TimeUnit, count int) ([]Activity, error) {
	if start.IsZero() {
		return nil, ErrZeroInstant
	}

	switch {
	case count > 0:
		return c.activitiesForward(start, unit, count)
	case count < 0:
		return c.activitiesBackward(start, unit, -count)
	default:
		return []Activity{}, nil
	}
}

func (c *WeekendCalendar) activitiesForward(start time.Time, unit timeunit.TimeUnit, count int) ([]Activity, error) {
	acts := []Activity{}
	remaining := count

	err := NewWalker(c, unit).WithMaxSteps(c.maxSteps).Walk(start, func(interval Interval) bool {
		acts = append(acts, Activity{Start: interval.Start, End: interval.End, Working: interval.Working})
		if interval.Working {
			remaining--
		}
		return remaining > 0
	})
	if err != nil {
		return nil, fmt.Errorf("forward scan of %d %s units: %w", count, unit.Name(), err)
	}

	return acts, nil
}

func (c *WeekendCalendar) activitiesBackward(start time.Time, unit timeunit.TimeUnit, count int) ([]Activity, error) {
	// Collected right to left
	reversed := []Activity{}
	remaining := count
	unitStart := unit.AdjustLeft(start)

	for step := 0; remaining > 0; step++ {
		if step >= c.maxSteps {
			return nil, fmt.Errorf("backward scan of %d %s units: %w: %d steps from %s",
				count, unit.Name(), ErrStepLimit, c.maxSteps, start.Format(time.RFC3339))
		}

		prevUnitStart := unit.JumpLeft(unitStart)
		if !prevUnitStart.Before(unitStart) {
			return nil, fmt.Errorf("backward scan of %d %s units: %w: unit does not move back from %s",
				count, unit.Name(), ErrNoProgress, unitStart.Format(time.RFC3339))
		}

		working := c.DayMask(prevUnitStart).IsWorking()
		last := len(reversed) - 1
		if !working && last >= 0 && !reversed[last].Working && reversed[last].Start.Equal(unitStart) {
			reversed[last].Start = prevUnitStart
		} else {
			reversed = append(reversed, Activity{Start: prevUnitStart, End: unitStart, Working: working})
		}

		if working {
			remaining--
		}
		unitStart = prevUnitStart
	}

	acts := make([]Activity, len(reversed))
	for i, a := range reversed {
		acts[len(reversed)-1-i] = a
	}
	return acts, nil
}
