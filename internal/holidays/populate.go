package holidays

import (
	"errors"
	"fmt"
	"time"

	"github.com/username/gantt-calendar/internal/calendar"
	"github.com/username/gantt-calendar/pkg/dateutil"
	"go.uber.org/zap"
)

// PopulateResult summarises the exceptions applied by Populate
type PopulateResult struct {
	Months      int
	Holidays    int
	WorkingDays int
}

// Populate copies every day in [from, to] whose working status differs from
// the calendar's weekday rule into the calendar as an exception. Months the
// source has no data for are skipped. Dates are placed in the location of from.
func Populate(cal *calendar.WeekendCalendar, src Source, from, to time.Time, logger *zap.Logger) (PopulateResult, error) {
	var result PopulateResult

	if to.Before(from) {
		return result, fmt.Errorf("invalid range: %s is after %s",
			from.Format(dateutil.DateLayout), to.Format(dateutil.DateLayout))
	}

	first := dateutil.StartOfDay(from)
	last := dateutil.StartOfDay(to)
	loc := from.Location()

	for month := dateutil.StartOfMonth(first); !month.After(last); month = month.AddDate(0, 1, 0) {
		monthInfo, err := src.GetMonthInfo(month.Year(), month.Month())
		if errors.Is(err, ErrNotFound) {
			logger.Warn("Holiday source has no data for month, weekday rule applies",
				zap.String("month", monthKey(month.Year(), month.Month())))
			continue
		}
		if err != nil {
			return result, fmt.Errorf("failed to get month %s: %w", monthKey(month.Year(), month.Month()), err)
		}
		result.Months++

		for _, day := range monthInfo.Days {
			date := time.Date(day.Date.Year(), day.Date.Month(), day.Date.Day(), 0, 0, 0, 0, loc)
			if date.Before(first) || date.After(last) {
				continue
			}

			weekend := cal.IsWeekendDay(date.Weekday())
			switch {
			case !day.IsWorkday && !weekend:
				cal.AddHoliday(date, noteOrType(day))
				result.Holidays++
			case day.IsWorkday && weekend:
				cal.AddWorkingDay(date, noteOrType(day))
				result.WorkingDays++
			}
		}
	}

	logger.Info("Calendar populated from holiday source",
		zap.String("from", first.Format(dateutil.DateLayout)),
		zap.String("to", last.Format(dateutil.DateLayout)),
		zap.Int("months", result.Months),
		zap.Int("holidays", result.Holidays),
		zap.Int("working_days", result.WorkingDays))

	return result, nil
}

func noteOrType(day DayInfo) string {
	if day.Note != "" {
		return day.Note
	}
	return day.Type.String()
}
