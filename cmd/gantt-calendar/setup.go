package main

import (
	"fmt"
	"time"

	"github.com/username/gantt-calendar/internal/calendar"
	"github.com/username/gantt-calendar/internal/config"
	"github.com/username/gantt-calendar/internal/holidays"
	"github.com/username/gantt-calendar/internal/schedule"
	"github.com/username/gantt-calendar/internal/timeunit"
	"github.com/username/gantt-calendar/pkg/dateutil"
	"go.uber.org/zap"
)

// env bundles what every command needs
type env struct {
	loc      *time.Location
	unit     timeunit.TimeUnit
	calendar calendar.Calendar
	weekend  *calendar.WeekendCalendar // nil for always-working
	manager  *schedule.Manager
}

// setup builds the calendar described by the config. unitName overrides
// calendar.time_unit when not empty.
func setup(cfg *config.Config, unitName string) (*env, error) {
	loc, err := cfg.Calendar.GetLocation()
	if err != nil {
		return nil, err
	}

	unit, err := cfg.Calendar.GetTimeUnit()
	if unitName != "" {
		unit, err = timeunit.ByName(unitName)
	}
	if err != nil {
		return nil, err
	}

	e := &env{loc: loc, unit: unit}

	switch cfg.Calendar.Type {
	case config.CalendarTypeAlwaysWorking:
		logger.Debug("Using always-working calendar")
		e.calendar = calendar.NewAlwaysWorkingCalendar()

	default:
		weekend, err := cfg.Calendar.GetWeekendDays()
		if err != nil {
			return nil, err
		}

		wc := calendar.NewWeekendCalendar(weekend, logger).
			WithMaxSearchDays(cfg.Calendar.GetMaxSearchDays()).
			WithMaxSteps(cfg.Walker.GetMaxSteps())

		src, err := newHolidaySource(cfg, weekend)
		if err != nil {
			return nil, err
		}
		if src != nil {
			from, to, err := cfg.Holidays.GetRange(time.Now(), loc)
			if err != nil {
				return nil, err
			}
			if _, err := holidays.Populate(wc, src, from, to, logger); err != nil {
				return nil, fmt.Errorf("failed to load holidays: %w", err)
			}
		}

		e.calendar = wc
		e.weekend = wc
	}

	e.manager = schedule.NewManager(e.calendar, unit, cfg.Walker.GetMaxSteps(), logger)
	return e, nil
}

// newHolidaySource returns the configured holiday source, nil when none is set
func newHolidaySource(cfg *config.Config, weekend []time.Weekday) (holidays.Source, error) {
	h := cfg.Holidays

	switch h.Source {
	case "", config.HolidaySourceNone:
		return nil, nil

	case config.HolidaySourceFile:
		fs := holidays.NewFileSource(h.File, logger)
		if err := fs.Load(); err != nil {
			return nil, err
		}
		return fs, nil

	case config.HolidaySourceICS:
		ics := holidays.NewICSSource(h.File, weekend, logger)
		if err := ics.Load(); err != nil {
			return nil, err
		}
		return ics, nil

	case config.HolidaySourceSnapshot:
		ss := holidays.NewSnapshotSource(h.File, logger)
		if err := ss.Load(); err != nil {
			return nil, err
		}
		return ss, nil

	case config.HolidaySourceIsDayOff:
		logger.Info("Using isdayoff.ru calendar API")
		return withFallbackFile(h, holidays.NewIsDayOffSource(h.APIURL, h.FallbackURL, h.GetCacheTTL(), logger)), nil

	case config.HolidaySourceProductionCalendar:
		logger.Info("Using production-calendar.ru API")
		return withFallbackFile(h, holidays.NewProductionCalendarSource(h.APIURL, h.APIToken, h.Country, h.GetCacheTTL(), logger)), nil
	}

	return nil, fmt.Errorf("unknown holiday source: %s", h.Source)
}

func withFallbackFile(h config.HolidaysConfig, primary holidays.Source) holidays.Source {
	if h.FallbackFile == "" {
		return primary
	}

	fallback := holidays.NewFileSource(h.FallbackFile, logger)
	if err := fallback.Load(); err != nil {
		logger.Warn("Failed to load fallback calendar, continuing with API only",
			zap.String("file", h.FallbackFile),
			zap.Error(err))
		return primary
	}
	return holidays.NewCompositeSource(primary, fallback, logger)
}

func parseInstant(e *env, flag, value string) (time.Time, error) {
	return parseDate(e.loc, flag, value)
}

func parseDate(loc *time.Location, flag, value string) (time.Time, error) {
	if value == "" {
		return time.Time{}, fmt.Errorf("--%s is required", flag)
	}
	t, err := dateutil.ParseDate(value, loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("--%s: %w", flag, err)
	}
	return t, nil
}
