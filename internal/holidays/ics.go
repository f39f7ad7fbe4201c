package holidays

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	ical "github.com/arran4/golang-ical"
	"github.com/username/gantt-calendar/internal/calendar"
	"github.com/username/gantt-calendar/pkg/dateutil"
	"go.uber.org/zap"
)

// workdayCategory marks events that turn a weekend into a working day
const workdayCategory = "WORKDAY"

var icsDateLayouts = []string{
	"20060102",
	"20060102T150405Z",
	"20060102T150405",
}

// ICSSource reads holidays from an iCalendar file. Every VEVENT marks the
// days from DTSTART up to DTEND (exclusive, one day when absent) as holidays;
// events categorised WORKDAY mark working days instead. Days without an
// event follow the weekday rule.
type ICSSource struct {
	filePath string
	weekend  map[time.Weekday]bool
	logger   *zap.Logger
	days     map[string]DayInfo // key: "YYYY-MM-DD"
}

// NewICSSource creates a new ICSSource. A nil weekend means Saturday and Sunday.
func NewICSSource(filePath string, weekend []time.Weekday, logger *zap.Logger) *ICSSource {
	return &ICSSource{
		filePath: filePath,
		weekend:  weekendSet(weekend),
		logger:   logger,
		days:     make(map[string]DayInfo),
	}
}

// Load parses the iCalendar file
func (s *ICSSource) Load() error {
	file, err := os.Open(s.filePath)
	if err != nil {
		return fmt.Errorf("failed to open ics file: %w", err)
	}
	defer file.Close()

	return s.LoadFrom(file)
}

// LoadFrom parses iCalendar data from r
func (s *ICSSource) LoadFrom(r io.Reader) error {
	parsed, err := ical.ParseCalendar(r)
	if err != nil {
		return fmt.Errorf("failed to parse ics data: %w", err)
	}

	days := make(map[string]DayInfo)
	for _, event := range parsed.Events() {
		start := event.GetProperty(ical.ComponentPropertyDtStart)
		if start == nil {
			s.logger.Warn("Skipping event without DTSTART", zap.String("uid", event.Id()))
			continue
		}

		from, err := parseICSDate(start.Value)
		if err != nil {
			s.logger.Warn("Skipping event with invalid DTSTART",
				zap.String("uid", event.Id()),
				zap.Error(err))
			continue
		}

		to := dateutil.NextDay(from)
		if end := event.GetProperty(ical.ComponentPropertyDtEnd); end != nil {
			if parsedEnd, err := parseICSDate(end.Value); err == nil && parsedEnd.After(from) {
				to = parsedEnd
			}
		}

		note := ""
		if summary := event.GetProperty(ical.ComponentPropertySummary); summary != nil {
			note = summary.Value
		}

		working := false
		if categories := event.GetProperty(ical.ComponentPropertyCategories); categories != nil {
			working = strings.EqualFold(strings.TrimSpace(categories.Value), workdayCategory)
		}

		for day := from; day.Before(to); day = dateutil.NextDay(day) {
			info := DayInfo{Date: day, Type: DayTypeHoliday, Note: note}
			if working {
				info = DayInfo{Date: day, Type: DayTypeWorkday, WorkingHours: standardDayHours, IsWorkday: true, Note: note}
			}
			days[dateutil.DayKey(day)] = info
		}
	}

	s.days = days
	s.logger.Info("iCalendar holidays loaded",
		zap.String("file", s.filePath),
		zap.Int("events", len(parsed.Events())),
		zap.Int("days", len(days)))

	return nil
}

// parseICSDate parses DATE and DATE-TIME values and truncates them to the day
func parseICSDate(value string) (time.Time, error) {
	for _, layout := range icsDateLayouts {
		if t, err := time.Parse(layout, strings.TrimSpace(value)); err == nil {
			return dateutil.StartOfDay(t), nil
		}
	}
	return time.Time{}, fmt.Errorf("unsupported date value %q", value)
}

// GetMonthInfo returns calendar info for the entire month
func (s *ICSSource) GetMonthInfo(year int, month time.Month) (*MonthInfo, error) {
	monthInfo := newMonthInfo(year, month)
	for day := 1; day <= dateutil.DaysInMonth(year, month); day++ {
		date := time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
		if info, ok := s.days[dateutil.DayKey(date)]; ok {
			monthInfo.add(info)
			continue
		}
		monthInfo.add(regularDay(date, s.weekend))
	}
	return monthInfo, nil
}

// GetDayInfo returns detailed info for a specific day
func (s *ICSSource) GetDayInfo(date time.Time) (*DayInfo, error) {
	return dayFromMonth(s, date)
}

// ExportICS writes calendar exceptions as all-day events
func ExportICS(w io.Writer, exceptions []calendar.Exception) error {
	cal := ical.NewCalendar()
	cal.SetMethod(ical.MethodPublish)
	cal.SetProductId("-//gantt-calendar//holidays//EN")

	stamp := time.Now().UTC()
	for _, ex := range exceptions {
		day := dateutil.StartOfDay(ex.Date)
		key := dateutil.DayKey(day)

		event := cal.AddEvent(key + "@gantt-calendar")
		event.SetDtStampTime(stamp)
		event.SetAllDayStartAt(day)
		event.SetAllDayEndAt(dateutil.NextDay(day))

		summary := ex.Note
		if summary == "" {
			summary = "Holiday"
			if ex.Working {
				summary = "Working day"
			}
		}
		event.SetSummary(summary)

		if ex.Working {
			event.SetProperty(ical.ComponentPropertyCategories, workdayCategory)
		}
	}

	if _, err := io.WriteString(w, cal.Serialize()); err != nil {
		return fmt.Errorf("failed to write ics data: %w", err)
	}
	return nil
}
