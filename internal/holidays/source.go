package holidays

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/username/gantt-calendar/pkg/dateutil"
)

const (
	standardDayHours  = 8
	shortenedDayHours = 7
)

// ErrNotFound is returned when a source has no data for the requested date
var ErrNotFound = errors.New("no calendar data")

// DayType represents the type of day
type DayType int

const (
	DayTypeWorkday DayType = iota + 1
	DayTypeWeekend
	DayTypeHoliday
	DayTypeShortened
)

func (t DayType) String() string {
	switch t {
	case DayTypeWorkday:
		return "workday"
	case DayTypeWeekend:
		return "weekend"
	case DayTypeHoliday:
		return "holiday"
	case DayTypeShortened:
		return "shortened"
	default:
		return fmt.Sprintf("DayType(%d)", int(t))
	}
}

// ParseDayType parses the textual form used in calendar files
func ParseDayType(s string) (DayType, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "workday":
		return DayTypeWorkday, nil
	case "weekend":
		return DayTypeWeekend, nil
	case "holiday":
		return DayTypeHoliday, nil
	case "shortened":
		return DayTypeShortened, nil
	default:
		return 0, fmt.Errorf("unknown day type: %q", s)
	}
}

// IsWorking reports whether work happens on a day of this type
func (t DayType) IsWorking() bool {
	return t == DayTypeWorkday || t == DayTypeShortened
}

// DayInfo represents information about a specific day
type DayInfo struct {
	Date         time.Time `json:"date"`
	Type         DayType   `json:"type"`
	WorkingHours int       `json:"working_hours"`
	IsWorkday    bool      `json:"is_workday"`
	Note         string    `json:"note,omitempty"`
}

// MonthInfo represents calendar information for a month
type MonthInfo struct {
	Year         int        `json:"year"`
	Month        time.Month `json:"month"`
	WorkingHours int        `json:"working_hours"` // Total working hours in the month
	WorkDays     int        `json:"work_days"`
	Weekends     int        `json:"weekends"`
	Holidays     int        `json:"holidays"`
	Days         []DayInfo  `json:"days"`
}

func newMonthInfo(year int, month time.Month) *MonthInfo {
	return &MonthInfo{
		Year:  year,
		Month: month,
		Days:  make([]DayInfo, 0, dateutil.DaysInMonth(year, month)),
	}
}

// add appends a day and updates the month statistics
func (m *MonthInfo) add(day DayInfo) {
	m.Days = append(m.Days, day)

	switch {
	case day.IsWorkday:
		m.WorkDays++
		m.WorkingHours += day.WorkingHours
	case day.Type == DayTypeWeekend:
		m.Weekends++
	case day.Type == DayTypeHoliday:
		m.Holidays++
	}
}

// Day returns the entry for the given date
func (m *MonthInfo) Day(date time.Time) (*DayInfo, bool) {
	for i := range m.Days {
		if dateutil.IsSameDay(m.Days[i].Date, date) {
			return &m.Days[i], true
		}
	}
	return nil, false
}

// Source provides working-day data by month
type Source interface {
	// GetMonthInfo returns calendar info for the entire month
	GetMonthInfo(year int, month time.Month) (*MonthInfo, error)

	// GetDayInfo returns detailed info for a specific day
	GetDayInfo(date time.Time) (*DayInfo, error)
}

// dayFromMonth resolves a single day through the source's month data
func dayFromMonth(src Source, date time.Time) (*DayInfo, error) {
	monthInfo, err := src.GetMonthInfo(date.Year(), date.Month())
	if err != nil {
		return nil, err
	}

	day, ok := monthInfo.Day(date)
	if !ok {
		return nil, fmt.Errorf("%w: day %s", ErrNotFound, date.Format(dateutil.DateLayout))
	}
	return day, nil
}

// regularDay classifies a date using only the weekday rule
func regularDay(date time.Time, weekend map[time.Weekday]bool) DayInfo {
	if weekend[date.Weekday()] {
		return DayInfo{Date: date, Type: DayTypeWeekend}
	}
	return DayInfo{Date: date, Type: DayTypeWorkday, WorkingHours: standardDayHours, IsWorkday: true}
}

func weekendSet(days []time.Weekday) map[time.Weekday]bool {
	if days == nil {
		days = []time.Weekday{time.Saturday, time.Sunday}
	}
	set := make(map[time.Weekday]bool, len(days))
	for _, d := range days {
		set[d] = true
	}
	return set
}

func monthKey(year int, month time.Month) string {
	return fmt.Sprintf("%d-%02d", year, month)
}
