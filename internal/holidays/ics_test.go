package holidays

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/username/gantt-calendar/internal/calendar"
	"go.uber.org/zap"
)

const sampleICS = "BEGIN:VCALENDAR\r\n" +
	"VERSION:2.0\r\n" +
	"PRODID:-//test//holidays//EN\r\n" +
	"BEGIN:VEVENT\r\n" +
	"UID:new-year@test\r\n" +
	"DTSTART;VALUE=DATE:20250101\r\n" +
	"DTEND;VALUE=DATE:20250103\r\n" +
	"SUMMARY:New Year\r\n" +
	"END:VEVENT\r\n" +
	"BEGIN:VEVENT\r\n" +
	"UID:memorial@test\r\n" +
	"DTSTART:20250115T090000Z\r\n" +
	"SUMMARY:Memorial day\r\n" +
	"END:VEVENT\r\n" +
	"BEGIN:VEVENT\r\n" +
	"UID:transfer@test\r\n" +
	"DTSTART;VALUE=DATE:20250111\r\n" +
	"SUMMARY:Transferred working day\r\n" +
	"CATEGORIES:WORKDAY\r\n" +
	"END:VEVENT\r\n" +
	"END:VCALENDAR\r\n"

func TestICSSource_LoadFrom(t *testing.T) {
	src := NewICSSource("inline.ics", nil, zap.NewNop())
	if err := src.LoadFrom(strings.NewReader(sampleICS)); err != nil {
		t.Fatalf("LoadFrom() error = %v", err)
	}

	tests := []struct {
		name        string
		date        time.Time
		wantType    DayType
		wantWorkday bool
		wantNote    string
	}{
		{"first day of multi-day event", time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC), DayTypeHoliday, false, "New Year"},
		{"second day of multi-day event", time.Date(2025, 1, 2, 0, 0, 0, 0, time.UTC), DayTypeHoliday, false, "New Year"},
		{"DTEND is exclusive", time.Date(2025, 1, 3, 0, 0, 0, 0, time.UTC), DayTypeWorkday, true, ""},
		{"date-time start defaults to one day", time.Date(2025, 1, 15, 0, 0, 0, 0, time.UTC), DayTypeHoliday, false, "Memorial day"},
		{"day after single-day event", time.Date(2025, 1, 16, 0, 0, 0, 0, time.UTC), DayTypeWorkday, true, ""},
		{"working Saturday", time.Date(2025, 1, 11, 0, 0, 0, 0, time.UTC), DayTypeWorkday, true, "Transferred working day"},
		{"plain Sunday", time.Date(2025, 1, 12, 0, 0, 0, 0, time.UTC), DayTypeWeekend, false, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			day, err := src.GetDayInfo(tt.date)
			if err != nil {
				t.Fatalf("GetDayInfo() error = %v", err)
			}
			if day.Type != tt.wantType || day.IsWorkday != tt.wantWorkday || day.Note != tt.wantNote {
				t.Errorf("GetDayInfo() = %v/%v/%q, want %v/%v/%q",
					day.Type, day.IsWorkday, day.Note, tt.wantType, tt.wantWorkday, tt.wantNote)
			}
		})
	}

	january, err := src.GetMonthInfo(2025, time.January)
	if err != nil {
		t.Fatalf("GetMonthInfo() error = %v", err)
	}
	if len(january.Days) != 31 {
		t.Errorf("January days = %d, want 31", len(january.Days))
	}
	if january.Holidays != 3 {
		t.Errorf("January holidays = %d, want 3", january.Holidays)
	}
}

func TestICSSource_CustomWeekend(t *testing.T) {
	src := NewICSSource("inline.ics", []time.Weekday{time.Friday}, zap.NewNop())
	if err := src.LoadFrom(strings.NewReader(sampleICS)); err != nil {
		t.Fatalf("LoadFrom() error = %v", err)
	}

	friday, err := src.GetDayInfo(time.Date(2025, 1, 10, 0, 0, 0, 0, time.UTC))
	if err != nil {
		t.Fatalf("GetDayInfo() error = %v", err)
	}
	if friday.IsWorkday {
		t.Error("Friday should be a weekend")
	}

	sunday, err := src.GetDayInfo(time.Date(2025, 1, 12, 0, 0, 0, 0, time.UTC))
	if err != nil {
		t.Fatalf("GetDayInfo() error = %v", err)
	}
	if !sunday.IsWorkday {
		t.Error("Sunday should be working")
	}
}

func TestICSSource_InvalidData(t *testing.T) {
	src := NewICSSource("broken.ics", nil, zap.NewNop())
	if err := src.Load(); err == nil {
		t.Error("Load() expected error for missing file")
	}
}

func TestExportICS_RoundTrip(t *testing.T) {
	cal := calendar.NewWeekendCalendar(nil, zap.NewNop())
	cal.AddHoliday(time.Date(2025, 5, 1, 0, 0, 0, 0, time.UTC), "Labour Day")
	cal.AddHoliday(time.Date(2025, 5, 9, 0, 0, 0, 0, time.UTC), "")
	cal.AddWorkingDay(time.Date(2025, 5, 10, 0, 0, 0, 0, time.UTC), "Transferred")

	var buf bytes.Buffer
	if err := ExportICS(&buf, cal.Exceptions()); err != nil {
		t.Fatalf("ExportICS() error = %v", err)
	}
	if !strings.Contains(buf.String(), "BEGIN:VCALENDAR") {
		t.Fatalf("ExportICS() output is not a calendar:\n%s", buf.String())
	}

	src := NewICSSource("exported.ics", nil, zap.NewNop())
	if err := src.LoadFrom(&buf); err != nil {
		t.Fatalf("LoadFrom() error = %v", err)
	}

	tests := []struct {
		date        time.Time
		wantWorkday bool
		wantNote    string
	}{
		{time.Date(2025, 5, 1, 0, 0, 0, 0, time.UTC), false, "Labour Day"},
		{time.Date(2025, 5, 9, 0, 0, 0, 0, time.UTC), false, "Holiday"},
		{time.Date(2025, 5, 10, 0, 0, 0, 0, time.UTC), true, "Transferred"},
		{time.Date(2025, 5, 2, 0, 0, 0, 0, time.UTC), true, ""},
	}

	for _, tt := range tests {
		day, err := src.GetDayInfo(tt.date)
		if err != nil {
			t.Fatalf("GetDayInfo(%s) error = %v", tt.date.Format("2006-01-02"), err)
		}
		if day.IsWorkday != tt.wantWorkday || day.Note != tt.wantNote {
			t.Errorf("GetDayInfo(%s) = %v/%q, want %v/%q",
				tt.date.Format("2006-01-02"), day.IsWorkday, day.Note, tt.wantWorkday, tt.wantNote)
		}
	}
}
