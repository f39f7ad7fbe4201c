package holidays

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"go.uber.org/zap"
)

const productionMay2025 = `{
  "status": "ok",
  "country_code": "ru",
  "dt_start": "01.05.2025",
  "dt_end": "31.05.2025",
  "statistic": {"calendar_days": 31, "work_days": 18, "weekends": 9, "holidays": 4, "working_hours": 142},
  "days": [
    {"date": "01.05.2025", "type_id": 3, "type_text": "Праздничный день", "note": "Праздник Весны и Труда", "week_day": "чт", "working_hours": 0},
    {"date": "02.05.2025", "type_id": 2, "type_text": "Выходной день", "week_day": "пт", "working_hours": 0},
    {"date": "07.05.2025", "type_id": 4, "type_text": "Предпраздничный день", "week_day": "ср", "working_hours": 7},
    {"date": "08.05.2025", "type_id": 1, "type_text": "Рабочий день", "week_day": "чт", "working_hours": 8}
  ]
}`

func TestProductionCalendarSource_GetMonthInfo(t *testing.T) {
	var gotPath string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		fmt.Fprint(w, productionMay2025)
	}))
	defer srv.Close()

	src := NewProductionCalendarSource(srv.URL+"/", "token", "ru", time.Hour, zap.NewNop())

	monthInfo, err := src.GetMonthInfo(2025, time.May)
	if err != nil {
		t.Fatalf("GetMonthInfo() error = %v", err)
	}

	if want := "/get-period/token/ru/05.2025/json"; gotPath != want {
		t.Errorf("request path = %q, want %q", gotPath, want)
	}
	if monthInfo.WorkingHours != 142 || monthInfo.WorkDays != 18 {
		t.Errorf("statistic = %d hours/%d days, want 142/18", monthInfo.WorkingHours, monthInfo.WorkDays)
	}

	tests := []struct {
		name        string
		day         int
		wantType    DayType
		wantWorkday bool
	}{
		{"holiday", 1, DayTypeHoliday, false},
		{"transferred weekend", 2, DayTypeWeekend, false},
		{"pre-holiday day", 7, DayTypeShortened, true},
		{"workday", 8, DayTypeWorkday, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			day, err := src.GetDayInfo(time.Date(2025, time.May, tt.day, 0, 0, 0, 0, time.UTC))
			if err != nil {
				t.Fatalf("GetDayInfo() error = %v", err)
			}
			if day.Type != tt.wantType || day.IsWorkday != tt.wantWorkday {
				t.Errorf("GetDayInfo() = %v/%v, want %v/%v", day.Type, day.IsWorkday, tt.wantType, tt.wantWorkday)
			}
		})
	}
}

func TestProductionCalendarSource_Errors(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
	}{
		{"http error", http.StatusBadGateway, "bad gateway"},
		{"api status", http.StatusOK, `{"status":"error","days":[]}`},
		{"guest token limitation", http.StatusOK, `{"status":"ok","days":"guest token allows only current month"}`},
		{"malformed json", http.StatusOK, `{"status":`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				fmt.Fprint(w, tt.body)
			}))
			defer srv.Close()

			src := NewProductionCalendarSource(srv.URL, "token", "", time.Hour, zap.NewNop())
			if _, err := src.GetMonthInfo(2025, time.May); err == nil {
				t.Error("GetMonthInfo() expected error, got nil")
			}
			if n := src.cache.len(); n != 0 {
				t.Errorf("failed fetch cached %d months", n)
			}
		})
	}
}
