package holidays

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/username/gantt-calendar/pkg/dateutil"
	"go.uber.org/zap"
)

const (
	DefaultIsDayOffURL    = "https://isdayoff.ru"
	DefaultXMLCalendarURL = "https://xmlcalendar.ru/data/ru/{year}/calendar.json"
	defaultHTTPTimeout    = 10 * time.Second
)

// IsDayOffSource reads month data from the isdayoff.ru bulk API and falls
// back to the yearly xmlcalendar.ru JSON when the API is unavailable
type IsDayOffSource struct {
	baseURL      string
	fallbackURL  string
	httpClient   *http.Client
	logger       *zap.Logger
	cache        *monthCache
	fallbackMu   sync.RWMutex
	fallbackData map[int]*xmlCalendarYear // year → calendar data
}

// xmlCalendarYear represents xmlcalendar.ru JSON structure
type xmlCalendarYear struct {
	Year      int                `json:"year"`
	Months    []xmlCalendarMonth `json:"months"`
	Statistic struct {
		Workdays int     `json:"workdays"`
		Holidays int     `json:"holidays"`
		Hours40  float64 `json:"hours40"`
	} `json:"statistic"`
	Transitions []xmlTransition `json:"transitions"`
}

type xmlCalendarMonth struct {
	Month int    `json:"month"`
	Days  string `json:"days"` // "1*,2,3+,4,8,9,..." where * = shortened, + = transferred
}

type xmlTransition struct {
	From string `json:"from"` // "MM.DD"
	To   string `json:"to"`   // "MM.DD"
}

// NewIsDayOffSource creates a new IsDayOffSource. Empty URLs select the public services.
func NewIsDayOffSource(baseURL, fallbackURL string, cacheTTL time.Duration, logger *zap.Logger) *IsDayOffSource {
	if baseURL == "" {
		baseURL = DefaultIsDayOffURL
	}
	if fallbackURL == "" {
		fallbackURL = DefaultXMLCalendarURL
	}

	return &IsDayOffSource{
		baseURL:     strings.TrimRight(baseURL, "/"),
		fallbackURL: fallbackURL,
		httpClient: &http.Client{
			Timeout: defaultHTTPTimeout,
		},
		logger:       logger,
		cache:        newMonthCache(cacheTTL),
		fallbackData: make(map[int]*xmlCalendarYear),
	}
}

// GetDayInfo returns detailed info for a specific day
func (s *IsDayOffSource) GetDayInfo(date time.Time) (*DayInfo, error) {
	return dayFromMonth(s, date)
}

// GetMonthInfo returns calendar info for the entire month
func (s *IsDayOffSource) GetMonthInfo(year int, month time.Month) (*MonthInfo, error) {
	if cached, ok := s.cache.get(year, month); ok {
		s.logger.Debug("Using cached month info",
			zap.Int("year", year),
			zap.Int("month", int(month)))
		return cached, nil
	}

	monthInfo, err := s.fetchMonthFromAPI(year, month)
	if err != nil {
		s.logger.Warn("Failed to fetch month from API, trying fallback",
			zap.Int("year", year),
			zap.Int("month", int(month)),
			zap.Error(err))

		var fallbackErr error
		monthInfo, fallbackErr = s.fetchMonthFromFallback(year, month)
		if fallbackErr != nil {
			return nil, fmt.Errorf("API and fallback both failed: API=%w, Fallback=%w", err, fallbackErr)
		}

		s.logger.Info("Using fallback data",
			zap.Int("year", year),
			zap.Int("month", int(month)))
	}

	s.cache.put(monthInfo)
	return monthInfo, nil
}

// fetchMonthFromAPI fetches entire month from isdayoff.ru bulk API
func (s *IsDayOffSource) fetchMonthFromAPI(year int, month time.Month) (*MonthInfo, error) {
	// /api/getdata?year=2025&month=11&pre=1
	url := fmt.Sprintf("%s/api/getdata?year=%d&month=%d&pre=1", s.baseURL, year, int(month))

	s.logger.Debug("Fetching month from isdayoff.ru",
		zap.String("url", url),
		zap.Int("year", year),
		zap.Int("month", int(month)))

	resp, err := s.httpClient.Get(url)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch calendar data: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("API returned status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	monthInfo, err := parseBulkResponse(year, month, strings.TrimSpace(string(body)))
	if err != nil {
		return nil, fmt.Errorf("failed to parse bulk response: %w", err)
	}

	s.logger.Info("Month info fetched from API",
		zap.Int("year", year),
		zap.Int("month", int(month)),
		zap.Int("working_hours", monthInfo.WorkingHours))

	return monthInfo, nil
}

// parseBulkResponse parses isdayoff.ru bulk response string
// Format: "211100011000001100000110000011" where:
// 0 = working day (8 hours)
// 1 = non-working day (holiday/weekend)
// 2 = shortened day (7 hours)
func parseBulkResponse(year int, month time.Month, data string) (*MonthInfo, error) {
	if days := dateutil.DaysInMonth(year, month); len(data) != days {
		return nil, fmt.Errorf("bulk data length mismatch: expected %d, got %d", days, len(data))
	}

	monthInfo := newMonthInfo(year, month)

	for i, code := range data {
		date := time.Date(year, month, i+1, 0, 0, 0, 0, time.UTC)

		switch code {
		case '0':
			monthInfo.add(DayInfo{Date: date, Type: DayTypeWorkday, WorkingHours: standardDayHours, IsWorkday: true})
		case '1':
			monthInfo.add(DayInfo{Date: date, Type: nonWorkingType(date)})
		case '2':
			monthInfo.add(DayInfo{Date: date, Type: DayTypeShortened, WorkingHours: shortenedDayHours, IsWorkday: true})
		default:
			return nil, fmt.Errorf("unknown code '%c' at position %d", code, i)
		}
	}

	return monthInfo, nil
}

// nonWorkingType tells a plain weekend from a holiday on a weekday
func nonWorkingType(date time.Time) DayType {
	if date.Weekday() == time.Saturday || date.Weekday() == time.Sunday {
		return DayTypeWeekend
	}
	return DayTypeHoliday
}

// fetchMonthFromFallback fetches month from xmlcalendar.ru
func (s *IsDayOffSource) fetchMonthFromFallback(year int, month time.Month) (*MonthInfo, error) {
	s.fallbackMu.RLock()
	yearData, exists := s.fallbackData[year]
	s.fallbackMu.RUnlock()

	if !exists {
		var err error
		yearData, err = s.downloadFallbackYear(year)
		if err != nil {
			return nil, fmt.Errorf("failed to download fallback data: %w", err)
		}

		s.fallbackMu.Lock()
		s.fallbackData[year] = yearData
		s.fallbackMu.Unlock()
	}

	for i := range yearData.Months {
		if yearData.Months[i].Month == int(month) {
			return parseXMLCalendarMonth(year, month, &yearData.Months[i], s.logger), nil
		}
	}

	return nil, fmt.Errorf("%w: month %d in fallback data for year %d", ErrNotFound, month, year)
}

// downloadFallbackYear downloads entire year from xmlcalendar.ru
func (s *IsDayOffSource) downloadFallbackYear(year int) (*xmlCalendarYear, error) {
	url := strings.ReplaceAll(s.fallbackURL, "{year}", strconv.Itoa(year))

	s.logger.Info("Downloading fallback calendar data",
		zap.String("url", url),
		zap.Int("year", year))

	resp, err := s.httpClient.Get(url)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch fallback data: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fallback API returned status %d", resp.StatusCode)
	}

	var yearData xmlCalendarYear
	if err := json.NewDecoder(resp.Body).Decode(&yearData); err != nil {
		return nil, fmt.Errorf("failed to parse fallback JSON: %w", err)
	}

	s.logger.Info("Fallback data downloaded",
		zap.Int("year", year),
		zap.Int("months", len(yearData.Months)))

	return &yearData, nil
}

// parseXMLCalendarMonth parses xmlcalendar.ru compact format
// Format: "1*,2,3+,4,8,9,15,16,22,23,29,30"
// * = shortened day, + = transferred day, others = weekends/holidays
func parseXMLCalendarMonth(year int, month time.Month, xmlMonth *xmlCalendarMonth, logger *zap.Logger) *MonthInfo {
	nonWorking := make(map[int]rune) // day → marker (* or + or 0)
	for _, part := range strings.Split(xmlMonth.Days, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}

		marker := rune(0)
		dayStr := part
		if strings.HasSuffix(part, "*") {
			marker = '*'
			dayStr = strings.TrimSuffix(part, "*")
		} else if strings.HasSuffix(part, "+") {
			marker = '+'
			dayStr = strings.TrimSuffix(part, "+")
		}

		day, err := strconv.Atoi(dayStr)
		if err != nil {
			logger.Warn("Failed to parse day number",
				zap.String("part", part),
				zap.Error(err))
			continue
		}
		nonWorking[day] = marker
	}

	monthInfo := newMonthInfo(year, month)
	for day := 1; day <= dateutil.DaysInMonth(year, month); day++ {
		date := time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
		marker, isNonWorking := nonWorking[day]

		switch {
		case marker == '*':
			monthInfo.add(DayInfo{Date: date, Type: DayTypeShortened, WorkingHours: shortenedDayHours, IsWorkday: true})
		case isNonWorking:
			monthInfo.add(DayInfo{Date: date, Type: nonWorkingType(date)})
		default:
			monthInfo.add(DayInfo{Date: date, Type: DayTypeWorkday, WorkingHours: standardDayHours, IsWorkday: true})
		}
	}

	return monthInfo
}

// ClearCache drops cached months and fallback years
func (s *IsDayOffSource) ClearCache() {
	s.cache.clear()

	s.fallbackMu.Lock()
	s.fallbackData = make(map[int]*xmlCalendarYear)
	s.fallbackMu.Unlock()

	s.logger.Info("Calendar cache cleared")
}
