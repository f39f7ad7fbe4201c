package holidays

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"
)

// DefaultProductionCalendarURL is the public production-calendar.ru endpoint
const DefaultProductionCalendarURL = "https://production-calendar.ru"

// ProductionCalendarSource reads month data from the production-calendar.ru API
type ProductionCalendarSource struct {
	apiURL     string
	apiToken   string
	country    string
	httpClient *http.Client
	logger     *zap.Logger
	cache      *monthCache
}

// productionCalendarResponse represents API response
type productionCalendarResponse struct {
	Status      string `json:"status"`
	CountryCode string `json:"country_code"`
	DTStart     string `json:"dt_start"`
	DTEnd       string `json:"dt_end"`
	Statistic   struct {
		CalendarDays         int `json:"calendar_days"`
		WorkDays             int `json:"work_days"`
		Weekends             int `json:"weekends"`
		Holidays             int `json:"holidays"`
		ShortenedWorkingDays int `json:"shortened_working_days"`
		WorkingHours         int `json:"working_hours"`
	} `json:"statistic"`
	Days json.RawMessage `json:"days"` // array, or an error string for guest tokens
}

// productionDay represents a single day in the API response
type productionDay struct {
	Date         string `json:"date"`
	TypeID       int    `json:"type_id"`
	TypeText     string `json:"type_text"`
	Note         string `json:"note,omitempty"`
	WeekDay      string `json:"week_day"`
	WorkingHours int    `json:"working_hours"`
}

// NewProductionCalendarSource creates a new ProductionCalendarSource
func NewProductionCalendarSource(apiURL, apiToken, country string, cacheTTL time.Duration, logger *zap.Logger) *ProductionCalendarSource {
	if apiURL == "" {
		apiURL = DefaultProductionCalendarURL
	}
	if country == "" {
		country = "ru"
	}

	return &ProductionCalendarSource{
		apiURL:   strings.TrimRight(apiURL, "/"),
		apiToken: apiToken,
		country:  country,
		httpClient: &http.Client{
			Timeout: defaultHTTPTimeout,
		},
		logger: logger,
		cache:  newMonthCache(cacheTTL),
	}
}

// GetMonthInfo returns calendar info for the entire month
func (s *ProductionCalendarSource) GetMonthInfo(year int, month time.Month) (*MonthInfo, error) {
	if cached, ok := s.cache.get(year, month); ok {
		s.logger.Debug("Using cached month info",
			zap.Int("year", year),
			zap.Int("month", int(month)))
		return cached, nil
	}

	monthInfo, err := s.fetchMonthInfo(year, month)
	if err != nil {
		return nil, err
	}
	s.cache.put(monthInfo)

	s.logger.Info("Month info fetched and cached",
		zap.Int("year", year),
		zap.Int("month", int(month)),
		zap.Int("working_hours", monthInfo.WorkingHours))

	return monthInfo, nil
}

// GetDayInfo returns detailed info for a specific day
func (s *ProductionCalendarSource) GetDayInfo(date time.Time) (*DayInfo, error) {
	return dayFromMonth(s, date)
}

func (s *ProductionCalendarSource) fetchMonthInfo(year int, month time.Month) (*MonthInfo, error) {
	// /get-period/{token}/{country}/{MM.YYYY}/json
	period := fmt.Sprintf("%02d.%d", month, year)
	url := fmt.Sprintf("%s/get-period/%s/%s/%s/json", s.apiURL, s.apiToken, s.country, period)

	s.logger.Debug("Fetching calendar data",
		zap.String("country", s.country),
		zap.String("period", period))

	resp, err := s.httpClient.Get(url)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch calendar data: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("API returned status %d", resp.StatusCode)
	}

	var apiResp productionCalendarResponse
	if err := json.NewDecoder(resp.Body).Decode(&apiResp); err != nil {
		return nil, fmt.Errorf("failed to parse API response: %w", err)
	}

	if apiResp.Status != "ok" {
		return nil, fmt.Errorf("API returned status: %s", apiResp.Status)
	}

	var days []productionDay
	if err := json.Unmarshal(apiResp.Days, &days); err != nil {
		var errorMsg string
		if err2 := json.Unmarshal(apiResp.Days, &errorMsg); err2 == nil {
			return nil, fmt.Errorf("API error: %s", errorMsg)
		}
		return nil, fmt.Errorf("failed to parse days: %w", err)
	}

	monthInfo := newMonthInfo(year, month)
	for _, apiDay := range days {
		date, err := time.Parse("02.01.2006", apiDay.Date)
		if err != nil {
			s.logger.Warn("Failed to parse date",
				zap.String("date", apiDay.Date),
				zap.Error(err))
			continue
		}

		monthInfo.add(DayInfo{
			Date:         date,
			Type:         DayType(apiDay.TypeID),
			WorkingHours: apiDay.WorkingHours,
			IsWorkday:    apiDay.WorkingHours > 0,
			Note:         apiDay.Note,
		})
	}

	// The API only lists notable days; the statistic block covers the whole month
	monthInfo.WorkingHours = apiResp.Statistic.WorkingHours
	monthInfo.WorkDays = apiResp.Statistic.WorkDays
	monthInfo.Weekends = apiResp.Statistic.Weekends
	monthInfo.Holidays = apiResp.Statistic.Holidays

	return monthInfo, nil
}

// ClearCache drops cached months
func (s *ProductionCalendarSource) ClearCache() {
	s.cache.clear()
	s.logger.Info("Calendar cache cleared")
}
