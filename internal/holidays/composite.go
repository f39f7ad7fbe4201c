package holidays

import (
	"time"

	"go.uber.org/zap"
)

// CompositeSource asks the primary source first and the fallback when it fails
type CompositeSource struct {
	primary  Source
	fallback Source
	logger   *zap.Logger
}

// NewCompositeSource creates a new CompositeSource
func NewCompositeSource(primary, fallback Source, logger *zap.Logger) *CompositeSource {
	return &CompositeSource{
		primary:  primary,
		fallback: fallback,
		logger:   logger,
	}
}

// GetMonthInfo returns calendar info for the entire month
func (cs *CompositeSource) GetMonthInfo(year int, month time.Month) (*MonthInfo, error) {
	monthInfo, err := cs.primary.GetMonthInfo(year, month)
	if err == nil {
		return monthInfo, nil
	}

	cs.logger.Warn("Primary holiday source failed, using fallback",
		zap.Int("year", year),
		zap.Int("month", int(month)),
		zap.Error(err))

	return cs.fallback.GetMonthInfo(year, month)
}

// GetDayInfo returns detailed info for a specific day
func (cs *CompositeSource) GetDayInfo(date time.Time) (*DayInfo, error) {
	dayInfo, err := cs.primary.GetDayInfo(date)
	if err == nil {
		return dayInfo, nil
	}

	cs.logger.Warn("Primary holiday source failed, using fallback",
		zap.Time("date", date),
		zap.Error(err))

	return cs.fallback.GetDayInfo(date)
}
