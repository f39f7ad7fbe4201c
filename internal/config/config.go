package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
	"github.com/username/gantt-calendar/internal/timeunit"
	"github.com/username/gantt-calendar/pkg/dateutil"
	"go.uber.org/zap/zapcore"
)

const envPrefix = "GANTTCAL"

// Config represents application configuration
type Config struct {
	Calendar CalendarConfig `mapstructure:"calendar"`
	Holidays HolidaysConfig `mapstructure:"holidays"`
	Walker   WalkerConfig   `mapstructure:"walker"`
	Chart    ChartConfig    `mapstructure:"chart"`
	Log      LogConfig      `mapstructure:"log"`
}

// CalendarConfig describes the working-time calendar
type CalendarConfig struct {
	Type          string   `mapstructure:"type"`    // "weekend" or "always-working"
	Weekend       []string `mapstructure:"weekend"` // weekday names, default saturday+sunday
	TimeUnit      string   `mapstructure:"time_unit"`
	Location      string   `mapstructure:"location"` // IANA zone, default Local
	MaxSearchDays int      `mapstructure:"max_search_days"`
}

// HolidaysConfig describes where holiday exceptions come from
type HolidaysConfig struct {
	Source          string `mapstructure:"source"` // none, file, ics, isdayoff, production-calendar, snapshot
	File            string `mapstructure:"file"`
	FallbackFile    string `mapstructure:"fallback_file"` // used when the HTTP source fails
	APIURL          string `mapstructure:"api_url"`
	FallbackURL     string `mapstructure:"fallback_url"` // xmlcalendar.ru for isdayoff
	APIToken        string `mapstructure:"api_token"`
	Country         string `mapstructure:"country"`
	CacheTTL        string `mapstructure:"cache_ttl"`
	RefreshInterval string `mapstructure:"refresh_interval"` // holidays watch
	From            string `mapstructure:"from"`             // YYYY-MM-DD, default: start of current year
	To              string `mapstructure:"to"`               // YYYY-MM-DD, default: end of next year
}

// WalkerConfig bounds time walks
type WalkerConfig struct {
	MaxSteps int `mapstructure:"max_steps"`
}

// ChartConfig configures Gantt bar offsets
type ChartConfig struct {
	UnitWidth       int     `mapstructure:"unit_width"`
	NonWorkingRatio float64 `mapstructure:"non_working_ratio"`
}

// LogConfig configures logging
type LogConfig struct {
	File  string `mapstructure:"file"`
	Level string `mapstructure:"level"`
}

const (
	CalendarTypeWeekend       = "weekend"
	CalendarTypeAlwaysWorking = "always-working"

	HolidaySourceNone               = "none"
	HolidaySourceFile               = "file"
	HolidaySourceICS                = "ics"
	HolidaySourceIsDayOff           = "isdayoff"
	HolidaySourceProductionCalendar = "production-calendar"
	HolidaySourceSnapshot           = "snapshot"
)

func setDefaults(v *viper.Viper) {
	v.SetDefault("calendar.type", CalendarTypeWeekend)
	v.SetDefault("calendar.weekend", []string{"saturday", "sunday"})
	v.SetDefault("calendar.time_unit", "day")
	v.SetDefault("calendar.location", "")
	v.SetDefault("calendar.max_search_days", 0)
	v.SetDefault("holidays.source", HolidaySourceNone)
	v.SetDefault("holidays.file", "")
	v.SetDefault("holidays.fallback_file", "")
	v.SetDefault("holidays.api_url", "")
	v.SetDefault("holidays.fallback_url", "")
	v.SetDefault("holidays.api_token", "")
	v.SetDefault("holidays.country", "ru")
	v.SetDefault("holidays.cache_ttl", "24h")
	v.SetDefault("holidays.refresh_interval", "24h")
	v.SetDefault("holidays.from", "")
	v.SetDefault("holidays.to", "")
	v.SetDefault("walker.max_steps", 0)
	v.SetDefault("chart.unit_width", 20)
	v.SetDefault("chart.non_working_ratio", 0.5)
	v.SetDefault("log.file", "")
	v.SetDefault("log.level", "info")
}

// Load loads configuration from file. With an empty path the usual
// locations are searched and a missing file leaves the defaults in place.
// Every key can be overridden by GANTTCAL_<SECTION>_<KEY> variables.
func Load(configPath string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("$HOME/.gantt-calendar")
		v.AddConfigPath("/etc/gantt-calendar")
	}

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if configPath != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	config.ExpandEnvVars()

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &config, nil
}

// Validate validates the configuration
func (c *Config) Validate() error {
	switch c.Calendar.Type {
	case "", CalendarTypeWeekend, CalendarTypeAlwaysWorking:
	default:
		return fmt.Errorf("calendar.type must be '%s' or '%s', got '%s'",
			CalendarTypeWeekend, CalendarTypeAlwaysWorking, c.Calendar.Type)
	}
	if _, err := c.Calendar.GetWeekendDays(); err != nil {
		return fmt.Errorf("calendar.weekend: %w", err)
	}
	if _, err := c.Calendar.GetTimeUnit(); err != nil {
		return fmt.Errorf("calendar.time_unit: %w", err)
	}
	if _, err := c.Calendar.GetLocation(); err != nil {
		return fmt.Errorf("calendar.location: %w", err)
	}
	if c.Calendar.MaxSearchDays < 0 {
		return fmt.Errorf("calendar.max_search_days must not be negative")
	}

	switch c.Holidays.Source {
	case "", HolidaySourceNone, HolidaySourceIsDayOff:
	case HolidaySourceFile, HolidaySourceICS, HolidaySourceSnapshot:
		if c.Holidays.File == "" {
			return fmt.Errorf("holidays.file is required for %s source", c.Holidays.Source)
		}
	case HolidaySourceProductionCalendar:
		if c.Holidays.APIToken == "" {
			return fmt.Errorf("holidays.api_token is required for production-calendar source")
		}
	default:
		return fmt.Errorf("holidays.source must be one of none, file, ics, isdayoff, production-calendar, snapshot, got '%s'",
			c.Holidays.Source)
	}

	loc, _ := c.Calendar.GetLocation()
	if _, _, err := c.Holidays.GetRange(time.Now(), loc); err != nil {
		return fmt.Errorf("holidays range: %w", err)
	}

	if c.Walker.MaxSteps < 0 {
		return fmt.Errorf("walker.max_steps must not be negative")
	}
	if c.Chart.UnitWidth < 0 {
		return fmt.Errorf("chart.unit_width must not be negative")
	}
	if c.Chart.NonWorkingRatio < 0 || c.Chart.NonWorkingRatio > 1 {
		return fmt.Errorf("chart.non_working_ratio must be between 0 and 1")
	}

	if _, err := zapcore.ParseLevel(c.Log.GetLevel()); err != nil {
		return fmt.Errorf("log.level: %w", err)
	}

	return nil
}

// GetWeekendDays returns the configured weekend, Saturday and Sunday by default.
// An explicitly empty list means a seven-day working week.
func (c *CalendarConfig) GetWeekendDays() ([]time.Weekday, error) {
	if c.Weekend == nil {
		return []time.Weekday{time.Saturday, time.Sunday}, nil
	}

	days := make([]time.Weekday, 0, len(c.Weekend))
	for _, name := range c.Weekend {
		d, err := dateutil.ParseWeekday(name)
		if err != nil {
			return nil, err
		}
		days = append(days, d)
	}
	return days, nil
}

// GetTimeUnit returns the configured time unit, day by default
func (c *CalendarConfig) GetTimeUnit() (timeunit.TimeUnit, error) {
	return timeunit.ByName(c.TimeUnit)
}

// GetLocation returns the configured time zone, time.Local by default
func (c *CalendarConfig) GetLocation() (*time.Location, error) {
	if c.Location == "" {
		return time.Local, nil
	}
	return time.LoadLocation(c.Location)
}

// GetMaxSearchDays returns the look-ahead bound for the next working day
func (c *CalendarConfig) GetMaxSearchDays() int {
	if c.MaxSearchDays <= 0 {
		return 3660
	}
	return c.MaxSearchDays
}

// GetCacheTTL returns cache TTL duration
func (c *HolidaysConfig) GetCacheTTL() time.Duration {
	if c.CacheTTL == "" {
		return 24 * time.Hour
	}
	duration, err := time.ParseDuration(c.CacheTTL)
	if err != nil || duration <= 0 {
		return 24 * time.Hour
	}
	return duration
}

// GetRefreshInterval returns how often holidays watch re-captures the snapshot
func (c *HolidaysConfig) GetRefreshInterval() time.Duration {
	duration, err := time.ParseDuration(c.RefreshInterval)
	if err != nil || duration <= 0 {
		return 24 * time.Hour
	}
	return duration
}

// GetRange returns the date range holidays are loaded for. The default
// spans the current and the next calendar year.
func (c *HolidaysConfig) GetRange(now time.Time, loc *time.Location) (from, to time.Time, err error) {
	now = now.In(loc)
	from = time.Date(now.Year(), time.January, 1, 0, 0, 0, 0, loc)
	to = time.Date(now.Year()+1, time.December, 31, 0, 0, 0, 0, loc)

	if c.From != "" {
		if from, err = time.ParseInLocation(dateutil.DateLayout, c.From, loc); err != nil {
			return from, to, fmt.Errorf("invalid holidays.from: %w", err)
		}
	}
	if c.To != "" {
		if to, err = time.ParseInLocation(dateutil.DateLayout, c.To, loc); err != nil {
			return from, to, fmt.Errorf("invalid holidays.to: %w", err)
		}
	}
	if to.Before(from) {
		return from, to, fmt.Errorf("holidays.to %s is before holidays.from %s",
			to.Format(dateutil.DateLayout), from.Format(dateutil.DateLayout))
	}
	return from, to, nil
}

// GetMaxSteps returns the walk step budget, 0 selects the engine default
func (c *WalkerConfig) GetMaxSteps() int {
	if c.MaxSteps < 0 {
		return 0
	}
	return c.MaxSteps
}

// GetUnitWidth returns the pixel width of one working unit
func (c *ChartConfig) GetUnitWidth() int {
	if c.UnitWidth <= 0 {
		return 20
	}
	return c.UnitWidth
}

// GetLevel returns the log level name, info by default
func (c *LogConfig) GetLevel() string {
	if c.Level == "" {
		return "info"
	}
	return c.Level
}

// ExpandEnvVars expands environment variables in config strings
func (c *Config) ExpandEnvVars() {
	c.Holidays.APIToken = os.ExpandEnv(c.Holidays.APIToken)
	c.Holidays.File = os.ExpandEnv(c.Holidays.File)
	c.Holidays.FallbackFile = os.ExpandEnv(c.Holidays.FallbackFile)
	c.Log.File = os.ExpandEnv(c.Log.File)
}
