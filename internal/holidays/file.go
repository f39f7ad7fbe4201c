package holidays

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/username/gantt-calendar/pkg/dateutil"
	"go.uber.org/zap"
)

// FileSource reads working-day data from a local text file.
//
// Each line has the form
//
//	YYYY-MM-DD <workday|weekend|holiday|shortened> <hours> [note]
//
// Empty lines and lines starting with # are ignored.
type FileSource struct {
	filePath string
	logger   *zap.Logger
	data     map[string]*MonthInfo // key: "YYYY-MM"
}

// NewFileSource creates a new FileSource instance
func NewFileSource(filePath string, logger *zap.Logger) *FileSource {
	return &FileSource{
		filePath: filePath,
		logger:   logger,
		data:     make(map[string]*MonthInfo),
	}
}

// Load loads calendar data from file
func (fs *FileSource) Load() error {
	file, err := os.Open(fs.filePath)
	if err != nil {
		return fmt.Errorf("failed to open calendar file: %w", err)
	}
	defer file.Close()

	if err := fs.read(file); err != nil {
		return err
	}

	fs.logger.Info("Calendar file loaded",
		zap.String("file", fs.filePath),
		zap.Int("months", len(fs.data)))

	return nil
}

func (fs *FileSource) read(r io.Reader) error {
	data := make(map[string]*MonthInfo)
	scanner := bufio.NewScanner(r)

	for lineNo := 1; scanner.Scan(); lineNo++ {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		day, err := parseDayLine(line)
		if err != nil {
			fs.logger.Warn("Skipping calendar line",
				zap.Int("line", lineNo),
				zap.String("text", line),
				zap.Error(err))
			continue
		}

		key := monthKey(day.Date.Year(), day.Date.Month())
		monthInfo, ok := data[key]
		if !ok {
			monthInfo = newMonthInfo(day.Date.Year(), day.Date.Month())
			data[key] = monthInfo
		}
		monthInfo.add(day)
	}

	if err := scanner.Err(); err != nil {
		return fmt.Errorf("error reading calendar file: %w", err)
	}

	for _, monthInfo := range data {
		sort.Slice(monthInfo.Days, func(i, j int) bool {
			return monthInfo.Days[i].Date.Before(monthInfo.Days[j].Date)
		})
	}

	fs.data = data
	return nil
}

// parseDayLine parses "YYYY-MM-DD type hours [note]"
func parseDayLine(line string) (DayInfo, error) {
	parts := strings.Fields(line)
	if len(parts) < 3 {
		return DayInfo{}, fmt.Errorf("expected at least 3 fields, got %d", len(parts))
	}

	date, err := time.Parse(dateutil.DateLayout, parts[0])
	if err != nil {
		return DayInfo{}, fmt.Errorf("invalid date: %w", err)
	}

	dayType, err := ParseDayType(parts[1])
	if err != nil {
		return DayInfo{}, err
	}

	hours, err := strconv.Atoi(parts[2])
	if err != nil {
		return DayInfo{}, fmt.Errorf("invalid working hours: %w", err)
	}

	return DayInfo{
		Date:         date,
		Type:         dayType,
		WorkingHours: hours,
		IsWorkday:    dayType.IsWorking(),
		Note:         strings.Join(parts[3:], " "),
	}, nil
}

// GetMonthInfo returns calendar info for the entire month
func (fs *FileSource) GetMonthInfo(year int, month time.Month) (*MonthInfo, error) {
	monthInfo, ok := fs.data[monthKey(year, month)]
	if !ok {
		return nil, fmt.Errorf("%w: month %s not in %s", ErrNotFound, monthKey(year, month), fs.filePath)
	}

	return monthInfo, nil
}

// GetDayInfo returns detailed info for a specific day
func (fs *FileSource) GetDayInfo(date time.Time) (*DayInfo, error) {
	return dayFromMonth(fs, date)
}
