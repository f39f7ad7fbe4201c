package holidays

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"time"

	"github.com/username/gantt-calendar/pkg/dateutil"
	"go.uber.org/zap"
)

// Snapshot is a set of months fetched from a source, stored for offline use
type Snapshot struct {
	From      string       `json:"from"`
	To        string       `json:"to"`
	CreatedAt string       `json:"created_at"`
	Months    []*MonthInfo `json:"months"`
}

// SnapshotSource serves month data from a JSON snapshot file
type SnapshotSource struct {
	filePath string
	snapshot *Snapshot
	months   map[string]*MonthInfo // key: "YYYY-MM"
	logger   *zap.Logger
}

// NewSnapshotSource creates a snapshot source backed by filePath
func NewSnapshotSource(filePath string, logger *zap.Logger) *SnapshotSource {
	return &SnapshotSource{
		filePath: filePath,
		snapshot: &Snapshot{},
		months:   make(map[string]*MonthInfo),
		logger:   logger,
	}
}

// Capture fetches every month touching [from, to] from src into the snapshot
func (ss *SnapshotSource) Capture(src Source, from, to time.Time) error {
	if to.Before(from) {
		return fmt.Errorf("invalid range: %s is after %s",
			from.Format(dateutil.DateLayout), to.Format(dateutil.DateLayout))
	}

	snapshot := &Snapshot{
		From:      from.Format(dateutil.DateLayout),
		To:        to.Format(dateutil.DateLayout),
		CreatedAt: time.Now().Format(time.RFC3339),
	}

	for month := dateutil.StartOfMonth(from); !month.After(to); month = month.AddDate(0, 1, 0) {
		monthInfo, err := src.GetMonthInfo(month.Year(), month.Month())
		if err != nil {
			return fmt.Errorf("failed to fetch %s: %w", monthKey(month.Year(), month.Month()), err)
		}
		snapshot.Months = append(snapshot.Months, monthInfo)
	}

	ss.set(snapshot)
	ss.logger.Info("Holiday snapshot captured",
		zap.String("from", snapshot.From),
		zap.String("to", snapshot.To),
		zap.Int("months", len(snapshot.Months)))

	return nil
}

// Load loads the snapshot from file
func (ss *SnapshotSource) Load() error {
	data, err := os.ReadFile(ss.filePath)
	if err != nil {
		return fmt.Errorf("failed to read snapshot file: %w", err)
	}

	var snapshot Snapshot
	if err := json.Unmarshal(data, &snapshot); err != nil {
		return fmt.Errorf("failed to parse snapshot file: %w", err)
	}

	ss.set(&snapshot)
	ss.logger.Info("Holiday snapshot loaded",
		zap.String("file", ss.filePath),
		zap.Int("months", len(snapshot.Months)))

	return nil
}

// Save saves the snapshot to file
func (ss *SnapshotSource) Save() error {
	data, err := json.MarshalIndent(ss.snapshot, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal snapshot: %w", err)
	}

	if err := os.WriteFile(ss.filePath, data, 0644); err != nil {
		return fmt.Errorf("failed to write snapshot file: %w", err)
	}

	ss.logger.Info("Holiday snapshot saved",
		zap.String("file", ss.filePath),
		zap.Int("months", len(ss.snapshot.Months)))

	return nil
}

// Snapshot returns the current snapshot
func (ss *SnapshotSource) Snapshot() *Snapshot {
	return ss.snapshot
}

func (ss *SnapshotSource) set(snapshot *Snapshot) {
	sort.Slice(snapshot.Months, func(i, j int) bool {
		a, b := snapshot.Months[i], snapshot.Months[j]
		return a.Year < b.Year || (a.Year == b.Year && a.Month < b.Month)
	})

	months := make(map[string]*MonthInfo, len(snapshot.Months))
	for _, m := range snapshot.Months {
		months[monthKey(m.Year, m.Month)] = m
	}

	ss.snapshot = snapshot
	ss.months = months
}

// GetMonthInfo returns calendar info for the entire month
func (ss *SnapshotSource) GetMonthInfo(year int, month time.Month) (*MonthInfo, error) {
	monthInfo, ok := ss.months[monthKey(year, month)]
	if !ok {
		return nil, fmt.Errorf("%w: month %s not in snapshot", ErrNotFound, monthKey(year, month))
	}
	return monthInfo, nil
}

// GetDayInfo returns detailed info for a specific day
func (ss *SnapshotSource) GetDayInfo(date time.Time) (*DayInfo, error) {
	return dayFromMonth(ss, date)
}
