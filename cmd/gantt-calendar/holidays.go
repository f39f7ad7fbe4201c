package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"
	"github.com/username/gantt-calendar/internal/calendar"
	"github.com/username/gantt-calendar/internal/daemon"
	"github.com/username/gantt-calendar/internal/holidays"
	"go.uber.org/zap"
)

func holidaysCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "holidays",
		Short: "Work with the configured holiday source",
	}

	cmd.AddCommand(holidaysFetchCmd(), holidaysWatchCmd(), holidaysExportICSCmd())
	return cmd
}

func holidaysFetchCmd() *cobra.Command {
	var from, to, outPath string

	cmd := &cobra.Command{
		Use:   "fetch",
		Short: "Download holiday months into a JSON snapshot for offline use",
		RunE: func(cmd *cobra.Command, args []string) error {
			loc, err := cfg.Calendar.GetLocation()
			if err != nil {
				return err
			}
			start, end, err := holidayRange(loc, from, to)
			if err != nil {
				return err
			}

			weekend, err := cfg.Calendar.GetWeekendDays()
			if err != nil {
				return err
			}
			src, err := newHolidaySource(cfg, weekend)
			if err != nil {
				return err
			}
			if src == nil {
				return fmt.Errorf("holidays.source is not configured")
			}

			if err := ensureDir(outPath); err != nil {
				return err
			}
			snapshot := holidays.NewSnapshotSource(outPath, logger)
			if err := snapshot.Capture(src, start, end); err != nil {
				return err
			}
			if err := snapshot.Save(); err != nil {
				return err
			}

			fmt.Fprintf(out, "✅ Saved %d month(s) to %s\n", len(snapshot.Snapshot().Months), outPath)
			return nil
		},
	}

	cmd.Flags().StringVar(&from, "from", "", "First date (default holidays.from)")
	cmd.Flags().StringVar(&to, "to", "", "Last date (default holidays.to)")
	cmd.Flags().StringVar(&outPath, "out", "holidays.json", "Snapshot file")
	return cmd
}

func holidaysWatchCmd() *cobra.Command {
	var outPath string
	var interval time.Duration

	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Keep a holiday snapshot fresh until interrupted",
		RunE: func(cmd *cobra.Command, args []string) error {
			loc, err := cfg.Calendar.GetLocation()
			if err != nil {
				return err
			}
			weekend, err := cfg.Calendar.GetWeekendDays()
			if err != nil {
				return err
			}
			src, err := newHolidaySource(cfg, weekend)
			if err != nil {
				return err
			}
			if src == nil {
				return fmt.Errorf("holidays.source is not configured")
			}
			if err := ensureDir(outPath); err != nil {
				return err
			}

			if !cmd.Flags().Changed("interval") {
				interval = cfg.Holidays.GetRefreshInterval()
			}

			d := daemon.NewDaemon(src, holidays.NewSnapshotSource(outPath, logger),
				func(now time.Time) (time.Time, time.Time, error) {
					return cfg.Holidays.GetRange(now, loc)
				},
				interval, logger)
			return d.Start()
		},
	}

	cmd.Flags().StringVar(&outPath, "out", "holidays.json", "Snapshot file")
	cmd.Flags().DurationVar(&interval, "interval", 0, "Refresh interval (default holidays.refresh_interval)")
	return cmd
}

func holidaysExportICSCmd() *cobra.Command {
	var from, to, outPath string

	cmd := &cobra.Command{
		Use:   "export-ics",
		Short: "Export holidays and transferred working days as an iCalendar file",
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := setup(cfg, "")
			if err != nil {
				return err
			}
			if e.weekend == nil {
				return fmt.Errorf("calendar type %q has no holidays to export", cfg.Calendar.Type)
			}
			start, end, err := holidayRange(e.loc, from, to)
			if err != nil {
				return err
			}

			exceptions := exceptionsInRange(e.weekend.Exceptions(), start, end)

			var w io.Writer = out
			if outPath != "" && outPath != "-" {
				if err := ensureDir(outPath); err != nil {
					return err
				}
				f, err := os.OpenFile(outPath, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
				if err != nil {
					return fmt.Errorf("failed to open output file: %w", err)
				}
				defer f.Close()
				w = f
			}

			if err := holidays.ExportICS(w, exceptions); err != nil {
				return err
			}

			logger.Info("Holidays exported",
				zap.String("file", outPath),
				zap.Int("events", len(exceptions)))
			return nil
		},
	}

	cmd.Flags().StringVar(&from, "from", "", "First date (default holidays.from)")
	cmd.Flags().StringVar(&to, "to", "", "Last date (default holidays.to)")
	cmd.Flags().StringVar(&outPath, "out", "-", "Output file, - for stdout")
	return cmd
}

func holidayRange(loc *time.Location, from, to string) (time.Time, time.Time, error) {
	start, end, err := cfg.Holidays.GetRange(time.Now(), loc)
	if err != nil {
		return start, end, err
	}
	if from != "" {
		if start, err = parseDate(loc, "from", from); err != nil {
			return start, end, err
		}
	}
	if to != "" {
		if end, err = parseDate(loc, "to", to); err != nil {
			return start, end, err
		}
	}
	if end.Before(start) {
		return start, end, fmt.Errorf("%w: --to is before --from", calendar.ErrInvertedRange)
	}
	return start, end, nil
}

func exceptionsInRange(exceptions []calendar.Exception, from, to time.Time) []calendar.Exception {
	result := make([]calendar.Exception, 0, len(exceptions))
	for _, ex := range exceptions {
		if ex.Date.Before(from) || ex.Date.After(to) {
			continue
		}
		result = append(result, ex)
	}
	return result
}

func ensureDir(path string) error {
	dir := filepath.Dir(path)
	if dir == "." {
		return nil
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create directory %s: %w", dir, err)
	}
	return nil
}
