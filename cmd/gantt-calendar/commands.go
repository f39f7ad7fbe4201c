package main

import (
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
	"github.com/username/gantt-calendar/internal/calendar"
	"github.com/username/gantt-calendar/internal/chart"
	"github.com/username/gantt-calendar/internal/schedule"
	"github.com/username/gantt-calendar/internal/timeunit"
	"github.com/username/gantt-calendar/pkg/dateutil"
	"go.uber.org/zap"
)

const instantLayout = "2006-01-02 15:04"

func durationCmd() *cobra.Command {
	var from, to, unit string

	cmd := &cobra.Command{
		Use:   "duration",
		Short: "Count working and non-working units between two instants",
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := setup(cfg, unit)
			if err != nil {
				return err
			}
			start, err := parseInstant(e, "from", from)
			if err != nil {
				return err
			}
			end, err := parseInstant(e, "to", to)
			if err != nil {
				return err
			}

			result, err := e.manager.Duration(start, end)
			if err != nil {
				return err
			}

			fmt.Fprintf(out, "Working:     %d %s (%s)\n", result.Working, e.unit.Name(),
				timeunit.FormatISO8601(result.WorkingDuration()))
			fmt.Fprintf(out, "Non-working: %d %s (%s)\n", result.NonWorking, e.unit.Name(),
				timeunit.FormatISO8601(result.NonWorkingDuration()))
			return nil
		},
	}

	cmd.Flags().StringVar(&from, "from", "", "Start instant (YYYY-MM-DD or YYYY-MM-DDTHH:MM)")
	cmd.Flags().StringVar(&to, "to", "", "End instant")
	cmd.Flags().StringVar(&unit, "unit", "", "Time unit: hour, day, week, month (default from config)")
	return cmd
}

func activitiesCmd() *cobra.Command {
	var from, to, unit string
	var count int

	cmd := &cobra.Command{
		Use:   "activities",
		Short: "Split a range into working and non-working spans",
		Long:  "Split [--from, --to) into spans, or list the spans covering --count working units from --from (negative walks backward)",
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := setup(cfg, unit)
			if err != nil {
				return err
			}
			start, err := parseInstant(e, "from", from)
			if err != nil {
				return err
			}

			var acts []calendar.Activity
			switch {
			case to != "" && cmd.Flags().Changed("count"):
				return fmt.Errorf("--to and --count are mutually exclusive")
			case to != "":
				end, err := parseInstant(e, "to", to)
				if err != nil {
					return err
				}
				acts, err = e.manager.Activities(start, end)
				if err != nil {
					return err
				}
			case cmd.Flags().Changed("count"):
				acts, err = e.manager.UnitActivities(start, count)
				if err != nil {
					return err
				}
			default:
				return fmt.Errorf("either --to or --count is required")
			}

			return renderActivities(out, e.unit, acts)
		},
	}

	cmd.Flags().StringVar(&from, "from", "", "Start instant")
	cmd.Flags().StringVar(&to, "to", "", "End instant")
	cmd.Flags().IntVar(&count, "count", 0, "Number of working units")
	cmd.Flags().StringVar(&unit, "unit", "", "Time unit (default from config)")
	return cmd
}

func nextWorkingCmd() *cobra.Command {
	var at string

	cmd := &cobra.Command{
		Use:   "next-working",
		Short: "Print the closest working instant at or after --at",
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := setup(cfg, "")
			if err != nil {
				return err
			}
			t, err := parseInstant(e, "at", at)
			if err != nil {
				return err
			}

			next, err := e.manager.NextWorkingTime(t)
			if err != nil {
				return err
			}
			fmt.Fprintln(out, next.Format(instantLayout))
			return nil
		},
	}

	cmd.Flags().StringVar(&at, "at", "", "Instant to start from")
	return cmd
}

func shiftCmd() *cobra.Command {
	var from, by string

	cmd := &cobra.Command{
		Use:   "shift",
		Short: "Move an instant by a working duration such as P3D or -PT4H",
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := setup(cfg, "")
			if err != nil {
				return err
			}
			start, err := parseInstant(e, "from", from)
			if err != nil {
				return err
			}
			d, err := timeunit.ParseISO8601(by)
			if err != nil {
				return fmt.Errorf("--by: %w", err)
			}

			shifted, err := e.manager.Shift(start, d)
			if err != nil {
				return err
			}
			fmt.Fprintln(out, shifted.Format(instantLayout))
			return nil
		},
	}

	cmd.Flags().StringVar(&from, "from", "", "Instant to shift")
	cmd.Flags().StringVar(&by, "by", "", "ISO-8601 duration, e.g. P5D, P2W, PT8H, -P1M")
	return cmd
}

func delayCmd() *cobra.Command {
	var predecessorEnd, successorStart, lag string

	cmd := &cobra.Command{
		Use:   "delay",
		Short: "Check a finish-to-start dependency between two tasks",
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := setup(cfg, "")
			if err != nil {
				return err
			}

			dep := schedule.Dependency{}
			if dep.PredecessorEnd, err = parseInstant(e, "predecessor-end", predecessorEnd); err != nil {
				return err
			}
			if dep.SuccessorStart, err = parseInstant(e, "successor-start", successorStart); err != nil {
				return err
			}
			if lag != "" {
				if dep.Lag, err = timeunit.ParseISO8601(lag); err != nil {
					return fmt.Errorf("--lag: %w", err)
				}
			}

			check, err := e.manager.CheckDependency(dep)
			if err != nil {
				return err
			}

			fmt.Fprintf(out, "Required start: %s\n", check.RequiredStart.Format(instantLayout))
			if !check.Violated {
				fmt.Fprintln(out, "✅ Dependency satisfied")
				return nil
			}
			fmt.Fprintf(out, "⚠️  Dependency violated, successor must move by %s\n",
				timeunit.FormatISO8601(check.Delay))
			return nil
		},
	}

	cmd.Flags().StringVar(&predecessorEnd, "predecessor-end", "", "End of the predecessor task")
	cmd.Flags().StringVar(&successorStart, "successor-start", "", "Start of the successor task")
	cmd.Flags().StringVar(&lag, "lag", "", "ISO-8601 working lag between the tasks")
	return cmd
}

func offsetsCmd() *cobra.Command {
	var from, unit string
	var units, unitWidth int
	var ratio float64

	cmd := &cobra.Command{
		Use:   "offsets",
		Short: "Lay out Gantt bar segments for a number of working units",
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := setup(cfg, unit)
			if err != nil {
				return err
			}
			start, err := parseInstant(e, "from", from)
			if err != nil {
				return err
			}

			if !cmd.Flags().Changed("unit-width") {
				unitWidth = cfg.Chart.GetUnitWidth()
			}
			if !cmd.Flags().Changed("non-working-ratio") {
				ratio = cfg.Chart.NonWorkingRatio
			}

			builder := chart.NewOffsetBuilder(e.calendar, e.unit, unitWidth, ratio)
			offsets, err := builder.Build(start, units)
			if err != nil {
				return err
			}

			logger.Debug("Offsets built",
				zap.Int("segments", len(offsets)),
				zap.Int("total_width", chart.TotalWidth(offsets)))

			rows := make([][]string, 0, len(offsets))
			for _, o := range offsets {
				rows = append(rows, []string{
					o.Start.Format(instantLayout),
					o.End.Format(instantLayout),
					workingLabel(o.Working),
					strconv.Itoa(o.Units),
					strconv.Itoa(o.OffsetPx),
					strconv.Itoa(o.Width),
				})
			}
			if err := renderTable(out, []string{"Start", "End", "Status", "Units", "Offset px", "Width px"}, rows); err != nil {
				return err
			}
			fmt.Fprintf(out, "Total width: %dpx\n", chart.TotalWidth(offsets))
			return nil
		},
	}

	cmd.Flags().StringVar(&from, "from", "", "Bar start")
	cmd.Flags().IntVar(&units, "units", 1, "Working units the bar covers")
	cmd.Flags().IntVar(&unitWidth, "unit-width", 0, "Pixel width of one working unit (default from config)")
	cmd.Flags().Float64Var(&ratio, "non-working-ratio", 0, "Non-working unit width relative to a working unit (default from config)")
	cmd.Flags().StringVar(&unit, "unit", "", "Time unit (default from config)")
	return cmd
}

func workdaysCmd() *cobra.Command {
	var from, to string

	cmd := &cobra.Command{
		Use:   "workdays",
		Short: "List working days between two dates, both inclusive",
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := setup(cfg, "")
			if err != nil {
				return err
			}
			start, err := parseInstant(e, "from", from)
			if err != nil {
				return err
			}
			end, err := parseInstant(e, "to", to)
			if err != nil {
				return err
			}

			days, err := e.manager.WorkingDays(start, end)
			if err != nil {
				return err
			}

			exceptions := map[string]calendar.Exception{}
			if e.weekend != nil {
				for _, ex := range e.weekend.Exceptions() {
					exceptions[dateutil.DayKey(ex.Date)] = ex
				}
			}

			rows := make([][]string, 0, len(days))
			for _, day := range days {
				rows = append(rows, []string{
					day.Format(dateutil.DateLayout),
					day.Weekday().String(),
					exceptions[dateutil.DayKey(day)].Note,
				})
			}
			if err := renderTable(out, []string{"Date", "Weekday", "Note"}, rows); err != nil {
				return err
			}
			fmt.Fprintf(out, "Working days: %d\n", len(days))
			return nil
		},
	}

	cmd.Flags().StringVar(&from, "from", "", "First date")
	cmd.Flags().StringVar(&to, "to", "", "Last date")
	return cmd
}

func renderActivities(w io.Writer, unit timeunit.TimeUnit, acts []calendar.Activity) error {
	rows := make([][]string, 0, len(acts))
	for _, a := range acts {
		rows = append(rows, []string{
			a.Start.Format(instantLayout),
			a.End.Format(instantLayout),
			workingLabel(a.Working),
			strconv.Itoa(timeunit.Count(unit, unit.AdjustLeft(a.Start), a.End)),
			a.Duration().Round(time.Minute).String(),
		})
	}
	return renderTable(w, []string{"Start", "End", "Status", unit.Name() + "s", "Wall clock"}, rows)
}

func renderTable(w io.Writer, header []string, rows [][]string) error {
	table := tablewriter.NewTable(w)
	table.Header(header)
	if err := table.Bulk(rows); err != nil {
		return fmt.Errorf("failed to add table rows: %w", err)
	}
	if err := table.Render(); err != nil {
		return fmt.Errorf("failed to render table: %w", err)
	}
	return nil
}

func workingLabel(working bool) string {
	if working {
		return "working"
	}
	return "non-working"
}
