package chart

import (
	"fmt"
	"math"
	"time"

	"github.com/username/gantt-calendar/internal/calendar"
	"github.com/username/gantt-calendar/internal/timeunit"
)

// Offset is the horizontal placement of one activity on the chart
type Offset struct {
	Start    time.Time
	End      time.Time
	Working  bool
	Units    int
	Width    int // px
	OffsetPx int // left edge, relative to the first offset
}

// OffsetBuilder lays out activities on a Gantt chart timeline. Working
// units are unitWidth pixels wide, non-working units are compressed by
// nonWorkingRatio.
type OffsetBuilder struct {
	calendar        calendar.Calendar
	unit            timeunit.TimeUnit
	unitWidth       int
	nonWorkingRatio float64
}

// NewOffsetBuilder creates a new offset builder
func NewOffsetBuilder(cal calendar.Calendar, unit timeunit.TimeUnit, unitWidth int, nonWorkingRatio float64) *OffsetBuilder {
	return &OffsetBuilder{
		calendar:        cal,
		unit:            unit,
		unitWidth:       unitWidth,
		nonWorkingRatio: math.Max(0, math.Min(1, nonWorkingRatio)),
	}
}

// Build returns one offset per activity covering units working units from start
func (b *OffsetBuilder) Build(start time.Time, units int) ([]Offset, error) {
	acts, err := b.calendar.UnitActivities(start, b.unit, units)
	if err != nil {
		return nil, fmt.Errorf("failed to build offsets: %w", err)
	}
	return b.Layout(acts), nil
}

// Layout converts activities into offsets
func (b *OffsetBuilder) Layout(acts []calendar.Activity) []Offset {
	offsets := make([]Offset, 0, len(acts))
	px := 0

	for _, a := range acts {
		units := timeunit.Count(b.unit, b.unit.AdjustLeft(a.Start), a.End)
		width := units * b.unitWidth
		if !a.Working {
			width = int(math.Round(float64(width) * b.nonWorkingRatio))
		}

		offsets = append(offsets, Offset{
			Start:    a.Start,
			End:      a.End,
			Working:  a.Working,
			Units:    units,
			Width:    width,
			OffsetPx: px,
		})
		px += width
	}

	return offsets
}

// TotalWidth returns the width of the laid out chart
func TotalWidth(offsets []Offset) int {
	if len(offsets) == 0 {
		return 0
	}
	last := offsets[len(offsets)-1]
	return last.OffsetPx + last.Width
}
