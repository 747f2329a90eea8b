// Package timeline turns date-ranged records into a Gantt view model: a
// visible range, granularity-aligned axis ticks and percentage-placed bars.
//
// Everything here is a pure function of its inputs. Malformed records are
// silently excluded and nothing is logged; callers decide what to report.
package timeline

import (
	"math"
	"time"
)

const (
	// RangePaddingDays is added before the earliest start and after the latest end.
	RangePaddingDays = 2
	// EmptyRangeDays is the width of the default window when there is nothing to show.
	EmptyRangeDays = 14
	// MinBarWidthPercent keeps single-day bars visible on long ranges.
	MinBarWidthPercent = 0.3
)

// Record is a source row as delivered by the data layer.
type Record struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Start  string `json:"start"`
	End    string `json:"end"`
	Status string `json:"status"`
}

// Interval is a validated, day-aligned span for one record. End >= Start.
type Interval struct {
	ID        string
	Label     string
	Start     time.Time
	End       time.Time
	ColorHint string
}

// VisibleRange is the padded span covered by the axis. Max > Min.
type VisibleRange struct {
	Min time.Time `json:"min"`
	Max time.Time `json:"max"`
}

// Tick is one labeled axis marker at a period boundary.
type Tick struct {
	Key    string    `json:"key"`
	Label  string    `json:"label"`
	Anchor time.Time `json:"anchorDate"`
}

// Bar is the horizontal placement of one interval relative to the range.
type Bar struct {
	ID           string    `json:"id"`
	Label        string    `json:"label"`
	LeftPercent  float64   `json:"leftPercent"`
	EndPercent   float64   `json:"endPercent"`
	WidthPercent float64   `json:"widthPercent"`
	ColorHint    string    `json:"colorHint,omitempty"`
	Start        time.Time `json:"start"`
	End          time.Time `json:"end"`
}

// ViewModel is everything a renderer needs to paint a timeline.
type ViewModel struct {
	Granularity Granularity  `json:"granularity"`
	Range       VisibleRange `json:"visibleRange"`
	Ticks       []Tick       `json:"ticks"`
	Bars        []Bar        `json:"bars"`
}

// Build normalizes records, computes the visible range, generates ticks for
// g and places one bar per valid record. now anchors the default range and
// supplies the location used for parsing dates.
func Build(records []Record, g Granularity, now time.Time) ViewModel {
	if g != Day && g != Week && g != Month && g != Year {
		g = DefaultGranularity
	}

	intervals := Normalize(records, now.Location())
	rng := ComputeRange(intervals, now)

	return ViewModel{
		Granularity: g,
		Range:       rng,
		Ticks:       GenerateTicks(rng, g),
		Bars:        Place(intervals, rng),
	}
}

// Normalize validates records into intervals. A record whose start cannot be
// parsed is dropped. A missing or unparsable end collapses the interval to
// the start day, and an end before the start is clamped to the start day.
func Normalize(records []Record, loc *time.Location) []Interval {
	if loc == nil {
		loc = time.UTC
	}

	intervals := make([]Interval, 0, len(records))
	for _, r := range records {
		start, ok := ParseDate(r.Start, loc)
		if !ok {
			continue
		}
		start = start.In(loc)

		end, ok := ParseDate(r.End, loc)
		if !ok {
			end = start
		}
		end = end.In(loc)

		iv := Interval{
			ID:        r.ID,
			Label:     r.Name,
			Start:     StartOfDay(start),
			End:       EndOfDay(end),
			ColorHint: ColorForStatus(r.Status),
		}
		if iv.End.Before(iv.Start) {
			iv.End = EndOfDay(iv.Start)
		}
		intervals = append(intervals, iv)
	}
	return intervals
}

// ComputeRange returns the padded span of intervals, or a two-week window
// starting today when intervals is empty.
func ComputeRange(intervals []Interval, now time.Time) VisibleRange {
	if len(intervals) == 0 {
		today := StartOfDay(now)
		return VisibleRange{Min: today, Max: today.AddDate(0, 0, EmptyRangeDays)}
	}

	minStart := intervals[0].Start
	maxEnd := intervals[0].End
	for _, iv := range intervals[1:] {
		if iv.Start.Before(minStart) {
			minStart = iv.Start
		}
		if iv.End.After(maxEnd) {
			maxEnd = iv.End
		}
	}

	return VisibleRange{
		Min: StartOfDay(minStart.AddDate(0, 0, -RangePaddingDays)),
		Max: EndOfDay(maxEnd.AddDate(0, 0, RangePaddingDays)),
	}
}

// TotalMillis is the range width in milliseconds, never less than one.
func (r VisibleRange) TotalMillis() float64 {
	return math.Max(1, float64(r.Max.Sub(r.Min))/float64(time.Millisecond))
}

// Percent is the position of t inside the range, clamped to [0, 100].
func (r VisibleRange) Percent(t time.Time) float64 {
	total := r.TotalMillis()
	offset := float64(t.Sub(r.Min)) / float64(time.Millisecond)
	offset = math.Min(math.Max(offset, 0), total)
	return 100 * offset / total
}

// Place computes bar geometry for each interval.
func Place(intervals []Interval, rng VisibleRange) []Bar {
	bars := make([]Bar, 0, len(intervals))
	for _, iv := range intervals {
		left := rng.Percent(iv.Start)
		end := rng.Percent(iv.End)
		bars = append(bars, Bar{
			ID:           iv.ID,
			Label:        iv.Label,
			LeftPercent:  left,
			EndPercent:   end,
			WidthPercent: math.Max(end-left, MinBarWidthPercent),
			ColorHint:    iv.ColorHint,
			Start:        iv.Start,
			End:          iv.End,
		})
	}
	return bars
}

// ColorForStatus maps a project status to a bar color.
func ColorForStatus(status string) string {
	switch status {
	case "completed":
		return "#dcfce7"
	case "on_hold":
		return "#fef9c3"
	default:
		return "#c7d2fe"
	}
}
