package timeline

import (
	"fmt"
	"time"

	"github.com/teambition/rrule-go"
)

var tickFrequencies = map[Granularity]rrule.Frequency{
	Day:   rrule.DAILY,
	Week:  rrule.WEEKLY,
	Month: rrule.MONTHLY,
	Year:  rrule.YEARLY,
}

// GenerateTicks walks from rng.Min floored to g's boundary towards rng.Max,
// one unit at a time, while the position is strictly before rng.Max. The
// last tick may start a partial period.
func GenerateTicks(rng VisibleRange, g Granularity) []Tick {
	freq, ok := tickFrequencies[g]
	if !ok {
		g = DefaultGranularity
		freq = tickFrequencies[g]
	}

	start := FloorTo(rng.Min, g)
	r, err := rrule.NewRRule(rrule.ROption{
		Freq:    freq,
		Dtstart: start,
		Wkst:    rrule.MO,
		Until:   rng.Max.Add(-time.Nanosecond),
	})
	if err != nil {
		return []Tick{newTick(start, g)}
	}

	var ticks []Tick
	for _, t := range r.All() {
		if !t.Before(rng.Max) {
			break
		}
		ticks = append(ticks, newTick(t, g))
	}
	return ticks
}

func newTick(t time.Time, g Granularity) Tick {
	return Tick{
		Key:    fmt.Sprintf("%s-%d", g, t.UnixMilli()),
		Label:  TickLabel(t, g),
		Anchor: t,
	}
}

// TickLabel formats a period start for display on the axis.
func TickLabel(t time.Time, g Granularity) string {
	switch g {
	case Day:
		return t.Format("Mon 02 Jan")
	case Month:
		return t.Format("Jan 2006")
	case Year:
		return t.Format("2006")
	default:
		_, week := t.ISOWeek()
		return fmt.Sprintf("W%02d · %s", week, t.Format("Jan 2"))
	}
}
