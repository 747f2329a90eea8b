package timeline

import "strings"

// Granularity is the axis unit of a timeline.
type Granularity string

const (
	Day   Granularity = "day"
	Week  Granularity = "week"
	Month Granularity = "month"
	Year  Granularity = "year"
)

// DefaultGranularity is used when no granularity (or an unknown one) is requested.
const DefaultGranularity = Week

// Granularities lists all supported granularities from finest to coarsest.
var Granularities = []Granularity{Day, Week, Month, Year}

// ParseGranularity maps a user-supplied name to a Granularity.
// Empty or unrecognized input yields DefaultGranularity.
func ParseGranularity(s string) Granularity {
	switch Granularity(strings.TrimSpace(strings.ToLower(s))) {
	case Day:
		return Day
	case Week:
		return Week
	case Month:
		return Month
	case Year:
		return Year
	}
	return DefaultGranularity
}

func (g Granularity) String() string { return string(g) }
