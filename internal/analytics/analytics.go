// Package analytics derives dashboard metrics from stored records.
package analytics

import (
	"math"
	"sort"
	"strconv"
	"time"

	"github.com/Flyrell/evdash/internal/record"
	"github.com/Flyrell/evdash/internal/timeline"
)

// DefaultUpcomingLimit caps the upcoming milestone list.
const DefaultUpcomingLimit = 10

// DefaultAverageHealth is reported when there are no projects.
const DefaultAverageHealth = 75

// Summary holds collection totals.
type Summary struct {
	Projects   int `json:"projects"`
	Teams      int `json:"teams"`
	Milestones int `json:"milestones"`
}

// StatusCounts holds the number of projects per known status.
type StatusCounts struct {
	InProgress int `json:"in_progress"`
	Completed  int `json:"completed"`
	OnHold     int `json:"on_hold"`
}

// Bucket is one slice of the maintenance-risk breakdown.
type Bucket struct {
	Name    string `json:"name"`
	Value   int    `json:"value"`
	Percent int    `json:"percent"`
	Color   string `json:"color"`
}

// TrendPoint is one labeled value of the health trend.
type TrendPoint struct {
	Label  string `json:"label"`
	Health int    `json:"health"`
}

// Summarize counts every collection in ds.
func Summarize(ds record.Dataset) Summary {
	return Summary{
		Projects:   len(ds.Projects),
		Teams:      len(ds.Teams),
		Milestones: len(ds.Milestones),
	}
}

// CountStatuses tallies projects by status. Unknown statuses are ignored.
func CountStatuses(projects []record.Project) StatusCounts {
	var c StatusCounts
	for _, p := range projects {
		switch p.Status {
		case record.StatusInProgress:
			c.InProgress++
		case record.StatusCompleted:
			c.Completed++
		case record.StatusOnHold:
			c.OnHold++
		}
	}
	return c
}

// RiskBuckets splits projects into healthy, monitor and at-risk groups.
// Projects with an unknown status are monitored.
func RiskBuckets(projects []record.Project) []Bucket {
	var healthy, monitor, atRisk int
	for _, p := range projects {
		switch p.Status {
		case record.StatusCompleted:
			healthy++
		case record.StatusOnHold:
			atRisk++
		default:
			monitor++
		}
	}

	total := healthy + monitor + atRisk
	if total == 0 {
		total = 1
	}
	pct := func(v int) int { return int(math.Round(float64(v) / float64(total) * 100)) }

	return []Bucket{
		{Name: "Healthy systems", Value: healthy, Percent: pct(healthy), Color: "#22c55e"},
		{Name: "Monitor closely", Value: monitor, Percent: pct(monitor), Color: "#facc15"},
		{Name: "At risk", Value: atRisk, Percent: pct(atRisk), Color: "#f97316"},
	}
}

// HealthScore maps a project status to a 0-100 score.
func HealthScore(status string) int {
	switch status {
	case record.StatusCompleted:
		return 100
	case record.StatusInProgress:
		return 80
	case record.StatusOnHold:
		return 40
	default:
		return 60
	}
}

// AverageHealth is the rounded mean health score of projects.
func AverageHealth(projects []record.Project) int {
	if len(projects) == 0 {
		return DefaultAverageHealth
	}
	sum := 0
	for _, p := range projects {
		sum += HealthScore(p.Status)
	}
	return int(math.Round(float64(sum) / float64(len(projects))))
}

// HealthTrend spreads avg over labels as a half-sine of amplitude 6,
// clamped to [40, 100].
func HealthTrend(avg int, labels []string) []TrendPoint {
	const amplitude = 6.0

	points := make([]TrendPoint, len(labels))
	for i, label := range labels {
		phase := 0.0
		if len(labels) > 1 {
			phase = float64(i) / float64(len(labels)-1) * math.Pi
		}
		offset := math.Sin(phase)*amplitude - amplitude/2
		value := math.Max(40, math.Min(100, float64(avg)+offset))
		points[i] = TrendPoint{Label: label, Health: int(math.Round(value))}
	}
	return points
}

// TrailingMonths returns n short month labels ending with now's month.
func TrailingMonths(now time.Time, n int) []string {
	labels := make([]string, n)
	first := timeline.StartOfMonth(now).AddDate(0, -(n - 1), 0)
	for i := range labels {
		labels[i] = first.AddDate(0, i, 0).Format("Jan")
	}
	return labels
}

// UpcomingMilestones returns at most limit upcoming milestones ordered by
// due date. Milestones without a parsable due date sort last. A limit of
// zero or less uses DefaultUpcomingLimit.
func UpcomingMilestones(milestones []record.Milestone, limit int) []record.Milestone {
	if limit <= 0 {
		limit = DefaultUpcomingLimit
	}

	var upcoming []record.Milestone
	for _, m := range milestones {
		if m.Status == record.MilestoneUpcoming {
			upcoming = append(upcoming, m)
		}
	}

	due := func(m record.Milestone) (time.Time, bool) {
		return timeline.ParseDate(m.DueDate, time.UTC)
	}
	sort.SliceStable(upcoming, func(i, j int) bool {
		a, okA := due(upcoming[i])
		b, okB := due(upcoming[j])
		if okA != okB {
			return okA
		}
		return a.Before(b)
	})

	if len(upcoming) > limit {
		upcoming = upcoming[:limit]
	}
	return upcoming
}

// TimelineRecords adapts projects to timeline input rows.
func TimelineRecords(projects []record.Project) []timeline.Record {
	records := make([]timeline.Record, len(projects))
	for i, p := range projects {
		name := p.Name
		if name == "" {
			name = "Project"
		}
		records[i] = timeline.Record{
			ID:     strconv.Itoa(p.ID),
			Name:   name,
			Start:  p.StartDate,
			End:    p.EndDate,
			Status: p.Status,
		}
	}
	return records
}
