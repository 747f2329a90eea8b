// Package export renders dashboard data as CSV, iCalendar, PDF, HTML and
// JSON documents.
package export

import (
	"errors"
	"strings"
	"time"

	"github.com/Flyrell/evdash/internal/analytics"
	"github.com/Flyrell/evdash/internal/record"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Default output file names per format.
const (
	DefaultCSVName  = "projects_report.csv"
	DefaultPDFName  = "projects_report.pdf"
	DefaultHTMLName = "projects_report.html"
	DefaultJSONName = "projects_report.json"
	DefaultICSName  = "milestones.ics"
)

// ErrNoProjects is returned when a project export has nothing to write.
var ErrNoProjects = errors.New("no projects to export")

// ErrNoMilestones is returned when no milestone has a usable due date.
var ErrNoMilestones = errors.New("no milestones to export")

// Report is the analytics snapshot shared by every report format.
type Report struct {
	GeneratedAt   time.Time              `json:"generatedAt"`
	Summary       analytics.Summary      `json:"summary"`
	Counts        analytics.StatusCounts `json:"statusCounts"`
	Buckets       []analytics.Bucket     `json:"riskBuckets"`
	AverageHealth int                    `json:"averageHealth"`
	Trend         []analytics.TrendPoint `json:"healthTrend"`
	Upcoming      []record.Milestone     `json:"upcomingMilestones"`
	Projects      []record.Project       `json:"projects"`
}

// BuildReport derives a Report from a dataset snapshot.
func BuildReport(ds record.Dataset, now time.Time) Report {
	avg := analytics.AverageHealth(ds.Projects)
	projects := ds.Projects
	if projects == nil {
		projects = []record.Project{}
	}
	upcoming := analytics.UpcomingMilestones(ds.Milestones, analytics.DefaultUpcomingLimit)
	if upcoming == nil {
		upcoming = []record.Milestone{}
	}
	return Report{
		GeneratedAt:   now,
		Summary:       analytics.Summarize(ds),
		Counts:        analytics.CountStatuses(ds.Projects),
		Buckets:       analytics.RiskBuckets(ds.Projects),
		AverageHealth: avg,
		Trend:         analytics.HealthTrend(avg, analytics.TrailingMonths(now, 6)),
		Upcoming:      upcoming,
		Projects:      projects,
	}
}

var titleCaser = cases.Title(language.English)

// StatusLabel turns a status value such as "on_hold" into "On Hold".
func StatusLabel(status string) string {
	if status == "" {
		return "-"
	}
	return titleCaser.String(strings.ReplaceAll(status, "_", " "))
}

func orDash(s string) string {
	if strings.TrimSpace(s) == "" {
		return "-"
	}
	return s
}
