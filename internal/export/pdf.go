package export

import (
	"fmt"
	"strconv"

	"github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/line"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/consts/pagesize"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"
)

var (
	pdfHeaderColor = props.Color{Red: 30, Green: 41, Blue: 59}
	pdfMutedColor  = props.Color{Red: 100, Green: 116, Blue: 139}
	pdfLineColor   = props.Color{Red: 203, Green: 213, Blue: 225}
)

// RenderReportPDF writes r as an A4 PDF to path.
func RenderReportPDF(r Report, path string) error {
	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(15).
		WithTopMargin(15).
		WithRightMargin(15).
		Build()

	m := maroto.New(cfg)

	m.AddRow(14,
		text.NewCol(12, "EV Dashboard report", props.Text{
			Style: fontstyle.Bold,
			Size:  16,
			Color: &pdfHeaderColor,
		}),
	)
	m.AddRow(8,
		text.NewCol(12, "Generated "+r.GeneratedAt.Format("2 January 2006 15:04"), props.Text{
			Size:  10,
			Color: &pdfMutedColor,
		}),
	)
	m.AddRow(4, line.NewCol(12, props.Line{Color: &pdfLineColor}))
	m.AddRow(4)

	addSection(m, "Summary")
	addPair(m, "Projects", strconv.Itoa(r.Summary.Projects))
	addPair(m, "Teams", strconv.Itoa(r.Summary.Teams))
	addPair(m, "Milestones", strconv.Itoa(r.Summary.Milestones))
	addPair(m, "Average health", fmt.Sprintf("%d%%", r.AverageHealth))
	m.AddRow(4)

	addSection(m, "Project status")
	addPair(m, StatusLabel("in_progress"), strconv.Itoa(r.Counts.InProgress))
	addPair(m, StatusLabel("completed"), strconv.Itoa(r.Counts.Completed))
	addPair(m, StatusLabel("on_hold"), strconv.Itoa(r.Counts.OnHold))
	m.AddRow(4)

	addSection(m, "Maintenance risk")
	for _, b := range r.Buckets {
		addPair(m, b.Name, fmt.Sprintf("%d (%d%%)", b.Value, b.Percent))
	}
	m.AddRow(4)

	addSection(m, "Projects")
	if len(r.Projects) == 0 {
		m.AddRow(6, text.NewCol(12, "No projects.", props.Text{Size: 9, Color: &pdfMutedColor}))
	} else {
		bold := props.Text{Style: fontstyle.Bold, Size: 9}
		m.AddRow(7,
			text.NewCol(3, "Name", bold),
			text.NewCol(3, "Team", bold),
			text.NewCol(2, "Status", bold),
			text.NewCol(2, "Start", bold),
			text.NewCol(2, "End", bold),
		)
		cell := props.Text{Size: 9}
		for _, p := range r.Projects {
			m.AddRow(6,
				text.NewCol(3, orDash(p.Name), cell),
				text.NewCol(3, orDash(p.Team), cell),
				text.NewCol(2, StatusLabel(p.Status), cell),
				text.NewCol(2, orDash(p.StartDate), cell),
				text.NewCol(2, orDash(p.EndDate), cell),
			)
		}
	}
	m.AddRow(4)

	addSection(m, "Upcoming milestones")
	if len(r.Upcoming) == 0 {
		m.AddRow(6, text.NewCol(12, "No upcoming milestones.", props.Text{Size: 9, Color: &pdfMutedColor}))
	}
	for _, ms := range r.Upcoming {
		addPair(m, ms.Title, orDash(ms.DueDate))
	}

	doc, err := m.Generate()
	if err != nil {
		return fmt.Errorf("generating PDF: %w", err)
	}
	return doc.Save(path)
}

func addSection(m core.Maroto, title string) {
	m.AddRow(8,
		text.NewCol(12, title, props.Text{
			Style: fontstyle.Bold,
			Size:  11,
			Color: &pdfHeaderColor,
		}),
	)
}

func addPair(m core.Maroto, label, value string) {
	m.AddRow(6,
		text.NewCol(9, "  "+label, props.Text{Size: 9}),
		text.NewCol(3, value, props.Text{Size: 9, Align: align.Right}),
	)
}
