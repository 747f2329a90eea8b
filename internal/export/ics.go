package export

import (
	"fmt"
	"io"
	"time"

	"github.com/Flyrell/evdash/internal/record"
	"github.com/Flyrell/evdash/internal/timeline"
	"github.com/emersion/go-ical"
)

const (
	icsProdID   = "-//evdash//Milestones//EN"
	icsCalName  = "EV milestones"
	icsUIDHost  = "evdash"
	icsStatusOK = "CONFIRMED"
)

// WriteMilestonesICS writes one all-day event per milestone with a parsable
// due date. Completed milestones are marked in the summary. It returns
// ErrNoMilestones, writing nothing, when no milestone has such a date.
func WriteMilestonesICS(w io.Writer, milestones []record.Milestone, now time.Time) (int, error) {
	cal := ical.NewCalendar()
	cal.Props.SetText(ical.PropVersion, "2.0")
	cal.Props.SetText(ical.PropProductID, icsProdID)
	cal.Props.SetText("X-WR-CALNAME", icsCalName)
	cal.Props.SetText(ical.PropCalendarScale, "GREGORIAN")

	stamp := ical.NewProp(ical.PropDateTimeStamp)
	stamp.SetDateTime(now.UTC())

	written := 0
	for _, m := range milestones {
		due, ok := timeline.ParseDate(m.DueDate, time.UTC)
		if !ok {
			continue
		}

		event := ical.NewEvent()
		event.Props.SetText(ical.PropUID, fmt.Sprintf("milestone-%d@%s", m.ID, icsUIDHost))
		event.Props.Set(stamp)

		summary := m.Title
		if m.Status == record.MilestoneCompleted {
			summary += " (completed)"
		}
		event.Props.SetText(ical.PropSummary, summary)
		event.Props.SetText(ical.PropStatus, icsStatusOK)

		start := ical.NewProp(ical.PropDateTimeStart)
		start.SetDate(timeline.StartOfDay(due))
		event.Props.Set(start)

		cal.Children = append(cal.Children, event.Component)
		written++
	}

	if written == 0 {
		return 0, ErrNoMilestones
	}

	if err := ical.NewEncoder(w).Encode(cal); err != nil {
		return 0, fmt.Errorf("encoding calendar: %w", err)
	}
	return written, nil
}
