// Package record stores projects, teams and milestones as JSON documents
// under a data directory, with numeric auto-increment identifiers.
package record

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

var (
	// ErrNotFound is returned when no record has the requested ID.
	ErrNotFound = errors.New("not found")
	// ErrInvalid is wrapped by every validation failure.
	ErrInvalid = errors.New("invalid record")
)

// Project statuses.
const (
	StatusInProgress = "in_progress"
	StatusCompleted  = "completed"
	StatusOnHold     = "on_hold"
)

// Milestone statuses.
const (
	MilestoneUpcoming  = "upcoming"
	MilestoneCompleted = "completed"
)

// ProjectStatuses lists the accepted project statuses in display order.
var ProjectStatuses = []string{StatusInProgress, StatusCompleted, StatusOnHold}

// MilestoneStatuses lists the accepted milestone statuses.
var MilestoneStatuses = []string{MilestoneUpcoming, MilestoneCompleted}

// Project is one engineering project.
type Project struct {
	ID        int       `json:"id"`
	Name      string    `json:"name"`
	Team      string    `json:"team"`
	Status    string    `json:"status"`
	StartDate string    `json:"startDate"`
	EndDate   string    `json:"endDate"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Team is a named group of engineers.
type Team struct {
	ID        int       `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Milestone is a dated checkpoint.
type Milestone struct {
	ID        int       `json:"id"`
	Title     string    `json:"title"`
	DueDate   string    `json:"dueDate"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// ProjectPatch holds a partial project update. Nil fields are left unchanged.
type ProjectPatch struct {
	Name      *string `json:"name,omitempty"`
	Team      *string `json:"team,omitempty"`
	Status    *string `json:"status,omitempty"`
	StartDate *string `json:"startDate,omitempty"`
	EndDate   *string `json:"endDate,omitempty"`
}

// TeamPatch holds a partial team update.
type TeamPatch struct {
	Name *string `json:"name,omitempty"`
}

// MilestonePatch holds a partial milestone update.
type MilestonePatch struct {
	Title   *string `json:"title,omitempty"`
	DueDate *string `json:"dueDate,omitempty"`
	Status  *string `json:"status,omitempty"`
}

// Dataset is a full snapshot of all collections, as used by Seed.
type Dataset struct {
	Projects   []Project   `json:"projects"`
	Teams      []Team      `json:"teams"`
	Milestones []Milestone `json:"milestones"`
}

func (p *Project) apply(patch ProjectPatch) {
	if patch.Name != nil {
		p.Name = *patch.Name
	}
	if patch.Team != nil {
		p.Team = *patch.Team
	}
	if patch.Status != nil {
		p.Status = *patch.Status
	}
	if patch.StartDate != nil {
		p.StartDate = *patch.StartDate
	}
	if patch.EndDate != nil {
		p.EndDate = *patch.EndDate
	}
}

func (t *Team) apply(patch TeamPatch) {
	if patch.Name != nil {
		t.Name = *patch.Name
	}
}

func (m *Milestone) apply(patch MilestonePatch) {
	if patch.Title != nil {
		m.Title = *patch.Title
	}
	if patch.DueDate != nil {
		m.DueDate = *patch.DueDate
	}
	if patch.Status != nil {
		m.Status = *patch.Status
	}
}

// Validate trims text fields and checks required values and enums.
func (p *Project) Validate() error {
	p.Name = strings.TrimSpace(p.Name)
	p.Team = strings.TrimSpace(p.Team)
	p.StartDate = strings.TrimSpace(p.StartDate)
	p.EndDate = strings.TrimSpace(p.EndDate)

	if err := required("name", p.Name); err != nil {
		return err
	}
	if err := required("team", p.Team); err != nil {
		return err
	}
	if err := oneOf("status", p.Status, ProjectStatuses); err != nil {
		return err
	}
	if err := required("startDate", p.StartDate); err != nil {
		return err
	}
	return required("endDate", p.EndDate)
}

// Validate trims the name and checks it is present.
func (t *Team) Validate() error {
	t.Name = strings.TrimSpace(t.Name)
	return required("name", t.Name)
}

// Validate trims text fields and checks required values and enums.
func (m *Milestone) Validate() error {
	m.Title = strings.TrimSpace(m.Title)
	m.DueDate = strings.TrimSpace(m.DueDate)

	if err := required("title", m.Title); err != nil {
		return err
	}
	if err := required("dueDate", m.DueDate); err != nil {
		return err
	}
	return oneOf("status", m.Status, MilestoneStatuses)
}

func required(field, value string) error {
	if value == "" {
		return fmt.Errorf("%w: %s is required", ErrInvalid, field)
	}
	return nil
}

func oneOf(field, value string, allowed []string) error {
	for _, a := range allowed {
		if value == a {
			return nil
		}
	}
	return fmt.Errorf("%w: %s must be one of %s (got %q)", ErrInvalid, field, strings.Join(allowed, ", "), value)
}
