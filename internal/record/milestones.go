package record

import (
	"fmt"
	"sort"
)

func milestoneID(m Milestone) int { return m.ID }

func (s *Store) readMilestones() ([]Milestone, error) {
	var milestones []Milestone
	if err := s.readJSON(MilestonesFile, &milestones); err != nil {
		return nil, err
	}
	return milestones, nil
}

// ListMilestones returns all milestones ordered by ID.
func (s *Store) ListMilestones() ([]Milestone, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	milestones, err := s.readMilestones()
	if err != nil {
		return nil, err
	}
	sort.Slice(milestones, func(i, j int) bool { return milestones[i].ID < milestones[j].ID })
	return milestones, nil
}

// GetMilestone returns the milestone with the given ID.
func (s *Store) GetMilestone(id int) (Milestone, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	milestones, err := s.readMilestones()
	if err != nil {
		return Milestone{}, err
	}
	i := indexByID(milestones, id, milestoneID)
	if i < 0 {
		return Milestone{}, fmt.Errorf("milestone %d: %w", id, ErrNotFound)
	}
	return milestones[i], nil
}

// CreateMilestone validates m, assigns the next milestone ID and stores it.
func (s *Store) CreateMilestone(m Milestone) (Milestone, error) {
	if err := m.Validate(); err != nil {
		return Milestone{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	milestones, err := s.readMilestones()
	if err != nil {
		return Milestone{}, err
	}
	id, err := s.nextID(counterMilestones)
	if err != nil {
		return Milestone{}, err
	}

	now := s.now().UTC()
	m.ID = id
	m.CreatedAt = now
	m.UpdatedAt = now
	milestones = append(milestones, m)

	if err := s.writeJSON(MilestonesFile, milestones); err != nil {
		return Milestone{}, err
	}
	return m, nil
}

// UpdateMilestone applies patch to the milestone with the given ID and
// re-validates the result before storing it.
func (s *Store) UpdateMilestone(id int, patch MilestonePatch) (Milestone, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	milestones, err := s.readMilestones()
	if err != nil {
		return Milestone{}, err
	}
	i := indexByID(milestones, id, milestoneID)
	if i < 0 {
		return Milestone{}, fmt.Errorf("milestone %d: %w", id, ErrNotFound)
	}

	updated := milestones[i]
	updated.apply(patch)
	if err := updated.Validate(); err != nil {
		return Milestone{}, err
	}
	updated.UpdatedAt = s.now().UTC()
	milestones[i] = updated

	if err := s.writeJSON(MilestonesFile, milestones); err != nil {
		return Milestone{}, err
	}
	return updated, nil
}

// DeleteMilestone removes the milestone with the given ID and returns it.
func (s *Store) DeleteMilestone(id int) (Milestone, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	milestones, err := s.readMilestones()
	if err != nil {
		return Milestone{}, err
	}
	i := indexByID(milestones, id, milestoneID)
	if i < 0 {
		return Milestone{}, fmt.Errorf("milestone %d: %w", id, ErrNotFound)
	}

	removed := milestones[i]
	milestones = append(milestones[:i], milestones[i+1:]...)
	if err := s.writeJSON(MilestonesFile, milestones); err != nil {
		return Milestone{}, err
	}
	return removed, nil
}
