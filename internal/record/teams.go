package record

import (
	"fmt"
	"sort"
)

func teamID(t Team) int { return t.ID }

func (s *Store) readTeams() ([]Team, error) {
	var teams []Team
	if err := s.readJSON(TeamsFile, &teams); err != nil {
		return nil, err
	}
	return teams, nil
}

// ListTeams returns all teams ordered by ID.
func (s *Store) ListTeams() ([]Team, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	teams, err := s.readTeams()
	if err != nil {
		return nil, err
	}
	sort.Slice(teams, func(i, j int) bool { return teams[i].ID < teams[j].ID })
	return teams, nil
}

// GetTeam returns the team with the given ID.
func (s *Store) GetTeam(id int) (Team, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	teams, err := s.readTeams()
	if err != nil {
		return Team{}, err
	}
	i := indexByID(teams, id, teamID)
	if i < 0 {
		return Team{}, fmt.Errorf("team %d: %w", id, ErrNotFound)
	}
	return teams[i], nil
}

// CreateTeam validates t, assigns the next team ID and stores it.
func (s *Store) CreateTeam(t Team) (Team, error) {
	if err := t.Validate(); err != nil {
		return Team{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	teams, err := s.readTeams()
	if err != nil {
		return Team{}, err
	}
	id, err := s.nextID(counterTeams)
	if err != nil {
		return Team{}, err
	}

	now := s.now().UTC()
	t.ID = id
	t.CreatedAt = now
	t.UpdatedAt = now
	teams = append(teams, t)

	if err := s.writeJSON(TeamsFile, teams); err != nil {
		return Team{}, err
	}
	return t, nil
}

// UpdateTeam applies patch to the team with the given ID and
// re-validates the result before storing it.
func (s *Store) UpdateTeam(id int, patch TeamPatch) (Team, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	teams, err := s.readTeams()
	if err != nil {
		return Team{}, err
	}
	i := indexByID(teams, id, teamID)
	if i < 0 {
		return Team{}, fmt.Errorf("team %d: %w", id, ErrNotFound)
	}

	updated := teams[i]
	updated.apply(patch)
	if err := updated.Validate(); err != nil {
		return Team{}, err
	}
	updated.UpdatedAt = s.now().UTC()
	teams[i] = updated

	if err := s.writeJSON(TeamsFile, teams); err != nil {
		return Team{}, err
	}
	return updated, nil
}

// DeleteTeam removes the team with the given ID and returns it.
func (s *Store) DeleteTeam(id int) (Team, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	teams, err := s.readTeams()
	if err != nil {
		return Team{}, err
	}
	i := indexByID(teams, id, teamID)
	if i < 0 {
		return Team{}, fmt.Errorf("team %d: %w", id, ErrNotFound)
	}

	removed := teams[i]
	teams = append(teams[:i], teams[i+1:]...)
	if err := s.writeJSON(TeamsFile, teams); err != nil {
		return Team{}, err
	}
	return removed, nil
}
