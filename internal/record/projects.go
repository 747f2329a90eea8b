package record

import (
	"fmt"
	"sort"
)

func projectID(p Project) int { return p.ID }

func (s *Store) readProjects() ([]Project, error) {
	var projects []Project
	if err := s.readJSON(ProjectsFile, &projects); err != nil {
		return nil, err
	}
	return projects, nil
}

// ListProjects returns all projects ordered by ID.
func (s *Store) ListProjects() ([]Project, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	projects, err := s.readProjects()
	if err != nil {
		return nil, err
	}
	sort.Slice(projects, func(i, j int) bool { return projects[i].ID < projects[j].ID })
	return projects, nil
}

// GetProject returns the project with the given ID.
func (s *Store) GetProject(id int) (Project, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	projects, err := s.readProjects()
	if err != nil {
		return Project{}, err
	}
	i := indexByID(projects, id, projectID)
	if i < 0 {
		return Project{}, fmt.Errorf("project %d: %w", id, ErrNotFound)
	}
	return projects[i], nil
}

// CreateProject validates p, assigns the next project ID and stores it.
func (s *Store) CreateProject(p Project) (Project, error) {
	if err := p.Validate(); err != nil {
		return Project{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	projects, err := s.readProjects()
	if err != nil {
		return Project{}, err
	}
	id, err := s.nextID(counterProjects)
	if err != nil {
		return Project{}, err
	}

	now := s.now().UTC()
	p.ID = id
	p.CreatedAt = now
	p.UpdatedAt = now
	projects = append(projects, p)

	if err := s.writeJSON(ProjectsFile, projects); err != nil {
		return Project{}, err
	}
	return p, nil
}

// UpdateProject applies patch to the project with the given ID and
// re-validates the result before storing it.
func (s *Store) UpdateProject(id int, patch ProjectPatch) (Project, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	projects, err := s.readProjects()
	if err != nil {
		return Project{}, err
	}
	i := indexByID(projects, id, projectID)
	if i < 0 {
		return Project{}, fmt.Errorf("project %d: %w", id, ErrNotFound)
	}

	updated := projects[i]
	updated.apply(patch)
	if err := updated.Validate(); err != nil {
		return Project{}, err
	}
	updated.UpdatedAt = s.now().UTC()
	projects[i] = updated

	if err := s.writeJSON(ProjectsFile, projects); err != nil {
		return Project{}, err
	}
	return updated, nil
}

// DeleteProject removes the project with the given ID and returns it.
func (s *Store) DeleteProject(id int) (Project, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	projects, err := s.readProjects()
	if err != nil {
		return Project{}, err
	}
	i := indexByID(projects, id, projectID)
	if i < 0 {
		return Project{}, fmt.Errorf("project %d: %w", id, ErrNotFound)
	}

	removed := projects[i]
	projects = append(projects[:i], projects[i+1:]...)
	if err := s.writeJSON(ProjectsFile, projects); err != nil {
		return Project{}, err
	}
	return removed, nil
}
