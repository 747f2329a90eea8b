package record

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/bytedance/sonic"
)

// Collection file names inside the data directory.
const (
	ProjectsFile   = "projects.json"
	TeamsFile      = "teams.json"
	MilestonesFile = "milestones.json"
	CountersFile   = "counters.json"
)

// Counter names, one per collection.
const (
	counterProjects   = "projects"
	counterTeams      = "teams"
	counterMilestones = "milestones"
)

// Store is a JSON-file document store. A single Store serializes all reads
// and writes, so ID allocation is atomic within a process.
type Store struct {
	dir string
	now func() time.Time
	mu  sync.Mutex
}

// NewStore returns a store rooted at dir. The directory is created on first write.
func NewStore(dir string) *Store {
	return &Store{dir: dir, now: time.Now}
}

// Dir returns the data directory.
func (s *Store) Dir() string { return s.dir }

// SetClock overrides the timestamp source.
func (s *Store) SetClock(now func() time.Time) { s.now = now }

func (s *Store) path(name string) string {
	return filepath.Join(s.dir, name)
}

// readJSON decodes name into v. A missing file leaves v untouched.
func (s *Store) readJSON(name string, v any) error {
	data, err := os.ReadFile(s.path(name))
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	if err != nil {
		return err
	}
	if err := sonic.Unmarshal(data, v); err != nil {
		return fmt.Errorf("reading %s: %w", name, err)
	}
	return nil
}

// writeJSON replaces name atomically via a temp file and rename.
func (s *Store) writeJSON(name string, v any) error {
	if err := os.MkdirAll(s.dir, 0755); err != nil {
		return err
	}

	data, err := sonic.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}

	tmp, err := os.CreateTemp(s.dir, "."+name+".*")
	if err != nil {
		return err
	}
	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmp.Name())
		return err
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmp.Name())
		return err
	}
	return os.Rename(tmp.Name(), s.path(name))
}

// nextID increments and persists the named counter. Callers hold s.mu.
func (s *Store) nextID(counter string) (int, error) {
	counters := map[string]int{}
	if err := s.readJSON(CountersFile, &counters); err != nil {
		return 0, err
	}
	counters[counter]++
	if err := s.writeJSON(CountersFile, counters); err != nil {
		return 0, err
	}
	return counters[counter], nil
}

// Counters returns the current value of every ID counter.
func (s *Store) Counters() (map[string]int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	counters := map[string]int{}
	if err := s.readJSON(CountersFile, &counters); err != nil {
		return nil, err
	}
	return counters, nil
}

// Seed replaces every collection with ds and resets each counter to the
// highest ID present, so new records continue after the seeded ones.
// Every record is validated and IDs must be positive and unique per
// collection; on any error nothing is written.
func (s *Store) Seed(ds Dataset) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now().UTC()
	counters := map[string]int{counterProjects: 0, counterTeams: 0, counterMilestones: 0}

	projects := make([]Project, len(ds.Projects))
	seen := map[int]bool{}
	for i, p := range ds.Projects {
		if err := seedCheck(counterProjects, i, p.ID, seen, p.Validate); err != nil {
			return err
		}
		stamp(&p.CreatedAt, &p.UpdatedAt, now)
		projects[i] = p
		counters[counterProjects] = max(counters[counterProjects], p.ID)
	}
	teams := make([]Team, len(ds.Teams))
	seen = map[int]bool{}
	for i, t := range ds.Teams {
		if err := seedCheck(counterTeams, i, t.ID, seen, t.Validate); err != nil {
			return err
		}
		stamp(&t.CreatedAt, &t.UpdatedAt, now)
		teams[i] = t
		counters[counterTeams] = max(counters[counterTeams], t.ID)
	}
	milestones := make([]Milestone, len(ds.Milestones))
	seen = map[int]bool{}
	for i, m := range ds.Milestones {
		if err := seedCheck(counterMilestones, i, m.ID, seen, m.Validate); err != nil {
			return err
		}
		stamp(&m.CreatedAt, &m.UpdatedAt, now)
		milestones[i] = m
		counters[counterMilestones] = max(counters[counterMilestones], m.ID)
	}

	sort.Slice(projects, func(i, j int) bool { return projects[i].ID < projects[j].ID })
	sort.Slice(teams, func(i, j int) bool { return teams[i].ID < teams[j].ID })
	sort.Slice(milestones, func(i, j int) bool { return milestones[i].ID < milestones[j].ID })

	if err := s.writeJSON(ProjectsFile, projects); err != nil {
		return err
	}
	if err := s.writeJSON(TeamsFile, teams); err != nil {
		return err
	}
	if err := s.writeJSON(MilestonesFile, milestones); err != nil {
		return err
	}
	return s.writeJSON(CountersFile, counters)
}

// Snapshot reads all collections at once.
func (s *Store) Snapshot() (Dataset, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var ds Dataset
	if err := s.readJSON(ProjectsFile, &ds.Projects); err != nil {
		return Dataset{}, err
	}
	if err := s.readJSON(TeamsFile, &ds.Teams); err != nil {
		return Dataset{}, err
	}
	if err := s.readJSON(MilestonesFile, &ds.Milestones); err != nil {
		return Dataset{}, err
	}
	return ds, nil
}

// seedCheck validates the record at index i of collection and records its ID
// in seen.
func seedCheck(collection string, i, id int, seen map[int]bool, validate func() error) error {
	if id <= 0 {
		return fmt.Errorf("%w: %s[%d]: id must be positive (got %d)", ErrInvalid, collection, i, id)
	}
	if seen[id] {
		return fmt.Errorf("%w: %s[%d]: duplicate id %d", ErrInvalid, collection, i, id)
	}
	seen[id] = true
	if err := validate(); err != nil {
		return fmt.Errorf("%s[%d]: %w", collection, i, err)
	}
	return nil
}

func stamp(created, updated *time.Time, now time.Time) {
	if created.IsZero() {
		*created = now
	}
	if updated.IsZero() {
		*updated = *created
	}
}

// indexByID returns the position of the item with id, or -1.
func indexByID[T any](items []T, id int, idOf func(T) int) int {
	for i := range items {
		if idOf(items[i]) == id {
			return i
		}
	}
	return -1
}
