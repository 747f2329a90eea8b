package cli

import (
	"strings"
	"testing"

	"github.com/Flyrell/evdash/internal/record"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func execProjectList(env *appEnv, status, order string) (string, error) {
	cmd, stdout := newTestCmd("")
	err := runProjectList(cmd, env, status, order)
	return stdout.String(), err
}

func seedThreeProjects(t *testing.T, env *appEnv) {
	t.Helper()
	seedProjects(t, env,
		record.Project{Name: "Motor", Team: "Drive", Status: record.StatusCompleted, StartDate: "2024-11-01", EndDate: "2024-12-20"},
		record.Project{Name: "battery pack", Team: "Power", Status: record.StatusInProgress, StartDate: "2025-01-01", EndDate: "2025-02-15"},
		record.Project{Name: "Charger", Team: "Power", Status: record.StatusOnHold, StartDate: "2025-02-01", EndDate: "2025-03-01"},
	)
}

// projectRows returns the name column of each data row.
func projectRows(stdout string) []string {
	lines := strings.Split(strings.TrimRight(stdout, "\n"), "\n")
	var names []string
	for _, line := range lines[1:] {
		fields := strings.Fields(line)
		names = append(names, fields[1])
	}
	return names
}

func TestProjectListEmpty(t *testing.T) {
	env := newTestEnv(t)

	stdout, err := execProjectList(env, "all", "")

	assert.NoError(t, err)
	assert.Equal(t, "No projects found.\n", stdout)
}

func TestProjectListAll(t *testing.T) {
	env := newTestEnv(t)
	seedThreeProjects(t, env)

	stdout, err := execProjectList(env, "all", "")

	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(stdout, "ID"))
	assert.Contains(t, stdout, "#2")
	assert.Contains(t, stdout, "2025-02-15")
	assert.Equal(t, []string{"Motor", "battery", "Charger"}, projectRows(stdout))
}

func TestProjectListFilterByStatus(t *testing.T) {
	env := newTestEnv(t)
	seedThreeProjects(t, env)

	stdout, err := execProjectList(env, record.StatusOnHold, "")

	require.NoError(t, err)
	assert.Equal(t, []string{"Charger"}, projectRows(stdout))
}

func TestProjectListFilterNoMatch(t *testing.T) {
	env := newTestEnv(t)
	seedProjects(t, env, record.Project{Name: "Motor", Team: "Drive", Status: record.StatusCompleted, StartDate: "2024-11-01", EndDate: "2024-12-20"})

	stdout, err := execProjectList(env, record.StatusOnHold, "")

	require.NoError(t, err)
	assert.Equal(t, "No projects found.\n", stdout)
}

func TestProjectListSort(t *testing.T) {
	env := newTestEnv(t)
	seedThreeProjects(t, env)

	stdout, err := execProjectList(env, "all", "asc")
	require.NoError(t, err)
	assert.Equal(t, []string{"battery", "Charger", "Motor"}, projectRows(stdout))

	stdout, err = execProjectList(env, "all", "desc")
	require.NoError(t, err)
	assert.Equal(t, []string{"Motor", "Charger", "battery"}, projectRows(stdout))
}

func TestProjectListInvalidFlags(t *testing.T) {
	env := newTestEnv(t)

	_, err := execProjectList(env, "paused", "")
	assert.ErrorContains(t, err, "--status")

	_, err = execProjectList(env, "all", "sideways")
	assert.ErrorContains(t, err, "--sort")
}
