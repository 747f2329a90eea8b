package cli

import (
	"testing"

	"github.com/Flyrell/evdash/internal/auth"
	"github.com/Flyrell/evdash/internal/record"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// --- team add tests ---

func TestTeamAdd(t *testing.T) {
	env := newTestEnv(t)
	signIn(t, env, auth.RoleManager)
	cmd, stdout := newTestCmd("")

	err := runTeamAdd(cmd, env, "  Power ")

	require.NoError(t, err)
	assert.Equal(t, "team 'Power' created (#1)\n", stdout.String())
}

func TestTeamAddBlank(t *testing.T) {
	env := newTestEnv(t)
	signIn(t, env, auth.RoleManager)
	cmd, _ := newTestCmd("")

	assert.ErrorIs(t, runTeamAdd(cmd, env, " "), record.ErrInvalid)
}

func TestTeamAddForbidden(t *testing.T) {
	env := newTestEnv(t)
	signIn(t, env, auth.RoleViewer)
	cmd, _ := newTestCmd("")

	err := runTeamAdd(cmd, env, "Power")

	require.ErrorIs(t, err, auth.ErrForbidden)
	assert.Contains(t, err.Error(), "Employee cannot manage teams")
}

// --- team list tests ---

func TestTeamListEmpty(t *testing.T) {
	env := newTestEnv(t)
	cmd, stdout := newTestCmd("")

	require.NoError(t, runTeamList(cmd, env))
	assert.Equal(t, "No teams found.\n", stdout.String())
}

func TestTeamListCountsProjects(t *testing.T) {
	env := newTestEnv(t)
	_, err := env.store.CreateTeam(record.Team{Name: "Power"})
	require.NoError(t, err)
	_, err = env.store.CreateTeam(record.Team{Name: "Drive"})
	require.NoError(t, err)
	seedProjects(t, env, validProjectInput(), validProjectInput())
	cmd, stdout := newTestCmd("")

	require.NoError(t, runTeamList(cmd, env))

	assert.Equal(t, "#1     Power  (2 project(s))\n#2     Drive  (0 project(s))\n", stdout.String())
}

// --- team edit/remove tests ---

func TestTeamEdit(t *testing.T) {
	env := newTestEnv(t)
	signIn(t, env, auth.RoleAdmin)
	_, err := env.store.CreateTeam(record.Team{Name: "Power"})
	require.NoError(t, err)
	cmd, stdout := newTestCmd("")

	require.NoError(t, runTeamEdit(cmd, env, 1, "Power electronics"))
	assert.Equal(t, "team renamed to 'Power electronics' (#1)\n", stdout.String())

	assert.ErrorIs(t, runTeamEdit(cmd, env, 2, "X"), record.ErrNotFound)
}

func TestTeamRemove(t *testing.T) {
	env := newTestEnv(t)
	signIn(t, env, auth.RoleAdmin)
	_, err := env.store.CreateTeam(record.Team{Name: "Power"})
	require.NoError(t, err)

	cmd, _ := newTestCmd("")
	declined := func(string) (bool, error) { return false, nil }
	assert.ErrorIs(t, runTeamRemove(cmd, env, 1, declined), errAborted)

	cmd, stdout := newTestCmd("")
	require.NoError(t, runTeamRemove(cmd, env, 1, AlwaysYes()))
	assert.Equal(t, "team 'Power' removed\n", stdout.String())

	teams, err := env.store.ListTeams()
	require.NoError(t, err)
	assert.Empty(t, teams)
}
