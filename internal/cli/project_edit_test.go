package cli

import (
	"testing"

	"github.com/Flyrell/evdash/internal/auth"
	"github.com/Flyrell/evdash/internal/record"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func execProjectEdit(env *appEnv, id int, patch record.ProjectPatch) (string, error) {
	cmd, stdout := newTestCmd("")
	err := runProjectEdit(cmd, env, id, patch)
	return stdout.String(), err
}

func strPtr(s string) *string { return &s }

func TestProjectEditHappyPath(t *testing.T) {
	env := newTestEnv(t)
	signIn(t, env, auth.RoleManager)
	seedProjects(t, env, validProjectInput())

	stdout, err := execProjectEdit(env, 1, record.ProjectPatch{
		Status:  strPtr(record.StatusCompleted),
		EndDate: strPtr("2025-03-01T00:00:00Z"),
	})

	require.NoError(t, err)
	assert.Equal(t, "project 'Battery pack' updated (#1)\n", stdout)

	got, err := env.store.GetProject(1)
	require.NoError(t, err)
	assert.Equal(t, record.StatusCompleted, got.Status)
	assert.Equal(t, "2025-03-01", got.EndDate)
	assert.Equal(t, "Power", got.Team)
}

func TestProjectEditNothingToChange(t *testing.T) {
	env := newTestEnv(t)
	signIn(t, env, auth.RoleManager)
	seedProjects(t, env, validProjectInput())

	_, err := execProjectEdit(env, 1, record.ProjectPatch{})

	assert.ErrorContains(t, err, "nothing to change")
}

func TestProjectEditErrors(t *testing.T) {
	env := newTestEnv(t)
	signIn(t, env, auth.RoleManager)
	seedProjects(t, env, validProjectInput())

	_, err := execProjectEdit(env, 9, record.ProjectPatch{Name: strPtr("X")})
	assert.ErrorIs(t, err, record.ErrNotFound)

	_, err = execProjectEdit(env, 1, record.ProjectPatch{Status: strPtr("paused")})
	assert.ErrorContains(t, err, "--status")

	_, err = execProjectEdit(env, 1, record.ProjectPatch{StartDate: strPtr("tomorrow")})
	assert.ErrorContains(t, err, "--start")

	_, err = execProjectEdit(env, 1, record.ProjectPatch{Name: strPtr(" ")})
	assert.ErrorIs(t, err, record.ErrInvalid)
}

func TestProjectEditForbidden(t *testing.T) {
	env := newTestEnv(t)
	seedProjects(t, env, validProjectInput())

	_, err := execProjectEdit(env, 1, record.ProjectPatch{Name: strPtr("X")})

	assert.ErrorIs(t, err, auth.ErrForbidden)
}

func TestProjectPatchFromFlags(t *testing.T) {
	cmd := projectEditCmd
	require.NoError(t, cmd.Flags().Set("status", "on_hold"))
	t.Cleanup(func() {
		_ = cmd.Flags().Set("status", "")
		cmd.Flags().Lookup("status").Changed = false
	})

	patch := projectPatchFromFlags(cmd)

	require.NotNil(t, patch.Status)
	assert.Equal(t, "on_hold", *patch.Status)
	assert.Nil(t, patch.Name)
	assert.Nil(t, patch.EndDate)
}
