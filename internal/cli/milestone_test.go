package cli

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/Flyrell/evdash/internal/auth"
	"github.com/Flyrell/evdash/internal/record"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seedMilestones(t *testing.T, env *appEnv, milestones ...record.Milestone) {
	t.Helper()
	for _, m := range milestones {
		_, err := env.store.CreateMilestone(m)
		require.NoError(t, err)
	}
}

// --- milestone add tests ---

func TestMilestoneAdd(t *testing.T) {
	env := newTestEnv(t)
	signIn(t, env, auth.RoleManager)
	cmd, stdout := newTestCmd("")

	err := runMilestoneAdd(cmd, env, record.Milestone{Title: "Prototype", DueDate: "2025-02-10", Status: record.MilestoneUpcoming})

	require.NoError(t, err)
	assert.Equal(t, "milestone 'Prototype' created (#1)\n", stdout.String())
}

func TestMilestoneAddValidation(t *testing.T) {
	env := newTestEnv(t)
	signIn(t, env, auth.RoleManager)
	cmd, _ := newTestCmd("")

	err := runMilestoneAdd(cmd, env, record.Milestone{Title: "Prototype", DueDate: "", Status: record.MilestoneUpcoming})
	assert.ErrorContains(t, err, "--due")

	err = runMilestoneAdd(cmd, env, record.Milestone{Title: "Prototype", DueDate: "2025-02-10", Status: "late"})
	assert.ErrorContains(t, err, "--status")

	err = runMilestoneAdd(cmd, env, record.Milestone{Title: " ", DueDate: "2025-02-10", Status: record.MilestoneUpcoming})
	assert.ErrorIs(t, err, record.ErrInvalid)
}

func TestMilestoneAddForbidden(t *testing.T) {
	env := newTestEnv(t)
	cmd, _ := newTestCmd("")

	err := runMilestoneAdd(cmd, env, record.Milestone{Title: "Prototype", DueDate: "2025-02-10", Status: record.MilestoneUpcoming})

	assert.ErrorIs(t, err, auth.ErrForbidden)
}

// --- milestone list tests ---

func TestMilestoneListEmpty(t *testing.T) {
	env := newTestEnv(t)
	cmd, stdout := newTestCmd("")

	require.NoError(t, runMilestoneList(cmd, env, false))
	assert.Equal(t, "No milestones found.\n", stdout.String())
}

func TestMilestoneListUpcomingOnly(t *testing.T) {
	env := newTestEnv(t)
	seedMilestones(t, env,
		record.Milestone{Title: "Homologation", DueDate: "2025-06-01", Status: record.MilestoneUpcoming},
		record.Milestone{Title: "Kickoff", DueDate: "2024-12-01", Status: record.MilestoneCompleted},
		record.Milestone{Title: "Prototype", DueDate: "2025-02-10", Status: record.MilestoneUpcoming},
	)

	cmd, stdout := newTestCmd("")
	require.NoError(t, runMilestoneList(cmd, env, false))
	assert.Equal(t, 3, strings.Count(stdout.String(), "\n"))
	assert.Contains(t, stdout.String(), "Kickoff")

	cmd, stdout = newTestCmd("")
	require.NoError(t, runMilestoneList(cmd, env, true))
	lines := strings.Split(strings.TrimSpace(stdout.String()), "\n")
	require.Len(t, lines, 2)
	assert.Contains(t, lines[0], "Prototype")
	assert.Contains(t, lines[1], "Homologation")
}

// --- milestone edit/remove tests ---

func TestMilestoneEdit(t *testing.T) {
	env := newTestEnv(t)
	signIn(t, env, auth.RoleAdmin)
	seedMilestones(t, env, record.Milestone{Title: "Prototype", DueDate: "2025-02-10", Status: record.MilestoneUpcoming})
	cmd, stdout := newTestCmd("")

	err := runMilestoneEdit(cmd, env, 1, record.MilestonePatch{Status: strPtr(record.MilestoneCompleted)})

	require.NoError(t, err)
	assert.Equal(t, "milestone 'Prototype' updated (#1)\n", stdout.String())
	got, err := env.store.GetMilestone(1)
	require.NoError(t, err)
	assert.Equal(t, record.MilestoneCompleted, got.Status)
}

func TestMilestoneEditErrors(t *testing.T) {
	env := newTestEnv(t)
	signIn(t, env, auth.RoleAdmin)
	seedMilestones(t, env, record.Milestone{Title: "Prototype", DueDate: "2025-02-10", Status: record.MilestoneUpcoming})
	cmd, _ := newTestCmd("")

	assert.ErrorContains(t, runMilestoneEdit(cmd, env, 1, record.MilestonePatch{}), "nothing to change")
	assert.ErrorContains(t, runMilestoneEdit(cmd, env, 1, record.MilestonePatch{DueDate: strPtr("someday")}), "--due")
	assert.ErrorIs(t, runMilestoneEdit(cmd, env, 5, record.MilestonePatch{Title: strPtr("X")}), record.ErrNotFound)
}

func TestMilestoneRemove(t *testing.T) {
	env := newTestEnv(t)
	signIn(t, env, auth.RoleManager)
	seedMilestones(t, env, record.Milestone{Title: "Prototype", DueDate: "2025-02-10", Status: record.MilestoneUpcoming})

	cmd, stdout := newTestCmd("y\n")
	err := runMilestoneRemove(cmd, env, 1, NewLineConfirmFunc(cmd.InOrStdin(), cmd.OutOrStdout()))

	require.NoError(t, err)
	assert.Contains(t, stdout.String(), "Delete milestone 'Prototype'? [y/N] ")
	assert.Contains(t, stdout.String(), "milestone 'Prototype' removed\n")
	_, err = env.store.GetMilestone(1)
	assert.ErrorIs(t, err, record.ErrNotFound)
}

// --- milestone export tests ---

func TestMilestoneExport(t *testing.T) {
	env := newTestEnv(t)
	seedMilestones(t, env,
		record.Milestone{Title: "Prototype", DueDate: "2025-02-10", Status: record.MilestoneUpcoming},
		record.Milestone{Title: "Kickoff", DueDate: "2024-12-01", Status: record.MilestoneCompleted},
	)
	out := filepath.Join(t.TempDir(), "nested", "ms.ics")
	cmd, stdout := newTestCmd("")

	require.NoError(t, runMilestoneExport(cmd, env, out))

	assert.Equal(t, "exported 2 milestone(s) to "+out+"\n", stdout.String())
	data, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Contains(t, string(data), "BEGIN:VCALENDAR")
	assert.Contains(t, string(data), "SUMMARY:Kickoff (completed)")
	assert.Contains(t, string(data), "20250210")
}

func TestMilestoneExportSkipsUndatable(t *testing.T) {
	env := newTestEnv(t)
	require.NoError(t, env.store.Seed(record.Dataset{Milestones: []record.Milestone{
		{ID: 1, Title: "Prototype", DueDate: "2025-02-10", Status: record.MilestoneUpcoming},
		{ID: 2, Title: "Someday", DueDate: "tbd", Status: record.MilestoneUpcoming},
	}}))
	out := filepath.Join(t.TempDir(), "ms.ics")
	cmd, stdout := newTestCmd("")

	require.NoError(t, runMilestoneExport(cmd, env, out))

	assert.Contains(t, stdout.String(), "exported 1 milestone(s)")
	assert.Contains(t, stdout.String(), "skipped 1 milestone(s) without a valid due date")
}

func TestMilestoneExportEmpty(t *testing.T) {
	env := newTestEnv(t)
	out := filepath.Join(t.TempDir(), "ms.ics")
	cmd, stdout := newTestCmd("")

	require.NoError(t, runMilestoneExport(cmd, env, out))

	assert.Equal(t, "No milestones to export.\n", stdout.String())
	assert.NoFileExists(t, out)
}

func TestMilestoneExportNothingDatable(t *testing.T) {
	env := newTestEnv(t)
	require.NoError(t, env.store.Seed(record.Dataset{Milestones: []record.Milestone{
		{ID: 1, Title: "Someday", DueDate: "tbd", Status: record.MilestoneUpcoming},
	}}))
	out := filepath.Join(t.TempDir(), "ms.ics")
	cmd, stdout := newTestCmd("")

	require.NoError(t, runMilestoneExport(cmd, env, out))

	assert.Equal(t, "No milestones to export.\nskipped 1 milestone(s) without a valid due date\n", stdout.String())
	assert.NoFileExists(t, out)
}
