package controller

import (
	"context"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/cronhq/cron-console/internal/cronsim"
	"github.com/cronhq/cron-console/internal/transport"
	"github.com/cronhq/cron-console/pkg/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// The scenario tests drive the controller against the simulated backend,
// end to end through real HTTP.

func newScenario(t *testing.T) (*Controller, *fakeView, *fakeNotifier, *cronsim.Handler, *cronsim.Store) {
	t.Helper()

	store := cronsim.NewStore()
	handler := cronsim.NewHandler(store, testLogger())
	handler.SetRunDelay(50 * time.Millisecond)

	server := httptest.NewServer(cronsim.NewRouter(handler, testLogger()))
	t.Cleanup(server.Close)

	client, err := transport.New(server.URL, time.Second, testLogger())
	require.NoError(t, err)

	view := &fakeView{}
	notifier := &fakeNotifier{}
	return New(client, testLogger(), view, notifier, confirmAlways), view, notifier, handler, store
}

func TestScenarioCreateReflectsServerAssignedID(t *testing.T) {
	ctrl, view, notifier, _, _ := newScenario(t)

	outcome, err := ctrl.Create(context.Background(), types.JobRequest{
		Command:  "echo hi",
		Name:     "t1",
		Schedule: "* * * * *",
	})
	require.NoError(t, err)
	require.True(t, outcome.OK())
	assert.Len(t, notifier.successes, 1)

	require.NotEmpty(t, view.tables)
	table := view.tables[len(view.tables)-1]
	require.Len(t, table, 1)
	assert.Equal(t, 1, table[0].ID)
	assert.Equal(t, "t1", table[0].Name)
	assert.True(t, table[0].IsActive)
	assert.NotEmpty(t, table[0].NextRun, "next_run is server-computed")
}

func TestScenarioRunWhileAlreadyRunning(t *testing.T) {
	ctrl, view, notifier, handler, store := newScenario(t)
	handler.SetRunDelay(2 * time.Second)
	store.Create(types.JobRequest{Command: "sleep 1", Name: "slow", Schedule: "* * * * *"})
	require.NoError(t, ctrl.RefreshAll(context.Background()))

	first, err := ctrl.Run(context.Background(), 1)
	require.NoError(t, err)
	require.True(t, first.OK())

	second, err := ctrl.Run(context.Background(), 1)
	require.NoError(t, err)

	assert.Equal(t, types.KindConflict, second.Kind)
	require.Len(t, notifier.warnings, 1)
	assert.Contains(t, notifier.warnings[0], "already running")

	// Job list state unchanged by either attempt.
	assert.Len(t, view.tables, 1)
	job, _ := ctrl.Snapshot().Get(1)
	assert.True(t, job.IsActive)
}

func TestScenarioToggleRoundTrip(t *testing.T) {
	ctrl, view, _, _, store := newScenario(t)
	store.Create(types.JobRequest{Command: "echo hi", Name: "t1", Schedule: "* * * * *"})
	require.NoError(t, ctrl.RefreshAll(context.Background()))

	outcome, err := ctrl.Toggle(context.Background(), 1)
	require.NoError(t, err)
	require.True(t, outcome.OK())

	last, ok := view.lastPatch()
	require.True(t, ok)
	assert.Equal(t, activePatch{1, false}, last)

	job, _ := ctrl.Snapshot().Get(1)
	assert.False(t, job.IsActive)

	// The post-toggle refetch cleared the disabled job's next_run.
	table := view.tables[len(view.tables)-1]
	require.Len(t, table, 1)
	assert.Empty(t, table[0].NextRun)

	outcome, err = ctrl.Toggle(context.Background(), 1)
	require.NoError(t, err)
	require.True(t, outcome.OK())

	job, _ = ctrl.Snapshot().Get(1)
	assert.True(t, job.IsActive)
}

func TestScenarioDeleteReconcilesWithBackend(t *testing.T) {
	ctrl, view, _, _, store := newScenario(t)
	store.Create(types.JobRequest{Command: "echo hi", Name: "t1", Schedule: "* * * * *"})
	store.Create(types.JobRequest{Command: "echo bye", Name: "t2", Schedule: "0 * * * *"})
	require.NoError(t, ctrl.RefreshAll(context.Background()))

	outcome, err := ctrl.Delete(context.Background(), 1)
	require.NoError(t, err)
	require.True(t, outcome.OK())

	assert.Equal(t, []int{1}, view.removed)

	table := view.tables[len(view.tables)-1]
	require.Len(t, table, 1)
	assert.Equal(t, "t2", table[0].Name)
}
