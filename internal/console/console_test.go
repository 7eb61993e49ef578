package console

import (
	"bufio"
	"bytes"
	"context"
	"io"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/cronhq/cron-console/internal/controller"
	"github.com/cronhq/cron-console/internal/cronsim"
	"github.com/cronhq/cron-console/internal/transport"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}

// runScript drives the full console loop against a simulated backend with a
// scripted sequence of commands.
func runScript(t *testing.T, script string) (string, *cronsim.Store) {
	t.Helper()

	store := cronsim.NewStore()
	handler := cronsim.NewHandler(store, testLogger())
	handler.SetRunDelay(50 * time.Millisecond)
	server := httptest.NewServer(cronsim.NewRouter(handler, testLogger()))
	t.Cleanup(server.Close)

	client, err := transport.New(server.URL, time.Second, testLogger())
	require.NoError(t, err)

	var out bytes.Buffer
	in := bufio.NewScanner(strings.NewReader(script))

	view := NewTableView(&out)
	notifier := NewToneNotifier(&out)
	confirm := Confirm(in, &out)
	ctrl := controller.New(client, testLogger(), view, notifier, confirm)
	logs := controller.NewLogViewer(client, testLogger(), view, notifier, confirm)

	c := New(ctrl, logs, view, in, &out, testLogger())
	require.NoError(t, c.Run(context.Background()))
	return out.String(), store
}

func TestConsoleAddFlow(t *testing.T) {
	out, store := runScript(t, strings.Join([]string{
		"add",
		"set name t1",
		"set command echo hi",
		"save", // schedule still empty, form must survive
		"set schedule * * * * *",
		"save",
		"quit",
	}, "\n"))

	assert.Contains(t, out, "You must fill out all fields")
	assert.Contains(t, out, "✅")

	jobs := store.List()
	require.Len(t, jobs, 1)
	assert.Equal(t, "t1", jobs[0].Name)
	assert.Equal(t, "echo hi", jobs[0].Command)

	// After the failed save the prompt showed the form still open.
	assert.Contains(t, out, "(add)>")
}

func TestConsoleEditFlow(t *testing.T) {
	out, store := runScript(t, strings.Join([]string{
		"add",
		"set name t1",
		"set command echo hi",
		"set schedule * * * * *",
		"save",
		"edit 1",
		"set schedule 0 4 * * *",
		"save",
		"quit",
	}, "\n"))

	assert.Contains(t, out, "Editing job 1")

	jobs := store.List()
	require.Len(t, jobs, 1)
	assert.Equal(t, "0 4 * * *", jobs[0].Schedule)
}

func TestConsoleDeleteAsksForConfirmation(t *testing.T) {
	out, store := runScript(t, strings.Join([]string{
		"add",
		"set name t1",
		"set command echo hi",
		"set schedule * * * * *",
		"save",
		"delete 1",
		"n", // decline
		"delete 1",
		"y", // approve
		"quit",
	}, "\n"))

	assert.Contains(t, out, "[y/N]")
	assert.Contains(t, out, "Cancelled.")
	assert.Empty(t, store.List())
}

func TestConsoleShowPopup(t *testing.T) {
	out, _ := runScript(t, strings.Join([]string{
		"add",
		"set name t1",
		"set command echo hi",
		"set schedule * * * * *",
		"save",
		"show 1",
		"quit",
	}, "\n"))

	assert.Contains(t, out, "Command for job 1: echo hi")
}

func TestConsoleUnknownCommand(t *testing.T) {
	out, _ := runScript(t, "frobnicate\nquit\n")
	assert.Contains(t, out, "Unknown command")
}

func TestConsoleLogsView(t *testing.T) {
	out, _ := runScript(t, strings.Join([]string{
		"add",
		"set name t1",
		"set command echo hi",
		"set schedule * * * * *",
		"save",
		"logs 1",
		"quit",
	}, "\n"))

	assert.Contains(t, out, "Logs for job 1")
	assert.Contains(t, out, "No log yet")
}
