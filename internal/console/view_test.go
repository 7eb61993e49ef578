package console

import (
	"bufio"
	"bytes"
	"strings"
	"testing"

	"github.com/cronhq/cron-console/pkg/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTableViewRendersJobs(t *testing.T) {
	var buf bytes.Buffer
	view := NewTableView(&buf)

	view.SetJobs([]types.Job{
		{ID: 1, Name: "backup", Schedule: "0 3 * * *", IsActive: true, NextRun: "01-09-2026 03:00:00", Status: "Success"},
		{ID: 2, Name: "cleanup", Schedule: "*/5 * * * *", IsActive: false},
	})

	out := buf.String()
	assert.Contains(t, out, "backup")
	assert.Contains(t, out, "cleanup")
	assert.Contains(t, out, "Next Run")
	assert.Contains(t, out, "01-09-2026 03:00:00")
}

func TestTableViewPatchJobActive(t *testing.T) {
	view := NewTableView(&bytes.Buffer{})
	view.SetJobs([]types.Job{
		{ID: 1, Name: "a", IsActive: true},
		{ID: 2, Name: "b", IsActive: true},
	})

	view.PatchJobActive(2, false)

	jobs := view.Jobs()
	require.Len(t, jobs, 2)
	assert.True(t, jobs[0].IsActive, "other rows untouched")
	assert.False(t, jobs[1].IsActive)
}

func TestTableViewRemoveJob(t *testing.T) {
	view := NewTableView(&bytes.Buffer{})
	view.SetJobs([]types.Job{
		{ID: 1, Name: "a"},
		{ID: 2, Name: "b"},
	})

	view.RemoveJob(1)

	jobs := view.Jobs()
	require.Len(t, jobs, 1)
	assert.Equal(t, 2, jobs[0].ID)
}

func TestTableViewSetLogText(t *testing.T) {
	var buf bytes.Buffer
	view := NewTableView(&buf)

	view.SetLogText(3, "")
	assert.Contains(t, buf.String(), "(empty)")

	buf.Reset()
	view.SetLogText(3, "line one\nSuccess\n")
	assert.Contains(t, buf.String(), "line one")
}

func TestToneNotifierMarkers(t *testing.T) {
	var buf bytes.Buffer
	n := NewToneNotifier(&buf)

	n.Success("created")
	n.Warning("already running")
	n.Error("server exploded")

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 3)
	assert.True(t, strings.HasPrefix(lines[0], "✅"))
	assert.True(t, strings.HasPrefix(lines[1], "⚠️"))
	assert.True(t, strings.HasPrefix(lines[2], "❌"))
	assert.NotEqual(t, lines[1][:3], lines[2][:3], "warnings must look different from failures")
}

func TestConfirm(t *testing.T) {
	tests := []struct {
		input string
		want  bool
	}{
		{"y\n", true},
		{"yes\n", true},
		{"Y\n", true},
		{"n\n", false},
		{"\n", false},
		{"", false}, // EOF
	}

	for _, tt := range tests {
		var out bytes.Buffer
		confirm := Confirm(bufio.NewScanner(strings.NewReader(tt.input)), &out)
		assert.Equal(t, tt.want, confirm("Delete?"), "input %q", tt.input)
		assert.Contains(t, out.String(), "[y/N]")
	}
}
