// Package console renders job state and notifications on a terminal. It is
// the presentation periphery; all decision logic lives in the controller.
package console

import (
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/cronhq/cron-console/pkg/types"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// TableView keeps the displayed job table and log pane. It implements both
// controller.View and controller.LogView.
type TableView struct {
	mu   sync.Mutex
	out  io.Writer
	jobs []types.Job
}

func NewTableView(out io.Writer) *TableView {
	return &TableView{out: out}
}

// SetJobs replaces the whole table, the full-refresh path.
func (v *TableView) SetJobs(jobs []types.Job) {
	v.mu.Lock()
	defer v.mu.Unlock()

	v.jobs = make([]types.Job, len(jobs))
	copy(v.jobs, jobs)
	v.render()
}

// PatchJobActive is the targeted patch: only the one row's enabled state
// changes, nothing is refetched.
func (v *TableView) PatchJobActive(jobID int, active bool) {
	v.mu.Lock()
	defer v.mu.Unlock()

	for i := range v.jobs {
		if v.jobs[i].ID == jobID {
			v.jobs[i].IsActive = active
			break
		}
	}
	v.render()
}

func (v *TableView) RemoveJob(jobID int) {
	v.mu.Lock()
	defer v.mu.Unlock()

	for i := range v.jobs {
		if v.jobs[i].ID == jobID {
			v.jobs = append(v.jobs[:i], v.jobs[i+1:]...)
			break
		}
	}
	v.render()
}

// SetLogText prints the job's log pane. An empty log is shown as such, it is
// not an error.
func (v *TableView) SetLogText(jobID int, text string) {
	v.mu.Lock()
	defer v.mu.Unlock()

	fmt.Fprintf(v.out, "\n--- Logs for job %d ---\n", jobID)
	if text == "" {
		fmt.Fprintln(v.out, "(empty)")
	} else {
		fmt.Fprintln(v.out, strings.TrimRight(text, "\n"))
	}
	fmt.Fprintln(v.out, strings.Repeat("-", 23))
}

// Jobs returns a copy of the rows currently displayed.
func (v *TableView) Jobs() []types.Job {
	v.mu.Lock()
	defer v.mu.Unlock()

	jobs := make([]types.Job, len(v.jobs))
	copy(jobs, v.jobs)
	return jobs
}

func (v *TableView) render() {
	title := cases.Title(language.English)
	fmt.Fprintf(v.out, "\n%-4s %-20s %-16s %-8s %-20s %-10s\n",
		"ID",
		title.String("name"),
		title.String("schedule"),
		title.String("active"),
		title.String("next run"),
		title.String("status"),
	)
	fmt.Fprintln(v.out, strings.Repeat("-", 82))

	for _, job := range v.jobs {
		active := "no"
		if job.IsActive {
			active = "yes"
		}
		fmt.Fprintf(v.out, "%-4d %-20s %-16s %-8s %-20s %-10s\n",
			job.ID, job.Name, job.Schedule, active, job.NextRun, job.Status)
	}
}
