// Package session holds the transient UI state: which form dialog is open
// and which popup is visible. None of it survives a restart.
package session

import (
	"github.com/cronhq/cron-console/pkg/types"
)

// ModalState tags the single form slot. Exactly one dialog exists; opening
// another request while one is open replaces the state rather than stacking.
type ModalState int

const (
	ModalClosed ModalState = iota
	ModalAdd
	ModalEdit
)

func (s ModalState) String() string {
	switch s {
	case ModalAdd:
		return "add"
	case ModalEdit:
		return "edit"
	default:
		return "closed"
	}
}

// Modal is the add/edit dialog session: open/closed state plus the form
// fields being edited.
type Modal struct {
	state  ModalState
	jobID  int
	fields types.JobRequest
}

func NewModal() *Modal {
	return &Modal{}
}

// OpenAdd opens the dialog for a new job with empty fields.
func (m *Modal) OpenAdd() {
	m.state = ModalAdd
	m.jobID = 0
	m.fields = types.JobRequest{}
}

// OpenEdit opens the dialog pre-populated from the job's last-known state.
func (m *Modal) OpenEdit(job types.Job) {
	m.state = ModalEdit
	m.jobID = job.ID
	m.fields = types.JobRequest{
		Command:  job.Command,
		Name:     job.Name,
		Schedule: job.Schedule,
	}
}

// Close dismisses the dialog. Cancel, outside-click, Escape and a successful
// create/update all end up here.
func (m *Modal) Close() {
	m.state = ModalClosed
	m.jobID = 0
	m.fields = types.JobRequest{}
}

func (m *Modal) State() ModalState {
	return m.state
}

func (m *Modal) IsOpen() bool {
	return m.state != ModalClosed
}

// JobID returns the job being edited; only meaningful in the edit state.
func (m *Modal) JobID() int {
	return m.jobID
}

func (m *Modal) Fields() types.JobRequest {
	return m.fields
}

func (m *Modal) SetCommand(command string) {
	m.fields.Command = command
}

func (m *Modal) SetName(name string) {
	m.fields.Name = name
}

func (m *Modal) SetSchedule(schedule string) {
	m.fields.Schedule = schedule
}
