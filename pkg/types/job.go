package types

// Job represents a scheduled job as reported by the cron manager backend.
// The id is server-assigned and opaque; next_run and status are recomputed
// server-side and never derived locally.
type Job struct {
	ID       int    `json:"id"`
	Name     string `json:"name"`
	Command  string `json:"command"`
	Schedule string `json:"schedule"`
	IsActive bool   `json:"is_active"`
	NextRun  string `json:"next_run,omitempty"`
	Status   string `json:"status,omitempty"`
}

// JobRequest is the payload for create and update calls.
type JobRequest struct {
	Command  string `json:"command"`
	Name     string `json:"name"`
	Schedule string `json:"schedule"`
}

// Complete reports whether every field carries a value. This is a presence
// check only; schedule syntax is validated by the backend.
func (r JobRequest) Complete() bool {
	return r.Command != "" && r.Name != "" && r.Schedule != ""
}
