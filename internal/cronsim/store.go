// Package cronsim is an in-process stand-in for the cron manager backend.
// It reproduces the real service's HTTP contract, including its status-code
// quirks: 404 for an invalid schedule on create, 500 for one on update, and
// 409 while a job's previous run still holds its lock.
package cronsim

import (
	"sort"
	"strings"
	"sync"

	"github.com/cronhq/cron-console/pkg/types"
)

const noLogYet = "No log yet"

// Store keeps jobs, per-job logs and run locks in memory.
type Store struct {
	mu      sync.RWMutex
	nextID  int
	nextPID int
	jobs    map[int]types.Job
	logs    map[int]string
	locks   map[int]int
}

func NewStore() *Store {
	return &Store{
		nextID:  1,
		nextPID: 1000,
		jobs:    make(map[int]types.Job),
		logs:    make(map[int]string),
		locks:   make(map[int]int),
	}
}

func (s *Store) List() []types.Job {
	s.mu.RLock()
	defer s.mu.RUnlock()

	jobs := make([]types.Job, 0, len(s.jobs))
	for _, job := range s.jobs {
		jobs = append(jobs, job)
	}
	sort.Slice(jobs, func(i, j int) bool {
		return jobs[i].ID < jobs[j].ID
	})
	return jobs
}

func (s *Store) Get(jobID int) (types.Job, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	job, found := s.jobs[jobID]
	return job, found
}

func (s *Store) Create(req types.JobRequest) types.Job {
	s.mu.Lock()
	defer s.mu.Unlock()

	job := types.Job{
		ID:       s.nextID,
		Name:     req.Name,
		Command:  req.Command,
		Schedule: req.Schedule,
		IsActive: true,
	}
	s.nextID++
	s.jobs[job.ID] = job
	return job
}

func (s *Store) Update(jobID int, req types.JobRequest) (types.Job, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	job, found := s.jobs[jobID]
	if !found {
		return types.Job{}, false
	}
	job.Name = req.Name
	job.Command = req.Command
	job.Schedule = req.Schedule
	s.jobs[jobID] = job
	return job, true
}

func (s *Store) Delete(jobID int) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, found := s.jobs[jobID]; !found {
		return false
	}
	delete(s.jobs, jobID)
	delete(s.logs, jobID)
	delete(s.locks, jobID)
	return true
}

// ToggleActive flips is_active and returns the new value.
func (s *Store) ToggleActive(jobID int) (bool, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	job, found := s.jobs[jobID]
	if !found {
		return false, false
	}
	job.IsActive = !job.IsActive
	s.jobs[jobID] = job
	return job.IsActive, true
}

// TryLock claims the run lock for jobID and returns a fresh pid. It fails
// when a run already holds the lock, returning that run's pid.
func (s *Store) TryLock(jobID int) (pid int, ok bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if existing, locked := s.locks[jobID]; locked {
		return existing, false
	}
	s.nextPID++
	s.locks[jobID] = s.nextPID
	return s.nextPID, true
}

func (s *Store) Unlock(jobID int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.locks, jobID)
}

func (s *Store) AppendLog(jobID int, text string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.logs[jobID] += text
}

func (s *Store) ClearLog(jobID int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.logs[jobID] = ""
}

// Log returns the job's full log text, or the "No log yet" placeholder the
// real backend serves for a job that has never logged. A cleared log is an
// empty string, not the placeholder.
func (s *Store) Log(jobID int) string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	log, found := s.logs[jobID]
	if !found {
		return noLogYet
	}
	return log
}

// watchStatus derives the display status from the tail of the log, the way
// the real backend does: the last whitespace token decides.
func watchStatus(log string) string {
	if log == noLogYet {
		return log
	}
	fields := strings.Fields(log)
	if len(fields) == 0 {
		return noLogYet
	}
	if fields[len(fields)-1] == "Failed" {
		return "Failed"
	}
	return "Success"
}
