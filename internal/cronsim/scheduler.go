package cronsim

import (
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"
)

// Scheduler fires active jobs on their cron schedule. Each firing takes the
// same per-job run lock a manual run does, so a schedule tick never overlaps
// a run that is still going.
type Scheduler struct {
	cron     *cron.Cron
	store    *Store
	logger   *logrus.Logger
	entries  map[int]cron.EntryID
	mu       sync.Mutex
	started  bool
	runDelay time.Duration
}

func NewScheduler(store *Store, logger *logrus.Logger) *Scheduler {
	return &Scheduler{
		cron:     cron.New(),
		store:    store,
		logger:   logger,
		entries:  make(map[int]cron.EntryID),
		runDelay: time.Second,
	}
}

// Sync rebuilds the cron entries from the store: disabled and deleted jobs
// drop out, new and rescheduled jobs are (re-)added.
func (s *Scheduler) Sync() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for jobID, entryID := range s.entries {
		s.cron.Remove(entryID)
		delete(s.entries, jobID)
	}

	for _, job := range s.store.List() {
		if !job.IsActive {
			s.logger.Debugf("Skipping disabled job: %s", job.Name)
			continue
		}

		jobID := job.ID
		jobName := job.Name
		command := job.Command

		entryID, err := s.cron.AddFunc(job.Schedule, func() {
			s.execute(jobID, jobName, command)
		})
		if err != nil {
			return fmt.Errorf("failed to schedule job %s: %w", job.Name, err)
		}
		s.entries[jobID] = entryID
	}

	return nil
}

func (s *Scheduler) execute(jobID int, jobName, command string) {
	pid, ok := s.store.TryLock(jobID)
	if !ok {
		s.logger.WithFields(logrus.Fields{
			"job_id":   jobID,
			"job_name": jobName,
		}).Warn("Previous run still holds the lock, skipping execution")
		return
	}
	defer s.store.Unlock(jobID)

	start := time.Now()
	s.logger.WithFields(logrus.Fields{
		"job_id":   jobID,
		"job_name": jobName,
		"pid":      pid,
	}).Info("Starting job execution")

	time.Sleep(s.runDelay)
	s.store.AppendLog(jobID, fmt.Sprintf("[%s] %s\nSuccess\n",
		start.Format("2006-01-02 15:04:05"), command))

	s.logger.WithFields(logrus.Fields{
		"job_id":   jobID,
		"job_name": jobName,
		"duration": time.Since(start).String(),
	}).Info("Job execution completed successfully")
}

func (s *Scheduler) Start() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return fmt.Errorf("scheduler already started")
	}
	s.cron.Start()
	s.started = true
	s.logger.Info("Scheduler started...")
	return nil
}

func (s *Scheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started {
		return
	}
	ctx := s.cron.Stop()
	<-ctx.Done()
	s.started = false
	s.logger.Info("Scheduler stopped")
}
