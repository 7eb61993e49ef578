package controller

import (
	"fmt"
	"time"

	"github.com/cronhq/cron-console/pkg/types"
	"github.com/patrickmn/go-cache"
)

const jobCacheKey = "job:%d"

// Snapshot holds the last server-confirmed view of each job. It is the
// rollback baseline for optimistic changes and the source for edit
// pre-population; it is never written from a value the server rejected.
type Snapshot struct {
	cache *cache.Cache
}

func NewSnapshot() *Snapshot {
	return &Snapshot{cache: cache.New(5*time.Minute, 10*time.Second)}
}

func (s *Snapshot) SetAll(jobs []types.Job) {
	s.cache.Flush()
	for _, job := range jobs {
		s.cache.Set(fmt.Sprintf(jobCacheKey, job.ID), job, cache.DefaultExpiration)
	}
}

func (s *Snapshot) Get(jobID int) (types.Job, bool) {
	if cached, found := s.cache.Get(fmt.Sprintf(jobCacheKey, jobID)); found {
		return cached.(types.Job), true
	}
	return types.Job{}, false
}

// SetActive records a server-confirmed is_active value.
func (s *Snapshot) SetActive(jobID int, active bool) {
	job, found := s.Get(jobID)
	if !found {
		return
	}
	job.IsActive = active
	s.cache.Set(fmt.Sprintf(jobCacheKey, jobID), job, cache.DefaultExpiration)
}

func (s *Snapshot) Delete(jobID int) {
	s.cache.Delete(fmt.Sprintf(jobCacheKey, jobID))
}
