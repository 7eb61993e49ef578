package controller

import (
	"fmt"
	"sync"

	"github.com/cronhq/cron-console/pkg/types"
)

// inflightSet guards against duplicate submission: at most one outstanding
// request per (jobID, action) pair. Different jobs, or different actions on
// the same job, proceed independently.
type inflightSet struct {
	mu      sync.Mutex
	pending map[string]struct{}
}

func newInflightSet() *inflightSet {
	return &inflightSet{pending: make(map[string]struct{})}
}

func inflightKey(jobID int, action types.Action) string {
	return fmt.Sprintf("%d:%s", jobID, action)
}

// begin claims the slot for jobID+action. It returns false when a request is
// already outstanding, in which case the caller must not issue another call.
func (s *inflightSet) begin(jobID int, action types.Action) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := inflightKey(jobID, action)
	if _, exists := s.pending[key]; exists {
		return false
	}
	s.pending[key] = struct{}{}
	return true
}

func (s *inflightSet) end(jobID int, action types.Action) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.pending, inflightKey(jobID, action))
}
