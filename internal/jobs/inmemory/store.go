// Package inmemory provides channel-backed implementations of the jobs
// queue and store for single-instance deployments and tests.
package inmemory

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/dverenov/bankfeed/internal/jobs"
)

// Store keeps parse jobs in a map. State is lost on restart; swap in a
// database-backed store when that matters.
type Store struct {
	mu   sync.RWMutex
	jobs map[string]*jobs.ParseJob
}

// NewStore creates an empty in-memory job store.
func NewStore() *Store {
	return &Store{jobs: make(map[string]*jobs.ParseJob)}
}

// SaveJob implements jobs.Store.
func (s *Store) SaveJob(ctx context.Context, job *jobs.ParseJob) error {
	if job.JobID == "" {
		return fmt.Errorf("SaveJob: job ID is required")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	cp := *job
	s.jobs[job.JobID] = &cp
	return nil
}

// GetJob implements jobs.Store.
func (s *Store) GetJob(ctx context.Context, jobID string) (*jobs.ParseJob, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	job, ok := s.jobs[jobID]
	if !ok {
		return nil, fmt.Errorf("GetJob: job not found: %s", jobID)
	}

	cp := *job
	return &cp, nil
}

// ListJobs implements jobs.Store. Results come back newest first.
func (s *Store) ListJobs(ctx context.Context, filter jobs.Filter) ([]*jobs.ParseJob, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]*jobs.ParseJob, 0, len(s.jobs))
	for _, job := range s.jobs {
		if filter.Status != "" && job.Status != filter.Status {
			continue
		}
		cp := *job
		result = append(result, &cp)
	}

	sort.Slice(result, func(i, j int) bool {
		return result[i].CreatedAt.After(result[j].CreatedAt)
	})

	if filter.Offset > 0 {
		if filter.Offset >= len(result) {
			return []*jobs.ParseJob{}, nil
		}
		result = result[filter.Offset:]
	}
	if filter.Limit > 0 && filter.Limit < len(result) {
		result = result[:filter.Limit]
	}

	return result, nil
}

var _ jobs.Store = (*Store)(nil)
