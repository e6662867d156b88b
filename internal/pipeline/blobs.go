package pipeline

import (
	"context"
	"fmt"
	"sync"

	"github.com/dverenov/bankfeed/internal/jobs"
)

// MemoryBlobs holds uploaded statement bytes keyed by job ID, for
// deployments without a staging bucket. Blobs are dropped on fetch so a
// completed job does not pin its upload in memory.
type MemoryBlobs struct {
	mu    sync.Mutex
	blobs map[string][]byte
}

// NewMemoryBlobs creates an empty blob cache.
func NewMemoryBlobs() *MemoryBlobs {
	return &MemoryBlobs{blobs: make(map[string][]byte)}
}

// Put stores data for jobID.
func (m *MemoryBlobs) Put(jobID string, data []byte) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.blobs[jobID] = data
}

// Fetch implements BlobFetcher.
func (m *MemoryBlobs) Fetch(ctx context.Context, job *jobs.ParseJob) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	data, ok := m.blobs[job.JobID]
	if !ok {
		return nil, fmt.Errorf("Fetch: no blob for job %s", job.JobID)
	}
	delete(m.blobs, job.JobID)
	return data, nil
}

var _ BlobFetcher = (*MemoryBlobs)(nil)
