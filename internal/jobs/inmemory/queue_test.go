package inmemory

import (
	"context"
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dverenov/bankfeed/internal/jobs"
)

func waitForStatus(t *testing.T, store *Store, jobID string, want jobs.Status) *jobs.ParseJob {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		job, err := store.GetJob(context.Background(), jobID)
		require.NoError(t, err)
		if job.Status == want {
			return job
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("job %s never reached status %s", jobID, want)
	return nil
}

func TestQueue_PublishAndComplete(t *testing.T) {
	store := NewStore()
	q := NewQueue(4, 2, store)
	defer q.Close()

	var handled atomic.Int32
	require.NoError(t, q.Start(context.Background(), func(ctx context.Context, job *jobs.ParseJob) error {
		handled.Add(1)
		job.Progress = 100
		job.ParsedRows = 3
		return nil
	}))

	job := &jobs.ParseJob{Filename: "jan.csv", Size: 512}
	require.NoError(t, q.Publish(context.Background(), job))
	assert.NotEmpty(t, job.JobID)

	got := waitForStatus(t, store, job.JobID, jobs.StatusCompleted)
	assert.Equal(t, int32(1), handled.Load())
	assert.Equal(t, 100, got.Progress)
	assert.Equal(t, 3, got.ParsedRows)
	assert.NotNil(t, got.StartedAt)
	assert.NotNil(t, got.CompletedAt)
}

func TestQueue_HandlerFailureMarksJobFailed(t *testing.T) {
	store := NewStore()
	q := NewQueue(1, 1, store)
	defer q.Close()

	require.NoError(t, q.Start(context.Background(), func(ctx context.Context, job *jobs.ParseJob) error {
		return fmt.Errorf("unreadable statement")
	}))

	job := &jobs.ParseJob{Filename: "broken.pdf"}
	require.NoError(t, q.Publish(context.Background(), job))

	got := waitForStatus(t, store, job.JobID, jobs.StatusFailed)
	assert.Equal(t, "unreadable statement", got.Error)
}

func TestQueue_PublishAfterCloseFails(t *testing.T) {
	store := NewStore()
	q := NewQueue(1, 1, store)
	require.NoError(t, q.Close())

	err := q.Publish(context.Background(), &jobs.ParseJob{Filename: "x.csv"})
	assert.Error(t, err)
}

func TestStore_ListJobsFiltersByStatus(t *testing.T) {
	store := NewStore()
	ctx := context.Background()

	base := time.Now()
	require.NoError(t, store.SaveJob(ctx, &jobs.ParseJob{JobID: "a", Status: jobs.StatusPending, CreatedAt: base}))
	require.NoError(t, store.SaveJob(ctx, &jobs.ParseJob{JobID: "b", Status: jobs.StatusCompleted, CreatedAt: base.Add(time.Second)}))
	require.NoError(t, store.SaveJob(ctx, &jobs.ParseJob{JobID: "c", Status: jobs.StatusCompleted, CreatedAt: base.Add(2 * time.Second)}))

	completed, err := store.ListJobs(ctx, jobs.Filter{Status: jobs.StatusCompleted})
	require.NoError(t, err)
	require.Len(t, completed, 2)
	// Newest first.
	assert.Equal(t, "c", completed[0].JobID)
	assert.Equal(t, "b", completed[1].JobID)

	limited, err := store.ListJobs(ctx, jobs.Filter{Limit: 1})
	require.NoError(t, err)
	assert.Len(t, limited, 1)
}

func TestStore_GetJobReturnsCopy(t *testing.T) {
	store := NewStore()
	ctx := context.Background()
	require.NoError(t, store.SaveJob(ctx, &jobs.ParseJob{JobID: "a", Filename: "jan.csv"}))

	got, err := store.GetJob(ctx, "a")
	require.NoError(t, err)
	got.Filename = "mutated.csv"

	again, err := store.GetJob(ctx, "a")
	require.NoError(t, err)
	assert.Equal(t, "jan.csv", again.Filename)
}
