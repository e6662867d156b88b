// Package jobs defines the asynchronous statement-parsing job model and
// the queue/store abstractions it moves through.
package jobs

import (
	"context"
	"time"

	"github.com/dverenov/bankfeed/internal/domain"
)

// Status is the lifecycle state of a parse job.
type Status string

const (
	// StatusPending means the job is queued and has not started.
	StatusPending Status = "pending"
	// StatusProcessing means a worker is parsing the statement.
	StatusProcessing Status = "processing"
	// StatusCompleted means parsing finished and a preview is available.
	StatusCompleted Status = "completed"
	// StatusFailed means parsing failed; Error carries the reason.
	StatusFailed Status = "failed"
)

// Preview is the review payload a completed parse job exposes: the
// normalized transactions plus the per-row problems encountered on the
// way. Nothing here has been committed to an account yet.
type Preview struct {
	Transactions []domain.ParsedTransaction `json:"transactions"`
	Warnings     []string                   `json:"warnings,omitempty"`
}

// ParseJob tracks one uploaded statement from enqueue to preview.
type ParseJob struct {
	JobID string `json:"job_id"`

	// Upload metadata, captured at enqueue time.
	Filename    string `json:"filename"`
	ContentType string `json:"content_type,omitempty"`
	Size        int64  `json:"size"`

	// GCSURI is set when the statement body lives in a bucket rather
	// than in the request that created the job.
	GCSURI string `json:"gcs_uri,omitempty"`

	Status Status `json:"status"`

	// Progress runs 0..100 as the worker moves through detect,
	// extract and normalize.
	Progress int `json:"progress"`

	// TotalRows and ParsedRows report how much of the statement
	// survived normalization.
	TotalRows  int `json:"total_rows"`
	ParsedRows int `json:"parsed_rows"`

	Preview *Preview `json:"preview,omitempty"`
	Error   string   `json:"error,omitempty"`

	CreatedAt   time.Time  `json:"created_at"`
	StartedAt   *time.Time `json:"started_at,omitempty"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
}

// Store persists parse-job state so clients can poll it.
type Store interface {
	// SaveJob creates or replaces a job record.
	SaveJob(ctx context.Context, job *ParseJob) error

	// GetJob retrieves a job by ID.
	GetJob(ctx context.Context, jobID string) (*ParseJob, error)

	// ListJobs retrieves jobs matching the filter.
	ListJobs(ctx context.Context, filter Filter) ([]*ParseJob, error)
}

// Filter narrows a ListJobs call.
type Filter struct {
	Status Status
	Limit  int
	Offset int
}

// Handler processes one dequeued parse job. Returning an error marks
// the job failed; the handler is responsible for its own retries.
type Handler func(ctx context.Context, job *ParseJob) error

// Publisher enqueues parse jobs. Implementations may be in-process
// channels or an external broker.
type Publisher interface {
	Publish(ctx context.Context, job *ParseJob) error
	Close() error
}

// Consumer pulls parse jobs and feeds them to a Handler.
type Consumer interface {
	// Start launches the worker pool. It returns once the workers are
	// running, not when they finish.
	Start(ctx context.Context, handler Handler) error

	// Stop shuts the pool down and waits for in-flight jobs, bounded
	// by ctx.
	Stop(ctx context.Context) error
}
