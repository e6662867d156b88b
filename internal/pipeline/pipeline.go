// Package pipeline runs an uploaded statement through format detection,
// extraction and normalization, producing a reviewable preview on the
// parse job. It never writes to any account; committing a preview is the
// reconcile package's job.
package pipeline

import (
	"bytes"
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/dverenov/bankfeed/internal/detect"
	"github.com/dverenov/bankfeed/internal/domain"
	"github.com/dverenov/bankfeed/internal/eventlog"
	"github.com/dverenov/bankfeed/internal/extract"
	"github.com/dverenov/bankfeed/internal/jobs"
	"github.com/dverenov/bankfeed/internal/normalize"
)

// BlobFetcher retrieves the statement bytes for a job. Implementations
// cover in-process blobs and GCS-staged uploads.
type BlobFetcher interface {
	Fetch(ctx context.Context, job *jobs.ParseJob) ([]byte, error)
}

// Options tunes a Service.
type Options struct {
	// MaxUploadBytes rejects oversized statements before any decoding.
	MaxUploadBytes int64

	// PreviewLimit caps how many transactions a preview carries. Zero
	// means no cap.
	PreviewLimit int
}

// Service is the statement parsing pipeline.
type Service struct {
	registry   *extract.Registry
	normalizer *normalize.Normalizer
	jobStore   jobs.Store
	events     *eventlog.Log
	log        zerolog.Logger
	opts       Options
}

// New creates a Service with the built-in extractor registry.
func New(jobStore jobs.Store, events *eventlog.Log, log zerolog.Logger, opts Options) *Service {
	return &Service{
		registry:   extract.DefaultRegistry(),
		normalizer: normalize.New(),
		jobStore:   jobStore,
		events:     events,
		log:        log,
		opts:       opts,
	}
}

// Handler adapts the pipeline to the job queue: it fetches the job's
// statement bytes and parses them onto the job.
func (s *Service) Handler(blobs BlobFetcher) jobs.Handler {
	return func(ctx context.Context, job *jobs.ParseJob) error {
		data, err := blobs.Fetch(ctx, job)
		if err != nil {
			return fmt.Errorf("fetching statement for job %s: %w", job.JobID, err)
		}
		return s.ParseStatement(ctx, job, data)
	}
}

// ParseStatement runs the full parse on data and records the preview on
// job. Row-level problems degrade to preview warnings; only file-level
// failures (empty, oversized, unsupported, corrupt) return an error.
func (s *Service) ParseStatement(ctx context.Context, job *jobs.ParseJob, data []byte) error {
	if len(data) == 0 {
		s.record(job, "guard", "empty upload rejected")
		return domain.ErrEmptyFile
	}
	if s.opts.MaxUploadBytes > 0 && int64(len(data)) > s.opts.MaxUploadBytes {
		s.record(job, "guard", fmt.Sprintf("upload of %d bytes exceeds limit", len(data)))
		return fmt.Errorf("upload is %d bytes, limit is %d: %w", len(data), s.opts.MaxUploadBytes, domain.ErrFileTooLarge)
	}

	format, err := detect.Detect(data, job.Filename, job.ContentType)
	if err != nil {
		s.record(job, "detect", err.Error())
		return err
	}
	s.record(job, "detect", fmt.Sprintf("format %s", format))
	s.progress(ctx, job, 25)

	extractor := s.registry.Get(format)
	if extractor == nil {
		return fmt.Errorf("no extractor for format %s: %w", format, domain.ErrUnsupportedFormat)
	}

	result, err := extractor.Extract(bytes.NewReader(data))
	if err != nil {
		s.record(job, "extract", err.Error())
		return fmt.Errorf("extracting %s: %w", job.Filename, err)
	}
	s.record(job, "extract", fmt.Sprintf("%d rows, %d warnings", len(result.Rows), len(result.Warnings)))
	s.progress(ctx, job, 60)

	txns, normWarnings := s.normalizer.Normalize(result.Rows)
	s.record(job, "normalize", fmt.Sprintf("%d of %d rows normalized", len(txns), len(result.Rows)))

	warnings := append(append([]string{}, result.Warnings...), normWarnings...)
	preview := &jobs.Preview{Transactions: txns, Warnings: warnings}
	if s.opts.PreviewLimit > 0 && len(preview.Transactions) > s.opts.PreviewLimit {
		preview.Warnings = append(preview.Warnings,
			fmt.Sprintf("preview truncated to %d of %d transactions", s.opts.PreviewLimit, len(txns)))
		preview.Transactions = preview.Transactions[:s.opts.PreviewLimit]
	}

	job.TotalRows = len(result.Rows)
	job.ParsedRows = len(txns)
	job.Preview = preview
	s.progress(ctx, job, 90)

	s.log.Info().
		Str("job_id", job.JobID).
		Str("filename", job.Filename).
		Str("format", string(format)).
		Int("total_rows", job.TotalRows).
		Int("parsed_rows", job.ParsedRows).
		Int("warnings", len(warnings)).
		Msg("Statement parsed")

	return nil
}

func (s *Service) progress(ctx context.Context, job *jobs.ParseJob, pct int) {
	job.Progress = pct
	if s.jobStore != nil {
		_ = s.jobStore.SaveJob(ctx, job)
	}
}

func (s *Service) record(job *jobs.ParseJob, stage, message string) {
	if s.events != nil {
		s.events.Record(job.JobID, stage, message)
	}
}
