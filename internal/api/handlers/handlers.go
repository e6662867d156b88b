// Package handlers implements the HTTP endpoints for statement uploads,
// parse-job polling and import commits.
package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/dverenov/bankfeed/internal/api/middleware"
	"github.com/dverenov/bankfeed/internal/domain"
	"github.com/dverenov/bankfeed/internal/eventlog"
	"github.com/dverenov/bankfeed/internal/jobs"
	"github.com/dverenov/bankfeed/internal/pipeline"
	"github.com/dverenov/bankfeed/internal/reconcile"
)

// Stager moves uploaded statement bytes somewhere the worker can fetch
// them from, returning the gs:// URI. Nil Stager means the in-process
// blob cache is used instead.
type Stager interface {
	Stage(ctx context.Context, jobID, filename string, data []byte) (string, error)
}

// StatementsHandler accepts statement uploads and enqueues parse jobs.
type StatementsHandler struct {
	publisher jobs.Publisher
	blobs     *pipeline.MemoryBlobs
	stager    Stager
	maxBytes  int64
	log       zerolog.Logger
}

// NewStatementsHandler creates the upload handler. stager may be nil;
// uploads are then held in blobs until the worker fetches them.
func NewStatementsHandler(publisher jobs.Publisher, blobs *pipeline.MemoryBlobs, stager Stager, maxBytes int64, log zerolog.Logger) *StatementsHandler {
	return &StatementsHandler{
		publisher: publisher,
		blobs:     blobs,
		stager:    stager,
		maxBytes:  maxBytes,
		log:       log,
	}
}

// Upload handles POST /api/statements. The statement file comes in the
// "file" multipart field.
func (h *StatementsHandler) Upload(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	r.Body = http.MaxBytesReader(w, r.Body, h.maxBytes+1)
	if err := r.ParseMultipartForm(h.maxBytes + 1); err != nil {
		middleware.WriteError(w, http.StatusRequestEntityTooLarge, "Upload exceeds size limit")
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		middleware.WriteError(w, http.StatusBadRequest, "Missing file field")
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		middleware.WriteError(w, http.StatusBadRequest, "Unreadable upload")
		return
	}
	if len(data) == 0 {
		middleware.WriteError(w, http.StatusBadRequest, "Empty file")
		return
	}
	if int64(len(data)) > h.maxBytes {
		middleware.WriteError(w, http.StatusRequestEntityTooLarge, "Upload exceeds size limit")
		return
	}

	job := &jobs.ParseJob{
		Filename:    header.Filename,
		ContentType: header.Header.Get("Content-Type"),
		Size:        int64(len(data)),
	}

	// Stage the bytes before publishing so a worker can never dequeue a
	// job whose blob is not there yet.
	job.JobID = uuid.NewString()

	if h.stager != nil {
		uri, err := h.stager.Stage(ctx, job.JobID, job.Filename, data)
		if err != nil {
			h.log.Error().Err(err).Str("filename", job.Filename).Msg("Failed to stage upload")
			middleware.WriteError(w, http.StatusInternalServerError, "Failed to store upload")
			return
		}
		job.GCSURI = uri
	} else {
		h.blobs.Put(job.JobID, data)
	}

	if err := h.publisher.Publish(ctx, job); err != nil {
		h.log.Error().Err(err).Msg("Failed to enqueue parse job")
		middleware.WriteError(w, http.StatusInternalServerError, "Failed to enqueue parse job")
		return
	}

	h.log.Info().
		Str("job_id", job.JobID).
		Str("filename", job.Filename).
		Int64("size", job.Size).
		Msg("Statement upload accepted")

	middleware.WriteJSON(w, http.StatusAccepted, map[string]string{
		"job_id": job.JobID,
		"status": string(job.Status),
	})
}

// JobsHandler exposes parse-job state.
type JobsHandler struct {
	store jobs.Store
	log   zerolog.Logger
}

// NewJobsHandler creates a jobs handler.
func NewJobsHandler(store jobs.Store, log zerolog.Logger) *JobsHandler {
	return &JobsHandler{store: store, log: log}
}

// GetJob handles GET /api/jobs/{id}.
func (h *JobsHandler) GetJob(w http.ResponseWriter, r *http.Request, jobID string) {
	job, err := h.store.GetJob(r.Context(), jobID)
	if err != nil {
		middleware.WriteError(w, http.StatusNotFound, "Job not found")
		return
	}
	middleware.WriteJSON(w, http.StatusOK, job)
}

// ListJobs handles GET /api/jobs.
func (h *JobsHandler) ListJobs(w http.ResponseWriter, r *http.Request) {
	filter := jobs.Filter{Status: jobs.Status(r.URL.Query().Get("status"))}

	list, err := h.store.ListJobs(r.Context(), filter)
	if err != nil {
		h.log.Error().Err(err).Msg("Failed to list jobs")
		middleware.WriteError(w, http.StatusInternalServerError, "Failed to list jobs")
		return
	}

	middleware.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"jobs":  list,
		"count": len(list),
	})
}

// ImportsHandler commits a completed parse job's preview into an account.
type ImportsHandler struct {
	store    jobs.Store
	importer *reconcile.Importer
	log      zerolog.Logger
}

// NewImportsHandler creates an imports handler.
func NewImportsHandler(store jobs.Store, importer *reconcile.Importer, log zerolog.Logger) *ImportsHandler {
	return &ImportsHandler{store: store, importer: importer, log: log}
}

// Commit handles POST /api/imports.
func (h *ImportsHandler) Commit(w http.ResponseWriter, r *http.Request) {
	var req struct {
		AccountID            string `json:"account_id"`
		JobID                string `json:"job_id"`
		UpdateAccountBalance bool   `json:"update_account_balance"`
	}

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		middleware.WriteError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.AccountID == "" || req.JobID == "" {
		middleware.WriteError(w, http.StatusBadRequest, "account_id and job_id are required")
		return
	}

	ctx := r.Context()

	job, err := h.store.GetJob(ctx, req.JobID)
	if err != nil {
		middleware.WriteError(w, http.StatusNotFound, "Job not found")
		return
	}
	if job.Status != jobs.StatusCompleted || job.Preview == nil {
		middleware.WriteError(w, http.StatusConflict, "Job has no completed preview")
		return
	}

	result, err := h.importer.Import(ctx, req.AccountID, job.Preview.Transactions, reconcile.Options{
		UpdateAccountBalance: req.UpdateAccountBalance,
	})
	if err != nil {
		h.log.Error().Err(err).Str("account_id", req.AccountID).Str("job_id", req.JobID).Msg("Import failed")
		middleware.WriteError(w, statusForError(err), "Import failed: "+err.Error())
		return
	}

	middleware.WriteJSON(w, http.StatusOK, result)
}

// EventsHandler exposes the pipeline event trail.
type EventsHandler struct {
	events *eventlog.Log
}

// NewEventsHandler creates an events handler.
func NewEventsHandler(events *eventlog.Log) *EventsHandler {
	return &EventsHandler{events: events}
}

// ListEvents handles GET /api/events.
func (h *EventsHandler) ListEvents(w http.ResponseWriter, r *http.Request) {
	events := h.events.Events()
	middleware.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"events": events,
		"count":  len(events),
	})
}

// Health handles GET /healthz.
func Health(w http.ResponseWriter, r *http.Request) {
	middleware.WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// statusForError maps domain sentinels to HTTP status codes.
func statusForError(err error) int {
	switch {
	case errors.Is(err, domain.ErrAccountNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrEmptyFile),
		errors.Is(err, domain.ErrUnsupportedFormat),
		errors.Is(err, domain.ErrCorruptFile):
		return http.StatusUnprocessableEntity
	case errors.Is(err, domain.ErrFileTooLarge):
		return http.StatusRequestEntityTooLarge
	default:
		return http.StatusInternalServerError
	}
}
