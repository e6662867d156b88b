// Package gcsfetch stages uploaded statements in a GCS bucket and
// fetches them back for the worker. It assumes Application Default
// Credentials unless client options say otherwise.
package gcsfetch

import (
	"context"
	"fmt"
	"io"
	"path"
	"strings"
	"time"

	"cloud.google.com/go/storage"
	"google.golang.org/api/option"

	"github.com/dverenov/bankfeed/internal/jobs"
	"github.com/dverenov/bankfeed/internal/pipeline"
)

const uploadTimeout = 2 * time.Minute

// Client wraps a storage client bound to one staging bucket.
type Client struct {
	client *storage.Client
	bucket string
}

// NewClient creates a Client for bucket. Extra options (e.g.
// option.WithCredentialsFile) are passed through to the storage client.
func NewClient(ctx context.Context, bucket string, opts ...option.ClientOption) (*Client, error) {
	sc, err := storage.NewClient(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("NewClient: storage client: %w", err)
	}
	return &Client{client: sc, bucket: bucket}, nil
}

// Close releases the underlying storage client.
func (c *Client) Close() error {
	return c.client.Close()
}

// Stage writes data to the bucket under uploads/<jobID>/<filename> and
// returns the object's gs:// URI.
func (c *Client) Stage(ctx context.Context, jobID, filename string, data []byte) (string, error) {
	object := path.Join("uploads", jobID, path.Base(filename))

	ctx, cancel := context.WithTimeout(ctx, uploadTimeout)
	defer cancel()

	w := c.client.Bucket(c.bucket).Object(object).NewWriter(ctx)
	if _, err := w.Write(data); err != nil {
		_ = w.Close()
		return "", fmt.Errorf("Stage: writing %s: %w", object, err)
	}
	if err := w.Close(); err != nil {
		return "", fmt.Errorf("Stage: finalizing %s: %w", object, err)
	}

	return fmt.Sprintf("gs://%s/%s", c.bucket, object), nil
}

// Fetch implements pipeline.BlobFetcher using the job's GCSURI.
func (c *Client) Fetch(ctx context.Context, job *jobs.ParseJob) ([]byte, error) {
	bucket, object, err := ParseURI(job.GCSURI)
	if err != nil {
		return nil, fmt.Errorf("Fetch: job %s: %w", job.JobID, err)
	}

	rc, err := c.client.Bucket(bucket).Object(object).NewReader(ctx)
	if err != nil {
		return nil, fmt.Errorf("Fetch: opening %s/%s: %w", bucket, object, err)
	}
	defer rc.Close()

	data, err := io.ReadAll(rc)
	if err != nil {
		return nil, fmt.Errorf("Fetch: reading %s/%s: %w", bucket, object, err)
	}
	return data, nil
}

// ParseURI splits a gs://bucket/object URI into its parts.
func ParseURI(uri string) (bucket, object string, err error) {
	if !strings.HasPrefix(uri, "gs://") {
		return "", "", fmt.Errorf("invalid GCS URI: %s", uri)
	}
	parts := strings.SplitN(strings.TrimPrefix(uri, "gs://"), "/", 2)
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return "", "", fmt.Errorf("invalid GCS URI (no object path): %s", uri)
	}
	return parts[0], parts[1], nil
}

// Filename returns the base filename of a gs:// URI, or the URI itself
// when it has no object path.
func Filename(uri string) string {
	trimmed := strings.TrimPrefix(uri, "gs://")
	parts := strings.SplitN(trimmed, "/", 2)
	if len(parts) < 2 {
		return trimmed
	}
	return path.Base(parts[1])
}

var _ pipeline.BlobFetcher = (*Client)(nil)
