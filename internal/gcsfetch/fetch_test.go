package gcsfetch

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseURI(t *testing.T) {
	bucket, object, err := ParseURI("gs://statements/uploads/job-1/jan.csv")
	require.NoError(t, err)
	assert.Equal(t, "statements", bucket)
	assert.Equal(t, "uploads/job-1/jan.csv", object)

	for _, bad := range []string{"", "http://x/y", "gs://bucket-only", "gs://bucket/"} {
		_, _, err := ParseURI(bad)
		assert.Error(t, err, "uri %q", bad)
	}
}

func TestFilename(t *testing.T) {
	assert.Equal(t, "jan.csv", Filename("gs://statements/uploads/job-1/jan.csv"))
	assert.Equal(t, "bucket-only", Filename("gs://bucket-only"))
}
