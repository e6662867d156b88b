package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, int64(10<<20), cfg.Pipeline.MaxUploadBytes)
	assert.Equal(t, 4, cfg.Queue.Workers)
	assert.Equal(t, "bankfeed", cfg.BigQuery.Dataset)
}

func TestLoad_EnvOverride(t *testing.T) {
	t.Setenv("BANKFEED_SERVER_PORT", "9090")
	t.Setenv("BANKFEED_QUEUE_WORKERS", "8")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, 8, cfg.Queue.Workers)
}

func TestLoad_UploadLimitClampedToCeiling(t *testing.T) {
	t.Setenv("BANKFEED_PIPELINE_MAX_UPLOAD_BYTES", "999999999")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, int64(10<<20), cfg.Pipeline.MaxUploadBytes)
}
