// Package config loads service configuration from file and environment.
package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// maxUploadCeiling is the hard upper bound on statement size. Config can
// lower the limit but never raise it past this.
const maxUploadCeiling = 10 << 20

// Config holds everything the api and worker binaries need.
type Config struct {
	Server   ServerConfig
	Pipeline PipelineConfig
	Queue    QueueConfig
	BigQuery BigQueryConfig
	GCS      GCSConfig
}

// ServerConfig holds HTTP listener settings.
type ServerConfig struct {
	Port            int
	ShutdownTimeout int // seconds
}

// PipelineConfig bounds statement parsing.
type PipelineConfig struct {
	MaxUploadBytes int64
	PreviewLimit   int
	EventLogSize   int
}

// QueueConfig sizes the in-process job queue.
type QueueConfig struct {
	BufferSize int
	Workers    int
}

// BigQueryConfig selects the analytics dataset. Empty Project means the
// in-memory store is used instead.
type BigQueryConfig struct {
	Project string
	Dataset string
}

// GCSConfig names the bucket statements are staged in.
type GCSConfig struct {
	Bucket string
}

// Load reads configuration from an optional file plus the environment.
// Env var overrides use prefix BANKFEED_, e.g. BANKFEED_SERVER_PORT.
func Load() (Config, error) {
	v := viper.New()

	v.SetDefault("server.port", 8080)
	v.SetDefault("server.shutdown_timeout", 15)
	v.SetDefault("pipeline.max_upload_bytes", maxUploadCeiling)
	v.SetDefault("pipeline.preview_limit", 500)
	v.SetDefault("pipeline.event_log_size", 256)
	v.SetDefault("queue.buffer_size", 64)
	v.SetDefault("queue.workers", 4)
	v.SetDefault("bigquery.project", "")
	v.SetDefault("bigquery.dataset", "bankfeed")
	v.SetDefault("gcs.bucket", "")

	v.SetConfigType("yaml")
	if path := v.GetString("config"); path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("bankfeed")
		v.AddConfigPath(".")
		v.AddConfigPath("/etc/bankfeed")
	}

	v.SetEnvPrefix("BANKFEED")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// config file is optional
	_ = v.ReadInConfig()

	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return Config{}, fmt.Errorf("Load: unmarshal config: %w", err)
	}

	if c.Pipeline.MaxUploadBytes <= 0 || c.Pipeline.MaxUploadBytes > maxUploadCeiling {
		c.Pipeline.MaxUploadBytes = maxUploadCeiling
	}
	if c.Queue.Workers <= 0 {
		c.Queue.Workers = 1
	}
	if c.Pipeline.EventLogSize <= 0 {
		c.Pipeline.EventLogSize = 256
	}

	return c, nil
}
