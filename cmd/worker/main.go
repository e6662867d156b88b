// The worker binary runs the parse pipeline against statements staged in
// GCS. It shares the queue abstraction with the api binary; a deployment
// that needs cross-process distribution should back it with Pub/Sub.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/dverenov/bankfeed/internal/config"
	"github.com/dverenov/bankfeed/internal/eventlog"
	"github.com/dverenov/bankfeed/internal/gcsfetch"
	jobsmem "github.com/dverenov/bankfeed/internal/jobs/inmemory"
	"github.com/dverenov/bankfeed/internal/logger"
	"github.com/dverenov/bankfeed/internal/pipeline"
)

func main() {
	log := logger.New("worker")

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}
	if cfg.GCS.Bucket == "" {
		log.Fatal().Msg("BANKFEED_GCS_BUCKET is required for the worker")
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	gcs, err := gcsfetch.NewClient(ctx, cfg.GCS.Bucket)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to create GCS client")
	}
	defer gcs.Close()

	jobStore := jobsmem.NewStore()
	queue := jobsmem.NewQueue(cfg.Queue.BufferSize, cfg.Queue.Workers, jobStore)
	events := eventlog.New(cfg.Pipeline.EventLogSize)

	svc := pipeline.New(jobStore, events, log, pipeline.Options{
		MaxUploadBytes: cfg.Pipeline.MaxUploadBytes,
		PreviewLimit:   cfg.Pipeline.PreviewLimit,
	})

	if err := queue.Start(ctx, svc.Handler(gcs)); err != nil {
		log.Fatal().Err(err).Msg("Failed to start job consumer")
	}

	log.Info().Int("workers", cfg.Queue.Workers).Msg("Worker started, waiting for jobs")

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Shutting down worker...")
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := queue.Stop(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Error during graceful shutdown")
	}

	log.Info().Msg("Worker exited")
}
