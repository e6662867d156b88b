package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/dverenov/bankfeed/internal/api/handlers"
	"github.com/dverenov/bankfeed/internal/config"
	"github.com/dverenov/bankfeed/internal/eventlog"
	"github.com/dverenov/bankfeed/internal/gcsfetch"
	jobsmem "github.com/dverenov/bankfeed/internal/jobs/inmemory"
	"github.com/dverenov/bankfeed/internal/logger"
	"github.com/dverenov/bankfeed/internal/pipeline"
	"github.com/dverenov/bankfeed/internal/reconcile"
	"github.com/dverenov/bankfeed/internal/store"
	bqstore "github.com/dverenov/bankfeed/internal/store/bigquery"
	storemem "github.com/dverenov/bankfeed/internal/store/inmemory"
)

func main() {
	log := logger.New("api")

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}

	ctx := context.Background()

	// Pick the store: BigQuery when a project is configured, in-memory
	// otherwise.
	var (
		accounts store.AccountRepository
		txs      store.TransactionRepository
	)
	if cfg.BigQuery.Project != "" {
		bq, err := bqstore.NewStore(ctx, cfg.BigQuery.Project, cfg.BigQuery.Dataset)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to create BigQuery store")
		}
		defer bq.Close()
		accounts, txs = bq, bq
		log.Info().Str("project", cfg.BigQuery.Project).Str("dataset", cfg.BigQuery.Dataset).Msg("Using BigQuery store")
	} else {
		mem := storemem.NewStore()
		accounts, txs = mem, mem
		log.Warn().Msg("No BigQuery project configured, using in-memory store")
	}

	jobStore := jobsmem.NewStore()
	queue := jobsmem.NewQueue(cfg.Queue.BufferSize, cfg.Queue.Workers, jobStore)
	events := eventlog.New(cfg.Pipeline.EventLogSize)

	svc := pipeline.New(jobStore, events, log, pipeline.Options{
		MaxUploadBytes: cfg.Pipeline.MaxUploadBytes,
		PreviewLimit:   cfg.Pipeline.PreviewLimit,
	})

	// Uploads are staged in GCS when a bucket is configured, otherwise
	// held in process until the worker picks them up.
	blobs := pipeline.NewMemoryBlobs()
	var (
		fetcher pipeline.BlobFetcher = blobs
		stager  handlers.Stager
	)
	if cfg.GCS.Bucket != "" {
		gcs, err := gcsfetch.NewClient(ctx, cfg.GCS.Bucket)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to create GCS client")
		}
		defer gcs.Close()
		fetcher, stager = gcs, gcs
		log.Info().Str("bucket", cfg.GCS.Bucket).Msg("Staging uploads in GCS")
	}

	workerCtx, cancelWorker := context.WithCancel(ctx)
	defer cancelWorker()

	if err := queue.Start(workerCtx, svc.Handler(fetcher)); err != nil {
		log.Fatal().Err(err).Msg("Failed to start job workers")
	}

	importer := reconcile.NewImporter(accounts, txs, log)

	router := handlers.NewRouter(handlers.Deps{
		Statements: handlers.NewStatementsHandler(queue, blobs, stager, cfg.Pipeline.MaxUploadBytes, log),
		Jobs:       handlers.NewJobsHandler(jobStore, log),
		Imports:    handlers.NewImportsHandler(jobStore, importer, log),
		Events:     handlers.NewEventsHandler(events),
		Log:        log,
	})

	server := &http.Server{
		Addr:         ":" + strconv.Itoa(cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Info().Int("port", cfg.Server.Port).Msg("Starting API server")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("Failed to start server")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Shutting down server...")
	cancelWorker()

	shutdownCtx, cancel := context.WithTimeout(context.Background(),
		time.Duration(cfg.Server.ShutdownTimeout)*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Server forced to shutdown")
	}
	if err := queue.Stop(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Error stopping job queue")
	}

	log.Info().Msg("Server exited")
}
