// The ingest binary parses a statement file from disk, prints the
// preview, and can commit it straight into an account. Useful for local
// testing and one-off backfills.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"os"
	"path/filepath"

	"github.com/dverenov/bankfeed/internal/config"
	"github.com/dverenov/bankfeed/internal/eventlog"
	"github.com/dverenov/bankfeed/internal/jobs"
	"github.com/dverenov/bankfeed/internal/logger"
	"github.com/dverenov/bankfeed/internal/pipeline"
	"github.com/dverenov/bankfeed/internal/reconcile"
	bqstore "github.com/dverenov/bankfeed/internal/store/bigquery"
)

func main() {
	var (
		file          = flag.String("file", "", "Path to the statement file")
		accountID     = flag.String("account", "", "Account ID to import into (required with -commit)")
		commit        = flag.Bool("commit", false, "Commit the parsed transactions instead of just previewing")
		updateBalance = flag.Bool("update-balance", false, "Set the account balance from the statement snapshot")
	)
	flag.Parse()

	log := logger.New("ingest")

	if *file == "" {
		log.Fatal().Msg("-file is required")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}

	data, err := os.ReadFile(*file)
	if err != nil {
		log.Fatal().Err(err).Str("file", *file).Msg("Failed to read statement")
	}

	ctx := context.Background()

	svc := pipeline.New(nil, eventlog.New(cfg.Pipeline.EventLogSize), log, pipeline.Options{
		MaxUploadBytes: cfg.Pipeline.MaxUploadBytes,
	})

	job := &jobs.ParseJob{
		JobID:    "local",
		Filename: filepath.Base(*file),
		Size:     int64(len(data)),
	}
	if err := svc.ParseStatement(ctx, job, data); err != nil {
		log.Fatal().Err(err).Msg("Parse failed")
	}

	log.Info().
		Int("total_rows", job.TotalRows).
		Int("parsed_rows", job.ParsedRows).
		Int("warnings", len(job.Preview.Warnings)).
		Msg("Statement parsed")

	if !*commit {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(job.Preview); err != nil {
			log.Fatal().Err(err).Msg("Failed to print preview")
		}
		return
	}

	if *accountID == "" {
		log.Fatal().Msg("-account is required with -commit")
	}
	if cfg.BigQuery.Project == "" {
		log.Fatal().Msg("BANKFEED_BIGQUERY_PROJECT is required with -commit")
	}

	bq, err := bqstore.NewStore(ctx, cfg.BigQuery.Project, cfg.BigQuery.Dataset)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to create BigQuery store")
	}
	defer bq.Close()

	importer := reconcile.NewImporter(bq, bq, log)
	result, err := importer.Import(ctx, *accountID, job.Preview.Transactions, reconcile.Options{
		UpdateAccountBalance: *updateBalance,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("Import failed")
	}

	log.Info().
		Str("account_id", *accountID).
		Int("added", result.Added).
		Int("duplicates", result.Duplicates).
		Msg("Import committed")

	for _, e := range result.Errors {
		log.Warn().Str("error", e).Msg("Import reported a problem")
	}
}
