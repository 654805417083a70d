package main

import (
	"context"
	"flag"
	"time"

	"github.com/google/uuid"

	"github.com/taiwanway/sales-tracker/internal/config"
	"github.com/taiwanway/sales-tracker/internal/infra/sqlite"
	"github.com/taiwanway/sales-tracker/internal/logger"
	"github.com/taiwanway/sales-tracker/internal/pipeline"
	"github.com/taiwanway/sales-tracker/internal/square"
)

func main() {
	var (
		modeFlag = flag.String("mode", "incremental", "download mode: from-scratch or incremental")
		dbPath   = flag.String("db", "", "transactions database path (overrides TRANSACTIONS_DB env)")
	)
	flag.Parse()

	log := logger.New()
	runID := uuid.New().String()
	log = log.With().Str("run_id", runID).Logger()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}
	if err := cfg.RequireSquareToken(); err != nil {
		log.Fatal().Err(err).Msg("Missing credentials")
	}
	if *dbPath != "" {
		cfg.TransactionsDB = *dbPath
	}

	var mode pipeline.Mode
	switch *modeFlag {
	case "from-scratch":
		mode = pipeline.FromScratch
	case "incremental":
		mode = pipeline.Incremental
	default:
		log.Fatal().Str("mode", *modeFlag).Msg("Unknown mode, want from-scratch or incremental")
	}

	db, err := sqlite.OpenTransactions(cfg.TransactionsDB)
	if err != nil {
		log.Fatal().Err(err).Str("db", cfg.TransactionsDB).Msg("Failed to open database")
	}
	defer db.Close()

	client := square.NewClient(cfg.SquareAccessToken, cfg.SquareEnvironment)
	fetcher := pipeline.NewFetcher(client, cfg.SquareLocationID, pipeline.BusinessZone())

	ctx := logger.WithContext(context.Background(), log)
	start := time.Now()

	txns, lines, err := pipeline.Run(ctx, fetcher, db, mode, time.Now())
	if err != nil {
		log.Fatal().Err(err).Msg("Download failed")
	}

	count, err := db.CountTransactions(ctx)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to count transactions")
	}

	log.Info().
		Str("mode", *modeFlag).
		Int("transactions", txns).
		Int("sales_lines", lines).
		Int("total_transactions", count).
		Dur("duration", time.Since(start)).
		Msg("Download complete")
}
