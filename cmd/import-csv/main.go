package main

import (
	"context"
	"flag"

	"github.com/taiwanway/sales-tracker/internal/config"
	"github.com/taiwanway/sales-tracker/internal/csvimport"
	"github.com/taiwanway/sales-tracker/internal/infra/sqlite"
	"github.com/taiwanway/sales-tracker/internal/logger"
)

func main() {
	var (
		folder = flag.String("folder", "data", "folder containing the CSV exports")
		dbPath = flag.String("db", "", "sales database path (overrides SALES_DB env)")
	)
	flag.Parse()

	log := logger.New()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}
	if *dbPath != "" {
		cfg.SalesDB = *dbPath
	}

	db, err := sqlite.Open(cfg.SalesDB)
	if err != nil {
		log.Fatal().Err(err).Str("db", cfg.SalesDB).Msg("Failed to open database")
	}
	defer db.Close()

	ctx := logger.WithContext(context.Background(), log)

	result, err := csvimport.ImportFolder(ctx, db, *folder)
	if err != nil {
		log.Fatal().Err(err).Str("folder", *folder).Msg("Import failed")
	}

	for _, f := range result.Files {
		if f.SkipReason != "" {
			log.Warn().Str("file", f.File).Str("reason", f.SkipReason).Msg("File skipped")
			continue
		}
		log.Info().
			Str("file", f.File).
			Int("rows_read", f.RowsRead).
			Int("duplicates", f.Duplicates).
			Int("inserted", f.Inserted).
			Msg("File imported")
	}

	log.Info().
		Int("files", len(result.Files)).
		Int("inserted", result.Inserted()).
		Int("coerced_currency", result.Cleanse.CoercedCurrency).
		Int("coerced_dates", result.Cleanse.CoercedDates).
		Msg("Import complete")
}
