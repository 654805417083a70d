package main

import (
	"context"
	"flag"
	"os"

	"github.com/taiwanway/sales-tracker/internal/config"
	"github.com/taiwanway/sales-tracker/internal/infra/sqlite"
	"github.com/taiwanway/sales-tracker/internal/logger"
	"github.com/taiwanway/sales-tracker/internal/report"
)

func main() {
	var (
		column = flag.String("column", "Item", "column holding the product name")
		out    = flag.String("out", "items.md", "output Markdown file")
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

	ctx := context.Background()

	total, err := db.CountSales(ctx)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to count sales records")
	}

	items, err := db.DistinctItems(ctx, *column)
	if err != nil {
		log.Fatal().Err(err).Str("column", *column).Msg("Failed to list items")
	}

	f, err := os.Create(*out)
	if err != nil {
		log.Fatal().Err(err).Str("path", *out).Msg("Failed to create report file")
	}
	defer f.Close()

	if err := report.WriteItemsReport(f, total, items); err != nil {
		log.Fatal().Err(err).Msg("Failed to write report")
	}

	log.Info().Str("path", *out).Int("records", total).Int("items", len(items)).Msg("Items report written")
}
