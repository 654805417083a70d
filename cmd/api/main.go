package main

import (
	"context"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	"github.com/rs/zerolog"
	"google.golang.org/genai"

	"github.com/taiwanway/sales-tracker/internal/api/handlers"
	"github.com/taiwanway/sales-tracker/internal/api/middleware"
	"github.com/taiwanway/sales-tracker/internal/config"
	"github.com/taiwanway/sales-tracker/internal/infra/sqlite"
	"github.com/taiwanway/sales-tracker/internal/logger"
	"github.com/taiwanway/sales-tracker/internal/nlq"
	"github.com/taiwanway/sales-tracker/internal/sqlguard"
)

func main() {
	var (
		port   = flag.String("port", "", "HTTP server port (overrides PORT env)")
		dbPath = flag.String("db", "", "sales database path (overrides SALES_DB env)")
	)
	flag.Parse()

	log := logger.New()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}
	if *port != "" {
		cfg.Port = *port
	}
	if *dbPath != "" {
		cfg.SalesDB = *dbPath
	}

	ctx := context.Background()

	// The model needs the live schema to write correct SQL. The schema is
	// read once at boot; restart the server after re-importing data with a
	// different layout.
	generator, err := buildGenerator(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize SQL generator")
	}

	guard := sqlguard.New("sales")
	queryHandler := handlers.NewQueryHandler(cfg.SalesDB, guard, generator, cfg.Debug, log)

	r := mux.NewRouter()
	r.HandleFunc("/", queryHandler.Index).Methods(http.MethodGet)
	r.HandleFunc("/health", queryHandler.Health).Methods(http.MethodGet)
	r.HandleFunc("/api/raw-sql", queryHandler.RawSQL).Methods(http.MethodPost)
	r.HandleFunc("/api/nl-query", queryHandler.NLQuery).Methods(http.MethodPost)

	handler := middleware.Recovery(log, cfg.Debug)(
		middleware.Logger(log)(
			middleware.RequestID(
				middleware.CORS(
					middleware.RequireJSON(r),
				),
			),
		),
	)

	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Info().Str("port", cfg.Port).Str("db", cfg.SalesDB).Msg("Starting query server")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("Failed to start server")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Fatal().Err(err).Msg("Server forced to shutdown")
	}

	log.Info().Msg("Server exited")
}

// buildGenerator wires the natural-language SQL generator. A nil generator
// is returned when no model API key is configured; the endpoint then
// reports itself unavailable instead of failing at boot.
func buildGenerator(ctx context.Context, cfg *config.Config, log zerolog.Logger) (handlers.SQLGenerator, error) {
	if cfg.GeminiAPIKey == "" {
		log.Warn().Msg("GEMINI_API_KEY not set - natural language queries disabled")
		return nil, nil
	}

	schemaText, err := readSchema(ctx, cfg.SalesDB)
	if err != nil {
		return nil, err
	}

	terms := ""
	if data, err := os.ReadFile(cfg.BusinessTerms); err == nil {
		terms = string(data)
	} else {
		log.Warn().Str("path", cfg.BusinessTerms).Msg("Business terms file not found - continuing without it")
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{APIKey: cfg.GeminiAPIKey})
	if err != nil {
		return nil, err
	}

	return nlq.NewGenerator(client, nlq.DefaultModelName, schemaText, terms), nil
}

func readSchema(ctx context.Context, dbPath string) (string, error) {
	db, err := sqlite.Open(dbPath)
	if err != nil {
		return "", err
	}
	defer db.Close()

	return db.SchemaText(ctx)
}
