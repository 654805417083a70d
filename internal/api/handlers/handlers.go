package handlers

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/rs/zerolog"
	"github.com/taiwanway/sales-tracker/internal/api/middleware"
	"github.com/taiwanway/sales-tracker/internal/infra/sqlite"
	"github.com/taiwanway/sales-tracker/internal/sqlguard"
)

// SQLGenerator turns a natural-language question into a SQL statement.
type SQLGenerator interface {
	GenerateSQL(ctx context.Context, question string) (string, error)
}

// QueryHandler serves the SQL query endpoints over the sales database.
// Each request opens its own database handle so schema changes made by
// the import scripts are picked up without restarting the server.
type QueryHandler struct {
	dbPath    string
	guard     *sqlguard.Validator
	generator SQLGenerator
	debug     bool
	log       zerolog.Logger
}

// NewQueryHandler creates a new query handler. generator may be nil when no
// model API key is configured; the nl-query endpoint then returns 503.
func NewQueryHandler(dbPath string, guard *sqlguard.Validator, generator SQLGenerator, debug bool, log zerolog.Logger) *QueryHandler {
	return &QueryHandler{
		dbPath:    dbPath,
		guard:     guard,
		generator: generator,
		debug:     debug,
		log:       log,
	}
}

// RawSQL handles POST /api/raw-sql
func (h *QueryHandler) RawSQL(w http.ResponseWriter, r *http.Request) {
	var req struct {
		SQL string `json:"sql"`
	}

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		middleware.WriteError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if req.SQL == "" {
		middleware.WriteError(w, http.StatusBadRequest, "sql is required")
		return
	}

	if err := h.guard.Validate(req.SQL); err != nil {
		h.log.Warn().Err(err).Str("sql", req.SQL).Msg("Rejected SQL statement")
		middleware.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	result, err := h.runQuery(r.Context(), req.SQL)
	if err != nil {
		h.log.Error().Err(err).Str("sql", req.SQL).Msg("Query failed")
		middleware.WriteError(w, http.StatusBadRequest, h.errorDetail("Query failed", err))
		return
	}

	middleware.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"sql":     req.SQL,
		"results": result.Rows,
		"count":   len(result.Rows),
	})
}

// NLQuery handles POST /api/nl-query
func (h *QueryHandler) NLQuery(w http.ResponseWriter, r *http.Request) {
	if h.generator == nil {
		middleware.WriteError(w, http.StatusServiceUnavailable, "Natural language queries are not configured")
		return
	}

	var req struct {
		Question string `json:"question"`
	}

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		middleware.WriteError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if req.Question == "" {
		middleware.WriteError(w, http.StatusBadRequest, "question is required")
		return
	}

	ctx := r.Context()

	sql, err := h.generator.GenerateSQL(ctx, req.Question)
	if err != nil {
		h.log.Error().Err(err).Str("question", req.Question).Msg("SQL generation failed")
		middleware.WriteError(w, http.StatusBadGateway, h.errorDetail("Failed to generate SQL", err))
		return
	}

	h.log.Info().Str("question", req.Question).Str("sql", sql).Msg("Generated SQL")

	if err := h.guard.Validate(sql); err != nil {
		h.log.Warn().Err(err).Str("sql", sql).Msg("Rejected generated SQL")
		middleware.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	result, err := h.runQuery(ctx, sql)
	if err != nil {
		h.log.Error().Err(err).Str("sql", sql).Msg("Query failed")
		middleware.WriteError(w, http.StatusBadRequest, h.errorDetail("Query failed", err))
		return
	}

	middleware.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"question": req.Question,
		"sql":      sql,
		"results":  result.Rows,
		"count":    len(result.Rows),
	})
}

// Health handles GET /health
func (h *QueryHandler) Health(w http.ResponseWriter, r *http.Request) {
	middleware.WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *QueryHandler) runQuery(ctx context.Context, sql string) (*sqlite.QueryResult, error) {
	db, err := sqlite.Open(h.dbPath)
	if err != nil {
		return nil, err
	}
	defer db.Close()

	return db.RunQuery(ctx, sql)
}

func (h *QueryHandler) errorDetail(msg string, err error) string {
	if h.debug {
		return msg + ": " + err.Error()
	}
	return msg
}
