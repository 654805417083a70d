package middleware

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
)

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
}

func TestRequestID(t *testing.T) {
	t.Run("generates when absent", func(t *testing.T) {
		var seen string
		h := RequestID(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			seen = RequestIDFrom(r.Context())
		}))

		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

		require.NotEmpty(t, seen)
		require.Equal(t, seen, rec.Header().Get("X-Request-ID"))
	})

	t.Run("preserves caller id", func(t *testing.T) {
		h := RequestID(okHandler())
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("X-Request-ID", "abc-123")

		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)

		require.Equal(t, "abc-123", rec.Header().Get("X-Request-ID"))
	})
}

func TestRequireJSON(t *testing.T) {
	h := RequireJSON(okHandler())

	tests := []struct {
		name        string
		method      string
		path        string
		contentType string
		want        int
	}{
		{"get is exempt", http.MethodGet, "/api/raw-sql", "", http.StatusOK},
		{"post without json", http.MethodPost, "/api/raw-sql", "text/plain", http.StatusBadRequest},
		{"post with json", http.MethodPost, "/api/raw-sql", "application/json", http.StatusOK},
		{"post with charset", http.MethodPost, "/api/raw-sql", "application/json; charset=utf-8", http.StatusOK},
		{"index is exempt", http.MethodPost, "/", "", http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(tt.method, tt.path, nil)
			if tt.contentType != "" {
				req.Header.Set("Content-Type", tt.contentType)
			}
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, req)
			require.Equal(t, tt.want, rec.Code)
		})
	}
}

func TestCORS(t *testing.T) {
	h := CORS(okHandler())

	t.Run("sets headers", func(t *testing.T) {
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
		require.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
	})

	t.Run("short-circuits preflight", func(t *testing.T) {
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodOptions, "/", nil))
		require.Equal(t, http.StatusNoContent, rec.Code)
	})
}

func TestRecovery(t *testing.T) {
	panicking := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic("boom")
	})

	t.Run("hides detail by default", func(t *testing.T) {
		h := Recovery(zerolog.Nop(), false)(panicking)
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

		require.Equal(t, http.StatusInternalServerError, rec.Code)
		require.False(t, strings.Contains(rec.Body.String(), "boom"))
	})

	t.Run("includes detail in debug", func(t *testing.T) {
		h := Recovery(zerolog.Nop(), true)(panicking)
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

		require.Equal(t, http.StatusInternalServerError, rec.Code)
		require.Contains(t, rec.Body.String(), "boom")
	})
}
