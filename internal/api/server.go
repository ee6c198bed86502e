// Package api exposes the aggregated account data over HTTP.
package api

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/sells-group/abm-reporter/internal/aggregate"
	"github.com/sells-group/abm-reporter/internal/config"
	"github.com/sells-group/abm-reporter/internal/model"
)

// AccountSource is the aggregation surface the handlers consume.
type AccountSource interface {
	Aggregate(ctx context.Context, opts aggregate.Options) (*model.AccountList, error)
	AccountByName(ctx context.Context, name string) (*model.CanonicalAccount, error)
	InvalidateCache()
}

// Server routes HTTP requests to the aggregator.
type Server struct {
	source AccountSource
	cfg    *config.Config
}

// NewServer creates an API server over the given account source.
func NewServer(source AccountSource, cfg *config.Config) *Server {
	return &Server{source: source, cfg: cfg}
}

// Router builds the chi router with middleware and all routes mounted.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()

	r.Use(requestID)
	r.Use(logRequests)
	r.Use(chimw.Recoverer)
	r.Use(chimw.RealIP)

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{
			"http://localhost:3000",
			"http://localhost:5173",
			"http://127.0.0.1:3000",
			"http://127.0.0.1:5173",
		},
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	r.Get("/health", s.handleHealth)

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/integrations/status", s.handleIntegrationStatus)

		r.Route("/accounts", func(r chi.Router) {
			r.Get("/", s.handleListAccounts)
			r.Post("/refresh", s.handleRefresh)
			r.Get("/summary/stats", s.handleSummaryStats)
			r.Post("/upload/fibbler", s.handleUploadFibbler)
			r.Post("/upload/linkedin-ads", s.handleUploadLinkedInAds)
			r.Get("/{name}", s.handleAccountDetail)
		})
	})

	return r
}

// requestID stamps every request with an X-Request-ID, generating one when
// the caller did not send one.
func requestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get("X-Request-ID")
		if id == "" {
			id = uuid.NewString()
		}
		w.Header().Set("X-Request-ID", id)
		next.ServeHTTP(w, r)
	})
}

// logRequests logs method, path, status, and latency for each request.
func logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := chimw.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		zap.L().Info("http request",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", ww.Status()),
			zap.Duration("duration", time.Since(start)),
			zap.String("request_id", ww.Header().Get("X-Request-ID")),
		)
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		zap.L().Error("api: encode response", zap.Error(err))
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
