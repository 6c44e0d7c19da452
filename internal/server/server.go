// Package server exposes the categorization engine and pattern store over HTTP.
package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/rs/cors"

	"github.com/Veraticus/spice-categorizer/internal/categorize"
	"github.com/Veraticus/spice-categorizer/internal/model"
)

const (
	maxBodyBytes    = 1 << 20
	shutdownTimeout = 10 * time.Second
)

// Store is the persistence the server needs.
type Store interface {
	FetchPatterns(ctx context.Context) (*model.PatternFeed, error)
	GetLearnedPatterns(ctx context.Context, userID string) ([]model.LearnedPattern, error)
	RecordCorrection(ctx context.Context, userID, fragment, category, label string) (*model.LearnedPattern, error)
}

// Categorizer is the engine surface the server drives.
type Categorizer interface {
	RefreshPatterns(ctx context.Context, force bool) error
	InvalidatePatterns()
	CategorizeBatch(txns []model.CandidateTransaction, learned []model.LearnedPattern) []model.ClassificationResult
	Patterns() *categorize.Patterns
}

var _ Categorizer = (*categorize.Engine)(nil)

// Server routes HTTP requests to the store and engine.
type Server struct {
	store          Store
	engine         Categorizer
	handler        http.Handler
	allowedOrigins []string
}

// Option configures a Server.
type Option func(*Server)

// WithAllowedOrigins sets the CORS origins. Defaults to any origin.
func WithAllowedOrigins(origins []string) Option {
	return func(s *Server) {
		if len(origins) > 0 {
			s.allowedOrigins = origins
		}
	}
}

// New builds a server.
func New(store Store, engine Categorizer, opts ...Option) *Server {
	s := &Server{
		store:          store,
		engine:         engine,
		allowedOrigins: []string{"*"},
	}
	for _, opt := range opts {
		opt(s)
	}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /health", s.handleHealth)
	mux.HandleFunc("GET /api/patterns", s.handlePatternFeed)
	mux.HandleFunc("POST /api/patterns/refresh", s.handleRefresh)
	mux.HandleFunc("POST /api/patterns/invalidate", s.handleInvalidate)
	mux.HandleFunc("POST /api/categorize", s.handleCategorize)
	mux.HandleFunc("POST /api/learned", s.handleRecordCorrection)
	mux.HandleFunc("GET /api/categories/{category}/labels", s.handleLabels)

	c := cors.New(cors.Options{
		AllowedOrigins: s.allowedOrigins,
		AllowedMethods: []string{
			http.MethodGet,
			http.MethodPost,
			http.MethodOptions,
		},
		AllowedHeaders: []string{
			"Accept",
			"Content-Type",
			requestIDHeader,
		},
		ExposedHeaders: []string{requestIDHeader},
	})

	s.handler = withRequestID(withAccessLog(c.Handler(mux)))
	return s
}

// Handler returns the fully wrapped HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.handler
}

// ListenAndServe serves on addr until ctx is canceled, then shuts down gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("Starting server", "addr", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("server failed: %w", err)
	case <-ctx.Done():
	}

	slog.Info("Shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("failed to shut down server: %w", err)
	}
	return nil
}
