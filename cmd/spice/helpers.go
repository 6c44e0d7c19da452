package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/Veraticus/spice-categorizer/internal/categorize"
	"github.com/Veraticus/spice-categorizer/internal/common"
	"github.com/Veraticus/spice-categorizer/internal/config"
	"github.com/Veraticus/spice-categorizer/internal/model"
	"github.com/Veraticus/spice-categorizer/internal/patternfeed"
	"github.com/Veraticus/spice-categorizer/internal/storage"
)

// initStorage opens the configured database and runs migrations.
func initStorage(ctx context.Context, cfg *config.Config) (*storage.SQLiteStorage, error) {
	store, err := storage.NewSQLiteStorage(cfg.Database.Path)
	if err != nil {
		return nil, err
	}

	if err := store.Migrate(ctx); err != nil {
		_ = store.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return store, nil
}

// patternFetcher picks the pattern source named by the configuration.
func patternFetcher(cfg *config.Config, store *storage.SQLiteStorage) (categorize.PatternFetcher, error) {
	switch cfg.Patterns.Source {
	case config.SourceHTTP:
		client, err := patternfeed.NewClient(cfg.Patterns.URL)
		if err != nil {
			return nil, err
		}
		return client, nil
	case config.SourceLocal:
		return store, nil
	default:
		return nil, fmt.Errorf("%w: unknown pattern source %q", common.ErrInvalidConfig, cfg.Patterns.Source)
	}
}

// newEngine builds an engine whose pattern cache follows the configuration.
func newEngine(cfg *config.Config, store *storage.SQLiteStorage) (*categorize.Engine, error) {
	fetcher, err := patternFetcher(cfg, store)
	if err != nil {
		return nil, err
	}

	cache := categorize.NewPatternCache(fetcher,
		categorize.WithTTL(cfg.Patterns.TTL),
		categorize.WithFailurePolicy(cfg.Patterns.FailurePolicy),
	)
	return categorize.NewEngine(cache), nil
}

// setup loads configuration, storage and engine for commands that categorize.
func setup(ctx context.Context) (*config.Config, *storage.SQLiteStorage, *categorize.Engine, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, nil, common.NewUserError("invalid configuration", err)
	}

	store, err := initStorage(ctx, cfg)
	if err != nil {
		return nil, nil, nil, err
	}

	engine, err := newEngine(cfg, store)
	if err != nil {
		_ = store.Close()
		return nil, nil, nil, err
	}

	return cfg, store, engine, nil
}

// serverBaseURL turns a listen address into a URL a local client can reach.
func serverBaseURL(addr string) string {
	if strings.HasPrefix(addr, "http://") || strings.HasPrefix(addr, "https://") {
		return addr
	}
	if strings.HasPrefix(addr, ":") {
		addr = "localhost" + addr
	}
	return "http://" + addr
}

// readCandidates decodes candidate transactions from either a bare JSON array or
// an object with a "transactions" array.
func readCandidates(r io.Reader) ([]model.CandidateTransaction, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read candidates: %w", err)
	}

	trimmed := strings.TrimSpace(string(data))
	if trimmed == "" {
		return nil, nil
	}

	if strings.HasPrefix(trimmed, "[") {
		var txns []model.CandidateTransaction
		if err := json.Unmarshal(data, &txns); err != nil {
			return nil, fmt.Errorf("failed to decode candidates: %w", err)
		}
		return txns, nil
	}

	var wrapper struct {
		Transactions []model.CandidateTransaction `json:"transactions"`
	}
	if err := json.Unmarshal(data, &wrapper); err != nil {
		return nil, fmt.Errorf("failed to decode candidates: %w", err)
	}
	return wrapper.Transactions, nil
}

func parseID(arg string) (int64, error) {
	id, err := strconv.ParseInt(arg, 10, 64)
	if err != nil || id <= 0 {
		return 0, common.NewUserError(fmt.Sprintf("invalid ID %q", arg), err)
	}
	return id, nil
}

func chunk[T any](items []T, size int) [][]T {
	if size <= 0 {
		size = len(items)
	}
	var out [][]T
	for start := 0; start < len(items); start += size {
		end := min(start+size, len(items))
		out = append(out, items[start:end])
	}
	return out
}
