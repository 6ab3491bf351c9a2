package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"patternforge/internal/common"
	"patternforge/internal/config"
	"patternforge/internal/search"
	"patternforge/internal/storage"
)

// initStorage opens the catalog database and brings the schema up to date.
func initStorage(ctx context.Context) (*storage.SQLiteStorage, error) {
	store, err := storage.NewSQLiteStorage(config.DatabasePath())
	if err != nil {
		return nil, common.NewUserError("failed to open the pattern database", err)
	}

	if err := store.Migrate(ctx); err != nil {
		_ = store.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return store, nil
}

// initGateway builds the search gateway. A missing API key is not an
// error: the gateway runs keyword-only.
func initGateway(store *storage.SQLiteStorage) *search.Gateway {
	cfg := config.LoadSearchConfig()

	var ranker search.Ranker
	if cfg.APIKey != "" {
		r, err := search.NewAnthropicRanker(search.ClientConfig{
			APIKey:    cfg.APIKey,
			Model:     cfg.Model,
			MaxTokens: cfg.MaxTokens,
		})
		if err == nil {
			ranker = r
		}
	}

	return search.NewGateway(store, ranker, search.Config{
		DailyCostLimit: cfg.DailyCostLimit,
		CacheTTL:       cfg.CacheTTL,
		Timeout:        cfg.Timeout,
		CandidateLimit: cfg.CandidateLimit,
	}, nil)
}

// printJSON writes v to stdout as indented JSON.
func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
