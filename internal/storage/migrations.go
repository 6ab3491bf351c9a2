package storage

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
)

// ExpectedSchemaVersion is the latest schema version that the application
// expects. If the database cannot be migrated to this version, it's a
// fatal error.
const ExpectedSchemaVersion = 2

// Migration represents a database schema migration.
type Migration struct {
	Up          func(*sql.Tx) error
	Description string
	Version     int
}

var migrations = []Migration{
	{
		Version:     1,
		Description: "Initial schema",
		Up: func(tx *sql.Tx) error {
			queries := []string{
				`CREATE TABLE IF NOT EXISTS patterns (
					id INTEGER PRIMARY KEY AUTOINCREMENT,
					fingerprint TEXT UNIQUE NOT NULL,
					name TEXT NOT NULL,
					description TEXT,
					pattern_type TEXT NOT NULL,
					category TEXT NOT NULL,
					source_object TEXT,
					source_file TEXT,
					source_hash TEXT,
					api_version TEXT,
					complexity_score INTEGER NOT NULL DEFAULT 1,
					structure TEXT NOT NULL,
					field_references TEXT,
					tags TEXT,
					use_count INTEGER NOT NULL DEFAULT 1,
					favorited INTEGER NOT NULL DEFAULT 0,
					created_at DATETIME DEFAULT CURRENT_TIMESTAMP
				)`,
				`CREATE INDEX idx_patterns_category ON patterns(category)`,
				`CREATE INDEX idx_patterns_type ON patterns(pattern_type)`,
				`CREATE INDEX idx_patterns_object ON patterns(source_object)`,
				`CREATE INDEX idx_patterns_complexity ON patterns(complexity_score)`,

				`CREATE TABLE IF NOT EXISTS sources (
					id INTEGER PRIMARY KEY AUTOINCREMENT,
					source_hash TEXT UNIQUE NOT NULL,
					display_name TEXT NOT NULL,
					metadata_counts TEXT,
					pattern_count INTEGER NOT NULL DEFAULT 0,
					ingested_at DATETIME DEFAULT CURRENT_TIMESTAMP
				)`,
			}

			for _, query := range queries {
				if _, err := tx.Exec(query); err != nil {
					return fmt.Errorf("failed to execute query: %w", err)
				}
			}
			return nil
		},
	},
	{
		Version:     2,
		Description: "Add cost ledger and search cache",
		Up: func(tx *sql.Tx) error {
			queries := []string{
				`CREATE TABLE IF NOT EXISTS cost_ledger (
					day TEXT PRIMARY KEY,
					cumulative_cost REAL NOT NULL DEFAULT 0,
					request_count INTEGER NOT NULL DEFAULT 0,
					updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
				)`,

				`CREATE TABLE IF NOT EXISTS search_cache (
					query_key TEXT PRIMARY KEY,
					pattern_ids TEXT NOT NULL,
					total INTEGER NOT NULL DEFAULT 0,
					created_at DATETIME NOT NULL
				)`,
				`CREATE INDEX idx_search_cache_created ON search_cache(created_at)`,
			}

			for _, query := range queries {
				if _, err := tx.Exec(query); err != nil {
					return fmt.Errorf("failed to execute query: %w", err)
				}
			}
			return nil
		},
	},
}

// Migrate applies all pending database migrations.
func (s *SQLiteStorage) Migrate(ctx context.Context) error {
	if err := validateContext(ctx); err != nil {
		return err
	}

	var currentVersion int
	err := s.db.QueryRowContext(ctx, "PRAGMA user_version").Scan(&currentVersion)
	if err != nil {
		return fmt.Errorf("failed to get schema version: %w", err)
	}

	for _, migration := range migrations {
		if migration.Version <= currentVersion {
			continue
		}

		tx, txErr := s.db.BeginTx(ctx, nil)
		if txErr != nil {
			return fmt.Errorf("failed to begin transaction: %w", txErr)
		}

		if upErr := migration.Up(tx); upErr != nil {
			_ = tx.Rollback()
			return fmt.Errorf("migration %d failed: %w", migration.Version, upErr)
		}

		if _, execErr := tx.Exec(fmt.Sprintf("PRAGMA user_version = %d", migration.Version)); execErr != nil {
			_ = tx.Rollback()
			return fmt.Errorf("failed to update schema version: %w", execErr)
		}

		if commitErr := tx.Commit(); commitErr != nil {
			return fmt.Errorf("failed to commit migration %d: %w", migration.Version, commitErr)
		}

		slog.Info("Applied migration",
			"version", migration.Version,
			"description", migration.Description)
	}

	var finalVersion int
	err = s.db.QueryRowContext(ctx, "PRAGMA user_version").Scan(&finalVersion)
	if err != nil {
		return fmt.Errorf("failed to verify final schema version: %w", err)
	}

	if finalVersion != ExpectedSchemaVersion {
		return fmt.Errorf("database schema version mismatch: expected %d, got %d", ExpectedSchemaVersion, finalVersion)
	}

	return nil
}
