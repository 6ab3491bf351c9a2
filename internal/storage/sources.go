package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"patternforge/internal/model"
)

// UpsertSource records an ingested project. Re-ingesting the same project
// replaces its counts and refreshes the timestamp.
func (s *SQLiteStorage) UpsertSource(ctx context.Context, source model.Source) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateString(source.SourceHash, "sourceHash"); err != nil {
		return err
	}
	if err := validateString(source.DisplayName, "displayName"); err != nil {
		return err
	}

	counts, err := json.Marshal(source.MetadataCounts)
	if err != nil {
		return fmt.Errorf("failed to marshal metadata counts: %w", err)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO sources (source_hash, display_name, metadata_counts, pattern_count, ingested_at)
		VALUES (?, ?, ?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT(source_hash) DO UPDATE SET
			display_name = excluded.display_name,
			metadata_counts = excluded.metadata_counts,
			pattern_count = excluded.pattern_count,
			ingested_at = CURRENT_TIMESTAMP`,
		source.SourceHash, source.DisplayName, string(counts), source.PatternCount)
	if err != nil {
		return fmt.Errorf("failed to save source: %w", err)
	}
	return nil
}

// ListSources returns all ingested sources, most recent first.
func (s *SQLiteStorage) ListSources(ctx context.Context) ([]model.Source, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, source_hash, display_name, metadata_counts, pattern_count, ingested_at
		FROM sources ORDER BY ingested_at DESC, id DESC`)
	if err != nil {
		return nil, fmt.Errorf("failed to query sources: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var sources []model.Source
	for rows.Next() {
		var src model.Source
		var counts sql.NullString
		if err := rows.Scan(&src.ID, &src.SourceHash, &src.DisplayName,
			&counts, &src.PatternCount, &src.IngestedAt); err != nil {
			return nil, fmt.Errorf("failed to scan source: %w", err)
		}
		if counts.Valid && counts.String != "" {
			if err := json.Unmarshal([]byte(counts.String), &src.MetadataCounts); err != nil {
				return nil, fmt.Errorf("failed to unmarshal metadata counts: %w", err)
			}
		}
		sources = append(sources, src)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read source rows: %w", err)
	}
	return sources, nil
}
