package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"
)

// CacheGet returns the cached pattern ids and total for a normalized query
// key. An entry older than ttl counts as a miss and is removed.
func (s *SQLiteStorage) CacheGet(ctx context.Context, key string, ttl time.Duration) (ids []int64, total int, ok bool, err error) {
	if err = validateContext(ctx); err != nil {
		return nil, 0, false, err
	}
	if err = validateString(key, "key"); err != nil {
		return nil, 0, false, err
	}

	var idsJSON string
	var createdAt time.Time
	err = s.db.QueryRowContext(ctx,
		"SELECT pattern_ids, total, created_at FROM search_cache WHERE query_key = ?", key).
		Scan(&idsJSON, &total, &createdAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, 0, false, nil
	}
	if err != nil {
		return nil, 0, false, fmt.Errorf("failed to read search cache: %w", err)
	}

	if time.Since(createdAt) > ttl {
		if _, delErr := s.db.ExecContext(ctx,
			"DELETE FROM search_cache WHERE query_key = ?", key); delErr != nil {
			return nil, 0, false, fmt.Errorf("failed to expire cache entry: %w", delErr)
		}
		return nil, 0, false, nil
	}

	if err = json.Unmarshal([]byte(idsJSON), &ids); err != nil {
		return nil, 0, false, fmt.Errorf("failed to unmarshal cached ids: %w", err)
	}
	return ids, total, true, nil
}

// CachePut stores a query result, replacing any existing entry for the
// key. Last writer wins; concurrent searches for the same query produce
// equivalent entries so the race is harmless.
func (s *SQLiteStorage) CachePut(ctx context.Context, key string, ids []int64, total int) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateString(key, "key"); err != nil {
		return err
	}

	idsJSON, err := json.Marshal(ids)
	if err != nil {
		return fmt.Errorf("failed to marshal cached ids: %w", err)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO search_cache (query_key, pattern_ids, total, created_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(query_key) DO UPDATE SET
			pattern_ids = excluded.pattern_ids,
			total = excluded.total,
			created_at = excluded.created_at`,
		key, string(idsJSON), total, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("failed to write search cache: %w", err)
	}
	return nil
}

// CacheClear removes all cached search results and reports how many
// entries were dropped.
func (s *SQLiteStorage) CacheClear(ctx context.Context) (int64, error) {
	if err := validateContext(ctx); err != nil {
		return 0, err
	}

	result, err := s.db.ExecContext(ctx, "DELETE FROM search_cache")
	if err != nil {
		return 0, fmt.Errorf("failed to clear search cache: %w", err)
	}
	dropped, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to count cleared cache entries: %w", err)
	}
	return dropped, nil
}
