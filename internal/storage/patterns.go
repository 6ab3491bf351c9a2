package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/mattn/go-sqlite3"

	"patternforge/internal/common"
	"patternforge/internal/model"
)

const summaryColumns = `id, name, pattern_type, category, source_object, tags,
	complexity_score, use_count, favorited`

// InsertOrIncrement stores a pattern, deduplicating by fingerprint. A
// fingerprint collision increments the existing row's use count instead of
// inserting. The insert-or-update runs as one statement so concurrent
// writers of the same fingerprint cannot race.
func (s *SQLiteStorage) InsertOrIncrement(ctx context.Context, p *model.Pattern) (id int64, useCount int, isNew bool, err error) {
	if err = validateContext(ctx); err != nil {
		return 0, 0, false, err
	}
	if err = validatePattern(p); err != nil {
		return 0, 0, false, err
	}

	structure, err := json.Marshal(p.Structure)
	if err != nil {
		return 0, 0, false, fmt.Errorf("failed to marshal pattern structure: %w", err)
	}
	fieldRefs, err := json.Marshal(p.FieldReferences)
	if err != nil {
		return 0, 0, false, fmt.Errorf("failed to marshal field references: %w", err)
	}
	tags, err := json.Marshal(p.Tags)
	if err != nil {
		return 0, 0, false, fmt.Errorf("failed to marshal tags: %w", err)
	}

	row := s.db.QueryRowContext(ctx, `
		INSERT INTO patterns (
			fingerprint, name, description, pattern_type, category,
			source_object, source_file, source_hash, api_version,
			complexity_score, structure, field_references, tags, use_count
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, 1)
		ON CONFLICT(fingerprint) DO UPDATE SET use_count = use_count + 1
		RETURNING id, use_count`,
		p.Fingerprint, p.Name, p.Description, p.PatternType, string(p.Category),
		p.SourceObject, p.SourceFile, p.SourceHash, p.APIVersion,
		p.ComplexityScore, string(structure), string(fieldRefs), string(tags))

	if err = row.Scan(&id, &useCount); err != nil {
		return 0, 0, false, mapSQLiteError(err, "failed to save pattern")
	}
	return id, useCount, useCount == 1, nil
}

// GetPattern retrieves one pattern with its full structure.
func (s *SQLiteStorage) GetPattern(ctx context.Context, id int64) (*model.Pattern, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateID(id); err != nil {
		return nil, err
	}

	row := s.db.QueryRowContext(ctx, `
		SELECT id, fingerprint, name, description, pattern_type, category,
			source_object, source_file, source_hash, api_version,
			complexity_score, structure, field_references, tags,
			use_count, favorited, created_at
		FROM patterns WHERE id = ?`, id)

	p := &model.Pattern{}
	var category, structure string
	var fieldRefs, tags sql.NullString
	err := row.Scan(&p.ID, &p.Fingerprint, &p.Name, &p.Description, &p.PatternType,
		&category, &p.SourceObject, &p.SourceFile, &p.SourceHash, &p.APIVersion,
		&p.ComplexityScore, &structure, &fieldRefs, &tags,
		&p.UseCount, &p.Favorited, &p.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: pattern %d", common.ErrNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get pattern %d: %w", id, err)
	}

	p.Category = model.Category(category)
	if err := json.Unmarshal([]byte(structure), &p.Structure); err != nil {
		return nil, fmt.Errorf("failed to unmarshal pattern structure: %w", err)
	}
	if fieldRefs.Valid && fieldRefs.String != "" {
		if err := json.Unmarshal([]byte(fieldRefs.String), &p.FieldReferences); err != nil {
			return nil, fmt.Errorf("failed to unmarshal field references: %w", err)
		}
	}
	if tags.Valid && tags.String != "" {
		if err := json.Unmarshal([]byte(tags.String), &p.Tags); err != nil {
			return nil, fmt.Errorf("failed to unmarshal tags: %w", err)
		}
	}
	return p, nil
}

// QueryPatterns runs a filtered, paginated catalog query. When a keyword
// query is present results rank exact name matches first, then name
// prefixes, then exact tag or description matches, then tag or description
// prefixes, then substring matches anywhere in the name, tags,
// description, or source object. Ties break by use count, then id.
func (s *SQLiteStorage) QueryPatterns(ctx context.Context, filter model.PatternFilter) (*model.PatternPage, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateFilter(&filter); err != nil {
		return nil, err
	}

	var where []string
	var args []any

	if filter.Category != "" {
		where = append(where, "category = ?")
		args = append(args, filter.Category)
	}
	if filter.PatternType != "" {
		where = append(where, "pattern_type = ?")
		args = append(args, filter.PatternType)
	}
	if filter.SourceObject != "" {
		where = append(where, "source_object = ? COLLATE NOCASE")
		args = append(args, filter.SourceObject)
	}
	if filter.MinComplexity > 0 {
		where = append(where, "complexity_score >= ?")
		args = append(args, filter.MinComplexity)
	}
	if filter.MaxComplexity > 0 {
		where = append(where, "complexity_score <= ?")
		args = append(args, filter.MaxComplexity)
	}
	if filter.FavoritedOnly {
		where = append(where, "favorited = 1")
	}

	orderBy := "use_count DESC, id ASC"
	if q := strings.TrimSpace(filter.Query); q != "" {
		like := "%" + escapeLike(q) + "%"
		where = append(where, `(name LIKE ? ESCAPE '\' COLLATE NOCASE
			OR tags LIKE ? ESCAPE '\' COLLATE NOCASE
			OR description LIKE ? ESCAPE '\' COLLATE NOCASE
			OR source_object LIKE ? ESCAPE '\' COLLATE NOCASE)`)
		args = append(args, like, like, like, like)

		orderBy = `CASE
			WHEN lower(name) = lower(?) THEN 0
			WHEN name LIKE ? ESCAPE '\' COLLATE NOCASE THEN 1
			WHEN tags LIKE ? ESCAPE '\' COLLATE NOCASE
				OR lower(description) = lower(?) THEN 2
			WHEN tags LIKE ? ESCAPE '\' COLLATE NOCASE
				OR description LIKE ? ESCAPE '\' COLLATE NOCASE THEN 3
			ELSE 4
		END, use_count DESC, id ASC`
	}

	whereClause := ""
	if len(where) > 0 {
		whereClause = "WHERE " + strings.Join(where, " AND ")
	}

	var total int
	countQuery := "SELECT COUNT(*) FROM patterns " + whereClause
	if err := s.db.QueryRowContext(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, fmt.Errorf("failed to count patterns: %w", err)
	}

	if q := strings.TrimSpace(filter.Query); q != "" {
		// Tags are stored as a JSON array, so a whole tag sits between
		// quotes and a tag prefix follows an opening quote.
		esc := escapeLike(q)
		args = append(args, q, esc+"%", `%"`+esc+`"%`, q, `%"`+esc+`%`, esc+"%")
	}
	args = append(args, filter.PageSize, (filter.Page-1)*filter.PageSize)

	query := fmt.Sprintf(`SELECT %s FROM patterns %s ORDER BY %s LIMIT ? OFFSET ?`,
		summaryColumns, whereClause, orderBy)
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query patterns: %w", err)
	}
	defer func() { _ = rows.Close() }()

	summaries, err := scanSummaries(rows)
	if err != nil {
		return nil, err
	}

	pages := (total + filter.PageSize - 1) / filter.PageSize
	return &model.PatternPage{
		Patterns: summaries,
		Total:    total,
		Page:     filter.Page,
		Pages:    pages,
	}, nil
}

// SummariesByIDs returns summaries in the order of the given ids, silently
// dropping ids with no matching row.
func (s *SQLiteStorage) SummariesByIDs(ctx context.Context, ids []int64) ([]model.Summary, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if len(ids) == 0 {
		return nil, nil
	}

	placeholders := strings.Repeat("?,", len(ids))
	placeholders = placeholders[:len(placeholders)-1]
	args := make([]any, len(ids))
	for i, id := range ids {
		args[i] = id
	}

	query := fmt.Sprintf("SELECT %s FROM patterns WHERE id IN (%s)", summaryColumns, placeholders)
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query patterns by id: %w", err)
	}
	defer func() { _ = rows.Close() }()

	found, err := scanSummaries(rows)
	if err != nil {
		return nil, err
	}

	byID := make(map[int64]model.Summary, len(found))
	for _, s := range found {
		byID[s.ID] = s
	}
	ordered := make([]model.Summary, 0, len(ids))
	for _, id := range ids {
		if s, ok := byID[id]; ok {
			ordered = append(ordered, s)
		}
	}
	return ordered, nil
}

// AllSummaries returns up to limit summaries ordered by use count. Used to
// build the candidate set for semantic ranking.
func (s *SQLiteStorage) AllSummaries(ctx context.Context, limit int) ([]model.Summary, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if limit <= 0 {
		limit = 200
	}

	query := fmt.Sprintf("SELECT %s FROM patterns ORDER BY use_count DESC, id ASC LIMIT ?", summaryColumns)
	rows, err := s.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query pattern summaries: %w", err)
	}
	defer func() { _ = rows.Close() }()

	return scanSummaries(rows)
}

// ToggleFavorite flips the favorited flag and returns the new value.
func (s *SQLiteStorage) ToggleFavorite(ctx context.Context, id int64) (bool, error) {
	if err := validateContext(ctx); err != nil {
		return false, err
	}
	if err := validateID(id); err != nil {
		return false, err
	}

	var favorited bool
	err := s.db.QueryRowContext(ctx,
		"UPDATE patterns SET favorited = NOT favorited WHERE id = ? RETURNING favorited", id).
		Scan(&favorited)
	if errors.Is(err, sql.ErrNoRows) {
		return false, fmt.Errorf("%w: pattern %d", common.ErrNotFound, id)
	}
	if err != nil {
		return false, fmt.Errorf("failed to toggle favorite for pattern %d: %w", id, err)
	}
	return favorited, nil
}

// Stats aggregates catalog-wide counts and source records.
func (s *SQLiteStorage) Stats(ctx context.Context) (*model.CatalogStats, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}

	stats := &model.CatalogStats{}
	if err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM patterns").Scan(&stats.Total); err != nil {
		return nil, fmt.Errorf("failed to count patterns: %w", err)
	}

	rows, err := s.db.QueryContext(ctx,
		"SELECT category, COUNT(*) FROM patterns GROUP BY category ORDER BY COUNT(*) DESC, category ASC")
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate categories: %w", err)
	}
	defer func() { _ = rows.Close() }()

	for rows.Next() {
		var stat model.CategoryStat
		var category string
		if err := rows.Scan(&category, &stat.Count); err != nil {
			return nil, fmt.Errorf("failed to scan category stat: %w", err)
		}
		stat.Category = model.Category(category)
		stats.ByCategory = append(stats.ByCategory, stat)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read category stats: %w", err)
	}

	sources, err := s.ListSources(ctx)
	if err != nil {
		return nil, err
	}
	stats.Sources = sources
	return stats, nil
}

func scanSummaries(rows *sql.Rows) ([]model.Summary, error) {
	var summaries []model.Summary
	for rows.Next() {
		var sm model.Summary
		var category string
		var tags sql.NullString
		if err := rows.Scan(&sm.ID, &sm.Name, &sm.PatternType, &category,
			&sm.SourceObject, &tags, &sm.ComplexityScore, &sm.UseCount, &sm.Favorited); err != nil {
			return nil, fmt.Errorf("failed to scan pattern summary: %w", err)
		}
		sm.Category = model.Category(category)
		if tags.Valid && tags.String != "" {
			if err := json.Unmarshal([]byte(tags.String), &sm.Tags); err != nil {
				return nil, fmt.Errorf("failed to unmarshal tags: %w", err)
			}
		}
		summaries = append(summaries, sm)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read pattern rows: %w", err)
	}
	return summaries, nil
}

// escapeLike escapes LIKE metacharacters in user-supplied query text.
func escapeLike(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	s = strings.ReplaceAll(s, "%", `\%`)
	s = strings.ReplaceAll(s, "_", `\_`)
	return s
}

// mapSQLiteError translates driver constraint errors into domain errors.
func mapSQLiteError(err error, msg string) error {
	var sqliteErr sqlite3.Error
	if errors.As(err, &sqliteErr) {
		if sqliteErr.Code == sqlite3.ErrConstraint {
			return fmt.Errorf("%w: %s: %v", common.ErrIntegrityViolation, msg, err)
		}
	}
	return fmt.Errorf("%s: %w", msg, err)
}
