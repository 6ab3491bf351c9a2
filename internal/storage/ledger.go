package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"patternforge/internal/common"
	"patternforge/internal/model"
)

// AddCost records spend against a day's ledger, enforcing the daily cap
// atomically. The conditional upsert either applies the full charge or
// leaves the ledger untouched; a zero rows-affected result means the
// charge would cross the cap and ErrCostLimitExceeded is returned.
func (s *SQLiteStorage) AddCost(ctx context.Context, day string, cost, cap float64) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateString(day, "day"); err != nil {
		return err
	}
	if cost < 0 {
		return fmt.Errorf("cost must not be negative: %f", cost)
	}
	if cost > cap {
		return fmt.Errorf("%w: charge %.4f exceeds daily cap %.2f", common.ErrCostLimitExceeded, cost, cap)
	}

	result, err := s.db.ExecContext(ctx, `
		INSERT INTO cost_ledger (day, cumulative_cost, request_count, updated_at)
		VALUES (?, ?, 1, CURRENT_TIMESTAMP)
		ON CONFLICT(day) DO UPDATE SET
			cumulative_cost = cumulative_cost + excluded.cumulative_cost,
			request_count = request_count + 1,
			updated_at = CURRENT_TIMESTAMP
		WHERE cumulative_cost + excluded.cumulative_cost <= ?`,
		day, cost, cap)
	if err != nil {
		return fmt.Errorf("failed to record cost: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check cost ledger update: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("%w: daily cap %.2f reached for %s", common.ErrCostLimitExceeded, cap, day)
	}
	return nil
}

// DailyCost returns the ledger entry for a day. A day with no spend
// returns a zero entry, not an error.
func (s *SQLiteStorage) DailyCost(ctx context.Context, day string) (model.CostEntry, error) {
	if err := validateContext(ctx); err != nil {
		return model.CostEntry{}, err
	}
	if err := validateString(day, "day"); err != nil {
		return model.CostEntry{}, err
	}

	entry := model.CostEntry{Day: day}
	err := s.db.QueryRowContext(ctx,
		"SELECT cumulative_cost, request_count FROM cost_ledger WHERE day = ?", day).
		Scan(&entry.CumulativeCost, &entry.RequestCount)
	if errors.Is(err, sql.ErrNoRows) {
		return entry, nil
	}
	if err != nil {
		return model.CostEntry{}, fmt.Errorf("failed to read cost ledger: %w", err)
	}
	return entry, nil
}
