package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/tmaly1980/banked/internal/models"
)

// PredictedIncome returns per-day income entries (predicted and actual)
// for the window.
func (r *Repository) PredictedIncome(ctx context.Context, userID int64, from, to time.Time) ([]models.DailyIncomeEntry, error) {
	query := `
		SELECT entry_date, amount, source_id, is_actual
		FROM banked.income_predictions
		WHERE user_id = $1 AND entry_date >= $2 AND entry_date <= $3
		ORDER BY entry_date, source_id`
	rows, err := r.db.QueryContext(ctx, query, userID, from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to list predicted income: %w", err)
	}
	defer rows.Close()

	var entries []models.DailyIncomeEntry
	for rows.Next() {
		var e models.DailyIncomeEntry
		if err := rows.Scan(&e.Date, &e.Amount, &e.SourceID, &e.IsActual); err != nil {
			return nil, fmt.Errorf("failed to scan income entry: %w", err)
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// ReplacePredictions swaps the non-actual prediction rows for the window
// in one transaction. Actual entries (recorded paychecks) are preserved.
func (r *Repository) ReplacePredictions(ctx context.Context, userID int64, from, to time.Time, entries []models.DailyIncomeEntry) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin prediction tx: %w", err)
	}
	defer tx.Rollback()

	del := `
		DELETE FROM banked.income_predictions
		WHERE user_id = $1 AND entry_date >= $2 AND entry_date <= $3 AND NOT is_actual`
	if _, err := tx.ExecContext(ctx, del, userID, from, to); err != nil {
		return fmt.Errorf("failed to clear predictions: %w", err)
	}

	ins := `
		INSERT INTO banked.income_predictions (user_id, entry_date, amount, source_id, is_actual)
		VALUES ($1, $2, $3, $4, FALSE)`
	for _, e := range entries {
		if _, err := tx.ExecContext(ctx, ins, userID, e.Date, e.Amount, e.SourceID); err != nil {
			return fmt.Errorf("failed to insert prediction: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit predictions: %w", err)
	}
	return nil
}

// IncomeSourcesByUser lists a user's income rules.
func (r *Repository) IncomeSourcesByUser(ctx context.Context, userID int64) ([]models.IncomeSource, error) {
	query := `
		SELECT id, user_id, name, amount, frequency, anchor_date, created_at, updated_at
		FROM banked.income_sources
		WHERE user_id = $1
		ORDER BY id`
	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list income sources: %w", err)
	}
	defer rows.Close()

	var sources []models.IncomeSource
	for rows.Next() {
		var s models.IncomeSource
		if err := rows.Scan(&s.ID, &s.UserID, &s.Name, &s.Amount, &s.Frequency, &s.AnchorDate, &s.CreatedAt, &s.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan income source: %w", err)
		}
		sources = append(sources, s)
	}
	return sources, rows.Err()
}

// CreateIncomeSource inserts an income rule.
func (r *Repository) CreateIncomeSource(ctx context.Context, source *models.IncomeSource) error {
	query := `
		INSERT INTO banked.income_sources (user_id, name, amount, frequency, anchor_date, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, CURRENT_TIMESTAMP, CURRENT_TIMESTAMP)
		RETURNING id, created_at, updated_at`
	err := r.db.QueryRowContext(ctx, query, source.UserID, source.Name, source.Amount, source.Frequency, source.AnchorDate).
		Scan(&source.ID, &source.CreatedAt, &source.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to create income source: %w", err)
	}
	return nil
}

// UpdateIncomeSource rewrites an income rule.
func (r *Repository) UpdateIncomeSource(ctx context.Context, source *models.IncomeSource) error {
	query := `
		UPDATE banked.income_sources
		SET name = $3, amount = $4, frequency = $5, anchor_date = $6, updated_at = CURRENT_TIMESTAMP
		WHERE id = $1 AND user_id = $2`
	res, err := r.db.ExecContext(ctx, query, source.ID, source.UserID, source.Name, source.Amount, source.Frequency, source.AnchorDate)
	if err != nil {
		return fmt.Errorf("failed to update income source: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

// DeleteIncomeSource removes an income rule.
func (r *Repository) DeleteIncomeSource(ctx context.Context, userID, sourceID int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM banked.income_sources WHERE id = $1 AND user_id = $2`, sourceID, userID)
	if err != nil {
		return fmt.Errorf("failed to delete income source: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

// CreatePaycheck records a received paycheck and upserts the matching
// actual income entry so the ledger shows real money instead of the
// prediction for that day.
func (r *Repository) CreatePaycheck(ctx context.Context, paycheck *models.Paycheck) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin paycheck tx: %w", err)
	}
	defer tx.Rollback()

	ins := `
		INSERT INTO banked.paychecks (user_id, source_id, pay_date, amount, created_at)
		VALUES ($1, $2, $3, $4, CURRENT_TIMESTAMP)
		RETURNING id, created_at`
	err = tx.QueryRowContext(ctx, ins, paycheck.UserID, paycheck.SourceID, paycheck.PayDate, paycheck.Amount).
		Scan(&paycheck.ID, &paycheck.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert paycheck: %w", err)
	}

	upsert := `
		INSERT INTO banked.income_predictions (user_id, entry_date, amount, source_id, is_actual)
		VALUES ($1, $2, $3, $4, TRUE)
		ON CONFLICT (user_id, entry_date, source_id) DO UPDATE
		SET amount = EXCLUDED.amount, is_actual = TRUE`
	if _, err := tx.ExecContext(ctx, upsert, paycheck.UserID, paycheck.PayDate, paycheck.Amount, paycheck.SourceID); err != nil {
		return fmt.Errorf("failed to upsert actual income: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit paycheck: %w", err)
	}
	return nil
}

// PaychecksByUser lists recorded paychecks, newest first.
func (r *Repository) PaychecksByUser(ctx context.Context, userID int64) ([]models.Paycheck, error) {
	query := `
		SELECT id, user_id, source_id, pay_date, amount, created_at
		FROM banked.paychecks
		WHERE user_id = $1
		ORDER BY pay_date DESC, id DESC`
	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list paychecks: %w", err)
	}
	defer rows.Close()

	var paychecks []models.Paycheck
	for rows.Next() {
		var p models.Paycheck
		if err := rows.Scan(&p.ID, &p.UserID, &p.SourceID, &p.PayDate, &p.Amount, &p.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan paycheck: %w", err)
		}
		paychecks = append(paychecks, p)
	}
	return paychecks, rows.Err()
}

// DeletePaycheck removes a paycheck row.
func (r *Repository) DeletePaycheck(ctx context.Context, userID, paycheckID int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM banked.paychecks WHERE id = $1 AND user_id = $2`, paycheckID, userID)
	if err != nil {
		return fmt.Errorf("failed to delete paycheck: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}
