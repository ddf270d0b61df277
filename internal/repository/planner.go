package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/tmaly1980/banked/internal/models"
)

// TimeOffPeriods returns periods overlapping [from, to].
func (r *Repository) TimeOffPeriods(ctx context.Context, userID int64, from, to time.Time) ([]models.TimeOffPeriod, error) {
	query := `
		SELECT id, user_id, name, start_date, end_date, capacity_percent, created_at, updated_at
		FROM banked.time_off_periods
		WHERE user_id = $1 AND end_date >= $2 AND start_date <= $3
		ORDER BY start_date, id`
	rows, err := r.db.QueryContext(ctx, query, userID, from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to list time off: %w", err)
	}
	defer rows.Close()

	var periods []models.TimeOffPeriod
	for rows.Next() {
		var p models.TimeOffPeriod
		if err := rows.Scan(&p.ID, &p.UserID, &p.Name, &p.StartDate, &p.EndDate, &p.CapacityPercent, &p.CreatedAt, &p.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan time off: %w", err)
		}
		periods = append(periods, p)
	}
	return periods, rows.Err()
}

// CreateTimeOff inserts a time-off period.
func (r *Repository) CreateTimeOff(ctx context.Context, period *models.TimeOffPeriod) error {
	query := `
		INSERT INTO banked.time_off_periods (user_id, name, start_date, end_date, capacity_percent, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, CURRENT_TIMESTAMP, CURRENT_TIMESTAMP)
		RETURNING id, created_at, updated_at`
	err := r.db.QueryRowContext(ctx, query, period.UserID, period.Name, period.StartDate, period.EndDate, period.CapacityPercent).
		Scan(&period.ID, &period.CreatedAt, &period.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to create time off: %w", err)
	}
	return nil
}

// DeleteTimeOff removes a time-off period.
func (r *Repository) DeleteTimeOff(ctx context.Context, userID, periodID int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM banked.time_off_periods WHERE id = $1 AND user_id = $2`, periodID, userID)
	if err != nil {
		return fmt.Errorf("failed to delete time off: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

// PlannedExpenses returns planned expenses dated inside [from, to].
func (r *Repository) PlannedExpenses(ctx context.Context, userID int64, from, to time.Time) ([]models.PlannedExpense, error) {
	query := `
		SELECT id, user_id, name, planned_date, budgeted_amount, is_scheduled, created_at, updated_at
		FROM banked.planned_expenses
		WHERE user_id = $1 AND planned_date >= $2 AND planned_date <= $3
		ORDER BY planned_date, id`
	rows, err := r.db.QueryContext(ctx, query, userID, from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to list planned expenses: %w", err)
	}
	defer rows.Close()

	var expenses []models.PlannedExpense
	for rows.Next() {
		var e models.PlannedExpense
		if err := rows.Scan(&e.ID, &e.UserID, &e.Name, &e.PlannedDate, &e.BudgetedAmount, &e.IsScheduled, &e.CreatedAt, &e.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan planned expense: %w", err)
		}
		expenses = append(expenses, e)
	}
	return expenses, rows.Err()
}

// CreatePlannedExpense inserts a planned expense.
func (r *Repository) CreatePlannedExpense(ctx context.Context, expense *models.PlannedExpense) error {
	query := `
		INSERT INTO banked.planned_expenses (user_id, name, planned_date, budgeted_amount, is_scheduled, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, CURRENT_TIMESTAMP, CURRENT_TIMESTAMP)
		RETURNING id, created_at, updated_at`
	err := r.db.QueryRowContext(ctx, query, expense.UserID, expense.Name, expense.PlannedDate, expense.BudgetedAmount, expense.IsScheduled).
		Scan(&expense.ID, &expense.CreatedAt, &expense.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to create planned expense: %w", err)
	}
	return nil
}

// UpdatePlannedExpense rewrites a planned expense.
func (r *Repository) UpdatePlannedExpense(ctx context.Context, expense *models.PlannedExpense) error {
	query := `
		UPDATE banked.planned_expenses
		SET name = $3, planned_date = $4, budgeted_amount = $5, is_scheduled = $6,
		    updated_at = CURRENT_TIMESTAMP
		WHERE id = $1 AND user_id = $2`
	res, err := r.db.ExecContext(ctx, query, expense.ID, expense.UserID, expense.Name, expense.PlannedDate, expense.BudgetedAmount, expense.IsScheduled)
	if err != nil {
		return fmt.Errorf("failed to update planned expense: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

// DeletePlannedExpense removes a planned expense.
func (r *Repository) DeletePlannedExpense(ctx context.Context, userID, expenseID int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM banked.planned_expenses WHERE id = $1 AND user_id = $2`, expenseID, userID)
	if err != nil {
		return fmt.Errorf("failed to delete planned expense: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

// GetPreference looks up one UI preference flag.
func (r *Repository) GetPreference(ctx context.Context, userID int64, key string) (*models.Preference, error) {
	pref := &models.Preference{UserID: userID, Key: key}
	query := `SELECT value, updated_at FROM banked.preferences WHERE user_id = $1 AND key = $2`
	err := r.db.QueryRowContext(ctx, query, userID, key).Scan(&pref.Value, &pref.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get preference: %w", err)
	}
	return pref, nil
}

// SetPreference upserts one UI preference flag. Last write wins.
func (r *Repository) SetPreference(ctx context.Context, pref *models.Preference) error {
	query := `
		INSERT INTO banked.preferences (user_id, key, value, updated_at)
		VALUES ($1, $2, $3, CURRENT_TIMESTAMP)
		ON CONFLICT (user_id, key) DO UPDATE
		SET value = EXCLUDED.value, updated_at = CURRENT_TIMESTAMP
		RETURNING updated_at`
	err := r.db.QueryRowContext(ctx, query, pref.UserID, pref.Key, pref.Value).Scan(&pref.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to set preference: %w", err)
	}
	return nil
}
