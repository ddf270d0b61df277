package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/lib/pq"
	"github.com/shopspring/decimal"

	"github.com/tmaly1980/banked/internal/models"
)

const billInstanceColumns = `
	id, name, amount, next_due_date, is_variable,
	remaining_amount, statement_minimum_due, statement_balance,
	updated_balance, partial_payment, deferred_months`

func scanBillInstance(rows *sql.Rows, overdue bool) (models.BillInstance, error) {
	var b models.BillInstance
	var due sql.NullTime
	err := rows.Scan(&b.ID, &b.Name, &b.Amount, &due, &b.IsVariable,
		&b.RemainingAmount, &b.StatementMinimumDue, &b.StatementBalance,
		&b.UpdatedBalance, &b.PartialPayment, pq.Array(&b.DeferredMonths))
	if err != nil {
		return b, fmt.Errorf("failed to scan bill: %w", err)
	}
	if due.Valid {
		t := due.Time
		b.NextDueDate = &t
	}
	b.IsOverdue = overdue
	return b, nil
}

// UpcomingBills returns bill instances due in [asOf, asOf+horizon].
func (r *Repository) UpcomingBills(ctx context.Context, userID int64, asOf time.Time, horizonDays int) ([]models.BillInstance, error) {
	query := `
		SELECT ` + billInstanceColumns + `
		FROM banked.bills
		WHERE user_id = $1
		  AND next_due_date IS NOT NULL
		  AND next_due_date >= $2
		  AND next_due_date <= $3
		ORDER BY next_due_date, id`
	rows, err := r.db.QueryContext(ctx, query, userID, asOf, asOf.AddDate(0, 0, horizonDays))
	if err != nil {
		return nil, fmt.Errorf("failed to list upcoming bills: %w", err)
	}
	defer rows.Close()
	return collectBillInstances(rows, false)
}

// OverdueBills returns bill instances whose due date has passed.
func (r *Repository) OverdueBills(ctx context.Context, userID int64, asOf time.Time) ([]models.BillInstance, error) {
	query := `
		SELECT ` + billInstanceColumns + `
		FROM banked.bills
		WHERE user_id = $1
		  AND next_due_date IS NOT NULL
		  AND next_due_date < $2
		ORDER BY next_due_date, id`
	rows, err := r.db.QueryContext(ctx, query, userID, asOf)
	if err != nil {
		return nil, fmt.Errorf("failed to list overdue bills: %w", err)
	}
	defer rows.Close()
	return collectBillInstances(rows, true)
}

// UndatedBills returns bills without a due date, for the "later" list.
func (r *Repository) UndatedBills(ctx context.Context, userID int64) ([]models.BillInstance, error) {
	query := `
		SELECT ` + billInstanceColumns + `
		FROM banked.bills
		WHERE user_id = $1 AND next_due_date IS NULL
		ORDER BY name, id`
	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list undated bills: %w", err)
	}
	defer rows.Close()
	return collectBillInstances(rows, false)
}

func collectBillInstances(rows *sql.Rows, overdue bool) ([]models.BillInstance, error) {
	var bills []models.BillInstance
	for rows.Next() {
		b, err := scanBillInstance(rows, overdue)
		if err != nil {
			return nil, err
		}
		bills = append(bills, b)
	}
	return bills, rows.Err()
}

// CreateBill inserts a bill definition.
func (r *Repository) CreateBill(ctx context.Context, bill *models.Bill) error {
	query := `
		INSERT INTO banked.bills (user_id, name, amount, frequency, next_due_date, is_variable, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, CURRENT_TIMESTAMP, CURRENT_TIMESTAMP)
		RETURNING id, created_at, updated_at`
	err := r.db.QueryRowContext(ctx, query, bill.UserID, bill.Name, bill.Amount, bill.Frequency, bill.NextDueDate, bill.IsVariable).
		Scan(&bill.ID, &bill.CreatedAt, &bill.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to create bill: %w", err)
	}
	return nil
}

// UpdateBill rewrites the editable bill fields. Last write wins.
func (r *Repository) UpdateBill(ctx context.Context, bill *models.Bill) error {
	query := `
		UPDATE banked.bills
		SET name = $3, amount = $4, frequency = $5, next_due_date = $6, is_variable = $7,
		    updated_at = CURRENT_TIMESTAMP
		WHERE id = $1 AND user_id = $2`
	res, err := r.db.ExecContext(ctx, query, bill.ID, bill.UserID, bill.Name, bill.Amount, bill.Frequency, bill.NextDueDate, bill.IsVariable)
	if err != nil {
		return fmt.Errorf("failed to update bill: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

// DeleteBill removes a bill and its payments.
func (r *Repository) DeleteBill(ctx context.Context, userID, billID int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM banked.bills WHERE id = $1 AND user_id = $2`, billID, userID)
	if err != nil {
		return fmt.Errorf("failed to delete bill: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

// DeferBill appends a "YYYY-MM" month to the bill's deferral list. The
// array_append guard keeps the month from being added twice.
func (r *Repository) DeferBill(ctx context.Context, userID, billID int64, yearMonth string) error {
	query := `
		UPDATE banked.bills
		SET deferred_months = array_append(deferred_months, $3),
		    updated_at = CURRENT_TIMESTAMP
		WHERE id = $1 AND user_id = $2 AND NOT ($3 = ANY(deferred_months))`
	res, err := r.db.ExecContext(ctx, query, billID, userID, yearMonth)
	if err != nil {
		return fmt.Errorf("failed to defer bill: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

// RecordPayment inserts the payment and applies it to the bill row in one
// transaction: partial payments accumulate on the instance, full payments
// clear the statement fields and advance the due date.
func (r *Repository) RecordPayment(ctx context.Context, payment *models.Payment, nextDue *time.Time) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin payment tx: %w", err)
	}
	defer tx.Rollback()

	insert := `
		INSERT INTO banked.payments (bill_id, idempotency_key, amount, paid_at, is_partial, created_at)
		VALUES ($1, $2, $3, $4, $5, CURRENT_TIMESTAMP)
		ON CONFLICT (idempotency_key) DO NOTHING
		RETURNING id, created_at`
	err = tx.QueryRowContext(ctx, insert, payment.BillID, payment.IdempotencyKey, payment.Amount, payment.PaidAt, payment.IsPartial).
		Scan(&payment.ID, &payment.CreatedAt)
	if err == sql.ErrNoRows {
		// Replay of an already recorded payment: leave the bill untouched.
		return tx.Commit()
	}
	if err != nil {
		return fmt.Errorf("failed to insert payment: %w", err)
	}

	if payment.IsPartial {
		update := `
			UPDATE banked.bills
			SET partial_payment = partial_payment + $2,
			    remaining_amount = GREATEST(remaining_amount - $2, 0),
			    updated_at = CURRENT_TIMESTAMP
			WHERE id = $1`
		if _, err := tx.ExecContext(ctx, update, payment.BillID, payment.Amount); err != nil {
			return fmt.Errorf("failed to apply partial payment: %w", err)
		}
	} else {
		update := `
			UPDATE banked.bills
			SET partial_payment = 0, remaining_amount = 0,
			    statement_minimum_due = 0, statement_balance = 0, updated_balance = 0,
			    next_due_date = $2,
			    updated_at = CURRENT_TIMESTAMP
			WHERE id = $1`
		if _, err := tx.ExecContext(ctx, update, payment.BillID, nextDue); err != nil {
			return fmt.Errorf("failed to settle bill: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit payment: %w", err)
	}
	return nil
}

// FindBill loads a bill definition scoped to its owner.
func (r *Repository) FindBill(ctx context.Context, userID, billID int64) (*models.Bill, error) {
	bill := &models.Bill{}
	var due sql.NullTime
	query := `
		SELECT id, user_id, name, amount, frequency, next_due_date, is_variable, created_at, updated_at
		FROM banked.bills
		WHERE id = $1 AND user_id = $2`
	err := r.db.QueryRowContext(ctx, query, billID, userID).
		Scan(&bill.ID, &bill.UserID, &bill.Name, &bill.Amount, &bill.Frequency, &due, &bill.IsVariable, &bill.CreatedAt, &bill.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find bill: %w", err)
	}
	if due.Valid {
		t := due.Time
		bill.NextDueDate = &t
	}
	return bill, nil
}

// BillsDueWithin returns bills due inside the reminder window, joined with
// their owner's delivery address.
func (r *Repository) BillsDueWithin(ctx context.Context, asOf time.Time, leadDays int) ([]BillReminder, error) {
	query := `
		SELECT b.user_id, u.email, u.username, b.name, b.amount, b.next_due_date
		FROM banked.bills b
		JOIN banked.users u ON u.id = b.user_id
		WHERE b.next_due_date IS NOT NULL
		  AND b.next_due_date >= $1
		  AND b.next_due_date <= $2
		ORDER BY b.next_due_date, b.id`
	rows, err := r.db.QueryContext(ctx, query, asOf, asOf.AddDate(0, 0, leadDays))
	if err != nil {
		return nil, fmt.Errorf("failed to list due bills: %w", err)
	}
	defer rows.Close()
	return collectReminders(rows)
}

// OverdueBillReminders returns overdue bills joined with owner addresses.
func (r *Repository) OverdueBillReminders(ctx context.Context, asOf time.Time) ([]BillReminder, error) {
	query := `
		SELECT b.user_id, u.email, u.username, b.name, b.amount, b.next_due_date
		FROM banked.bills b
		JOIN banked.users u ON u.id = b.user_id
		WHERE b.next_due_date IS NOT NULL AND b.next_due_date < $1
		ORDER BY b.next_due_date, b.id`
	rows, err := r.db.QueryContext(ctx, query, asOf)
	if err != nil {
		return nil, fmt.Errorf("failed to list overdue reminders: %w", err)
	}
	defer rows.Close()
	return collectReminders(rows)
}

// BillReminder is a due or overdue bill with its delivery address.
type BillReminder struct {
	UserID   int64
	Email    string
	Username string
	BillName string
	Amount   decimal.Decimal
	DueDate  time.Time
}

func collectReminders(rows *sql.Rows) ([]BillReminder, error) {
	var reminders []BillReminder
	for rows.Next() {
		var rem BillReminder
		if err := rows.Scan(&rem.UserID, &rem.Email, &rem.Username, &rem.BillName, &rem.Amount, &rem.DueDate); err != nil {
			return nil, fmt.Errorf("failed to scan reminder: %w", err)
		}
		reminders = append(reminders, rem)
	}
	return reminders, rows.Err()
}
