package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/tmaly1980/banked/internal/models"
)

// CreateAccount creates a new account in the database
func (r *Repository) CreateAccount(ctx context.Context, account *models.Account) error {
	query := `
		INSERT INTO banked.accounts (user_id, name, balance, spendable_limit, created_at, updated_at)
		VALUES ($1, $2, $3, $4, CURRENT_TIMESTAMP, CURRENT_TIMESTAMP)
		RETURNING id, created_at, updated_at`
	err := r.db.QueryRowContext(ctx, query, account.UserID, account.Name, account.Balance, account.SpendableLimit).
		Scan(&account.ID, &account.CreatedAt, &account.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to create account: %w", err)
	}
	return nil
}

// AccountsByUser lists a user's accounts with current balances.
func (r *Repository) AccountsByUser(ctx context.Context, userID int64) ([]models.Account, error) {
	query := `
		SELECT id, user_id, name, balance, spendable_limit, balance_as_of, created_at, updated_at
		FROM banked.accounts
		WHERE user_id = $1
		ORDER BY id`
	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list accounts: %w", err)
	}
	defer rows.Close()

	var accounts []models.Account
	for rows.Next() {
		var a models.Account
		var asOf sql.NullTime
		if err := rows.Scan(&a.ID, &a.UserID, &a.Name, &a.Balance, &a.SpendableLimit, &asOf, &a.CreatedAt, &a.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan account: %w", err)
		}
		if asOf.Valid {
			t := asOf.Time
			a.BalanceAsOf = &t
		}
		accounts = append(accounts, a)
	}
	return accounts, rows.Err()
}

// FindAccountOwner returns the owning user of an account.
func (r *Repository) FindAccountOwner(ctx context.Context, accountID int64) (int64, error) {
	var userID int64
	err := r.db.QueryRowContext(ctx, `SELECT user_id FROM banked.accounts WHERE id = $1`, accountID).Scan(&userID)
	if err == sql.ErrNoRows {
		return 0, ErrNotFound
	}
	if err != nil {
		return 0, fmt.Errorf("failed to find account: %w", err)
	}
	return userID, nil
}

// UpdateAccountBalance writes a freshly fetched balance.
func (r *Repository) UpdateAccountBalance(ctx context.Context, accountID int64, balance decimal.Decimal, asOf time.Time) error {
	query := `
		UPDATE banked.accounts
		SET balance = $2, balance_as_of = $3, updated_at = CURRENT_TIMESTAMP
		WHERE id = $1`
	res, err := r.db.ExecContext(ctx, query, accountID, balance, asOf)
	if err != nil {
		return fmt.Errorf("failed to update balance: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

// CreateAccountLink stores encrypted institution credentials for an account.
func (r *Repository) CreateAccountLink(ctx context.Context, link *models.AccountLink) error {
	query := `
		INSERT INTO banked.account_links (account_id, institution_url, org_name, fid, bank_id, acct_id, username, password, hmac, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, CURRENT_TIMESTAMP, CURRENT_TIMESTAMP)
		ON CONFLICT (account_id) DO UPDATE
		SET institution_url = EXCLUDED.institution_url, org_name = EXCLUDED.org_name,
		    fid = EXCLUDED.fid, bank_id = EXCLUDED.bank_id, acct_id = EXCLUDED.acct_id,
		    username = EXCLUDED.username, password = EXCLUDED.password, hmac = EXCLUDED.hmac,
		    updated_at = CURRENT_TIMESTAMP
		RETURNING id, created_at, updated_at`
	err := r.db.QueryRowContext(ctx, query,
		link.AccountID, link.InstitutionURL, link.OrgName, link.FID, link.BankID,
		link.AcctID, link.Username, link.Password, link.HMAC).
		Scan(&link.ID, &link.CreatedAt, &link.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to create account link: %w", err)
	}
	return nil
}

// FindAccountLink loads the link row for an account.
func (r *Repository) FindAccountLink(ctx context.Context, accountID int64) (*models.AccountLink, error) {
	link := &models.AccountLink{}
	query := `
		SELECT id, account_id, institution_url, org_name, fid, bank_id, acct_id, username, password, hmac, created_at, updated_at
		FROM banked.account_links
		WHERE account_id = $1`
	err := r.db.QueryRowContext(ctx, query, accountID).
		Scan(&link.ID, &link.AccountID, &link.InstitutionURL, &link.OrgName, &link.FID,
			&link.BankID, &link.AcctID, &link.Username, &link.Password, &link.HMAC,
			&link.CreatedAt, &link.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find account link: %w", err)
	}
	return link, nil
}

// LinkedAccountIDs lists accounts with institution links, for the nightly
// balance refresh.
func (r *Repository) LinkedAccountIDs(ctx context.Context) ([]int64, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT account_id FROM banked.account_links ORDER BY account_id`)
	if err != nil {
		return nil, fmt.Errorf("failed to list linked accounts: %w", err)
	}
	defer rows.Close()

	var ids []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan account id: %w", err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}
