package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Account represents a bank account tracked by the app
type Account struct {
	ID             int64           `json:"id"`
	UserID         int64           `json:"user_id"`
	Name           string          `json:"name"`
	Balance        decimal.Decimal `json:"balance"`
	SpendableLimit decimal.Decimal `json:"spendable_limit"` // zero means no cap
	BalanceAsOf    *time.Time      `json:"balance_as_of,omitempty"`
	CreatedAt      string          `json:"created_at"`
	UpdatedAt      string          `json:"updated_at"`
}

// Spendable returns the balance capped by the account's spendable limit.
func (a Account) Spendable() decimal.Decimal {
	if a.SpendableLimit.IsPositive() && a.Balance.GreaterThan(a.SpendableLimit) {
		return a.SpendableLimit
	}
	return a.Balance
}

// AccountLink holds the institution connection details for an account.
// AcctID, Username and Password are AES-encrypted at rest.
type AccountLink struct {
	ID             int64  `json:"id"`
	AccountID      int64  `json:"account_id"`
	InstitutionURL string `json:"institution_url"`
	OrgName        string `json:"org_name"`
	FID            string `json:"fid"`
	BankID         string `json:"bank_id"`
	AcctID         string `json:"-"`
	Username       string `json:"-"`
	Password       string `json:"-"`
	HMAC           string `json:"hmac"`
	CreatedAt      string `json:"created_at"`
	UpdatedAt      string `json:"updated_at"`
}
