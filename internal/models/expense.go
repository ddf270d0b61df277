package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// PlannedExpense is an ad-hoc budgeted outflow. Only scheduled expenses
// with a positive budget appear in the ledger.
type PlannedExpense struct {
	ID             int64           `json:"id"`
	UserID         int64           `json:"user_id"`
	Name           string          `json:"name"`
	PlannedDate    time.Time       `json:"planned_date"`
	BudgetedAmount decimal.Decimal `json:"budgeted_amount"`
	IsScheduled    bool            `json:"is_scheduled"`
	CreatedAt      string          `json:"created_at"`
	UpdatedAt      string          `json:"updated_at"`
}

// Preference is a per-user UI flag persisted as a key/value pair
// (e.g. "later_bills_expanded").
type Preference struct {
	UserID    int64  `json:"user_id"`
	Key       string `json:"key"`
	Value     string `json:"value"`
	UpdatedAt string `json:"updated_at"`
}
