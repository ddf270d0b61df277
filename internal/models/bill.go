package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Bill frequencies supported by the recurrence engine.
const (
	FrequencyWeekly      = "weekly"
	FrequencyBiweekly    = "biweekly"
	FrequencySemimonthly = "semimonthly"
	FrequencyMonthly     = "monthly"
)

// Bill is the recurring definition a user manages (rent, card, utility).
type Bill struct {
	ID          int64           `json:"id"`
	UserID      int64           `json:"user_id"`
	Name        string          `json:"name"`
	Amount      decimal.Decimal `json:"amount"`
	Frequency   string          `json:"frequency"`
	NextDueDate *time.Time      `json:"next_due_date,omitempty"`
	IsVariable  bool            `json:"is_variable"`
	CreatedAt   string          `json:"created_at"`
	UpdatedAt   string          `json:"updated_at"`
}

// BillInstance is one upcoming or overdue occurrence of a bill as the
// ledger consumes it. The upcoming/overdue split and the due-date window
// are computed by the repository queries, not by the consumer.
type BillInstance struct {
	ID                  int64           `json:"id"`
	Name                string          `json:"name"`
	Amount              decimal.Decimal `json:"amount"`
	NextDueDate         *time.Time      `json:"next_due_date,omitempty"`
	IsVariable          bool            `json:"is_variable"`
	IsOverdue           bool            `json:"is_overdue"`
	RemainingAmount     decimal.Decimal `json:"remaining_amount"`
	StatementMinimumDue decimal.Decimal `json:"statement_minimum_due"`
	StatementBalance    decimal.Decimal `json:"statement_balance"`
	UpdatedBalance      decimal.Decimal `json:"updated_balance"`
	PartialPayment      decimal.Decimal `json:"partial_payment"`
	DeferredMonths      []string        `json:"deferred_months"` // "YYYY-MM" entries
}

// Payment records money put toward a bill occurrence.
type Payment struct {
	ID             int64           `json:"id"`
	BillID         int64           `json:"bill_id"`
	IdempotencyKey string          `json:"idempotency_key"`
	Amount         decimal.Decimal `json:"amount"`
	PaidAt         time.Time       `json:"paid_at"`
	IsPartial      bool            `json:"is_partial"`
	CreatedAt      string          `json:"created_at"`
}
