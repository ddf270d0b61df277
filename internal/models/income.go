package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// IncomeSource is a rule describing how a user earns money over time.
// AnchorDate fixes the weekday (weekly), the 14-day phase (biweekly) or
// the day of month (monthly) the rule pays out on.
type IncomeSource struct {
	ID         int64           `json:"id"`
	UserID     int64           `json:"user_id"`
	Name       string          `json:"name"`
	Amount     decimal.Decimal `json:"amount"`
	Frequency  string          `json:"frequency"`
	AnchorDate time.Time       `json:"anchor_date"`
	CreatedAt  string          `json:"created_at"`
	UpdatedAt  string          `json:"updated_at"`
}

// Paycheck is an actual received payment from a source.
type Paycheck struct {
	ID        int64           `json:"id"`
	UserID    int64           `json:"user_id"`
	SourceID  int64           `json:"source_id"`
	PayDate   time.Time       `json:"pay_date"`
	Amount    decimal.Decimal `json:"amount"`
	CreatedAt string          `json:"created_at"`
}

// DailyIncomeEntry represents predicted or actual income for one day from
// one source. Multiple entries may share a date; the ledger sums them per
// day before bucketing.
type DailyIncomeEntry struct {
	Date     time.Time       `json:"date"`
	Amount   decimal.Decimal `json:"amount"`
	SourceID int64           `json:"source_id"`
	IsActual bool            `json:"is_actual"`
}
