package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// TimeOffPeriod is a date range during which earnings run at reduced
// capacity. The ledger renders it as an interstitial card; it never
// alters the running balance directly.
type TimeOffPeriod struct {
	ID              int64           `json:"id"`
	UserID          int64           `json:"user_id"`
	Name            string          `json:"name"`
	StartDate       time.Time       `json:"start_date"`
	EndDate         time.Time       `json:"end_date"`
	CapacityPercent decimal.Decimal `json:"capacity_percent"`
	CreatedAt       string          `json:"created_at"`
	UpdatedAt       string          `json:"updated_at"`
}

// Contains reports whether the day falls inside the period (inclusive).
func (p TimeOffPeriod) Contains(day time.Time) bool {
	d := day.Format("2006-01-02")
	return d >= p.StartDate.Format("2006-01-02") && d <= p.EndDate.Format("2006-01-02")
}
