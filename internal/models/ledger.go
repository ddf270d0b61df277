package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// EntryKind classifies a ledger line.
type EntryKind string

const (
	EntryBalance        EntryKind = "balance"
	EntryIncome         EntryKind = "income"
	EntryBill           EntryKind = "bill"
	EntryPlannedExpense EntryKind = "planned_expense"
)

// LedgerEntry is one line of the day-by-day projection. Derived and
// transient: never persisted, recomputed on every load.
type LedgerEntry struct {
	Date         time.Time       `json:"date"`
	Kind         EntryKind       `json:"kind"`
	Description  string          `json:"description"`
	Amount       decimal.Decimal `json:"amount"` // signed display amount
	RunningTotal decimal.Decimal `json:"running_total"`
	Deferred     bool            `json:"deferred,omitempty"`
}

// BreakdownRow is one merged day inside an income-only bucket.
type BreakdownRow struct {
	Date         time.Time       `json:"date"`
	Amount       decimal.Decimal `json:"amount"`
	RunningTotal decimal.Decimal `json:"running_total"`
}

// DayBucket is one calendar day of the ledger or, for a maximal run of
// consecutive income-only days, a merged date range. Merged buckets carry
// IncomeBreakdown instead of Entries and are flagged IsIncomeOnly; the
// last breakdown row's running total is the bucket's representative
// balance for collapsed views.
type DayBucket struct {
	Date            time.Time       `json:"date"`
	EndDate         time.Time       `json:"end_date"`
	Label           string          `json:"label"`
	Entries         []LedgerEntry   `json:"entries,omitempty"`
	IncomeBreakdown []BreakdownRow  `json:"income_breakdown,omitempty"`
	IsIncomeOnly    bool            `json:"is_income_only"`
	IsTimeOff       bool            `json:"is_time_off"`
	TimeOff         *TimeOffPeriod  `json:"time_off,omitempty"`
}

// OverdueSummary is the card shown above the day buckets when overdue
// bills reduce the starting balance.
type OverdueSummary struct {
	Total decimal.Decimal `json:"total"`
	Bills []BillInstance  `json:"bills"`
}

// Ledger is the full projection returned to the client.
type Ledger struct {
	AsOf            time.Time       `json:"as_of"`
	StartingBalance decimal.Decimal `json:"starting_balance"`
	Overdue         *OverdueSummary `json:"overdue,omitempty"`
	Buckets         []DayBucket     `json:"buckets"`
	LaterBills      []BillInstance  `json:"later_bills"` // dateless bills, never bucketed
}
