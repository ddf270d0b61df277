package ledger

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/tmaly1980/banked/internal/models"
)

// EffectiveAmount resolves what a bill instance actually charges. Variable
// bills (credit cards and the like) walk a priority chain of candidate
// fields; fixed bills use whatever remains unpaid, falling back to the base
// amount. The two chains are independent and must stay that way.
func EffectiveAmount(b models.BillInstance) decimal.Decimal {
	if b.IsVariable {
		switch {
		case b.PartialPayment.IsPositive():
			return b.PartialPayment
		case b.StatementMinimumDue.IsPositive():
			return b.StatementMinimumDue
		case b.UpdatedBalance.IsPositive():
			return b.UpdatedBalance
		case b.StatementBalance.IsPositive():
			return b.StatementBalance
		}
		return b.Amount
	}
	if b.RemainingAmount.IsPositive() {
		return b.RemainingAmount
	}
	return b.Amount
}

// IsDeferredForMonth reports whether the bill is deferred for the given
// "YYYY-MM" month. The single deferral predicate shared by the builder,
// the overdue summary and the bill-list grouping.
func IsDeferredForMonth(b models.BillInstance, yearMonth string) bool {
	for _, m := range b.DeferredMonths {
		if m == yearMonth {
			return true
		}
	}
	return false
}

// OverdueTotal sums the effective amounts of overdue bills, skipping bills
// deferred for today's month. A recorded partial payment cancels the
// deferral: the bill counts against the balance again.
func OverdueTotal(bills []models.BillInstance, today time.Time) decimal.Decimal {
	month := today.Format("2006-01")
	total := decimal.Zero
	for _, b := range bills {
		if IsDeferredForMonth(b, month) && !b.PartialPayment.IsPositive() {
			continue
		}
		total = total.Add(EffectiveAmount(b))
	}
	return total
}
