// Package predict expands income rules into per-day predicted entries for
// a date window. The expansion is pure; the scheduler persists its output
// through the repository.
package predict

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/tmaly1980/banked/internal/models"
)

var hundred = decimal.NewFromInt(100)

// Expand generates one DailyIncomeEntry per payout day per rule over
// [from, to] inclusive. Days inside a time-off period earn the rule amount
// scaled by the period's capacity percent.
func Expand(rules []models.IncomeSource, timeOff []models.TimeOffPeriod, from, to time.Time) []models.DailyIncomeEntry {
	var entries []models.DailyIncomeEntry
	for d := from; !d.After(to); d = d.AddDate(0, 0, 1) {
		for _, rule := range rules {
			if !occursOn(rule, d) {
				continue
			}
			amount := rule.Amount
			if pct, ok := capacityFor(timeOff, d); ok {
				amount = amount.Mul(pct).Div(hundred)
			}
			entries = append(entries, models.DailyIncomeEntry{
				Date:     d,
				Amount:   amount,
				SourceID: rule.ID,
			})
		}
	}
	return entries
}

// occursOn reports whether the rule pays out on the given day.
func occursOn(rule models.IncomeSource, d time.Time) bool {
	if rule.AnchorDate.IsZero() || d.Before(rule.AnchorDate) {
		return false
	}
	switch rule.Frequency {
	case models.FrequencyWeekly:
		return d.Weekday() == rule.AnchorDate.Weekday()
	case models.FrequencyBiweekly:
		days := int(d.Sub(rule.AnchorDate).Hours() / 24)
		return days%14 == 0
	case models.FrequencySemimonthly:
		return d.Day() == 1 || d.Day() == 15
	case models.FrequencyMonthly:
		return d.Day() == clampDay(rule.AnchorDate.Day(), d)
	}
	return false
}

// clampDay pins an anchor day-of-month to the length of d's month, so a
// rule anchored on the 31st still pays in February.
func clampDay(anchorDay int, d time.Time) int {
	last := time.Date(d.Year(), d.Month()+1, 0, 0, 0, 0, 0, d.Location()).Day()
	if anchorDay > last {
		return last
	}
	return anchorDay
}

func capacityFor(periods []models.TimeOffPeriod, d time.Time) (decimal.Decimal, bool) {
	for _, p := range periods {
		if p.Contains(d) {
			return p.CapacityPercent, true
		}
	}
	return decimal.Decimal{}, false
}
