// Package ledger builds the day-by-day cash-flow projection shown on the
// home screen. Build is a pure function of its inputs plus an explicit
// "today": no I/O, no clock reads, no mutation of arguments.
package ledger

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/tmaly1980/banked/internal/models"
)

const dateLayout = "2006-01-02"

// DefaultHorizonDays bounds how far forward time-off periods are
// materialized into the per-day lookup.
const DefaultHorizonDays = 30

// Input carries the already-fetched, already-filtered rows the projection
// is built from. Bills arrive split into upcoming and overdue sets by the
// repository's own due-date logic; the builder does no re-filtering.
type Input struct {
	StartingBalance decimal.Decimal
	Income          []models.DailyIncomeEntry
	Bills           []models.BillInstance
	OverdueBills    []models.BillInstance
	TimeOff         []models.TimeOffPeriod
	PlannedExpenses []models.PlannedExpense
	Today           time.Time
	HorizonDays     int // defaults to DefaultHorizonDays when zero
}

// dayEntries is one walked date with its ordered entry list.
type dayEntries struct {
	key     string
	entries []models.LedgerEntry
}

// Build walks the forward window once and returns the bucket sequence in
// chronological order. The running total of the final entry always equals
// startingBalance + all non-deferred income - all non-deferred charges.
func Build(in Input) []models.DayBucket {
	horizon := in.HorizonDays
	if horizon <= 0 {
		horizon = DefaultHorizonDays
	}
	todayKey := in.Today.Format(dateLayout)

	overdue := OverdueTotal(in.OverdueBills, in.Today)
	running := in.StartingBalance.Sub(overdue)

	incomeByDate := make(map[string]decimal.Decimal)
	for _, e := range in.Income {
		if e.Date.IsZero() {
			continue
		}
		k := e.Date.Format(dateLayout)
		incomeByDate[k] = incomeByDate[k].Add(e.Amount)
	}

	billsByDate := make(map[string][]models.BillInstance)
	for _, b := range in.Bills {
		if b.NextDueDate == nil {
			// Dateless bills belong to the "later" list, never the ledger.
			continue
		}
		k := b.NextDueDate.Format(dateLayout)
		billsByDate[k] = append(billsByDate[k], b)
	}

	expensesByDate := make(map[string][]models.PlannedExpense)
	for _, p := range in.PlannedExpenses {
		if !p.IsScheduled || !p.BudgetedAmount.IsPositive() || p.PlannedDate.IsZero() {
			continue
		}
		k := p.PlannedDate.Format(dateLayout)
		expensesByDate[k] = append(expensesByDate[k], p)
	}

	periods := clipTimeOff(in.TimeOff, todayKey, in.Today.AddDate(0, 0, horizon).Format(dateLayout))

	// Union of all dates carrying entries, plus today for the seed.
	seen := map[string]bool{todayKey: true}
	dates := []string{todayKey}
	collect := func(k string) {
		if !seen[k] {
			seen[k] = true
			dates = append(dates, k)
		}
	}
	for k := range incomeByDate {
		collect(k)
	}
	for k := range billsByDate {
		collect(k)
	}
	for k := range expensesByDate {
		collect(k)
	}
	// Lexical sort is sufficient for ISO dates, and intentional.
	sort.Strings(dates)

	var days []dayEntries
	for _, k := range dates {
		date, err := time.Parse(dateLayout, k)
		if err != nil {
			continue
		}
		var entries []models.LedgerEntry

		if k == todayKey && overdue.IsZero() {
			entries = append(entries, models.LedgerEntry{
				Date:         date,
				Kind:         models.EntryBalance,
				Description:  "Account Balance",
				Amount:       in.StartingBalance,
				RunningTotal: running,
			})
		}

		if amt, ok := incomeByDate[k]; ok {
			running = running.Add(amt)
			entries = append(entries, models.LedgerEntry{
				Date:         date,
				Kind:         models.EntryIncome,
				Description:  "Income",
				Amount:       amt,
				RunningTotal: running,
			})
		}

		month := k[:7]
		for _, b := range billsByDate[k] {
			amt := EffectiveAmount(b)
			deferred := IsDeferredForMonth(b, month)
			if !deferred {
				running = running.Sub(amt)
			}
			entries = append(entries, models.LedgerEntry{
				Date:         date,
				Kind:         models.EntryBill,
				Description:  b.Name,
				Amount:       amt.Neg(),
				RunningTotal: running,
				Deferred:     deferred,
			})
		}

		for _, p := range expensesByDate[k] {
			running = running.Sub(p.BudgetedAmount)
			entries = append(entries, models.LedgerEntry{
				Date:         date,
				Kind:         models.EntryPlannedExpense,
				Description:  p.Name,
				Amount:       p.BudgetedAmount.Neg(),
				RunningTotal: running,
			})
		}

		if len(entries) == 0 {
			continue
		}
		days = append(days, dayEntries{key: k, entries: entries})
	}

	return group(days, periods)
}

// clippedPeriod is a time-off period restricted to the ledger window.
// startKey is the clipped start used for interstitial placement; the
// dedupe key uses the original bounds.
type clippedPeriod struct {
	period   models.TimeOffPeriod
	startKey string
	dedupe   string
}

func clipTimeOff(periods []models.TimeOffPeriod, fromKey, toKey string) []clippedPeriod {
	var out []clippedPeriod
	seen := make(map[string]bool)
	for _, p := range periods {
		if p.StartDate.IsZero() || p.EndDate.IsZero() {
			continue
		}
		startKey := p.StartDate.Format(dateLayout)
		endKey := p.EndDate.Format(dateLayout)
		if endKey < fromKey || startKey > toKey {
			continue
		}
		if startKey < fromKey {
			startKey = fromKey
		}
		dedupe := p.StartDate.Format(dateLayout) + "\x00" + endKey
		if seen[dedupe] {
			continue
		}
		seen[dedupe] = true
		out = append(out, clippedPeriod{period: p, startKey: startKey, dedupe: dedupe})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].startKey != out[j].startKey {
			return out[i].startKey < out[j].startKey
		}
		return out[i].dedupe < out[j].dedupe
	})
	return out
}

// incomeOnly reports whether every entry on the day is income or the seed
// balance entry, making the day eligible for run-merging.
func incomeOnly(entries []models.LedgerEntry) bool {
	for _, e := range entries {
		if e.Kind != models.EntryIncome && e.Kind != models.EntryBalance {
			return false
		}
	}
	return true
}

// group coalesces maximal runs of consecutive income-only days into merged
// buckets and threads time-off interstitials in front of the buckets that
// terminate those runs.
func group(days []dayEntries, periods []clippedPeriod) []models.DayBucket {
	var buckets []models.DayBucket
	emitted := make(map[string]bool)
	var run []dayEntries

	flushRun := func() {
		if len(run) == 0 {
			return
		}
		if len(run) == 1 {
			// A lone income-only date stays an ordinary bucket.
			d := run[0]
			date, _ := time.Parse(dateLayout, d.key)
			buckets = append(buckets, models.DayBucket{
				Date:    date,
				EndDate: date,
				Label:   d.key,
				Entries: d.entries,
			})
			run = nil
			return
		}
		first, last := run[0], run[len(run)-1]
		breakdown := make([]models.BreakdownRow, 0, len(run))
		for _, d := range run {
			date, _ := time.Parse(dateLayout, d.key)
			amt := decimal.Zero
			for _, e := range d.entries {
				if e.Kind == models.EntryIncome {
					amt = amt.Add(e.Amount)
				}
			}
			// The day's last entry carries its closing balance.
			breakdown = append(breakdown, models.BreakdownRow{
				Date:         date,
				Amount:       amt,
				RunningTotal: d.entries[len(d.entries)-1].RunningTotal,
			})
		}
		firstDate, _ := time.Parse(dateLayout, first.key)
		lastDate, _ := time.Parse(dateLayout, last.key)
		buckets = append(buckets, models.DayBucket{
			Date:            firstDate,
			EndDate:         lastDate,
			Label:           first.key + " - " + last.key,
			IncomeBreakdown: breakdown,
			IsIncomeOnly:    true,
		})
		run = nil
	}

	for _, d := range days {
		if incomeOnly(d.entries) {
			run = append(run, d)
			continue
		}
		flushRun()
		for _, cp := range periods {
			if cp.startKey > d.key || emitted[cp.dedupe] {
				continue
			}
			emitted[cp.dedupe] = true
			p := cp.period
			buckets = append(buckets, models.DayBucket{
				Date:      p.StartDate,
				EndDate:   p.EndDate,
				Label:     p.Name,
				IsTimeOff: true,
				TimeOff:   &p,
			})
		}
		date, _ := time.Parse(dateLayout, d.key)
		buckets = append(buckets, models.DayBucket{
			Date:    date,
			EndDate: date,
			Label:   d.key,
			Entries: d.entries,
		})
	}
	flushRun()
	return buckets
}
