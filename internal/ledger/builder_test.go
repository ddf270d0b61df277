package ledger

import (
	"reflect"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/tmaly1980/banked/internal/models"
)

var testToday = time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC)

func day(offset int) time.Time {
	return testToday.AddDate(0, 0, offset)
}

func dayPtr(offset int) *time.Time {
	d := day(offset)
	return &d
}

func dec(v int64) decimal.Decimal {
	return decimal.NewFromInt(v)
}

func income(offset int, amount int64) models.DailyIncomeEntry {
	return models.DailyIncomeEntry{Date: day(offset), Amount: dec(amount), SourceID: 1}
}

func fixedBill(name string, offset int, amount int64) models.BillInstance {
	return models.BillInstance{ID: 1, Name: name, Amount: dec(amount), NextDueDate: dayPtr(offset)}
}

func TestBuildEmptyInputs(t *testing.T) {
	buckets := Build(Input{StartingBalance: dec(250), Today: testToday})

	if len(buckets) != 1 {
		t.Fatalf("got %d buckets, want 1", len(buckets))
	}
	b := buckets[0]
	if b.IsIncomeOnly || b.IsTimeOff {
		t.Errorf("seed bucket flagged merged/time-off: %+v", b)
	}
	if len(b.Entries) != 1 {
		t.Fatalf("got %d entries, want 1", len(b.Entries))
	}
	e := b.Entries[0]
	if e.Kind != models.EntryBalance {
		t.Errorf("entry kind = %q, want %q", e.Kind, models.EntryBalance)
	}
	if !e.RunningTotal.Equal(dec(250)) {
		t.Errorf("running total = %s, want 250", e.RunningTotal)
	}
	if !e.Date.Equal(testToday) {
		t.Errorf("entry date = %s, want today", e.Date)
	}
}

func TestBuildIncomeOnlySum(t *testing.T) {
	in := Input{
		StartingBalance: dec(1000),
		Income: []models.DailyIncomeEntry{
			income(0, 100),
			income(1, 100),
			income(2, 100),
		},
		Today: testToday,
	}
	buckets := Build(in)

	if len(buckets) != 1 {
		t.Fatalf("got %d buckets, want 1 merged bucket", len(buckets))
	}
	b := buckets[0]
	if !b.IsIncomeOnly {
		t.Error("merged bucket not flagged income-only")
	}
	if b.Label != "2025-03-10 - 2025-03-12" {
		t.Errorf("label = %q", b.Label)
	}
	if len(b.IncomeBreakdown) != 3 {
		t.Fatalf("got %d breakdown rows, want 3", len(b.IncomeBreakdown))
	}
	want := dec(1100)
	for i, row := range b.IncomeBreakdown {
		if !row.Amount.Equal(dec(100)) {
			t.Errorf("row %d amount = %s, want 100", i, row.Amount)
		}
		if !row.RunningTotal.Equal(want) {
			t.Errorf("row %d running total = %s, want %s", i, row.RunningTotal, want)
		}
		want = want.Add(dec(100))
	}
}

func TestBuildSingleIncomeDayStaysOrdinary(t *testing.T) {
	in := Input{
		StartingBalance: dec(500),
		Income:          []models.DailyIncomeEntry{income(0, 75)},
		Today:           testToday,
	}
	buckets := Build(in)

	if len(buckets) != 1 {
		t.Fatalf("got %d buckets, want 1", len(buckets))
	}
	b := buckets[0]
	if b.IsIncomeOnly {
		t.Error("single income-only date must be an ordinary bucket, not merged")
	}
	if len(b.Entries) != 2 {
		t.Fatalf("got %d entries, want balance + income", len(b.Entries))
	}
	if !b.Entries[1].RunningTotal.Equal(dec(575)) {
		t.Errorf("final running total = %s, want 575", b.Entries[1].RunningTotal)
	}
}

func TestBuildOverdueSeed(t *testing.T) {
	overdue := models.BillInstance{ID: 7, Name: "Electric", Amount: dec(120), IsOverdue: true}
	in := Input{
		StartingBalance: dec(1000),
		OverdueBills:    []models.BillInstance{overdue},
		Income:          []models.DailyIncomeEntry{income(2, 40)},
		Today:           testToday,
	}
	buckets := Build(in)

	// The synthetic balance entry is suppressed; the overdue adjustment
	// lives in the separate summary card, so the walk starts at 880.
	for _, b := range buckets {
		for _, e := range b.Entries {
			if e.Kind == models.EntryBalance {
				t.Fatal("synthetic balance entry emitted despite overdue total")
			}
		}
	}
	if len(buckets) != 1 {
		t.Fatalf("got %d buckets, want 1", len(buckets))
	}
	got := buckets[0].Entries[0].RunningTotal
	if !got.Equal(dec(920)) {
		t.Errorf("running total = %s, want 1000 - 120 + 40 = 920", got)
	}
}

func TestBuildDeferredBillDisplayedWithoutImpact(t *testing.T) {
	bill := fixedBill("Car Loan", 5, 300)
	bill.DeferredMonths = []string{day(5).Format("2006-01")}
	in := Input{
		StartingBalance: dec(1000),
		Bills:           []models.BillInstance{bill},
		Today:           testToday,
	}
	buckets := Build(in)

	if len(buckets) != 2 {
		t.Fatalf("got %d buckets, want balance bucket + bill bucket", len(buckets))
	}
	billBucket := buckets[1]
	if len(billBucket.Entries) != 1 {
		t.Fatalf("got %d entries in bill bucket", len(billBucket.Entries))
	}
	e := billBucket.Entries[0]
	if !e.Deferred {
		t.Error("entry not flagged deferred")
	}
	if !e.Amount.Equal(dec(-300)) {
		t.Errorf("display amount = %s, want -300", e.Amount)
	}
	if !e.RunningTotal.Equal(dec(1000)) {
		t.Errorf("running total = %s, want unchanged 1000", e.RunningTotal)
	}
}

func TestBuildWorkedExample(t *testing.T) {
	// 1000 starting, 500 income on day 3, 200 bill on day 5.
	in := Input{
		StartingBalance: dec(1000),
		Income:          []models.DailyIncomeEntry{income(3, 500)},
		Bills:           []models.BillInstance{fixedBill("Rent", 5, 200)},
		Today:           testToday,
	}
	buckets := Build(in)

	if len(buckets) != 2 {
		t.Fatalf("got %d buckets, want 2", len(buckets))
	}
	merged := buckets[0]
	if !merged.IsIncomeOnly {
		t.Fatal("today's balance day and day-3 income day should merge")
	}
	last := merged.IncomeBreakdown[len(merged.IncomeBreakdown)-1]
	if !last.RunningTotal.Equal(dec(1500)) {
		t.Errorf("income bucket balance = %s, want 1500", last.RunningTotal)
	}
	billBucket := buckets[1]
	if !billBucket.Entries[0].RunningTotal.Equal(dec(1300)) {
		t.Errorf("bill bucket running total = %s, want 1300", billBucket.Entries[0].RunningTotal)
	}
}

func TestBuildPlannedExpenses(t *testing.T) {
	in := Input{
		StartingBalance: dec(400),
		PlannedExpenses: []models.PlannedExpense{
			{Name: "Tires", PlannedDate: day(4), BudgetedAmount: dec(150), IsScheduled: true},
			{Name: "Ignored draft", PlannedDate: day(4), BudgetedAmount: dec(999)},
			{Name: "Zero budget", PlannedDate: day(4), IsScheduled: true},
		},
		Today: testToday,
	}
	buckets := Build(in)

	if len(buckets) != 2 {
		t.Fatalf("got %d buckets, want 2", len(buckets))
	}
	b := buckets[1]
	if len(b.Entries) != 1 {
		t.Fatalf("got %d expense entries, want only the scheduled positive one", len(b.Entries))
	}
	e := b.Entries[0]
	if e.Kind != models.EntryPlannedExpense || !e.RunningTotal.Equal(dec(250)) {
		t.Errorf("expense entry = %+v, want running total 250", e)
	}
}

func TestBuildDatelessBillExcluded(t *testing.T) {
	in := Input{
		StartingBalance: dec(100),
		Bills:           []models.BillInstance{{ID: 3, Name: "Someday", Amount: dec(40)}},
		Today:           testToday,
	}
	buckets := Build(in)

	if len(buckets) != 1 {
		t.Fatalf("got %d buckets, want only the seed bucket", len(buckets))
	}
	if !buckets[0].Entries[0].RunningTotal.Equal(dec(100)) {
		t.Errorf("running total = %s, want untouched 100", buckets[0].Entries[0].RunningTotal)
	}
}

func TestBuildEntryOrderWithinDay(t *testing.T) {
	in := Input{
		StartingBalance: dec(0),
		Income:          []models.DailyIncomeEntry{income(2, 100)},
		Bills:           []models.BillInstance{fixedBill("Water", 2, 30)},
		PlannedExpenses: []models.PlannedExpense{
			{Name: "Gift", PlannedDate: day(2), BudgetedAmount: dec(20), IsScheduled: true},
		},
		Today: testToday,
	}
	buckets := Build(in)

	var mixed *models.DayBucket
	for i := range buckets {
		if buckets[i].Date.Equal(day(2)) && !buckets[i].IsTimeOff {
			mixed = &buckets[i]
		}
	}
	if mixed == nil {
		t.Fatal("day-2 bucket missing")
	}
	kinds := make([]models.EntryKind, 0, len(mixed.Entries))
	for _, e := range mixed.Entries {
		kinds = append(kinds, e.Kind)
	}
	want := []models.EntryKind{models.EntryIncome, models.EntryBill, models.EntryPlannedExpense}
	if !reflect.DeepEqual(kinds, want) {
		t.Errorf("entry order = %v, want %v", kinds, want)
	}
	final := mixed.Entries[len(mixed.Entries)-1].RunningTotal
	if !final.Equal(dec(50)) {
		t.Errorf("final running total = %s, want 50", final)
	}
}

func TestBuildTimeOffInterstitials(t *testing.T) {
	period := models.TimeOffPeriod{
		ID:        9,
		Name:      "Spring Break",
		StartDate: day(2),
		EndDate:   day(6),
	}
	in := Input{
		StartingBalance: dec(500),
		Bills:           []models.BillInstance{fixedBill("Internet", 4, 60)},
		// Same period twice: the interstitial must be deduplicated.
		TimeOff: []models.TimeOffPeriod{period, period},
		Today:   testToday,
	}
	buckets := Build(in)

	if len(buckets) != 3 {
		t.Fatalf("got %d buckets, want seed + interstitial + bill", len(buckets))
	}
	card := buckets[1]
	if !card.IsTimeOff {
		t.Fatalf("bucket before the bill is not a time-off card: %+v", card)
	}
	if card.TimeOff == nil || card.TimeOff.Name != "Spring Break" {
		t.Errorf("time-off card payload = %+v", card.TimeOff)
	}
	if !buckets[2].Date.Equal(day(4)) {
		t.Errorf("terminating bucket date = %s, want day 4", buckets[2].Date)
	}
}

func TestBuildTimeOffOutsideHorizonIgnored(t *testing.T) {
	in := Input{
		StartingBalance: dec(500),
		Bills:           []models.BillInstance{fixedBill("Internet", 4, 60)},
		TimeOff: []models.TimeOffPeriod{
			{Name: "Far Future", StartDate: day(40), EndDate: day(45)},
			{Name: "Long Past", StartDate: day(-20), EndDate: day(-10)},
		},
		Today: testToday,
	}
	buckets := Build(in)

	for _, b := range buckets {
		if b.IsTimeOff {
			t.Errorf("unexpected time-off card %q", b.Label)
		}
	}
}

func TestBuildDeterministic(t *testing.T) {
	in := Input{
		StartingBalance: dec(1234),
		Income: []models.DailyIncomeEntry{
			income(0, 55),
			income(1, 55),
			income(4, 200),
		},
		Bills: []models.BillInstance{
			fixedBill("Rent", 3, 900),
			fixedBill("Phone", 4, 45),
		},
		OverdueBills: []models.BillInstance{
			{ID: 8, Name: "Gas", Amount: dec(30), IsOverdue: true},
		},
		TimeOff: []models.TimeOffPeriod{
			{Name: "PTO", StartDate: day(1), EndDate: day(2)},
		},
		PlannedExpenses: []models.PlannedExpense{
			{Name: "Shoes", PlannedDate: day(4), BudgetedAmount: dec(80), IsScheduled: true},
		},
		Today: testToday,
	}

	first := Build(in)
	second := Build(in)
	if !reflect.DeepEqual(first, second) {
		t.Error("Build is not deterministic for identical inputs")
	}
}

func TestBuildDoesNotMutateInputs(t *testing.T) {
	bills := []models.BillInstance{fixedBill("Rent", 3, 900)}
	incomeRows := []models.DailyIncomeEntry{income(1, 10), income(2, 20)}
	billsCopy := make([]models.BillInstance, len(bills))
	copy(billsCopy, bills)
	incomeCopy := make([]models.DailyIncomeEntry, len(incomeRows))
	copy(incomeCopy, incomeRows)

	Build(Input{StartingBalance: dec(10), Income: incomeRows, Bills: bills, Today: testToday})

	if !reflect.DeepEqual(bills, billsCopy) {
		t.Error("bill rows mutated")
	}
	if !reflect.DeepEqual(incomeRows, incomeCopy) {
		t.Error("income rows mutated")
	}
}

func TestBuildFinalBalanceInvariant(t *testing.T) {
	deferred := fixedBill("Deferred Loan", 6, 250)
	deferred.DeferredMonths = []string{day(6).Format("2006-01")}
	in := Input{
		StartingBalance: dec(2000),
		Income: []models.DailyIncomeEntry{
			income(1, 150),
			income(2, 150),
			income(5, 300),
		},
		Bills: []models.BillInstance{
			fixedBill("Rent", 4, 900),
			deferred,
		},
		PlannedExpenses: []models.PlannedExpense{
			{Name: "Repair", PlannedDate: day(6), BudgetedAmount: dec(75), IsScheduled: true},
		},
		Today: testToday,
	}
	buckets := Build(in)

	last := buckets[len(buckets)-1]
	var final decimal.Decimal
	if last.IsIncomeOnly {
		final = last.IncomeBreakdown[len(last.IncomeBreakdown)-1].RunningTotal
	} else {
		final = last.Entries[len(last.Entries)-1].RunningTotal
	}
	// 2000 + 600 income - 900 rent - 75 expense; deferred loan excluded.
	if !final.Equal(dec(1625)) {
		t.Errorf("final running total = %s, want 1625", final)
	}
}
