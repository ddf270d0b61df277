package predict

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/tmaly1980/banked/internal/models"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func rule(id int64, amount int64, freq string, anchor time.Time) models.IncomeSource {
	return models.IncomeSource{
		ID:         id,
		Amount:     decimal.NewFromInt(amount),
		Frequency:  freq,
		AnchorDate: anchor,
	}
}

func payDates(entries []models.DailyIncomeEntry) []string {
	out := make([]string, 0, len(entries))
	for _, e := range entries {
		out = append(out, e.Date.Format("2006-01-02"))
	}
	return out
}

func TestExpandWeekly(t *testing.T) {
	// Anchor is a Friday; March 2025 Fridays are 7, 14, 21, 28.
	r := rule(1, 600, models.FrequencyWeekly, date(2025, time.February, 7))
	entries := Expand([]models.IncomeSource{r}, nil, date(2025, time.March, 1), date(2025, time.March, 31))

	want := []string{"2025-03-07", "2025-03-14", "2025-03-21", "2025-03-28"}
	got := payDates(entries)
	if len(got) != len(want) {
		t.Fatalf("got %d payouts %v, want %v", len(got), got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("payout %d = %s, want %s", i, got[i], want[i])
		}
	}
}

func TestExpandBiweekly(t *testing.T) {
	r := rule(1, 1200, models.FrequencyBiweekly, date(2025, time.March, 3))
	entries := Expand([]models.IncomeSource{r}, nil, date(2025, time.March, 1), date(2025, time.March, 31))

	want := []string{"2025-03-03", "2025-03-17", "2025-03-31"}
	got := payDates(entries)
	if len(got) != 3 {
		t.Fatalf("got payouts %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("payout %d = %s, want %s", i, got[i], want[i])
		}
	}
}

func TestExpandSemimonthly(t *testing.T) {
	r := rule(1, 900, models.FrequencySemimonthly, date(2025, time.January, 1))
	entries := Expand([]models.IncomeSource{r}, nil, date(2025, time.March, 1), date(2025, time.March, 31))

	got := payDates(entries)
	if len(got) != 2 || got[0] != "2025-03-01" || got[1] != "2025-03-15" {
		t.Errorf("payouts = %v, want 1st and 15th", got)
	}
}

func TestExpandMonthlyClampsShortMonths(t *testing.T) {
	r := rule(1, 2000, models.FrequencyMonthly, date(2025, time.January, 31))
	entries := Expand([]models.IncomeSource{r}, nil, date(2025, time.February, 1), date(2025, time.February, 28))

	got := payDates(entries)
	if len(got) != 1 || got[0] != "2025-02-28" {
		t.Errorf("payouts = %v, want single payout on Feb 28", got)
	}
}

func TestExpandBeforeAnchorPaysNothing(t *testing.T) {
	r := rule(1, 600, models.FrequencyWeekly, date(2025, time.June, 6))
	entries := Expand([]models.IncomeSource{r}, nil, date(2025, time.March, 1), date(2025, time.March, 31))

	if len(entries) != 0 {
		t.Errorf("got %d payouts before the anchor date", len(entries))
	}
}

func TestExpandTimeOffCapacity(t *testing.T) {
	r := rule(1, 600, models.FrequencyWeekly, date(2025, time.February, 7))
	off := models.TimeOffPeriod{
		Name:            "Vacation",
		StartDate:       date(2025, time.March, 10),
		EndDate:         date(2025, time.March, 16),
		CapacityPercent: decimal.NewFromInt(50),
	}
	entries := Expand([]models.IncomeSource{r}, []models.TimeOffPeriod{off}, date(2025, time.March, 1), date(2025, time.March, 31))

	byDate := make(map[string]decimal.Decimal)
	for _, e := range entries {
		byDate[e.Date.Format("2006-01-02")] = e.Amount
	}
	if got := byDate["2025-03-14"]; !got.Equal(decimal.NewFromInt(300)) {
		t.Errorf("payout inside time off = %s, want 300", got)
	}
	if got := byDate["2025-03-21"]; !got.Equal(decimal.NewFromInt(600)) {
		t.Errorf("payout outside time off = %s, want 600", got)
	}
}

func TestExpandMultipleRulesShareDates(t *testing.T) {
	a := rule(1, 100, models.FrequencySemimonthly, date(2025, time.January, 1))
	b := rule(2, 250, models.FrequencySemimonthly, date(2025, time.January, 1))
	entries := Expand([]models.IncomeSource{a, b}, nil, date(2025, time.March, 1), date(2025, time.March, 15))

	if len(entries) != 4 {
		t.Fatalf("got %d entries, want 4 (two rules x two payouts)", len(entries))
	}
	for _, e := range entries {
		if e.SourceID != 1 && e.SourceID != 2 {
			t.Errorf("entry carries unknown source %d", e.SourceID)
		}
	}
}
