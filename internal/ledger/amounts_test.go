package ledger

import (
	"testing"

	"github.com/tmaly1980/banked/internal/models"
)

func TestEffectiveAmountVariableChain(t *testing.T) {
	tests := []struct {
		name string
		bill models.BillInstance
		want int64
	}{
		{
			name: "partial payment wins",
			bill: models.BillInstance{
				IsVariable:          true,
				PartialPayment:      dec(50),
				StatementMinimumDue: dec(80),
				StatementBalance:    dec(400),
				Amount:              dec(25),
			},
			want: 50,
		},
		{
			name: "minimum due before balances",
			bill: models.BillInstance{
				IsVariable:          true,
				StatementMinimumDue: dec(80),
				UpdatedBalance:      dec(320),
				StatementBalance:    dec(400),
			},
			want: 80,
		},
		{
			name: "updated balance before statement balance",
			bill: models.BillInstance{
				IsVariable:       true,
				UpdatedBalance:   dec(320),
				StatementBalance: dec(400),
			},
			want: 320,
		},
		{
			name: "statement balance before base amount",
			bill: models.BillInstance{
				IsVariable:       true,
				StatementBalance: dec(400),
				Amount:           dec(25),
			},
			want: 400,
		},
		{
			name: "base amount last",
			bill: models.BillInstance{IsVariable: true, Amount: dec(25)},
			want: 25,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := EffectiveAmount(tt.bill)
			if !got.Equal(dec(tt.want)) {
				t.Errorf("EffectiveAmount = %s, want %d", got, tt.want)
			}
		})
	}
}

func TestEffectiveAmountFixedChain(t *testing.T) {
	t.Run("remaining amount wins", func(t *testing.T) {
		b := models.BillInstance{Amount: dec(500), RemainingAmount: dec(200)}
		if got := EffectiveAmount(b); !got.Equal(dec(200)) {
			t.Errorf("EffectiveAmount = %s, want 200", got)
		}
	})
	t.Run("falls back to amount", func(t *testing.T) {
		b := models.BillInstance{Amount: dec(500)}
		if got := EffectiveAmount(b); !got.Equal(dec(500)) {
			t.Errorf("EffectiveAmount = %s, want 500", got)
		}
	})
	t.Run("fixed chain ignores variable fields", func(t *testing.T) {
		b := models.BillInstance{Amount: dec(500), StatementMinimumDue: dec(10)}
		if got := EffectiveAmount(b); !got.Equal(dec(500)) {
			t.Errorf("EffectiveAmount = %s, want 500", got)
		}
	})
}

func TestIsDeferredForMonth(t *testing.T) {
	b := models.BillInstance{DeferredMonths: []string{"2025-02", "2025-04"}}

	if !IsDeferredForMonth(b, "2025-04") {
		t.Error("expected deferred for 2025-04")
	}
	if IsDeferredForMonth(b, "2025-03") {
		t.Error("unexpected deferral for 2025-03")
	}
	if IsDeferredForMonth(models.BillInstance{}, "2025-03") {
		t.Error("bill with no deferred months reported deferred")
	}
}

func TestOverdueTotal(t *testing.T) {
	month := testToday.Format("2006-01")

	t.Run("sums effective amounts", func(t *testing.T) {
		bills := []models.BillInstance{
			{Name: "Gas", Amount: dec(30), IsOverdue: true},
			{Name: "Card", IsVariable: true, StatementMinimumDue: dec(80), IsOverdue: true},
		}
		if got := OverdueTotal(bills, testToday); !got.Equal(dec(110)) {
			t.Errorf("OverdueTotal = %s, want 110", got)
		}
	})

	t.Run("skips bills deferred for the current month", func(t *testing.T) {
		bills := []models.BillInstance{
			{Name: "Gas", Amount: dec(30), DeferredMonths: []string{month}},
		}
		if got := OverdueTotal(bills, testToday); !got.IsZero() {
			t.Errorf("OverdueTotal = %s, want 0", got)
		}
	})

	t.Run("partial payment cancels the deferral", func(t *testing.T) {
		bills := []models.BillInstance{
			{
				Name:           "Card",
				IsVariable:     true,
				PartialPayment: dec(50),
				DeferredMonths: []string{month},
			},
		}
		if got := OverdueTotal(bills, testToday); !got.Equal(dec(50)) {
			t.Errorf("OverdueTotal = %s, want 50", got)
		}
	})
}
