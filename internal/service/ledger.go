package service

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"

	"github.com/tmaly1980/banked/internal/ledger"
	"github.com/tmaly1980/banked/internal/models"
)

// GetLedger fetches the screen's row sets concurrently, awaits them
// jointly and runs the projection. asOf is the injectable "today"; zero
// means now. Nothing is cached: every call rebuilds from fresh rows.
func (s *Service) GetLedger(ctx context.Context, userID int64, asOf time.Time) (*models.Ledger, error) {
	if asOf.IsZero() {
		asOf = s.now()
	}
	today := midnight(asOf)
	horizon := s.config.HorizonDays
	if horizon <= 0 {
		horizon = ledger.DefaultHorizonDays
	}
	end := today.AddDate(0, 0, horizon)

	var (
		accounts []models.Account
		income   []models.DailyIncomeEntry
		upcoming []models.BillInstance
		overdue  []models.BillInstance
		undated  []models.BillInstance
		timeOff  []models.TimeOffPeriod
		expenses []models.PlannedExpense
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		accounts, err = s.store.AccountsByUser(gctx, userID)
		return err
	})
	g.Go(func() (err error) {
		income, err = s.store.PredictedIncome(gctx, userID, today, end)
		return err
	})
	g.Go(func() (err error) {
		upcoming, err = s.store.UpcomingBills(gctx, userID, today, horizon)
		return err
	})
	g.Go(func() (err error) {
		overdue, err = s.store.OverdueBills(gctx, userID, today)
		return err
	})
	g.Go(func() (err error) {
		undated, err = s.store.UndatedBills(gctx, userID)
		return err
	})
	g.Go(func() (err error) {
		timeOff, err = s.store.TimeOffPeriods(gctx, userID, today, end)
		return err
	})
	g.Go(func() (err error) {
		expenses, err = s.store.PlannedExpenses(gctx, userID, today, end)
		return err
	})
	if err := g.Wait(); err != nil {
		s.log.Errorf("Ledger fetch failed for user %d: %v", userID, err)
		return nil, err
	}

	// Starting balance is capped per account, then summed; the builder
	// never re-applies the cap.
	starting := decimal.Zero
	for _, a := range accounts {
		starting = starting.Add(a.Spendable())
	}

	buckets := ledger.Build(ledger.Input{
		StartingBalance: starting,
		Income:          income,
		Bills:           upcoming,
		OverdueBills:    overdue,
		TimeOff:         timeOff,
		PlannedExpenses: expenses,
		Today:           today,
		HorizonDays:     horizon,
	})

	led := &models.Ledger{
		AsOf:            today,
		StartingBalance: starting,
		Buckets:         buckets,
		LaterBills:      undated,
	}
	if total := ledger.OverdueTotal(overdue, today); total.IsPositive() {
		led.Overdue = &models.OverdueSummary{Total: total, Bills: overdue}
	}
	return led, nil
}
