package service

import (
	"context"
	"fmt"

	"github.com/tmaly1980/banked/internal/models"
	"github.com/tmaly1980/banked/internal/predict"
)

// IncomeSources lists a user's income rules.
func (s *Service) IncomeSources(ctx context.Context, userID int64) ([]models.IncomeSource, error) {
	return s.store.IncomeSourcesByUser(ctx, userID)
}

// CreateIncomeSource inserts an income rule and regenerates the user's
// prediction window so the ledger reflects it immediately.
func (s *Service) CreateIncomeSource(ctx context.Context, source *models.IncomeSource) error {
	if source.Name == "" {
		return fmt.Errorf("income source name is required")
	}
	if !validFrequency(source.Frequency) {
		return fmt.Errorf("unknown frequency %q", source.Frequency)
	}
	if source.AnchorDate.IsZero() {
		return fmt.Errorf("anchor date is required")
	}
	if err := s.store.CreateIncomeSource(ctx, source); err != nil {
		return err
	}
	s.log.Infof("Income source created for user %d: %s", source.UserID, source.Name)
	return s.RegeneratePredictions(ctx, source.UserID)
}

// UpdateIncomeSource rewrites an income rule and regenerates predictions.
func (s *Service) UpdateIncomeSource(ctx context.Context, source *models.IncomeSource) error {
	if !validFrequency(source.Frequency) {
		return fmt.Errorf("unknown frequency %q", source.Frequency)
	}
	if err := s.store.UpdateIncomeSource(ctx, source); err != nil {
		return err
	}
	return s.RegeneratePredictions(ctx, source.UserID)
}

// DeleteIncomeSource removes an income rule and regenerates predictions.
func (s *Service) DeleteIncomeSource(ctx context.Context, userID, sourceID int64) error {
	if err := s.store.DeleteIncomeSource(ctx, userID, sourceID); err != nil {
		return err
	}
	return s.RegeneratePredictions(ctx, userID)
}

// RegeneratePredictions expands the user's income rules over the forward
// window and replaces the stored non-actual prediction rows.
func (s *Service) RegeneratePredictions(ctx context.Context, userID int64) error {
	today := midnight(s.now())
	horizon := s.config.HorizonDays
	if horizon <= 0 {
		horizon = 30
	}
	end := today.AddDate(0, 0, horizon)

	rules, err := s.store.IncomeSourcesByUser(ctx, userID)
	if err != nil {
		return err
	}
	timeOff, err := s.store.TimeOffPeriods(ctx, userID, today, end)
	if err != nil {
		return err
	}

	entries := predict.Expand(rules, timeOff, today, end)
	if err := s.store.ReplacePredictions(ctx, userID, today, end, entries); err != nil {
		return err
	}
	s.log.Debugf("Regenerated %d prediction rows for user %d", len(entries), userID)
	return nil
}

// CreatePaycheck records an actual paycheck; the repository upserts the
// matching actual income entry in the same transaction.
func (s *Service) CreatePaycheck(ctx context.Context, paycheck *models.Paycheck) error {
	if !paycheck.Amount.IsPositive() {
		return fmt.Errorf("paycheck amount must be positive")
	}
	if paycheck.PayDate.IsZero() {
		return fmt.Errorf("pay date is required")
	}
	if err := s.store.CreatePaycheck(ctx, paycheck); err != nil {
		return err
	}
	s.log.Infof("Paycheck recorded for user %d: %s on %s", paycheck.UserID, paycheck.Amount, paycheck.PayDate.Format("2006-01-02"))
	return nil
}

// Paychecks lists recorded paychecks.
func (s *Service) Paychecks(ctx context.Context, userID int64) ([]models.Paycheck, error) {
	return s.store.PaychecksByUser(ctx, userID)
}

// DeletePaycheck removes a recorded paycheck.
func (s *Service) DeletePaycheck(ctx context.Context, userID, paycheckID int64) error {
	return s.store.DeletePaycheck(ctx, userID, paycheckID)
}
