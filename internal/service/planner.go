package service

import (
	"context"
	"fmt"

	"github.com/tmaly1980/banked/internal/models"
)

// TimeOffPeriods lists periods overlapping the forward window.
func (s *Service) TimeOffPeriods(ctx context.Context, userID int64) ([]models.TimeOffPeriod, error) {
	today := midnight(s.now())
	return s.store.TimeOffPeriods(ctx, userID, today, today.AddDate(0, 0, s.config.HorizonDays))
}

// CreateTimeOff inserts a period and regenerates predictions, since
// capacity changes the predicted income inside the period.
func (s *Service) CreateTimeOff(ctx context.Context, period *models.TimeOffPeriod) error {
	if period.StartDate.IsZero() || period.EndDate.IsZero() {
		return fmt.Errorf("start and end dates are required")
	}
	if period.EndDate.Before(period.StartDate) {
		return fmt.Errorf("end date precedes start date")
	}
	if err := s.store.CreateTimeOff(ctx, period); err != nil {
		return err
	}
	s.log.Infof("Time off created for user %d: %s", period.UserID, period.Name)
	return s.RegeneratePredictions(ctx, period.UserID)
}

// DeleteTimeOff removes a period and regenerates predictions.
func (s *Service) DeleteTimeOff(ctx context.Context, userID, periodID int64) error {
	if err := s.store.DeleteTimeOff(ctx, userID, periodID); err != nil {
		return err
	}
	return s.RegeneratePredictions(ctx, userID)
}

// PlannedExpenses lists expenses in the forward window.
func (s *Service) PlannedExpenses(ctx context.Context, userID int64) ([]models.PlannedExpense, error) {
	today := midnight(s.now())
	return s.store.PlannedExpenses(ctx, userID, today, today.AddDate(0, 0, s.config.HorizonDays))
}

// CreatePlannedExpense inserts a planned expense.
func (s *Service) CreatePlannedExpense(ctx context.Context, expense *models.PlannedExpense) error {
	if expense.Name == "" {
		return fmt.Errorf("expense name is required")
	}
	if expense.PlannedDate.IsZero() {
		return fmt.Errorf("planned date is required")
	}
	return s.store.CreatePlannedExpense(ctx, expense)
}

// UpdatePlannedExpense rewrites a planned expense.
func (s *Service) UpdatePlannedExpense(ctx context.Context, expense *models.PlannedExpense) error {
	return s.store.UpdatePlannedExpense(ctx, expense)
}

// DeletePlannedExpense removes a planned expense.
func (s *Service) DeletePlannedExpense(ctx context.Context, userID, expenseID int64) error {
	return s.store.DeletePlannedExpense(ctx, userID, expenseID)
}

// GetPreference reads one UI flag; a missing key returns an empty value
// rather than an error so clients can treat flags as defaults.
func (s *Service) GetPreference(ctx context.Context, userID int64, key string) (*models.Preference, error) {
	pref, err := s.store.GetPreference(ctx, userID, key)
	if err != nil {
		return &models.Preference{UserID: userID, Key: key, Value: ""}, nil
	}
	return pref, nil
}

// SetPreference upserts one UI flag.
func (s *Service) SetPreference(ctx context.Context, userID int64, key, value string) (*models.Preference, error) {
	pref := &models.Preference{UserID: userID, Key: key, Value: value}
	if err := s.store.SetPreference(ctx, pref); err != nil {
		return nil, err
	}
	return pref, nil
}
