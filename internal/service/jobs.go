package service

import (
	"context"
)

// RegenerateAllPredictions rebuilds the forward prediction window for
// every user. Called nightly; per-user failures are logged and skipped so
// one bad row set cannot stall the rest.
func (s *Service) RegenerateAllPredictions(ctx context.Context) error {
	userIDs, err := s.store.UserIDs(ctx)
	if err != nil {
		return err
	}
	for _, id := range userIDs {
		if err := s.RegeneratePredictions(ctx, id); err != nil {
			s.log.Errorf("Prediction regeneration failed for user %d: %v", id, err)
		}
	}
	s.log.Infof("Prediction regeneration completed for %d users", len(userIDs))
	return nil
}

// SendReminders emails upcoming-due and overdue notices.
func (s *Service) SendReminders(ctx context.Context) error {
	today := midnight(s.now())

	due, err := s.store.BillsDueWithin(ctx, today, s.config.ReminderLeadDays)
	if err != nil {
		return err
	}
	for _, rem := range due {
		if err := s.mail.SendBillReminder(rem.Email, rem.Username, rem.BillName, rem.DueDate, rem.Amount, false); err != nil {
			s.log.Errorf("Reminder failed for user %d bill %q: %v", rem.UserID, rem.BillName, err)
		}
	}

	overdue, err := s.store.OverdueBillReminders(ctx, today)
	if err != nil {
		return err
	}
	for _, rem := range overdue {
		if err := s.mail.SendBillReminder(rem.Email, rem.Username, rem.BillName, rem.DueDate, rem.Amount, true); err != nil {
			s.log.Errorf("Overdue notice failed for user %d bill %q: %v", rem.UserID, rem.BillName, err)
		}
	}

	s.log.Infof("Reminders sent: %d due, %d overdue", len(due), len(overdue))
	return nil
}

// RefreshLinkedBalances refreshes every linked account over OFX.
func (s *Service) RefreshLinkedBalances(ctx context.Context) error {
	accountIDs, err := s.store.LinkedAccountIDs(ctx)
	if err != nil {
		return err
	}
	for _, accountID := range accountIDs {
		owner, err := s.store.FindAccountOwner(ctx, accountID)
		if err != nil {
			s.log.Errorf("Owner lookup failed for account %d: %v", accountID, err)
			continue
		}
		if _, err := s.RefreshAccountBalance(ctx, owner, accountID); err != nil {
			s.log.Errorf("Balance refresh failed for account %d: %v", accountID, err)
		}
	}
	return nil
}
