package service

import (
	"context"
	"fmt"
	"regexp"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/tmaly1980/banked/internal/models"
)

var yearMonthRe = regexp.MustCompile(`^\d{4}-\d{2}$`)

// CreateBill validates and inserts a bill definition.
func (s *Service) CreateBill(ctx context.Context, bill *models.Bill) error {
	if bill.Name == "" {
		return fmt.Errorf("bill name is required")
	}
	if !validFrequency(bill.Frequency) {
		return fmt.Errorf("unknown frequency %q", bill.Frequency)
	}
	if err := s.store.CreateBill(ctx, bill); err != nil {
		return err
	}
	s.log.Infof("Bill created for user %d: %s", bill.UserID, bill.Name)
	return nil
}

// UpdateBill rewrites an existing bill.
func (s *Service) UpdateBill(ctx context.Context, bill *models.Bill) error {
	if !validFrequency(bill.Frequency) {
		return fmt.Errorf("unknown frequency %q", bill.Frequency)
	}
	return s.store.UpdateBill(ctx, bill)
}

// DeleteBill removes a bill.
func (s *Service) DeleteBill(ctx context.Context, userID, billID int64) error {
	return s.store.DeleteBill(ctx, userID, billID)
}

// UndatedBills lists bills without a due date for the "later" section.
func (s *Service) UndatedBills(ctx context.Context, userID int64) ([]models.BillInstance, error) {
	return s.store.UndatedBills(ctx, userID)
}

// RecordPayment applies a payment to a bill. Full payments advance the due
// date by the bill's frequency; partials accumulate on the instance. The
// receipt email is best-effort and never fails the mutation.
func (s *Service) RecordPayment(ctx context.Context, userID, billID int64, amount decimal.Decimal, isPartial bool, idempotencyKey string) (*models.Payment, error) {
	if !amount.IsPositive() {
		return nil, fmt.Errorf("payment amount must be positive")
	}
	bill, err := s.store.FindBill(ctx, userID, billID)
	if err != nil {
		return nil, err
	}

	if idempotencyKey == "" {
		idempotencyKey = uuid.NewString()
	}
	payment := &models.Payment{
		BillID:         billID,
		IdempotencyKey: idempotencyKey,
		Amount:         amount,
		PaidAt:         s.now(),
		IsPartial:      isPartial,
	}

	var nextDue *time.Time
	if !isPartial && bill.NextDueDate != nil {
		d := advanceDueDate(*bill.NextDueDate, bill.Frequency)
		nextDue = &d
	}

	if err := s.store.RecordPayment(ctx, payment, nextDue); err != nil {
		return nil, err
	}
	s.log.Infof("Payment of %s recorded for bill %d (user %d)", amount, billID, userID)

	if to, username, err := s.store.FindUserEmail(ctx, userID); err == nil {
		if err := s.mail.SendPaymentReceipt(to, username, bill.Name, amount, nextDue); err != nil {
			s.log.Warnf("Receipt email failed for user %d: %v", userID, err)
		}
	}
	return payment, nil
}

// DeferBill marks the bill as deferred for the given "YYYY-MM" month.
// Deferred instances stay visible in the ledger but stop reducing the
// running balance for that month.
func (s *Service) DeferBill(ctx context.Context, userID, billID int64, yearMonth string) error {
	if yearMonth == "" {
		yearMonth = s.now().Format("2006-01")
	}
	if !yearMonthRe.MatchString(yearMonth) {
		return fmt.Errorf("month must be in YYYY-MM form, got %q", yearMonth)
	}
	if err := s.store.DeferBill(ctx, userID, billID, yearMonth); err != nil {
		return err
	}
	s.log.Infof("Bill %d deferred for %s (user %d)", billID, yearMonth, userID)
	return nil
}

func validFrequency(freq string) bool {
	switch freq {
	case models.FrequencyWeekly, models.FrequencyBiweekly, models.FrequencySemimonthly, models.FrequencyMonthly:
		return true
	}
	return false
}

// advanceDueDate rolls a due date forward by one occurrence.
func advanceDueDate(due time.Time, freq string) time.Time {
	switch freq {
	case models.FrequencyWeekly:
		return due.AddDate(0, 0, 7)
	case models.FrequencyBiweekly:
		return due.AddDate(0, 0, 14)
	case models.FrequencySemimonthly:
		if due.Day() < 15 {
			return time.Date(due.Year(), due.Month(), 15, 0, 0, 0, 0, due.Location())
		}
		return time.Date(due.Year(), due.Month()+1, 1, 0, 0, 0, 0, due.Location())
	default: // monthly
		year, month := due.Year(), due.Month()+1
		last := time.Date(year, month+1, 0, 0, 0, 0, 0, due.Location()).Day()
		day := due.Day()
		if day > last {
			day = last
		}
		return time.Date(year, month, day, 0, 0, 0, 0, due.Location())
	}
}
