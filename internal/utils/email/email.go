package email

import (
	"fmt"
	"net/smtp"
	"time"

	"github.com/jordan-wright/email"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"github.com/tmaly1980/banked/internal/config"
)

// Sender handles sending emails via SMTP
type Sender struct {
	cfg    *config.Config
	logger *logrus.Logger
}

// NewSender creates a new email sender
func NewSender(cfg *config.Config, logger *logrus.Logger) *Sender {
	return &Sender{
		cfg:    cfg,
		logger: logger,
	}
}

// SendBillReminder sends an upcoming-due or overdue notice for a bill.
func (s *Sender) SendBillReminder(to, username, billName string, dueDate time.Time, amount decimal.Decimal, isOverdue bool) error {
	e := email.NewEmail()
	e.From = s.cfg.SenderEmail
	e.To = []string{to}
	if isOverdue {
		e.Subject = fmt.Sprintf("Overdue: %s", billName)
	} else {
		e.Subject = fmt.Sprintf("Upcoming bill: %s", billName)
	}

	body := fmt.Sprintf("Hi %s,\n\n", username)
	if isOverdue {
		body += fmt.Sprintf(
			"Your %s bill of $%s was due on %s and is still unpaid.\n"+
				"It is being subtracted from your projected balance until you record a payment or defer it.\n",
			billName, amount.StringFixed(2), dueDate.Format("2006-01-02"),
		)
	} else {
		body += fmt.Sprintf(
			"Your %s bill of $%s is due on %s.\n"+
				"Record the payment in the app once it clears so your ledger stays accurate.\n",
			billName, amount.StringFixed(2), dueDate.Format("2006-01-02"),
		)
	}
	body += "\n— Banked"
	e.Text = []byte(body)

	addr := fmt.Sprintf("%s:%s", s.cfg.SMTPHost, s.cfg.SMTPPort)
	auth := smtp.PlainAuth("", s.cfg.SMTPUsername, s.cfg.SMTPPassword, s.cfg.SMTPHost)
	if err := e.Send(addr, auth); err != nil {
		s.logger.Errorf("Failed to send email to %s: %v", to, err)
		return fmt.Errorf("failed to send email: %w", err)
	}

	s.logger.Infof("Email sent to %s: %s", to, e.Subject)
	return nil
}

// SendPaymentReceipt confirms a recorded payment and the resulting due date.
func (s *Sender) SendPaymentReceipt(to, username, billName string, amount decimal.Decimal, nextDue *time.Time) error {
	e := email.NewEmail()
	e.From = s.cfg.SenderEmail
	e.To = []string{to}
	e.Subject = fmt.Sprintf("Payment recorded: %s", billName)

	body := fmt.Sprintf(
		"Hi %s,\n\nA payment of $%s toward %s was recorded on %s.\n",
		username, amount.StringFixed(2), billName, time.Now().Format("2006-01-02 15:04:05"),
	)
	if nextDue != nil {
		body += fmt.Sprintf("The next occurrence is due on %s.\n", nextDue.Format("2006-01-02"))
	}
	body += "\n— Banked"
	e.Text = []byte(body)

	addr := fmt.Sprintf("%s:%s", s.cfg.SMTPHost, s.cfg.SMTPPort)
	auth := smtp.PlainAuth("", s.cfg.SMTPUsername, s.cfg.SMTPPassword, s.cfg.SMTPHost)
	if err := e.Send(addr, auth); err != nil {
		s.logger.Errorf("Failed to send receipt to %s: %v", to, err)
		return fmt.Errorf("failed to send receipt: %w", err)
	}

	s.logger.Infof("Email sent to %s: %s", to, e.Subject)
	return nil
}
