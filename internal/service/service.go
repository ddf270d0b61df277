// Package service holds the business logic between the HTTP handlers and
// the repository. The ledger itself is built by the pure ledger package;
// this layer fetches the rows, applies the account balance cap and reports
// any fetch error before the builder ever runs.
package service

import (
	"context"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"

	"github.com/tmaly1980/banked/internal/config"
	"github.com/tmaly1980/banked/internal/integrations/ofx"
	"github.com/tmaly1980/banked/internal/models"
	"github.com/tmaly1980/banked/internal/repository"
)

// Store is the persistence surface the service depends on, implemented by
// *repository.Repository.
type Store interface {
	// users
	CreateUser(ctx context.Context, user *models.User) error
	FindUserByEmail(ctx context.Context, email string) (*models.User, error)
	FindUserEmail(ctx context.Context, userID int64) (email, username string, err error)
	UserIDs(ctx context.Context) ([]int64, error)

	// accounts
	CreateAccount(ctx context.Context, account *models.Account) error
	AccountsByUser(ctx context.Context, userID int64) ([]models.Account, error)
	FindAccountOwner(ctx context.Context, accountID int64) (int64, error)
	UpdateAccountBalance(ctx context.Context, accountID int64, balance decimal.Decimal, asOf time.Time) error
	CreateAccountLink(ctx context.Context, link *models.AccountLink) error
	FindAccountLink(ctx context.Context, accountID int64) (*models.AccountLink, error)
	LinkedAccountIDs(ctx context.Context) ([]int64, error)

	// bills
	UpcomingBills(ctx context.Context, userID int64, asOf time.Time, horizonDays int) ([]models.BillInstance, error)
	OverdueBills(ctx context.Context, userID int64, asOf time.Time) ([]models.BillInstance, error)
	UndatedBills(ctx context.Context, userID int64) ([]models.BillInstance, error)
	CreateBill(ctx context.Context, bill *models.Bill) error
	UpdateBill(ctx context.Context, bill *models.Bill) error
	DeleteBill(ctx context.Context, userID, billID int64) error
	FindBill(ctx context.Context, userID, billID int64) (*models.Bill, error)
	DeferBill(ctx context.Context, userID, billID int64, yearMonth string) error
	RecordPayment(ctx context.Context, payment *models.Payment, nextDue *time.Time) error
	BillsDueWithin(ctx context.Context, asOf time.Time, leadDays int) ([]repository.BillReminder, error)
	OverdueBillReminders(ctx context.Context, asOf time.Time) ([]repository.BillReminder, error)

	// income
	PredictedIncome(ctx context.Context, userID int64, from, to time.Time) ([]models.DailyIncomeEntry, error)
	ReplacePredictions(ctx context.Context, userID int64, from, to time.Time, entries []models.DailyIncomeEntry) error
	IncomeSourcesByUser(ctx context.Context, userID int64) ([]models.IncomeSource, error)
	CreateIncomeSource(ctx context.Context, source *models.IncomeSource) error
	UpdateIncomeSource(ctx context.Context, source *models.IncomeSource) error
	DeleteIncomeSource(ctx context.Context, userID, sourceID int64) error
	CreatePaycheck(ctx context.Context, paycheck *models.Paycheck) error
	PaychecksByUser(ctx context.Context, userID int64) ([]models.Paycheck, error)
	DeletePaycheck(ctx context.Context, userID, paycheckID int64) error

	// planner
	TimeOffPeriods(ctx context.Context, userID int64, from, to time.Time) ([]models.TimeOffPeriod, error)
	CreateTimeOff(ctx context.Context, period *models.TimeOffPeriod) error
	DeleteTimeOff(ctx context.Context, userID, periodID int64) error
	PlannedExpenses(ctx context.Context, userID int64, from, to time.Time) ([]models.PlannedExpense, error)
	CreatePlannedExpense(ctx context.Context, expense *models.PlannedExpense) error
	UpdatePlannedExpense(ctx context.Context, expense *models.PlannedExpense) error
	DeletePlannedExpense(ctx context.Context, userID, expenseID int64) error
	GetPreference(ctx context.Context, userID int64, key string) (*models.Preference, error)
	SetPreference(ctx context.Context, pref *models.Preference) error
}

// Mailer sends user notifications, implemented by *email.Sender.
type Mailer interface {
	SendBillReminder(to, username, billName string, dueDate time.Time, amount decimal.Decimal, isOverdue bool) error
	SendPaymentReceipt(to, username, billName string, amount decimal.Decimal, nextDue *time.Time) error
}

// BalanceFetcher pulls fresh balances from an institution, implemented by
// *ofx.Client.
type BalanceFetcher interface {
	FetchBalance(ctx context.Context, url string, creds ofx.Credentials) (ofx.Balance, error)
}

// Service handles business logic
type Service struct {
	store  Store
	mail   Mailer
	bank   BalanceFetcher
	log    *logrus.Logger
	config *config.Config
	now    func() time.Time
}

// NewService initializes a new service
func NewService(store Store, mail Mailer, bank BalanceFetcher, log *logrus.Logger, cfg *config.Config) *Service {
	return &Service{
		store:  store,
		mail:   mail,
		bank:   bank,
		log:    log,
		config: cfg,
		now:    time.Now,
	}
}

// Register creates a new user with hashed password
func (s *Service) Register(ctx context.Context, username, email, password string) (*models.User, error) {
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &models.User{
		Username:     username,
		Email:        email,
		PasswordHash: string(hashedPassword),
	}

	if err := s.store.CreateUser(ctx, user); err != nil {
		return nil, err
	}

	s.log.Infof("User registered: %s", user.Email)
	return user, nil
}

// Login authenticates a user and returns a JWT token
func (s *Service) Login(ctx context.Context, email, password string) (string, error) {
	user, err := s.store.FindUserByEmail(ctx, email)
	if err != nil {
		return "", fmt.Errorf("invalid credentials")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return "", fmt.Errorf("invalid credentials")
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   fmt.Sprintf("%d", user.ID),
		ExpiresAt: jwt.NewNumericDate(s.now().Add(24 * time.Hour)),
	})
	tokenString, err := token.SignedString([]byte(s.config.JWTSecret))
	if err != nil {
		return "", fmt.Errorf("failed to generate token: %w", err)
	}

	s.log.Infof("User logged in: %s", user.Email)
	return tokenString, nil
}

// midnight truncates to the calendar day in UTC; ledger math works on
// whole days only.
func midnight(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
