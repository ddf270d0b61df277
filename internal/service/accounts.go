package service

import (
	"context"
	"fmt"

	"github.com/tmaly1980/banked/internal/integrations/ofx"
	"github.com/tmaly1980/banked/internal/models"
	"github.com/tmaly1980/banked/internal/utils"
)

// CreateAccount creates a tracked account for the user.
func (s *Service) CreateAccount(ctx context.Context, account *models.Account) error {
	if account.Name == "" {
		return fmt.Errorf("account name is required")
	}
	if err := s.store.CreateAccount(ctx, account); err != nil {
		return err
	}
	s.log.Infof("Account created for user %d: %s", account.UserID, account.Name)
	return nil
}

// Accounts lists the user's accounts.
func (s *Service) Accounts(ctx context.Context, userID int64) ([]models.Account, error) {
	return s.store.AccountsByUser(ctx, userID)
}

// LinkAccount stores institution credentials for an account, encrypted at
// rest with an HMAC over the plaintext fields for tamper detection.
func (s *Service) LinkAccount(ctx context.Context, userID, accountID int64, institutionURL, orgName, fid, bankID, acctID, username, password string) error {
	owner, err := s.store.FindAccountOwner(ctx, accountID)
	if err != nil {
		return err
	}
	if owner != userID {
		return fmt.Errorf("account does not belong to user")
	}
	if institutionURL == "" || acctID == "" {
		return fmt.Errorf("institution URL and account ID are required")
	}

	encAcctID, err := utils.Encrypt(acctID, s.config.EncryptionKey)
	if err != nil {
		return fmt.Errorf("failed to encrypt account id: %w", err)
	}
	encUsername, err := utils.Encrypt(username, s.config.EncryptionKey)
	if err != nil {
		return fmt.Errorf("failed to encrypt username: %w", err)
	}
	encPassword, err := utils.Encrypt(password, s.config.EncryptionKey)
	if err != nil {
		return fmt.Errorf("failed to encrypt password: %w", err)
	}

	link := &models.AccountLink{
		AccountID:      accountID,
		InstitutionURL: institutionURL,
		OrgName:        orgName,
		FID:            fid,
		BankID:         bankID,
		AcctID:         encAcctID,
		Username:       encUsername,
		Password:       encPassword,
		HMAC:           utils.GenerateHMAC(acctID, username, password, s.config.HMACSecret),
	}
	if err := s.store.CreateAccountLink(ctx, link); err != nil {
		return err
	}
	s.log.Infof("Account %d linked to %s", accountID, orgName)
	return nil
}

// RefreshAccountBalance pulls a fresh balance over OFX and writes it back.
func (s *Service) RefreshAccountBalance(ctx context.Context, userID, accountID int64) (*models.Account, error) {
	owner, err := s.store.FindAccountOwner(ctx, accountID)
	if err != nil {
		return nil, err
	}
	if owner != userID {
		return nil, fmt.Errorf("account does not belong to user")
	}

	link, err := s.store.FindAccountLink(ctx, accountID)
	if err != nil {
		return nil, fmt.Errorf("account is not linked: %w", err)
	}

	acctID, err := utils.Decrypt(link.AcctID, s.config.EncryptionKey)
	if err != nil {
		return nil, fmt.Errorf("failed to decrypt account id: %w", err)
	}
	username, err := utils.Decrypt(link.Username, s.config.EncryptionKey)
	if err != nil {
		return nil, fmt.Errorf("failed to decrypt username: %w", err)
	}
	password, err := utils.Decrypt(link.Password, s.config.EncryptionKey)
	if err != nil {
		return nil, fmt.Errorf("failed to decrypt password: %w", err)
	}

	if utils.GenerateHMAC(acctID, username, password, s.config.HMACSecret) != link.HMAC {
		return nil, fmt.Errorf("account link integrity check failed")
	}

	bal, err := s.bank.FetchBalance(ctx, link.InstitutionURL, ofx.Credentials{
		Username: username,
		Password: password,
		OrgName:  link.OrgName,
		FID:      link.FID,
		BankID:   link.BankID,
		AcctID:   acctID,
	})
	if err != nil {
		return nil, fmt.Errorf("balance fetch failed: %w", err)
	}

	if err := s.store.UpdateAccountBalance(ctx, accountID, bal.Amount, bal.AsOf); err != nil {
		return nil, err
	}
	s.log.Infof("Balance refreshed for account %d: %s", accountID, bal.Amount)

	accounts, err := s.store.AccountsByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	for i := range accounts {
		if accounts[i].ID == accountID {
			return &accounts[i], nil
		}
	}
	return nil, fmt.Errorf("account disappeared after refresh")
}
