package service

import (
	"log/slog"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"casino-wallet/internal/domain"
	"casino-wallet/internal/errors"
	"casino-wallet/internal/repository"
)

// AccountService carries the administrative wallet operations that live
// outside the provider callback path: account creation, deposits, manual
// adjustments, KYC review and withdrawals.
type AccountService struct {
	store  domain.Store
	logger *slog.Logger
}

func NewAccountService(store domain.Store, logger *slog.Logger) *AccountService {
	return &AccountService{
		store:  store,
		logger: logger,
	}
}

func (s *AccountService) CreateAccount(externalID string, initialBalance, freeCredit decimal.Decimal, currencyCode string) (*domain.Account, error) {
	s.logger.Info("Creating account", "external_id", externalID, "initial_balance", initialBalance)

	if externalID == "" {
		return nil, errors.NewAppError(errors.InvalidInput, "external account id is required")
	}
	if initialBalance.IsNegative() || freeCredit.IsNegative() {
		return nil, errors.ErrInvalidAmount
	}
	if currencyCode == "" {
		currencyCode = "USD"
	}

	account := &domain.Account{
		ExternalID:   externalID,
		Balance:      initialBalance,
		FreeCredit:   freeCredit,
		KYCStatus:    domain.KYCPending,
		TotalWagered: decimal.Zero,
		TotalWon:     decimal.Zero,
		CurrencyCode: currencyCode,
	}

	if err := s.store.Account().CreateAccount(account); err != nil {
		return nil, err
	}
	return account, nil
}

func (s *AccountService) GetAccount(externalID string) (*domain.Account, error) {
	return s.store.Account().GetAccountByExternalID(externalID)
}

// Credit deposits funds into the wallet and records a CREDIT transaction.
func (s *AccountService) Credit(externalID string, amount decimal.Decimal, reference string) (*domain.Account, error) {
	if !amount.IsPositive() {
		return nil, errors.ErrInvalidAmount
	}
	return s.mutate(externalID, func(account *domain.Account) (*domain.Transaction, error) {
		before := account.Balance
		account.Balance = account.Balance.Add(amount)
		return &domain.Transaction{
			ID:                uuid.New(),
			AccountID:         account.ID,
			Type:              domain.TransactionCredit,
			Amount:            amount,
			BalanceBefore:     before,
			BalanceAfter:      account.Balance,
			ExternalReference: reference,
		}, nil
	})
}

// Adjust applies a signed administrative correction. It may not drive the
// balance negative.
func (s *AccountService) Adjust(externalID string, amount decimal.Decimal, reference string) (*domain.Account, error) {
	if amount.IsZero() {
		return nil, errors.ErrInvalidAmount
	}
	return s.mutate(externalID, func(account *domain.Account) (*domain.Transaction, error) {
		before := account.Balance
		newBalance := account.Balance.Add(amount)
		if newBalance.IsNegative() {
			return nil, errors.ErrInsufficientBalance
		}
		account.Balance = newBalance
		return &domain.Transaction{
			ID:                uuid.New(),
			AccountID:         account.ID,
			Type:              domain.TransactionAdminAdjust,
			Amount:            amount,
			BalanceBefore:     before,
			BalanceAfter:      account.Balance,
			ExternalReference: reference,
		}, nil
	})
}

// SetKYCStatus records the outcome of the KYC review workflow.
func (s *AccountService) SetKYCStatus(externalID string, status domain.KYCStatus) (*domain.Account, error) {
	switch status {
	case domain.KYCPending, domain.KYCSubmitted, domain.KYCApproved, domain.KYCRejected:
	default:
		return nil, errors.NewAppErrorf(errors.InvalidInput, "unknown kyc status %q", status)
	}
	return s.mutate(externalID, func(account *domain.Account) (*domain.Transaction, error) {
		account.KYCStatus = status
		return nil, nil
	})
}

// Withdraw pays out the configured withdrawal amount (or the full balance if
// smaller). Requires an unlocked wallet and approved KYC; resetting
// CanWithdraw afterwards is the one administrative action allowed to flip it
// back. The withdrawal amount comes from the settings row read inside the
// same transaction.
func (s *AccountService) Withdraw(externalID string) (*domain.Account, error) {
	var updated *domain.Account
	err := repository.WithRetry(s.logger, retryAttempts, retryDelay, func() error {
		return s.store.WithTransaction(func(store domain.Store) error {
			account, err := store.Account().GetAccountForUpdate(externalID)
			if err != nil {
				return err
			}
			if !account.CanWithdraw {
				return errors.NewAppError(errors.WithdrawalNotAllowed, "withdrawal threshold not reached")
			}
			if account.KYCStatus != domain.KYCApproved {
				return errors.NewAppError(errors.WithdrawalNotAllowed, "kyc approval required")
			}

			policy, err := store.Settings().GetThresholdPolicy()
			if err != nil {
				return err
			}
			amount := policy.WithdrawalAmount
			if account.Balance.LessThan(amount) {
				amount = account.Balance
			}
			if !amount.IsPositive() {
				return errors.ErrInsufficientBalance
			}

			before := account.Balance
			account.Balance = account.Balance.Sub(amount)
			account.CanWithdraw = false
			row := &domain.Transaction{
				ID:            uuid.New(),
				AccountID:     account.ID,
				Type:          domain.TransactionWithdrawal,
				Amount:        amount.Neg(),
				BalanceBefore: before,
				BalanceAfter:  account.Balance,
			}
			if err := store.Transaction().CreateTransaction(row); err != nil {
				return err
			}
			if err := store.Account().UpdateAccountState(account); err != nil {
				return err
			}
			s.logger.Info("Withdrawal paid out",
				"account_id", account.ID, "amount", amount, "balance", account.Balance)
			updated = account
			return nil
		})
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

func (s *AccountService) ListTransactions(externalID string, limit int) ([]*domain.Transaction, error) {
	if limit <= 0 || limit > 500 {
		limit = 100
	}
	account, err := s.store.Account().GetAccountByExternalID(externalID)
	if err != nil {
		return nil, err
	}
	return s.store.Transaction().ListTransactionsByAccount(account.ID, limit)
}

// mutate runs fn against the locked account row, records the transaction it
// returns (if any) and writes the account state, all in one database
// transaction with contention retry.
func (s *AccountService) mutate(externalID string, fn func(*domain.Account) (*domain.Transaction, error)) (*domain.Account, error) {
	var updated *domain.Account
	err := repository.WithRetry(s.logger, retryAttempts, retryDelay, func() error {
		return s.store.WithTransaction(func(store domain.Store) error {
			account, err := store.Account().GetAccountForUpdate(externalID)
			if err != nil {
				return err
			}
			row, err := fn(account)
			if err != nil {
				return err
			}
			if row != nil {
				if err := store.Transaction().CreateTransaction(row); err != nil {
					return err
				}
			}
			if err := store.Account().UpdateAccountState(account); err != nil {
				return err
			}
			updated = account
			return nil
		})
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}
