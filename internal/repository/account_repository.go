package repository

import (
	"database/sql"
	"log/slog"
	"time"

	"github.com/lib/pq"
	"github.com/shopspring/decimal"

	"casino-wallet/internal/domain"
	"casino-wallet/internal/errors"
)

type accountRepository struct {
	db     SQLExecutor
	logger *slog.Logger
}

func NewAccountRepository(db SQLExecutor, logger *slog.Logger) domain.AccountRepository {
	return &accountRepository{
		db:     db,
		logger: logger,
	}
}

const accountColumns = `id, external_id, balance, free_credit, can_withdraw, kyc_status,
		total_wagered, total_won, currency_code, created_at, updated_at`

func (r *accountRepository) CreateAccount(account *domain.Account) error {
	query := `
		INSERT INTO accounts
		(external_id, balance, free_credit, can_withdraw, kyc_status, total_wagered, total_won, currency_code, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING id
	`

	now := time.Now()
	err := r.db.QueryRow(
		query,
		account.ExternalID,
		account.Balance.String(),
		account.FreeCredit.String(),
		account.CanWithdraw,
		string(account.KYCStatus),
		account.TotalWagered.String(),
		account.TotalWon.String(),
		account.CurrencyCode,
		now,
		now,
	).Scan(&account.ID)

	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok {
			if pqErr.Code == "23505" { // unique_violation
				r.logger.Warn("Duplicate account creation attempt", "external_id", account.ExternalID)
				return errors.ErrDuplicateAccount
			}
		}
		r.logger.Error("Failed to create account", "external_id", account.ExternalID, "error", err)
		return wrapStorageError(err, "failed to create account")
	}

	account.CreatedAt = now
	account.UpdatedAt = now
	r.logger.Info("Account created", "account_id", account.ID, "external_id", account.ExternalID)
	return nil
}

func (r *accountRepository) GetAccountByExternalID(externalID string) (*domain.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts WHERE external_id = $1`
	return r.scanAccount(query, externalID)
}

func (r *accountRepository) GetAccountForUpdate(externalID string) (*domain.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts WHERE external_id = $1 FOR UPDATE`
	return r.scanAccount(query, externalID)
}

func (r *accountRepository) scanAccount(query string, externalID string) (*domain.Account, error) {
	var account domain.Account
	var balanceStr, freeCreditStr, wageredStr, wonStr, kycStatus string

	err := r.db.QueryRow(query, externalID).Scan(
		&account.ID,
		&account.ExternalID,
		&balanceStr,
		&freeCreditStr,
		&account.CanWithdraw,
		&kycStatus,
		&wageredStr,
		&wonStr,
		&account.CurrencyCode,
		&account.CreatedAt,
		&account.UpdatedAt,
	)

	if err != nil {
		if err == sql.ErrNoRows {
			r.logger.Warn("Account not found", "external_id", externalID)
			return nil, errors.ErrAccountNotFound
		}
		r.logger.Error("Failed to get account", "external_id", externalID, "error", err)
		return nil, wrapStorageError(err, "failed to get account")
	}

	account.KYCStatus = domain.KYCStatus(kycStatus)
	for _, field := range []struct {
		raw string
		dst *decimal.Decimal
	}{
		{balanceStr, &account.Balance},
		{freeCreditStr, &account.FreeCredit},
		{wageredStr, &account.TotalWagered},
		{wonStr, &account.TotalWon},
	} {
		value, err := decimal.NewFromString(field.raw)
		if err != nil {
			r.logger.Error("Failed to parse account amount", "external_id", externalID, "raw", field.raw, "error", err)
			return nil, errors.NewAppError(errors.InternalError, "failed to parse account amount").WithDetails(err.Error())
		}
		*field.dst = value
	}

	return &account, nil
}

// UpdateAccountState writes the full mutable state of the account in one
// statement: the single atomic balance write at the end of callback
// processing.
func (r *accountRepository) UpdateAccountState(account *domain.Account) error {
	query := `
		UPDATE accounts
		SET balance = $1, free_credit = $2, can_withdraw = $3, kyc_status = $4,
		    total_wagered = $5, total_won = $6, updated_at = $7
		WHERE id = $8
	`

	result, err := r.db.Exec(
		query,
		account.Balance.String(),
		account.FreeCredit.String(),
		account.CanWithdraw,
		string(account.KYCStatus),
		account.TotalWagered.String(),
		account.TotalWon.String(),
		time.Now(),
		account.ID,
	)
	if err != nil {
		r.logger.Error("Failed to update account state", "account_id", account.ID, "error", err)
		return wrapStorageError(err, "failed to update account state")
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return errors.NewAppError(errors.InternalError, "failed to get rows affected").WithDetails(err.Error())
	}

	if rowsAffected == 0 {
		r.logger.Warn("No account found to update", "account_id", account.ID)
		return errors.ErrAccountNotFound
	}

	r.logger.Info("Account state updated", "account_id", account.ID, "balance", account.Balance)
	return nil
}
