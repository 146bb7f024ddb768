package repository

import (
	"log/slog"
	"time"

	"github.com/lib/pq"
	"github.com/shopspring/decimal"

	"casino-wallet/internal/domain"
	"casino-wallet/internal/errors"
)

type transactionRepository struct {
	db     SQLExecutor
	logger *slog.Logger
}

func NewTransactionRepository(db SQLExecutor, logger *slog.Logger) domain.TransactionRepository {
	return &transactionRepository{
		db:     db,
		logger: logger,
	}
}

func (r *transactionRepository) CreateTransaction(tx *domain.Transaction) error {
	query := `
		INSERT INTO transactions
		(id, account_id, type, amount, balance_before, balance_after, external_reference, game_uid, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`

	now := time.Now()
	_, err := r.db.Exec(
		query,
		tx.ID,
		tx.AccountID,
		string(tx.Type),
		tx.Amount.String(),
		tx.BalanceBefore.String(),
		tx.BalanceAfter.String(),
		tx.ExternalReference,
		tx.GameUID,
		now,
	)

	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok {
			if pqErr.Code == "23505" && pqErr.Constraint == "idx_transactions_external_reference" {
				r.logger.Warn("Duplicate provider transaction",
					"type", tx.Type, "external_reference", tx.ExternalReference)
				return errors.ErrDuplicateTransaction
			}
		}
		r.logger.Error("Failed to create transaction",
			"account_id", tx.AccountID,
			"type", tx.Type,
			"amount", tx.Amount,
			"error", err)
		return wrapStorageError(err, "failed to create transaction")
	}

	tx.CreatedAt = now
	r.logger.Info("Transaction recorded", "transaction_id", tx.ID, "type", tx.Type, "amount", tx.Amount)
	return nil
}

func (r *transactionRepository) ListTransactionsByAccount(accountID int64, limit int) ([]*domain.Transaction, error) {
	query := `
		SELECT id, account_id, type, amount, balance_before, balance_after, external_reference, game_uid, created_at
		FROM transactions WHERE account_id = $1
		ORDER BY created_at DESC
		LIMIT $2
	`

	rows, err := r.db.Query(query, accountID, limit)
	if err != nil {
		r.logger.Error("Failed to list transactions", "account_id", accountID, "error", err)
		return nil, wrapStorageError(err, "failed to list transactions")
	}
	defer rows.Close()

	var transactions []*domain.Transaction
	for rows.Next() {
		var tx domain.Transaction
		var txType, amountStr, beforeStr, afterStr string

		if err := rows.Scan(
			&tx.ID,
			&tx.AccountID,
			&txType,
			&amountStr,
			&beforeStr,
			&afterStr,
			&tx.ExternalReference,
			&tx.GameUID,
			&tx.CreatedAt,
		); err != nil {
			return nil, errors.NewAppError(errors.InternalError, "failed to scan transaction").WithDetails(err.Error())
		}

		tx.Type = domain.TransactionType(txType)
		for _, field := range []struct {
			raw string
			dst *decimal.Decimal
		}{
			{amountStr, &tx.Amount},
			{beforeStr, &tx.BalanceBefore},
			{afterStr, &tx.BalanceAfter},
		} {
			value, err := decimal.NewFromString(field.raw)
			if err != nil {
				return nil, errors.NewAppError(errors.InternalError, "failed to parse transaction amount").WithDetails(err.Error())
			}
			*field.dst = value
		}

		transactions = append(transactions, &tx)
	}

	if err := rows.Err(); err != nil {
		return nil, errors.NewAppError(errors.InternalError, "failed to iterate transactions").WithDetails(err.Error())
	}

	return transactions, nil
}
