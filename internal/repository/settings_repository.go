package repository

import (
	"database/sql"
	"log/slog"
	"time"

	"github.com/shopspring/decimal"

	"casino-wallet/internal/domain"
	"casino-wallet/internal/errors"
)

// The threshold policy lives in a single wallet_settings row so an admin
// update takes effect on the next callback without a restart.
type settingsRepository struct {
	db     SQLExecutor
	logger *slog.Logger
}

func NewSettingsRepository(db SQLExecutor, logger *slog.Logger) domain.SettingsRepository {
	return &settingsRepository{
		db:     db,
		logger: logger,
	}
}

func (r *settingsRepository) GetThresholdPolicy() (*domain.ThresholdPolicy, error) {
	query := `
		SELECT min_balance_threshold, withdrawal_threshold, withdrawal_amount
		FROM wallet_settings WHERE id = 1
	`

	var minStr, ceilStr, amountStr string
	err := r.db.QueryRow(query).Scan(&minStr, &ceilStr, &amountStr)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, errors.NewAppError(errors.InternalError, "wallet settings row missing")
		}
		r.logger.Error("Failed to get threshold policy", "error", err)
		return nil, wrapStorageError(err, "failed to get threshold policy")
	}

	var policy domain.ThresholdPolicy
	for _, field := range []struct {
		raw string
		dst *decimal.Decimal
	}{
		{minStr, &policy.MinBalanceThreshold},
		{ceilStr, &policy.WithdrawalThreshold},
		{amountStr, &policy.WithdrawalAmount},
	} {
		value, err := decimal.NewFromString(field.raw)
		if err != nil {
			return nil, errors.NewAppError(errors.InternalError, "failed to parse threshold value").WithDetails(err.Error())
		}
		*field.dst = value
	}

	return &policy, nil
}

func (r *settingsRepository) UpdateThresholdPolicy(policy *domain.ThresholdPolicy) error {
	query := `
		INSERT INTO wallet_settings (id, min_balance_threshold, withdrawal_threshold, withdrawal_amount, updated_at)
		VALUES (1, $1, $2, $3, $4)
		ON CONFLICT (id) DO UPDATE
		SET min_balance_threshold = EXCLUDED.min_balance_threshold,
		    withdrawal_threshold = EXCLUDED.withdrawal_threshold,
		    withdrawal_amount = EXCLUDED.withdrawal_amount,
		    updated_at = EXCLUDED.updated_at
	`

	_, err := r.db.Exec(
		query,
		policy.MinBalanceThreshold.String(),
		policy.WithdrawalThreshold.String(),
		policy.WithdrawalAmount.String(),
		time.Now(),
	)
	if err != nil {
		r.logger.Error("Failed to update threshold policy", "error", err)
		return wrapStorageError(err, "failed to update threshold policy")
	}

	r.logger.Info("Threshold policy updated",
		"min_balance_threshold", policy.MinBalanceThreshold,
		"withdrawal_threshold", policy.WithdrawalThreshold)
	return nil
}
