package service

import (
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"casino-wallet/internal/domain"
	"casino-wallet/internal/errors"
	"casino-wallet/internal/repository"
)

const (
	retryAttempts = 3
	retryDelay    = 50 * time.Millisecond
)

// WalletService is the wallet reconciliation engine: it processes one
// decoded provider callback against one account atomically. Per-account
// serialization comes from the FOR UPDATE row lock held across the
// read-modify-write span, with a bounded retry around transient storage
// contention.
type WalletService struct {
	store  domain.Store
	minBet decimal.Decimal
	logger *slog.Logger
}

func NewWalletService(store domain.Store, minBet decimal.Decimal, logger *slog.Logger) *WalletService {
	return &WalletService{
		store:  store,
		minBet: minBet,
		logger: logger,
	}
}

// ProcessCallback applies a bet/win/refund callback. Insufficient balance is
// a normal negative outcome, not an error: the result reports failure with
// the current, unchanged balance. Errors are reserved for account lookup,
// storage and policy failures.
func (s *WalletService) ProcessCallback(cb *domain.Callback) (*domain.CallbackResult, error) {
	s.logger.Info("Processing callback",
		"member_account", cb.MemberAccount,
		"action", cb.Action,
		"bet_amount", cb.BetAmount,
		"win_amount", cb.WinAmount,
		"transaction_id", cb.TransactionID)

	if cb.BetAmount.IsNegative() || cb.WinAmount.IsNegative() {
		return nil, errors.ErrInvalidAmount
	}

	result := &domain.CallbackResult{
		TransactionID: cb.TransactionID,
		Success:       true,
		Code:          errors.CodeSuccess,
		Message:       "Success",
	}

	err := repository.WithRetry(s.logger, retryAttempts, retryDelay, func() error {
		return s.store.WithTransaction(func(store domain.Store) error {
			return s.applyCallback(store, cb, result)
		})
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// applyCallback runs inside a single database transaction holding the
// account row lock.
func (s *WalletService) applyCallback(store domain.Store, cb *domain.Callback, result *domain.CallbackResult) error {
	account, err := store.Account().GetAccountForUpdate(cb.MemberAccount)
	if err != nil {
		return err
	}

	policy, err := store.Settings().GetThresholdPolicy()
	if err != nil {
		return err
	}

	balance := account.Balance
	var rows []*domain.Transaction

	switch cb.Action {
	case domain.ActionBet:
		if balance.LessThan(cb.BetAmount) {
			// Whole bet rejected, nothing written. A win sent alongside a
			// failing bet is intentionally NOT applied.
			result.Success = false
			result.Code = errors.CodeInsufficientBalance
			result.Message = "Insufficient balance"
			result.Balance = balance
			result.Currency = account.CurrencyCode
			return nil
		}
		afterBet := balance.Sub(cb.BetAmount)
		rows = append(rows, s.newTransaction(account, domain.TransactionBet, cb.BetAmount.Neg(), balance, afterBet, cb))
		balance = afterBet
		account.TotalWagered = account.TotalWagered.Add(cb.BetAmount)

		// Combined bet+win settlement: the win lands on whatever balance the
		// bet left behind.
		if cb.WinAmount.IsPositive() {
			afterWin := balance.Add(cb.WinAmount)
			rows = append(rows, s.newTransaction(account, domain.TransactionWin, cb.WinAmount, balance, afterWin, cb))
			balance = afterWin
			account.TotalWon = account.TotalWon.Add(cb.WinAmount)
		}

	case domain.ActionWin:
		// Wins are never rejected for insufficient funds.
		afterWin := balance.Add(cb.WinAmount)
		rows = append(rows, s.newTransaction(account, domain.TransactionWin, cb.WinAmount, balance, afterWin, cb))
		balance = afterWin
		account.TotalWon = account.TotalWon.Add(cb.WinAmount)

	case domain.ActionRefund:
		afterRefund := balance.Add(cb.BetAmount)
		rows = append(rows, s.newTransaction(account, domain.TransactionRefund, cb.BetAmount, balance, afterRefund, cb))
		balance = afterRefund

	default:
		return errors.NewAppErrorf(errors.InvalidInput, "unsupported action type %q", cb.Action)
	}

	outcome := EvaluateThresholds(account, balance, *policy)
	if outcome.Burned {
		rows = append(rows, s.newTransaction(account, domain.TransactionBurn, outcome.BurnedAmount.Neg(), outcome.BurnedAmount, decimal.Zero, cb))
		s.logger.Info("Balance burned below threshold",
			"account_id", account.ID, "burned_amount", outcome.BurnedAmount)
	}
	if outcome.UnlockedWithdrawal {
		account.CanWithdraw = true
		s.logger.Info("Withdrawal unlocked", "account_id", account.ID, "balance", outcome.FinalBalance)
	}
	account.Balance = outcome.FinalBalance
	account.FreeCredit = outcome.FinalFreeCredit

	for _, row := range rows {
		if err := store.Transaction().CreateTransaction(row); err != nil {
			return err
		}
	}
	if err := store.Account().UpdateAccountState(account); err != nil {
		return err
	}

	result.Balance = account.Balance
	result.Currency = account.CurrencyCode
	return nil
}

func (s *WalletService) newTransaction(account *domain.Account, txType domain.TransactionType, amount, before, after decimal.Decimal, cb *domain.Callback) *domain.Transaction {
	return &domain.Transaction{
		ID:                uuid.New(),
		AccountID:         account.ID,
		Type:              txType,
		Amount:            amount,
		BalanceBefore:     before,
		BalanceAfter:      after,
		ExternalReference: cb.TransactionID,
		GameUID:           cb.GameUID,
	}
}

// QueryBalance answers a provider balance query. Read-only.
func (s *WalletService) QueryBalance(memberAccount string) (*domain.CallbackResult, error) {
	account, err := s.store.Account().GetAccountByExternalID(memberAccount)
	if err != nil {
		return nil, err
	}
	return &domain.CallbackResult{
		Balance:  account.Balance,
		Currency: account.CurrencyCode,
		Success:  true,
		Code:     errors.CodeSuccess,
		Message:  "Success",
	}, nil
}

// QueryPlayerStatus reports betting eligibility. CanBet requires the balance
// to cover the configured minimum bet; MaxBet is the current balance.
func (s *WalletService) QueryPlayerStatus(memberAccount string) (*domain.PlayerStatus, error) {
	account, err := s.store.Account().GetAccountByExternalID(memberAccount)
	if err != nil {
		return nil, err
	}
	return &domain.PlayerStatus{
		Balance: account.Balance,
		CanBet:  account.Balance.GreaterThanOrEqual(s.minBet),
		MinBet:  s.minBet,
		MaxBet:  account.Balance,
	}, nil
}

// GetThresholdPolicy reads the active policy from the settings store.
func (s *WalletService) GetThresholdPolicy() (*domain.ThresholdPolicy, error) {
	return s.store.Settings().GetThresholdPolicy()
}

// UpdateThresholdPolicy replaces the active policy. Takes effect on the next
// callback evaluation.
func (s *WalletService) UpdateThresholdPolicy(policy *domain.ThresholdPolicy) error {
	if !policy.Valid() {
		return errors.NewAppError(errors.InvalidInput, "min_balance_threshold must be below withdrawal_threshold")
	}
	if policy.WithdrawalAmount.IsNegative() {
		return errors.ErrInvalidAmount
	}
	return s.store.Settings().UpdateThresholdPolicy(policy)
}
