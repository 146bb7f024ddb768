package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type KYCStatus string

const (
	KYCPending   KYCStatus = "pending"
	KYCSubmitted KYCStatus = "submitted"
	KYCApproved  KYCStatus = "approved"
	KYCRejected  KYCStatus = "rejected"
)

// Account is one player's wallet. Balance is the single source of truth for
// spendable funds and must never go negative. CanWithdraw flips true once the
// balance crosses the withdrawal ceiling and is only reset by an explicit
// withdrawal, never by later balance drops.
type Account struct {
	ID           int64           `json:"id"`
	ExternalID   string          `json:"external_account_id"`
	Balance      decimal.Decimal `json:"balance"`
	FreeCredit   decimal.Decimal `json:"free_credit"`
	CanWithdraw  bool            `json:"can_withdraw"`
	KYCStatus    KYCStatus       `json:"kyc_status"`
	TotalWagered decimal.Decimal `json:"total_wagered"`
	TotalWon     decimal.Decimal `json:"total_won"`
	CurrencyCode string          `json:"currency_code"`
	CreatedAt    time.Time       `json:"created_at"`
	UpdatedAt    time.Time       `json:"updated_at"`
}

type AccountRepository interface {
	CreateAccount(account *Account) error
	GetAccountByExternalID(externalID string) (*Account, error)
	// GetAccountForUpdate locks the account row for the remainder of the
	// enclosing database transaction.
	GetAccountForUpdate(externalID string) (*Account, error)
	UpdateAccountState(account *Account) error
}

// ThresholdPolicy holds the balance-threshold settings shared by all
// accounts. Read at evaluation time from the settings store.
type ThresholdPolicy struct {
	MinBalanceThreshold decimal.Decimal `json:"min_balance_threshold"`
	WithdrawalThreshold decimal.Decimal `json:"withdrawal_threshold"`
	WithdrawalAmount    decimal.Decimal `json:"withdrawal_amount"`
}

// Valid reports whether the floor sits strictly below the ceiling. The
// threshold evaluator relies on this for its branches being mutually
// exclusive.
func (p ThresholdPolicy) Valid() bool {
	return p.MinBalanceThreshold.LessThan(p.WithdrawalThreshold)
}

type SettingsRepository interface {
	GetThresholdPolicy() (*ThresholdPolicy, error)
	UpdateThresholdPolicy(policy *ThresholdPolicy) error
}
