package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type TransactionType string

const (
	TransactionBet         TransactionType = "BET"
	TransactionWin         TransactionType = "WIN"
	TransactionRefund      TransactionType = "REFUND"
	TransactionBurn        TransactionType = "BURN"
	TransactionAdminAdjust TransactionType = "ADMIN_ADJUST"
	TransactionWithdrawal  TransactionType = "WITHDRAWAL"
	TransactionCredit      TransactionType = "CREDIT"
)

// Transaction is an immutable audit record of one balance mutation. Amount is
// signed: negative for debits. Rows are created exactly once and never
// updated or deleted.
type Transaction struct {
	ID                uuid.UUID       `json:"id"`
	AccountID         int64           `json:"account_id"`
	Type              TransactionType `json:"type"`
	Amount            decimal.Decimal `json:"amount"`
	BalanceBefore     decimal.Decimal `json:"balance_before"`
	BalanceAfter      decimal.Decimal `json:"balance_after"`
	ExternalReference string          `json:"external_reference"`
	GameUID           string          `json:"game_uid"`
	CreatedAt         time.Time       `json:"created_at"`
}

type TransactionRepository interface {
	CreateTransaction(tx *Transaction) error
	ListTransactionsByAccount(accountID int64, limit int) ([]*Transaction, error)
}
