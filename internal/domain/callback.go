package domain

import "github.com/shopspring/decimal"

type ActionType string

const (
	ActionBet     ActionType = "bet"
	ActionWin     ActionType = "win"
	ActionRefund  ActionType = "refund"
	ActionBalance ActionType = "balance"
	ActionStatus  ActionType = "status"
)

// Callback is one decoded provider message. It is built by the transport
// layer per HTTP call, consumed once by the engine and then discarded. The
// engine always receives an explicit Action; inference from nonzero amounts
// happens at the transport boundary.
type Callback struct {
	MemberAccount string
	Action        ActionType
	BetAmount     decimal.Decimal
	WinAmount     decimal.Decimal
	TransactionID string
	GameUID       string
	CurrencyCode  string
}

// CallbackResult is what the engine reports back for formatting. Rejections
// (insufficient balance) are results, not errors: the provider still needs
// the current balance.
type CallbackResult struct {
	Balance       decimal.Decimal
	TransactionID string
	Currency      string
	Success       bool
	Code          int
	Message       string
}

// PlayerStatus answers a provider status query. MaxBet is simply the current
// balance, never negative.
type PlayerStatus struct {
	Balance decimal.Decimal
	CanBet  bool
	MinBet  decimal.Decimal
	MaxBet  decimal.Decimal
}
