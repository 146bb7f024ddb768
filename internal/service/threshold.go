package service

import (
	"github.com/shopspring/decimal"

	"casino-wallet/internal/domain"
)

// ThresholdOutcome is the result of evaluating the balance-threshold rules
// against a proposed post-mutation balance.
type ThresholdOutcome struct {
	FinalBalance    decimal.Decimal
	FinalFreeCredit decimal.Decimal
	// Burned is true when the floor rule destroyed residual value. The
	// burned amount is the pre-burn balance, which is what gets recorded
	// on the BURN transaction.
	Burned       bool
	BurnedAmount decimal.Decimal
	// UnlockedWithdrawal is true when this evaluation flipped CanWithdraw.
	UnlockedWithdrawal bool
}

// EvaluateThresholds applies the two balance-threshold policies to a
// proposed balance. Pure: it inspects the account but mutates nothing.
//
// At or below the floor the wallet is cleared: balance and free credit both
// go to zero and the destroyed value is reported for the audit row. A wallet
// already at exactly zero with no free credit is left untouched; repeated
// evaluations at zero must not produce another burn.
//
// At or above the ceiling, withdrawal unlocks once. The two branches are
// mutually exclusive as long as the policy keeps floor < ceiling.
func EvaluateThresholds(account *domain.Account, proposed decimal.Decimal, policy domain.ThresholdPolicy) ThresholdOutcome {
	outcome := ThresholdOutcome{
		FinalBalance:    proposed,
		FinalFreeCredit: account.FreeCredit,
	}

	if proposed.LessThanOrEqual(policy.MinBalanceThreshold) {
		if proposed.IsZero() && account.FreeCredit.IsZero() {
			return outcome
		}
		outcome.FinalBalance = decimal.Zero
		outcome.FinalFreeCredit = decimal.Zero
		outcome.Burned = true
		outcome.BurnedAmount = proposed
		return outcome
	}

	if proposed.GreaterThanOrEqual(policy.WithdrawalThreshold) && !account.CanWithdraw {
		outcome.UnlockedWithdrawal = true
	}

	return outcome
}
