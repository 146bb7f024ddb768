package service

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"casino-wallet/internal/domain"
)

func testPolicy() domain.ThresholdPolicy {
	return domain.ThresholdPolicy{
		MinBalanceThreshold: decimal.RequireFromString("0.10"),
		WithdrawalThreshold: decimal.NewFromInt(1000),
		WithdrawalAmount:    decimal.NewFromInt(500),
	}
}

func TestEvaluateThresholds_BurnsResidualBelowFloor(t *testing.T) {
	account := &domain.Account{
		Balance:    decimal.RequireFromString("0.05"),
		FreeCredit: decimal.RequireFromString("2.50"),
	}

	outcome := EvaluateThresholds(account, decimal.RequireFromString("0.05"), testPolicy())

	assert.True(t, outcome.Burned)
	assert.True(t, outcome.BurnedAmount.Equal(decimal.RequireFromString("0.05")))
	assert.True(t, outcome.FinalBalance.IsZero())
	assert.True(t, outcome.FinalFreeCredit.IsZero(), "free credit is cleared alongside the balance")
	assert.False(t, outcome.UnlockedWithdrawal)
}

func TestEvaluateThresholds_BurnsAtExactFloor(t *testing.T) {
	account := &domain.Account{Balance: decimal.RequireFromString("0.10")}

	outcome := EvaluateThresholds(account, decimal.RequireFromString("0.10"), testPolicy())

	assert.True(t, outcome.Burned)
	assert.True(t, outcome.BurnedAmount.Equal(decimal.RequireFromString("0.10")))
}

func TestEvaluateThresholds_NoBurnAtZeroWithNoFreeCredit(t *testing.T) {
	account := &domain.Account{Balance: decimal.Zero, FreeCredit: decimal.Zero}

	outcome := EvaluateThresholds(account, decimal.Zero, testPolicy())

	assert.False(t, outcome.Burned, "a wallet already at zero has nothing to burn")
	assert.True(t, outcome.FinalBalance.IsZero())
}

func TestEvaluateThresholds_BurnsFreeCreditEvenAtZeroBalance(t *testing.T) {
	account := &domain.Account{Balance: decimal.Zero, FreeCredit: decimal.NewFromInt(5)}

	outcome := EvaluateThresholds(account, decimal.Zero, testPolicy())

	assert.True(t, outcome.Burned)
	assert.True(t, outcome.BurnedAmount.IsZero())
	assert.True(t, outcome.FinalFreeCredit.IsZero())
}

func TestEvaluateThresholds_UnlocksWithdrawalAtCeiling(t *testing.T) {
	account := &domain.Account{Balance: decimal.NewFromInt(999), CanWithdraw: false}

	outcome := EvaluateThresholds(account, decimal.NewFromInt(1004), testPolicy())

	assert.True(t, outcome.UnlockedWithdrawal)
	assert.False(t, outcome.Burned)
	assert.True(t, outcome.FinalBalance.Equal(decimal.NewFromInt(1004)))
}

func TestEvaluateThresholds_UnlockReportedOnlyOnce(t *testing.T) {
	account := &domain.Account{Balance: decimal.NewFromInt(1004), CanWithdraw: true}

	outcome := EvaluateThresholds(account, decimal.NewFromInt(1200), testPolicy())

	assert.False(t, outcome.UnlockedWithdrawal, "an already-unlocked account does not re-report the flip")
}

func TestEvaluateThresholds_MidBandIsUnchanged(t *testing.T) {
	account := &domain.Account{
		Balance:    decimal.NewFromInt(50),
		FreeCredit: decimal.NewFromInt(10),
	}

	outcome := EvaluateThresholds(account, decimal.NewFromInt(42), testPolicy())

	assert.False(t, outcome.Burned)
	assert.False(t, outcome.UnlockedWithdrawal)
	assert.True(t, outcome.FinalBalance.Equal(decimal.NewFromInt(42)))
	assert.True(t, outcome.FinalFreeCredit.Equal(decimal.NewFromInt(10)))
}
