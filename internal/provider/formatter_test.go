package provider

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"casino-wallet/internal/domain"
)

func successResult() domain.CallbackResult {
	return domain.CallbackResult{
		Balance:       decimal.RequireFromString("123.4567"),
		TransactionID: "tx-1",
		Currency:      "USD",
		Success:       true,
		Code:          0,
		Message:       "Success",
	}
}

func TestJiliFormat(t *testing.T) {
	resp := Response("jili", successResult())

	assert.Equal(t, 0, resp["code"])
	assert.Equal(t, "Success", resp["msg"])
	assert.Equal(t, 123.46, resp["credit_amount"])
	assert.Equal(t, "tx-1", resp["transaction_id"])
}

func TestPGSoftFormat(t *testing.T) {
	resp := Response("PGSoft", successResult())

	assert.Equal(t, "SUCCESS", resp["status"])
	assert.Equal(t, 123.4567, resp["balanceAmount"])
	assert.Equal(t, "tx-1", resp["transactionId"])

	failed := successResult()
	failed.Success = false
	failed.Code = 1
	failed.Message = "insufficient balance"
	resp = Response("pgsoft", failed)
	assert.Equal(t, "FAIL", resp["status"])
	assert.Equal(t, 1, resp["errorCode"])
}

func TestSpadeGamingFormat(t *testing.T) {
	resp := Response("spadegaming", successResult())

	assert.Equal(t, 0, resp["code"])
	assert.Equal(t, "tx-1", resp["serialNo"])
	assert.Equal(t, 123.4567, resp["balance"])
}

func TestUnknownProviderFallsThroughToDefault(t *testing.T) {
	resp := Response("ACME", successResult())

	// Superset shape: both spellings, both status encodings, zero code.
	assert.Equal(t, 0, resp["code"])
	assert.Equal(t, "Success", resp["message"])
	assert.Equal(t, "success", resp["status"])
	assert.Equal(t, 123.46, resp["balance"])
	assert.Equal(t, 123.46, resp["Balance"])
	assert.Equal(t, "tx-1", resp["transaction_id"])
	assert.Equal(t, "tx-1", resp["transactionId"])
}

func TestLookupIsCaseInsensitive(t *testing.T) {
	lower := Response("jili", successResult())
	upper := Response("  JILI ", successResult())
	assert.Equal(t, lower, upper)
}
