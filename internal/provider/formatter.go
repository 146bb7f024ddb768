// Package provider maps internal callback results onto the response shapes
// individual game providers expect. Adding a provider is a table entry, not
// new branching logic.
package provider

import (
	"strings"

	"casino-wallet/internal/domain"
)

// Format builds one provider's response object from an internal result.
type Format func(r domain.CallbackResult) map[string]interface{}

// formats is keyed by lower-cased provider identifier. Providers not listed
// here fall through to defaultFormat, which emits a superset any consumer
// can read.
var formats = map[string]Format{
	"jili":        jiliFormat,
	"pgsoft":      pgsoftFormat,
	"spadegaming": spadeGamingFormat,
}

// Response formats r for the named provider. The lookup is case-insensitive
// and unknown providers are not an error.
func Response(providerID string, r domain.CallbackResult) map[string]interface{} {
	if format, ok := formats[strings.ToLower(strings.TrimSpace(providerID))]; ok {
		return format(r)
	}
	return defaultFormat(r)
}

// jili: snake_case fields, numeric result code, 2-decimal balances.
func jiliFormat(r domain.CallbackResult) map[string]interface{} {
	return map[string]interface{}{
		"code":           r.Code,
		"msg":            r.Message,
		"credit_amount":  r.Balance.Round(2).InexactFloat64(),
		"transaction_id": r.TransactionID,
		"currency_code":  r.Currency,
	}
}

// pgsoft: camelCase fields, string status, 4-decimal balances.
func pgsoftFormat(r domain.CallbackResult) map[string]interface{} {
	status := "SUCCESS"
	if !r.Success {
		status = "FAIL"
	}
	return map[string]interface{}{
		"status":        status,
		"errorCode":     r.Code,
		"errorMessage":  r.Message,
		"balanceAmount": r.Balance.Round(4).InexactFloat64(),
		"transactionId": r.TransactionID,
		"currency":      r.Currency,
	}
}

// spadegaming: numeric code plus msg/serialNo, 4-decimal balances.
func spadeGamingFormat(r domain.CallbackResult) map[string]interface{} {
	return map[string]interface{}{
		"code":     r.Code,
		"msg":      r.Message,
		"balance":  r.Balance.Round(4).InexactFloat64(),
		"serialNo": r.TransactionID,
		"currency": r.Currency,
	}
}

// defaultFormat duplicates spellings and status encodings so unrecognized
// providers still receive a usable response.
func defaultFormat(r domain.CallbackResult) map[string]interface{} {
	status := "success"
	if !r.Success {
		status = "failed"
	}
	balance := r.Balance.Round(2).InexactFloat64()
	return map[string]interface{}{
		"code":           r.Code,
		"message":        r.Message,
		"status":         status,
		"balance":        balance,
		"Balance":        balance,
		"transaction_id": r.TransactionID,
		"transactionId":  r.TransactionID,
		"currency_code":  r.Currency,
		"currency":       r.Currency,
	}
}
