package handler

import (
	"encoding/json"
	"net/http"

	"github.com/shopspring/decimal"

	"casino-wallet/internal/domain"
	"casino-wallet/internal/errors"
)

// ThresholdPolicyStore is the settings surface the admin endpoints need.
type ThresholdPolicyStore interface {
	GetThresholdPolicy() (*domain.ThresholdPolicy, error)
	UpdateThresholdPolicy(policy *domain.ThresholdPolicy) error
}

type SettingsHandler struct {
	policies ThresholdPolicyStore
}

func NewSettingsHandler(policies ThresholdPolicyStore) *SettingsHandler {
	return &SettingsHandler{policies: policies}
}

type ThresholdPolicyPayload struct {
	MinBalanceThreshold string `json:"min_balance_threshold"`
	WithdrawalThreshold string `json:"withdrawal_threshold"`
	WithdrawalAmount    string `json:"withdrawal_amount"`
}

func (h *SettingsHandler) GetSettings(w http.ResponseWriter, r *http.Request) {
	policy, err := h.policies.GetThresholdPolicy()
	if err != nil {
		writeError(w, asAppError(err))
		return
	}

	writeJSON(w, http.StatusOK, ThresholdPolicyPayload{
		MinBalanceThreshold: policy.MinBalanceThreshold.String(),
		WithdrawalThreshold: policy.WithdrawalThreshold.String(),
		WithdrawalAmount:    policy.WithdrawalAmount.String(),
	})
}

func (h *SettingsHandler) UpdateSettings(w http.ResponseWriter, r *http.Request) {
	var req ThresholdPolicyPayload
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, errors.NewAppError(errors.InvalidInput, "invalid request body"))
		return
	}

	var policy domain.ThresholdPolicy
	for _, field := range []struct {
		name string
		raw  string
		dst  *decimal.Decimal
	}{
		{"min_balance_threshold", req.MinBalanceThreshold, &policy.MinBalanceThreshold},
		{"withdrawal_threshold", req.WithdrawalThreshold, &policy.WithdrawalThreshold},
		{"withdrawal_amount", req.WithdrawalAmount, &policy.WithdrawalAmount},
	} {
		value, err := decimal.NewFromString(field.raw)
		if err != nil {
			writeError(w, errors.NewAppErrorf(errors.InvalidAmount, "invalid %s format", field.name))
			return
		}
		*field.dst = value
	}

	if err := h.policies.UpdateThresholdPolicy(&policy); err != nil {
		writeError(w, asAppError(err))
		return
	}

	writeJSON(w, http.StatusOK, req)
}
