package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/shopspring/decimal"

	"casino-wallet/internal/codec"
	"casino-wallet/internal/domain"
	"casino-wallet/internal/errors"
	"casino-wallet/internal/provider"
)

// WalletEngine is the slice of the reconciliation engine the transport
// boundary needs.
type WalletEngine interface {
	ProcessCallback(cb *domain.Callback) (*domain.CallbackResult, error)
	QueryBalance(memberAccount string) (*domain.CallbackResult, error)
	QueryPlayerStatus(memberAccount string) (*domain.PlayerStatus, error)
}

// CallbackHandler is the provider-facing transport layer: it unwraps the
// encrypted envelope, normalizes the action tag, hands the engine an
// explicit callback and wraps the formatted result back up. Every response,
// success or failure, is a well-formed encrypted envelope.
type CallbackHandler struct {
	engine    WalletEngine
	codec     *codec.Codec
	agencyUID string
	logger    *slog.Logger
}

func NewCallbackHandler(engine WalletEngine, c *codec.Codec, agencyUID string, logger *slog.Logger) *CallbackHandler {
	return &CallbackHandler{
		engine:    engine,
		codec:     c,
		agencyUID: agencyUID,
		logger:    logger,
	}
}

// envelope is the outer encrypted wrapper exchanged with providers. The
// agency uid rides in clear so mismatches are rejected before decryption.
type envelope struct {
	AgencyUID string `json:"agency_uid"`
	Payload   string `json:"payload"`
}

// callbackPayload is the inner business payload, post-decryption.
type callbackPayload struct {
	AgencyUID     string          `json:"agency_uid,omitempty"`
	MemberAccount string          `json:"member_account"`
	BetAmount     decimal.Decimal `json:"bet_amount"`
	WinAmount     decimal.Decimal `json:"win_amount"`
	ActionType    string          `json:"action_type"`
	TransactionID string          `json:"transaction_id"`
	GameUID       string          `json:"game_uid"`
	CurrencyCode  string          `json:"currency_code"`
	Timestamp     int64           `json:"timestamp,omitempty"`
}

// HandleCallback processes POST /api/v1/callback/{provider}.
func (h *CallbackHandler) HandleCallback(w http.ResponseWriter, r *http.Request) {
	providerID := mux.Vars(r)["provider"]

	var env envelope
	if err := json.NewDecoder(r.Body).Decode(&env); err != nil {
		h.writeEnvelope(w, providerID, failureResult("", errors.CodeInvalidPayload, "Malformed request body"))
		return
	}

	// Agency gate: checked before the payload is even decrypted, with a code
	// distinct from account-not-found.
	if env.AgencyUID != h.agencyUID {
		h.logger.Warn("Agency uid mismatch", "provider", providerID)
		h.writeEnvelope(w, providerID, failureResult("", errors.CodeInvalidAgency, "Invalid agency"))
		return
	}

	var payload callbackPayload
	if err := h.codec.DecryptJSON(env.Payload, &payload); err != nil {
		h.logger.Warn("Failed to decode callback payload", "provider", providerID, "error", err)
		h.writeEnvelope(w, providerID, failureResult("", errors.CodeTransportDecode, "Unable to decode payload"))
		return
	}
	if payload.AgencyUID != "" && payload.AgencyUID != h.agencyUID {
		h.writeEnvelope(w, providerID, failureResult(payload.TransactionID, errors.CodeInvalidAgency, "Invalid agency"))
		return
	}

	cb, err := normalizeCallback(&payload)
	if err != nil {
		h.logger.Warn("Unknown action type", "provider", providerID, "action_type", payload.ActionType)
		h.writeEnvelope(w, providerID, failureResult(payload.TransactionID, errors.CodeInvalidPayload, "Unknown action type"))
		return
	}

	switch cb.Action {
	case domain.ActionBalance:
		h.respond(w, providerID, cb, func() (*domain.CallbackResult, error) {
			return h.engine.QueryBalance(cb.MemberAccount)
		})
	case domain.ActionStatus:
		h.handleStatusQuery(w, providerID, cb)
	default:
		h.respond(w, providerID, cb, func() (*domain.CallbackResult, error) {
			return h.engine.ProcessCallback(cb)
		})
	}
}

func (h *CallbackHandler) respond(w http.ResponseWriter, providerID string, cb *domain.Callback, run func() (*domain.CallbackResult, error)) {
	result, err := run()
	if err != nil {
		result = h.resultFromError(cb, err)
	}
	h.writeEnvelope(w, providerID, *result)
}

func (h *CallbackHandler) handleStatusQuery(w http.ResponseWriter, providerID string, cb *domain.Callback) {
	status, err := h.engine.QueryPlayerStatus(cb.MemberAccount)
	if err != nil {
		h.writeEnvelope(w, providerID, *h.resultFromError(cb, err))
		return
	}
	result := domain.CallbackResult{
		Balance:       status.Balance,
		TransactionID: cb.TransactionID,
		Currency:      cb.CurrencyCode,
		Success:       true,
		Code:          errors.CodeSuccess,
		Message:       "Success",
	}
	fields := provider.Response(providerID, result)
	fields["can_bet"] = status.CanBet
	fields["min_bet"] = status.MinBet.InexactFloat64()
	fields["max_bet"] = status.MaxBet.InexactFloat64()
	h.encryptAndWrite(w, fields)
}

// resultFromError turns a domain error into a failure result that still
// carries the current balance where one can be read.
func (h *CallbackHandler) resultFromError(cb *domain.Callback, err error) *domain.CallbackResult {
	appErr := asAppError(err)
	h.logger.Warn("Callback rejected",
		"member_account", cb.MemberAccount, "code", appErr.Code, "error", appErr.Message)

	result := failureResult(cb.TransactionID, errors.ProviderCode(appErr.Code), appErr.Message)
	result.Currency = cb.CurrencyCode
	if appErr.Code != errors.AccountNotFound {
		if current, lookupErr := h.engine.QueryBalance(cb.MemberAccount); lookupErr == nil {
			result.Balance = current.Balance
			result.Currency = current.Currency
		}
	}
	return &result
}

func (h *CallbackHandler) writeEnvelope(w http.ResponseWriter, providerID string, result domain.CallbackResult) {
	h.encryptAndWrite(w, provider.Response(providerID, result))
}

func (h *CallbackHandler) encryptAndWrite(w http.ResponseWriter, fields map[string]interface{}) {
	encrypted, err := h.codec.EncryptJSON(fields)
	if err != nil {
		// Should not happen with a valid key; never leak a raw error.
		h.logger.Error("Failed to encrypt response", "error", err)
		writeError(w, errors.NewAppError(errors.InternalError, "failed to build response"))
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(envelope{AgencyUID: h.agencyUID, Payload: encrypted})
}

func failureResult(transactionID string, code int, message string) domain.CallbackResult {
	return domain.CallbackResult{
		TransactionID: transactionID,
		Success:       false,
		Code:          code,
		Message:       message,
	}
}

// normalizeCallback turns the wire payload into an explicit action. Some
// providers omit action_type and expect it inferred from which amount is
// nonzero; that inference lives here so the engine never sees an implicit
// action. Inference only applies to an absent tag: an unrecognized tag is an
// error, never reinterpreted as a bet.
func normalizeCallback(p *callbackPayload) (*domain.Callback, error) {
	cb := &domain.Callback{
		MemberAccount: p.MemberAccount,
		BetAmount:     p.BetAmount,
		WinAmount:     p.WinAmount,
		TransactionID: p.TransactionID,
		GameUID:       p.GameUID,
		CurrencyCode:  p.CurrencyCode,
	}

	switch domain.ActionType(p.ActionType) {
	case domain.ActionBet, domain.ActionWin, domain.ActionRefund, domain.ActionBalance, domain.ActionStatus:
		cb.Action = domain.ActionType(p.ActionType)
	case "":
		switch {
		case p.BetAmount.IsPositive():
			cb.Action = domain.ActionBet
		case p.WinAmount.IsPositive():
			cb.Action = domain.ActionWin
		default:
			cb.Action = domain.ActionBalance
		}
	default:
		return nil, errors.NewAppErrorf(errors.InvalidInput, "unknown action type %q", p.ActionType)
	}
	return cb, nil
}
