package handler

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"
	"github.com/shopspring/decimal"

	"casino-wallet/internal/domain"
	"casino-wallet/internal/errors"
	"casino-wallet/internal/service"
)

type AccountHandler struct {
	accountService *service.AccountService
}

func NewAccountHandler(accountService *service.AccountService) *AccountHandler {
	return &AccountHandler{
		accountService: accountService,
	}
}

type CreateAccountRequest struct {
	ExternalAccountID string `json:"external_account_id"`
	InitialBalance    string `json:"initial_balance"`
	FreeCredit        string `json:"free_credit,omitempty"`
	CurrencyCode      string `json:"currency_code,omitempty"`
}

type AccountResponse struct {
	ExternalAccountID string `json:"external_account_id"`
	Balance           string `json:"balance"`
	FreeCredit        string `json:"free_credit"`
	CanWithdraw       bool   `json:"can_withdraw"`
	KYCStatus         string `json:"kyc_status"`
	TotalWagered      string `json:"total_wagered"`
	TotalWon          string `json:"total_won"`
	CurrencyCode      string `json:"currency_code"`
}

func accountResponse(account *domain.Account) AccountResponse {
	return AccountResponse{
		ExternalAccountID: account.ExternalID,
		Balance:           account.Balance.String(),
		FreeCredit:        account.FreeCredit.String(),
		CanWithdraw:       account.CanWithdraw,
		KYCStatus:         string(account.KYCStatus),
		TotalWagered:      account.TotalWagered.String(),
		TotalWon:          account.TotalWon.String(),
		CurrencyCode:      account.CurrencyCode,
	}
}

func (h *AccountHandler) CreateAccount(w http.ResponseWriter, r *http.Request) {
	var req CreateAccountRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, errors.NewAppError(errors.InvalidInput, "invalid request body"))
		return
	}

	initialBalance, err := decimal.NewFromString(req.InitialBalance)
	if err != nil {
		writeError(w, errors.NewAppError(errors.InvalidAmount, "invalid initial_balance format"))
		return
	}
	freeCredit := decimal.Zero
	if req.FreeCredit != "" {
		freeCredit, err = decimal.NewFromString(req.FreeCredit)
		if err != nil {
			writeError(w, errors.NewAppError(errors.InvalidAmount, "invalid free_credit format"))
			return
		}
	}

	account, err := h.accountService.CreateAccount(req.ExternalAccountID, initialBalance, freeCredit, req.CurrencyCode)
	if err != nil {
		writeError(w, asAppError(err))
		return
	}

	writeJSON(w, http.StatusCreated, accountResponse(account))
}

func (h *AccountHandler) GetAccount(w http.ResponseWriter, r *http.Request) {
	account, err := h.accountService.GetAccount(mux.Vars(r)["account"])
	if err != nil {
		writeError(w, asAppError(err))
		return
	}
	writeJSON(w, http.StatusOK, accountResponse(account))
}

type AmountRequest struct {
	Amount    string `json:"amount"`
	Reference string `json:"reference,omitempty"`
}

func (h *AccountHandler) Credit(w http.ResponseWriter, r *http.Request) {
	h.applyAmount(w, r, h.accountService.Credit)
}

func (h *AccountHandler) Adjust(w http.ResponseWriter, r *http.Request) {
	h.applyAmount(w, r, h.accountService.Adjust)
}

func (h *AccountHandler) applyAmount(w http.ResponseWriter, r *http.Request, apply func(string, decimal.Decimal, string) (*domain.Account, error)) {
	var req AmountRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, errors.NewAppError(errors.InvalidInput, "invalid request body"))
		return
	}

	amount, err := decimal.NewFromString(req.Amount)
	if err != nil {
		writeError(w, errors.NewAppError(errors.InvalidAmount, "invalid amount format"))
		return
	}

	account, err := apply(mux.Vars(r)["account"], amount, req.Reference)
	if err != nil {
		writeError(w, asAppError(err))
		return
	}
	writeJSON(w, http.StatusOK, accountResponse(account))
}

type KYCRequest struct {
	Status string `json:"status"`
}

func (h *AccountHandler) SetKYCStatus(w http.ResponseWriter, r *http.Request) {
	var req KYCRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, errors.NewAppError(errors.InvalidInput, "invalid request body"))
		return
	}

	account, err := h.accountService.SetKYCStatus(mux.Vars(r)["account"], domain.KYCStatus(req.Status))
	if err != nil {
		writeError(w, asAppError(err))
		return
	}
	writeJSON(w, http.StatusOK, accountResponse(account))
}

func (h *AccountHandler) Withdraw(w http.ResponseWriter, r *http.Request) {
	account, err := h.accountService.Withdraw(mux.Vars(r)["account"])
	if err != nil {
		writeError(w, asAppError(err))
		return
	}
	writeJSON(w, http.StatusOK, accountResponse(account))
}

type TransactionResponse struct {
	ID                string `json:"id"`
	Type              string `json:"type"`
	Amount            string `json:"amount"`
	BalanceBefore     string `json:"balance_before"`
	BalanceAfter      string `json:"balance_after"`
	ExternalReference string `json:"external_reference,omitempty"`
	GameUID           string `json:"game_uid,omitempty"`
	CreatedAt         string `json:"created_at"`
}

func (h *AccountHandler) ListTransactions(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		limit, _ = strconv.Atoi(raw)
	}

	transactions, err := h.accountService.ListTransactions(mux.Vars(r)["account"], limit)
	if err != nil {
		writeError(w, asAppError(err))
		return
	}

	out := make([]TransactionResponse, 0, len(transactions))
	for _, tx := range transactions {
		out = append(out, TransactionResponse{
			ID:                tx.ID.String(),
			Type:              string(tx.Type),
			Amount:            tx.Amount.String(),
			BalanceBefore:     tx.BalanceBefore.String(),
			BalanceAfter:      tx.BalanceAfter.String(),
			ExternalReference: tx.ExternalReference,
			GameUID:           tx.GameUID,
			CreatedAt:         tx.CreatedAt.UTC().Format(time.RFC3339),
		})
	}
	writeJSON(w, http.StatusOK, out)
}
