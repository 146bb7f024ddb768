package handler

import (
	"net/http"

	"github.com/gorilla/mux"
)

// WalletHandler serves the host platform's plain JSON reads of wallet state.
type WalletHandler struct {
	engine WalletEngine
}

func NewWalletHandler(engine WalletEngine) *WalletHandler {
	return &WalletHandler{engine: engine}
}

type BalanceResponse struct {
	Balance  string `json:"balance"`
	Currency string `json:"currency"`
	Status   string `json:"status"`
}

type PlayerStatusResponse struct {
	Balance string `json:"balance"`
	CanBet  bool   `json:"can_bet"`
	MinBet  string `json:"min_bet"`
	MaxBet  string `json:"max_bet"`
}

func (h *WalletHandler) GetBalance(w http.ResponseWriter, r *http.Request) {
	memberAccount := mux.Vars(r)["account"]

	result, err := h.engine.QueryBalance(memberAccount)
	if err != nil {
		writeError(w, asAppError(err))
		return
	}

	writeJSON(w, http.StatusOK, BalanceResponse{
		Balance:  result.Balance.String(),
		Currency: result.Currency,
		Status:   "active",
	})
}

func (h *WalletHandler) GetPlayerStatus(w http.ResponseWriter, r *http.Request) {
	memberAccount := mux.Vars(r)["account"]

	status, err := h.engine.QueryPlayerStatus(memberAccount)
	if err != nil {
		writeError(w, asAppError(err))
		return
	}

	writeJSON(w, http.StatusOK, PlayerStatusResponse{
		Balance: status.Balance.String(),
		CanBet:  status.CanBet,
		MinBet:  status.MinBet.String(),
		MaxBet:  status.MaxBet.String(),
	})
}
