package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/Spikeyfun/prediction/internal/types"
)

type DepositRequestPayload struct {
	Amount uint64 `json:"amount"`
}

type BalanceResponse struct {
	Identity string `json:"identity,omitempty"`
	Balance  uint64 `json:"balance"`
}

// Deposit godoc
// @Summary Fund the caller's asset balance
// @Accept json
// @Produce json
// @Param payload body DepositRequestPayload true "Deposit"
// @Success 200 {object} PublicResponse[BalanceResponse]
// @Router /v1/account/deposit [post]
func (h *Handler) Deposit(request *http.Request) (*Result, *types.Error) {
	caller, err := requireCaller(request)
	if err != nil {
		return nil, err
	}

	payload := &DepositRequestPayload{}
	if decodeErr := json.NewDecoder(request.Body).Decode(payload); decodeErr != nil {
		return nil, types.NewErrorWithMsg(http.StatusBadRequest, types.BadRequest, "invalid request payload")
	}
	if payload.Amount == 0 {
		return nil, types.NewErrorWithMsg(http.StatusBadRequest, types.BadRequest, "amount must be positive")
	}

	if depositErr := h.services.Deposit(request.Context(), caller, payload.Amount); depositErr != nil {
		return nil, depositErr
	}

	balance, balanceErr := h.services.AccountBalance(request.Context(), caller)
	if balanceErr != nil {
		return nil, balanceErr
	}

	return NewResult(&BalanceResponse{Identity: caller, Balance: balance}), nil
}

// GetAccountBalance godoc
// @Summary Get an asset-ledger balance
// @Produce json
// @Param identity query string true "Identity"
// @Success 200 {object} PublicResponse[BalanceResponse]
// @Router /v1/account [get]
func (h *Handler) GetAccountBalance(request *http.Request) (*Result, *types.Error) {
	identity := request.URL.Query().Get("identity")
	if identity == "" {
		return nil, types.NewErrorWithMsg(http.StatusBadRequest, types.BadRequest, "identity is required")
	}

	balance, err := h.services.AccountBalance(request.Context(), identity)
	if err != nil {
		return nil, err
	}

	return NewResult(&BalanceResponse{Identity: identity, Balance: balance}), nil
}

// GetVaultBalance godoc
// @Summary Get the escrow vault balance
// @Produce json
// @Success 200 {object} PublicResponse[BalanceResponse]
// @Router /v1/vault [get]
func (h *Handler) GetVaultBalance(request *http.Request) (*Result, *types.Error) {
	balance, err := h.services.VaultBalance(request.Context())
	if err != nil {
		return nil, err
	}

	return NewResult(&BalanceResponse{Balance: balance}), nil
}
