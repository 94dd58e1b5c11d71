package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/Spikeyfun/prediction/internal/types"
)

type PlaceStakeRequestPayload struct {
	SlotID uint64 `json:"slot_id"`
	Amount uint64 `json:"amount"`
	Option uint64 `json:"option"`
}

// PlaceStake godoc
// @Summary Place a stake
// @Description Locks the caller's funds against one option of an open slot. One stake per caller per slot.
// @Accept json
// @Produce json
// @Param payload body PlaceStakeRequestPayload true "Stake"
// @Success 201 "Stake placed"
// @Router /v1/stakes [post]
func (h *Handler) PlaceStake(request *http.Request) (*Result, *types.Error) {
	caller, err := requireCaller(request)
	if err != nil {
		return nil, err
	}

	payload := &PlaceStakeRequestPayload{}
	if decodeErr := json.NewDecoder(request.Body).Decode(payload); decodeErr != nil {
		return nil, types.NewErrorWithMsg(http.StatusBadRequest, types.BadRequest, "invalid request payload")
	}
	if payload.Amount == 0 {
		return nil, types.NewErrorWithMsg(http.StatusBadRequest, types.BadRequest, "amount must be positive")
	}

	stakeErr := h.services.PlaceStake(request.Context(), caller, payload.SlotID, payload.Amount, payload.Option)
	if stakeErr != nil {
		return nil, stakeErr
	}

	return &Result{Status: http.StatusCreated}, nil
}

// GetStake godoc
// @Summary Get a stake record
// @Produce json
// @Param participant query string true "Participant identity"
// @Param slot_id query uint64 true "Slot ID"
// @Success 200 {object} PublicResponse[services.StakePublic]
// @Router /v1/stake [get]
func (h *Handler) GetStake(request *http.Request) (*Result, *types.Error) {
	participant := request.URL.Query().Get("participant")
	if participant == "" {
		return nil, types.NewErrorWithMsg(http.StatusBadRequest, types.BadRequest, "participant is required")
	}
	slotID, err := parseSlotIDQuery(request, "slot_id")
	if err != nil {
		return nil, err
	}

	stake, getErr := h.services.GetStake(request.Context(), participant, slotID)
	if getErr != nil {
		return nil, getErr
	}

	return NewResult(stake), nil
}
