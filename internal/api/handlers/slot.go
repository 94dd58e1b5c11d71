package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/Spikeyfun/prediction/internal/types"
)

type CreateSlotRequestPayload struct {
	SlotID    uint64   `json:"slot_id"`
	OpenTime  int64    `json:"open_time"`
	CloseTime int64    `json:"close_time"`
	Anchor    string   `json:"anchor"`
	Options   []string `json:"options"`
}

type ResolveSlotRequestPayload struct {
	SlotID        uint64 `json:"slot_id"`
	WinningOption uint64 `json:"winning_option"`
}

// CreateSlot godoc
// @Summary Create a betting slot
// @Description Registers a new time-bounded betting slot with a fixed option set. Administrator only.
// @Accept json
// @Produce json
// @Param payload body CreateSlotRequestPayload true "Slot definition"
// @Success 201 "Slot created"
// @Router /v1/slots [post]
func (h *Handler) CreateSlot(request *http.Request) (*Result, *types.Error) {
	caller, err := requireCaller(request)
	if err != nil {
		return nil, err
	}

	payload := &CreateSlotRequestPayload{}
	if decodeErr := json.NewDecoder(request.Body).Decode(payload); decodeErr != nil {
		return nil, types.NewErrorWithMsg(http.StatusBadRequest, types.BadRequest, "invalid request payload")
	}
	if len(payload.Options) == 0 {
		return nil, types.NewErrorWithMsg(http.StatusBadRequest, types.BadRequest, "options must not be empty")
	}

	createErr := h.services.CreateSlot(
		request.Context(), caller, payload.SlotID,
		payload.OpenTime, payload.CloseTime, payload.Anchor, payload.Options,
	)
	if createErr != nil {
		return nil, createErr
	}

	return &Result{Status: http.StatusCreated}, nil
}

// ResolveSlot godoc
// @Summary Resolve a betting slot
// @Description Declares the winning option of a slot and freezes the winners pool. Administrator only, one-shot.
// @Accept json
// @Produce json
// @Param payload body ResolveSlotRequestPayload true "Resolution"
// @Success 200 "Slot resolved"
// @Router /v1/slots/resolve [post]
func (h *Handler) ResolveSlot(request *http.Request) (*Result, *types.Error) {
	caller, err := requireCaller(request)
	if err != nil {
		return nil, err
	}

	payload := &ResolveSlotRequestPayload{}
	if decodeErr := json.NewDecoder(request.Body).Decode(payload); decodeErr != nil {
		return nil, types.NewErrorWithMsg(http.StatusBadRequest, types.BadRequest, "invalid request payload")
	}

	resolveErr := h.services.ResolveSlot(request.Context(), caller, payload.SlotID, payload.WinningOption)
	if resolveErr != nil {
		return nil, resolveErr
	}

	return &Result{Status: http.StatusOK}, nil
}

// GetSlot godoc
// @Summary Get slot details
// @Produce json
// @Param slot_id query uint64 true "Slot ID"
// @Success 200 {object} PublicResponse[services.SlotPublic]
// @Router /v1/slot [get]
func (h *Handler) GetSlot(request *http.Request) (*Result, *types.Error) {
	slotID, err := parseSlotIDQuery(request, "slot_id")
	if err != nil {
		return nil, err
	}

	slot, getErr := h.services.GetSlot(request.Context(), slotID)
	if getErr != nil {
		return nil, getErr
	}

	return NewResult(slot), nil
}
