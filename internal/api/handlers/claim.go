package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/Spikeyfun/prediction/internal/types"
)

type ClaimRewardRequestPayload struct {
	SlotID uint64 `json:"slot_id"`
}

type ClaimRewardResponse struct {
	SlotID uint64 `json:"slot_id"`
	Reward uint64 `json:"reward"`
}

// ClaimReward godoc
// @Summary Claim a slot reward
// @Description Pays the caller their proportional share of a resolved slot's pool, exactly once.
// @Accept json
// @Produce json
// @Param payload body ClaimRewardRequestPayload true "Claim"
// @Success 200 {object} PublicResponse[ClaimRewardResponse]
// @Router /v1/claims [post]
func (h *Handler) ClaimReward(request *http.Request) (*Result, *types.Error) {
	caller, err := requireCaller(request)
	if err != nil {
		return nil, err
	}

	payload := &ClaimRewardRequestPayload{}
	if decodeErr := json.NewDecoder(request.Body).Decode(payload); decodeErr != nil {
		return nil, types.NewErrorWithMsg(http.StatusBadRequest, types.BadRequest, "invalid request payload")
	}

	reward, claimErr := h.services.ClaimReward(request.Context(), caller, payload.SlotID)
	if claimErr != nil {
		return nil, claimErr
	}

	return NewResult(&ClaimRewardResponse{
		SlotID: payload.SlotID,
		Reward: reward,
	}), nil
}
