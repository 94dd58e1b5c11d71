package services

import (
	"context"
	"net/http"

	"github.com/rs/zerolog/log"

	"github.com/Spikeyfun/prediction/internal/db"
	"github.com/Spikeyfun/prediction/internal/db/model"
	"github.com/Spikeyfun/prediction/internal/observability/metrics"
	"github.com/Spikeyfun/prediction/internal/queue/client"
	"github.com/Spikeyfun/prediction/internal/types"
)

type StakePublic struct {
	Participant string `json:"participant"`
	SlotID      uint64 `json:"slot_id"`
	Amount      uint64 `json:"amount"`
	Option      uint64 `json:"option"`
	Claimed     bool   `json:"claimed"`
}

func fromStakeDocument(stake *model.StakeDocument) *StakePublic {
	return &StakePublic{
		Participant: stake.Participant,
		SlotID:      stake.SlotID,
		Amount:      stake.Amount,
		Option:      stake.Option,
		Claimed:     stake.Claimed,
	}
}

// PlaceStake locks a participant's funds against one option of an open slot.
// The account debit, vault deposit, stake record, participant index entry and
// slot pool increment are applied as one unit by the storage layer.
func (s *Services) PlaceStake(
	ctx context.Context, participant string, slotID uint64, amount, option uint64,
) *types.Error {
	slot, err := s.DbClient.FindSlotByID(ctx, slotID)
	if err != nil {
		if ok := db.IsNotFoundError(err); ok {
			return types.NewErrorWithMsg(http.StatusNotFound, types.SlotNotFound, "slot not found")
		}
		log.Ctx(ctx).Error().Err(err).Uint64("slotID", slotID).Msg("error while fetching slot")
		return types.NewInternalServiceError(err)
	}

	if slot.IsResolved() {
		// Resolution may precede close time; the winners pool is frozen either way.
		return types.NewErrorWithMsg(
			http.StatusConflict, types.SlotAlreadyResolved, "slot is already resolved",
		)
	}
	if s.Clock.Now() >= slot.CloseTime {
		return types.NewErrorWithMsg(
			http.StatusForbidden, types.BettingWindowClosed, "betting window for this slot has closed",
		)
	}
	if option >= uint64(len(slot.Options)) {
		return types.NewErrorWithMsg(
			http.StatusBadRequest, types.InvalidOption, "option is out of range for this slot",
		)
	}

	err = s.DbClient.PlaceStake(ctx, participant, slotID, amount, option)
	if err != nil {
		if ok := db.IsNotFoundError(err); ok {
			// Lost the race against a concurrent resolution.
			return types.NewErrorWithMsg(
				http.StatusConflict, types.SlotAlreadyResolved, "slot is already resolved",
			)
		}
		if ok := db.IsDuplicateKeyError(err); ok {
			log.Ctx(ctx).Warn().Err(err).
				Str("participant", participant).Uint64("slotID", slotID).
				Msg("participant already staked in this slot")
			return types.NewError(http.StatusConflict, types.DuplicateStake, err)
		}
		if ok := db.IsInsufficientFundsError(err); ok {
			return types.NewError(http.StatusForbidden, types.InsufficientFunds, err)
		}
		log.Ctx(ctx).Error().Err(err).
			Str("participant", participant).Uint64("slotID", slotID).
			Msg("failed to place stake")
		return types.NewInternalServiceError(err)
	}

	metrics.RecordStakePlaced(amount)
	if s.Queues != nil {
		s.Queues.EmitStakePlacedEvent(ctx, client.NewStakePlacedEvent(participant, slotID, amount, option))
	}
	return nil
}

// GetStake is a pure read accessor for a participant's stake record.
func (s *Services) GetStake(
	ctx context.Context, participant string, slotID uint64,
) (*StakePublic, *types.Error) {
	stake, err := s.DbClient.FindStake(ctx, participant, slotID)
	if err != nil {
		if ok := db.IsNotFoundError(err); ok {
			return nil, types.NewErrorWithMsg(
				http.StatusNotFound, types.PredictionNotFound, "no stake found for this participant and slot",
			)
		}
		log.Ctx(ctx).Error().Err(err).
			Str("participant", participant).Uint64("slotID", slotID).
			Msg("error while fetching stake")
		return nil, types.NewInternalServiceError(err)
	}
	return fromStakeDocument(stake), nil
}
