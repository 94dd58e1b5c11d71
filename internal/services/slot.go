package services

import (
	"context"
	"errors"
	"net/http"

	"github.com/rs/zerolog/log"

	"github.com/Spikeyfun/prediction/internal/cache"
	"github.com/Spikeyfun/prediction/internal/db"
	"github.com/Spikeyfun/prediction/internal/db/model"
	"github.com/Spikeyfun/prediction/internal/observability/metrics"
	"github.com/Spikeyfun/prediction/internal/observability/tracing"
	"github.com/Spikeyfun/prediction/internal/queue/client"
	"github.com/Spikeyfun/prediction/internal/types"
)

type SlotPublic struct {
	SlotID        uint64   `json:"slot_id"`
	OpenTime      int64    `json:"open_time"`
	CloseTime     int64    `json:"close_time"`
	Anchor        string   `json:"anchor"`
	Options       []string `json:"options"`
	State         string   `json:"state"`
	WinningOption *uint64  `json:"winning_option,omitempty"`
	TotalPool     uint64   `json:"total_pool"`
	WinnersPool   uint64   `json:"winners_pool"`
}

func fromSlotDocument(slot *model.SlotDocument) *SlotPublic {
	slotPublic := &SlotPublic{
		SlotID:      slot.SlotID,
		OpenTime:    slot.OpenTime,
		CloseTime:   slot.CloseTime,
		Anchor:      slot.Anchor,
		Options:     slot.Options,
		State:       slot.State.ToString(),
		TotalPool:   slot.TotalPool,
		WinnersPool: slot.WinnersPool,
	}
	if slot.IsResolved() {
		winningOption := slot.WinningOption
		slotPublic.WinningOption = &winningOption
	}
	return slotPublic
}

// CreateSlot records a new betting slot. Only the administrator may create
// slots; the betting window must be non-empty and the slot id unused.
func (s *Services) CreateSlot(
	ctx context.Context, caller string, slotID uint64,
	openTime, closeTime int64, anchor string, options []string,
) *types.Error {
	if err := s.requireAdmin(caller); err != nil {
		return err
	}
	if closeTime <= openTime {
		return types.NewErrorWithMsg(
			http.StatusBadRequest, types.InvalidTimeWindow, "close time must be after open time",
		)
	}

	err := s.DbClient.SaveSlot(ctx, slotID, openTime, closeTime, anchor, options)
	if err != nil {
		if ok := db.IsDuplicateKeyError(err); ok {
			log.Ctx(ctx).Warn().Err(err).Uint64("slotID", slotID).Msg("slot already exists")
			return types.NewError(http.StatusConflict, types.SlotAlreadyExists, err)
		}
		log.Ctx(ctx).Error().Err(err).Uint64("slotID", slotID).Msg("failed to save slot")
		return types.NewInternalServiceError(err)
	}
	return nil
}

// ResolveSlot declares the winning option of a slot and records the winners
// pool. The winners pool is recomputed from scratch by walking the slot's
// participant index and summing the stakes that picked the winning option;
// resolution happens once per slot, so the O(n) scan is acceptable and immune
// to incremental-update drift.
func (s *Services) ResolveSlot(
	ctx context.Context, caller string, slotID uint64, winningOption uint64,
) *types.Error {
	if err := s.requireAdmin(caller); err != nil {
		return err
	}

	slot, err := s.DbClient.FindSlotByID(ctx, slotID)
	if err != nil {
		if ok := db.IsNotFoundError(err); ok {
			return types.NewErrorWithMsg(http.StatusNotFound, types.SlotNotFound, "slot not found")
		}
		log.Ctx(ctx).Error().Err(err).Uint64("slotID", slotID).Msg("error while fetching slot")
		return types.NewInternalServiceError(err)
	}
	if slot.IsResolved() {
		return types.NewErrorWithMsg(
			http.StatusConflict, types.SlotAlreadyResolved, "slot is already resolved",
		)
	}
	if winningOption >= uint64(len(slot.Options)) {
		return types.NewErrorWithMsg(
			http.StatusBadRequest, types.InvalidOption, "winning option is out of range for this slot",
		)
	}

	winnersPool, txErr := s.computeWinnersPool(ctx, slotID, winningOption)
	if txErr != nil {
		return txErr
	}

	err = s.DbClient.ResolveSlot(ctx, slotID, winningOption, winnersPool)
	if err != nil {
		if ok := db.IsNotFoundError(err); ok {
			// Lost the race against a concurrent resolution.
			return types.NewErrorWithMsg(
				http.StatusConflict, types.SlotAlreadyResolved, "slot is already resolved",
			)
		}
		log.Ctx(ctx).Error().Err(err).Uint64("slotID", slotID).Msg("failed to resolve slot")
		return types.NewInternalServiceError(err)
	}

	metrics.RecordSlotResolved()
	if s.Queues != nil {
		s.Queues.EmitSlotResolvedEvent(ctx, client.NewSlotResolvedEvent(
			slotID, winningOption, slot.TotalPool, winnersPool,
		))
	}
	return nil
}

// computeWinnersPool sums the staked amounts of every participant whose stake
// record matches the winning option. A slot with no participants or no winners
// sums to zero; neither is an error.
func (s *Services) computeWinnersPool(
	ctx context.Context, slotID uint64, winningOption uint64,
) (uint64, *types.Error) {
	participants, err := tracing.WrapWithSpan(ctx, "findSlotParticipants", func() ([]string, error) {
		return s.DbClient.FindSlotParticipants(ctx, slotID)
	})
	if err != nil {
		log.Ctx(ctx).Error().Err(err).Uint64("slotID", slotID).Msg("error while fetching slot participants")
		return 0, types.NewInternalServiceError(err)
	}
	if len(participants) == 0 {
		return 0, nil
	}

	stakes, err := tracing.WrapWithSpan(ctx, "findStakesForParticipants", func() ([]model.StakeDocument, error) {
		return s.DbClient.FindStakesForParticipants(ctx, slotID, participants)
	})
	if err != nil {
		log.Ctx(ctx).Error().Err(err).Uint64("slotID", slotID).Msg("error while fetching stakes for slot")
		return 0, types.NewInternalServiceError(err)
	}

	var winnersPool uint64
	for _, stake := range stakes {
		if stake.Option == winningOption {
			winnersPool += stake.Amount
		}
	}
	return winnersPool, nil
}

// GetSlot is a pure read accessor. Resolved slots are served from the cache
// when one is configured; cache failures fall back to storage.
func (s *Services) GetSlot(ctx context.Context, slotID uint64) (*SlotPublic, *types.Error) {
	if s.SlotCache != nil {
		cached, err := s.SlotCache.GetSlot(ctx, slotID)
		if err == nil {
			return fromSlotDocument(cached), nil
		}
		if !errors.Is(err, cache.ErrCacheMiss) {
			log.Ctx(ctx).Warn().Err(err).Uint64("slotID", slotID).Msg("slot cache read failed")
		}
	}

	slot, err := s.DbClient.FindSlotByID(ctx, slotID)
	if err != nil {
		if ok := db.IsNotFoundError(err); ok {
			return nil, types.NewErrorWithMsg(http.StatusNotFound, types.SlotNotFound, "slot not found")
		}
		log.Ctx(ctx).Error().Err(err).Uint64("slotID", slotID).Msg("error while fetching slot")
		return nil, types.NewInternalServiceError(err)
	}

	if s.SlotCache != nil && slot.IsResolved() {
		if err := s.SlotCache.SetSlot(ctx, slot); err != nil {
			log.Ctx(ctx).Warn().Err(err).Uint64("slotID", slotID).Msg("slot cache write failed")
		}
	}
	return fromSlotDocument(slot), nil
}
