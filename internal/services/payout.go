package services

import (
	"context"
	"math/bits"
	"net/http"

	"github.com/rs/zerolog/log"

	"github.com/Spikeyfun/prediction/internal/db"
	"github.com/Spikeyfun/prediction/internal/observability/metrics"
	"github.com/Spikeyfun/prediction/internal/queue/client"
	"github.com/Spikeyfun/prediction/internal/types"
)

// proportionalReward computes floor(stake * totalPool / winnersPool) through a
// 128-bit intermediate so the product cannot overflow. Callers must ensure
// 0 < winnersPool and stake <= winnersPool; the quotient is then bounded by
// totalPool and always narrows back into uint64. Floor division can leave a
// small remainder in the vault but never a deficit. The guard keeps Div64 from
// faulting if the precondition is ever violated.
func proportionalReward(stake, totalPool, winnersPool uint64) uint64 {
	if winnersPool == 0 || stake > winnersPool {
		return 0
	}
	hi, lo := bits.Mul64(stake, totalPool)
	reward, _ := bits.Div64(hi, lo, winnersPool)
	return reward
}

// ClaimReward pays a winner their proportional share of the slot's total pool,
// exactly once. The storage layer flips the claimed flag, withdraws from the
// vault and credits the participant atomically; a repeated claim fails with
// ALREADY_CLAIMED and never double-pays.
func (s *Services) ClaimReward(
	ctx context.Context, participant string, slotID uint64,
) (uint64, *types.Error) {
	slot, err := s.DbClient.FindSlotByID(ctx, slotID)
	if err != nil {
		if ok := db.IsNotFoundError(err); ok {
			return 0, types.NewErrorWithMsg(http.StatusNotFound, types.SlotNotFound, "slot not found")
		}
		log.Ctx(ctx).Error().Err(err).Uint64("slotID", slotID).Msg("error while fetching slot")
		return 0, types.NewInternalServiceError(err)
	}
	if !slot.IsResolved() {
		return 0, types.NewErrorWithMsg(
			http.StatusForbidden, types.SlotNotResolved, "slot is not resolved yet",
		)
	}
	if slot.WinnersPool == 0 {
		return 0, types.NewErrorWithMsg(
			http.StatusForbidden, types.NoWinners, "slot resolved with no winners",
		)
	}

	stake, err := s.DbClient.FindStake(ctx, participant, slotID)
	if err != nil {
		if ok := db.IsNotFoundError(err); ok {
			return 0, types.NewErrorWithMsg(
				http.StatusNotFound, types.PredictionNotFound, "no stake found for this participant and slot",
			)
		}
		log.Ctx(ctx).Error().Err(err).
			Str("participant", participant).Uint64("slotID", slotID).
			Msg("error while fetching stake")
		return 0, types.NewInternalServiceError(err)
	}
	if stake.Claimed {
		return 0, types.NewErrorWithMsg(
			http.StatusConflict, types.AlreadyClaimed, "reward already claimed",
		)
	}
	if stake.Option != slot.WinningOption {
		return 0, types.NewErrorWithMsg(
			http.StatusForbidden, types.NotAWinner, "stake option does not match the winning option",
		)
	}
	if stake.Amount > slot.WinnersPool {
		// A winning stake is part of the winners pool, so this state means the
		// recorded pools are corrupt. Same severity class as a vault overdraw.
		log.Ctx(ctx).Error().
			Str("participant", participant).Uint64("slotID", slotID).
			Uint64("stake", stake.Amount).Uint64("winnersPool", slot.WinnersPool).
			Msg("winning stake exceeds the recorded winners pool")
		return 0, types.NewErrorWithMsg(
			http.StatusInternalServerError, types.InsufficientVaultBalance,
			"slot pool accounting cannot cover this claim",
		)
	}

	reward := proportionalReward(stake.Amount, slot.TotalPool, slot.WinnersPool)
	err = s.DbClient.ClaimReward(ctx, participant, slotID, reward)
	if err != nil {
		if ok := db.IsAlreadyClaimedError(err); ok {
			// Lost the race against a concurrent claim.
			return 0, types.NewErrorWithMsg(
				http.StatusConflict, types.AlreadyClaimed, "reward already claimed",
			)
		}
		if ok := db.IsInsufficientVaultBalanceError(err); ok {
			// Accounting invariant violation, surfaced loudly as a 5xx.
			log.Ctx(ctx).Error().Err(err).
				Str("participant", participant).Uint64("slotID", slotID).Uint64("reward", reward).
				Msg("payout would overdraw the escrow vault")
			return 0, types.NewError(
				http.StatusInternalServerError, types.InsufficientVaultBalance, err,
			)
		}
		log.Ctx(ctx).Error().Err(err).
			Str("participant", participant).Uint64("slotID", slotID).
			Msg("failed to claim reward")
		return 0, types.NewInternalServiceError(err)
	}

	metrics.RecordRewardClaimed(reward)
	if s.Queues != nil {
		s.Queues.EmitRewardClaimedEvent(ctx, client.NewRewardClaimedEvent(participant, slotID, reward))
	}
	return reward, nil
}
