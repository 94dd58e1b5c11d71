package services

import (
	"context"

	"github.com/rs/zerolog/log"

	"github.com/Spikeyfun/prediction/internal/types"
)

// Deposit credits a participant's external asset balance. The host environment
// funds accounts before they stake; the ledger core never mints funds itself.
func (s *Services) Deposit(ctx context.Context, identity string, amount uint64) *types.Error {
	if err := s.DbClient.FundAccount(ctx, identity, amount); err != nil {
		log.Ctx(ctx).Error().Err(err).Str("identity", identity).Msg("failed to fund account")
		return types.NewInternalServiceError(err)
	}
	return nil
}

func (s *Services) AccountBalance(ctx context.Context, identity string) (uint64, *types.Error) {
	balance, err := s.DbClient.AccountBalance(ctx, identity)
	if err != nil {
		log.Ctx(ctx).Error().Err(err).Str("identity", identity).Msg("failed to fetch account balance")
		return 0, types.NewInternalServiceError(err)
	}
	return balance, nil
}

func (s *Services) VaultBalance(ctx context.Context) (uint64, *types.Error) {
	balance, err := s.DbClient.VaultBalance(ctx)
	if err != nil {
		log.Ctx(ctx).Error().Err(err).Msg("failed to fetch vault balance")
		return 0, types.NewInternalServiceError(err)
	}
	return balance, nil
}
