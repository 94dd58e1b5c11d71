package db

import (
	"context"

	"github.com/Spikeyfun/prediction/internal/db/model"
)

// DBClient is the narrow storage contract the service layer operates on.
// The mongo-backed Database implements it for deployments; memdb implements it
// with plain hash maps for embedders and tests. Multi-step operations
// (PlaceStake, ClaimReward) must apply all of their effects atomically.
type DBClient interface {
	Ping(ctx context.Context) error
	// InitLedgerRoot creates the singleton root document binding the
	// administrator identity, or returns the existing root unchanged.
	InitLedgerRoot(ctx context.Context, adminIdentity string, createdAt int64) (*model.LedgerRootDocument, error)
	SaveSlot(
		ctx context.Context, slotID uint64, openTime, closeTime int64,
		anchor string, options []string,
	) error
	FindSlotByID(ctx context.Context, slotID uint64) (*model.SlotDocument, error)
	// ResolveSlot performs the one-shot open -> resolved transition. It returns
	// a NotFoundError if the slot is absent or no longer open.
	ResolveSlot(ctx context.Context, slotID uint64, winningOption, winnersPool uint64) error
	// PlaceStake atomically debits the participant's account, deposits into the
	// vault, creates the stake record, appends the participant to the slot's
	// participant index and increments the slot's total pool.
	PlaceStake(ctx context.Context, participant string, slotID uint64, amount, option uint64) error
	FindStake(ctx context.Context, participant string, slotID uint64) (*model.StakeDocument, error)
	FindSlotParticipants(ctx context.Context, slotID uint64) ([]string, error)
	FindStakesForParticipants(ctx context.Context, slotID uint64, participants []string) ([]model.StakeDocument, error)
	// ClaimReward atomically flips the stake record's claimed flag, withdraws
	// the reward from the vault and credits the participant's account.
	ClaimReward(ctx context.Context, participant string, slotID uint64, reward uint64) error
	VaultBalance(ctx context.Context) (uint64, error)
	AccountBalance(ctx context.Context, identity string) (uint64, error)
	FundAccount(ctx context.Context, identity string, amount uint64) error
}
