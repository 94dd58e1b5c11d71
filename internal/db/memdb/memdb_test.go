package memdb

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Spikeyfun/prediction/internal/db"
)

func TestInitLedgerRootIsIdempotent(t *testing.T) {
	ctx := context.Background()
	store := New()

	root, err := store.InitLedgerRoot(ctx, "admin", 100)
	require.NoError(t, err)
	assert.Equal(t, "admin", root.AdminIdentity)
	assert.Equal(t, int64(100), root.CreatedAt)

	// The stored root survives a repeated init.
	root, err = store.InitLedgerRoot(ctx, "impostor", 200)
	require.NoError(t, err)
	assert.Equal(t, "admin", root.AdminIdentity)
	assert.Equal(t, int64(100), root.CreatedAt)
}

func TestSaveSlotRejectsDuplicate(t *testing.T) {
	ctx := context.Background()
	store := New()

	require.NoError(t, store.SaveSlot(ctx, 1, 0, 100, "anchor", []string{"a", "b"}))

	err := store.SaveSlot(ctx, 1, 0, 200, "other", []string{"x"})
	require.Error(t, err)
	assert.True(t, db.IsDuplicateKeyError(err))

	slot, findErr := store.FindSlotByID(ctx, 1)
	require.NoError(t, findErr)
	assert.Equal(t, "anchor", slot.Anchor)
}

func TestFindSlotByIDNotFound(t *testing.T) {
	store := New()
	_, err := store.FindSlotByID(context.Background(), 42)
	require.Error(t, err)
	assert.True(t, db.IsNotFoundError(err))
}

func TestFindSlotByIDReturnsCopy(t *testing.T) {
	ctx := context.Background()
	store := New()
	require.NoError(t, store.SaveSlot(ctx, 1, 0, 100, "anchor", []string{"a", "b"}))

	slot, err := store.FindSlotByID(ctx, 1)
	require.NoError(t, err)
	slot.Anchor = "mutated"
	slot.Options[0] = "mutated"

	fresh, err := store.FindSlotByID(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, "anchor", fresh.Anchor)
	assert.Equal(t, []string{"a", "b"}, fresh.Options)
}

func TestResolveSlotOnlyOnce(t *testing.T) {
	ctx := context.Background()
	store := New()
	require.NoError(t, store.SaveSlot(ctx, 1, 0, 100, "anchor", []string{"a", "b"}))

	require.NoError(t, store.ResolveSlot(ctx, 1, 0, 0))

	// Anything but an open slot refuses resolution.
	err := store.ResolveSlot(ctx, 1, 1, 0)
	require.Error(t, err)
	assert.True(t, db.IsNotFoundError(err))
	err = store.ResolveSlot(ctx, 42, 0, 0)
	require.Error(t, err)
	assert.True(t, db.IsNotFoundError(err))
}

func TestPlaceStakeRefusesNonOpenSlot(t *testing.T) {
	ctx := context.Background()
	store := New()
	require.NoError(t, store.FundAccount(ctx, "p1", 100))

	// Unknown slot.
	err := store.PlaceStake(ctx, "p1", 42, 100, 0)
	require.Error(t, err)
	assert.True(t, db.IsNotFoundError(err))

	// Resolved slot.
	require.NoError(t, store.SaveSlot(ctx, 1, 0, 100, "anchor", []string{"a", "b"}))
	require.NoError(t, store.ResolveSlot(ctx, 1, 0, 0))
	err = store.PlaceStake(ctx, "p1", 1, 100, 0)
	require.Error(t, err)
	assert.True(t, db.IsNotFoundError(err))

	// Neither attempt moved funds or recorded state.
	balance, balErr := store.AccountBalance(ctx, "p1")
	require.NoError(t, balErr)
	assert.Equal(t, uint64(100), balance)
	vault, vaultErr := store.VaultBalance(ctx)
	require.NoError(t, vaultErr)
	assert.Equal(t, uint64(0), vault)
	slot, findErr := store.FindSlotByID(ctx, 1)
	require.NoError(t, findErr)
	assert.Equal(t, uint64(0), slot.TotalPool)
}

func TestPlaceStakeFailureLeavesNoPartialState(t *testing.T) {
	ctx := context.Background()
	store := New()
	require.NoError(t, store.SaveSlot(ctx, 1, 0, 100, "anchor", []string{"a", "b"}))
	require.NoError(t, store.FundAccount(ctx, "p1", 50))

	err := store.PlaceStake(ctx, "p1", 1, 100, 0)
	require.Error(t, err)
	assert.True(t, db.IsInsufficientFundsError(err))

	balance, balErr := store.AccountBalance(ctx, "p1")
	require.NoError(t, balErr)
	assert.Equal(t, uint64(50), balance)
	vault, vaultErr := store.VaultBalance(ctx)
	require.NoError(t, vaultErr)
	assert.Equal(t, uint64(0), vault)
	participants, partErr := store.FindSlotParticipants(ctx, 1)
	require.NoError(t, partErr)
	assert.Empty(t, participants)
	slot, findErr := store.FindSlotByID(ctx, 1)
	require.NoError(t, findErr)
	assert.Equal(t, uint64(0), slot.TotalPool)
}

func TestPlaceStakeRejectsSecondStake(t *testing.T) {
	ctx := context.Background()
	store := New()
	require.NoError(t, store.SaveSlot(ctx, 1, 0, 100, "anchor", []string{"a", "b"}))
	require.NoError(t, store.FundAccount(ctx, "p1", 300))
	require.NoError(t, store.PlaceStake(ctx, "p1", 1, 100, 0))

	err := store.PlaceStake(ctx, "p1", 1, 100, 1)
	require.Error(t, err)
	assert.True(t, db.IsDuplicateKeyError(err))

	// The account was only debited once and the index holds one entry.
	balance, balErr := store.AccountBalance(ctx, "p1")
	require.NoError(t, balErr)
	assert.Equal(t, uint64(200), balance)
	participants, partErr := store.FindSlotParticipants(ctx, 1)
	require.NoError(t, partErr)
	assert.Equal(t, []string{"p1"}, participants)
}

func TestFindStakesForParticipants(t *testing.T) {
	ctx := context.Background()
	store := New()
	require.NoError(t, store.SaveSlot(ctx, 1, 0, 100, "anchor", []string{"a", "b"}))
	for _, p := range []string{"p1", "p2", "p3"} {
		require.NoError(t, store.FundAccount(ctx, p, 100))
	}
	require.NoError(t, store.PlaceStake(ctx, "p1", 1, 100, 0))
	require.NoError(t, store.PlaceStake(ctx, "p2", 1, 100, 1))
	require.NoError(t, store.PlaceStake(ctx, "p3", 1, 100, 0))

	participants, err := store.FindSlotParticipants(ctx, 1)
	require.NoError(t, err)
	assert.Len(t, participants, 3)

	stakes, err := store.FindStakesForParticipants(ctx, 1, participants)
	require.NoError(t, err)
	require.Len(t, stakes, 3)

	var total uint64
	for _, stake := range stakes {
		total += stake.Amount
	}
	assert.Equal(t, uint64(300), total)
}

func TestClaimRewardFlipsFlagExactlyOnce(t *testing.T) {
	ctx := context.Background()
	store := New()
	require.NoError(t, store.SaveSlot(ctx, 1, 0, 100, "anchor", []string{"a", "b"}))
	require.NoError(t, store.FundAccount(ctx, "p1", 100))
	require.NoError(t, store.PlaceStake(ctx, "p1", 1, 100, 0))

	require.NoError(t, store.ClaimReward(ctx, "p1", 1, 100))

	err := store.ClaimReward(ctx, "p1", 1, 100)
	require.Error(t, err)
	assert.True(t, db.IsAlreadyClaimedError(err))

	balance, balErr := store.AccountBalance(ctx, "p1")
	require.NoError(t, balErr)
	assert.Equal(t, uint64(100), balance)
	vault, vaultErr := store.VaultBalance(ctx)
	require.NoError(t, vaultErr)
	assert.Equal(t, uint64(0), vault)
}

func TestClaimRewardRefusesVaultOverdraw(t *testing.T) {
	ctx := context.Background()
	store := New()
	require.NoError(t, store.SaveSlot(ctx, 1, 0, 100, "anchor", []string{"a", "b"}))
	require.NoError(t, store.FundAccount(ctx, "p1", 100))
	require.NoError(t, store.PlaceStake(ctx, "p1", 1, 100, 0))

	err := store.ClaimReward(ctx, "p1", 1, 101)
	require.Error(t, err)
	assert.True(t, db.IsInsufficientVaultBalanceError(err))

	// The claimed flag was not flipped by the failed withdrawal.
	stake, findErr := store.FindStake(ctx, "p1", 1)
	require.NoError(t, findErr)
	assert.False(t, stake.Claimed)
}
