package services

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Spikeyfun/prediction/internal/clock"
	"github.com/Spikeyfun/prediction/internal/db/memdb"
	"github.com/Spikeyfun/prediction/internal/types"
)

const (
	testAdmin = "admin"

	slotOpenTime  = int64(0)
	slotCloseTime = int64(100)
)

func newTestLedger(t *testing.T) *Services {
	svc := NewWithClient(nil, memdb.New(), clock.Fixed(10))
	err := svc.BootstrapLedger(context.Background(), testAdmin)
	require.NoError(t, err)
	return svc
}

func createTestSlot(t *testing.T, svc *Services, slotID uint64, options []string) {
	err := svc.CreateSlot(
		context.Background(), testAdmin, slotID, slotOpenTime, slotCloseTime, "match-result", options,
	)
	require.Nil(t, err)
}

func fundAccount(t *testing.T, svc *Services, identity string, amount uint64) {
	err := svc.Deposit(context.Background(), identity, amount)
	require.Nil(t, err)
}

func TestBootstrapLedgerKeepsStoredAdmin(t *testing.T) {
	ctx := context.Background()
	svc := NewWithClient(nil, memdb.New(), clock.Fixed(10))
	require.NoError(t, svc.BootstrapLedger(ctx, "first-admin"))

	// A second bootstrap with a different identity does not rebind the admin.
	require.NoError(t, svc.BootstrapLedger(ctx, "second-admin"))
	err := svc.CreateSlot(ctx, "second-admin", 1, slotOpenTime, slotCloseTime, "anchor", []string{"a", "b"})
	require.NotNil(t, err)
	assert.Equal(t, types.Unauthorized, err.ErrorCode)

	createErr := svc.CreateSlot(ctx, "first-admin", 1, slotOpenTime, slotCloseTime, "anchor", []string{"a", "b"})
	assert.Nil(t, createErr)
}

func TestCreateSlotRequiresAdmin(t *testing.T) {
	svc := newTestLedger(t)

	err := svc.CreateSlot(
		context.Background(), "somebody-else", 1, slotOpenTime, slotCloseTime, "anchor", []string{"a", "b"},
	)
	require.NotNil(t, err)
	assert.Equal(t, http.StatusForbidden, err.StatusCode)
	assert.Equal(t, types.Unauthorized, err.ErrorCode)
}

func TestCreateSlotRejectsEmptyWindow(t *testing.T) {
	svc := newTestLedger(t)
	ctx := context.Background()

	for _, closeTime := range []int64{slotOpenTime, slotOpenTime - 1} {
		err := svc.CreateSlot(ctx, testAdmin, 1, slotOpenTime, closeTime, "anchor", []string{"a", "b"})
		require.NotNil(t, err)
		assert.Equal(t, types.InvalidTimeWindow, err.ErrorCode)
	}
}

func TestCreateSlotRejectsDuplicateID(t *testing.T) {
	svc := newTestLedger(t)
	createTestSlot(t, svc, 1, []string{"a", "b"})

	err := svc.CreateSlot(
		context.Background(), testAdmin, 1, slotOpenTime, slotCloseTime, "another-anchor", []string{"x"},
	)
	require.NotNil(t, err)
	assert.Equal(t, http.StatusConflict, err.StatusCode)
	assert.Equal(t, types.SlotAlreadyExists, err.ErrorCode)

	// The original slot is untouched.
	slot, getErr := svc.GetSlot(context.Background(), 1)
	require.Nil(t, getErr)
	assert.Equal(t, "match-result", slot.Anchor)
	assert.Equal(t, []string{"a", "b"}, slot.Options)
}

func TestPlaceStakeMovesFundsIntoVault(t *testing.T) {
	svc := newTestLedger(t)
	ctx := context.Background()
	createTestSlot(t, svc, 1, []string{"a", "b"})
	fundAccount(t, svc, "p1", 500)

	err := svc.PlaceStake(ctx, "p1", 1, 120, 0)
	require.Nil(t, err)

	balance, balErr := svc.AccountBalance(ctx, "p1")
	require.Nil(t, balErr)
	assert.Equal(t, uint64(380), balance)

	vault, vaultErr := svc.VaultBalance(ctx)
	require.Nil(t, vaultErr)
	assert.Equal(t, uint64(120), vault)

	slot, getErr := svc.GetSlot(ctx, 1)
	require.Nil(t, getErr)
	assert.Equal(t, uint64(120), slot.TotalPool)

	stake, stakeErr := svc.GetStake(ctx, "p1", 1)
	require.Nil(t, stakeErr)
	assert.Equal(t, uint64(120), stake.Amount)
	assert.Equal(t, uint64(0), stake.Option)
	assert.False(t, stake.Claimed)
}

func TestPlaceStakeOnUnknownSlot(t *testing.T) {
	svc := newTestLedger(t)
	fundAccount(t, svc, "p1", 100)

	err := svc.PlaceStake(context.Background(), "p1", 42, 100, 0)
	require.NotNil(t, err)
	assert.Equal(t, http.StatusNotFound, err.StatusCode)
	assert.Equal(t, types.SlotNotFound, err.ErrorCode)
}

func TestPlaceStakeAfterWindowCloses(t *testing.T) {
	svc := newTestLedger(t)
	ctx := context.Background()
	createTestSlot(t, svc, 1, []string{"a", "b"})
	fundAccount(t, svc, "p1", 100)

	// The close instant itself is already outside the window.
	for _, now := range []int64{slotCloseTime, slotCloseTime + 50} {
		svc.Clock = clock.Fixed(now)
		err := svc.PlaceStake(ctx, "p1", 1, 100, 0)
		require.NotNil(t, err)
		assert.Equal(t, http.StatusForbidden, err.StatusCode)
		assert.Equal(t, types.BettingWindowClosed, err.ErrorCode)
	}

	// A rejected stake leaves balances and pools untouched.
	balance, balErr := svc.AccountBalance(ctx, "p1")
	require.Nil(t, balErr)
	assert.Equal(t, uint64(100), balance)
	slot, getErr := svc.GetSlot(ctx, 1)
	require.Nil(t, getErr)
	assert.Equal(t, uint64(0), slot.TotalPool)
}

func TestPlaceStakeRejectsOutOfRangeOption(t *testing.T) {
	svc := newTestLedger(t)
	createTestSlot(t, svc, 1, []string{"a", "b"})
	fundAccount(t, svc, "p1", 100)

	err := svc.PlaceStake(context.Background(), "p1", 1, 100, 2)
	require.NotNil(t, err)
	assert.Equal(t, types.InvalidOption, err.ErrorCode)
}

func TestPlaceStakeOncePerSlot(t *testing.T) {
	svc := newTestLedger(t)
	ctx := context.Background()
	createTestSlot(t, svc, 1, []string{"a", "b"})
	fundAccount(t, svc, "p1", 300)

	require.Nil(t, svc.PlaceStake(ctx, "p1", 1, 100, 0))

	// A second stake is rejected even on the same option.
	err := svc.PlaceStake(ctx, "p1", 1, 50, 0)
	require.NotNil(t, err)
	assert.Equal(t, http.StatusConflict, err.StatusCode)
	assert.Equal(t, types.DuplicateStake, err.ErrorCode)

	// Only the first debit happened.
	balance, balErr := svc.AccountBalance(ctx, "p1")
	require.Nil(t, balErr)
	assert.Equal(t, uint64(200), balance)
	slot, getErr := svc.GetSlot(ctx, 1)
	require.Nil(t, getErr)
	assert.Equal(t, uint64(100), slot.TotalPool)
}

func TestPlaceStakeInsufficientFunds(t *testing.T) {
	svc := newTestLedger(t)
	ctx := context.Background()
	createTestSlot(t, svc, 1, []string{"a", "b"})
	fundAccount(t, svc, "p1", 99)

	err := svc.PlaceStake(ctx, "p1", 1, 100, 0)
	require.NotNil(t, err)
	assert.Equal(t, types.InsufficientFunds, err.ErrorCode)

	// Nothing moved.
	balance, balErr := svc.AccountBalance(ctx, "p1")
	require.Nil(t, balErr)
	assert.Equal(t, uint64(99), balance)
	vault, vaultErr := svc.VaultBalance(ctx)
	require.Nil(t, vaultErr)
	assert.Equal(t, uint64(0), vault)
	_, stakeErr := svc.GetStake(ctx, "p1", 1)
	require.NotNil(t, stakeErr)
	assert.Equal(t, types.PredictionNotFound, stakeErr.ErrorCode)
}

func TestResolveSlotRequiresAdmin(t *testing.T) {
	svc := newTestLedger(t)
	createTestSlot(t, svc, 1, []string{"a", "b"})

	err := svc.ResolveSlot(context.Background(), "p1", 1, 0)
	require.NotNil(t, err)
	assert.Equal(t, types.Unauthorized, err.ErrorCode)
}

func TestResolveUnknownSlot(t *testing.T) {
	svc := newTestLedger(t)

	err := svc.ResolveSlot(context.Background(), testAdmin, 42, 0)
	require.NotNil(t, err)
	assert.Equal(t, types.SlotNotFound, err.ErrorCode)
}

func TestResolveRejectsOutOfRangeWinningOption(t *testing.T) {
	svc := newTestLedger(t)
	createTestSlot(t, svc, 1, []string{"a", "b"})

	err := svc.ResolveSlot(context.Background(), testAdmin, 1, 2)
	require.NotNil(t, err)
	assert.Equal(t, types.InvalidOption, err.ErrorCode)
}

func TestResolveSlotIsOneShot(t *testing.T) {
	svc := newTestLedger(t)
	ctx := context.Background()
	createTestSlot(t, svc, 1, []string{"a", "b"})
	fundAccount(t, svc, "p1", 100)
	require.Nil(t, svc.PlaceStake(ctx, "p1", 1, 100, 0))

	require.Nil(t, svc.ResolveSlot(ctx, testAdmin, 1, 0))

	// A second resolution is rejected, even with a different winner.
	err := svc.ResolveSlot(ctx, testAdmin, 1, 1)
	require.NotNil(t, err)
	assert.Equal(t, http.StatusConflict, err.StatusCode)
	assert.Equal(t, types.SlotAlreadyResolved, err.ErrorCode)

	slot, getErr := svc.GetSlot(ctx, 1)
	require.Nil(t, getErr)
	require.NotNil(t, slot.WinningOption)
	assert.Equal(t, uint64(0), *slot.WinningOption)
}

func TestResolveFreezesStaking(t *testing.T) {
	svc := newTestLedger(t)
	ctx := context.Background()
	createTestSlot(t, svc, 1, []string{"a", "b"})
	fundAccount(t, svc, "p1", 100)
	fundAccount(t, svc, "p2", 100)
	require.Nil(t, svc.PlaceStake(ctx, "p1", 1, 100, 0))

	// Resolution does not wait for the betting window to close.
	require.Nil(t, svc.ResolveSlot(ctx, testAdmin, 1, 0))

	slot, getErr := svc.GetSlot(ctx, 1)
	require.Nil(t, getErr)
	assert.Equal(t, "resolved", slot.State)

	// The window is still open on the clock, but the winners pool is frozen;
	// a late stake would inflate total_pool past what winners can ever claim.
	err := svc.PlaceStake(ctx, "p2", 1, 100, 0)
	require.NotNil(t, err)
	assert.Equal(t, http.StatusConflict, err.StatusCode)
	assert.Equal(t, types.SlotAlreadyResolved, err.ErrorCode)

	// The rejected stake left the pools, vault and account untouched.
	slot, getErr = svc.GetSlot(ctx, 1)
	require.Nil(t, getErr)
	assert.Equal(t, uint64(100), slot.TotalPool)
	assert.Equal(t, uint64(100), slot.WinnersPool)
	vault, vaultErr := svc.VaultBalance(ctx)
	require.Nil(t, vaultErr)
	assert.Equal(t, uint64(100), vault)
	balance, balErr := svc.AccountBalance(ctx, "p2")
	require.Nil(t, balErr)
	assert.Equal(t, uint64(100), balance)

	// The sole winner collects exactly the total pool and empties the vault.
	reward, claimErr := svc.ClaimReward(ctx, "p1", 1)
	require.Nil(t, claimErr)
	assert.Equal(t, uint64(100), reward)
	vault, vaultErr = svc.VaultBalance(ctx)
	require.Nil(t, vaultErr)
	assert.Equal(t, uint64(0), vault)
}

func TestClaimRewardDetectsCorruptPools(t *testing.T) {
	svc := newTestLedger(t)
	ctx := context.Background()
	createTestSlot(t, svc, 1, []string{"a", "b"})
	fundAccount(t, svc, "p1", 100)
	require.Nil(t, svc.PlaceStake(ctx, "p1", 1, 100, 0))

	// Resolve through the storage layer with an understated winners pool, the
	// kind of state only an accounting bug can produce.
	require.NoError(t, svc.DbClient.ResolveSlot(ctx, 1, 0, 50))

	_, err := svc.ClaimReward(ctx, "p1", 1)
	require.NotNil(t, err)
	assert.Equal(t, http.StatusInternalServerError, err.StatusCode)
	assert.Equal(t, types.InsufficientVaultBalance, err.ErrorCode)

	// The failed claim did not burn the one-time flag or move funds.
	stake, stakeErr := svc.GetStake(ctx, "p1", 1)
	require.Nil(t, stakeErr)
	assert.False(t, stake.Claimed)
	vault, vaultErr := svc.VaultBalance(ctx)
	require.Nil(t, vaultErr)
	assert.Equal(t, uint64(100), vault)
}

func TestProportionalPayoutAcrossWinners(t *testing.T) {
	svc := newTestLedger(t)
	ctx := context.Background()
	createTestSlot(t, svc, 7, []string{"home", "away"})
	fundAccount(t, svc, "p1", 100)
	fundAccount(t, svc, "p2", 300)
	fundAccount(t, svc, "p3", 100)

	require.Nil(t, svc.PlaceStake(ctx, "p1", 7, 100, 0))
	require.Nil(t, svc.PlaceStake(ctx, "p2", 7, 300, 1))
	require.Nil(t, svc.PlaceStake(ctx, "p3", 7, 100, 0))

	require.Nil(t, svc.ResolveSlot(ctx, testAdmin, 7, 0))

	slot, getErr := svc.GetSlot(ctx, 7)
	require.Nil(t, getErr)
	assert.Equal(t, uint64(500), slot.TotalPool)
	assert.Equal(t, uint64(200), slot.WinnersPool)

	// Each winner receives stake * total / winners.
	reward1, claimErr := svc.ClaimReward(ctx, "p1", 7)
	require.Nil(t, claimErr)
	assert.Equal(t, uint64(250), reward1)

	reward3, claimErr := svc.ClaimReward(ctx, "p3", 7)
	require.Nil(t, claimErr)
	assert.Equal(t, uint64(250), reward3)

	// The loser's stake stays in the pool it was redistributed from.
	_, loserErr := svc.ClaimReward(ctx, "p2", 7)
	require.NotNil(t, loserErr)
	assert.Equal(t, http.StatusForbidden, loserErr.StatusCode)
	assert.Equal(t, types.NotAWinner, loserErr.ErrorCode)

	// Full conservation: everything staked has been paid back out.
	vault, vaultErr := svc.VaultBalance(ctx)
	require.Nil(t, vaultErr)
	assert.Equal(t, uint64(0), vault)
	for identity, want := range map[string]uint64{"p1": 250, "p2": 0, "p3": 250} {
		balance, balErr := svc.AccountBalance(ctx, identity)
		require.Nil(t, balErr)
		assert.Equal(t, want, balance, identity)
	}
}

func TestClaimRewardIsExactlyOnce(t *testing.T) {
	svc := newTestLedger(t)
	ctx := context.Background()
	createTestSlot(t, svc, 1, []string{"a", "b"})
	fundAccount(t, svc, "p1", 100)
	require.Nil(t, svc.PlaceStake(ctx, "p1", 1, 100, 0))
	require.Nil(t, svc.ResolveSlot(ctx, testAdmin, 1, 0))

	reward, claimErr := svc.ClaimReward(ctx, "p1", 1)
	require.Nil(t, claimErr)
	assert.Equal(t, uint64(100), reward)

	_, secondErr := svc.ClaimReward(ctx, "p1", 1)
	require.NotNil(t, secondErr)
	assert.Equal(t, http.StatusConflict, secondErr.StatusCode)
	assert.Equal(t, types.AlreadyClaimed, secondErr.ErrorCode)

	// The second claim paid nothing.
	balance, balErr := svc.AccountBalance(ctx, "p1")
	require.Nil(t, balErr)
	assert.Equal(t, uint64(100), balance)

	stake, stakeErr := svc.GetStake(ctx, "p1", 1)
	require.Nil(t, stakeErr)
	assert.True(t, stake.Claimed)
}

func TestClaimRewardGuards(t *testing.T) {
	svc := newTestLedger(t)
	ctx := context.Background()
	createTestSlot(t, svc, 1, []string{"a", "b"})
	fundAccount(t, svc, "p1", 100)
	require.Nil(t, svc.PlaceStake(ctx, "p1", 1, 100, 0))

	t.Run("unknown slot", func(t *testing.T) {
		_, err := svc.ClaimReward(ctx, "p1", 42)
		require.NotNil(t, err)
		assert.Equal(t, types.SlotNotFound, err.ErrorCode)
	})

	t.Run("slot not resolved yet", func(t *testing.T) {
		_, err := svc.ClaimReward(ctx, "p1", 1)
		require.NotNil(t, err)
		assert.Equal(t, http.StatusForbidden, err.StatusCode)
		assert.Equal(t, types.SlotNotResolved, err.ErrorCode)
	})

	require.Nil(t, svc.ResolveSlot(ctx, testAdmin, 1, 0))

	t.Run("no stake in slot", func(t *testing.T) {
		_, err := svc.ClaimReward(ctx, "p2", 1)
		require.NotNil(t, err)
		assert.Equal(t, http.StatusNotFound, err.StatusCode)
		assert.Equal(t, types.PredictionNotFound, err.ErrorCode)
	})
}

func TestClaimRewardNoWinners(t *testing.T) {
	svc := newTestLedger(t)
	ctx := context.Background()
	createTestSlot(t, svc, 1, []string{"a", "b"})
	fundAccount(t, svc, "p1", 100)
	require.Nil(t, svc.PlaceStake(ctx, "p1", 1, 100, 0))

	// Nobody picked option 1, so the winners pool is empty.
	require.Nil(t, svc.ResolveSlot(ctx, testAdmin, 1, 1))

	_, err := svc.ClaimReward(ctx, "p1", 1)
	require.NotNil(t, err)
	assert.Equal(t, http.StatusForbidden, err.StatusCode)
	assert.Equal(t, types.NoWinners, err.ErrorCode)

	// Stakes stay locked in the vault.
	vault, vaultErr := svc.VaultBalance(ctx)
	require.Nil(t, vaultErr)
	assert.Equal(t, uint64(100), vault)
}

func TestPayoutRoundingRemainderStaysInVault(t *testing.T) {
	svc := newTestLedger(t)
	ctx := context.Background()
	createTestSlot(t, svc, 1, []string{"a", "b"})
	for _, p := range []string{"p1", "p2", "p3"} {
		fundAccount(t, svc, p, 1)
	}
	require.Nil(t, svc.PlaceStake(ctx, "p1", 1, 1, 0))
	require.Nil(t, svc.PlaceStake(ctx, "p2", 1, 1, 0))
	require.Nil(t, svc.PlaceStake(ctx, "p3", 1, 1, 1))

	require.Nil(t, svc.ResolveSlot(ctx, testAdmin, 1, 0))

	// floor(1 * 3 / 2) pays 1 to each winner and strands 1 unit.
	for _, p := range []string{"p1", "p2"} {
		reward, claimErr := svc.ClaimReward(ctx, p, 1)
		require.Nil(t, claimErr)
		assert.Equal(t, uint64(1), reward)
	}

	vault, vaultErr := svc.VaultBalance(ctx)
	require.Nil(t, vaultErr)
	assert.Equal(t, uint64(1), vault)
}
