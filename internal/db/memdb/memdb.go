// Package memdb provides a hash-map-backed implementation of db.DBClient.
// The ledger requires only exact-match keyed lookups, so plain maps behind a
// mutex give the same sequential-state-machine semantics as the mongo store.
// It is intended for embedders that do not want a persistent store, and it
// backs the test suite.
package memdb

import (
	"context"
	"strconv"
	"sync"

	"github.com/Spikeyfun/prediction/internal/db"
	"github.com/Spikeyfun/prediction/internal/db/model"
	"github.com/Spikeyfun/prediction/internal/types"
	"github.com/Spikeyfun/prediction/internal/utils"
)

type MemDB struct {
	mu           sync.Mutex
	root         *model.LedgerRootDocument
	slots        map[uint64]*model.SlotDocument
	stakes       map[string]*model.StakeDocument
	participants map[uint64][]string
	accounts     map[string]uint64
	vaultBalance uint64
}

func New() *MemDB {
	return &MemDB{
		slots:        make(map[uint64]*model.SlotDocument),
		stakes:       make(map[string]*model.StakeDocument),
		participants: make(map[uint64][]string),
		accounts:     make(map[string]uint64),
	}
}

func (m *MemDB) Ping(ctx context.Context) error {
	return nil
}

func (m *MemDB) InitLedgerRoot(
	ctx context.Context, adminIdentity string, createdAt int64,
) (*model.LedgerRootDocument, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.root == nil {
		m.root = &model.LedgerRootDocument{
			ID:            model.LedgerRootID,
			AdminIdentity: adminIdentity,
			CreatedAt:     createdAt,
		}
	}
	root := *m.root
	return &root, nil
}

func (m *MemDB) SaveSlot(
	ctx context.Context, slotID uint64, openTime, closeTime int64,
	anchor string, options []string,
) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.slots[slotID]; ok {
		return &db.DuplicateKeyError{
			Key:     strconv.FormatUint(slotID, 10),
			Message: "Slot already exists",
		}
	}
	m.slots[slotID] = &model.SlotDocument{
		SlotID:    slotID,
		OpenTime:  openTime,
		CloseTime: closeTime,
		Anchor:    anchor,
		Options:   append([]string(nil), options...),
		State:     types.SlotOpen,
	}
	return nil
}

func (m *MemDB) FindSlotByID(ctx context.Context, slotID uint64) (*model.SlotDocument, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	slot, ok := m.slots[slotID]
	if !ok {
		return nil, &db.NotFoundError{
			Key:     strconv.FormatUint(slotID, 10),
			Message: "Slot not found",
		}
	}
	copied := *slot
	copied.Options = append([]string(nil), slot.Options...)
	return &copied, nil
}

func (m *MemDB) ResolveSlot(ctx context.Context, slotID uint64, winningOption, winnersPool uint64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	slot, ok := m.slots[slotID]
	if !ok || slot.State != types.SlotOpen {
		return &db.NotFoundError{
			Key:     strconv.FormatUint(slotID, 10),
			Message: "Slot not found or no longer open",
		}
	}
	slot.State = types.SlotResolved
	slot.WinningOption = winningOption
	slot.WinnersPool = winnersPool
	return nil
}

func (m *MemDB) PlaceStake(
	ctx context.Context, participant string, slotID uint64, amount, option uint64,
) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	stakeKey := model.BuildStakeKey(participant, slotID)
	// All checks precede all writes so a failure leaves no partial state.
	slot, ok := m.slots[slotID]
	if !ok || slot.State != types.SlotOpen {
		return &db.NotFoundError{
			Key:     strconv.FormatUint(slotID, 10),
			Message: "Slot not found or no longer open",
		}
	}
	if _, ok := m.stakes[stakeKey]; ok {
		return &db.DuplicateKeyError{
			Key:     stakeKey,
			Message: "Stake already exists for this participant and slot",
		}
	}
	if m.accounts[participant] < amount {
		return &db.InsufficientFundsError{
			Identity: participant,
			Message:  "Account balance cannot cover the requested debit",
		}
	}

	m.accounts[participant] -= amount
	m.vaultBalance += amount
	m.stakes[stakeKey] = &model.StakeDocument{
		StakeKey:    stakeKey,
		Participant: participant,
		SlotID:      slotID,
		Amount:      amount,
		Option:      option,
		Claimed:     false,
	}
	if !utils.Contains(m.participants[slotID], participant) {
		m.participants[slotID] = append(m.participants[slotID], participant)
	}
	slot.TotalPool += amount
	return nil
}

func (m *MemDB) FindStake(ctx context.Context, participant string, slotID uint64) (*model.StakeDocument, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	stakeKey := model.BuildStakeKey(participant, slotID)
	stake, ok := m.stakes[stakeKey]
	if !ok {
		return nil, &db.NotFoundError{
			Key:     stakeKey,
			Message: "Stake not found",
		}
	}
	copied := *stake
	return &copied, nil
}

func (m *MemDB) FindSlotParticipants(ctx context.Context, slotID uint64) ([]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.participants[slotID]...), nil
}

func (m *MemDB) FindStakesForParticipants(
	ctx context.Context, slotID uint64, participants []string,
) ([]model.StakeDocument, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var stakes []model.StakeDocument
	for _, participant := range participants {
		if stake, ok := m.stakes[model.BuildStakeKey(participant, slotID)]; ok {
			stakes = append(stakes, *stake)
		}
	}
	return stakes, nil
}

func (m *MemDB) ClaimReward(
	ctx context.Context, participant string, slotID uint64, reward uint64,
) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	stakeKey := model.BuildStakeKey(participant, slotID)
	stake, ok := m.stakes[stakeKey]
	if !ok || stake.Claimed {
		return &db.AlreadyClaimedError{
			Key:     stakeKey,
			Message: "Reward already claimed",
		}
	}
	if m.vaultBalance < reward {
		return &db.InsufficientVaultBalanceError{
			Message: "Vault balance cannot cover the requested withdrawal",
		}
	}

	stake.Claimed = true
	m.vaultBalance -= reward
	m.accounts[participant] += reward
	return nil
}

func (m *MemDB) VaultBalance(ctx context.Context) (uint64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.vaultBalance, nil
}

func (m *MemDB) AccountBalance(ctx context.Context, identity string) (uint64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.accounts[identity], nil
}

func (m *MemDB) FundAccount(ctx context.Context, identity string, amount uint64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.accounts[identity] += amount
	return nil
}
