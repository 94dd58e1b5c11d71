package model

import "fmt"

const StakeCollection = "stakes"

// StakeDocument is a participant's single bet on one option within one slot.
// The composite primary key guarantees at most one record per (participant, slot)
// pair for the lifetime of the ledger.
type StakeDocument struct {
	StakeKey    string `bson:"_id"` // Primary key, see BuildStakeKey
	Participant string `bson:"participant"`
	SlotID      uint64 `bson:"slot_id"`
	Amount      uint64 `bson:"amount"`
	Option      uint64 `bson:"option"`
	Claimed     bool   `bson:"claimed"`
}

func BuildStakeKey(participant string, slotID uint64) string {
	return fmt.Sprintf("%s:%d", participant, slotID)
}
