package model

const SlotParticipantsCollection = "slot_participants"

// SlotParticipantsDocument is the per-slot append-only list of participant
// identities that staked in the slot. It only enumerates resolution candidates;
// amounts are authoritative in the stakes collection.
type SlotParticipantsDocument struct {
	SlotID       uint64   `bson:"_id"` // Primary key
	Participants []string `bson:"participants"`
}
