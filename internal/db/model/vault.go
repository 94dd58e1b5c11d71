package model

const VaultCollection = "vault"

// VaultDocumentID is the primary key of the single escrow vault document.
const VaultDocumentID = "vault"

// VaultDocument holds the pooled custodial balance shared across all slots.
// Deposits merge into it at staking time, payouts extract from it at claim time.
type VaultDocument struct {
	ID      string `bson:"_id"`
	Balance uint64 `bson:"balance"`
}
