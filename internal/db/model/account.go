package model

const AccountCollection = "accounts"

// AccountDocument is a participant's balance on the external asset ledger.
// The ledger operations only ever move whole amounts between an account and
// the escrow vault; the asset has no further internal representation.
type AccountDocument struct {
	Identity string `bson:"_id"` // Primary key
	Balance  uint64 `bson:"balance"`
}
