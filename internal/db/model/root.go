package model

const LedgerRootCollection = "ledger_root"

// LedgerRootID is the primary key of the single root document. Exactly one
// root exists per deployment; it is created at bootstrap and records the
// administrator identity used for authorization checks.
const LedgerRootID = "root"

type LedgerRootDocument struct {
	ID            string `bson:"_id"`
	AdminIdentity string `bson:"admin_identity"`
	CreatedAt     int64  `bson:"created_at"`
}
