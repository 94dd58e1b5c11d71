package config

import "fmt"

// LedgerConfig carries the bootstrap parameters of the ledger root. The admin
// identity is bound once, at first start against an empty store; subsequent
// starts keep whatever identity the store already holds.
type LedgerConfig struct {
	AdminIdentity string `mapstructure:"admin-identity"`
}

func (cfg *LedgerConfig) Validate() error {
	if cfg.AdminIdentity == "" {
		return fmt.Errorf("missing ledger admin identity")
	}
	return nil
}
