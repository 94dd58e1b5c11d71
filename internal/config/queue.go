package config

import (
	"fmt"
)

// QueueConfig configures the optional event publisher. When disabled, ledger
// operations simply skip event emission.
type QueueConfig struct {
	Enabled       bool   `mapstructure:"enabled"`
	Url           string `mapstructure:"url"`
	QueueUser     string `mapstructure:"queue-user"`
	QueuePassword string `mapstructure:"queue-password"`
}

func (cfg *QueueConfig) Validate() error {
	if !cfg.Enabled {
		return nil
	}
	if cfg.Url == "" {
		return fmt.Errorf("missing queue url")
	}
	if cfg.QueueUser == "" {
		return fmt.Errorf("missing queue user")
	}
	if cfg.QueuePassword == "" {
		return fmt.Errorf("missing queue password")
	}
	return nil
}
