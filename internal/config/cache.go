package config

import (
	"fmt"
	"time"
)

// CacheConfig configures the optional redis read cache for resolved slots.
type CacheConfig struct {
	Enabled  bool          `mapstructure:"enabled"`
	Address  string        `mapstructure:"address"`
	Password string        `mapstructure:"password"`
	Db       int           `mapstructure:"db"`
	SlotTTL  time.Duration `mapstructure:"slot-ttl"`
}

func (cfg *CacheConfig) Validate() error {
	if !cfg.Enabled {
		return nil
	}
	if cfg.Address == "" {
		return fmt.Errorf("missing cache address")
	}
	if cfg.SlotTTL < 0 {
		return fmt.Errorf("cache slot ttl cannot be negative")
	}
	return nil
}
