package config

import (
	"fmt"
	"net/url"
)

type DbConfig struct {
	DbName  string `mapstructure:"db-name"`
	Address string `mapstructure:"address"`
}

func (cfg *DbConfig) Validate() error {
	if cfg.Address == "" {
		return fmt.Errorf("missing db address")
	}

	u, err := url.Parse(cfg.Address)
	if err != nil {
		return fmt.Errorf("invalid db address: %w", err)
	}
	if u.Scheme != "mongodb" && u.Scheme != "mongodb+srv" {
		return fmt.Errorf("unsupported db address scheme: %s", u.Scheme)
	}

	if cfg.DbName == "" {
		return fmt.Errorf("missing db name")
	}
	return nil
}
