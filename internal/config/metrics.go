package config

import (
	"fmt"
	"net"
)

// MetricsConfig configures the side-port prometheus endpoint. The endpoint is
// always on; the ledger's domain counters and request-duration histograms are
// scraped from here rather than from the api port.
type MetricsConfig struct {
	Host string `mapstructure:"host"`
	Port int    `mapstructure:"port"`
}

func (cfg *MetricsConfig) Validate() error {
	if cfg.Port < 1024 || cfg.Port > 65535 {
		return fmt.Errorf("metrics server port must be between 1024 and 65535 (inclusive)")
	}

	ip := net.ParseIP(cfg.Host)
	if ip == nil {
		return fmt.Errorf("invalid metrics server host: %v", cfg.Host)
	}

	return nil
}

func (cfg *MetricsConfig) GetMetricsPort() int {
	return cfg.Port
}
