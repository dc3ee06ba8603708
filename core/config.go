package core

import (
	"fmt"
	"strings"
	"time"
)

// DefaultAppName is the name used by the single-app convenience helpers.
const DefaultAppName = "[DEFAULT]"

const defaultRefreshLeadWindowMS = int64(5 * time.Minute / time.Millisecond)

type RefreshConfig struct {
	// LeadWindowMS is how long before expiry a proactive refresh fires. A
	// token expiring inside the window is not scheduled; the next read
	// refreshes it reactively.
	LeadWindowMS int64 `koanf:"lead_window_ms" mapstructure:"lead_window_ms"`
}

type Config struct {
	ServiceName    string        `koanf:"service_name" mapstructure:"service_name"`
	DefaultAppName string        `koanf:"default_app_name" mapstructure:"default_app_name"`
	Refresh        RefreshConfig `koanf:"refresh" mapstructure:"refresh"`
}

func DefaultConfig() Config {
	return Config{
		ServiceName:    "apps",
		DefaultAppName: DefaultAppName,
		Refresh: RefreshConfig{
			LeadWindowMS: defaultRefreshLeadWindowMS,
		},
	}
}

func (c Config) Validate() error {
	if strings.TrimSpace(c.ServiceName) == "" {
		return fmt.Errorf("core: service_name is required")
	}
	if strings.TrimSpace(c.DefaultAppName) == "" {
		return fmt.Errorf("core: default_app_name is required")
	}
	if c.Refresh.LeadWindowMS < 0 {
		return fmt.Errorf("core: refresh lead_window_ms must not be negative")
	}
	return nil
}

func (c Config) refreshLeadWindow() time.Duration {
	if c.Refresh.LeadWindowMS <= 0 {
		return time.Duration(defaultRefreshLeadWindowMS) * time.Millisecond
	}
	return time.Duration(c.Refresh.LeadWindowMS) * time.Millisecond
}
