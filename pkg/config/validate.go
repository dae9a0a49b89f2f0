package config

import (
	"fmt"
)

// Validate checks configuration correctness.
// It does not check that bus paths exist, that is left to bus selection.
// It MUST NOT mutate configuration.
func Validate(cfg *Config) error {
	if cfg == nil {
		return fmt.Errorf("config is nil")
	}

	seen := make(map[string]int)
	for id, p := range cfg.Buses {
		if p == "" {
			return fmt.Errorf("bus %d: empty path", id)
		}
		if prev, ok := seen[p]; ok {
			return fmt.Errorf("bus %d: path %q already used by bus %d", id, p, prev)
		}
		seen[p] = id
	}

	if cfg.Device.Address < 0 {
		return fmt.Errorf("device: negative address %d", cfg.Device.Address)
	}

	if dr := cfg.Device.DataReady; dr != nil {
		if dr.Chip == "" {
			return fmt.Errorf("device: data_ready chip is required")
		}
		if dr.Line < 0 {
			return fmt.Errorf("device: data_ready line %d is negative", dr.Line)
		}
	}
	return nil
}
