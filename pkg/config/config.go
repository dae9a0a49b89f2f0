// Package config loads the bus table and device settings from YAML.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/mbalug7/go-i2cdev/pkg/i2c"
)

type Config struct {
	// Buses lists bus device paths; the bus id is the position in the list.
	Buses  []string     `yaml:"buses"`
	Device DeviceConfig `yaml:"device"`
}

type DeviceConfig struct {
	Address int `yaml:"address"` // 7 bit slave address, e.g. 0x68
	Bus     int `yaml:"bus"`

	// Interrupt / data ready line (optional)
	DataReady *DataReadyConfig `yaml:"data_ready"`
}

type DataReadyConfig struct {
	Chip string `yaml:"chip"` // e.g. gpiochip0
	Line int    `yaml:"line"`
}

// Default returns the configuration used when no file is given.
func Default() *Config {
	return &Config{
		Buses: []string{i2c.DefaultBusPath},
	}
}

// Load reads and parses path. Buses missing from the file fall back to the
// default table.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}
	cfg := &Config{}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
	}
	Normalize(cfg)
	return cfg, nil
}

// Normalize fills in defaults. It may mutate cfg.
func Normalize(cfg *Config) {
	if cfg == nil {
		return
	}
	if len(cfg.Buses) == 0 {
		cfg.Buses = []string{i2c.DefaultBusPath}
	}
}

// BusTable builds the bus table the device is selected from.
func (c *Config) BusTable() i2c.BusTable {
	return i2c.NewBusTable(c.Buses...)
}
