// Package config loads the YAML board files consumed by the CLI.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Board BoardConfig `yaml:"board"`
}

// ---- BOARD ----

type BoardConfig struct {
	Model     string         `yaml:"model"`
	Frequency uint32         `yaml:"frequency"` // Hz; 0 keeps the handle default
	Cycles    int            `yaml:"cycles"`    // run budget
	UART      UARTConfig     `yaml:"uart"`
	Firmware  FirmwareConfig `yaml:"firmware"`
	TraceDB   string         `yaml:"trace_db"` // optional SQLite trace path
}

// ---- UART ----

type UARTConfig struct {
	Channel string `yaml:"channel"` // single name byte; default "0"
	Bridge  *bool  `yaml:"bridge"`  // nil => enabled
}

// ---- FIRMWARE ----

// Exactly one of ELF or Raw may be set. Raw is a hex string loaded at
// address 0.
type FirmwareConfig struct {
	ELF string `yaml:"elf"`
	Raw string `yaml:"raw"`
}

// Load reads, parses, normalizes, and validates a board file.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read board file: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse board file %s: %w", path, err)
	}

	cfg.Normalize()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("board file %s: %w", path, err)
	}
	return &cfg, nil
}
