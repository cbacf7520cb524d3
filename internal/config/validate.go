package config

import (
	"encoding/hex"
	"errors"
	"fmt"
)

// Validate checks a normalized config for caller errors.
func (c *Config) Validate() error {
	b := &c.Board

	if b.Model == "" {
		return errors.New("board.model is required")
	}
	if b.Cycles < 0 {
		return fmt.Errorf("board.cycles must not be negative, got %d", b.Cycles)
	}
	if len(b.UART.Channel) != 1 {
		return fmt.Errorf("board.uart.channel must be a single character, got %q", b.UART.Channel)
	}

	if b.Firmware.ELF != "" && b.Firmware.Raw != "" {
		return errors.New("board.firmware: elf and raw are mutually exclusive")
	}
	if b.Firmware.Raw != "" {
		if _, err := hex.DecodeString(b.Firmware.Raw); err != nil {
			return fmt.Errorf("board.firmware.raw is not valid hex: %w", err)
		}
	}

	return nil
}

// RawBytes decodes the raw firmware hex string. Call Validate first.
func (b *BoardConfig) RawBytes() []byte {
	data, err := hex.DecodeString(b.Firmware.Raw)
	if err != nil {
		// Validate guarantees well-formed hex.
		panic(fmt.Sprintf("config: raw firmware not validated: %v", err))
	}
	return data
}
