package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeBoardFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "board.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoad_MinimalBoardGetsDefaults(t *testing.T) {
	cfg, err := Load(writeBoardFile(t, `
board:
  model: atmega328
`))
	require.NoError(t, err)

	assert.Equal(t, "atmega328", cfg.Board.Model)
	assert.Equal(t, DefaultCycles, cfg.Board.Cycles)
	assert.Equal(t, "0", cfg.Board.UART.Channel)
	assert.True(t, cfg.Board.BridgeEnabled())
	assert.Equal(t, byte('0'), cfg.Board.ChannelByte())
	assert.Zero(t, cfg.Board.Frequency)
}

func TestLoad_FullBoard(t *testing.T) {
	cfg, err := Load(writeBoardFile(t, `
board:
  model: atmega2560
  frequency: 8000000
  cycles: 42
  uart:
    channel: "1"
    bridge: false
  firmware:
    raw: "68690a00"
  trace_db: trace.db
`))
	require.NoError(t, err)

	b := cfg.Board
	assert.Equal(t, uint32(8_000_000), b.Frequency)
	assert.Equal(t, 42, b.Cycles)
	assert.Equal(t, byte('1'), b.ChannelByte())
	assert.False(t, b.BridgeEnabled())
	assert.Equal(t, []byte("hi\n\x00"), b.RawBytes())
	assert.Equal(t, "trace.db", b.TraceDB)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "read board file")
}

func TestLoad_MalformedYAML(t *testing.T) {
	_, err := Load(writeBoardFile(t, "board: [not: a: mapping"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parse board file")
}

func TestValidate_Rejections(t *testing.T) {
	cases := []struct {
		name    string
		content string
		wantErr string
	}{
		{
			name:    "missing model",
			content: "board:\n  cycles: 5\n",
			wantErr: "board.model is required",
		},
		{
			name:    "negative cycles",
			content: "board:\n  model: atmega328\n  cycles: -1\n",
			wantErr: "board.cycles must not be negative",
		},
		{
			name:    "multi-byte channel",
			content: "board:\n  model: atmega328\n  uart:\n    channel: ab\n",
			wantErr: "single character",
		},
		{
			name: "elf and raw together",
			content: "board:\n  model: atmega328\n  firmware:\n" +
				"    elf: fw.elf\n    raw: \"00\"\n",
			wantErr: "mutually exclusive",
		},
		{
			name:    "raw not hex",
			content: "board:\n  model: atmega328\n  firmware:\n    raw: \"zz\"\n",
			wantErr: "not valid hex",
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Load(writeBoardFile(t, tc.content))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tc.wantErr)
		})
	}
}

func TestNormalize_KeepsExplicitValues(t *testing.T) {
	disabled := false
	cfg := Config{Board: BoardConfig{
		Model:  "atmega328",
		Cycles: 7,
		UART:   UARTConfig{Channel: "2", Bridge: &disabled},
	}}
	cfg.Normalize()

	assert.Equal(t, 7, cfg.Board.Cycles)
	assert.Equal(t, "2", cfg.Board.UART.Channel)
	assert.False(t, cfg.Board.BridgeEnabled())
}
