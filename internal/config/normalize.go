package config

// DefaultCycles is the run budget applied when the board file leaves
// cycles unset.
const DefaultCycles = 10_000

// Normalize fills unset fields with defaults. Runs before Validate.
func (c *Config) Normalize() {
	b := &c.Board
	if b.Cycles == 0 {
		b.Cycles = DefaultCycles
	}
	if b.UART.Channel == "" {
		b.UART.Channel = "0"
	}
	if b.UART.Bridge == nil {
		enabled := true
		b.UART.Bridge = &enabled
	}
}

// BridgeEnabled reports whether the UART bridge should be attached.
func (b *BoardConfig) BridgeEnabled() bool {
	return b.UART.Bridge == nil || *b.UART.Bridge
}

// ChannelByte returns the UART channel name byte. Call Validate first;
// it guarantees the channel is a single byte.
func (b *BoardConfig) ChannelByte() byte {
	return b.UART.Channel[0]
}
