package mcu

// Status is the side-channel record tracked per handle. The engine's
// reset callback updates it.
type Status struct {
	// PoweredOn is false only before the very first reset signal (the
	// implicit startup reset delivered by engine initialization).
	PoweredOn bool
	// ResetCount is the number of reset signals after the first.
	ResetCount uint64
}

// HasReset reports whether the MCU has been reset after it first
// started. The implicit startup reset does not count.
func (s *Status) HasReset() bool {
	return s.ResetCount > 0
}
