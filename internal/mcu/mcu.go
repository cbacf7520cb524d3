package mcu

import (
	"fmt"
	"runtime/cgo"
	"unicode/utf8"

	"github.com/simkit/avrsim/internal/engine"
)

// DefaultFrequency is the clock frequency assigned to new handles, in Hz.
const DefaultFrequency uint32 = 16_000_000

// Flashable is anything that can be written into a handle's program
// memory. Effects are entirely inside engine memory; flashing the same
// handle repeatedly is last-write-wins for overlapping ranges.
type Flashable interface {
	Flash(m *MCU)
}

// MCU is a handle to one simulated microcontroller. It owns the engine
// instance and the Status record for its entire lifetime; see the
// package documentation for the ownership rules.
type MCU struct {
	eng    engine.Engine
	state  State
	status cgo.Handle
	closed bool
}

// New resolves a model name to an engine instance and wraps it in a
// handle. Returns an error wrapping engine.ErrUnknownModel if the engine
// cannot construct that model.
func New(model string) (*MCU, error) {
	eng, err := engine.New(model)
	if err != nil {
		return nil, fmt.Errorf("create mcu: %w", err)
	}
	return FromEngine(eng), nil
}

// FromEngine wraps an already-constructed engine instance. The handle
// takes sole ownership of the engine.
//
// Construction installs the process-wide diagnostic hook (idempotent;
// the engine API has a single global slot and the last registration
// wins), installs the reset callback, attaches a fresh Status record
// through the user-data slot, runs engine initialization, and applies
// DefaultFrequency. Engine initialization delivers the implicit startup
// reset, so a new handle observes PoweredOn=true with ResetCount=0.
func FromEngine(eng engine.Engine) *MCU {
	engine.SetLogger(diagnostics)

	m := &MCU{
		eng:   eng,
		state: InitialState,
	}
	eng.SetResetHook(m.onReset)

	// The slot holds a non-owning alias to the Status allocation; the
	// handle keeps the owning reference and reclaims it in Close.
	m.status = cgo.NewHandle(&Status{})
	eng.SetUserData(uintptr(m.status))

	eng.Init()
	m.SetFrequency(DefaultFrequency)
	return m
}

// onReset runs inside every engine reset signal, including the implicit
// startup reset. The first signal marks the MCU powered on; every later
// one counts as a user-visible reset.
func (m *MCU) onReset() {
	status := statusFromSlot(m.eng)
	if !status.PoweredOn {
		status.PoweredOn = true
	} else {
		status.ResetCount++
	}
}

// Reset signals the engine to reset. The reset callback fires
// synchronously within this call.
func (m *MCU) Reset() {
	m.eng.Reset()
}

// Terminate signals the engine to shut down. The handle must not be used
// for Run or Reset afterward; that is the caller's responsibility.
func (m *MCU) Terminate() {
	m.eng.Terminate()
}

// RunCycle advances the engine by one scheduling unit and returns the
// resulting state. Panics if the engine reports a state code outside
// 0..7.
func (m *MCU) RunCycle() State {
	m.state = StateFromCode(m.eng.Run())
	return m.state
}

// Flash writes a loadable into the handle's program memory.
func (m *MCU) Flash(f Flashable) {
	f.Flash(m)
}

// Status returns the handle's side-channel status record. The returned
// pointer stays valid, and its address stable, until Close.
func (m *MCU) Status() *Status {
	return statusFromSlot(m.eng)
}

// State returns the last state observed from a run cycle.
func (m *MCU) State() State {
	return m.state
}

// Name returns the model name of the simulated MCU. Engine-provided
// names are ASCII by construction; anything that is not valid UTF-8
// breaks that contract and panics.
func (m *MCU) Name() string {
	name := m.eng.MMCU()
	if !utf8.ValidString(name) {
		panic(fmt.Sprintf("mcu: engine model name is not valid utf-8: %q", name))
	}
	return name
}

// Frequency returns the simulated clock frequency in Hz.
func (m *MCU) Frequency() uint32 {
	return m.eng.Frequency()
}

// SetFrequency sets the simulated clock frequency in Hz.
func (m *MCU) SetFrequency(hz uint32) {
	m.eng.SetFrequency(hz)
}

// Engine exposes the underlying engine instance for collaborators that
// extend the harness (firmware loaders, peripheral bridges). The handle
// remains the owner.
func (m *MCU) Engine() engine.Engine {
	return m.eng
}

// Close reclaims the Status allocation exactly once and releases the
// engine instance. Closing an already-closed handle is a no-op. After
// Close the handle must not be used.
func (m *MCU) Close() error {
	if m.closed {
		return nil
	}
	m.closed = true
	m.status.Delete()
	m.eng = nil
	return nil
}

// statusFromSlot recovers the live Status record through the engine's
// opaque user-data slot. The reconstructed view is non-owning: it never
// frees, and Close remains the single point of reclamation.
func statusFromSlot(eng engine.Engine) *Status {
	return cgo.Handle(eng.UserData()).Value().(*Status)
}
