package engine

import (
	"errors"
	"fmt"
	"sort"
	"sync"
)

// ErrUnknownModel is returned by New when no registered engine can
// construct the requested model.
var ErrUnknownModel = errors.New("unknown mcu model")

// Engine is the fixed call surface of an MCU simulation engine.
//
// An Engine instance simulates exactly one MCU. Instances are not
// shareable: the harness handle that created one is its sole owner.
//
// The user-data slot (SetUserData / UserData) is an opaque word the
// engine stores but never interprets. The harness threads its own
// side-channel state through it, C-style; see internal/mcu.
type Engine interface {
	// Init runs engine initialization. It delivers the implicit startup
	// reset signal through the installed reset hook.
	Init()

	// Reset signals the MCU to reset. The reset hook fires synchronously
	// within this call.
	Reset()

	// Terminate shuts the simulation down. Run and Reset must not be
	// called afterward.
	Terminate()

	// Run advances the simulation by one scheduling unit and returns the
	// resulting state code (0..7).
	Run() int

	// LoadFirmware writes a parsed executable image into program memory.
	LoadFirmware(img *Image)

	// LoadRaw writes bytes directly into program memory at addr. No
	// format validation is performed.
	LoadRaw(code []byte, addr uint32)

	// AllocIRQ allocates a pool of named interrupt lines owned by the
	// caller. Lines are indexed positionally in the order given.
	AllocIRQ(names []string) []*IRQ

	// IOIRQ resolves an engine-side interrupt line by peripheral
	// device-control code and positional index. Returns nil if the
	// peripheral or line does not exist.
	IOIRQ(ctl uint32, index int) *IRQ

	// Ioctl issues a device-control request. The 32-bit code selects the
	// operation (see internal/ioctl); val is read or written depending on
	// the operation. Returns a negative value if the code is unsupported.
	Ioctl(code uint32, val *uint32) int

	// SetResetHook installs the callback invoked on every reset signal,
	// including the implicit one delivered by Init.
	SetResetHook(fn func())

	// SetUserData stores an opaque word in the engine's user-data slot.
	SetUserData(p uintptr)

	// UserData returns the word last stored with SetUserData.
	UserData() uintptr

	// MMCU returns the model name of the simulated MCU.
	MMCU() string

	// Frequency returns the simulated clock frequency in Hz.
	Frequency() uint32

	// SetFrequency sets the simulated clock frequency in Hz.
	SetFrequency(hz uint32)
}

// Factory constructs an engine instance for a model name.
type Factory func(model string) Engine

var (
	registryMu sync.RWMutex
	registry   = make(map[string]Factory)
)

// Register makes a model name constructible through New. Registering the
// same name again replaces the previous factory; engine packages call
// Register from their setup paths, which may run more than once.
func Register(model string, factory Factory) {
	if factory == nil {
		panic("engine: Register with nil factory")
	}
	registryMu.Lock()
	defer registryMu.Unlock()
	registry[model] = factory
}

// New constructs an engine for the given model name.
// Returns ErrUnknownModel if no factory is registered for it.
func New(model string) (Engine, error) {
	registryMu.RLock()
	factory, ok := registry[model]
	registryMu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownModel, model)
	}
	return factory(model), nil
}

// Models returns the registered model names in sorted order.
func Models() []string {
	registryMu.RLock()
	defer registryMu.RUnlock()
	models := make([]string, 0, len(registry))
	for name := range registry {
		models = append(models, name)
	}
	sort.Strings(models)
	return models
}
