// Package scripted provides a reference implementation of the engine call
// surface that runs without an instruction emulator.
//
// The scripted engine interprets program memory as a literal UART
// transmit script: each Run call emits the next flash byte on the UART
// output line until it reaches a NUL byte or the end of the programmed
// region, then reports the simulation done. That is not emulation, but it
// exercises every harness path: lifecycle, reset signalling, firmware
// loading, IRQ wiring, device control, and logging.
//
// The self-test command and the test suite use this engine. Production
// callers are expected to register a real engine instead.
package scripted

import (
	"io"
	"sync"

	"github.com/simkit/avrsim/internal/engine"
	"github.com/simkit/avrsim/internal/ioctl"
)

// Models the scripted engine can stand in for.
var models = []string{"atmega328", "atmega328p", "atmega2560"}

// flashSize is the size of the simulated program memory.
const flashSize = 64 * 1024

const uartChannel = '0'

var _ engine.Engine = (*Engine)(nil)

// Engine state codes, mirroring the 0..7 contract.
const (
	codeLimbo    = 0
	codeStopped  = 1
	codeRunning  = 2
	codeSleeping = 3
	codeStep     = 4
	codeStepDone = 5
	codeDone     = 6
	codeCrashed  = 7
)

// Engine is a scripted MCU simulation engine.
type Engine struct {
	model     string
	freq      uint32
	flash     []byte
	progEnd   int
	pc        int
	script    []int
	resetHook func()
	userData  uintptr

	uartFlags uint32
	uartIn    *engine.IRQ
	uartOut   *engine.IRQ
	console   io.Writer

	terminated bool
}

// Option configures a scripted engine.
type Option func(*Engine)

// WithScript forces Run to return the given state codes in order before
// falling back to the default transmit behavior. Used by tests to drive
// the harness through arbitrary state sequences.
func WithScript(codes ...int) Option {
	return func(e *Engine) {
		e.script = append(e.script, codes...)
	}
}

// WithConsole sets the writer backing the engine's built-in UART console
// echo. The echo is active while the stdio flag is set on the channel;
// it defaults to io.Discard.
func WithConsole(w io.Writer) Option {
	return func(e *Engine) {
		e.console = w
	}
}

// New constructs a scripted engine for the given model name.
func New(model string, opts ...Option) *Engine {
	uartIRQs := engine.NewIRQPool([]string{"uart0.in", "uart0.out"})
	e := &Engine{
		model:     model,
		flash:     make([]byte, flashSize),
		uartFlags: engine.UARTFlagStdio,
		uartIn:    uartIRQs[engine.UARTIRQInput],
		uartOut:   uartIRQs[engine.UARTIRQOutput],
		console:   io.Discard,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

var registerOnce sync.Once

// Register announces the scripted models to the engine registry.
// Safe to call more than once.
func Register() {
	registerOnce.Do(func() {
		for _, model := range models {
			engine.Register(model, func(model string) engine.Engine {
				return New(model)
			})
		}
	})
}

// Init delivers the implicit startup reset.
func (e *Engine) Init() {
	engine.Logf(engine.LogDebug, "scripted engine init: model=%s", e.model)
	e.fireReset()
}

// Reset restarts the transmit program and fires the reset hook.
func (e *Engine) Reset() {
	e.pc = 0
	e.fireReset()
}

// Terminate stops the simulation.
func (e *Engine) Terminate() {
	e.terminated = true
}

// Run advances by one scheduling unit: one scripted state code if a
// script is pending, otherwise one transmitted byte.
func (e *Engine) Run() int {
	if e.terminated {
		return codeStopped
	}
	if len(e.script) > 0 {
		code := e.script[0]
		e.script = e.script[1:]
		return code
	}
	if e.progEnd == 0 {
		// Nothing flashed; spin in place.
		return codeRunning
	}
	if e.pc >= e.progEnd {
		return codeDone
	}
	b := e.flash[e.pc]
	e.pc++
	if b == 0 {
		return codeDone
	}
	e.uartOut.Raise(uint32(b))
	if e.uartFlags&engine.UARTFlagStdio != 0 {
		e.console.Write([]byte{b})
	}
	return codeRunning
}

// LoadFirmware copies every image segment into program memory.
func (e *Engine) LoadFirmware(img *engine.Image) {
	for _, seg := range img.Segments {
		e.LoadRaw(seg.Data, seg.Addr)
	}
}

// LoadRaw copies code into program memory at addr. Data past the end of
// flash is dropped with a warning; AVR images routinely carry segments at
// load addresses outside flash (eeprom sections at LMA 0x810000).
func (e *Engine) LoadRaw(code []byte, addr uint32) {
	if int(addr) >= len(e.flash) {
		engine.Logf(engine.LogWarning, "segment at 0x%x lies past end of flash, skipped", addr)
		return
	}
	end := int(addr) + len(code)
	if end > len(e.flash) {
		engine.Logf(engine.LogWarning, "program truncated: %d bytes past end of flash", end-len(e.flash))
		end = len(e.flash)
		code = code[:end-int(addr)]
	}
	copy(e.flash[addr:], code)
	if end > e.progEnd {
		e.progEnd = end
	}
}

// AllocIRQ allocates a caller-owned pool of named lines.
func (e *Engine) AllocIRQ(names []string) []*engine.IRQ {
	return engine.NewIRQPool(names)
}

// IOIRQ resolves the UART channel's lines; everything else is nil.
func (e *Engine) IOIRQ(ctl uint32, index int) *engine.IRQ {
	if ctl != ioctl.UART(uartChannel) {
		return nil
	}
	switch index {
	case engine.UARTIRQInput:
		return e.uartIn
	case engine.UARTIRQOutput:
		return e.uartOut
	default:
		return nil
	}
}

// Ioctl supports the UART get/set-flags requests on channel '0'.
func (e *Engine) Ioctl(code uint32, val *uint32) int {
	switch code {
	case ioctl.UARTGetFlags(uartChannel):
		*val = e.uartFlags
		return 0
	case ioctl.UARTSetFlags(uartChannel):
		e.uartFlags = *val
		return 0
	default:
		engine.Logf(engine.LogDebug, "unsupported ioctl: 0x%08x", code)
		return -1
	}
}

// SetResetHook installs the reset callback.
func (e *Engine) SetResetHook(fn func()) { e.resetHook = fn }

// SetUserData stores the opaque user-data word.
func (e *Engine) SetUserData(p uintptr) { e.userData = p }

// UserData returns the opaque user-data word.
func (e *Engine) UserData() uintptr { return e.userData }

// MMCU returns the model name.
func (e *Engine) MMCU() string { return e.model }

// Frequency returns the clock frequency in Hz.
func (e *Engine) Frequency() uint32 { return e.freq }

// SetFrequency sets the clock frequency in Hz.
func (e *Engine) SetFrequency(hz uint32) { e.freq = hz }

// Flash exposes program memory for inspection in tests.
func (e *Engine) Flash() []byte { return e.flash }

func (e *Engine) fireReset() {
	if e.resetHook != nil {
		e.resetHook()
	}
}
