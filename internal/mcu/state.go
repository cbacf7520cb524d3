package mcu

import "fmt"

// State is the execution phase of a simulated MCU. It is a closed
// enumeration mirroring the engine's integer state codes 0..7.
type State int

const (
	// Limbo is the phase before initialization finishes.
	Limbo State = iota
	// Stopped means everything is halted, timers included.
	Stopped
	// Running means the simulation is running freely.
	Running
	// Sleeping means the MCU is asleep until an interrupt.
	Sleeping
	// Step runs one instruction.
	Step
	// StepDone reports a completed single step.
	StepDone
	// Done means the simulation stopped gracefully.
	Done
	// Crashed means the simulation crashed (watchdog fired).
	Crashed
)

// InitialState is the state of every freshly created handle.
const InitialState = Limbo

// StateFromCode maps an engine state code to a State. Codes outside 0..7
// violate the engine contract; the mapping panics rather than coercing a
// corrupted model.
func StateFromCode(code int) State {
	if code < int(Limbo) || code > int(Crashed) {
		panic(fmt.Sprintf("mcu: engine returned unknown state code %d", code))
	}
	return State(code)
}

// IsRunning reports whether the state represents a live simulation,
// regardless of success or failure. Stopped, Done, and Crashed are
// terminal; everything else, Limbo included, is live.
func (s State) IsRunning() bool {
	switch s {
	case Stopped, Done, Crashed:
		return false
	default:
		return true
	}
}

// String returns the state's name.
func (s State) String() string {
	switch s {
	case Limbo:
		return "limbo"
	case Stopped:
		return "stopped"
	case Running:
		return "running"
	case Sleeping:
		return "sleeping"
	case Step:
		return "step"
	case StepDone:
		return "step-done"
	case Done:
		return "done"
	case Crashed:
		return "crashed"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}
