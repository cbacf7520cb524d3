package mcu

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStateFromCode_TotalOverContract(t *testing.T) {
	expected := []State{Limbo, Stopped, Running, Sleeping, Step, StepDone, Done, Crashed}
	for code, want := range expected {
		assert.Equal(t, want, StateFromCode(code), "code %d", code)
	}
}

func TestStateFromCode_PanicsOutsideContract(t *testing.T) {
	assert.Panics(t, func() { StateFromCode(8) })
	assert.Panics(t, func() { StateFromCode(-1) })
	assert.Panics(t, func() { StateFromCode(255) })
}

func TestState_IsRunning(t *testing.T) {
	running := []State{Limbo, Running, Sleeping, Step, StepDone}
	for _, s := range running {
		assert.True(t, s.IsRunning(), "%s should be live", s)
	}

	terminal := []State{Stopped, Done, Crashed}
	for _, s := range terminal {
		assert.False(t, s.IsRunning(), "%s should be terminal", s)
	}
}

func TestState_InitialIsLimbo(t *testing.T) {
	assert.Equal(t, Limbo, InitialState)
}

func TestState_String(t *testing.T) {
	assert.Equal(t, "limbo", Limbo.String())
	assert.Equal(t, "step-done", StepDone.String())
	assert.Equal(t, "crashed", Crashed.String())
	assert.Equal(t, "state(99)", State(99).String())
}
