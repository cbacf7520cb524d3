package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// nopEngine is the minimal Engine used for registry tests.
type nopEngine struct {
	Engine
	model string
}

func (e *nopEngine) MMCU() string { return e.model }

func TestRegistry_NewConstructsRegisteredModel(t *testing.T) {
	Register("test-model-a", func(model string) Engine {
		return &nopEngine{model: model}
	})

	eng, err := New("test-model-a")
	require.NoError(t, err)
	assert.Equal(t, "test-model-a", eng.MMCU())
}

func TestRegistry_UnknownModel(t *testing.T) {
	_, err := New("no-such-model")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrUnknownModel)
	assert.Contains(t, err.Error(), "no-such-model")
}

func TestRegistry_ReRegisterReplaces(t *testing.T) {
	Register("test-model-b", func(model string) Engine {
		return &nopEngine{model: "first"}
	})
	Register("test-model-b", func(model string) Engine {
		return &nopEngine{model: "second"}
	})

	eng, err := New("test-model-b")
	require.NoError(t, err)
	assert.Equal(t, "second", eng.MMCU())
}

func TestRegistry_ModelsSorted(t *testing.T) {
	Register("test-model-z", func(model string) Engine { return &nopEngine{model: model} })
	Register("test-model-c", func(model string) Engine { return &nopEngine{model: model} })

	models := Models()
	assert.Contains(t, models, "test-model-c")
	assert.Contains(t, models, "test-model-z")
	assert.IsIncreasing(t, models)
}

func TestRegistry_NilFactoryPanics(t *testing.T) {
	assert.Panics(t, func() {
		Register("test-model-nil", nil)
	})
}
