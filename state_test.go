package lloyd

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestState_Text(t *testing.T) {
	for _, st := range []State{StateUninitialized, StateRunning, StateConverged, StateExhausted} {
		b, err := json.Marshal(st)
		require.NoError(t, err)

		var got State
		require.NoError(t, json.Unmarshal(b, &got))
		assert.Equal(t, st, got)
	}

	var s State
	assert.Error(t, s.UnmarshalText([]byte("sleeping")))
	assert.Equal(t, "Unknown(9)", State(9).String())
}

func TestState_Terminal(t *testing.T) {
	assert.False(t, StateUninitialized.Terminal())
	assert.False(t, StateRunning.Terminal())
	assert.True(t, StateConverged.Terminal())
	assert.True(t, StateExhausted.Terminal())
}
