package server

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/lloyd"
)

func buildSession(p sessionParams) func(string) (*lloyd.Session, error) {
	return func(string) (*lloyd.Session, error) {
		return lloyd.NewSession(p.K, p.Strategy, lloyd.WithMaxIterations(p.MaxIterations))
	}
}

func TestRegistry_Acquire(t *testing.T) {
	r := NewRegistry(time.Minute, 0)
	p := sessionParams{K: 2, Strategy: lloyd.StrategyRandom, MaxIterations: 10}

	e1, id, created, err := r.Acquire("", p, buildSession(p))
	require.NoError(t, err)
	assert.True(t, created)
	assert.NotEmpty(t, id)

	e2, id2, created, err := r.Acquire(id, p, buildSession(p))
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, id, id2)
	assert.Same(t, e1, e2)

	q := p
	q.MaxIterations = 20
	e3, id3, created, err := r.Acquire(id, q, buildSession(q))
	require.NoError(t, err)
	assert.True(t, created)
	assert.Equal(t, id, id3)
	assert.NotSame(t, e1, e3)
	assert.Equal(t, 20, e3.session.MaxIterations())
	assert.Equal(t, 1, r.Len())
}

func TestRegistry_BuildError(t *testing.T) {
	r := NewRegistry(time.Minute, 0)
	boom := errors.New("boom")

	_, _, _, err := r.Acquire("", sessionParams{}, func(string) (*lloyd.Session, error) { return nil, boom })
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, 0, r.Len())
}

func TestRegistry_Expiry(t *testing.T) {
	r := NewRegistry(20*time.Millisecond, 0)
	p := sessionParams{K: 1, Strategy: lloyd.StrategyRandom, MaxIterations: 1}

	_, id, _, err := r.Acquire("", p, buildSession(p))
	require.NoError(t, err)

	_, ok := r.Get(id)
	assert.True(t, ok)

	time.Sleep(40 * time.Millisecond)
	_, ok = r.Get(id)
	assert.False(t, ok)
	assert.False(t, r.Delete(id))
}
