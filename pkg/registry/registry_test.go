package registry_test

import (
	"errors"
	"testing"

	"github.com/aretw0/trackable/pkg/domain"
	"github.com/aretw0/trackable/pkg/registry"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var event = domain.Mutation{Type: domain.MutationSet, Path: []string{"a"}, Value: 1}

func TestRegistry_OnceListener(t *testing.T) {
	r := registry.New()
	calls := 0
	l := domain.NewListener(func(domain.Mutation) error {
		calls++
		return nil
	})
	require.NoError(t, r.Add(l, true))

	require.NoError(t, r.Dispatch(event))
	require.NoError(t, r.Dispatch(event))
	assert.Equal(t, 1, calls)
	assert.Equal(t, 0, r.Len())
}

func TestRegistry_KeepListener(t *testing.T) {
	r := registry.New()
	calls := 0
	l := domain.NewListener(func(domain.Mutation) error {
		calls++
		if calls < 3 {
			return domain.KeepListener
		}
		return nil
	})
	require.NoError(t, r.Add(l, true))

	for i := 0; i < 5; i++ {
		require.NoError(t, r.Dispatch(event))
	}
	assert.Equal(t, 3, calls)
}

func TestRegistry_ReAddResetsOnceFlag(t *testing.T) {
	r := registry.New()
	calls := 0
	l := domain.NewListener(func(domain.Mutation) error {
		calls++
		return nil
	})
	require.NoError(t, r.Add(l, true))
	require.NoError(t, r.Add(l, false))
	assert.Equal(t, 1, r.Len())

	require.NoError(t, r.Dispatch(event))
	require.NoError(t, r.Dispatch(event))
	assert.Equal(t, 2, calls)
}

func TestRegistry_OnceListenerReAddedDuringOwnCall(t *testing.T) {
	r := registry.New()
	var self domain.Listener
	calls := 0
	self = domain.NewListener(func(domain.Mutation) error {
		calls++
		return r.Add(self, false)
	})
	require.NoError(t, r.Add(self, true))

	require.NoError(t, r.Dispatch(event))
	require.NoError(t, r.Dispatch(event))
	assert.Equal(t, 2, calls, "the fresh registration survives the once removal")
}

func TestRegistry_ErrorsAreJoined(t *testing.T) {
	r := registry.New()
	errA, errB := errors.New("a"), errors.New("b")
	calls := 0
	require.NoError(t, r.Add(domain.NewListener(func(domain.Mutation) error { return errA }), false))
	require.NoError(t, r.Add(domain.NewListener(func(domain.Mutation) error { calls++; return nil }), false))
	require.NoError(t, r.Add(domain.NewListener(func(domain.Mutation) error { return errB }), false))

	err := r.Dispatch(event)
	assert.ErrorIs(t, err, errA)
	assert.ErrorIs(t, err, errB)
	assert.Equal(t, 1, calls)
}

func TestRegistry_KeepIsNotAnError(t *testing.T) {
	r := registry.New()
	require.NoError(t, r.Add(domain.NewListener(func(domain.Mutation) error {
		return domain.KeepListener
	}), false))

	assert.NoError(t, r.Dispatch(event))
}

func TestRegistry_Clear(t *testing.T) {
	r := registry.New()
	require.NoError(t, r.Add(domain.NewListener(func(domain.Mutation) error { return nil }), false))
	r.Clear()
	assert.Equal(t, 0, r.Len())
	assert.NoError(t, r.Dispatch(event))
}

func TestRegistry_InvalidListener(t *testing.T) {
	r := registry.New()
	assert.ErrorIs(t, r.Add(nil, false), domain.ErrInvalidListener)
	r.Remove(nil)
	assert.Equal(t, 0, r.Len())
}
