package state

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMemoryStore(t *testing.T) *Store {
	t.Helper()
	s, err := NewStore(NewMemoryBackend())
	require.NoError(t, err)
	return s
}

func TestNewStoreRejectsNilBackend(t *testing.T) {
	_, err := NewStore(nil)
	assert.ErrorIs(t, err, ErrNilBackend)
}

func TestStoreTakeConsumesState(t *testing.T) {
	ctx := context.Background()
	s := newMemoryStore(t)

	require.NoError(t, s.Set(ctx, 1, "awaiting_amount:BYN_USD"))

	got, err := s.Get(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, State("awaiting_amount:BYN_USD"), got)

	got, err = s.Take(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, State("awaiting_amount:BYN_USD"), got)

	got, err = s.Take(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, StateIdle, got)
}

func TestStoreSetOverwritesAndIsolatesUsers(t *testing.T) {
	ctx := context.Background()
	s := newMemoryStore(t)

	require.NoError(t, s.Set(ctx, 1, "a"))
	require.NoError(t, s.Set(ctx, 1, "b"))
	require.NoError(t, s.Set(ctx, 2, "c"))

	got, err := s.Take(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, State("b"), got)

	got, err = s.Get(ctx, 2)
	require.NoError(t, err)
	assert.Equal(t, State("c"), got)
}

func TestStoreClearAndIdle(t *testing.T) {
	ctx := context.Background()
	s := newMemoryStore(t)

	require.NoError(t, s.Clear(ctx, 5))
	require.NoError(t, s.Set(ctx, 5, "x"))
	require.NoError(t, s.Set(ctx, 5, StateIdle))

	got, err := s.Get(ctx, 5)
	require.NoError(t, err)
	assert.Equal(t, StateIdle, got)
}

func TestStoreTakeIsExclusive(t *testing.T) {
	ctx := context.Background()
	s := newMemoryStore(t)
	require.NoError(t, s.Set(ctx, 9, "once"))

	var (
		wg   sync.WaitGroup
		mu   sync.Mutex
		hits int
	)
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			st, err := s.Take(ctx, 9)
			if err == nil && st == "once" {
				mu.Lock()
				hits++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()
	assert.Equal(t, 1, hits)
}

type failingBackend struct{ err error }

func (f failingBackend) Load(context.Context, int64) (State, bool, error) {
	return StateIdle, false, f.err
}
func (f failingBackend) Save(context.Context, int64, State) error { return f.err }
func (f failingBackend) Delete(context.Context, int64) error      { return f.err }
func (f failingBackend) Take(context.Context, int64) (State, bool, error) {
	return StateIdle, false, f.err
}

func TestStoreWrapsBackendErrors(t *testing.T) {
	ctx := context.Background()
	boom := errors.New("boom")
	s, err := NewStore(failingBackend{err: boom})
	require.NoError(t, err)

	assert.ErrorIs(t, s.Set(ctx, 1, "x"), boom)
	assert.ErrorIs(t, s.Clear(ctx, 1), boom)

	st, err := s.Take(ctx, 1)
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, StateIdle, st)

	_, err = s.Get(ctx, 1)
	assert.ErrorIs(t, err, boom)
}
