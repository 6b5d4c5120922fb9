package store

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBadger_InMemorySetGet(t *testing.T) {
	s, err := NewBadgerStore(BadgerConfig{InMemory: true})
	require.NoError(t, err)
	defer s.Close()
	ctx := context.Background()

	_, ok, err := s.Get(ctx, TaskListKey)
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, s.Set(ctx, TaskListKey, "value"))
	value, ok, err := s.Get(ctx, TaskListKey)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "value", value)
}

func TestBadger_PersistsAcrossReopen(t *testing.T) {
	dir := t.TempDir()
	ctx := context.Background()

	s1, err := NewBadgerStore(BadgerConfig{Dir: dir, SyncWrites: true, GCInterval: time.Hour})
	require.NoError(t, err)
	require.NoError(t, s1.Set(ctx, TaskListKey, "persistent"))
	require.NoError(t, s1.Close())

	s2, err := NewBadgerStore(BadgerConfig{Dir: dir})
	require.NoError(t, err)
	defer s2.Close()

	value, ok, err := s2.Get(ctx, TaskListKey)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "persistent", value)
}

func TestBadger_RequiresDir(t *testing.T) {
	_, err := NewBadgerStore(BadgerConfig{})
	assert.ErrorContains(t, err, "badger dir is required")
}

func TestBadger_CancelledContext(t *testing.T) {
	s, err := NewBadgerStore(BadgerConfig{InMemory: true})
	require.NoError(t, err)
	defer s.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	assert.ErrorIs(t, s.Set(ctx, TaskListKey, "x"), context.Canceled)
	_, _, err = s.Get(ctx, TaskListKey)
	assert.ErrorIs(t, err, context.Canceled)
}
