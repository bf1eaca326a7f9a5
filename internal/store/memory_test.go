package store

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cthoyt/pyrdle/internal/game"
	"github.com/cthoyt/pyrdle/internal/words"
)

func newSession(t *testing.T) *Session {
	t.Helper()
	c, err := words.NewCorpus(5, "en", []string{"crane", "trace"})
	require.NoError(t, err)
	g, err := game.New(c, 6, game.WithSecret("crane"))
	require.NoError(t, err)
	return &Session{Game: g}
}

func TestMemory_SaveGet(t *testing.T) {
	m := NewMemoryStore(0)
	ctx := context.Background()
	s := newSession(t)
	require.NoError(t, m.Save(ctx, s))

	got, unlock, err := m.Get(ctx, s.Game.ID)
	require.NoError(t, err)
	assert.Same(t, s, got)
	unlock()

	_, _, err = m.Get(ctx, "missing")
	assert.ErrorIs(t, err, ErrNotFound)

	assert.Error(t, m.Save(ctx, &Session{}))
}

func TestMemory_Sweep(t *testing.T) {
	m := NewMemoryStore(time.Minute)
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	m.now = func() time.Time { return now }
	ctx := context.Background()

	old, fresh := newSession(t), newSession(t)
	require.NoError(t, m.Save(ctx, old))
	now = now.Add(50 * time.Second)
	require.NoError(t, m.Save(ctx, fresh))
	now = now.Add(20 * time.Second)

	assert.Equal(t, 1, m.Sweep())
	assert.Equal(t, 1, m.Len())
	_, _, err := m.Get(ctx, old.Game.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMemory_NoTTL(t *testing.T) {
	m := NewMemoryStore(0)
	require.NoError(t, m.Save(context.Background(), newSession(t)))
	assert.Zero(t, m.Sweep())
	assert.Equal(t, 1, m.Len())
}

func TestMemory_SweepDropsDailyMetadata(t *testing.T) {
	m := NewMemoryStore(time.Minute)
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	m.now = func() time.Time { return now }
	ctx := context.Background()

	ids := make([]string, 0, 50)
	for i := range 50 {
		s := newSession(t)
		s.Daily = &Daily{Date: "2026-01-01", Index: i}
		require.NoError(t, m.Save(ctx, s))
		ids = append(ids, s.Game.ID)
	}
	now = now.Add(2 * time.Minute)

	assert.Equal(t, 50, m.Sweep())
	assert.Zero(t, m.Len())
	for _, id := range ids {
		_, _, err := m.Get(ctx, id)
		assert.ErrorIs(t, err, ErrNotFound)
	}
}

func TestMemory_SweepSkipsLockedSession(t *testing.T) {
	m := NewMemoryStore(time.Minute)
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	m.now = func() time.Time { return now }
	ctx := context.Background()

	s := newSession(t)
	require.NoError(t, m.Save(ctx, s))
	_, unlock, err := m.Get(ctx, s.Game.ID)
	require.NoError(t, err)
	now = now.Add(2 * time.Minute)

	assert.Zero(t, m.Sweep())
	unlock()
	assert.Equal(t, 1, m.Sweep())
}
