package store

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dkeye/Poker/internal/core"
	"github.com/dkeye/Poker/internal/domain"
)

var (
	_ core.Store = (*Memory)(nil)
	_ core.Store = (*Redis)(nil)
	_ core.Store = (*SQLStore)(nil)
)

// fakeClock is advanced by tests; stores read it through now.
type fakeClock struct{ t time.Time }

func newFakeClock() *fakeClock { return &fakeClock{t: time.UnixMilli(1_700_000_000_000).UTC()} }
func (c *fakeClock) now() time.Time { return c.t }
func (c *fakeClock) advance(d time.Duration) { c.t = c.t.Add(d) }

func sampleRoom(id domain.RoomID) *domain.Room {
	five := domain.Vote("5")
	return &domain.Room{
		ID:   id,
		Name: "Sprint 1",
		Players: []domain.Player{
			{ID: "p1", Name: "Alice", Vote: &five},
			{ID: "p2", Name: "Carol", IsSpectator: true},
		},
		CreatedAt: time.UnixMilli(1_700_000_000_000).UTC(),
		Version:   3,
	}
}

// runStoreContract checks the behaviour every backend must share.
// advance moves the backend's notion of time forward.
func runStoreContract(t *testing.T, s core.Store, advance func(time.Duration)) {
	ctx := context.Background()

	t.Run("absent", func(t *testing.T) {
		_, ok, err := s.Get(ctx, "NOPE")
		require.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("put get round trip", func(t *testing.T) {
		want := sampleRoom("ROUND")
		require.NoError(t, s.Put(ctx, want, time.Hour))

		got, ok, err := s.Get(ctx, "ROUND")
		require.NoError(t, err)
		require.True(t, ok)
		assert.True(t, want.CreatedAt.Equal(got.CreatedAt))
		got.CreatedAt = want.CreatedAt
		assert.Equal(t, want, got)

		keys, err := s.Keys(ctx)
		require.NoError(t, err)
		assert.Contains(t, keys, domain.RoomID("ROUND"))
	})

	t.Run("put renews ttl", func(t *testing.T) {
		room := sampleRoom("TTL")
		require.NoError(t, s.Put(ctx, room, time.Minute))
		advance(50 * time.Second)
		require.NoError(t, s.Put(ctx, room, time.Minute))
		advance(50 * time.Second)

		_, ok, err := s.Get(ctx, "TTL")
		require.NoError(t, err)
		assert.True(t, ok, "ttl should have been renewed by the second put")

		advance(20 * time.Second)
		_, ok, err = s.Get(ctx, "TTL")
		require.NoError(t, err)
		assert.False(t, ok)

		keys, err := s.Keys(ctx)
		require.NoError(t, err)
		assert.NotContains(t, keys, domain.RoomID("TTL"))
	})

	t.Run("delete is idempotent", func(t *testing.T) {
		require.NoError(t, s.Put(ctx, sampleRoom("DEL"), time.Hour))
		require.NoError(t, s.Delete(ctx, "DEL"))
		require.NoError(t, s.Delete(ctx, "DEL"))

		_, ok, err := s.Get(ctx, "DEL")
		require.NoError(t, err)
		assert.False(t, ok)
	})
}

func TestMemoryStore(t *testing.T) {
	clock := newFakeClock()
	runStoreContract(t, NewMemory().WithClock(clock.now), clock.advance)
}

func TestMemoryStoreCopiesSnapshots(t *testing.T) {
	ctx := context.Background()
	s := NewMemory()
	room := sampleRoom("COPY")
	require.NoError(t, s.Put(ctx, room, 0))

	room.Players[0].Name = "changed after put"
	got, ok, err := s.Get(ctx, "COPY")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "Alice", got.Players[0].Name)

	got.Players = nil
	again, _, _ := s.Get(ctx, "COPY")
	assert.Len(t, again.Players, 2)
}
