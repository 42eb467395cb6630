package idempotency

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryStore_ReserveOncePerTTL(t *testing.T) {
	s := NewMemoryStore()
	defer s.Close()
	now := time.Date(2026, 10, 14, 12, 0, 0, 0, time.UTC)
	s.now = func() time.Time { return now }
	ctx := context.Background()

	ok, err := s.Reserve(ctx, "k", time.Minute)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, _ = s.Reserve(ctx, "k", time.Minute)
	assert.False(t, ok)

	now = now.Add(time.Minute)
	ok, _ = s.Reserve(ctx, "k", time.Minute)
	assert.True(t, ok, "ключ доступен после истечения ttl")

	require.NoError(t, s.Release(ctx, "k"))
	ok, _ = s.Reserve(ctx, "k", time.Minute)
	assert.True(t, ok)
}

func TestMemoryStore_Purge(t *testing.T) {
	s := NewMemoryStore()
	defer s.Close()
	now := time.Now()
	s.now = func() time.Time { return now }

	_, _ = s.Reserve(context.Background(), "old", time.Second)
	_, _ = s.Reserve(context.Background(), "fresh", time.Hour)
	now = now.Add(time.Minute)
	s.purge()

	assert.NotContains(t, s.keys, "old")
	assert.Contains(t, s.keys, "fresh")
}

func TestKey_ScopedByActorAndRoute(t *testing.T) {
	a, b := uuid.New(), uuid.New()
	route := "POST /api/offers/:id/transitions"

	assert.Equal(t, Key(a, route, " abc "), Key(a, route, "abc"))
	assert.NotEqual(t, Key(a, route, "abc"), Key(b, route, "abc"))
	assert.NotEqual(t, Key(a, route, "abc"), Key(a, "POST /api/bookings/:id/transitions", "abc"))
}

func TestOpen_FallsBackToMemory(t *testing.T) {
	store, closeFn := Open(context.Background(), "", "")
	defer closeFn()
	assert.IsType(t, &MemoryStore{}, store)

	// порт 1 закрыт, Ping падает сразу
	store, closeFn2 := Open(context.Background(), "127.0.0.1:1", "")
	defer closeFn2()
	assert.IsType(t, &MemoryStore{}, store)
}

func TestRedisStore_ReportsConnectionErrors(t *testing.T) {
	client := redis.NewClient(&redis.Options{Addr: "127.0.0.1:1", MaxRetries: -1, DialTimeout: 100 * time.Millisecond})
	defer client.Close()
	s := NewRedisStore(client)

	ok, err := s.Reserve(context.Background(), Key(uuid.New(), "r", "k"), time.Minute)
	assert.Error(t, err)
	assert.False(t, ok)
	assert.Error(t, s.Release(context.Background(), "k"))
}
