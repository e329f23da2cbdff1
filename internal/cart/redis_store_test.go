package cart

import (
	"context"
	"testing"
	"time"

	"dinekart/internal/model"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupRedisStore(t *testing.T, ttl time.Duration) (*RedisStore, *miniredis.Miniredis) {
	t.Helper()

	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)

	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })

	return NewRedisStore(client, ttl, zerolog.Nop()), mr
}

func TestRedisStore_RoundTrip(t *testing.T) {
	ctx := context.Background()
	store, mr := setupRedisStore(t, time.Hour)

	empty, err := store.Load(ctx, "user:1")
	require.NoError(t, err)
	assert.True(t, empty.IsEmpty())

	c := New()
	c.AddItem(item("a", "12.50"))
	c.AddItem(item("a", "12.50"))
	c.AddItem(item("b", "4.99"))
	require.NoError(t, store.Save(ctx, "user:1", c))

	assert.True(t, mr.Exists("cart:user:1"))
	assert.Equal(t, time.Hour, mr.TTL("cart:user:1"))

	loaded, err := store.Load(ctx, "user:1")
	require.NoError(t, err)
	require.Len(t, loaded.Items, 2)
	assert.Equal(t, 2, loaded.Items[0].Quantity)
	assert.True(t, c.Total().Equal(loaded.Total()))
	assert.Equal(t, "a.jpg", loaded.Items[0].Image)
}

func TestRedisStore_EmptySaveDeletes(t *testing.T) {
	ctx := context.Background()
	store, mr := setupRedisStore(t, time.Hour)

	c := New()
	c.AddItem(item("a", "1"))
	require.NoError(t, store.Save(ctx, "session:s", c))
	require.True(t, mr.Exists("cart:session:s"))

	c.Clear()
	require.NoError(t, store.Save(ctx, "session:s", c))
	assert.False(t, mr.Exists("cart:session:s"))
}

func TestRedisStore_Expiry(t *testing.T) {
	ctx := context.Background()
	store, mr := setupRedisStore(t, time.Minute)

	c := New()
	c.AddItem(item("a", "1"))
	require.NoError(t, store.Save(ctx, "session:s", c))

	mr.FastForward(2 * time.Minute)

	loaded, err := store.Load(ctx, "session:s")
	require.NoError(t, err)
	assert.True(t, loaded.IsEmpty())
}

func TestRedisStore_CorruptSnapshot(t *testing.T) {
	ctx := context.Background()
	store, mr := setupRedisStore(t, time.Hour)

	require.NoError(t, mr.Set("cart:session:bad", "{not json"))

	loaded, err := store.Load(ctx, "session:bad")
	require.NoError(t, err)
	assert.True(t, loaded.IsEmpty())
}

func TestRedisStore_Unavailable(t *testing.T) {
	ctx := context.Background()
	store, mr := setupRedisStore(t, time.Hour)
	mr.Close()

	_, err := store.Load(ctx, "session:s")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to load cart")

	err = store.Save(ctx, "session:s", &Cart{Items: []model.CartItem{item("a", "1")}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to save cart")
}

func TestNewRedisClient(t *testing.T) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	defer mr.Close()

	client, err := NewRedisClient(context.Background(), "redis://"+mr.Addr()+"/0")
	require.NoError(t, err)
	defer client.Close()

	_, err = NewRedisClient(context.Background(), "not-a-url")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid redis URL")
}
