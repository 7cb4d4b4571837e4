package session

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	testRedis "github.com/testcontainers/testcontainers-go/modules/redis"

	"lacasa/internal/cart"
)

// exerciseStore checks the behaviour every Store must share.
func exerciseStore(t *testing.T, store Store) {
	ctx := context.Background()

	_, err := store.Load(ctx, "nobody")
	assert.ErrorIs(t, err, ErrNotFound)

	sess, err := store.Update(ctx, "sid-1", func(s *Session) error {
		s.Screen = ScreenMenu
		s.Cart = cart.Apply(s.Cart, cart.AddItem{Item: cart.LineItem{ProductID: "per1", Name: "Sencillo", Price: 8000, Quantity: 1}})
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, ScreenMenu, sess.Screen)

	loaded, err := store.Load(ctx, "sid-1")
	require.NoError(t, err)
	assert.Equal(t, sess, loaded)

	boom := errors.New("boom")
	_, err = store.Update(ctx, "sid-1", func(s *Session) error {
		s.Screen = ScreenHome
		return boom
	})
	assert.ErrorIs(t, err, boom)
	loaded, err = store.Load(ctx, "sid-1")
	require.NoError(t, err)
	assert.Equal(t, ScreenMenu, loaded.Screen, "failed update must not be saved")

	_, err = store.Load(ctx, "sid-2")
	assert.ErrorIs(t, err, ErrNotFound, "sessions are isolated")

	var wg sync.WaitGroup
	for n := 0; n < 20; n++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := store.Update(ctx, "sid-1", func(s *Session) error {
				s.Cart = cart.Apply(s.Cart, cart.AddItem{Item: cart.LineItem{ProductID: "per1", Name: "Sencillo", Price: 8000, Quantity: 1}})
				return nil
			})
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	loaded, err = store.Load(ctx, "sid-1")
	require.NoError(t, err)
	assert.Equal(t, 21, cart.ItemCount(loaded.Cart))
}

func TestMemoryStore(t *testing.T) {
	exerciseStore(t, NewMemoryStore(time.Hour))
}

func TestMemoryStore_CallerCannotMutateStoredSession(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore(0)

	sess, err := store.Update(ctx, "a", func(s *Session) error {
		s.Picker.Flavors = []string{"Mixta"}
		return nil
	})
	require.NoError(t, err)
	sess.Picker.Flavors[0] = "Ranchera"

	loaded, err := store.Load(ctx, "a")
	require.NoError(t, err)
	assert.Equal(t, []string{"Mixta"}, loaded.Picker.Flavors)
}

func TestMemoryStore_Expiry(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)
	store := NewMemoryStore(time.Minute)
	store.now = func() time.Time { return now }

	_, err := store.Update(ctx, "old", func(s *Session) error { return nil })
	require.NoError(t, err)
	assert.Equal(t, 1, store.Len())

	now = now.Add(2 * time.Minute)
	_, err = store.Load(ctx, "old")
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = store.Update(ctx, "new", func(s *Session) error { return nil })
	require.NoError(t, err)
	assert.Equal(t, 1, store.Len())
}

func TestMemoryStore_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := NewMemoryStore(0).Update(ctx, "a", func(s *Session) error { return nil })
	assert.ErrorIs(t, err, context.Canceled)
}

func TestRedisStore(t *testing.T) {
	if testing.Short() {
		t.Skip("redis container test skipped in short mode")
	}
	ctx := context.Background()

	container, err := testRedis.Run(ctx, "redis:7.4.2-alpine3.21")
	if err != nil {
		t.Skipf("redis container unavailable: %s", err)
	}
	t.Cleanup(func() {
		if err := container.Terminate(ctx); err != nil {
			t.Errorf("failed to terminate container: %s", err)
		}
	})

	connStr, err := container.ConnectionString(ctx)
	require.NoError(t, err)
	opt, err := redis.ParseURL(connStr)
	require.NoError(t, err)
	client := redis.NewClient(opt)
	t.Cleanup(func() { client.Close() })
	require.NoError(t, client.Ping(ctx).Err())

	store := NewRedisStore(client, time.Hour)
	exerciseStore(t, store)

	ttl, err := client.TTL(ctx, redisKey("sid-1")).Result()
	require.NoError(t, err)
	assert.Greater(t, ttl, time.Duration(0))
}
