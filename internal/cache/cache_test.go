package cache

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestCache(t *testing.T) (*miniredis.Miniredis, *Cache) {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })
	return mr, New(rdb, "test", time.Minute)
}

func TestCache_AsideLoadsOnceThenHits(t *testing.T) {
	mr, c := newTestCache(t)
	ctx := context.Background()

	loads := 0
	load := func(dest *string) func() (bool, error) {
		return func() (bool, error) {
			loads++
			*dest = "acc-1"
			return true, nil
		}
	}

	var first string
	ok, err := c.Aside(ctx, UsernameKey("alice"), &first, load(&first))
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "acc-1", first)

	var second string
	ok, err = c.Aside(ctx, UsernameKey("alice"), &second, load(&second))
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "acc-1", second)
	assert.Equal(t, 1, loads)

	assert.Equal(t, time.Minute, mr.TTL("account:username:alice"))
}

func TestCache_AsideDoesNotCacheMisses(t *testing.T) {
	mr, c := newTestCache(t)

	var id string
	ok, err := c.Aside(context.Background(), UsernameKey("ghost"), &id, func() (bool, error) {
		return false, nil
	})
	require.NoError(t, err)
	assert.False(t, ok)
	assert.False(t, mr.Exists("account:username:ghost"))
}

func TestCache_AsidePropagatesLoadError(t *testing.T) {
	_, c := newTestCache(t)
	boom := errors.New("db down")

	var id string
	_, err := c.Aside(context.Background(), UsernameKey("alice"), &id, func() (bool, error) {
		return false, boom
	})
	assert.ErrorIs(t, err, boom)
}

func TestCache_AsideFallsBackWhenRedisFails(t *testing.T) {
	mr, c := newTestCache(t)
	mr.Close()

	var id string
	ok, err := c.Aside(context.Background(), UsernameKey("alice"), &id, func() (bool, error) {
		id = "acc-1"
		return true, nil
	})
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "acc-1", id)
}

func TestCache_NilIsPassThrough(t *testing.T) {
	var c *Cache

	var id string
	ok, err := c.Aside(context.Background(), "k", &id, func() (bool, error) {
		id = "v"
		return true, nil
	})
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "v", id)

	c.Invalidate(context.Background(), "k")
}

func TestCache_Invalidate(t *testing.T) {
	mr, c := newTestCache(t)
	ctx := context.Background()

	require.NoError(t, c.SetJSON(ctx, "k", "v"))
	assert.True(t, mr.Exists("k"))

	c.Invalidate(ctx, "k")
	assert.False(t, mr.Exists("k"))
}

func TestNewClient(t *testing.T) {
	client, err := NewClient("redis://localhost:6379/2")
	require.NoError(t, err)
	assert.Equal(t, 2, client.Options().DB)
	_ = client.Close()

	client, err = NewClient("localhost:6379")
	require.NoError(t, err)
	assert.Equal(t, "localhost:6379", client.Options().Addr)
	_ = client.Close()

	_, err = NewClient("redis://:bad url")
	assert.Error(t, err)
}

func TestConnect(t *testing.T) {
	assert.Nil(t, Connect(context.Background(), ""))

	mr := miniredis.RunT(t)
	client := Connect(context.Background(), mr.Addr())
	require.NotNil(t, client)
	_ = client.Close()
}
