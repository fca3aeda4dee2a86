package avatar

import (
	"context"
	"errors"
	"os"
	"testing"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openRedis(t *testing.T) *redis.Client {
	t.Helper()
	addr := os.Getenv("MENSAPLAN_TEST_REDIS_ADDR")
	if addr == "" {
		t.Skip("MENSAPLAN_TEST_REDIS_ADDR is not set")
	}
	client := redis.NewClient(&redis.Options{Addr: addr})
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	require.NoError(t, client.Ping(ctx).Err())
	t.Cleanup(func() { _ = client.Close() })
	return client
}

func TestRedisBlobCache_ReadThrough(t *testing.T) {
	client := openRedis(t)
	ctx := context.Background()
	origin := &blobStub{blob: []byte("avatar-bytes")}
	prefix := "mensaplan:test:" + uuid.NewString() + ":"
	cache := NewRedisBlobCache(client, origin, prefix, time.Minute)

	first, err := cache.FetchBlob(ctx, "u1")
	require.NoError(t, err)
	second, err := cache.FetchBlob(ctx, "u1")
	require.NoError(t, err)

	assert.Equal(t, []byte("avatar-bytes"), first)
	assert.Equal(t, first, second)
	assert.Equal(t, 1, origin.calls)

	ttl, err := client.TTL(ctx, prefix+"u1").Result()
	require.NoError(t, err)
	assert.Greater(t, ttl, time.Duration(0))

	require.NoError(t, cache.Invalidate(ctx, "u1"))
	_, err = cache.FetchBlob(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, 2, origin.calls)

	require.NoError(t, cache.Invalidate(ctx, "u1"))
}

func TestRedisBlobCache_OriginFailureNotStored(t *testing.T) {
	client := openRedis(t)
	ctx := context.Background()
	origin := &blobStub{err: errors.New("cdn down")}
	prefix := "mensaplan:test:" + uuid.NewString() + ":"
	cache := NewRedisBlobCache(client, origin, prefix, time.Minute)

	_, err := cache.FetchBlob(ctx, "u1")
	require.Error(t, err)

	exists, err := client.Exists(ctx, prefix+"u1").Result()
	require.NoError(t, err)
	assert.Zero(t, exists)
}

func TestRedisBlobCache_UnreachableRedisFallsBackToOrigin(t *testing.T) {
	client := redis.NewClient(&redis.Options{Addr: "127.0.0.1:1", DialTimeout: 100 * time.Millisecond, MaxRetries: -1})
	t.Cleanup(func() { _ = client.Close() })
	origin := &blobStub{blob: []byte("avatar-bytes")}
	cache := NewRedisBlobCache(client, origin, "", 0)

	blob, err := cache.FetchBlob(context.Background(), "u1")
	require.NoError(t, err)
	assert.Equal(t, []byte("avatar-bytes"), blob)
	assert.Equal(t, 1, origin.calls)
}
