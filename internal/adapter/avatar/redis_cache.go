package avatar

import (
	"context"
	"errors"
	"time"

	"mensaplan/internal/app/ports"

	"github.com/cloudwego/hertz/pkg/common/hlog"
	"github.com/go-redis/redis/v8"
)

const (
	DefaultKeyPrefix = "mensaplan:avatar:"
	DefaultBlobTTL   = 24 * time.Hour
)

// RedisBlobCache keeps downloaded avatar bytes in Redis so several instances
// share one download. Redis failures degrade to the origin.
type RedisBlobCache struct {
	client redis.Cmdable
	origin ports.AvatarBlobSource
	prefix string
	ttl    time.Duration
}

var (
	_ ports.AvatarBlobSource  = (*RedisBlobCache)(nil)
	_ ports.AvatarInvalidator = (*RedisBlobCache)(nil)
)

func NewRedisBlobCache(client redis.Cmdable, origin ports.AvatarBlobSource, prefix string, ttl time.Duration) *RedisBlobCache {
	if prefix == "" {
		prefix = DefaultKeyPrefix
	}
	if ttl <= 0 {
		ttl = DefaultBlobTTL
	}
	return &RedisBlobCache{client: client, origin: origin, prefix: prefix, ttl: ttl}
}

func (c *RedisBlobCache) FetchBlob(ctx context.Context, userID string) ([]byte, error) {
	key := c.key(userID)
	blob, err := c.client.Get(ctx, key).Bytes()
	if err == nil {
		return blob, nil
	}
	if !errors.Is(err, redis.Nil) {
		hlog.CtxWarnf(ctx, "redis get %s: %v", key, err)
	}

	blob, err = c.origin.FetchBlob(ctx, userID)
	if err != nil {
		return nil, err
	}
	if err := c.client.Set(ctx, key, blob, c.ttl).Err(); err != nil {
		hlog.CtxWarnf(ctx, "redis set %s: %v", key, err)
	}
	return blob, nil
}

func (c *RedisBlobCache) Invalidate(ctx context.Context, userID string) error {
	return c.client.Del(ctx, c.key(userID)).Err()
}

func (c *RedisBlobCache) key(userID string) string {
	return c.prefix + userID
}
