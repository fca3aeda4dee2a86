package memory

import (
	"context"
	"errors"
	"image"
	"sync"

	"mensaplan/internal/app/ports"
	"mensaplan/internal/domain/plan"

	"golang.org/x/sync/singleflight"
)

// AvatarCache keeps decoded avatars for the lifetime of the process. Entries
// are only dropped through Invalidate.
//
// Concurrent misses for the same user share one fetch. A fetch that started
// before an Invalidate for the same user does not repopulate the cache.
type AvatarCache struct {
	Metrics ports.AvatarMetrics

	mu       sync.RWMutex
	images   map[string]image.Image
	inflight map[string]*flight
	group    singleflight.Group
}

// flight is a running fetch. Entries live only while the fetch runs.
type flight struct {
	stale bool
}

func NewAvatarCache() *AvatarCache {
	return &AvatarCache{
		images:   make(map[string]image.Image),
		inflight: make(map[string]*flight),
	}
}

func (c *AvatarCache) GetOrFetch(ctx context.Context, userID string, fetcher ports.AvatarFetcher) (image.Image, error) {
	c.mu.RLock()
	img, ok := c.images[userID]
	c.mu.RUnlock()
	if ok {
		c.recordHit()
		return img, nil
	}
	c.recordMiss()

	// The shared fetch outlives an abandoned caller so other waiters and the
	// cache still get its result.
	fetchCtx := context.WithoutCancel(ctx)
	ch := c.group.DoChan(userID, func() (any, error) {
		f := &flight{}
		c.mu.Lock()
		c.inflight[userID] = f
		c.mu.Unlock()

		img, err := fetcher.FetchAvatar(fetchCtx, userID)

		c.mu.Lock()
		defer c.mu.Unlock()
		if c.inflight[userID] == f {
			delete(c.inflight, userID)
		}
		if err != nil {
			return nil, err
		}
		if !f.stale {
			c.images[userID] = img
		}
		return img, nil
	})

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			c.recordFailure()
			var fetchErr *plan.FetchError
			if errors.As(res.Err, &fetchErr) {
				return nil, res.Err
			}
			return nil, &plan.FetchError{UserID: userID, Err: res.Err}
		}
		return res.Val.(image.Image), nil
	}
}

func (c *AvatarCache) Invalidate(_ context.Context, userID string) error {
	c.mu.Lock()
	delete(c.images, userID)
	if f, ok := c.inflight[userID]; ok {
		f.stale = true
		delete(c.inflight, userID)
	}
	c.mu.Unlock()
	c.group.Forget(userID)
	return nil
}

func (c *AvatarCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.images)
}

func (c *AvatarCache) recordHit() {
	if c.Metrics != nil {
		c.Metrics.RecordAvatarHit()
	}
}

func (c *AvatarCache) recordMiss() {
	if c.Metrics != nil {
		c.Metrics.RecordAvatarMiss()
	}
}

func (c *AvatarCache) recordFailure() {
	if c.Metrics != nil {
		c.Metrics.RecordAvatarFetchFailure()
	}
}
