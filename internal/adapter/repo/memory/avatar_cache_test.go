package memory

import (
	"context"
	"errors"
	"fmt"
	"image"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"mensaplan/internal/app/ports"
	"mensaplan/internal/domain/plan"
)

type countingFetcher struct {
	calls atomic.Int32
	err   error
	gate  chan struct{}
}

func (f *countingFetcher) FetchAvatar(_ context.Context, _ string) (image.Image, error) {
	f.calls.Add(1)
	if f.gate != nil {
		<-f.gate
	}
	if f.err != nil {
		return nil, f.err
	}
	return image.NewRGBA(image.Rect(0, 0, 4, 4)), nil
}

type avatarMetricsSpy struct {
	hits, misses, failures atomic.Int32
}

func (m *avatarMetricsSpy) RecordAvatarHit()          { m.hits.Add(1) }
func (m *avatarMetricsSpy) RecordAvatarMiss()         { m.misses.Add(1) }
func (m *avatarMetricsSpy) RecordAvatarFetchFailure() { m.failures.Add(1) }

func TestAvatarCache_FetchesOnceThenHits(t *testing.T) {
	metrics := &avatarMetricsSpy{}
	cache := NewAvatarCache()
	cache.Metrics = metrics
	fetcher := &countingFetcher{}
	ctx := context.Background()

	first, err := cache.GetOrFetch(ctx, "u1", fetcher)
	if err != nil {
		t.Fatalf("first fetch: %v", err)
	}
	second, err := cache.GetOrFetch(ctx, "u1", fetcher)
	if err != nil {
		t.Fatalf("second fetch: %v", err)
	}
	if first != second {
		t.Fatalf("expected the cached image to be returned")
	}
	if got := fetcher.calls.Load(); got != 1 {
		t.Fatalf("expected 1 remote fetch, got %d", got)
	}
	if metrics.hits.Load() != 1 || metrics.misses.Load() != 1 {
		t.Fatalf("unexpected metrics hits=%d misses=%d", metrics.hits.Load(), metrics.misses.Load())
	}
}

func TestAvatarCache_FailuresAreNotCached(t *testing.T) {
	cache := NewAvatarCache()
	fetcher := &countingFetcher{err: errors.New("network down")}
	ctx := context.Background()

	_, err := cache.GetOrFetch(ctx, "u1", fetcher)
	if !errors.Is(err, plan.ErrFetch) {
		t.Fatalf("expected ErrFetch, got %v", err)
	}
	var fetchErr *plan.FetchError
	if !errors.As(err, &fetchErr) || fetchErr.UserID != "u1" {
		t.Fatalf("expected FetchError for u1, got %#v", err)
	}

	fetcher.err = nil
	if _, err := cache.GetOrFetch(ctx, "u1", fetcher); err != nil {
		t.Fatalf("retry should succeed: %v", err)
	}
	if got := fetcher.calls.Load(); got != 2 {
		t.Fatalf("expected a fresh fetch after failure, got %d calls", got)
	}
}

func TestAvatarCache_InvalidateForcesFreshMiss(t *testing.T) {
	cache := NewAvatarCache()
	fetcher := &countingFetcher{}
	ctx := context.Background()

	_, _ = cache.GetOrFetch(ctx, "u1", fetcher)
	if err := cache.Invalidate(ctx, "u1"); err != nil {
		t.Fatalf("invalidate: %v", err)
	}
	if cache.Len() != 0 {
		t.Fatalf("expected empty cache after invalidate")
	}
	_, _ = cache.GetOrFetch(ctx, "u1", fetcher)
	if got := fetcher.calls.Load(); got != 2 {
		t.Fatalf("expected 2 fetches, got %d", got)
	}
	if err := cache.Invalidate(ctx, "nobody"); err != nil {
		t.Fatalf("invalidate of missing user should be a no-op, got %v", err)
	}
}

func TestAvatarCache_ConcurrentMissesShareOneFetch(t *testing.T) {
	cache := NewAvatarCache()
	fetcher := &countingFetcher{gate: make(chan struct{})}
	ctx := context.Background()

	var wg sync.WaitGroup
	results := make([]image.Image, 8)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			img, err := cache.GetOrFetch(ctx, "u1", fetcher)
			if err != nil {
				t.Errorf("fetch %d: %v", i, err)
			}
			results[i] = img
		}(i)
	}
	time.Sleep(20 * time.Millisecond)
	close(fetcher.gate)
	wg.Wait()

	if got := fetcher.calls.Load(); got != 1 {
		t.Fatalf("expected concurrent misses to share one fetch, got %d", got)
	}
	for i := 1; i < len(results); i++ {
		if results[i] != results[0] {
			t.Fatalf("waiters received different images")
		}
	}
}

func TestAvatarCache_InvalidateDuringFetchDoesNotRepopulate(t *testing.T) {
	cache := NewAvatarCache()
	fetcher := &countingFetcher{gate: make(chan struct{})}
	ctx := context.Background()

	done := make(chan error, 1)
	go func() {
		_, err := cache.GetOrFetch(ctx, "u1", fetcher)
		done <- err
	}()
	for fetcher.calls.Load() == 0 {
		time.Sleep(time.Millisecond)
	}
	_ = cache.Invalidate(ctx, "u1")
	close(fetcher.gate)
	if err := <-done; err != nil {
		t.Fatalf("fetch: %v", err)
	}
	if cache.Len() != 0 {
		t.Fatalf("a fetch started before invalidate must not repopulate the cache")
	}
	if n := inflightCount(cache); n != 0 {
		t.Fatalf("expected no fetch bookkeeping left, got %d", n)
	}
}

func TestAvatarCache_InvalidateLeavesNothingBehind(t *testing.T) {
	cache := NewAvatarCache()
	fetcher := &countingFetcher{}
	ctx := context.Background()

	for i := 0; i < 100; i++ {
		userID := fmt.Sprintf("u%d", i)
		if _, err := cache.GetOrFetch(ctx, userID, fetcher); err != nil {
			t.Fatalf("fetch %s: %v", userID, err)
		}
		_ = cache.Invalidate(ctx, userID)
		_ = cache.Invalidate(ctx, userID+"-never-fetched")
	}
	if cache.Len() != 0 {
		t.Fatalf("expected empty cache, got %d", cache.Len())
	}
	if n := inflightCount(cache); n != 0 {
		t.Fatalf("cleared users must not leave fetch bookkeeping, got %d", n)
	}
}

func inflightCount(c *AvatarCache) int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.inflight)
}

func TestAvatarCache_AbandonedCallerLeavesCacheConsistent(t *testing.T) {
	cache := NewAvatarCache()
	fetcher := &countingFetcher{gate: make(chan struct{})}
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan error, 1)
	go func() {
		_, err := cache.GetOrFetch(ctx, "u1", fetcher)
		done <- err
	}()
	for fetcher.calls.Load() == 0 {
		time.Sleep(time.Millisecond)
	}
	cancel()
	if err := <-done; !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	close(fetcher.gate)

	deadline := time.Now().Add(time.Second)
	for cache.Len() == 0 && time.Now().Before(deadline) {
		time.Sleep(time.Millisecond)
	}
	if cache.Len() != 1 {
		t.Fatalf("the detached fetch should still fill the cache")
	}
}

var _ ports.AvatarCache = (*AvatarCache)(nil)
var _ ports.PositionStore = (*PositionStore)(nil)
