package memory

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"mensaplan/internal/app/ports"
	"mensaplan/internal/domain/plan"
)

func TestPositionStore_UpsertTwiceKeepsLatest(t *testing.T) {
	store := NewPositionStore()
	ctx := context.Background()
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	first := ports.PositionEntry{UserID: "u1", Cell: plan.Cell{Column: 1, Row: 2}, ExpiresAt: now.Add(time.Hour)}
	second := ports.PositionEntry{UserID: "u1", Cell: plan.Cell{Column: 4, Row: 4}, ExpiresAt: now.Add(2 * time.Hour)}
	if err := store.Upsert(ctx, first); err != nil {
		t.Fatalf("upsert first: %v", err)
	}
	if err := store.Upsert(ctx, second); err != nil {
		t.Fatalf("upsert second: %v", err)
	}

	snap, err := store.SweepAndSnapshot(ctx, now)
	if err != nil {
		t.Fatalf("sweep: %v", err)
	}
	if len(snap) != 1 {
		t.Fatalf("expected exactly one entry, got %d", len(snap))
	}
	if snap["u1"] != second {
		t.Fatalf("expected latest entry, got %+v", snap["u1"])
	}
}

func TestPositionStore_SweepDropsExpired(t *testing.T) {
	store := NewPositionStore()
	ctx := context.Background()
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	_ = store.Upsert(ctx, ports.PositionEntry{UserID: "gone", Cell: plan.Cell{}, ExpiresAt: now.Add(-time.Second)})
	_ = store.Upsert(ctx, ports.PositionEntry{UserID: "edge", Cell: plan.Cell{}, ExpiresAt: now})
	_ = store.Upsert(ctx, ports.PositionEntry{UserID: "here", Cell: plan.Cell{}, ExpiresAt: now.Add(time.Minute)})

	snap, err := store.SweepAndSnapshot(ctx, now)
	if err != nil {
		t.Fatalf("sweep: %v", err)
	}
	if _, ok := snap["gone"]; ok {
		t.Fatalf("expired entry must not be in snapshot")
	}
	if _, ok := snap["edge"]; !ok {
		t.Fatalf("entry expiring exactly now is still present")
	}
	if _, ok := snap["here"]; !ok {
		t.Fatalf("live entry missing")
	}
	if store.Count() != 2 {
		t.Fatalf("expired entry must be evicted from the store, count=%d", store.Count())
	}
}

func TestPositionStore_SnapshotIsPrivateCopy(t *testing.T) {
	store := NewPositionStore()
	ctx := context.Background()
	now := time.Now()
	_ = store.Upsert(ctx, ports.PositionEntry{UserID: "u1", ExpiresAt: now.Add(time.Hour)})

	snap, _ := store.SweepAndSnapshot(ctx, now)
	delete(snap, "u1")

	again, _ := store.SweepAndSnapshot(ctx, now)
	if _, ok := again["u1"]; !ok {
		t.Fatalf("mutating a snapshot must not touch the store")
	}
}

func TestPositionStore_RemoveMissingIsNoop(t *testing.T) {
	store := NewPositionStore()
	if err := store.Remove(context.Background(), "nobody"); err != nil {
		t.Fatalf("remove of missing user should be a no-op, got %v", err)
	}
}

func TestPositionStore_RejectsInvalidEntries(t *testing.T) {
	store := NewPositionStore()
	ctx := context.Background()
	if err := store.Upsert(ctx, ports.PositionEntry{UserID: " ", ExpiresAt: time.Now()}); err == nil {
		t.Fatalf("expected error for blank user id")
	}
	if err := store.Upsert(ctx, ports.PositionEntry{UserID: "u1", Cell: plan.Cell{Column: 10}}); err == nil {
		t.Fatalf("expected error for cell outside the grid")
	}
}

func TestPositionStore_HonoursCancelledContext(t *testing.T) {
	store := NewPositionStore()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := store.Upsert(ctx, ports.PositionEntry{UserID: "u1", ExpiresAt: time.Now()}); err != context.Canceled {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}

func TestPositionStore_ConcurrentWritersAndSweeps(t *testing.T) {
	store := NewPositionStore()
	ctx := context.Background()
	now := time.Now()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(2)
		go func(i int) {
			defer wg.Done()
			id := fmt.Sprintf("u%d", i)
			_ = store.Upsert(ctx, ports.PositionEntry{
				UserID:    id,
				Cell:      plan.Cell{Column: i % plan.Columns, Row: i % plan.Rows},
				ExpiresAt: now.Add(time.Hour),
			})
			if i%2 == 0 {
				_ = store.Remove(ctx, id)
			}
		}(i)
		go func() {
			defer wg.Done()
			_, _ = store.SweepAndSnapshot(ctx, now)
		}()
	}
	wg.Wait()

	snap, _ := store.SweepAndSnapshot(ctx, now)
	if len(snap) != 25 {
		t.Fatalf("expected 25 surviving entries, got %d", len(snap))
	}
}
