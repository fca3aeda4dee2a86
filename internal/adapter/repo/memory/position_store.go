package memory

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"mensaplan/internal/app/ports"
)

// PositionStore keeps positions in process memory. They are lost on restart.
type PositionStore struct {
	mu      sync.RWMutex
	entries map[string]ports.PositionEntry
}

func NewPositionStore() *PositionStore {
	return &PositionStore{
		entries: make(map[string]ports.PositionEntry),
	}
}

func (s *PositionStore) Upsert(ctx context.Context, entry ports.PositionEntry) error {
	if strings.TrimSpace(entry.UserID) == "" {
		return fmt.Errorf("invalid user id: %q", entry.UserID)
	}
	if !entry.Cell.Valid() {
		return fmt.Errorf("invalid cell: %+v", entry.Cell)
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries[entry.UserID] = entry
	return nil
}

func (s *PositionStore) Remove(ctx context.Context, userID string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.entries, userID)
	return nil
}

// SweepAndSnapshot evicts expired entries and copies the rest under the same
// write lock, so no reader sees a half-evicted table.
func (s *PositionStore) SweepAndSnapshot(ctx context.Context, now time.Time) (map[string]ports.PositionEntry, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	out := make(map[string]ports.PositionEntry, len(s.entries))
	for userID, entry := range s.entries {
		if entry.ExpiresAt.Before(now) {
			delete(s.entries, userID)
			continue
		}
		out[userID] = entry
	}
	return out, nil
}

func (s *PositionStore) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}
