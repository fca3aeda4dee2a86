package ports

import (
	"context"
	"time"

	"mensaplan/internal/domain/plan"
)

type PositionEntry struct {
	UserID    string
	Cell      plan.Cell
	ExpiresAt time.Time
}

// PositionStore is the shared who-stands-where table. SweepAndSnapshot drops
// every entry with ExpiresAt before now and returns a private copy of what is
// left; the two steps are atomic with respect to Upsert and Remove.
type PositionStore interface {
	Upsert(ctx context.Context, entry PositionEntry) error
	Remove(ctx context.Context, userID string) error
	SweepAndSnapshot(ctx context.Context, now time.Time) (map[string]PositionEntry, error)
}
