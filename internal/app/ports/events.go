package ports

import (
	"context"
	"time"
)

type PositionEventType string

const (
	PositionEventSet     PositionEventType = "position_set"
	PositionEventCleared PositionEventType = "position_cleared"
)

type PositionEvent struct {
	ID         string            `json:"id"`
	Type       PositionEventType `json:"type"`
	UserID     string            `json:"user_id"`
	Cell       string            `json:"cell,omitempty"`
	ExpiresAt  *time.Time        `json:"expires_at,omitempty"`
	OccurredAt time.Time         `json:"occurred_at"`
}

type EventPublisher interface {
	Publish(ctx context.Context, event PositionEvent) error
}
