package events

import (
	"context"
	"sync"

	"mensaplan/internal/app/ports"
)

// Recorder keeps the most recent events in memory. Used when no broker is
// configured.
type Recorder struct {
	mu     sync.Mutex
	limit  int
	events []ports.PositionEvent
}

var _ ports.EventPublisher = (*Recorder)(nil)

func NewRecorder(limit int) *Recorder {
	if limit <= 0 {
		limit = 256
	}
	return &Recorder{limit: limit}
}

func (r *Recorder) Publish(_ context.Context, event ports.PositionEvent) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, event)
	if over := len(r.events) - r.limit; over > 0 {
		r.events = append(r.events[:0], r.events[over:]...)
	}
	return nil
}

func (r *Recorder) Events() []ports.PositionEvent {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]ports.PositionEvent, len(r.events))
	copy(out, r.events)
	return out
}
