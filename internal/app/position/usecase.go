package position

import (
	"context"
	"errors"
	"strings"
	"time"

	"mensaplan/internal/app/planview"
	"mensaplan/internal/app/ports"
	"mensaplan/internal/domain/plan"

	"github.com/cloudwego/hertz/pkg/common/hlog"
	"github.com/google/uuid"
)

const ClearedMessage = "Your location was rapidly approached (position was deleted)."

var ErrInvalidRequest = errors.New("invalid position request")

type PlanRenderer interface {
	Execute(ctx context.Context, req planview.Request) (planview.Response, error)
}

type UseCase struct {
	Positions  ports.PositionStore
	Avatars    ports.AvatarCache
	BlobCache  ports.AvatarInvalidator
	Events     ports.EventPublisher
	Metrics    ports.PlanMetrics
	Plan       PlanRenderer
	DefaultTTL time.Duration
	Now        func() time.Time
}

// Set records the caller's cell and renders the plan. Parse errors leave all
// state untouched. A zero duration clears the caller's marker instead and
// renders nothing.
func (u UseCase) Set(ctx context.Context, req SetRequest) (SetResponse, error) {
	userID := strings.TrimSpace(req.UserID)
	if userID == "" {
		return SetResponse{}, ErrInvalidRequest
	}
	cell, err := plan.ParseCell(strings.TrimSpace(req.Position))
	if err != nil {
		return SetResponse{}, err
	}
	ttl, err := plan.ParseTTL(req.Expires, u.DefaultTTL)
	if err != nil {
		return SetResponse{}, err
	}

	if ttl == 0 {
		cleared, err := u.Clear(ctx, ClearRequest{UserID: userID})
		if err != nil {
			return SetResponse{}, err
		}
		return SetResponse{Cleared: true, Message: cleared.Message}, nil
	}

	now := u.now()
	expiresAt := now.Add(ttl)
	if err := u.Positions.Upsert(ctx, ports.PositionEntry{UserID: userID, Cell: cell, ExpiresAt: expiresAt}); err != nil {
		return SetResponse{}, err
	}
	if u.Metrics != nil {
		u.Metrics.RecordPositionSet()
	}
	u.publish(ctx, ports.PositionEvent{
		Type:       ports.PositionEventSet,
		UserID:     userID,
		Cell:       cell.String(),
		ExpiresAt:  &expiresAt,
		OccurredAt: now,
	})

	rendered, err := u.Plan.Execute(ctx, planview.Request{})
	if err != nil {
		return SetResponse{}, err
	}
	return SetResponse{Cell: cell, ExpiresAt: expiresAt, Plan: rendered}, nil
}

// Clear removes the caller's marker and forgets their avatar. Clearing a user
// without a marker is not an error.
func (u UseCase) Clear(ctx context.Context, req ClearRequest) (ClearResponse, error) {
	userID := strings.TrimSpace(req.UserID)
	if userID == "" {
		return ClearResponse{}, ErrInvalidRequest
	}
	if err := u.Positions.Remove(ctx, userID); err != nil {
		return ClearResponse{}, err
	}
	if err := u.Avatars.Invalidate(ctx, userID); err != nil {
		return ClearResponse{}, err
	}
	if u.BlobCache != nil {
		if err := u.BlobCache.Invalidate(ctx, userID); err != nil {
			hlog.CtxWarnf(ctx, "drop cached avatar blob of %s: %v", userID, err)
		}
	}
	if u.Metrics != nil {
		u.Metrics.RecordPositionCleared()
	}
	u.publish(ctx, ports.PositionEvent{
		Type:       ports.PositionEventCleared,
		UserID:     userID,
		OccurredAt: u.now(),
	})
	return ClearResponse{Message: ClearedMessage}, nil
}

func (u UseCase) publish(ctx context.Context, event ports.PositionEvent) {
	if u.Events == nil {
		return
	}
	event.ID = uuid.NewString()
	if err := u.Events.Publish(ctx, event); err != nil {
		hlog.CtxWarnf(ctx, "publish %s for %s: %v", event.Type, event.UserID, err)
	}
}

func (u UseCase) now() time.Time {
	if u.Now == nil {
		return time.Now()
	}
	return u.Now()
}
