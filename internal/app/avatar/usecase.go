package avatar

import (
	"context"
	"errors"
	"net/url"
	"strings"
	"time"

	"mensaplan/internal/app/ports"

	"github.com/cloudwego/hertz/pkg/common/hlog"
)

var ErrInvalidRequest = errors.New("invalid avatar request")

type UpdateRequest struct {
	UserID    string
	AvatarURL string
}

type UpdateResponse struct {
	UserID    string    `json:"user_id"`
	AvatarURL string    `json:"avatar_url"`
	UpdatedAt time.Time `json:"updated_at"`
}

type UpdateUseCase struct {
	Sources   ports.AvatarSourceRepository
	Avatars   ports.AvatarInvalidator
	BlobCache ports.AvatarInvalidator
	Now       func() time.Time
}

// Execute points the user at a new avatar and drops every cached copy of the
// old one, so the next render downloads it again.
func (u UpdateUseCase) Execute(ctx context.Context, req UpdateRequest) (UpdateResponse, error) {
	userID := strings.TrimSpace(req.UserID)
	if userID == "" || u.Sources == nil {
		return UpdateResponse{}, ErrInvalidRequest
	}
	avatarURL, err := NormalizeURL(req.AvatarURL)
	if err != nil {
		return UpdateResponse{}, err
	}

	now := time.Now
	if u.Now != nil {
		now = u.Now
	}
	record := ports.AvatarSourceRecord{UserID: userID, AvatarURL: avatarURL, UpdatedAt: now().UTC()}
	if err := u.Sources.Upsert(ctx, record); err != nil {
		return UpdateResponse{}, err
	}
	if u.Avatars != nil {
		if err := u.Avatars.Invalidate(ctx, userID); err != nil {
			return UpdateResponse{}, err
		}
	}
	if u.BlobCache != nil {
		if err := u.BlobCache.Invalidate(ctx, userID); err != nil {
			hlog.CtxWarnf(ctx, "drop cached avatar blob of %s: %v", userID, err)
		}
	}
	return UpdateResponse{UserID: userID, AvatarURL: avatarURL, UpdatedAt: record.UpdatedAt}, nil
}

// NormalizeURL accepts absolute http(s) URLs only.
func NormalizeURL(raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", ErrInvalidRequest
	}
	u, err := url.Parse(raw)
	if err != nil || u.Host == "" || (u.Scheme != "http" && u.Scheme != "https") {
		return "", ErrInvalidRequest
	}
	return u.String(), nil
}
