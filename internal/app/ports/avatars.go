package ports

import (
	"context"
	"image"
	"time"
)

type AvatarFetcher interface {
	FetchAvatar(ctx context.Context, userID string) (image.Image, error)
}

type AvatarFetchFunc func(ctx context.Context, userID string) (image.Image, error)

func (f AvatarFetchFunc) FetchAvatar(ctx context.Context, userID string) (image.Image, error) {
	return f(ctx, userID)
}

// AvatarCache holds decoded avatars by user id. Failed fetches are never
// cached.
type AvatarCache interface {
	GetOrFetch(ctx context.Context, userID string, fetcher AvatarFetcher) (image.Image, error)
	Invalidate(ctx context.Context, userID string) error
}

type AvatarInvalidator interface {
	Invalidate(ctx context.Context, userID string) error
}

// AvatarBlobSource returns the encoded avatar bytes of a user.
type AvatarBlobSource interface {
	FetchBlob(ctx context.Context, userID string) ([]byte, error)
}

type AvatarSourceRecord struct {
	UserID    string
	AvatarURL string
	UpdatedAt time.Time
}

type AvatarSourceRepository interface {
	Upsert(ctx context.Context, source AvatarSourceRecord) error
	GetByUserID(ctx context.Context, userID string) (AvatarSourceRecord, error)
}
