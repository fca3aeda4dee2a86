package avatar

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	"mensaplan/internal/app/ports"
	"mensaplan/internal/domain/plan"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

var tracer = otel.Tracer("mensaplan/internal/adapter/avatar")

// DefaultMaxSide bounds both avatar dimensions. Thumbnails are 53px, so
// anything larger only costs memory.
const DefaultMaxSide = 1024

var ErrAvatarDimensions = errors.New("avatar dimensions exceed limit")

// Decoder turns encoded avatar bytes into images. The header is checked
// against MaxSide before any pixel buffer is allocated.
type Decoder struct {
	Blobs   ports.AvatarBlobSource
	MaxSide int
}

var _ ports.AvatarFetcher = Decoder{}

func (d Decoder) FetchAvatar(ctx context.Context, userID string) (image.Image, error) {
	ctx, span := tracer.Start(ctx, "avatar.fetch")
	defer span.End()
	span.SetAttributes(attribute.String("avatar.user_id", userID))

	blob, err := d.Blobs.FetchBlob(ctx, userID)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "fetch failed")
		return nil, err
	}
	maxSide := d.MaxSide
	if maxSide <= 0 {
		maxSide = DefaultMaxSide
	}
	cfg, _, err := image.DecodeConfig(bytes.NewReader(blob))
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "decode failed")
		return nil, &plan.FetchError{UserID: userID, Err: fmt.Errorf("decode avatar header: %w", err)}
	}
	if cfg.Width <= 0 || cfg.Height <= 0 || cfg.Width > maxSide || cfg.Height > maxSide {
		err := fmt.Errorf("%w: %dx%d, max %d", ErrAvatarDimensions, cfg.Width, cfg.Height, maxSide)
		span.RecordError(err)
		span.SetStatus(codes.Error, "avatar too large")
		return nil, &plan.FetchError{UserID: userID, Err: err}
	}

	img, format, err := image.Decode(bytes.NewReader(blob))
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "decode failed")
		return nil, &plan.FetchError{UserID: userID, Err: fmt.Errorf("decode avatar: %w", err)}
	}
	span.SetAttributes(
		attribute.String("avatar.format", format),
		attribute.Int("avatar.bytes", len(blob)),
	)
	return img, nil
}
