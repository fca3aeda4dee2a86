package ports

import (
	"context"
	"image"
)

// BackgroundProvider returns the shared plan image. Callers must treat it as
// read-only.
type BackgroundProvider interface {
	Background(ctx context.Context) (image.Image, error)
}
