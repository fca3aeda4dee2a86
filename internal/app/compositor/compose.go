package compositor

import (
	"fmt"
	"image"
	"image/draw"

	"mensaplan/internal/domain/plan"
)

type Placement struct {
	At   image.Point
	Tile image.Image
}

// Clone copies src into a fresh RGBA canvas with the same bounds.
func Clone(src image.Image) *image.RGBA {
	canvas := image.NewRGBA(src.Bounds())
	draw.Draw(canvas, canvas.Bounds(), src, src.Bounds().Min, draw.Src)
	return canvas
}

// Blit overwrites the canvas region at `at` with tile. A tile that does not
// fit inside the canvas is an invariant violation and nothing is drawn.
func Blit(canvas draw.Image, tile image.Image, at image.Point) error {
	tb := tile.Bounds()
	dst := image.Rectangle{Min: at, Max: at.Add(tb.Size())}
	if !dst.In(canvas.Bounds()) {
		return fmt.Errorf("%w: %v not in %v", plan.ErrBlitOutOfBounds, dst, canvas.Bounds())
	}
	draw.Draw(canvas, dst, tile, tb.Min, draw.Src)
	return nil
}

// Compose draws every placement onto a private copy of background. The
// background itself is never written.
func Compose(background image.Image, placements []Placement) (*image.RGBA, error) {
	canvas := Clone(background)
	for _, p := range placements {
		if err := Blit(canvas, p.Tile, p.At); err != nil {
			return nil, err
		}
	}
	return canvas, nil
}
