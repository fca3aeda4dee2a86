package compositor

import (
	"errors"
	"image"
	"image/color"
	"image/draw"

	xdraw "golang.org/x/image/draw"
)

var ErrNoImages = errors.New("collage needs at least one image")
var ErrInvalidLimits = errors.New("collage limits must be positive")

// Limits bounds a collage tile. Fill paints slots that hold no avatar so the
// tile stays opaque.
type Limits struct {
	MaxWidth  int
	MaxHeight int
	Fill      color.Color
}

// Grid is the arrangement picked for a collage: Cols x Rows square thumbnails
// of Thumb pixels each.
type Grid struct {
	Cols  int
	Rows  int
	Thumb int
	Count int
}

func (g Grid) Size() image.Point {
	return image.Pt(g.Cols*g.Thumb, g.Rows*g.Thumb)
}

// PlanGrid picks the column count that gives the largest thumbnails for n
// images. When n exceeds what fits at one pixel per thumbnail, Count is
// capped and the extra images are left out.
func PlanGrid(n int, maxWidth, maxHeight int) (Grid, error) {
	if n <= 0 {
		return Grid{}, ErrNoImages
	}
	if maxWidth <= 0 || maxHeight <= 0 {
		return Grid{}, ErrInvalidLimits
	}
	if capacity := maxWidth * maxHeight; n > capacity {
		n = capacity
	}

	best := Grid{}
	for cols := 1; cols <= n && cols <= maxWidth; cols++ {
		rows := (n + cols - 1) / cols
		if rows > maxHeight {
			continue
		}
		thumb := min(maxWidth/cols, maxHeight/rows)
		if thumb > best.Thumb {
			best = Grid{Cols: cols, Rows: rows, Thumb: thumb, Count: n}
		}
	}
	return best, nil
}

// Collage arranges images row-major into one tile no larger than the limits.
// Each image is center-cropped to a square and scaled to the thumbnail size.
func Collage(images []image.Image, limits Limits) (*image.RGBA, error) {
	grid, err := PlanGrid(len(images), limits.MaxWidth, limits.MaxHeight)
	if err != nil {
		return nil, err
	}

	tile := image.NewRGBA(image.Rectangle{Max: grid.Size()})
	fill := limits.Fill
	if fill == nil {
		fill = color.White
	}
	draw.Draw(tile, tile.Bounds(), image.NewUniform(fill), image.Point{}, draw.Src)

	for i := 0; i < grid.Count; i++ {
		col, row := i%grid.Cols, i/grid.Cols
		dst := image.Rect(col*grid.Thumb, row*grid.Thumb, (col+1)*grid.Thumb, (row+1)*grid.Thumb)
		src := images[i]
		xdraw.CatmullRom.Scale(tile, dst, src, squareCrop(src.Bounds()), draw.Over, nil)
	}
	return tile, nil
}

func squareCrop(r image.Rectangle) image.Rectangle {
	w, h := r.Dx(), r.Dy()
	switch {
	case w > h:
		x := r.Min.X + (w-h)/2
		return image.Rect(x, r.Min.Y, x+h, r.Max.Y)
	case h > w:
		y := r.Min.Y + (h-w)/2
		return image.Rect(r.Min.X, y, r.Max.X, y+w)
	default:
		return r
	}
}
