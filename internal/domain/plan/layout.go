package plan

import "image"

// Layout maps cells onto pixels of the background image.
type Layout struct {
	XOffset  int
	YOffset  int
	CellSize int
}

func DefaultLayout() Layout {
	return Layout{XOffset: 40, YOffset: 12, CellSize: 53}
}

func (l Layout) Origin(c Cell) image.Point {
	return image.Pt(l.XOffset+c.Column*l.CellSize, l.YOffset+c.Row*l.CellSize)
}

// Slot is the pixel region reserved for a cell. Slots of distinct cells are
// disjoint.
func (l Layout) Slot(c Cell) image.Rectangle {
	o := l.Origin(c)
	return image.Rect(o.X, o.Y, o.X+l.CellSize, o.Y+l.CellSize)
}
