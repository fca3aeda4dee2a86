package planview

import (
	"context"
	"errors"
	"image"
	"image/color"
	"image/draw"
	"sync"
	"time"

	"mensaplan/internal/app/ports"
)

var (
	white = color.RGBA{R: 255, G: 255, B: 255, A: 255}
	red   = color.RGBA{R: 255, A: 255}
	blue  = color.RGBA{B: 255, A: 255}
	green = color.RGBA{G: 255, A: 255}
)

func solid(c color.Color, w, h int) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.Draw(img, img.Bounds(), image.NewUniform(c), image.Point{}, draw.Src)
	return img
}

func near(a, b color.Color) bool {
	ar, ag, ab, aa := a.RGBA()
	br, bg, bb, ba := b.RGBA()
	d := func(x, y uint32) bool {
		if x > y {
			return x-y <= 0x200
		}
		return y-x <= 0x200
	}
	return d(ar, br) && d(ag, bg) && d(ab, bb) && d(aa, ba)
}

type stubBackground struct {
	img image.Image
	err error
}

func (b stubBackground) Background(_ context.Context) (image.Image, error) {
	if b.err != nil {
		return nil, b.err
	}
	return b.img, nil
}

type colorFetcher struct {
	mu     sync.Mutex
	colors map[string]color.Color
	calls  map[string]int
}

func newColorFetcher(colors map[string]color.Color) *colorFetcher {
	return &colorFetcher{colors: colors, calls: map[string]int{}}
}

func (f *colorFetcher) FetchAvatar(_ context.Context, userID string) (image.Image, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls[userID]++
	c, ok := f.colors[userID]
	if !ok {
		return nil, errors.New("user has no avatar")
	}
	return solid(c, 64, 64), nil
}

type planMetricsSpy struct {
	mu        sync.Mutex
	renders   int
	failures  int
	occupants int
}

func (m *planMetricsSpy) RecordPositionSet()     {}
func (m *planMetricsSpy) RecordPositionCleared() {}
func (m *planMetricsSpy) RecordRender(occupants int, _ time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.renders++
	m.occupants = occupants
}
func (m *planMetricsSpy) RecordRenderFailure() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.failures++
}

var _ ports.BackgroundProvider = stubBackground{}
var _ ports.AvatarFetcher = (*colorFetcher)(nil)
var _ ports.PlanMetrics = (*planMetricsSpy)(nil)
