package planview

import (
	"context"
	"errors"
	"image"
	"image/color"
	"sync"
	"time"

	"mensaplan/internal/app/compositor"
	"mensaplan/internal/app/ports"
	"mensaplan/internal/domain/plan"

	"github.com/cloudwego/hertz/pkg/common/hlog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"golang.org/x/sync/errgroup"
)

const DefaultFilename = "mensa_plan.png"

var tracer = otel.Tracer("mensaplan/internal/app/planview")

type UseCase struct {
	Positions  ports.PositionStore
	Avatars    ports.AvatarCache
	Fetcher    ports.AvatarFetcher
	Background ports.BackgroundProvider
	Layout     plan.Layout
	Fill       color.Color
	Filename   string
	Metrics    ports.PlanMetrics
	Now        func() time.Time
}

func (u UseCase) Execute(ctx context.Context, _ Request) (Response, error) {
	ctx, span := tracer.Start(ctx, "planview.render")
	defer span.End()

	started := time.Now()
	resp, err := u.render(ctx)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "render failed")
		if u.Metrics != nil {
			u.Metrics.RecordRenderFailure()
		}
		return Response{}, err
	}
	span.SetAttributes(
		attribute.Int("plan.occupants", resp.Occupants),
		attribute.Int("plan.cells", resp.Cells),
	)
	if u.Metrics != nil {
		u.Metrics.RecordRender(resp.Occupants, time.Since(started))
	}
	return resp, nil
}

// List returns the swept table without rendering, ordered by cell then user.
func (u UseCase) List(ctx context.Context) (ListResponse, error) {
	entries, err := u.Positions.SweepAndSnapshot(ctx, u.now())
	if err != nil {
		return ListResponse{}, err
	}
	out := make([]PositionView, 0, len(entries))
	for _, occ := range plan.GroupByCell(cellsOf(entries)) {
		for _, userID := range occ.Users {
			out = append(out, PositionView{
				UserID:    userID,
				Cell:      occ.Cell.String(),
				ExpiresAt: entries[userID].ExpiresAt,
			})
		}
	}
	return ListResponse{Positions: out}, nil
}

func (u UseCase) render(ctx context.Context) (Response, error) {
	background, err := u.Background.Background(ctx)
	if err != nil {
		hlog.CtxErrorf(ctx, "load plan background: %v", err)
		return Response{}, &plan.RenderError{Err: err}
	}

	entries, err := u.Positions.SweepAndSnapshot(ctx, u.now())
	if err != nil {
		return Response{}, &plan.RenderError{Err: err}
	}
	groups := plan.GroupByCell(cellsOf(entries))

	avatars, err := u.resolveAvatars(ctx, groups)
	if err != nil {
		var fetchErr *plan.FetchError
		if errors.As(err, &fetchErr) {
			hlog.CtxErrorf(ctx, "render aborted, avatar of %s unavailable: %v", fetchErr.UserID, fetchErr.Err)
		}
		return Response{}, &plan.RenderError{Err: err}
	}

	layout := u.layout()
	placements := make([]compositor.Placement, 0, len(groups))
	for _, occ := range groups {
		imgs := make([]image.Image, 0, len(occ.Users))
		for _, userID := range occ.Users {
			imgs = append(imgs, avatars[userID])
		}
		tile, err := compositor.Collage(imgs, compositor.Limits{
			MaxWidth:  layout.CellSize,
			MaxHeight: layout.CellSize,
			Fill:      u.Fill,
		})
		if err != nil {
			return Response{}, &plan.RenderError{Err: err}
		}
		placements = append(placements, compositor.Placement{At: layout.Origin(occ.Cell), Tile: tile})
	}

	canvas, err := compositor.Compose(background, placements)
	if err != nil {
		hlog.CtxErrorf(ctx, "plan composition invariant violated: %v", err)
		return Response{}, &plan.RenderError{Err: err}
	}

	filename := u.Filename
	if filename == "" {
		filename = DefaultFilename
	}
	return Response{
		Image:     canvas,
		Filename:  filename,
		Occupants: len(entries),
		Cells:     len(groups),
	}, nil
}

// resolveAvatars fetches every occupant concurrently and fails on the first
// error.
func (u UseCase) resolveAvatars(ctx context.Context, groups []plan.Occupancy) (map[string]image.Image, error) {
	var mu sync.Mutex
	out := make(map[string]image.Image)
	g, gctx := errgroup.WithContext(ctx)
	for _, occ := range groups {
		for _, userID := range occ.Users {
			g.Go(func() error {
				img, err := u.Avatars.GetOrFetch(gctx, userID, u.Fetcher)
				if err != nil {
					return err
				}
				mu.Lock()
				out[userID] = img
				mu.Unlock()
				return nil
			})
		}
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

func (u UseCase) layout() plan.Layout {
	if u.Layout == (plan.Layout{}) {
		return plan.DefaultLayout()
	}
	return u.Layout
}

func (u UseCase) now() time.Time {
	if u.Now == nil {
		return time.Now()
	}
	return u.Now()
}

func cellsOf(entries map[string]ports.PositionEntry) map[string]plan.Cell {
	out := make(map[string]plan.Cell, len(entries))
	for userID, entry := range entries {
		out[userID] = entry.Cell
	}
	return out
}

