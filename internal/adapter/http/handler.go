package httpadapter

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"image/png"
	"net/http"
	"strings"

	"mensaplan/internal/app/auth"
	"mensaplan/internal/app/avatar"
	"mensaplan/internal/app/planview"
	"mensaplan/internal/app/ports"
	"mensaplan/internal/app/position"
	"mensaplan/internal/domain/plan"

	"github.com/cloudwego/hertz/pkg/app"
	"github.com/cloudwego/hertz/pkg/app/server"
	"github.com/cloudwego/hertz/pkg/common/adaptor"
	"github.com/cloudwego/hertz/pkg/common/hlog"
	"github.com/cloudwego/hertz/pkg/protocol/consts"
)

const userIDHeader = "X-User-ID"
const userKeyHeader = "X-User-Key"

const renderFailedMessage = "could not render the plan"

type Handler struct {
	RegisterUC auth.RegisterUseCase
	AuthUC     auth.VerifyUseCase
	PositionUC position.UseCase
	PlanUC     planview.UseCase
	AvatarUC   avatar.UpdateUseCase
	KPI        kpiSnapshotProvider
	Metrics    http.Handler
}

func (h Handler) RegisterRoutes(s *server.Hertz) {
	s.Use(corsMiddleware())

	api := s.Group("/api/plan")
	api.POST("/register", h.register)
	api.POST("/position", h.setPosition)
	api.DELETE("/position", h.clearPosition)
	api.GET("", h.showPlan)
	api.GET("/positions", h.listPositions)
	api.PUT("/avatar", h.updateAvatar)

	s.GET("/ops/kpi", h.kpi)
	s.GET("/healthz", h.healthz)
	if h.Metrics != nil {
		s.GET("/metrics", adaptor.HertzHandler(h.Metrics))
	}
}

type positionRequest struct {
	Position string `json:"position"`
	Expires  string `json:"expires,omitempty"`
}

type avatarRequest struct {
	AvatarURL string `json:"avatar_url"`
}

type messageResponse struct {
	Message string `json:"message"`
}

func (h Handler) register(c context.Context, ctx *app.RequestContext) {
	var body auth.RegisterRequest
	if err := decodeJSON(ctx, &body); err != nil {
		writeErrorBody(ctx, consts.StatusBadRequest, "invalid_json", "invalid json")
		return
	}
	resp, err := h.RegisterUC.Execute(c, body)
	if err != nil {
		writeError(ctx, err)
		return
	}
	ctx.JSON(consts.StatusCreated, resp)
}

func (h Handler) setPosition(c context.Context, ctx *app.RequestContext) {
	userID, err := h.requireAuthenticatedUser(c, ctx)
	if err != nil {
		writeError(ctx, err)
		return
	}

	var body positionRequest
	if err := decodeJSON(ctx, &body); err != nil {
		writeErrorBody(ctx, consts.StatusBadRequest, "invalid_json", "invalid json")
		return
	}

	resp, err := h.PositionUC.Set(c, position.SetRequest{
		UserID:   userID,
		Position: body.Position,
		Expires:  body.Expires,
	})
	if err != nil {
		writeError(ctx, err)
		return
	}
	if resp.Cleared {
		ctx.JSON(consts.StatusOK, messageResponse{Message: resp.Message})
		return
	}
	writePlan(ctx, resp.Plan)
}

func (h Handler) clearPosition(c context.Context, ctx *app.RequestContext) {
	userID, err := h.requireAuthenticatedUser(c, ctx)
	if err != nil {
		writeError(ctx, err)
		return
	}
	resp, err := h.PositionUC.Clear(c, position.ClearRequest{UserID: userID})
	if err != nil {
		writeError(ctx, err)
		return
	}
	ctx.JSON(consts.StatusOK, messageResponse{Message: resp.Message})
}

func (h Handler) showPlan(c context.Context, ctx *app.RequestContext) {
	if _, err := h.requireAuthenticatedUser(c, ctx); err != nil {
		writeError(ctx, err)
		return
	}
	resp, err := h.PlanUC.Execute(c, planview.Request{})
	if err != nil {
		writeError(ctx, err)
		return
	}
	writePlan(ctx, resp)
}

func (h Handler) listPositions(c context.Context, ctx *app.RequestContext) {
	if _, err := h.requireAuthenticatedUser(c, ctx); err != nil {
		writeError(ctx, err)
		return
	}
	resp, err := h.PlanUC.List(c)
	if err != nil {
		writeError(ctx, err)
		return
	}
	ctx.JSON(consts.StatusOK, resp)
}

func (h Handler) updateAvatar(c context.Context, ctx *app.RequestContext) {
	userID, err := h.requireAuthenticatedUser(c, ctx)
	if err != nil {
		writeError(ctx, err)
		return
	}
	var body avatarRequest
	if err := decodeJSON(ctx, &body); err != nil {
		writeErrorBody(ctx, consts.StatusBadRequest, "invalid_json", "invalid json")
		return
	}
	resp, err := h.AvatarUC.Execute(c, avatar.UpdateRequest{UserID: userID, AvatarURL: body.AvatarURL})
	if err != nil {
		writeError(ctx, err)
		return
	}
	ctx.JSON(consts.StatusOK, resp)
}

type kpiSnapshotProvider interface {
	SnapshotAny() any
}

func (h Handler) kpi(_ context.Context, ctx *app.RequestContext) {
	if h.KPI == nil {
		writeErrorBody(ctx, consts.StatusNotFound, "not_configured", "kpi provider not configured")
		return
	}
	ctx.JSON(consts.StatusOK, h.KPI.SnapshotAny())
}

func (h Handler) healthz(_ context.Context, ctx *app.RequestContext) {
	ctx.JSON(consts.StatusOK, map[string]string{"status": "ok"})
}

func writePlan(ctx *app.RequestContext, resp planview.Response) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, resp.Image); err != nil {
		hlog.Errorf("encode plan png: %v", err)
		writeErrorBody(ctx, consts.StatusInternalServerError, "render_failed", renderFailedMessage)
		return
	}
	filename := resp.Filename
	if filename == "" {
		filename = planview.DefaultFilename
	}
	ctx.Response.Header.Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	ctx.Data(consts.StatusOK, "image/png", buf.Bytes())
}

func decodeJSON(ctx *app.RequestContext, out any) error {
	body := ctx.Request.Body()
	if len(body) == 0 {
		return nil
	}
	return json.Unmarshal(body, out)
}

var ErrMissingUserIDHeader = errors.New("missing x-user-id header")
var ErrMissingUserKeyHeader = errors.New("missing x-user-key header")
var ErrMissingUserCredentials = errors.New("missing user credentials")

func (h Handler) requireAuthenticatedUser(c context.Context, ctx *app.RequestContext) (string, error) {
	userID := strings.TrimSpace(string(ctx.GetHeader(userIDHeader)))
	userKey := strings.TrimSpace(string(ctx.GetHeader(userKeyHeader)))
	if userID == "" && userKey == "" {
		return "", ErrMissingUserCredentials
	}
	if userID == "" {
		return "", ErrMissingUserIDHeader
	}
	if userKey == "" {
		return "", ErrMissingUserKeyHeader
	}
	if err := h.AuthUC.Execute(c, auth.VerifyRequest{
		UserID:  userID,
		UserKey: userKey,
	}); err != nil {
		return "", err
	}
	return userID, nil
}

func writeError(ctx *app.RequestContext, err error) {
	switch {
	case errors.Is(err, ErrMissingUserCredentials):
		writeErrorBody(ctx, consts.StatusBadRequest, "missing_user_credentials", err.Error())
	case errors.Is(err, ErrMissingUserIDHeader):
		writeErrorBody(ctx, consts.StatusBadRequest, "missing_user_id", err.Error())
	case errors.Is(err, ErrMissingUserKeyHeader):
		writeErrorBody(ctx, consts.StatusBadRequest, "missing_user_key", err.Error())
	case errors.Is(err, auth.ErrInvalidCredentials):
		writeErrorBody(ctx, consts.StatusUnauthorized, "invalid_user_credentials", err.Error())
	case errors.Is(err, plan.ErrOutOfBounds):
		writeErrorBody(ctx, consts.StatusBadRequest, "position_out_of_bounds", err.Error())
	case errors.Is(err, plan.ErrBadFormat):
		writeErrorBody(ctx, consts.StatusBadRequest, "invalid_position", err.Error())
	case errors.Is(err, plan.ErrBadDuration):
		writeErrorBody(ctx, consts.StatusBadRequest, "invalid_duration", err.Error())
	case errors.Is(err, plan.ErrFetch):
		writeErrorBody(ctx, consts.StatusBadGateway, "avatar_unavailable", renderFailedMessage)
	case errors.Is(err, plan.ErrRender):
		writeErrorBody(ctx, consts.StatusInternalServerError, "render_failed", renderFailedMessage)
	case errors.Is(err, auth.ErrInvalidRequest),
		errors.Is(err, avatar.ErrInvalidRequest),
		errors.Is(err, position.ErrInvalidRequest):
		writeErrorBody(ctx, consts.StatusBadRequest, "bad_request", err.Error())
	case errors.Is(err, ports.ErrNotFound):
		writeErrorBody(ctx, consts.StatusNotFound, "not_found", err.Error())
	case errors.Is(err, ports.ErrConflict):
		writeErrorBody(ctx, consts.StatusConflict, "conflict", err.Error())
	default:
		hlog.Errorf("%s %s: unexpected error: %v", ctx.Method(), ctx.Path(), err)
		writeErrorBody(ctx, consts.StatusInternalServerError, "internal_error", "internal error")
	}
}

func writeErrorBody(ctx *app.RequestContext, status int, code, message string) {
	ctx.JSON(status, map[string]any{
		"error": map[string]string{
			"code":    code,
			"message": message,
		},
	})
}
