package position

import (
	"time"

	"mensaplan/internal/app/planview"
	"mensaplan/internal/domain/plan"
)

type SetRequest struct {
	UserID   string
	Position string
	Expires  string
}

type SetResponse struct {
	Cleared   bool
	Message   string
	Cell      plan.Cell
	ExpiresAt time.Time
	Plan      planview.Response
}

type ClearRequest struct {
	UserID string
}

type ClearResponse struct {
	Message string
}
