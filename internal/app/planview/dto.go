package planview

import (
	"image"
	"time"
)

type Request struct{}

type Response struct {
	Image     *image.RGBA
	Filename  string
	Occupants int
	Cells     int
}

type PositionView struct {
	UserID    string    `json:"user_id"`
	Cell      string    `json:"cell"`
	ExpiresAt time.Time `json:"expires_at"`
}

type ListResponse struct {
	Positions []PositionView `json:"positions"`
}
