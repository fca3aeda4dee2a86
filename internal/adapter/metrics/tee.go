package metrics

import (
	"time"

	"mensaplan/internal/app/ports"
)

type Recorder interface {
	ports.PlanMetrics
	ports.AvatarMetrics
}

// Tee fans every measurement out to all recorders.
type Tee []Recorder

var (
	_ ports.PlanMetrics   = Tee(nil)
	_ ports.AvatarMetrics = Tee(nil)
)

func (t Tee) RecordPositionSet() {
	for _, r := range t {
		r.RecordPositionSet()
	}
}

func (t Tee) RecordPositionCleared() {
	for _, r := range t {
		r.RecordPositionCleared()
	}
}

func (t Tee) RecordRender(occupants int, elapsed time.Duration) {
	for _, r := range t {
		r.RecordRender(occupants, elapsed)
	}
}

func (t Tee) RecordRenderFailure() {
	for _, r := range t {
		r.RecordRenderFailure()
	}
}

func (t Tee) RecordAvatarHit() {
	for _, r := range t {
		r.RecordAvatarHit()
	}
}

func (t Tee) RecordAvatarMiss() {
	for _, r := range t {
		r.RecordAvatarMiss()
	}
}

func (t Tee) RecordAvatarFetchFailure() {
	for _, r := range t {
		r.RecordAvatarFetchFailure()
	}
}
