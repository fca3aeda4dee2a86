package inmemory

import (
	"sync"
	"time"

	"mensaplan/internal/app/ports"
)

type Snapshot struct {
	PositionSet     uint64 `json:"position_set"`
	PositionCleared uint64 `json:"position_cleared"`
	RenderTotal     uint64 `json:"render_total"`
	RenderFailure   uint64 `json:"render_failure"`
	LastOccupants   int    `json:"last_occupants"`
	LastRenderMs    int64  `json:"last_render_ms"`
	AvatarHit       uint64 `json:"avatar_hit"`
	AvatarMiss      uint64 `json:"avatar_miss"`
	AvatarFailure   uint64 `json:"avatar_failure"`
}

type Recorder struct {
	mu sync.Mutex
	s  Snapshot
}

var (
	_ ports.PlanMetrics   = (*Recorder)(nil)
	_ ports.AvatarMetrics = (*Recorder)(nil)
)

func NewRecorder() *Recorder {
	return &Recorder{}
}

func (r *Recorder) RecordPositionSet() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.s.PositionSet++
}

func (r *Recorder) RecordPositionCleared() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.s.PositionCleared++
}

func (r *Recorder) RecordRender(occupants int, elapsed time.Duration) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.s.RenderTotal++
	r.s.LastOccupants = occupants
	r.s.LastRenderMs = elapsed.Milliseconds()
}

func (r *Recorder) RecordRenderFailure() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.s.RenderTotal++
	r.s.RenderFailure++
}

func (r *Recorder) RecordAvatarHit() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.s.AvatarHit++
}

func (r *Recorder) RecordAvatarMiss() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.s.AvatarMiss++
}

func (r *Recorder) RecordAvatarFetchFailure() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.s.AvatarFailure++
}

func (r *Recorder) Snapshot() Snapshot {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.s
}

func (r *Recorder) SnapshotAny() any {
	return r.Snapshot()
}
