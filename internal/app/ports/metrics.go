package ports

import "time"

type PlanMetrics interface {
	RecordPositionSet()
	RecordPositionCleared()
	RecordRender(occupants int, elapsed time.Duration)
	RecordRenderFailure()
}

type AvatarMetrics interface {
	RecordAvatarHit()
	RecordAvatarMiss()
	RecordAvatarFetchFailure()
}
