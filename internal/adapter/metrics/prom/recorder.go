package prom

import (
	"time"

	"mensaplan/internal/app/ports"

	"github.com/prometheus/client_golang/prometheus"
)

type Recorder struct {
	positions     *prometheus.CounterVec
	renders       *prometheus.CounterVec
	renderSeconds prometheus.Histogram
	occupants     prometheus.Gauge
	avatars       *prometheus.CounterVec
}

var (
	_ ports.PlanMetrics   = (*Recorder)(nil)
	_ ports.AvatarMetrics = (*Recorder)(nil)
)

func NewRecorder(reg prometheus.Registerer) (*Recorder, error) {
	r := &Recorder{
		positions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "mensaplan",
			Name:      "position_commands_total",
			Help:      "Position commands by outcome.",
		}, []string{"action"}),
		renders: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "mensaplan",
			Name:      "renders_total",
			Help:      "Plan renders by result.",
		}, []string{"result"}),
		renderSeconds: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "mensaplan",
			Name:      "render_duration_seconds",
			Help:      "Time to compose the plan image.",
			Buckets:   []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
		}),
		occupants: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "mensaplan",
			Name:      "occupants",
			Help:      "Live markers in the last rendered plan.",
		}),
		avatars: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "mensaplan",
			Name:      "avatar_lookups_total",
			Help:      "Avatar cache lookups by outcome.",
		}, []string{"outcome"}),
	}
	for _, c := range []prometheus.Collector{r.positions, r.renders, r.renderSeconds, r.occupants, r.avatars} {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}
	return r, nil
}

func (r *Recorder) RecordPositionSet()     { r.positions.WithLabelValues("set").Inc() }
func (r *Recorder) RecordPositionCleared() { r.positions.WithLabelValues("cleared").Inc() }

func (r *Recorder) RecordRender(occupants int, elapsed time.Duration) {
	r.renders.WithLabelValues("ok").Inc()
	r.renderSeconds.Observe(elapsed.Seconds())
	r.occupants.Set(float64(occupants))
}

func (r *Recorder) RecordRenderFailure()      { r.renders.WithLabelValues("error").Inc() }
func (r *Recorder) RecordAvatarHit()          { r.avatars.WithLabelValues("hit").Inc() }
func (r *Recorder) RecordAvatarMiss()         { r.avatars.WithLabelValues("miss").Inc() }
func (r *Recorder) RecordAvatarFetchFailure() { r.avatars.WithLabelValues("fetch_error").Inc() }
