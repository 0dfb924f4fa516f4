package pipeline

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"persona-video/internal/app/api/did"
	apperrors "persona-video/internal/app/errors"
)

// Metrics records per-stage latency and failures
type Metrics struct {
	stageDuration *prometheus.HistogramVec
	stageFailures *prometheus.CounterVec
	videoPolls    *prometheus.CounterVec
}

// NewMetrics registers the collectors on reg. A nil reg keeps them unregistered.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)

	return &Metrics{
		stageDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "persona",
			Name:      "stage_duration_seconds",
			Help:      "Time spent in each pipeline stage.",
			// video jobs run for minutes
			Buckets: []float64{0.25, 0.5, 1, 2.5, 5, 10, 30, 60, 120, 300},
		}, []string{"stage", "outcome"}),
		stageFailures: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "persona",
			Name:      "stage_failures_total",
			Help:      "Pipeline stage failures by error kind.",
		}, []string{"stage", "kind"}),
		videoPolls: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "persona",
			Name:      "video_polls_total",
			Help:      "Video job status queries by observed status.",
		}, []string{"status"}),
	}
}

// ObserveStage records one stage run
func (m *Metrics) ObserveStage(stage string, elapsed time.Duration, err error) {
	outcome := "success"
	if err != nil {
		outcome = "failure"
		kind := string(apperrors.KindOf(err))
		if kind == "" {
			kind = "unknown"
		}
		m.stageFailures.WithLabelValues(stage, kind).Inc()
	}
	m.stageDuration.WithLabelValues(stage, outcome).Observe(elapsed.Seconds())
}

// ObservePoll is a did.PollObserver
func (m *Metrics) ObservePoll(job did.Job) {
	m.videoPolls.WithLabelValues(string(job.Status)).Inc()
}
