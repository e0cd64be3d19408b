// Package metrics exports planning telemetry to Prometheus.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/katalvlaran/lotplan/planning"
	"github.com/katalvlaran/lotplan/solver"
)

const namespace = "lotplan"

// Recorder implements planning.Recorder with Prometheus collectors.
type Recorder struct {
	solves    *prometheus.CounterVec
	rejected  *prometheus.CounterVec
	duration  prometheus.Histogram
	periods   prometheus.Gauge
	objective prometheus.Gauge
}

var _ planning.Recorder = (*Recorder)(nil)

// New creates the collectors and registers them with reg.
func New(reg prometheus.Registerer) (*Recorder, error) {
	r := &Recorder{
		solves: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "solves_total",
			Help:      "Completed solver calls by final status.",
		}, []string{"status"}),
		rejected: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "rejected_total",
			Help:      "Inputs rejected by validation, by error kind.",
		}, []string{"kind"}),
		duration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "solve_duration_seconds",
			Help:      "Wall time spent in the solver.",
			Buckets:   prometheus.ExponentialBuckets(0.0005, 4, 10),
		}),
		periods: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "plan_periods",
			Help:      "Horizon length of the last solved plan.",
		}),
		objective: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "plan_objective",
			Help:      "Total cost of the last optimal plan.",
		}),
	}
	for _, c := range []prometheus.Collector{r.solves, r.rejected, r.duration, r.periods, r.objective} {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}

	return r, nil
}

// ObserveSolve records one solver call.
func (r *Recorder) ObserveSolve(o planning.Outcome) {
	r.solves.WithLabelValues(o.Status.String()).Inc()
	r.duration.Observe(o.Elapsed.Seconds())
	r.periods.Set(float64(o.Periods))
	if o.Status == solver.StatusOptimal {
		r.objective.Set(o.Objective)
	}
}

// ObserveRejected records one rejected input.
func (r *Recorder) ObserveRejected(kind string) {
	r.rejected.WithLabelValues(kind).Inc()
}
