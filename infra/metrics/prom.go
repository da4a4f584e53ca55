package metrics

import (
	"strconv"

	"github.com/prometheus/client_golang/prometheus"

	coremetrics "github.com/evtrip/planner/core/metrics"
)

// PromSink records planning events in Prometheus metrics.
type PromSink struct {
	plans        *prometheus.CounterVec
	energy       *prometheus.HistogramVec
	multiplier   prometheus.Histogram
	sourceErrors *prometheus.CounterVec
}

// NewPromSink registers planning metrics on the provided registerer. If reg is
// nil, the default registerer is used. Already-registered collectors are
// reused.
func NewPromSink(reg prometheus.Registerer) (*PromSink, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	plans := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "trip_plans_total",
		Help: "Total number of computed trip plans",
	}, []string{"vehicle", "drive_mode", "needs_charging"})
	energy := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "trip_plan_energy_kwh",
		Help:    "Adjusted energy estimate per plan",
		Buckets: prometheus.ExponentialBuckets(1, 2, 8),
	}, []string{"vehicle"})
	multiplier := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "trip_plan_adjustment_multiplier",
		Help:    "Total environmental adjustment multiplier per plan",
		Buckets: []float64{1, 1.05, 1.1, 1.25, 1.5, 2, 3},
	})
	sourceErrors := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "plan_source_errors_total",
		Help: "Degraded external source readings",
	}, []string{"source"})

	for _, c := range []prometheus.Collector{plans, energy, multiplier, sourceErrors} {
		if err := reg.Register(c); err != nil {
			are, ok := err.(prometheus.AlreadyRegisteredError)
			if !ok {
				return nil, err
			}
			switch existing := are.ExistingCollector.(type) {
			case *prometheus.CounterVec:
				if c == plans {
					plans = existing
				} else {
					sourceErrors = existing
				}
			case *prometheus.HistogramVec:
				energy = existing
			case prometheus.Histogram:
				multiplier = existing
			}
		}
	}

	return &PromSink{plans: plans, energy: energy, multiplier: multiplier, sourceErrors: sourceErrors}, nil
}

// RecordPlan increments the plan counter and observes the estimate.
func (s *PromSink) RecordPlan(ev coremetrics.PlanEvent) error {
	s.plans.WithLabelValues(ev.Vehicle, ev.DriveMode, strconv.FormatBool(ev.NeedsCharging)).Inc()
	s.energy.WithLabelValues(ev.Vehicle).Observe(ev.AdjustedKWh)
	s.multiplier.Observe(ev.Multiplier)
	return nil
}

// RecordSourceError counts a degraded source reading.
func (s *PromSink) RecordSourceError(ev coremetrics.SourceErrorEvent) error {
	s.sourceErrors.WithLabelValues(ev.Source).Inc()
	return nil
}
