package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"

	coremetrics "github.com/mverel/caseplan/core/metrics"
)

// PromSink records planning runs in Prometheus metrics.
type PromSink struct {
	variables   prometheus.Gauge
	constraints prometheus.Gauge
	solves      *prometheus.CounterVec
	duration    *prometheus.HistogramVec
	scheduled   prometheus.Gauge
	total       prometheus.Gauge
	objective   prometheus.Gauge
}

// NewPromSink registers planner metrics on the default Prometheus
// registerer. The HTTP exposition server is started separately using
// cfg.PrometheusPort.
func NewPromSink(cfg coremetrics.Config) (coremetrics.Sink, error) {
	return NewPromSinkWithRegistry(cfg, prometheus.DefaultRegisterer)
}

// NewPromSinkWithRegistry registers metrics on the provided registerer.
// A nil registerer defaults to the global Prometheus registerer.
func NewPromSinkWithRegistry(_ coremetrics.Config, reg prometheus.Registerer) (coremetrics.Sink, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	s := &PromSink{
		variables: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "plan_model_variables",
			Help: "Number of assignment variables in the last built model",
		}),
		constraints: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "plan_model_constraints",
			Help: "Number of constraints in the last built model",
		}),
		solves: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "plan_solves_total",
			Help: "Total number of solve calls by outcome",
		}, []string{"status"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "plan_solve_duration_seconds",
			Help:    "Wall-clock time spent in the external solver",
			Buckets: prometheus.DefBuckets,
		}, []string{"status"}),
		scheduled: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "plan_cases_scheduled",
			Help: "Cases scheduled in the last run",
		}),
		total: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "plan_cases_total",
			Help: "Cases submitted in the last run",
		}),
		objective: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "plan_objective_value",
			Help: "Objective value achieved by the last solve",
		}),
	}

	collectors := []prometheus.Collector{
		s.variables, s.constraints, s.solves, s.duration, s.scheduled, s.total, s.objective,
	}
	for i, c := range collectors {
		if err := reg.Register(c); err != nil {
			are, ok := err.(prometheus.AlreadyRegisteredError)
			if !ok {
				return nil, err
			}
			switch i {
			case 2:
				s.solves = are.ExistingCollector.(*prometheus.CounterVec)
			case 3:
				s.duration = are.ExistingCollector.(*prometheus.HistogramVec)
			default:
				g := are.ExistingCollector.(prometheus.Gauge)
				switch i {
				case 0:
					s.variables = g
				case 1:
					s.constraints = g
				case 4:
					s.scheduled = g
				case 5:
					s.total = g
				case 6:
					s.objective = g
				}
			}
		}
	}
	return s, nil
}

// RecordModelSize sets the model dimension gauges.
func (s *PromSink) RecordModelSize(variables, constraints int) {
	s.variables.Set(float64(variables))
	s.constraints.Set(float64(constraints))
}

// RecordSolve counts the solve outcome and observes its duration.
func (s *PromSink) RecordSolve(status string, d time.Duration, objective float64) {
	s.solves.WithLabelValues(status).Inc()
	s.duration.WithLabelValues(status).Observe(d.Seconds())
	s.objective.Set(objective)
}

// RecordScheduled sets the extraction summary gauges.
func (s *PromSink) RecordScheduled(scheduled, total int) {
	s.scheduled.Set(float64(scheduled))
	s.total.Set(float64(total))
}
