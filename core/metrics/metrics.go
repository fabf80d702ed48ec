// Package metrics defines the sink interface planning runs report into.
// The Prometheus implementation lives in infra/metrics; NopSink keeps
// metrics optional.
package metrics

import "time"

// Config defines settings for metrics exposition.
type Config struct {
	PrometheusEnabled bool   `json:"prometheus_enabled"`
	PrometheusPort    string `json:"prometheus_port"`
}

// SetDefaults applies sane defaults.
func (c *Config) SetDefaults() {
	if c.PrometheusPort == "" {
		c.PrometheusPort = ":9090"
	}
}

// Sink records the milestones of one planning run.
type Sink interface {
	// RecordModelSize captures the built model's dimensions.
	RecordModelSize(variables, constraints int)
	// RecordSolve captures one solve call's outcome.
	RecordSolve(status string, duration time.Duration, objective float64)
	// RecordScheduled captures the extraction summary.
	RecordScheduled(scheduled, total int)
}

// NopSink implements Sink with no-op methods.
type NopSink struct{}

func (NopSink) RecordModelSize(int, int)                  {}
func (NopSink) RecordSolve(string, time.Duration, float64) {}
func (NopSink) RecordScheduled(int, int)                  {}
