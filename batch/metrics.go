// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package batch

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics records run statistics in a Prometheus registry,
// typically written out for the node exporter's textfile collector.
type Metrics struct {
	reg         *prometheus.Registry
	examined    prometheus.Counter
	changed     prometheus.Counter
	occurrences *prometheus.CounterVec
	errors      *prometheus.CounterVec
	duration    prometheus.Histogram
	lastRun     prometheus.Gauge
}

// NewMetrics returns Metrics registered in a new registry.
// The rule set id is attached to every series as a constant label.
func NewMetrics(ruleSet string) *Metrics {
	labels := prometheus.Labels{"rule_set": ruleSet}
	m := &Metrics{
		reg: prometheus.NewRegistry(),
		examined: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace:   "rw",
			Name:        "files_examined_total",
			Help:        "Candidate files read successfully, whether or not a later step failed.",
			ConstLabels: labels,
		}),
		changed: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace:   "rw",
			Name:        "files_changed_total",
			Help:        "Files whose content changed or would change in a dry run.",
			ConstLabels: labels,
		}),
		occurrences: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace:   "rw",
			Name:        "rule_occurrences_total",
			Help:        "Replacements made, by rule.",
			ConstLabels: labels,
		}, []string{"rule"}),
		errors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace:   "rw",
			Name:        "file_errors_total",
			Help:        "Per-file failures, by operation.",
			ConstLabels: labels,
		}, []string{"op"}),
		duration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace:   "rw",
			Name:        "file_duration_seconds",
			Help:        "Time spent reading, rewriting, and writing one file.",
			ConstLabels: labels,
			Buckets:     prometheus.ExponentialBuckets(0.0001, 4, 8),
		}),
		lastRun: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace:   "rw",
			Name:        "last_run_timestamp_seconds",
			Help:        "Unix time the last run finished.",
			ConstLabels: labels,
		}),
	}
	m.reg.MustRegister(m.examined, m.changed, m.occurrences, m.errors, m.duration, m.lastRun)
	return m
}

// Registry returns the registry holding the metrics.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.reg
}

// WriteFile writes the metrics to name in the text exposition format.
func (m *Metrics) WriteFile(name string) error {
	return prometheus.WriteToTextfile(name, m.reg)
}

func (m *Metrics) file(counts map[string]int, changed bool, d time.Duration) {
	if m == nil {
		return
	}
	m.examined.Inc()
	m.duration.Observe(d.Seconds())
	if !changed {
		return
	}
	m.changed.Inc()
	for name, n := range counts {
		m.occurrences.WithLabelValues(name).Add(float64(n))
	}
}

func (m *Metrics) fail(op string) {
	if m == nil {
		return
	}
	m.errors.WithLabelValues(op).Inc()
}

func (m *Metrics) finish(t time.Time) {
	if m == nil {
		return
	}
	m.lastRun.Set(float64(t.Unix()))
}
