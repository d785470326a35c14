// Package metrics instruments the store's lifecycle operations with
// prometheus collectors. A nil Recorder is a no-op so library consumers and
// tests can run uninstrumented.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Recorder holds the collectors the adapters report into.
type Recorder struct {
	adds          *prometheus.CounterVec
	updates       *prometheus.CounterVec
	rowsWritten   prometheus.Counter
	rowsSkipped   prometheus.Counter
	commitSeconds *prometheus.HistogramVec
	archives      *prometheus.CounterVec
}

// NewRecorder builds and registers the collector set. A nil registerer
// falls back to the prometheus default.
func NewRecorder(reg prometheus.Registerer) *Recorder {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	r := &Recorder{
		adds: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "witsml_log_adds_total",
			Help: "Log Add operations by outcome.",
		}, []string{"outcome"}),
		updates: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "witsml_log_updates_total",
			Help: "Log Update operations by outcome.",
		}, []string{"outcome"}),
		rowsWritten: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "witsml_rows_written_total",
			Help: "Bulk data points written through lifecycle commits.",
		}),
		rowsSkipped: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "witsml_rows_skipped_total",
			Help: "Inline rows dropped for an unreadable index value.",
		}),
		commitSeconds: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "witsml_commit_seconds",
			Help:    "Wall time of one atomic lifecycle commit.",
			Buckets: prometheus.ExponentialBuckets(0.001, 2, 12),
		}, []string{"op"}),
		archives: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "witsml_archive_total",
			Help: "Post-commit batch archival attempts by outcome.",
		}, []string{"outcome"}),
	}
	reg.MustRegister(r.adds, r.updates, r.rowsWritten, r.rowsSkipped, r.commitSeconds, r.archives)
	return r
}

func outcome(err error) string {
	if err != nil {
		return "error"
	}
	return "ok"
}

// ObserveAdd records one Add call.
func (r *Recorder) ObserveAdd(err error, dur time.Duration, points int64, skipped int64) {
	if r == nil {
		return
	}
	r.adds.WithLabelValues(outcome(err)).Inc()
	r.commitSeconds.WithLabelValues("add").Observe(dur.Seconds())
	if err == nil {
		r.rowsWritten.Add(float64(points))
		r.rowsSkipped.Add(float64(skipped))
	}
}

// ObserveUpdate records one Update call.
func (r *Recorder) ObserveUpdate(err error, dur time.Duration, points int64, skipped int64) {
	if r == nil {
		return
	}
	r.updates.WithLabelValues(outcome(err)).Inc()
	r.commitSeconds.WithLabelValues("update").Observe(dur.Seconds())
	if err == nil {
		r.rowsWritten.Add(float64(points))
		r.rowsSkipped.Add(float64(skipped))
	}
}

// ObserveArchive records one post-commit archival attempt.
func (r *Recorder) ObserveArchive(err error) {
	if r == nil {
		return
	}
	r.archives.WithLabelValues(outcome(err)).Inc()
}
