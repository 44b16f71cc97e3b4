package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// SyncMetrics records outcomes of master-data sync runs and document pushes.
type SyncMetrics struct {
	runDuration *prometheus.HistogramVec
	runSuccess  *prometheus.CounterVec
	runFailure  *prometheus.CounterVec
	rowUpserts  *prometheus.CounterVec
	pushResults *prometheus.CounterVec
}

// NewSyncMetrics registers the sync collectors on the provided registerer.
func NewSyncMetrics(reg prometheus.Registerer) *SyncMetrics {
	if reg == nil {
		return &SyncMetrics{}
	}
	runDuration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "sync_run_duration_seconds",
		Help:    "Duration of sync runs in seconds.",
		Buckets: prometheus.DefBuckets,
	}, []string{"entity"})
	runSuccess := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "sync_run_success",
		Help: "Successful sync runs.",
	}, []string{"entity"})
	runFailure := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "sync_run_failure",
		Help: "Failed sync runs.",
	}, []string{"entity"})
	rowUpserts := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "sync_rows_written",
		Help: "Master-data rows written by sync runs.",
	}, []string{"entity", "op"})
	pushResults := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "document_push_attempts",
		Help: "Outbound document push attempts by result.",
	}, []string{"result"})
	reg.MustRegister(runDuration, runSuccess, runFailure, rowUpserts, pushResults)
	return &SyncMetrics{
		runDuration: runDuration,
		runSuccess:  runSuccess,
		runFailure:  runFailure,
		rowUpserts:  rowUpserts,
		pushResults: pushResults,
	}
}

// ObserveRunDuration records the duration of a run for the named entity.
func (s *SyncMetrics) ObserveRunDuration(entity string, duration time.Duration) {
	if s == nil || s.runDuration == nil {
		return
	}
	s.runDuration.WithLabelValues(normalizeLabel(entity)).Observe(duration.Seconds())
}

// IncRunSuccess increments the success counter for the named entity.
func (s *SyncMetrics) IncRunSuccess(entity string) {
	if s == nil || s.runSuccess == nil {
		return
	}
	s.runSuccess.WithLabelValues(normalizeLabel(entity)).Inc()
}

// IncRunFailure increments the failure counter for the named entity.
func (s *SyncMetrics) IncRunFailure(entity string) {
	if s == nil || s.runFailure == nil {
		return
	}
	s.runFailure.WithLabelValues(normalizeLabel(entity)).Inc()
}

// AddRowsWritten accumulates created/updated row counts for an entity.
func (s *SyncMetrics) AddRowsWritten(entity, op string, n int) {
	if s == nil || s.rowUpserts == nil || n <= 0 {
		return
	}
	s.rowUpserts.WithLabelValues(normalizeLabel(entity), normalizeLabel(op)).Add(float64(n))
}

// IncPushResult counts one outbound push attempt by terminal result.
func (s *SyncMetrics) IncPushResult(result string) {
	if s == nil || s.pushResults == nil {
		return
	}
	s.pushResults.WithLabelValues(normalizeLabel(result)).Inc()
}

func normalizeLabel(label string) string {
	if label == "" {
		return "unknown"
	}
	return label
}
