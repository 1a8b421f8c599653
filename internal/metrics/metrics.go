package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	namespace = "userdeck"
)

var (
	directoryDurationBuckets = []float64{0.05, 0.1, 0.25, 0.5, 1, 2, 5, 10, 30}

	// Directory client metrics
	DirectoryRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "directory_requests_total",
		Help:      "Count of remote directory requests by operation and outcome.",
	}, []string{"operation", "outcome"})

	DirectoryRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "directory_request_duration_seconds",
		Help:      "Time taken for a remote directory request to complete.",
		Buckets:   directoryDurationBuckets,
	}, []string{"operation"})

	// Dashboard metrics
	PageFetchesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "page_fetches_total",
		Help:      "Count of reconciled dashboard page fetches by result.",
	}, []string{"result"})

	PageShortfallTotal = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "page_shortfall_total",
		Help:      "Reconciled pages that came back shorter than the page size while more records remained.",
	})

	DashboardControllers = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "dashboard_controllers",
		Help:      "Number of live dashboard controllers held in memory.",
	})

	// Session metrics
	SessionTeardownsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "session_teardowns_total",
		Help:      "Count of destroyed sign-in sessions by reason.",
	}, []string{"reason"})
)
