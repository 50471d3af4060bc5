package metrics

import (
	"net/http"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"
)

var (
	registry     *prometheus.Registry
	registryOnce sync.Once

	// UploadsTotal counts accepted uploads per endpoint.
	UploadsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "voicepulse_uploads_total",
			Help: "Number of audio uploads received",
		},
		[]string{"endpoint"},
	)

	// AnalysesTotal counts analyses per mode and outcome.
	AnalysesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "voicepulse_analyses_total",
			Help: "Number of analyses run",
		},
		[]string{"mode", "outcome"},
	)

	// AnalysisDuration tracks end-to-end pipeline time per mode.
	AnalysisDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "voicepulse_analysis_duration_seconds",
			Help:    "End-to-end analysis duration",
			Buckets: prometheus.ExponentialBuckets(0.05, 2, 12),
		},
		[]string{"mode"},
	)

	// SegmentsPerAnalysis tracks how many windows each recording produced.
	SegmentsPerAnalysis = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "voicepulse_segments_per_analysis",
			Help:    "Segment count per full analysis",
			Buckets: prometheus.ExponentialBuckets(1, 2, 12),
		},
	)

	// ClassifierLatency tracks per-window classifier call time.
	ClassifierLatency = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "voicepulse_classifier_latency_seconds",
			Help:    "Latency of individual classifier calls",
			Buckets: prometheus.ExponentialBuckets(0.005, 2, 12),
		},
	)
)

// Init registers all metrics on a dedicated registry and returns the
// /metrics handler. Safe to call more than once.
func Init(log *logrus.Logger) http.Handler {
	registryOnce.Do(func() {
		registry = prometheus.NewRegistry()
		registry.MustRegister(
			UploadsTotal,
			AnalysesTotal,
			AnalysisDuration,
			SegmentsPerAnalysis,
			ClassifierLatency,
		)
		if log != nil {
			log.Info("Metrics registry initialized")
		}
	})
	return promhttp.HandlerFor(registry, promhttp.HandlerOpts{})
}
