package service

import (
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/petraflow/wellscope/services/rta-service/internal/models"
)

var (
	calculationDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "rta_blasingame_calculation_duration_seconds",
		Help:    "Duration of Blasingame calculations in seconds",
		Buckets: prometheus.DefBuckets,
	})

	calculationsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "rta_blasingame_calculations_total",
		Help: "Total number of Blasingame calculations",
	}, []string{"result"})

	matchEvaluationDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "rta_match_evaluation_duration_seconds",
		Help:    "Duration of type-curve match evaluations in seconds",
		Buckets: []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1},
	})

	matchEvaluationsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "rta_match_evaluations_total",
		Help: "Total number of type-curve match evaluations",
	})

	lastMatchScore = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "rta_last_match_r2",
		Help: "R2 of the most recent type-curve match",
	})

	regimeSegmentsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "rta_regime_segments_total",
		Help: "Total number of classified flow regime segments",
	}, []string{"regime"})

	datasetsImportedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "rta_datasets_imported_total",
		Help: "Total number of imported production datasets",
	}, []string{"source"})

	httpRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "rta_http_request_duration_seconds",
		Help:    "Duration of HTTP requests in seconds",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "path"})

	httpRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "rta_http_requests_total",
		Help: "Total number of HTTP requests",
	}, []string{"method", "path", "status"})
)

// RecordHTTPRequest records duration and status of a handled HTTP request.
func RecordHTTPRequest(method, path string, seconds float64, status int) {
	httpRequestDuration.WithLabelValues(method, path).Observe(seconds)
	httpRequestsTotal.WithLabelValues(method, path, strconv.Itoa(status)).Inc()
}

// RecordCalculation records one Blasingame calculation.
func RecordCalculation(seconds float64, err error) {
	calculationDuration.Observe(seconds)
	result := "success"
	if err != nil {
		result = "error"
	}
	calculationsTotal.WithLabelValues(result).Inc()
}

// RecordMatchEvaluation records one interactive match evaluation.
func RecordMatchEvaluation(seconds float64, quality models.MatchQuality) {
	matchEvaluationDuration.Observe(seconds)
	matchEvaluationsTotal.Inc()
	lastMatchScore.Set(quality.R2)
}

// RecordRegimeSegments counts classified segments by regime.
func RecordRegimeSegments(segments []models.FlowRegimeSegment) {
	for _, s := range segments {
		regimeSegmentsTotal.WithLabelValues(string(s.Regime)).Inc()
	}
}

// RecordDatasetImported counts an imported dataset by source.
func RecordDatasetImported(source string) {
	datasetsImportedTotal.WithLabelValues(source).Inc()
}
