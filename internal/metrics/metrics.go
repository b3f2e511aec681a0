package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	RefreshTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "accessibility_refresh_total",
		Help: "Refresh cycles by outcome (success, surface_unavailable)",
	}, []string{"outcome"})
	RefreshDroppedTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "accessibility_refresh_dropped_total",
		Help: "Refresh triggers dropped because a cycle was already running",
	})
	RefreshDurationMs = prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "accessibility_refresh_duration_ms",
		Help:    "Full refresh cycle duration in milliseconds",
		Buckets: []float64{50, 100, 250, 500, 1000, 2500, 5000, 10000, 30000},
	})
	SurfaceRequestsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "accessibility_surface_requests_total",
		Help: "Requests to the analysis service by status",
	}, []string{"status"})
	PopulationLoadsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "accessibility_population_loads_total",
		Help: "Population loads by category and result",
	}, []string{"category", "result"})
	MalformedRowsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "accessibility_malformed_rows_total",
		Help: "Skipped malformed rows per category",
	}, []string{"category"})
	CategoryScore = prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Name: "accessibility_category_score",
		Help: "Latest published score per category and band",
	}, []string{"category", "band"})
)

func init() {
	prometheus.MustRegister(RefreshTotal)
	prometheus.MustRegister(RefreshDroppedTotal)
	prometheus.MustRegister(RefreshDurationMs)
	prometheus.MustRegister(SurfaceRequestsTotal)
	prometheus.MustRegister(PopulationLoadsTotal)
	prometheus.MustRegister(MalformedRowsTotal)
	prometheus.MustRegister(CategoryScore)
}

func Handler() http.Handler {
	return promhttp.Handler()
}
