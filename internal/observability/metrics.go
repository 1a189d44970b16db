package observability

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	registerOnce          sync.Once
	classroomRequests     *prometheus.CounterVec
	classroomLatency      *prometheus.HistogramVec
	dashboardCacheLookups *prometheus.CounterVec
)

// RegisterMetrics registers the collectors with the default registry once.
func RegisterMetrics() {
	registerOnce.Do(func() {
		classroomRequests = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "classroom_api_requests_total",
			Help: "Total number of Google Classroom API calls by operation and outcome.",
		}, []string{"operation", "status"})

		classroomLatency = prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "classroom_api_latency_seconds",
			Help:    "Latency distribution of Google Classroom API calls.",
			Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1.0, 2.0, 5.0},
		}, []string{"operation"})

		dashboardCacheLookups = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "dashboard_cache_lookups_total",
			Help: "Dashboard cache lookups by result (hit, miss, error).",
		}, []string{"result"})

		prometheus.MustRegister(classroomRequests, classroomLatency, dashboardCacheLookups)
	})
}

func ClassroomRequests() *prometheus.CounterVec {
	RegisterMetrics()
	return classroomRequests
}

func ClassroomLatency() *prometheus.HistogramVec {
	RegisterMetrics()
	return classroomLatency
}

func DashboardCacheLookups() *prometheus.CounterVec {
	RegisterMetrics()
	return dashboardCacheLookups
}
