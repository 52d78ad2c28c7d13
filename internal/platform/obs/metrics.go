package obs

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

var (
	// Registry is the dedicated Prometheus registry for the service.
	Registry = prometheus.NewRegistry()

	HTTPRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "http_requests_total", Help: "Total HTTP requests."},
		[]string{"method", "path", "status"},
	)
	HTTPDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{Name: "http_request_duration_seconds", Help: "HTTP request duration in seconds.", Buckets: prometheus.DefBuckets},
		[]string{"method", "path", "status"},
	)

	// OracleRequests counts lookups that missed the cache and reached the oracle.
	OracleRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "oracle_requests_total", Help: "Travel oracle lookups by outcome."},
		[]string{"outcome"},
	)
	CacheLookups = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "distance_cache_lookups_total", Help: "Distance cache lookups by result."},
		[]string{"result"},
	)
	RouteComputations = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "route_computations_total", Help: "Route computations by algorithm and status."},
		[]string{"algorithm", "status"},
	)
	RouteDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{Name: "route_computation_seconds", Help: "Route computation wall time in seconds.", Buckets: []float64{0.01, 0.05, 0.1, 0.5, 1, 2, 5, 10, 30, 60}},
		[]string{"algorithm"},
	)
)

var regOnce sync.Once

// RegisterDefault registers collectors on Registry. Safe to call more than once.
func RegisterDefault() {
	regOnce.Do(func() {
		Registry.MustRegister(HTTPRequests)
		Registry.MustRegister(HTTPDuration)
		Registry.MustRegister(OracleRequests)
		Registry.MustRegister(CacheLookups)
		Registry.MustRegister(RouteComputations)
		Registry.MustRegister(RouteDuration)
		Registry.MustRegister(collectors.NewGoCollector())
		Registry.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	})
}

// RegisterCacheSize exposes the size of the in-process distance cache.
func RegisterCacheSize(size func() int) {
	Registry.MustRegister(prometheus.NewGaugeFunc(
		prometheus.GaugeOpts{Name: "distance_cache_memory_entries", Help: "Entries held by the in-process distance cache."},
		func() float64 { return float64(size()) },
	))
}
