package metrics

import (
	"net/http"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "pharmadesk"

// Registry holds every collector the console exports.
type Registry struct {
	reg *prometheus.Registry

	GatewayRequests *prometheus.CounterVec
	GatewayLatency  *prometheus.HistogramVec
	CacheLookups    *prometheus.CounterVec

	gauges *prometheus.GaugeVec
}

func NewRegistry() *Registry {
	r := prometheus.NewRegistry()
	requests := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "gateway_requests_total",
		Help:      "Gateway calls by operation and outcome.",
	}, []string{"op", "outcome"})
	latency := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "gateway_request_seconds",
		Buckets:   prometheus.DefBuckets,
	}, []string{"op"})
	lookups := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "cache_lookups_total",
	}, []string{"resource", "result"})
	gauges := prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "gauge",
		Help:      "Named point-in-time values (workspaces, process cpu/mem).",
	}, []string{"name"})

	r.MustRegister(requests, latency, lookups, gauges,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return &Registry{
		reg:             r,
		GatewayRequests: requests,
		GatewayLatency:  latency,
		CacheLookups:    lookups,
		gauges:          gauges,
	}
}

// ObserveGateway records one gateway round trip.
func (r *Registry) ObserveGateway(op string, started time.Time, err error) {
	if r == nil {
		return
	}
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	r.GatewayRequests.WithLabelValues(op, outcome).Inc()
	r.GatewayLatency.WithLabelValues(op).Observe(time.Since(started).Seconds())
}

// ObserveCache records a cache hit or miss.
func (r *Registry) ObserveCache(resource string, hit bool) {
	if r == nil {
		return
	}
	result := "miss"
	if hit {
		result = "hit"
	}
	r.CacheLookups.WithLabelValues(resource, result).Inc()
}

func (r *Registry) SetGauge(name string, value float64) {
	if r == nil {
		return
	}
	r.gauges.WithLabelValues(name).Set(value)
}

func (r *Registry) Handler() http.Handler {
	return promhttp.HandlerFor(r.reg, promhttp.HandlerOpts{})
}

// Gatherer exposes the underlying registry for tests.
func (r *Registry) Gatherer() prometheus.Gatherer {
	return r.reg
}

var (
	defaultRegistry *Registry
	defaultOnce     sync.Once
)

// Default returns the process-wide registry.
func Default() *Registry {
	defaultOnce.Do(func() {
		defaultRegistry = NewRegistry()
	})
	return defaultRegistry
}
