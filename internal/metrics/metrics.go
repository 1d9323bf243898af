package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Fetch outcomes reported by the coordinator.
const (
	OutcomeNotModified = "cache_hit_not_modified"
	OutcomeFresh       = "cache_hit_fresh"
	OutcomeNetwork     = "network"
	OutcomeFallback    = "fallback"
	OutcomeError       = "error"
)

// Recorder receives fetch and request observations.
type Recorder interface {
	ObserveFetch(outcome string, d time.Duration)
	ObserveRequest(method, path string, status int, d time.Duration)
}

// Nop discards every observation.
type Nop struct{}

func (Nop) ObserveFetch(string, time.Duration)                 {}
func (Nop) ObserveRequest(string, string, int, time.Duration) {}

// Prometheus records into collectors registered on its own registry.
type Prometheus struct {
	Registry *prometheus.Registry

	fetchTotal      *prometheus.CounterVec
	fetchDuration   *prometheus.HistogramVec
	requestTotal    *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec
}

func NewPrometheus() *Prometheus {
	p := &Prometheus{
		Registry: prometheus.NewRegistry(),
		fetchTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "artcrate_fetch_total",
				Help: "Asset fetch calls by outcome",
			},
			[]string{"outcome"},
		),
		fetchDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "artcrate_fetch_duration_seconds",
				Help:    "Asset fetch duration in seconds by outcome",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"outcome"},
		),
		requestTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"method", "path", "status"},
		),
		requestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "http_request_duration_seconds",
				Help:    "HTTP request duration in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "path", "status"},
		),
	}
	p.Registry.MustRegister(p.fetchTotal, p.fetchDuration, p.requestTotal, p.requestDuration)
	return p
}

func (p *Prometheus) ObserveFetch(outcome string, d time.Duration) {
	p.fetchTotal.WithLabelValues(outcome).Inc()
	p.fetchDuration.WithLabelValues(outcome).Observe(d.Seconds())
}

func (p *Prometheus) ObserveRequest(method, path string, status int, d time.Duration) {
	s := strconv.Itoa(status)
	p.requestTotal.WithLabelValues(method, path, s).Inc()
	p.requestDuration.WithLabelValues(method, path, s).Observe(d.Seconds())
}
