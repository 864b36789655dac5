// Package metrics registers the Prometheus instruments the demo gateway
// exposes for the share/unwrap protocol operations.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the Prometheus instruments for the demo sharing gateway.
type Metrics struct {
	ShareTotal          prometheus.Counter
	UnwrapTotal         prometheus.Counter
	UnwrapFailuresTotal *prometheus.CounterVec
	EncryptLatency      prometheus.Histogram
	DecryptLatency      prometheus.Histogram
	ResolverCacheHits   prometheus.Counter
	ResolverCacheMisses prometheus.Counter
}

// New creates and registers the gateway's Prometheus metrics.
func New() *Metrics {
	return &Metrics{
		ShareTotal: promauto.NewCounter(prometheus.CounterOpts{
			Name: "itcrypto_share_total",
			Help: "Total number of logs successfully shared (encrypted).",
		}),
		UnwrapTotal: promauto.NewCounter(prometheus.CounterOpts{
			Name: "itcrypto_unwrap_total",
			Help: "Total number of tokens successfully unwrapped (decrypted and verified).",
		}),
		UnwrapFailuresTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "itcrypto_unwrap_failures_total",
			Help: "Total number of failed unwrap attempts, labeled by protocol error code.",
		}, []string{"reason"}),
		EncryptLatency: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "itcrypto_encrypt_latency_seconds",
			Help:    "Latency of EncryptionService.Encrypt calls.",
			Buckets: prometheus.DefBuckets,
		}),
		DecryptLatency: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "itcrypto_decrypt_latency_seconds",
			Help:    "Latency of DecryptionService.Decrypt calls.",
			Buckets: prometheus.DefBuckets,
		}),
		ResolverCacheHits: promauto.NewCounter(prometheus.CounterOpts{
			Name: "itcrypto_resolver_cache_hits_total",
			Help: "Total number of UserResolver lookups served from cache.",
		}),
		ResolverCacheMisses: promauto.NewCounter(prometheus.CounterOpts{
			Name: "itcrypto_resolver_cache_misses_total",
			Help: "Total number of UserResolver lookups that missed the cache.",
		}),
	}
}

// ObserveShare records a successful share (encrypt) operation.
func (m *Metrics) ObserveShare(durationSeconds float64) {
	m.ShareTotal.Inc()
	m.EncryptLatency.Observe(durationSeconds)
}

// ObserveUnwrap records a successful unwrap (decrypt) operation.
func (m *Metrics) ObserveUnwrap(durationSeconds float64) {
	m.UnwrapTotal.Inc()
	m.DecryptLatency.Observe(durationSeconds)
}

// ObserveUnwrapFailure records a rejected unwrap, labeled by protocol error code.
func (m *Metrics) ObserveUnwrapFailure(reason string) {
	m.UnwrapFailuresTotal.WithLabelValues(reason).Inc()
}
