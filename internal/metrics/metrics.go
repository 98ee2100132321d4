// Package metrics exposes Prometheus collectors for the bookmark service.
package metrics

import (
	"net/http"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	bookmarkUpsertsTotal *prometheus.CounterVec
	bookmarkRemovesTotal *prometheus.CounterVec
	mutationErrorsTotal  *prometheus.CounterVec
	activeSubscriptions  prometheus.Gauge

	once sync.Once
)

// Init initializes the Prometheus metrics collectors.
// It is safe to call this function multiple times.
func Init() {
	once.Do(func() {
		bookmarkUpsertsTotal = promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "newsclip_bookmark_upserts_total",
				Help: "Total number of bookmark upserts, labeled by kind.",
			},
			[]string{"kind"},
		)

		bookmarkRemovesTotal = promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "newsclip_bookmark_removes_total",
				Help: "Total number of bookmark removals, labeled by kind.",
			},
			[]string{"kind"},
		)

		mutationErrorsTotal = promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "newsclip_mutation_errors_total",
				Help: "Total number of failed mutations, labeled by kind and class.",
			},
			[]string{"kind", "class"},
		)

		activeSubscriptions = promauto.NewGauge(
			prometheus.GaugeOpts{
				Name: "newsclip_active_subscriptions",
				Help: "Number of live collection subscriptions.",
			},
		)
	})
}

// RecordUpsert counts one successful upsert.
func RecordUpsert(kind string) {
	if bookmarkUpsertsTotal != nil {
		bookmarkUpsertsTotal.WithLabelValues(kind).Inc()
	}
}

// RecordRemove counts one successful removal.
func RecordRemove(kind string) {
	if bookmarkRemovesTotal != nil {
		bookmarkRemovesTotal.WithLabelValues(kind).Inc()
	}
}

// RecordMutationError counts one failed mutation. class is either
// "invalid_argument" or "transport".
func RecordMutationError(kind, class string) {
	if mutationErrorsTotal != nil {
		mutationErrorsTotal.WithLabelValues(kind, class).Inc()
	}
}

// SubscriptionStarted marks one more live subscription.
func SubscriptionStarted() {
	if activeSubscriptions != nil {
		activeSubscriptions.Inc()
	}
}

// SubscriptionEnded marks one fewer live subscription.
func SubscriptionEnded() {
	if activeSubscriptions != nil {
		activeSubscriptions.Dec()
	}
}

// Handler returns the HTTP handler serving the metrics endpoint.
func Handler() http.Handler {
	return promhttp.Handler()
}
