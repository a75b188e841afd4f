package services

import (
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/justsurfingit/careers-portal/internal/models"
)

type submitMetrics struct {
	attempts *prometheus.CounterVec
	latency  *prometheus.HistogramVec
	sessions prometheus.Gauge
}

var metricsSingleton = sync.OnceValue(func() *submitMetrics {
	return &submitMetrics{
		attempts: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: "careers",
			Name:      "application_submit_total",
			Help:      "Total number of application submit attempts by outcome.",
		}, []string{"outcome"}),
		latency: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "careers",
			Name:      "application_submit_seconds",
			Help:      "Latency of application submit attempts, endpoint call included.",
			Buckets:   []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2, 5, 10, 20},
		}, []string{"outcome"}),
		sessions: promauto.NewGauge(prometheus.GaugeOpts{
			Namespace: "careers",
			Name:      "sessions_active",
			Help:      "Number of visitor sessions holding form state.",
		}),
	}
})

func getMetrics() *submitMetrics {
	return metricsSingleton()
}

func (m *submitMetrics) observe(outcome models.Outcome, d time.Duration) {
	m.attempts.WithLabelValues(string(outcome)).Inc()
	m.latency.WithLabelValues(string(outcome)).Observe(d.Seconds())
}
