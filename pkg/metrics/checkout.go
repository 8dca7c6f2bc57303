package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const (
	OutcomeSuccess       = "success"
	OutcomeProviderError = "provider_error"
	OutcomeStorageError  = "storage_error"
	OutcomeRejected      = "rejected"
)

// CheckoutMetrics tracks checkout outcomes and payment provider latency.
type CheckoutMetrics struct {
	orders   *prometheus.CounterVec
	provider *prometheus.HistogramVec
}

// NewCheckoutMetrics registers the checkout metrics on the provided registerer.
func NewCheckoutMetrics(reg prometheus.Registerer) *CheckoutMetrics {
	if reg == nil {
		return &CheckoutMetrics{}
	}
	orders := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "checkout_total",
		Help:      "Checkout attempts by provider and outcome.",
	}, []string{"provider", "outcome"})
	provider := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "payment_provider_duration_seconds",
		Help:      "Latency of payment preference creation.",
		Buckets:   []float64{0.1, 0.25, 0.5, 1, 2.5, 5, 10},
	}, []string{"provider"})
	reg.MustRegister(orders, provider)
	return &CheckoutMetrics{orders: orders, provider: provider}
}

// IncOutcome counts a finished checkout attempt.
func (c *CheckoutMetrics) IncOutcome(provider, outcome string) {
	if c == nil || c.orders == nil {
		return
	}
	c.orders.WithLabelValues(normalizeLabel(provider), normalizeLabel(outcome)).Inc()
}

// ObserveProvider records how long the provider call took.
func (c *CheckoutMetrics) ObserveProvider(provider string, elapsed time.Duration) {
	if c == nil || c.provider == nil {
		return
	}
	c.provider.WithLabelValues(normalizeLabel(provider)).Observe(elapsed.Seconds())
}
