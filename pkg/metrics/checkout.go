package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// CheckoutMetrics records outcome counters and latency for the sale
// checkout transaction.
type CheckoutMetrics struct {
	duration   *prometheus.HistogramVec
	success    *prometheus.CounterVec
	failure    *prometheus.CounterVec
	stockClamp prometheus.Counter
}

// NewCheckoutMetrics registers checkout metrics on the provided registerer.
func NewCheckoutMetrics(reg prometheus.Registerer) *CheckoutMetrics {
	if reg == nil {
		return &CheckoutMetrics{}
	}
	duration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "checkout_duration_seconds",
		Help:    "Duration of checkout transactions in seconds.",
		Buckets: prometheus.DefBuckets,
	}, []string{"shop"})
	success := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "checkout_success",
		Help: "Completed checkout transactions.",
	}, []string{"shop"})
	failure := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "checkout_failure",
		Help: "Failed checkout transactions.",
	}, []string{"shop", "code"})
	stockClamp := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "stock_clamped_total",
		Help: "Outbound stock movements clamped at zero stock.",
	})
	reg.MustRegister(duration, success, failure, stockClamp)
	return &CheckoutMetrics{
		duration:   duration,
		success:    success,
		failure:    failure,
		stockClamp: stockClamp,
	}
}

// ObserveDuration records the transaction duration for one shop.
func (c *CheckoutMetrics) ObserveDuration(shop string, duration time.Duration) {
	if c == nil || c.duration == nil {
		return
	}
	c.duration.WithLabelValues(normalizeLabel(shop)).Observe(duration.Seconds())
}

// IncSuccess increments the success counter for one shop.
func (c *CheckoutMetrics) IncSuccess(shop string) {
	if c == nil || c.success == nil {
		return
	}
	c.success.WithLabelValues(normalizeLabel(shop)).Inc()
}

// IncFailure increments the failure counter for one shop and error code.
func (c *CheckoutMetrics) IncFailure(shop, code string) {
	if c == nil || c.failure == nil {
		return
	}
	c.failure.WithLabelValues(normalizeLabel(shop), normalizeLabel(code)).Inc()
}

// IncStockClamp counts an outbound movement that hit the zero-stock floor.
func (c *CheckoutMetrics) IncStockClamp() {
	if c == nil || c.stockClamp == nil {
		return
	}
	c.stockClamp.Inc()
}

func normalizeLabel(value string) string {
	if value == "" {
		return "unknown"
	}
	return value
}
