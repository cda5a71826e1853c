package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Checkout submission outcomes.
const (
	OutcomeSuccess    = "success"
	OutcomeValidation = "validation"
	OutcomeFailure    = "failure"
	OutcomeConflict   = "conflict"
)

// CheckoutMetrics records checkout submissions and order event publishing.
type CheckoutMetrics struct {
	duration    *prometheus.HistogramVec
	submissions *prometheus.CounterVec
	revenue     *prometheus.CounterVec
	events      *prometheus.CounterVec
}

// NewCheckoutMetrics registers the checkout metrics on the provided registerer.
// A nil registerer yields a no-op recorder.
func NewCheckoutMetrics(reg prometheus.Registerer) *CheckoutMetrics {
	if reg == nil {
		return &CheckoutMetrics{}
	}
	duration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "checkout_submit_duration_seconds",
		Help:    "Duration of checkout submissions in seconds.",
		Buckets: prometheus.DefBuckets,
	}, []string{"payment_method"})
	submissions := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "checkout_submissions_total",
		Help: "Checkout submissions by payment method and outcome.",
	}, []string{"payment_method", "outcome"})
	revenue := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "orders_placed_amount_total",
		Help: "Sum of placed order amounts in rupees.",
	}, []string{"payment_method"})
	events := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "order_events_published_total",
		Help: "Order events handed to the events backend, by result.",
	}, []string{"result"})
	reg.MustRegister(duration, submissions, revenue, events)
	return &CheckoutMetrics{
		duration:    duration,
		submissions: submissions,
		revenue:     revenue,
		events:      events,
	}
}

// ObserveSubmit records one submission attempt.
func (c *CheckoutMetrics) ObserveSubmit(method, outcome string, duration time.Duration) {
	if c == nil || c.submissions == nil {
		return
	}
	method = normalizeLabel(method)
	c.submissions.WithLabelValues(method, normalizeLabel(outcome)).Inc()
	c.duration.WithLabelValues(method).Observe(duration.Seconds())
}

// AddRevenue adds a placed order amount.
func (c *CheckoutMetrics) AddRevenue(method string, amount int) {
	if c == nil || c.revenue == nil || amount <= 0 {
		return
	}
	c.revenue.WithLabelValues(normalizeLabel(method)).Add(float64(amount))
}

// IncEvent counts an event publish attempt; ok=false counts a failure.
func (c *CheckoutMetrics) IncEvent(ok bool) {
	if c == nil || c.events == nil {
		return
	}
	result := "ok"
	if !ok {
		result = "error"
	}
	c.events.WithLabelValues(result).Inc()
}

func normalizeLabel(v string) string {
	if v == "" {
		return "unknown"
	}
	return v
}
