package metrics

import (
	"fmt"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
)

func TestCheckoutMetricsExportsCountersAndHistogram(t *testing.T) {
	reg := prometheus.NewRegistry()
	metrics := NewCheckoutMetrics(reg)
	metrics.ObserveSubmit("cod", OutcomeSuccess, 250*time.Millisecond)
	metrics.ObserveSubmit("cod", OutcomeFailure, 10*time.Millisecond)
	metrics.AddRevenue("cod", 1000)
	metrics.AddRevenue("cod", 0)
	metrics.IncEvent(true)
	metrics.IncEvent(false)

	mfs, err := reg.Gather()
	if err != nil {
		t.Fatalf("gather metrics: %v", err)
	}

	if got, err := fetchCounterValue(mfs, "checkout_submissions_total", "outcome", OutcomeSuccess); err != nil {
		t.Fatalf("fetch success: %v", err)
	} else if got != 1 {
		t.Fatalf("expected success=1, got %f", got)
	}

	if got, err := fetchCounterValue(mfs, "orders_placed_amount_total", "payment_method", "cod"); err != nil {
		t.Fatalf("fetch revenue: %v", err)
	} else if got != 1000 {
		t.Fatalf("expected revenue=1000, got %f", got)
	}

	if got, err := fetchCounterValue(mfs, "order_events_published_total", "result", "error"); err != nil {
		t.Fatalf("fetch events: %v", err)
	} else if got != 1 {
		t.Fatalf("expected one failed event, got %f", got)
	}

	if got, err := fetchHistogramSum(mfs, "checkout_submit_duration_seconds", "payment_method", "cod"); err != nil {
		t.Fatalf("fetch duration: %v", err)
	} else if got <= 0 {
		t.Fatalf("expected duration sum > 0, got %f", got)
	}
}

func TestNilCheckoutMetricsAreNoops(t *testing.T) {
	var nilMetrics *CheckoutMetrics
	nilMetrics.ObserveSubmit("online", OutcomeSuccess, time.Second)
	nilMetrics.AddRevenue("online", 10)
	nilMetrics.IncEvent(true)

	unregistered := NewCheckoutMetrics(nil)
	unregistered.ObserveSubmit("", "", time.Second)
	unregistered.IncEvent(false)
}

func fetchCounterValue(mfs []*dto.MetricFamily, name, label, value string) (float64, error) {
	mf := findMetricFamily(mfs, name)
	if mf == nil {
		return 0, fmt.Errorf("metric %q not found", name)
	}
	for _, metric := range mf.GetMetric() {
		if matchesLabel(metric.GetLabel(), label, value) {
			return metric.GetCounter().GetValue(), nil
		}
	}
	return 0, fmt.Errorf("metric %q missing label %s=%s", name, label, value)
}

func fetchHistogramSum(mfs []*dto.MetricFamily, name, label, value string) (float64, error) {
	mf := findMetricFamily(mfs, name)
	if mf == nil {
		return 0, fmt.Errorf("metric %q not found", name)
	}
	for _, metric := range mf.GetMetric() {
		if matchesLabel(metric.GetLabel(), label, value) {
			return metric.GetHistogram().GetSampleSum(), nil
		}
	}
	return 0, fmt.Errorf("histogram %q missing label %s=%s", name, label, value)
}

func findMetricFamily(mfs []*dto.MetricFamily, name string) *dto.MetricFamily {
	for _, mf := range mfs {
		if mf.GetName() == name {
			return mf
		}
	}
	return nil
}

func matchesLabel(labels []*dto.LabelPair, name, value string) bool {
	for _, label := range labels {
		if label.GetName() == name && label.GetValue() == value {
			return true
		}
	}
	return false
}
