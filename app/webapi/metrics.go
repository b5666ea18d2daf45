package webapi

import (
	"context"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/umputun/scam-spotter/app/bot"
	"github.com/umputun/scam-spotter/lib/scamcheck"
)

// Metrics collects counters of checked items, registered in own registry
type Metrics struct {
	registry *prometheus.Registry
	checked  prometheus.Counter
	detected *prometheus.CounterVec
	failed   prometheus.Counter
	images   *prometheus.CounterVec
	duration prometheus.Histogram
}

// NewMetrics makes metrics with all collectors registered
func NewMetrics() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		checked: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "scam_spotter", Name: "checked_total", Help: "number of checked items",
		}),
		detected: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "scam_spotter", Name: "detected_total", Help: "number of matches per checker",
		}, []string{"checker"}),
		failed: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "scam_spotter", Name: "check_errors_total", Help: "number of failed checks",
		}),
		images: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "scam_spotter", Name: "images_total", Help: "number of images by result",
		}, []string{"result"}),
		duration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "scam_spotter", Name: "check_duration_seconds", Help: "check duration",
			Buckets: []float64{0.01, 0.05, 0.1, 0.5, 1, 2, 5, 10, 30},
		}),
	}
	m.registry.MustRegister(m.checked, m.detected, m.failed, m.images, m.duration)
	return m
}

// Record implements bot.Recorder, counts every checked item
func (m *Metrics) Record(_ context.Context, _ bot.Message, v scamcheck.Verdict) error {
	m.checked.Inc()
	m.duration.Observe(v.Duration.Seconds())
	m.images.WithLabelValues("recognized").Add(float64(v.Images))
	m.images.WithLabelValues("skipped").Add(float64(v.Skipped))
	for _, c := range v.Checks {
		m.detected.WithLabelValues(c.Name).Inc()
	}
	return nil
}

// Failed counts a failed check
func (m *Metrics) Failed() { m.failed.Inc() }

// Handler returns prometheus exposition handler
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
