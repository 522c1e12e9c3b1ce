// Package metrics exposes conversion telemetry as Prometheus metrics on a
// private registry, keeping the /metrics output free of unrelated globals.
package metrics

import (
	"net/http"
	"time"

	prom "github.com/prometheus/client_golang/prometheus"
	promhttp "github.com/prometheus/client_golang/prometheus/promhttp"
)

// Conversion outcome labels.
const (
	OutcomeOK       = "ok"
	OutcomeDegraded = "degraded"
	OutcomeError    = "error"
)

// Image fetch result labels.
const (
	FetchOK       = "ok"
	FetchDenied   = "denied"
	FetchTooLarge = "too_large"
	FetchTimeout  = "timeout"
	FetchError    = "error"
)

// Recorder registers and updates the service metrics.
type Recorder struct {
	registry *prom.Registry

	conversions  *prom.CounterVec
	duration     prom.Histogram
	imageFetches *prom.CounterVec
}

// NewRecorder constructs a recorder backed by reg; a nil reg gets a fresh
// private registry.
func NewRecorder(reg *prom.Registry) *Recorder {
	if reg == nil {
		reg = prom.NewRegistry()
	}
	r := &Recorder{registry: reg}
	r.conversions = prom.NewCounterVec(prom.CounterOpts{
		Namespace: "md2docx",
		Name:      "conversions_total",
		Help:      "Conversion counts by outcome",
	}, []string{"outcome"})
	r.duration = prom.NewHistogram(prom.HistogramOpts{
		Namespace: "md2docx",
		Name:      "conversion_duration_seconds",
		Help:      "End-to-end conversion duration",
		Buckets:   prom.DefBuckets,
	})
	r.imageFetches = prom.NewCounterVec(prom.CounterOpts{
		Namespace: "md2docx",
		Name:      "image_fetch_total",
		Help:      "Remote image fetch attempts by result",
	}, []string{"result"})
	reg.MustRegister(r.conversions, r.duration, r.imageFetches)
	return r
}

func (r *Recorder) ObserveConversion(outcome string, d time.Duration) {
	if r == nil {
		return
	}
	r.conversions.WithLabelValues(outcome).Inc()
	r.duration.Observe(d.Seconds())
}

func (r *Recorder) IncImageFetch(result string) {
	if r == nil {
		return
	}
	r.imageFetches.WithLabelValues(result).Inc()
}

// HTTPHandler serves the recorder's registry for scraping.
func (r *Recorder) HTTPHandler() http.Handler {
	return promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{EnableOpenMetrics: true})
}
