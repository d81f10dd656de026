package server

import (
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/hupe1980/lloyd"
	"github.com/hupe1980/lloyd/resource"
)

const namespace = "lloyd"

// Metrics exports clustering and HTTP metrics to Prometheus.
// It implements lloyd.MetricsCollector so sessions report into it directly.
type Metrics struct {
	registry *prometheus.Registry

	requests       *prometheus.CounterVec
	requestLatency *prometheus.HistogramVec
	fits           *prometheus.CounterVec
	fitLatency     prometheus.Histogram
	fitIterations  prometheus.Histogram
	steps          *prometheus.CounterVec
	stepLatency    prometheus.Histogram
}

var _ lloyd.MetricsCollector = (*Metrics)(nil)

// NewMetrics registers all collectors on reg. activeSessions and the
// controller's fit and memory usage are sampled at scrape time.
func NewMetrics(reg *prometheus.Registry, activeSessions func() float64, rc *resource.Controller) *Metrics {
	m := &Metrics{
		registry: reg,
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "HTTP requests by route, method and status code.",
		}, []string{"route", "method", "status"}),
		requestLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"route", "method"}),
		fits: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "fits_total",
			Help:      "Completed Fit calls by resulting state.",
		}, []string{"state"}),
		fitLatency: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "fit_duration_seconds",
			Help:      "Fit latency.",
			Buckets:   prometheus.ExponentialBuckets(0.0005, 4, 10),
		}),
		fitIterations: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "fit_iterations",
			Help:      "Committed iterations per successful Fit.",
			Buckets:   prometheus.ExponentialBuckets(1, 2, 10),
		}),
		steps: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "steps_total",
			Help:      "Step calls by resulting state.",
		}, []string{"state"}),
		stepLatency: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "step_duration_seconds",
			Help:      "Step latency.",
			Buckets:   prometheus.ExponentialBuckets(0.0001, 4, 10),
		}),
	}

	reg.MustRegister(
		m.requests,
		m.requestLatency,
		m.fits,
		m.fitLatency,
		m.fitIterations,
		m.steps,
		m.stepLatency,
		prometheus.NewGaugeFunc(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "active_sessions",
			Help:      "Step sessions currently held in the registry.",
		}, activeSessions),
		prometheus.NewGaugeFunc(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "active_fits",
			Help:      "Fit calls currently holding a slot.",
		}, func() float64 { return float64(rc.ActiveFits()) }),
		prometheus.NewGaugeFunc(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "inflight_point_bytes",
			Help:      "Point-set bytes reserved by in-flight requests.",
		}, func() float64 { return float64(rc.MemoryUsage()) }),
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

// RecordFit implements lloyd.MetricsCollector.
func (m *Metrics) RecordFit(iterations int, state lloyd.State, d time.Duration, err error) {
	m.fitLatency.Observe(d.Seconds())
	if err != nil {
		m.fits.WithLabelValues("error").Inc()
		return
	}
	m.fits.WithLabelValues(state.String()).Inc()
	m.fitIterations.Observe(float64(iterations))
}

// RecordStep implements lloyd.MetricsCollector.
func (m *Metrics) RecordStep(_ int, state lloyd.State, d time.Duration, err error) {
	m.stepLatency.Observe(d.Seconds())
	if err != nil {
		m.steps.WithLabelValues("error").Inc()
		return
	}
	m.steps.WithLabelValues(state.String()).Inc()
}

func (m *Metrics) observeRequest(route, method string, status int, d time.Duration) {
	m.requests.WithLabelValues(route, method, strconv.Itoa(status)).Inc()
	m.requestLatency.WithLabelValues(route, method).Observe(d.Seconds())
}

// Handler serves the Prometheus exposition format.
func (m *Metrics) Handler() fiber.Handler {
	return adaptor.HTTPHandler(promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{}))
}
