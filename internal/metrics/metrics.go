package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics owns its registry so several apps can live in one process (tests).
type Metrics struct {
	registry *prometheus.Registry

	Requests     *prometheus.CounterVec
	LatencyMS    *prometheus.HistogramVec
	CartActions  *prometheus.CounterVec
	Handoffs     prometheus.Counter
	Rejections   *prometheus.CounterVec
	SessionsLive prometheus.GaugeFunc
}

func New(liveSessions func() float64) *Metrics {
	reg := prometheus.NewRegistry()
	m := &Metrics{
		registry: reg,
		Requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "lacasa",
			Name:      "http_requests_total",
			Help:      "Total number of HTTP requests.",
		}, []string{"route", "status"}),
		LatencyMS: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "lacasa",
			Name:      "http_request_duration_ms",
			Help:      "HTTP request latency in milliseconds.",
			Buckets:   []float64{5, 10, 25, 50, 100, 250, 500, 1000, 2500, 5000},
		}, []string{"route"}),
		CartActions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "lacasa",
			Name:      "cart_actions_total",
			Help:      "Cart actions applied, by action.",
		}, []string{"action"}),
		Handoffs: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "lacasa",
			Name:      "order_handoffs_total",
			Help:      "Orders handed off to the messaging app.",
		}),
		Rejections: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "lacasa",
			Name:      "validation_rejections_total",
			Help:      "User input rejected, by reason.",
		}, []string{"reason"}),
	}
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.Requests, m.LatencyMS, m.CartActions, m.Handoffs, m.Rejections,
	)
	if liveSessions != nil {
		m.SessionsLive = prometheus.NewGaugeFunc(prometheus.GaugeOpts{
			Namespace: "lacasa",
			Name:      "sessions_live",
			Help:      "Sessions currently held in memory.",
		}, liveSessions)
		reg.MustRegister(m.SessionsLive)
	}
	return m
}

// Noop returns metrics that are recorded but never exposed.
func Noop() *Metrics { return New(nil) }

func (m *Metrics) Registry() *prometheus.Registry { return m.registry }

func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// Middleware records count and latency per matched route.
func (m *Metrics) Middleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		err := c.Next()
		route := c.Route().Path
		status := c.Response().StatusCode()
		if err != nil {
			if fe, ok := err.(*fiber.Error); ok {
				status = fe.Code
			} else {
				status = fiber.StatusInternalServerError
			}
		}
		m.Requests.WithLabelValues(route, strconv.Itoa(status)).Inc()
		m.LatencyMS.WithLabelValues(route).Observe(float64(time.Since(start).Milliseconds()))
		return err
	}
}
