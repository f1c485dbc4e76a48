package metrics

import (
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type Metrics struct {
	// HTTP istek süreleri (route şablonuna göre)
	RequestDuration *prometheus.HistogramVec

	// Onay kararları: kind + outcome (approved/rejected)
	ApprovalDecisions *prometheus.CounterVec

	// Dönem taşımasıyla yeni döneme geçen kalem sayısı
	MigratedItems *prometheus.CounterVec

	// Son toplamada tür başına bekleyen onay sayısı
	PendingApprovals *prometheus.GaugeVec

	gatherer prometheus.Gatherer
}

// New metrikleri reg'e kaydeder. reg nil ise hiçbir yere bağlı olmayan
// yerel bir registry kullanılır (testler için).
func New(reg *prometheus.Registry) *Metrics {
	if reg == nil {
		reg = prometheus.NewRegistry()
	}

	return &Metrics{
		RequestDuration: promauto.With(reg).NewHistogramVec(prometheus.HistogramOpts{
			Name:    "bakim_http_request_duration_seconds",
			Help:    "Histogram of HTTP request latencies.",
			Buckets: []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5},
		}, []string{"method", "route", "status"}),

		ApprovalDecisions: promauto.With(reg).NewCounterVec(prometheus.CounterOpts{
			Name: "bakim_approval_decisions_total",
			Help: "Total number of approval decisions by kind and outcome.",
		}, []string{"kind", "outcome"}),

		MigratedItems: promauto.With(reg).NewCounterVec(prometheus.CounterOpts{
			Name: "bakim_migrated_items_total",
			Help: "Total number of control items moved between periods.",
		}, []string{"source", "target"}),

		PendingApprovals: promauto.With(reg).NewGaugeVec(prometheus.GaugeOpts{
			Name: "bakim_pending_approvals",
			Help: "Number of items awaiting approval at the last aggregation.",
		}, []string{"kind"}),

		gatherer: reg,
	}
}

// Aşağıdaki yardımcılar nil *Metrics ile de güvenle çağrılabilir.

func (m *Metrics) ObserveDecision(kind, outcome string) {
	if m == nil {
		return
	}
	m.ApprovalDecisions.WithLabelValues(kind, outcome).Inc()
}

func (m *Metrics) AddMigrated(source, target string, n int) {
	if m == nil || n <= 0 {
		return
	}
	m.MigratedItems.WithLabelValues(source, target).Add(float64(n))
}

func (m *Metrics) SetPending(kind string, n int) {
	if m == nil {
		return
	}
	m.PendingApprovals.WithLabelValues(kind).Set(float64(n))
}

// Middleware istek süresini route şablonu ile kaydeder.
func (m *Metrics) Middleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if m == nil {
			return c.Next()
		}
		start := time.Now()
		err := c.Next()

		status := c.Response().StatusCode()
		if err != nil {
			if fe, ok := err.(*fiber.Error); ok {
				status = fe.Code
			} else {
				status = fiber.StatusInternalServerError
			}
		}

		m.RequestDuration.
			WithLabelValues(c.Method(), c.Route().Path, strconv.Itoa(status)).
			Observe(time.Since(start).Seconds())
		return err
	}
}

// Handler /metrics endpoint'i.
func (m *Metrics) Handler() fiber.Handler {
	return adaptor.HTTPHandler(promhttp.HandlerFor(m.gatherer, promhttp.HandlerOpts{}))
}
