package metrics

import (
	"io"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func value(t *testing.T, c prometheus.Metric) float64 {
	t.Helper()
	var out dto.Metric
	require.NoError(t, c.Write(&out))
	if out.Counter != nil {
		return out.Counter.GetValue()
	}
	return out.Gauge.GetValue()
}

func TestHelpersCountValues(t *testing.T) {
	m := New(prometheus.NewRegistry())

	m.ObserveDecision("control", "approved")
	m.ObserveDecision("control", "approved")
	m.ObserveDecision("ybs", "rejected")
	m.AddMigrated("Haftalık", "Aylık", 3)
	m.AddMigrated("Haftalık", "Aylık", 0)
	m.SetPending("bagtv", 4)

	assert.Equal(t, 2.0, value(t, m.ApprovalDecisions.WithLabelValues("control", "approved")))
	assert.Equal(t, 1.0, value(t, m.ApprovalDecisions.WithLabelValues("ybs", "rejected")))
	assert.Equal(t, 3.0, value(t, m.MigratedItems.WithLabelValues("Haftalık", "Aylık")))
	assert.Equal(t, 4.0, value(t, m.PendingApprovals.WithLabelValues("bagtv")))
}

func TestNilMetricsIsSafe(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.ObserveDecision("control", "approved")
		m.AddMigrated("Günlük", "Haftalık", 1)
		m.SetPending("control", 1)
	})
}

func TestMiddlewareAndHandler(t *testing.T) {
	m := New(nil)

	app := fiber.New()
	app.Use(m.Middleware())
	app.Get("/ping", func(c *fiber.Ctx) error { return c.SendString("pong") })
	app.Get("/metrics", m.Handler())

	resp, err := app.Test(httptest.NewRequest("GET", "/ping", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	resp, err = app.Test(httptest.NewRequest("GET", "/metrics", nil))
	require.NoError(t, err)
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.True(t, strings.Contains(string(body), `bakim_http_request_duration_seconds_count{method="GET",route="/ping",status="200"} 1`))
}
