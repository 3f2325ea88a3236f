package metrics

import (
	"errors"
	"io"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInstrument_CountsByRoutePattern(t *testing.T) {
	m := New()
	app := fiber.New()
	app.Use(m.Instrument())
	app.Get("/employee/:id", func(c *fiber.Ctx) error { return c.SendStatus(fiber.StatusOK) })

	for _, id := range []string{"a", "b", "c"} {
		resp, err := app.Test(httptest.NewRequest("GET", "/employee/"+id, nil))
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	}

	assert.Equal(t, float64(3), testutil.ToFloat64(m.httpRequestsTotal.WithLabelValues("GET", "/employee/:id", "200")))
	assert.Equal(t, float64(0), testutil.ToFloat64(m.httpInFlight))
}

func TestDomainCounters(t *testing.T) {
	m := New()
	m.ObserveLogin("success")
	m.ObserveLogin("invalid")
	m.ObserveLogin("invalid")
	m.ObserveEmployeeOperation("create", nil)
	m.ObserveEmployeeOperation("create", errors.New("dup"))

	assert.Equal(t, float64(2), testutil.ToFloat64(m.loginAttempts.WithLabelValues("invalid")))
	assert.Equal(t, float64(1), testutil.ToFloat64(m.employeeOperations.WithLabelValues("create", "success")))
	assert.Equal(t, float64(1), testutil.ToFloat64(m.employeeOperations.WithLabelValues("create", "error")))
}

func TestNilMetricsIsSafe(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.ObserveLogin("success")
		m.ObserveEmployeeOperation("delete", nil)
	})
}

func TestHandler_Exposition(t *testing.T) {
	m := New()
	m.ObserveLogin("success")

	app := fiber.New()
	app.Get("/metrics", m.Handler())

	resp, err := app.Test(httptest.NewRequest("GET", "/metrics", nil))
	require.NoError(t, err)
	body, _ := io.ReadAll(resp.Body)
	assert.Contains(t, string(body), `admin_login_attempts_total{result="success"} 1`)
}
