package metrics

import (
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v3"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestHTTPMiddleware_DemRequestTheoMethodVaStatus - mỗi request đi qua
// middleware phải tăng counter đúng cặp nhãn (method, status)
func TestHTTPMiddleware_DemRequestTheoMethodVaStatus(t *testing.T) {
	app := fiber.New()
	app.Use(HTTPMiddleware())
	app.Get("/ping", func(c fiber.Ctx) error {
		return c.SendString("pong")
	})
	app.Get("/teapot", func(c fiber.Ctx) error {
		return c.SendStatus(fiber.StatusTeapot)
	})

	okBefore := testutil.ToFloat64(httpRequests.WithLabelValues("GET", "200"))
	teapotBefore := testutil.ToFloat64(httpRequests.WithLabelValues("GET", "418"))

	resp, err := app.Test(httptest.NewRequest("GET", "/ping", nil))
	require.NoError(t, err)
	require.Equal(t, 200, resp.StatusCode)

	resp, err = app.Test(httptest.NewRequest("GET", "/teapot", nil))
	require.NoError(t, err)
	require.Equal(t, 418, resp.StatusCode)

	assert.Equal(t, okBefore+1, testutil.ToFloat64(httpRequests.WithLabelValues("GET", "200")))
	assert.Equal(t, teapotBefore+1, testutil.ToFloat64(httpRequests.WithLabelValues("GET", "418")))
}

// TestHTTPMiddleware_BoQuaMetricsEndpoint - scrape /metrics không được tự đếm
func TestHTTPMiddleware_BoQuaMetricsEndpoint(t *testing.T) {
	app := fiber.New()
	app.Use(HTTPMiddleware())
	app.Get("/metrics", Handler())

	before := testutil.ToFloat64(httpRequests.WithLabelValues("GET", "200"))

	resp, err := app.Test(httptest.NewRequest("GET", "/metrics", nil))
	require.NoError(t, err)
	require.Equal(t, 200, resp.StatusCode)

	assert.Equal(t, before, testutil.ToFloat64(httpRequests.WithLabelValues("GET", "200")))
}
