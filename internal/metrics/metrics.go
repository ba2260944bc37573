package metrics

// Package metrics - các Prometheus collector cho form engine.

import (
	"strconv"

	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	formRequestsSent = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "livechat_form_requests_sent_total",
			Help: "Tổng số form request đã gửi vào hội thoại.",
		},
		[]string{"project_id"},
	)
	formSubmissions = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "livechat_form_submissions_total",
			Help: "Tổng số form submission đã ghi nhận.",
		},
		[]string{"project_id", "source"},
	)
	formConflicts = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "livechat_form_conflicts_total",
			Help: "Tổng số lần submit bị từ chối do trùng lặp.",
		},
	)
	schemaValidationFailures = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "livechat_schema_validation_failures_total",
			Help: "Tổng số lần dữ liệu form không khớp schema.",
		},
	)
	httpRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "livechat_http_requests_total",
			Help: "Tổng số HTTP request nhận được.",
		},
		[]string{"method", "status"},
	)
)

func init() {
	prometheus.MustRegister(
		formRequestsSent,
		formSubmissions,
		formConflicts,
		schemaValidationFailures,
		httpRequests,
	)
}

// IncFormRequestSent tăng counter khi gửi một form request
func IncFormRequestSent(projectID string) {
	formRequestsSent.WithLabelValues(projectID).Inc()
}

// IncFormSubmission tăng counter khi ghi nhận một submission.
// source là "visitor" hoặc "agent".
func IncFormSubmission(projectID, source string) {
	formSubmissions.WithLabelValues(projectID, source).Inc()
}

// IncFormConflict tăng counter khi submit bị từ chối do trùng lặp
func IncFormConflict() {
	formConflicts.Inc()
}

// IncSchemaValidationFailure tăng counter khi dữ liệu không khớp schema
func IncSchemaValidationFailure() {
	schemaValidationFailures.Inc()
}

// IncHTTPRequest tăng counter HTTP request theo method và status
func IncHTTPRequest(method, status string) {
	httpRequests.WithLabelValues(method, status).Inc()
}

// HTTPMiddleware đếm request theo method và status sau khi handler chạy xong.
// Bỏ qua chính /metrics để Prometheus scrape không tự làm nhiễu số liệu.
func HTTPMiddleware() fiber.Handler {
	return func(c fiber.Ctx) error {
		err := c.Next()
		if c.Path() != "/metrics" {
			IncHTTPRequest(c.Method(), strconv.Itoa(c.Response().StatusCode()))
		}
		return err
	}
}

// Handler trả về Fiber handler phục vụ endpoint /metrics
func Handler() fiber.Handler {
	return adaptor.HTTPHandler(promhttp.Handler())
}
