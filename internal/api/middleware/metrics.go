// metrics.go — Prometheus HTTP метрики Attachment Store.
// Регистрирует метрики: as_http_requests_total, as_http_request_duration_seconds.
// Бизнес-метрики (as_attachments_total, as_operations_total) экспортируются
// для обновления из сервисного слоя.
package middleware

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// HTTP метрики
var (
	// httpRequestsTotal — общее количество HTTP-запросов.
	httpRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "as_http_requests_total",
			Help: "Общее количество HTTP-запросов к Attachment Store",
		},
		[]string{"method", "path", "status"},
	)

	// httpRequestDuration — гистограмма длительности HTTP-запросов.
	httpRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "as_http_request_duration_seconds",
			Help:    "Длительность HTTP-запросов к Attachment Store в секундах",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)
)

// Бизнес-метрики (экспортируются для обновления из сервисного слоя)
var (
	// AttachmentsTotal — текущее количество вложений в индексе (gauge).
	AttachmentsTotal = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "as_attachments_total",
			Help: "Текущее количество вложений в индексе",
		},
		[]string{"kind"},
	)

	// OperationsTotal — общее количество операций с вложениями.
	OperationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "as_operations_total",
			Help: "Общее количество операций с вложениями",
		},
		[]string{"operation", "result"},
	)
)

// Значения метки kind для AttachmentsTotal.
const (
	KindDocument = "document"
	KindPhoto    = "photo"
)

// MetricsMiddleware возвращает HTTP middleware для сбора Prometheus метрик.
// Записывает количество запросов и длительность для каждого endpoint.
func MetricsMiddleware() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()

			// Нормализуем путь для лейблов метрик
			// (идентификаторы заменяются на {...} для предотвращения кардинальности)
			normalizedPath := normalizePath(r.URL.Path)

			wrapped := newMetricsResponseWriter(w)
			next.ServeHTTP(wrapped, r)

			duration := time.Since(start).Seconds()
			status := strconv.Itoa(wrapped.statusCode)

			httpRequestsTotal.WithLabelValues(r.Method, normalizedPath, status).Inc()
			httpRequestDuration.WithLabelValues(r.Method, normalizedPath).Observe(duration)
		})
	}
}

// metricsResponseWriter — обёртка для перехвата статус-кода.
type metricsResponseWriter struct {
	http.ResponseWriter
	statusCode int
}

func newMetricsResponseWriter(w http.ResponseWriter) *metricsResponseWriter {
	return &metricsResponseWriter{ResponseWriter: w, statusCode: http.StatusOK}
}

func (rw *metricsResponseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

// Unwrap позволяет http.ResponseController получить доступ к оригинальному ResponseWriter.
func (rw *metricsResponseWriter) Unwrap() http.ResponseWriter {
	return rw.ResponseWriter
}

// normalizePath заменяет переменные сегменты пути на плейсхолдеры,
// чтобы кардинальность метрик не росла с числом владельцев и документов.
// /api/v1/documents/a@b.com/123 → /api/v1/documents/{email}/{id}
func normalizePath(path string) string {
	switch {
	case path == "/health/live", path == "/health/ready", path == "/metrics":
		return path
	case strings.HasPrefix(path, "/api/v1/documents/"):
		rest := strings.TrimPrefix(path, "/api/v1/documents/")
		if strings.Contains(rest, "/") {
			return "/api/v1/documents/{email}/{id}"
		}
		return "/api/v1/documents/{email}"
	case strings.HasPrefix(path, "/api/v1/photos/"):
		return "/api/v1/photos/{email}"
	default:
		return path
	}
}
