package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/ignatzorin/freelaav-backend/internal/pkg/apperror"
)

const namespace = "freelaav"

var (
	// Registry содержит только коллекторы приложения.
	Registry = prometheus.NewRegistry()

	httpInFlight = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "inflight_requests",
			Help:      "Current number of in-flight HTTP requests.",
		},
	)

	httpRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total number of HTTP requests handled.",
		},
		[]string{"method", "path", "status"},
	)

	httpDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "Duration of HTTP requests.",
			Buckets:   prometheus.ExponentialBuckets(0.005, 2, 10),
		},
		[]string{"method", "path"},
	)

	offerTransitions = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "offer_transitions_total",
			Help:      "Offer transitions by action and result.",
		},
		[]string{"action", "result"},
	)

	bookingTransitions = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "booking_transitions_total",
			Help:      "Booking transitions by action and result.",
		},
		[]string{"action", "result"},
	)

	searchDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "search_duration_seconds",
			Help:      "Duration of freelancer searches.",
			Buckets:   prometheus.ExponentialBuckets(0.001, 2, 12),
		},
	)

	notificationDeliveries = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "notification_deliveries_total",
			Help:      "Outbox deliveries by sink and result.",
		},
		[]string{"sink", "result"},
	)

	notificationDropped = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "notification_dropped_total",
			Help:      "Events dropped because the outbox queue was full.",
		},
	)

	receivablesOverdue = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "receivables_marked_overdue_total",
			Help:      "Receivables moved to overdue by the scheduled sweep.",
		},
	)
)

func init() {
	Registry.MustRegister(
		httpInFlight,
		httpRequests,
		httpDuration,
		offerTransitions,
		bookingTransitions,
		searchDuration,
		notificationDeliveries,
		notificationDropped,
		receivablesOverdue,
		prometheus.NewProcessCollector(prometheus.ProcessCollectorOpts{}),
		prometheus.NewGoCollector(),
	)
}

// Handler отдаёт метрики в формате Prometheus.
func Handler() http.Handler {
	return promhttp.HandlerFor(Registry, promhttp.HandlerOpts{})
}

// Middleware считает запросы gin. path берётся из шаблона маршрута, чтобы id не раздували кардинальность.
func Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.URL.Path == "/metrics" {
			c.Next()
			return
		}

		start := time.Now()
		httpInFlight.Inc()
		defer httpInFlight.Dec()

		c.Next()

		path := c.FullPath()
		if path == "" {
			path = "unmatched"
		}
		method := c.Request.Method
		httpRequests.WithLabelValues(method, path, strconv.Itoa(c.Writer.Status())).Inc()
		httpDuration.WithLabelValues(method, path).Observe(time.Since(start).Seconds())
	}
}

// Result сводит ошибку сценария к метке: ok или код ошибки.
func Result(err error) string {
	if err == nil {
		return "ok"
	}
	return string(apperror.CodeOf(err))
}

func RecordOfferTransition(action, result string) {
	offerTransitions.WithLabelValues(action, result).Inc()
}

func RecordBookingTransition(action, result string) {
	bookingTransitions.WithLabelValues(action, result).Inc()
}

func ObserveSearch(d time.Duration) {
	searchDuration.Observe(d.Seconds())
}

func RecordDelivery(sink, result string) {
	notificationDeliveries.WithLabelValues(sink, result).Inc()
}

func RecordDropped() {
	notificationDropped.Inc()
}

func AddOverdue(n int64) {
	if n > 0 {
		receivablesOverdue.Add(float64(n))
	}
}
