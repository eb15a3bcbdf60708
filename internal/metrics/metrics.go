package metrics

import (
	"context"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type ctxKey string

const (
	routeLabelKey   ctxKey = "metrics_route"
	requestIDCtxKey ctxKey = "metrics_request_id"
)

var (
	httpRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "eventcal_http_requests_total",
		Help: "Total number of HTTP requests processed.",
	}, []string{"method", "route"})

	httpErrorsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "eventcal_http_errors_total",
		Help: "Total number of HTTP requests resulting in server errors.",
	}, []string{"method", "route", "status"})

	httpRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "eventcal_http_request_duration_seconds",
		Help:    "Histogram of latencies for HTTP requests.",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "route", "status"})

	apiLatency = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "eventcal_events_api_latency_seconds",
		Help:    "Histogram of remote events API call latencies.",
		Buckets: prometheus.DefBuckets,
	}, []string{"operation", "outcome"})

	storedEvents = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "eventcal_store_events",
		Help: "Number of events currently held by the in-memory event store.",
	})

	refreshesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "eventcal_store_refreshes_total",
		Help: "Scheduled event store refreshes by outcome.",
	}, []string{"outcome"})

	dbLatency = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "eventcal_db_latency_seconds",
		Help:    "Histogram of database operation latencies.",
		Buckets: prometheus.DefBuckets,
	}, []string{"operation", "route"})
)

// Middleware records request metrics and enriches the context with labels for downstream instrumentation.
func Middleware() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			reqID := middleware.GetReqID(r.Context())

			// chi only knows the matched pattern after routing, so the label
			// holder is filled in once the handler returns.
			label := &routeLabel{}
			ctx := context.WithValue(r.Context(), routeLabelKey, label)
			if reqID != "" {
				ctx = context.WithValue(ctx, requestIDCtxKey, reqID)
			}

			start := time.Now()
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			r = r.WithContext(ctx)

			next.ServeHTTP(ww, r)

			route := routePattern(r)
			label.route = route
			status := ww.Status()
			if status == 0 {
				status = http.StatusOK
			}
			method := r.Method
			duration := time.Since(start).Seconds()
			statusCode := strconv.Itoa(status)

			httpRequestsTotal.WithLabelValues(method, route).Inc()
			httpRequestDuration.WithLabelValues(method, route, statusCode).Observe(duration)
			if status >= http.StatusInternalServerError {
				httpErrorsTotal.WithLabelValues(method, route, statusCode).Inc()
			}
		})
	}
}

type routeLabel struct {
	route string
}

// Handler exposes the Prometheus metrics endpoint.
func Handler() http.Handler {
	return promhttp.Handler()
}

// ObserveAPICall records the latency of a remote events API call.
func ObserveAPICall(operation string, start time.Time, err error) {
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	apiLatency.WithLabelValues(operation, outcome).Observe(time.Since(start).Seconds())
}

// SetStoredEvents publishes the number of events held in memory.
func SetStoredEvents(n int) {
	storedEvents.Set(float64(n))
}

// IncRefresh counts a scheduled refresh.
func IncRefresh(err error) {
	if err != nil {
		refreshesTotal.WithLabelValues("error").Inc()
		return
	}
	refreshesTotal.WithLabelValues("ok").Inc()
}

// ObserveDBLatency records database latency for a given operation, associating it with request labels when available.
func ObserveDBLatency(ctx context.Context, operation string, start time.Time) {
	route := routeFromContext(ctx)
	dbLatency.WithLabelValues(operation, route).Observe(time.Since(start).Seconds())
}

// RequestIDFromContext extracts the request ID stored by the metrics middleware.
func RequestIDFromContext(ctx context.Context) string {
	if reqID, ok := ctx.Value(requestIDCtxKey).(string); ok {
		return reqID
	}
	return ""
}

func routeFromContext(ctx context.Context) string {
	if rctx := chi.RouteContext(ctx); rctx != nil {
		if pattern := strings.TrimSpace(rctx.RoutePattern()); pattern != "" {
			return pattern
		}
	}
	if label, ok := ctx.Value(routeLabelKey).(*routeLabel); ok && label.route != "" {
		return label.route
	}
	return "unknown"
}

func routePattern(r *http.Request) string {
	if rctx := chi.RouteContext(r.Context()); rctx != nil {
		if pattern := strings.TrimSpace(rctx.RoutePattern()); pattern != "" {
			return pattern
		}
	}
	return r.URL.Path
}
