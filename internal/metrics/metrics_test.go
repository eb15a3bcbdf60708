package metrics

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestMiddlewareLabelsByRoutePattern(t *testing.T) {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(Middleware())
	r.Get("/events/{id}", func(w http.ResponseWriter, r *http.Request) {
		if RequestIDFromContext(r.Context()) == "" {
			t.Error("expected request id in context")
		}
		w.WriteHeader(http.StatusTeapot)
	})

	before := testutil.ToFloat64(httpRequestsTotal.WithLabelValues(http.MethodGet, "/events/{id}"))
	req := httptest.NewRequest(http.MethodGet, "/events/42", nil)
	r.ServeHTTP(httptest.NewRecorder(), req)
	after := testutil.ToFloat64(httpRequestsTotal.WithLabelValues(http.MethodGet, "/events/{id}"))

	if after-before != 1 {
		t.Fatalf("expected request counter to increase by 1, got %v", after-before)
	}
}

func TestStoredEventsGauge(t *testing.T) {
	SetStoredEvents(7)
	if got := testutil.ToFloat64(storedEvents); got != 7 {
		t.Fatalf("gauge = %v, want 7", got)
	}
}

func TestObserveAPICallOutcomes(t *testing.T) {
	ObserveAPICall("list", time.Now(), nil)
	ObserveAPICall("list", time.Now(), errors.New("boom"))

	if n := testutil.CollectAndCount(apiLatency, "eventcal_events_api_latency_seconds"); n < 2 {
		t.Fatalf("expected at least 2 series, got %d", n)
	}
}

func TestRouteFromContextFallsBackToUnknown(t *testing.T) {
	if got := routeFromContext(context.Background()); got != "unknown" {
		t.Fatalf("routeFromContext() = %q, want unknown", got)
	}
}

func TestHandlerServesMetrics(t *testing.T) {
	SetStoredEvents(1)
	w := httptest.NewRecorder()
	Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	if !strings.Contains(w.Body.String(), "eventcal_store_events") {
		t.Fatal("expected eventcal_store_events in metrics output")
	}
}
