package ratelimit

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"golang.org/x/time/rate"
)

func TestMiddlewareLimitsPerIP(t *testing.T) {
	l := NewIPRateLimiter(rate.Limit(1), 2, time.Minute, nil)
	fixed := time.Date(2024, 6, 15, 12, 0, 0, 0, time.UTC)
	l.now = func() time.Time { return fixed }

	h := l.Middleware()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	codes := make([]int, 0, 3)
	for i := 0; i < 3; i++ {
		req := httptest.NewRequest(http.MethodPost, "/events", nil)
		req.RemoteAddr = "10.0.0.1:1234"
		w := httptest.NewRecorder()
		h.ServeHTTP(w, req)
		codes = append(codes, w.Code)
	}
	if codes[0] != http.StatusOK || codes[1] != http.StatusOK || codes[2] != http.StatusTooManyRequests {
		t.Fatalf("unexpected status sequence %v", codes)
	}

	req := httptest.NewRequest(http.MethodPost, "/events", nil)
	req.RemoteAddr = "10.0.0.2:1234"
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("other ip status = %d, want 200", w.Code)
	}
}

func TestClientIPHonoursTrustedProxies(t *testing.T) {
	tests := []struct {
		name    string
		proxies []string
		remote  string
		xff     string
		want    string
	}{
		{name: "no proxies trusts header", remote: "10.0.0.1:80", xff: "203.0.113.9, 10.0.0.1", want: "203.0.113.9"},
		{name: "trusted cidr", proxies: []string{"10.0.0.0/8"}, remote: "10.1.2.3:80", xff: "203.0.113.9", want: "203.0.113.9"},
		{name: "untrusted peer", proxies: []string{"10.0.0.1"}, remote: "192.0.2.7:80", xff: "203.0.113.9", want: "192.0.2.7"},
		{name: "garbage header", remote: "10.0.0.1:80", xff: "nonsense", want: "10.0.0.1"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l := NewIPRateLimiter(rate.Limit(1), 1, time.Minute, tt.proxies)
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			req.RemoteAddr = tt.remote
			req.Header.Set("X-Forwarded-For", tt.xff)
			if got := l.clientIP(req); got != tt.want {
				t.Fatalf("clientIP() = %q, want %q", got, tt.want)
			}
		})
	}
}
