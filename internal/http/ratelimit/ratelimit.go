package ratelimit

import (
	"net"
	"net/http"
	"strings"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

const maxEntries = 10000

// IPRateLimiter keeps one token bucket per client IP.
type IPRateLimiter struct {
	mu             sync.Mutex
	limiters       map[string]*limiterEntry
	rate           rate.Limit
	burst          int
	idle           time.Duration
	trustedProxies []*net.IPNet
	now            func() time.Time
}

type limiterEntry struct {
	limiter    *rate.Limiter
	lastAccess time.Time
}

// NewIPRateLimiter allows r requests per second per IP with bursts of b.
// Buckets idle for longer than idle are dropped lazily. Forwarding headers
// are honoured only for peers in trustedProxies; an empty list trusts all.
func NewIPRateLimiter(r rate.Limit, b int, idle time.Duration, trustedProxies []string) *IPRateLimiter {
	l := &IPRateLimiter{
		limiters: make(map[string]*limiterEntry),
		rate:     r,
		burst:    b,
		idle:     idle,
		now:      time.Now,
	}
	for _, cidr := range trustedProxies {
		if ipnet := parseNet(cidr); ipnet != nil {
			l.trustedProxies = append(l.trustedProxies, ipnet)
		}
	}
	return l
}

func parseNet(s string) *net.IPNet {
	if _, ipnet, err := net.ParseCIDR(s); err == nil {
		return ipnet
	}
	ip := net.ParseIP(s)
	if ip == nil {
		return nil
	}
	bits := 128
	if ip.To4() != nil {
		ip = ip.To4()
		bits = 32
	}
	return &net.IPNet{IP: ip, Mask: net.CIDRMask(bits, bits)}
}

// Allow reports whether a request from ip may proceed.
func (l *IPRateLimiter) Allow(ip string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	entry, ok := l.limiters[ip]
	if !ok {
		if len(l.limiters) >= maxEntries {
			l.sweep(now)
		}
		entry = &limiterEntry{limiter: rate.NewLimiter(l.rate, l.burst)}
		l.limiters[ip] = entry
	}
	entry.lastAccess = now
	return entry.limiter.AllowN(now, 1)
}

// sweep drops idle buckets, and the oldest one if none are idle.
// Must be called with l.mu held.
func (l *IPRateLimiter) sweep(now time.Time) {
	var oldestIP string
	var oldest time.Time
	for ip, e := range l.limiters {
		if now.Sub(e.lastAccess) > l.idle {
			delete(l.limiters, ip)
			continue
		}
		if oldestIP == "" || e.lastAccess.Before(oldest) {
			oldestIP, oldest = ip, e.lastAccess
		}
	}
	if len(l.limiters) >= maxEntries && oldestIP != "" {
		delete(l.limiters, oldestIP)
	}
}

// Middleware rejects requests over the limit with 429.
func (l *IPRateLimiter) Middleware() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !l.Allow(l.clientIP(r)) {
				http.Error(w, "rate limit exceeded", http.StatusTooManyRequests)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func (l *IPRateLimiter) clientIP(r *http.Request) string {
	remote := parseIP(r.RemoteAddr)
	if remote == nil {
		return r.RemoteAddr
	}
	if !l.trusted(remote) {
		return remote.String()
	}

	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		first, _, _ := strings.Cut(xff, ",")
		if ip := net.ParseIP(strings.TrimSpace(first)); ip != nil {
			return ip.String()
		}
	}
	if ip := net.ParseIP(strings.TrimSpace(r.Header.Get("X-Real-IP"))); ip != nil {
		return ip.String()
	}
	return remote.String()
}

func (l *IPRateLimiter) trusted(ip net.IP) bool {
	if len(l.trustedProxies) == 0 {
		return true
	}
	for _, n := range l.trustedProxies {
		if n.Contains(ip) {
			return true
		}
	}
	return false
}

func parseIP(addr string) net.IP {
	if host, _, err := net.SplitHostPort(addr); err == nil {
		return net.ParseIP(host)
	}
	return net.ParseIP(addr)
}
