package middleware

import (
	"net"
	"net/http"
	"sync"

	"github.com/LeoJim2/cool-travel-app-voyageur/api/metrics"

	"golang.org/x/time/rate"
)

// RateLimiter hands out one token bucket per client IP.
type RateLimiter struct {
	rps   float64
	burst int
	store sync.Map // map[string]*rate.Limiter
}

func NewRateLimiter(rps float64, burst int) *RateLimiter {
	if burst < 1 {
		burst = 1
	}
	return &RateLimiter{rps: rps, burst: burst}
}

func (l *RateLimiter) limiter(key string) *rate.Limiter {
	if v, ok := l.store.Load(key); ok {
		return v.(*rate.Limiter)
	}
	v, _ := l.store.LoadOrStore(key, rate.NewLimiter(rate.Limit(l.rps), l.burst))
	return v.(*rate.Limiter)
}

func (l *RateLimiter) Middleware(next http.Handler) http.Handler {
	return l.handler(next, false)
}

// RemoteMiddleware limits like Middleware but lets loopback callers through.
// The map page posts to /pins from the same host once the browser's own
// submit has passed the limiter, so every session shares that address.
func (l *RateLimiter) RemoteMiddleware(next http.Handler) http.Handler {
	return l.handler(next, true)
}

func (l *RateLimiter) handler(next http.Handler, skipLoopback bool) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ip := clientIP(r)
		if skipLoopback && isLoopback(ip) {
			next.ServeHTTP(w, r)
			return
		}
		if !l.limiter(ip).Allow() {
			metrics.RateLimitRejected.Inc()
			w.Header().Set("Retry-After", "1")
			http.Error(w, "rate limit exceeded", http.StatusTooManyRequests)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func clientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil || host == "" {
		if r.RemoteAddr == "" {
			return "unknown"
		}
		return r.RemoteAddr
	}
	return host
}

func isLoopback(host string) bool {
	ip := net.ParseIP(host)
	return ip != nil && ip.IsLoopback()
}
