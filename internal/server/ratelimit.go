package server

import (
	"net"
	"net/http"
	"sync"
	"time"
)

// RateLimiter is a fixed-window per-client counter. Windows reset
// wholesale rather than sliding, which matches the generous limits this
// API runs with.
type RateLimiter struct {
	max    int
	window time.Duration

	mu      sync.Mutex
	starts  map[string]time.Time
	counts  map[string]int
	nowFunc func() time.Time
}

func NewRateLimiter(max int, window time.Duration) *RateLimiter {
	return &RateLimiter{
		max:     max,
		window:  window,
		starts:  make(map[string]time.Time),
		counts:  make(map[string]int),
		nowFunc: time.Now,
	}
}

// Allow records one request for the caller and reports whether it fits
// in the current window. A non-positive max disables limiting.
func (l *RateLimiter) Allow(caller string) bool {
	if l.max <= 0 {
		return true
	}
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.nowFunc()
	if start, ok := l.starts[caller]; !ok || now.Sub(start) >= l.window {
		l.starts[caller] = now
		l.counts[caller] = 0
	}
	if l.counts[caller] >= l.max {
		return false
	}
	l.counts[caller]++
	return true
}

func clientIP(r *http.Request) string {
	if fwd := r.Header.Get("X-Forwarded-For"); fwd != "" {
		return fwd
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
