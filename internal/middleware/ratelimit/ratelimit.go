// Package ratelimit throttles clients by IP with a fixed per-minute
// window. State is in memory only; limits reset on restart.
package ratelimit

import (
	"net/http"
	"sync"
	"time"
)

type Config struct {
	RequestsPerMinute int
	CleanupInterval   time.Duration
}

func DefaultConfig() Config {
	return Config{
		RequestsPerMinute: 60,
		CleanupInterval:   5 * time.Minute,
	}
}

// Limiter counts requests per client IP in one-minute windows.
type Limiter struct {
	mu       sync.Mutex
	clients  map[string]*window
	limit    int
	stop     chan struct{}
	stopOnce sync.Once
}

type window struct {
	started time.Time
	count   int
}

func NewLimiter(cfg Config) *Limiter {
	if cfg.RequestsPerMinute <= 0 {
		cfg.RequestsPerMinute = DefaultConfig().RequestsPerMinute
	}
	if cfg.CleanupInterval <= 0 {
		cfg.CleanupInterval = DefaultConfig().CleanupInterval
	}
	l := &Limiter{
		clients: make(map[string]*window),
		limit:   cfg.RequestsPerMinute,
		stop:    make(chan struct{}),
	}
	go l.cleanupLoop(cfg.CleanupInterval)
	return l
}

// Allow reports whether one more request from clientIP fits the window.
func (l *Limiter) Allow(clientIP string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := time.Now()
	w, ok := l.clients[clientIP]
	if !ok || now.Sub(w.started) > time.Minute {
		l.clients[clientIP] = &window{started: now, count: 1}
		return true
	}
	w.count++
	return w.count <= l.limit
}

func (l *Limiter) cleanupLoop(interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			l.dropStale()
		case <-l.stop:
			return
		}
	}
}

func (l *Limiter) dropStale() {
	l.mu.Lock()
	defer l.mu.Unlock()
	cutoff := time.Now().Add(-10 * time.Minute)
	for ip, w := range l.clients {
		if w.started.Before(cutoff) {
			delete(l.clients, ip)
		}
	}
}

// Stop terminates the cleanup goroutine.
func (l *Limiter) Stop() {
	l.stopOnce.Do(func() { close(l.stop) })
}

// Middleware rejects over-limit requests with 429. A custom onLimit
// handler may override the default plain-text response.
func (l *Limiter) Middleware(extractIP func(*http.Request) string, onLimit func(http.ResponseWriter, *http.Request)) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !l.Allow(extractIP(r)) {
				if onLimit != nil {
					onLimit(w, r)
					return
				}
				w.Header().Set("Retry-After", "60")
				http.Error(w, "Rate limit exceeded. Please try again later.", http.StatusTooManyRequests)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
