// Package ratelimit provides a per-client fixed-window rate limiter. The
// login form gets a strict limit, mutations a looser one.
package ratelimit

import (
	"net/http"
	"sync"
	"time"
)

// Config holds rate limiter configuration
type Config struct {
	Requests        int
	Window          time.Duration
	CleanupInterval time.Duration
}

// DefaultConfig returns sensible defaults
func DefaultConfig() Config {
	return Config{
		Requests:        10,
		Window:          time.Minute,
		CleanupInterval: 5 * time.Minute,
	}
}

// Limiter tracks request counts per client within a fixed window.
type Limiter struct {
	mu       sync.Mutex
	clients  map[string]*windowCount
	cfg      Config
	stop     chan struct{}
	stopOnce sync.Once
}

type windowCount struct {
	windowStart time.Time
	requests    int
}

// NewLimiter creates a new rate limiter and starts its cleanup goroutine
func NewLimiter(cfg Config) *Limiter {
	if cfg.Requests <= 0 {
		cfg.Requests = DefaultConfig().Requests
	}
	if cfg.Window <= 0 {
		cfg.Window = DefaultConfig().Window
	}
	if cfg.CleanupInterval <= 0 {
		cfg.CleanupInterval = DefaultConfig().CleanupInterval
	}

	l := &Limiter{
		clients: make(map[string]*windowCount),
		cfg:     cfg,
		stop:    make(chan struct{}),
	}
	go l.cleanupLoop()
	return l
}

// Allow reports whether a request from the given client should proceed.
func (l *Limiter) Allow(clientIP string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := time.Now()
	client, exists := l.clients[clientIP]
	if !exists || now.Sub(client.windowStart) > l.cfg.Window {
		l.clients[clientIP] = &windowCount{windowStart: now, requests: 1}
		return true
	}

	client.requests++
	return client.requests <= l.cfg.Requests
}

// ActiveClients returns the number of currently tracked clients
func (l *Limiter) ActiveClients() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.clients)
}

// Stop shuts down the cleanup goroutine
func (l *Limiter) Stop() {
	l.stopOnce.Do(func() {
		close(l.stop)
	})
}

func (l *Limiter) cleanupLoop() {
	ticker := time.NewTicker(l.cfg.CleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			l.removeStale()
		case <-l.stop:
			return
		}
	}
}

// removeStale drops clients whose window closed more than two windows ago.
func (l *Limiter) removeStale() {
	l.mu.Lock()
	defer l.mu.Unlock()

	cutoff := time.Now().Add(-2 * l.cfg.Window)
	for ip, client := range l.clients {
		if client.windowStart.Before(cutoff) {
			delete(l.clients, ip)
		}
	}
}

// Middleware creates HTTP middleware that rejects over-limit clients with
// 429 and a Retry-After hint.
func (l *Limiter) Middleware(extractIP func(*http.Request) string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !l.Allow(extractIP(r)) {
				w.Header().Set("Retry-After", "60")
				http.Error(w, "Too many requests. Please try again later.", http.StatusTooManyRequests)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
