// File: internal/ratelimit/ratelimit.go
package ratelimit

import (
	"net"
	"net/http"
	"strings"
	"sync"
	"time"
)

// Config holds rate limiting configuration
type Config struct {
	WindowSize    time.Duration // Time window for rate limiting
	MaxRequests   int           // Maximum requests per window
	CleanupPeriod time.Duration // How often to clean up old entries
}

// PerMinute allows n requests per client per minute.
func PerMinute(n int) *Config {
	return &Config{
		WindowSize:    time.Minute,
		MaxRequests:   n,
		CleanupPeriod: 5 * time.Minute,
	}
}

// windowRecord counts requests from one client in the current window.
type windowRecord struct {
	Count     int
	FirstSeen time.Time
}

// Info describes the outcome of one Allow call.
type Info struct {
	Allowed    bool
	Limit      int
	Remaining  int
	ResetTime  time.Time
	RetryAfter time.Duration
}

// MemoryRateLimiter is a fixed-window counter per client identifier.
type MemoryRateLimiter struct {
	config  *Config
	windows map[string]*windowRecord
	mu      sync.Mutex
	now     func() time.Time
	stopCh  chan struct{}
	stopped sync.Once
}

func NewMemoryRateLimiter(config *Config) *MemoryRateLimiter {
	limiter := &MemoryRateLimiter{
		config:  config,
		windows: make(map[string]*windowRecord),
		now:     time.Now,
		stopCh:  make(chan struct{}),
	}
	if config.CleanupPeriod > 0 {
		go limiter.cleanupLoop()
	}
	return limiter
}

// Allow counts one request for identifier and reports whether it fits in the
// current window. A non-positive MaxRequests disables limiting.
func (rl *MemoryRateLimiter) Allow(identifier string) Info {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	limit := rl.config.MaxRequests
	now := rl.now()
	if limit <= 0 {
		return Info{Allowed: true, Limit: limit, ResetTime: now}
	}

	record, exists := rl.windows[identifier]
	if !exists || now.Sub(record.FirstSeen) >= rl.config.WindowSize {
		record = &windowRecord{FirstSeen: now}
		rl.windows[identifier] = record
	}

	reset := record.FirstSeen.Add(rl.config.WindowSize)
	if record.Count >= limit {
		return Info{
			Allowed:    false,
			Limit:      limit,
			Remaining:  0,
			ResetTime:  reset,
			RetryAfter: reset.Sub(now),
		}
	}

	record.Count++
	return Info{
		Allowed:   true,
		Limit:     limit,
		Remaining: limit - record.Count,
		ResetTime: reset,
	}
}

func (rl *MemoryRateLimiter) cleanupLoop() {
	ticker := time.NewTicker(rl.config.CleanupPeriod)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			rl.cleanup()
		case <-rl.stopCh:
			return
		}
	}
}

// cleanup removes windows that have expired.
func (rl *MemoryRateLimiter) cleanup() {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := rl.now()
	for identifier, record := range rl.windows {
		if now.Sub(record.FirstSeen) >= rl.config.WindowSize {
			delete(rl.windows, identifier)
		}
	}
}

// Close stops the cleanup goroutine. It is safe to call more than once.
func (rl *MemoryRateLimiter) Close() {
	rl.stopped.Do(func() { close(rl.stopCh) })
}

// GetClientIP extracts the real client IP from request
func GetClientIP(r *http.Request) string {
	// Behind a proxy the first forwarded address is the client.
	if forwarded := r.Header.Get("X-Forwarded-For"); forwarded != "" {
		if ip := parseFirstIP(forwarded); ip != "" {
			return ip
		}
	}

	if realIP := r.Header.Get("X-Real-IP"); realIP != "" {
		return realIP
	}

	ip, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return ip
}

func parseFirstIP(forwarded string) string {
	first, _, _ := strings.Cut(forwarded, ",")
	return strings.TrimSpace(first)
}
