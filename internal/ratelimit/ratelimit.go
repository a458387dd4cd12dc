// Package ratelimit provides a fixed-window request limiter keyed by client
// and a gin middleware around it.
package ratelimit

import (
	"log/slog"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
)

// Limiter allows rate requests per key in each window.
type Limiter struct {
	mu      sync.Mutex
	buckets map[string]*bucket
	rate    int
	window  time.Duration
	now     func() time.Time

	done      chan struct{}
	closeOnce sync.Once
}

type bucket struct {
	tokens    int
	lastReset time.Time
}

// New creates a Limiter. A non-positive rate blocks every request.
func New(rate int, window time.Duration) *Limiter {
	l := &Limiter{
		buckets: make(map[string]*bucket),
		rate:    rate,
		window:  window,
		now:     time.Now,
		done:    make(chan struct{}),
	}

	go l.cleanup(5 * time.Minute)

	return l
}

// Close stops the background cleanup goroutine. It is safe to call twice.
func (l *Limiter) Close() {
	l.closeOnce.Do(func() { close(l.done) })
}

// Allow reports whether a request for key fits in the current window and
// consumes a token if so.
func (l *Limiter) Allow(key string) bool {
	_, ok := l.take(key)
	return ok
}

// take consumes a token for key. When none is left it returns how long until
// the window resets.
func (l *Limiter) take(key string) (time.Duration, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()

	b, ok := l.buckets[key]
	if !ok {
		b = &bucket{tokens: l.rate, lastReset: now}
		l.buckets[key] = b
	}

	if now.Sub(b.lastReset) >= l.window {
		b.tokens = l.rate
		b.lastReset = now
	}

	if b.tokens > 0 {
		b.tokens--
		return 0, true
	}
	return l.window - now.Sub(b.lastReset), false
}

// Len returns the number of tracked keys.
func (l *Limiter) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.buckets)
}

// Middleware rejects requests over the limit with 429, keyed by client IP.
func (l *Limiter) Middleware(logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		ip := c.ClientIP()
		retry, ok := l.take(ip)
		if ok {
			c.Next()
			return
		}

		logger.Warn("rate limit exceeded", "request_id", c.GetString("request_id"), "client_ip", ip)
		c.Header("Retry-After", strconv.Itoa(int(retry.Round(time.Second).Seconds())))
		c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{"error": "rate limit exceeded"})
	}
}

func (l *Limiter) cleanup(every time.Duration) {
	ticker := time.NewTicker(every)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			l.evict()
		case <-l.done:
			return
		}
	}
}

// evict drops buckets idle for two windows.
func (l *Limiter) evict() {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	for key, b := range l.buckets {
		if now.Sub(b.lastReset) > 2*l.window {
			delete(l.buckets, key)
		}
	}
}
