// Package ratelimit provides per-key request limiting for abuse-prone
// endpoints such as login.
package ratelimit

import (
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// maxKeys caps the limiter table; when exceeded the table is reset rather
// than tracked per-entry. Losing history on reset only ever relaxes limits.
const maxKeys = 10000

// Limiter enforces "attempts per window" per key (normally the request's
// source address). A token bucket with burst = attempts and refill rate
// attempts/window approximates the sliding window.
type Limiter struct {
	mu       sync.Mutex
	limiters map[string]*rate.Limiter
	limit    rate.Limit
	burst    int
}

// New creates a Limiter allowing at most attempts per window for each key.
func New(attempts int, window time.Duration) *Limiter {
	return &Limiter{
		limiters: make(map[string]*rate.Limiter),
		limit:    rate.Every(window / time.Duration(attempts)),
		burst:    attempts,
	}
}

// Allow reports whether another attempt is permitted for key right now.
func (l *Limiter) Allow(key string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	if len(l.limiters) > maxKeys {
		l.limiters = make(map[string]*rate.Limiter)
	}

	limiter, ok := l.limiters[key]
	if !ok {
		limiter = rate.NewLimiter(l.limit, l.burst)
		l.limiters[key] = limiter
	}

	return limiter.Allow()
}
