package middleware

import (
	"sync"

	"golang.org/x/time/rate"
)

// ActionLimiter rate-limits interaction mutations per viewer so a single
// client cannot flood the backend with toggle spam.
type ActionLimiter struct {
	mu       sync.Mutex
	limiters map[string]*rate.Limiter
	rps      rate.Limit
	burst    int
}

// NewActionLimiter creates a new per-viewer action limiter.
func NewActionLimiter(rps float64, burst int) *ActionLimiter {
	return &ActionLimiter{
		limiters: make(map[string]*rate.Limiter),
		rps:      rate.Limit(rps),
		burst:    burst,
	}
}

// Allow reports whether the viewer may perform another action right now.
func (l *ActionLimiter) Allow(viewerID string) bool {
	l.mu.Lock()
	limiter, exists := l.limiters[viewerID]
	if !exists {
		limiter = rate.NewLimiter(l.rps, l.burst)
		l.limiters[viewerID] = limiter
	}
	l.mu.Unlock()

	return limiter.Allow()
}
