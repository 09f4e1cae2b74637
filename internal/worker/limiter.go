package worker

import (
	"path/filepath"
	"sync"

	"golang.org/x/time/rate"
)

// Limiter implements per-path rate limiting. Watch mode uses it to keep a
// rapidly re-saved file from flooding the pipeline with evaluations.
type Limiter struct {
	limiters     map[string]*rate.Limiter
	mu           sync.RWMutex
	defaultRate  rate.Limit
	defaultBurst int
}

// NewLimiter creates a new per-path rate limiter
func NewLimiter(eventsPerSecond float64, burst int) *Limiter {
	if burst <= 0 {
		burst = 5
	}
	if eventsPerSecond <= 0 {
		eventsPerSecond = 2
	}

	return &Limiter{
		limiters:     make(map[string]*rate.Limiter),
		defaultRate:  rate.Limit(eventsPerSecond),
		defaultBurst: burst,
	}
}

// Allow reports whether an evaluation of path may run now
func (l *Limiter) Allow(path string) bool {
	return l.getLimiter(filepath.Clean(path)).Allow()
}

func (l *Limiter) getLimiter(path string) *rate.Limiter {
	l.mu.RLock()
	limiter, exists := l.limiters[path]
	l.mu.RUnlock()
	if exists {
		return limiter
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	if limiter, exists = l.limiters[path]; exists {
		return limiter
	}
	limiter = rate.NewLimiter(l.defaultRate, l.defaultBurst)
	l.limiters[path] = limiter
	return limiter
}
