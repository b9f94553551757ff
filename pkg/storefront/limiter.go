package storefront

import (
	"sync"
	"time"

	"golang.org/x/time/rate"

	"github.com/Veraticus/shopfront/pkg/interfaces"
)

// WindowLimiter allows up to max actions per window, refilling evenly.
type WindowLimiter struct {
	max    int
	window time.Duration

	mu      sync.Mutex
	limiter *rate.Limiter
}

// NewWindowLimiter creates a limiter for max actions per window.
// A zero window means no limit.
func NewWindowLimiter(max int, window time.Duration) *WindowLimiter {
	l := &WindowLimiter{max: max, window: window}
	l.limiter = l.build()
	return l
}

func (l *WindowLimiter) build() *rate.Limiter {
	if l.window <= 0 {
		return rate.NewLimiter(rate.Inf, 0)
	}
	if l.max <= 0 {
		return rate.NewLimiter(0, 0)
	}
	return rate.NewLimiter(rate.Every(l.window/time.Duration(l.max)), l.max)
}

// Allow checks if an action is allowed under the rate limit
func (l *WindowLimiter) Allow() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.limiter.Allow()
}

// Reset restores full capacity
func (l *WindowLimiter) Reset() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.limiter = l.build()
}

// Ensure WindowLimiter implements RateLimiter
var _ interfaces.RateLimiter = (*WindowLimiter)(nil)
