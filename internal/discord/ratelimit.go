package discord

import (
	"sync"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
	"golang.org/x/time/rate"
)

const (
	maxTrackedUsers = 10000
	userIdleTTL     = 10 * time.Minute
)

// userLimiter enforces a per-user token bucket. A bucket is dropped
// userIdleTTL after it was created and the user starts over with a full one.
type userLimiter struct {
	limit rate.Limit
	burst int

	mu    sync.Mutex // serializes get-or-create
	users *expirable.LRU[string, *rate.Limiter]
}

func newUserLimiter(perSec float64, burst int) *userLimiter {
	if perSec <= 0 {
		return &userLimiter{limit: rate.Inf}
	}
	return &userLimiter{
		limit: rate.Limit(perSec),
		burst: max(1, burst),
		users: expirable.NewLRU[string, *rate.Limiter](maxTrackedUsers, nil, userIdleTTL),
	}
}

// allow reports whether userID may run a command now. When it may not,
// retryAfter is the wait until the next token.
func (l *userLimiter) allow(userID string) (ok bool, retryAfter time.Duration) {
	if l.limit == rate.Inf {
		return true, 0
	}

	reservation := l.limiter(userID).Reserve()
	if !reservation.OK() {
		return false, 0
	}
	if delay := reservation.Delay(); delay > 0 {
		reservation.Cancel()
		return false, delay
	}
	return true, 0
}

func (l *userLimiter) limiter(userID string) *rate.Limiter {
	l.mu.Lock()
	defer l.mu.Unlock()

	limiter, found := l.users.Get(userID)
	if !found {
		limiter = rate.NewLimiter(l.limit, l.burst)
		l.users.Add(userID, limiter)
	}
	return limiter
}
