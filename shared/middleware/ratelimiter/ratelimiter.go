package ratelimiter

import (
	"sync"
	"time"

	"golang.org/x/time/rate"
)

type entry struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// UserRateLimiter keeps one token bucket per identity (user id, IP, ...).
// Buckets idle for longer than expiration are dropped by Cleanup.
type UserRateLimiter struct {
	mu         sync.Mutex
	limiters   map[string]*entry
	rate       rate.Limit
	burst      int
	expiration time.Duration
	now        func() time.Time
}

func New(perSecond float64, burst int, expiration time.Duration) *UserRateLimiter {
	return &UserRateLimiter{
		limiters:   make(map[string]*entry),
		rate:       rate.Limit(perSecond),
		burst:      burst,
		expiration: expiration,
		now:        time.Now,
	}
}

func Rps100() *UserRateLimiter {
	return New(100, 100, time.Hour)
}

func Rps10() *UserRateLimiter {
	return New(10, 10, time.Hour)
}

func OnceInSecond() *UserRateLimiter {
	return New(1, 1, time.Hour)
}

func (u *UserRateLimiter) Allow(identity string) bool {
	now := u.now()

	u.mu.Lock()
	e, ok := u.limiters[identity]
	if !ok {
		e = &entry{limiter: rate.NewLimiter(u.rate, u.burst)}
		u.limiters[identity] = e
	}
	e.lastSeen = now
	u.mu.Unlock()

	return e.limiter.AllowN(now, 1)
}

// Cleanup drops idle buckets and returns how many were removed.
func (u *UserRateLimiter) Cleanup() int {
	cutoff := u.now().Add(-u.expiration)

	u.mu.Lock()
	defer u.mu.Unlock()
	removed := 0
	for id, e := range u.limiters {
		if e.lastSeen.Before(cutoff) {
			delete(u.limiters, id)
			removed++
		}
	}
	return removed
}

func (u *UserRateLimiter) Len() int {
	u.mu.Lock()
	defer u.mu.Unlock()
	return len(u.limiters)
}
