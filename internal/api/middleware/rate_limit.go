package middleware

import (
	"fmt"
	"net/http"
	"sync"
	"time"

	"brandgate/internal/pkg/errors"
)

// RateLimiter is a per-key token bucket. Only the auth endpoints use it, to
// slow credential stuffing; the chat relay is deliberately unlimited.
type RateLimiter struct {
	store *sync.Map // map[string]*bucket
}

type bucket struct {
	tokens     int
	lastRefill time.Time
	mu         sync.Mutex
	lastAccess time.Time
}

func NewRateLimiter() *RateLimiter {
	rl := &RateLimiter{
		store: &sync.Map{},
	}

	go rl.cleanupLoop()

	return rl
}

func (rl *RateLimiter) cleanupLoop() {
	ticker := time.NewTicker(10 * time.Minute)
	defer ticker.Stop()

	for range ticker.C {
		now := time.Now()
		rl.store.Range(func(key, value interface{}) bool {
			b := value.(*bucket)
			b.mu.Lock()
			if now.Sub(b.lastAccess) > 10*time.Minute {
				rl.store.Delete(key)
			}
			b.mu.Unlock()
			return true
		})
	}
}

func (rl *RateLimiter) Allow(key string, limit int) bool {
	now := time.Now()

	val, _ := rl.store.LoadOrStore(key, &bucket{
		tokens:     limit,
		lastRefill: now,
		lastAccess: now,
	})

	b := val.(*bucket)
	b.mu.Lock()
	defer b.mu.Unlock()

	b.lastAccess = now

	// Refill at limit/60 tokens per second
	elapsed := now.Sub(b.lastRefill)
	refillRate := float64(limit) / 60.0
	refillTokens := int(elapsed.Seconds() * refillRate)

	if refillTokens > 0 {
		if b.tokens+refillTokens > limit {
			b.tokens = limit
		} else {
			b.tokens += refillTokens
		}
		b.lastRefill = now
	}

	if b.tokens > 0 {
		b.tokens--
		return true
	}

	return false
}

// Limit throttles by client address with the given per-minute budget.
func (rl *RateLimiter) Limit(name string, perMinute int) func(http.HandlerFunc) http.HandlerFunc {
	return func(next http.HandlerFunc) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			if perMinute <= 0 {
				next(w, r)
				return
			}

			key := fmt.Sprintf("%s:%s", r.RemoteAddr, name)
			if !rl.Allow(key, perMinute) {
				w.Header().Set("Retry-After", "60")
				errors.WriteError(w, http.StatusTooManyRequests, errors.ErrCodeRateLimitExceeded, "Rate limit exceeded", nil)
				return
			}

			next(w, r)
		}
	}
}
