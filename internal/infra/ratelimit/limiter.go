// internal/infra/ratelimit/limiter.go
package ratelimit

import (
	"context"
	"math"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/sirupsen/logrus"
)

// Decision is the result of a single Allow call.
type Decision struct {
	Allowed    bool
	Remaining  int
	RetryAfter time.Duration
}

// Limiter allows at most Limit requests per key within Window.
type Limiter struct {
	store  Store
	limit  int
	window time.Duration
	now    Clock
	logger *logrus.Entry
}

func NewLimiter(store Store, limit int, window time.Duration, logger *logrus.Entry) *Limiter {
	return &Limiter{
		store:  store,
		limit:  limit,
		window: window,
		now:    time.Now,
		logger: logger.WithField("component", "rate_limiter"),
	}
}

// WithClock replaces the clock used to compute Retry-After. Use the same clock as the store.
func (l *Limiter) WithClock(clock Clock) *Limiter {
	l.now = clock
	return l
}

// Allow records a request for key. A non-positive limit disables limiting.
func (l *Limiter) Allow(ctx context.Context, key string) (Decision, error) {
	if l.limit <= 0 {
		return Decision{Allowed: true, Remaining: math.MaxInt}, nil
	}

	count, oldest, err := l.store.Hit(ctx, key, l.window)
	if err != nil {
		return Decision{}, err
	}
	if count <= l.limit {
		return Decision{Allowed: true, Remaining: l.limit - count}, nil
	}

	retryAfter := oldest.Add(l.window).Sub(l.now())
	if retryAfter < time.Second {
		retryAfter = time.Second
	}
	return Decision{Allowed: false, RetryAfter: retryAfter}, nil
}

// KeyFunc derives the limiting key from a request.
type KeyFunc func(r *http.Request) string

// ByRemoteAddr keys on the host part of r.RemoteAddr so that every connection from one client
// shares a key. chi's RealIP rewrites RemoteAddr from client-supplied headers and must only run
// behind a proxy that overwrites them.
func ByRemoteAddr(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil || host == "" {
		return r.RemoteAddr
	}
	return host
}

// Middleware rejects requests over the limit with 429. Store errors let the request through.
func (l *Limiter) Middleware(keyFn KeyFunc) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			key := keyFn(r)
			decision, err := l.Allow(r.Context(), key)
			if err != nil {
				l.logger.WithError(err).WithField("key", key).Warn("Rate limit store unavailable, allowing request")
				next.ServeHTTP(w, r)
				return
			}
			if !decision.Allowed {
				seconds := int(math.Ceil(decision.RetryAfter.Seconds()))
				w.Header().Set("Retry-After", strconv.Itoa(seconds))
				http.Error(w, "too many requests", http.StatusTooManyRequests)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
