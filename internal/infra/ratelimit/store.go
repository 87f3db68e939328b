// internal/infra/ratelimit/store.go
package ratelimit

import (
	"context"
	"time"
)

// Store counts hits per key over a sliding window.
type Store interface {
	// Hit records a hit for key at the store's current time and returns how many hits fall in
	// the trailing window (including this one) and when the oldest of them was recorded.
	Hit(ctx context.Context, key string, window time.Duration) (count int, oldest time.Time, err error)
}

// Clock returns the current time. Stores take one so tests can move time without timers.
type Clock func() time.Time
