package ports

import (
	"context"
	"time"
)

// LoginLimiter throttles repeated login attempts for one key (the email).
type LoginLimiter interface {
	// Allow records an attempt and reports whether it is within the window
	// budget. retryAfter is meaningful only when allowed is false.
	Allow(ctx context.Context, key string) (allowed bool, retryAfter time.Duration, err error)
	Reset(ctx context.Context, key string) error
}
