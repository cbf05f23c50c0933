// Package ratelimit guards the login path against per-username brute force.
//
// Limiting is keyed by username rather than client address: it stops
// credential stuffing against a single account regardless of source, at the
// cost of not stopping one attacker spraying many usernames. The systems this
// serves have a small, known user base, so that trade is acceptable.
package ratelimit

import (
	"context"
	"strings"
	"time"
)

const (
	DefaultThreshold       = 5
	DefaultWindow          = 15 * time.Minute
	DefaultCleanupInterval = 5 * time.Minute
)

// Limiter tracks failed login attempts per username.
type Limiter interface {
	// IsLocked reports whether the username has reached the failure
	// threshold inside the current window.
	IsLocked(ctx context.Context, username string) (bool, error)

	// RecordFailure notes a failed attempt and reports whether the
	// username is now locked.
	RecordFailure(ctx context.Context, username string) (bool, error)

	// Clear forgets the username's failures, called on successful login.
	Clear(ctx context.Context, username string) error
}

// Key normalizes a username for limiter lookups.
func Key(username string) string {
	return strings.ToLower(strings.TrimSpace(username))
}
