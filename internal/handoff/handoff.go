// Package handoff passes a password from one surface to another, e.g. from the
// inline field indicator to the full report. Entries are take-once and expire.
package handoff

import (
	"context"
	"errors"
	"time"
)

// DefaultTTL is how long an untaken password is kept.
const DefaultTTL = 2 * time.Minute

var (
	ErrNotFound = errors.New("handoff not found or already taken")
	// ErrFull is returned by Put when the store holds as many live handoffs as
	// it is allowed to.
	ErrFull = errors.New("too many pending handoffs")
)

type Store interface {
	// Put keeps the password and returns the token to take it with.
	Put(ctx context.Context, password string) (string, error)
	// Take returns the password and forgets it.
	Take(ctx context.Context, token string) (string, error)
	Close() error
}
