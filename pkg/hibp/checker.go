package hibp

import (
	"context"
	"github.com/rs/zerolog/log"
	"unicode/utf8"
)

// MinCheckLength is the shortest password sent to the range API. Anything
// shorter is reported as not breached without a lookup.
const MinCheckLength = 3

// Ranger returns the range set for a digest prefix.
type Ranger interface {
	Range(ctx context.Context, prefix string) (*RangeSet, error)
}

// Checker tells if a password is present in the Pwned Passwords corpus.
//
// Lookup failures are reported as "not breached" unless the checker is
// fail-closed, in which case they are returned to the caller. Context
// cancellation is always returned.
type Checker struct {
	ranger     Ranger
	failClosed bool
}

type CheckerOption func(*Checker)

// FailClosed makes lookup errors surface instead of being treated as not breached.
func FailClosed(failClosed bool) CheckerOption {
	return func(c *Checker) {
		c.failClosed = failClosed
	}
}

func NewChecker(ranger Ranger, opts ...CheckerOption) *Checker {
	c := &Checker{ranger: ranger}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// IsBreached hashes the password and looks it up with k-anonymity. Only the
// first 5 characters of the hash leave the process.
func (c *Checker) IsBreached(ctx context.Context, password string) (bool, error) {
	if utf8.RuneCountInString(password) < MinCheckLength {
		return false, nil
	}

	return c.IsDigestBreached(ctx, Fingerprint(password))
}

// IsDigestBreached looks up an already hashed password.
func (c *Checker) IsDigestBreached(ctx context.Context, digest Digest) (bool, error) {
	set, err := c.ranger.Range(ctx, digest.Prefix())
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return false, ctxErr
		}
		if c.failClosed {
			return false, err
		}

		log.Warn().Err(err).Msg("breach lookup failed, treating password as not breached")
		return false, nil
	}

	_, found := set.Count(digest.Suffix())
	return found, nil
}
