package hibp

import (
	"crypto/sha1"
	"encoding/hex"
	"errors"
	"regexp"
	"strings"
)

const (
	// DigestLength is the length of a hex encoded SHA1 digest.
	DigestLength = 40
	// PrefixLength is the amount of characters sent to the range API. k-anonymity needs the hash like this.
	PrefixLength = 5
	// SuffixLength is the amount of characters compared locally.
	SuffixLength = DigestLength - PrefixLength
)

var (
	ErrInvalidDigest = errors.New("input is not a valid SHA1 Hexadecimal hash")

	digestRegexp = regexp.MustCompile(`^[A-F\d]{40}$`)
	prefixRegexp = regexp.MustCompile(`^[A-F\d]{5}$`)
)

// Digest is an uppercase hexadecimal SHA1 hash, the format the Pwned Passwords
// corpus uses.
type Digest string

// Fingerprint hashes the password. The password itself never leaves this function.
func Fingerprint(password string) Digest {
	sum := sha1.Sum([]byte(password))
	return Digest(strings.ToUpper(hex.EncodeToString(sum[:])))
}

// ParseDigest validates an already hashed password. The hash must be uppercase
// for the range API, so any lowercase input is converted.
func ParseDigest(s string) (Digest, error) {
	upper := strings.ToUpper(strings.TrimSpace(s))
	if !digestRegexp.MatchString(upper) {
		return "", ErrInvalidDigest
	}
	return Digest(upper), nil
}

// JoinDigest rebuilds a digest from the parts returned by Prefix and Suffix.
func JoinDigest(prefix, suffix string) Digest {
	return Digest(prefix + suffix)
}

// Prefix is the part of the digest sent to the range API.
func (d Digest) Prefix() string {
	return string(d[:PrefixLength])
}

// Suffix is the part of the digest that is only ever compared locally.
func (d Digest) Suffix() string {
	return string(d[PrefixLength:])
}

func (d Digest) String() string {
	return string(d)
}

func validPrefix(prefix string) bool {
	return prefixRegexp.MatchString(prefix)
}
