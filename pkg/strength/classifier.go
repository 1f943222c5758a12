package strength

import (
	"strings"
	"unicode/utf8"
)

// MinLength is the minimum number of characters a password needs to not be
// considered weak.
const MinLength = 8

// SpecialChars is the set of characters accepted as "special" by Classify.
const SpecialChars = "!@#$%^&*"

const (
	ReasonTooShort    = "too short"
	ReasonNoUppercase = "add uppercase letters"
	ReasonNoLowercase = "add lowercase letters"
	ReasonNoDigits    = "add numbers"
	ReasonNoSpecial   = "add special characters"
	ReasonSecure      = "password is secure"
	ReasonBreached    = "password has been exposed in data breaches"
)

// Verdict is the result of evaluating a single password.
type Verdict struct {
	Tier   Tier   `json:"tier"`
	Reason string `json:"reason"`
}

// Classify rates a password by its composition. The rules are checked in
// order and the first one that matches wins, so a short password without
// uppercase letters is reported as too short.
func Classify(password string) Verdict {
	if utf8.RuneCountInString(password) < MinLength {
		return Verdict{Tier: Weak, Reason: ReasonTooShort}
	}

	var upper, lower, digit, special bool
	for _, r := range password {
		switch {
		case r >= 'A' && r <= 'Z':
			upper = true
		case r >= 'a' && r <= 'z':
			lower = true
		case r >= '0' && r <= '9':
			digit = true
		case strings.ContainsRune(SpecialChars, r):
			special = true
		}
	}

	switch {
	case !upper:
		return Verdict{Tier: Weak, Reason: ReasonNoUppercase}
	case !lower:
		return Verdict{Tier: Weak, Reason: ReasonNoLowercase}
	case !digit:
		return Verdict{Tier: Moderate, Reason: ReasonNoDigits}
	case !special:
		return Verdict{Tier: Moderate, Reason: ReasonNoSpecial}
	}

	return Verdict{Tier: Strong, Reason: ReasonSecure}
}

// BreachedVerdict is the verdict for a password found in the breach corpus.
func BreachedVerdict() Verdict {
	return Verdict{Tier: Breached, Reason: ReasonBreached}
}
