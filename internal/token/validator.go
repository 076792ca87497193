// Package token inspects bearer credentials without verifying their
// signature. It exists to stop stale tokens from being sent, not to detect
// tampering: the auth service (and any API accepting these tokens) must
// verify signatures independently.
package token

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// expirySkew is subtracted from the expiry claim so that a token about to
// lapse is already treated as expired, absorbing client/server clock drift.
const expirySkew = 5 * time.Second

// Claims is the subset of the credential payload the gating layer cares
// about. ExpiresAt is zero when the token carries no expiry claim.
type Claims struct {
	Subject   string
	ExpiresAt time.Time
}

// Decode extracts claims from a compact three-segment token without
// verifying the signature. It returns nil on any malformed input: wrong
// segment count, invalid base64, or an unparsable payload. It never panics.
func Decode(raw string) *Claims {
	if raw == "" {
		return nil
	}
	var rc jwt.RegisteredClaims
	if _, _, err := jwt.NewParser().ParseUnverified(raw, &rc); err != nil {
		return nil
	}
	c := &Claims{Subject: rc.Subject}
	if rc.ExpiresAt != nil {
		c.ExpiresAt = rc.ExpiresAt.Time
	}
	return c
}

// IsExpiredAt reports whether the token is expired at the given instant.
// Undecodable tokens and tokens without an expiry claim count as expired.
func IsExpiredAt(raw string, now time.Time) bool {
	c := Decode(raw)
	if c == nil || c.ExpiresAt.IsZero() {
		return true
	}
	return !now.Add(expirySkew).Before(c.ExpiresAt)
}

// IsExpired is IsExpiredAt against the wall clock.
func IsExpired(raw string) bool {
	return IsExpiredAt(raw, time.Now())
}

// IsValid reports whether the token decodes and has not expired.
func IsValid(raw string) bool {
	return !IsExpired(raw)
}
