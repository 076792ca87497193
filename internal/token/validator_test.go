package token

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

func signedToken(t *testing.T, claims jwt.MapClaims) string {
	t.Helper()
	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	s, err := tok.SignedString([]byte("test-secret"))
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	return s
}

func TestDecode_ValidToken(t *testing.T) {
	exp := time.Now().Add(time.Hour).Unix()
	raw := signedToken(t, jwt.MapClaims{"sub": "42", "exp": exp})

	c := Decode(raw)
	if c == nil {
		t.Fatalf("expected claims, got nil")
	}
	if c.Subject != "42" {
		t.Fatalf("expected subject 42, got %q", c.Subject)
	}
	if c.ExpiresAt.Unix() != exp {
		t.Fatalf("expected exp %d, got %d", exp, c.ExpiresAt.Unix())
	}
}

func TestDecode_Malformed(t *testing.T) {
	cases := []struct {
		name string
		raw  string
	}{
		{"empty", ""},
		{"not a token", "garbage"},
		{"two segments", "abc.def"},
		{"four segments", "a.b.c.d"},
		{"invalid base64 payload", "eyJhbGciOiJIUzI1NiJ9.!!!.sig"},
		{"payload not json", "eyJhbGciOiJIUzI1NiJ9.bm90LWpzb24.sig"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if c := Decode(tc.raw); c != nil {
				t.Fatalf("expected nil claims, got %+v", c)
			}
		})
	}
}

func TestDecode_NoExpiry(t *testing.T) {
	raw := signedToken(t, jwt.MapClaims{"sub": "7"})
	c := Decode(raw)
	if c == nil {
		t.Fatalf("expected claims, got nil")
	}
	if !c.ExpiresAt.IsZero() {
		t.Fatalf("expected zero expiry, got %v", c.ExpiresAt)
	}
}

func TestIsExpiredAt_SkewBoundary(t *testing.T) {
	now := time.Now()

	// Four seconds of remaining life sits inside the five-second skew
	// tolerance: already expired.
	inside := signedToken(t, jwt.MapClaims{"exp": now.Add(4 * time.Second).Unix()})
	if !IsExpiredAt(inside, now) {
		t.Fatalf("token expiring in 4s should be reported expired")
	}

	// Six seconds out clears the tolerance: still valid.
	outside := signedToken(t, jwt.MapClaims{"exp": now.Add(6 * time.Second).Unix()})
	if IsExpiredAt(outside, now) {
		t.Fatalf("token expiring in 6s should be reported valid")
	}
}

func TestIsExpiredAt_DegenerateInputs(t *testing.T) {
	now := time.Now()

	if !IsExpiredAt("", now) {
		t.Fatalf("empty token should be expired")
	}
	if !IsExpiredAt("not.a.token", now) {
		t.Fatalf("undecodable token should be expired")
	}

	noExp := signedToken(t, jwt.MapClaims{"sub": "9"})
	if !IsExpiredAt(noExp, now) {
		t.Fatalf("token without exp claim should be expired")
	}

	past := signedToken(t, jwt.MapClaims{"exp": now.Add(-time.Hour).Unix()})
	if !IsExpiredAt(past, now) {
		t.Fatalf("long-expired token should be expired")
	}
}

func TestIsValid(t *testing.T) {
	raw := signedToken(t, jwt.MapClaims{"exp": time.Now().Add(time.Hour).Unix()})
	if !IsValid(raw) {
		t.Fatalf("fresh token should be valid")
	}
	if IsValid("garbage") {
		t.Fatalf("garbage should not be valid")
	}
}
