package session

import (
	"net/http"
	"strings"
	"time"
)

// CookieName is the mirrored credential cookie. The edge-layer guard reads
// only this cookie; it has no access to the storage backend.
const CookieName = "auth_token"

// CookieConfig controls the attributes of the mirrored cookie.
type CookieConfig struct {
	Name     string
	Domain   string
	SameSite string
	Secure   bool
	MaxAge   time.Duration
}

func (c CookieConfig) name() string {
	if c.Name == "" {
		return CookieName
	}
	return c.Name
}

func (c CookieConfig) maxAge() time.Duration {
	if c.MaxAge <= 0 {
		return DefaultTTL
	}
	return c.MaxAge
}

// ParseSameSite maps a config string to http.SameSite, defaulting to Lax.
func ParseSameSite(s string) http.SameSite {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "strict":
		return http.SameSiteStrictMode
	case "none":
		return http.SameSiteNoneMode
	default:
		return http.SameSiteLaxMode
	}
}

// AuthCookie builds the mirrored credential cookie: path=/, seven-day
// max-age and SameSite=Lax unless configured otherwise.
func AuthCookie(tok string, cfg CookieConfig) *http.Cookie {
	ttl := cfg.maxAge()
	ck := &http.Cookie{
		Name:     cfg.name(),
		Value:    tok,
		Path:     "/",
		HttpOnly: true,
		Secure:   cfg.Secure,
		SameSite: ParseSameSite(cfg.SameSite),
		Expires:  time.Now().Add(ttl).UTC(),
		MaxAge:   int(ttl.Seconds()),
	}
	if strings.TrimSpace(cfg.Domain) != "" {
		ck.Domain = cfg.Domain
	}
	return ck
}

// ExpiredAuthCookie builds a deletion cookie: expiry in the past so the
// user agent discards the mirrored credential.
func ExpiredAuthCookie(cfg CookieConfig) *http.Cookie {
	ck := &http.Cookie{
		Name:     cfg.name(),
		Value:    "",
		Path:     "/",
		HttpOnly: true,
		Secure:   cfg.Secure,
		SameSite: ParseSameSite(cfg.SameSite),
		Expires:  time.Unix(0, 0).UTC(),
		MaxAge:   -1,
	}
	if strings.TrimSpace(cfg.Domain) != "" {
		ck.Domain = cfg.Domain
	}
	return ck
}

// TokenFromCookie extracts the mirrored credential from a request, or ""
// when the cookie is absent.
func TokenFromCookie(r *http.Request, cfg CookieConfig) string {
	ck, err := r.Cookie(cfg.name())
	if err != nil {
		return ""
	}
	return ck.Value
}
