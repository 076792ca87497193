// Package session persists bearer credentials and the authenticated user
// record between requests. It is the single writer for both the storage
// records and the mirrored auth cookie, so the two views cannot diverge.
package session

import (
	"context"
	"encoding/json"
	"time"

	"github.com/nexerp/authgate/internal/core/domain"
	"github.com/nexerp/authgate/internal/infrastructure/storage"
)

const (
	// DefaultTTL matches the mirrored cookie's seven-day max-age.
	DefaultTTL = 7 * 24 * time.Hour

	multiTokenKeyPrefix = "auth_tokens:"
	plainTokenKeyPrefix = "auth_token:"
	authRecordKeyPrefix = "auth:"
)

// TokenPair is the structured multi-token record. Reads prefer it over the
// plain token record so that clients migrating to refresh tokens keep
// working against older records.
type TokenPair struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken,omitempty"`
}

// AuthRecord is the persisted authentication snapshot written on login.
type AuthRecord struct {
	IsAuthenticated bool         `json:"isAuthenticated"`
	Token           string       `json:"token"`
	User            *domain.User `json:"user"`
}

// Store reads and writes session-scoped auth state. All operations degrade
// to "absent" on backend failure; none of them return an error.
type Store struct {
	backend storage.Store
	ttl     time.Duration
}

// NewStore wraps a storage backend. A non-positive ttl falls back to
// DefaultTTL.
func NewStore(backend storage.Store, ttl time.Duration) *Store {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Store{backend: backend, ttl: ttl}
}

// Token returns the persisted credential for the session. Precedence:
// the structured token-pair record's access token, then the plain record.
func (s *Store) Token(ctx context.Context, sid string) (string, bool) {
	if b, ok := s.backend.Get(ctx, multiTokenKeyPrefix+sid); ok {
		var pair TokenPair
		if err := json.Unmarshal(b, &pair); err == nil && pair.AccessToken != "" {
			return pair.AccessToken, true
		}
	}
	if b, ok := s.backend.Get(ctx, plainTokenKeyPrefix+sid); ok && len(b) > 0 {
		return string(b), true
	}
	return "", false
}

// TokenWithFallback is Token with a final fallback to the value mirrored in
// the request cookie, for callers that carried one.
func (s *Store) TokenWithFallback(ctx context.Context, sid, cookieToken string) (string, bool) {
	if tok, ok := s.Token(ctx, sid); ok {
		return tok, true
	}
	if cookieToken != "" {
		return cookieToken, true
	}
	return "", false
}

// SetToken persists the credential under both the structured and the plain
// record so either read path observes it.
func (s *Store) SetToken(ctx context.Context, sid, tok string) {
	if b, err := json.Marshal(TokenPair{AccessToken: tok}); err == nil {
		s.backend.Set(ctx, multiTokenKeyPrefix+sid, b, s.ttl)
	}
	s.backend.Set(ctx, plainTokenKeyPrefix+sid, []byte(tok), s.ttl)
}

// RemoveToken clears both token records.
func (s *Store) RemoveToken(ctx context.Context, sid string) {
	s.backend.Delete(ctx, multiTokenKeyPrefix+sid)
	s.backend.Delete(ctx, plainTokenKeyPrefix+sid)
}

// Auth returns the persisted authentication snapshot, if any.
func (s *Store) Auth(ctx context.Context, sid string) (*AuthRecord, bool) {
	b, ok := s.backend.Get(ctx, authRecordKeyPrefix+sid)
	if !ok {
		return nil, false
	}
	var rec AuthRecord
	if err := json.Unmarshal(b, &rec); err != nil {
		return nil, false
	}
	return &rec, true
}

// SetAuth persists the authentication snapshot.
func (s *Store) SetAuth(ctx context.Context, sid, tok string, user *domain.User) {
	rec := AuthRecord{IsAuthenticated: user != nil, Token: tok, User: user}
	b, err := json.Marshal(rec)
	if err != nil {
		return
	}
	s.backend.Set(ctx, authRecordKeyPrefix+sid, b, s.ttl)
}

// RemoveAuth clears the authentication snapshot.
func (s *Store) RemoveAuth(ctx context.Context, sid string) {
	s.backend.Delete(ctx, authRecordKeyPrefix+sid)
}

// Clear removes every record for the session. Used on logout.
func (s *Store) Clear(ctx context.Context, sid string) {
	s.RemoveToken(ctx, sid)
	s.RemoveAuth(ctx, sid)
}
