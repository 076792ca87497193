// Package authstate holds the per-session source of truth for "is a user
// authenticated, who are they, and what roles do they hold". State changes
// only through the four transitions below; a mutex serializes them so the
// container keeps its invariants under concurrent handlers.
package authstate

import (
	"context"
	"sync"

	"github.com/rs/zerolog"

	"github.com/nexerp/authgate/internal/core/domain"
	"github.com/nexerp/authgate/internal/rbac"
	"github.com/nexerp/authgate/internal/session"
)

// Snapshot is an immutable copy of the container state. The user and role
// set are cloned, so a snapshot stays coherent while transitions continue.
type Snapshot struct {
	IsAuthenticated bool
	User            *domain.User
	Roles           rbac.RoleSet
	// Generation increments on every credential-changing transition.
	// Callers doing async work snapshot it first and discard results when
	// it has moved, so a response landing after logout is never applied.
	Generation uint64
}

// HasUser reports whether the snapshot carries an identity. It is true
// exactly when IsAuthenticated is true.
func (s Snapshot) HasUser() bool { return s.User != nil }

// Store is an injectable auth state container scoped to one session.
//
// Invariants, held in every reachable state:
//   - authenticated == (user != nil)
//   - roles is exactly rbac.ResolveRoles(user)
type Store struct {
	mu       sync.Mutex
	sessions *session.Store
	sid      string
	log      zerolog.Logger

	authenticated bool
	user          *domain.User
	roles         rbac.RoleSet
	generation    uint64
}

// New creates an empty, unauthenticated container bound to the session
// store records for sid.
func New(sessions *session.Store, sid string, log zerolog.Logger) *Store {
	return &Store{
		sessions: sessions,
		sid:      sid,
		log:      log,
		roles:    make(rbac.RoleSet),
	}
}

// SetCredentials marks the session authenticated as user, recomputes the
// role set, and persists the user snapshot. It does not persist the token:
// token persistence is the login flow's earlier, separate step.
func (s *Store) SetCredentials(ctx context.Context, user *domain.User) {
	if user == nil {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	s.apply(user.Clone())
	s.generation++
	s.persist(ctx)
}

// RestoreAuth rebuilds state from the persisted user and token pair. It
// populates the container only when both are present; otherwise the state
// ends up unauthenticated, even if the container held an identity before
// the records vanished. Run it once per session before any guard decision.
func (s *Store) RestoreAuth(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec, ok := s.sessions.Auth(ctx, s.sid)
	if !ok || rec.User == nil {
		s.reset()
		return
	}
	if _, ok := s.sessions.Token(ctx, s.sid); !ok {
		s.reset()
		return
	}

	if !s.authenticated {
		s.generation++
	}
	s.apply(rec.User.Clone())
}

// UpdateUser shallow-merges the patch into the current user and re-persists
// the record. It is a no-op while unauthenticated.
func (s *Store) UpdateUser(ctx context.Context, patch domain.UserPatch) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.authenticated {
		return
	}
	merged := patch.Apply(*s.user)
	s.apply(&merged)
	s.persist(ctx)
}

// Logout clears the in-memory state and removes the persisted token and
// user records.
func (s *Store) Logout(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.reset()
	s.sessions.Clear(ctx, s.sid)
}

// Snapshot returns a consistent copy of the current state.
func (s *Store) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	roles := make(rbac.RoleSet, len(s.roles))
	for c := range s.roles {
		roles[c] = struct{}{}
	}
	return Snapshot{
		IsAuthenticated: s.authenticated,
		User:            s.user.Clone(),
		Roles:           roles,
		Generation:      s.generation,
	}
}

// reset drops any held identity. The generation moves only when an
// identity was actually lost. Callers hold s.mu.
func (s *Store) reset() {
	if s.authenticated {
		s.generation++
	}
	s.authenticated = false
	s.user = nil
	s.roles = make(rbac.RoleSet)
}

// apply installs user as the authenticated identity. Callers hold s.mu.
func (s *Store) apply(user *domain.User) {
	s.authenticated = true
	s.user = user
	s.roles = rbac.ResolveRolesWith(s.log, user)
}

// persist rewrites the auth record alongside whatever token is currently
// persisted for the session. Callers hold s.mu.
func (s *Store) persist(ctx context.Context) {
	tok, _ := s.sessions.Token(ctx, s.sid)
	s.sessions.SetAuth(ctx, s.sid, tok, s.user)
}
