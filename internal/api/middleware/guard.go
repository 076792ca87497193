package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/nexerp/authgate/internal/api/metrics"
	"github.com/nexerp/authgate/internal/authstate"
	"github.com/nexerp/authgate/internal/core/domain"
	"github.com/nexerp/authgate/internal/rbac"
	"github.com/nexerp/authgate/internal/session"
	"github.com/nexerp/authgate/internal/token"
)

// Context keys set by the render-layer guard for downstream handlers.
const (
	ContextKeyUser  = "auth_user"
	ContextKeyRoles = "auth_roles"
)

// GuardConfig wires the render-layer guard.
type GuardConfig struct {
	Sessions      *session.Store
	Cookie        session.CookieConfig
	LoginPath     string
	ForbiddenPath string
	Log           zerolog.Logger
}

// Guard is the render-layer protection for page subtrees. Unlike the edge
// guard it re-validates the token (expiry and session binding included),
// rebuilds the auth state from the session store, and enforces
// required-role predicates.
// Every request re-evaluates from scratch, so a role revoked mid-session
// takes effect on the next request.
type Guard struct {
	cfg GuardConfig
}

// NewGuard builds a Guard.
func NewGuard(cfg GuardConfig) *Guard {
	return &Guard{cfg: cfg}
}

// RequireAuth protects a subtree with no role requirement.
func (g *Guard) RequireAuth() echo.MiddlewareFunc {
	return g.Protect(nil, true)
}

// RequireAny protects a subtree; at least one of the given roles suffices.
func (g *Guard) RequireAny(roles ...domain.RoleCode) echo.MiddlewareFunc {
	return g.Protect(roles, true)
}

// RequireAll protects a subtree; every given role is required.
func (g *Guard) RequireAll(roles ...domain.RoleCode) echo.MiddlewareFunc {
	return g.Protect(roles, false)
}

// Protect returns middleware enforcing the guard's decision order:
// unauthenticated requests redirect to the login route; authenticated
// requests missing the required roles redirect to the forbidden page;
// everything else reaches the wrapped handler with the user in context.
func (g *Guard) Protect(required []domain.RoleCode, requireAny bool) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			snap := g.hydrate(c)

			if !snap.IsAuthenticated {
				metrics.GuardDecisionsTotal.WithLabelValues("redirect_login").Inc()
				return c.Redirect(http.StatusFound, g.cfg.LoginPath)
			}

			permitted := rbac.HasAnyRole(snap.User, required)
			if !requireAny {
				permitted = rbac.HasAllRoles(snap.User, required)
			}
			if !permitted {
				metrics.GuardDecisionsTotal.WithLabelValues("redirect_forbidden").Inc()
				g.cfg.Log.Debug().
					Str("username", snap.User.Username).
					Str("path", c.Request().URL.Path).
					Msg("required role missing")
				return c.Redirect(http.StatusFound, g.cfg.ForbiddenPath)
			}

			metrics.GuardDecisionsTotal.WithLabelValues("allow").Inc()
			c.Set(ContextKeyUser, snap.User)
			c.Set(ContextKeyRoles, snap.Roles)
			return next(c)
		}
	}
}

// hydrate rebuilds the per-request auth snapshot: read the cookie token,
// decode it, check expiry, then restore from the persisted session. Any
// failure along the way degrades to an unauthenticated snapshot, never an
// error.
func (g *Guard) hydrate(c echo.Context) authstate.Snapshot {
	req := c.Request()
	raw := session.TokenFromCookie(req, g.cfg.Cookie)
	if raw == "" {
		return authstate.Snapshot{}
	}

	claims := token.Decode(raw)
	if claims == nil {
		metrics.TokenValidationFailuresTotal.WithLabelValues("malformed").Inc()
		return authstate.Snapshot{}
	}
	if token.IsExpired(raw) {
		metrics.TokenValidationFailuresTotal.WithLabelValues("expired").Inc()
		return authstate.Snapshot{}
	}
	if claims.Subject == "" {
		return authstate.Snapshot{}
	}

	// The decode above is unverified, so the subject claim alone proves
	// nothing. The presented token must be byte-identical to the one
	// persisted at login; a token minted elsewhere restores no session.
	stored, ok := g.cfg.Sessions.Token(req.Context(), claims.Subject)
	if !ok || stored != raw {
		metrics.TokenValidationFailuresTotal.WithLabelValues("mismatch").Inc()
		return authstate.Snapshot{}
	}

	state := authstate.New(g.cfg.Sessions, claims.Subject, g.cfg.Log)
	state.RestoreAuth(req.Context())
	snap := state.Snapshot()
	if snap.IsAuthenticated {
		metrics.SessionsRestoredTotal.Inc()
	}
	return snap
}

// UserFromContext returns the authenticated user set by the guard, or nil.
func UserFromContext(c echo.Context) *domain.User {
	u, _ := c.Get(ContextKeyUser).(*domain.User)
	return u
}

// RolesFromContext returns the resolved role set placed by the guard.
func RolesFromContext(c echo.Context) rbac.RoleSet {
	r, _ := c.Get(ContextKeyRoles).(rbac.RoleSet)
	return r
}
