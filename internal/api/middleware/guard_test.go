package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/nexerp/authgate/internal/core/domain"
	"github.com/nexerp/authgate/internal/infrastructure/storage"
	"github.com/nexerp/authgate/internal/session"
)

func newTestGuard(t *testing.T) (*Guard, *session.Store) {
	t.Helper()
	sessions := session.NewStore(storage.NewMemory(time.Minute), time.Minute)
	g := NewGuard(GuardConfig{
		Sessions:      sessions,
		Cookie:        session.CookieConfig{},
		LoginPath:     "/auth/login",
		ForbiddenPath: "/forbidden",
		Log:           zerolog.Nop(),
	})
	return g, sessions
}

func mintToken(t *testing.T, sub string, ttl time.Duration) string {
	t.Helper()
	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": sub,
		"exp": time.Now().Add(ttl).Unix(),
	})
	s, err := tok.SignedString([]byte("secret"))
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	return s
}

// seedSession persists the token + user pair the way the login flow does.
func seedSession(t *testing.T, sessions *session.Store, user *domain.User, ttl time.Duration) string {
	t.Helper()
	sid := strconv.FormatInt(user.ID, 10)
	raw := mintToken(t, sid, ttl)
	ctx := context.Background()
	sessions.SetToken(ctx, sid, raw)
	sessions.SetAuth(ctx, sid, raw, user)
	return raw
}

func runGuard(t *testing.T, mw echo.MiddlewareFunc, cookieToken string) (*httptest.ResponseRecorder, bool) {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/dashboard/hr", nil)
	if cookieToken != "" {
		req.AddCookie(&http.Cookie{Name: session.CookieName, Value: cookieToken})
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	served := false
	handler := mw(func(c echo.Context) error {
		served = true
		return c.NoContent(http.StatusOK)
	})
	if err := handler(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	return rec, served
}

func employee() *domain.User {
	return &domain.User{
		ID:       5,
		Username: "ana",
		Roles:    []domain.Role{{Code: domain.RoleEmployee, Name: "Employee"}},
	}
}

func TestGuard_NoCookieRedirectsToLogin(t *testing.T) {
	g, _ := newTestGuard(t)
	rec, served := runGuard(t, g.RequireAuth(), "")
	if served {
		t.Fatalf("protected handler must not run")
	}
	if rec.Code != http.StatusFound || rec.Header().Get("Location") != "/auth/login" {
		t.Fatalf("expected redirect to login, got %d %q", rec.Code, rec.Header().Get("Location"))
	}
}

func TestGuard_MalformedTokenRedirectsToLogin(t *testing.T) {
	g, _ := newTestGuard(t)
	rec, served := runGuard(t, g.RequireAuth(), "not-a-jwt")
	if served || rec.Code != http.StatusFound || rec.Header().Get("Location") != "/auth/login" {
		t.Fatalf("malformed token should redirect to login, got %d (served=%v)", rec.Code, served)
	}
}

func TestGuard_ExpiredTokenRedirectsToLogin(t *testing.T) {
	g, sessions := newTestGuard(t)
	raw := seedSession(t, sessions, employee(), -time.Minute)

	rec, served := runGuard(t, g.RequireAuth(), raw)
	if served || rec.Code != http.StatusFound || rec.Header().Get("Location") != "/auth/login" {
		t.Fatalf("expired token should redirect to login even with a live session, got %d", rec.Code)
	}
}

func TestGuard_NoPersistedSessionRedirectsToLogin(t *testing.T) {
	g, _ := newTestGuard(t)
	// Valid token, but nothing persisted server-side.
	raw := mintToken(t, "5", time.Hour)

	rec, served := runGuard(t, g.RequireAuth(), raw)
	if served || rec.Code != http.StatusFound || rec.Header().Get("Location") != "/auth/login" {
		t.Fatalf("missing session should redirect to login, got %d", rec.Code)
	}
}

// A well-formed token naming someone else's session must restore nothing:
// only the exact token persisted at login binds to the session, so a token
// signed with an arbitrary key cannot impersonate its claimed subject.
func TestGuard_ForgedTokenRedirectsToLogin(t *testing.T) {
	g, sessions := newTestGuard(t)
	seedSession(t, sessions, employee(), time.Hour)

	forged := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": "5",
		"exp": time.Now().Add(time.Hour).Unix(),
	})
	raw, err := forged.SignedString([]byte("attacker-key"))
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}

	rec, served := runGuard(t, g.RequireAuth(), raw)
	if served {
		t.Fatalf("forged token must not reach the protected handler")
	}
	if rec.Code != http.StatusFound || rec.Header().Get("Location") != "/auth/login" {
		t.Fatalf("expected redirect to login, got %d %q", rec.Code, rec.Header().Get("Location"))
	}
}

func TestGuard_AuthenticatedNoRolesRequiredServes(t *testing.T) {
	g, sessions := newTestGuard(t)
	raw := seedSession(t, sessions, employee(), time.Hour)

	rec, served := runGuard(t, g.RequireAuth(), raw)
	if !served || rec.Code != http.StatusOK {
		t.Fatalf("expected protected handler to run, got %d (served=%v)", rec.Code, served)
	}
}

func TestGuard_RequireAny(t *testing.T) {
	g, sessions := newTestGuard(t)
	raw := seedSession(t, sessions, employee(), time.Hour)

	// EMPLOYEE holder against [EMPLOYEE, MANAGER] any-of: permitted.
	mw := g.RequireAny(domain.RoleEmployee, domain.RoleManager)
	rec, served := runGuard(t, mw, raw)
	if !served || rec.Code != http.StatusOK {
		t.Fatalf("any-of should permit, got %d (served=%v)", rec.Code, served)
	}
}

func TestGuard_RequireAllForbids(t *testing.T) {
	g, sessions := newTestGuard(t)
	raw := seedSession(t, sessions, employee(), time.Hour)

	// Same user, all-of [EMPLOYEE, MANAGER]: forbidden.
	mw := g.RequireAll(domain.RoleEmployee, domain.RoleManager)
	rec, served := runGuard(t, mw, raw)
	if served {
		t.Fatalf("all-of should not permit")
	}
	if rec.Code != http.StatusFound || rec.Header().Get("Location") != "/forbidden" {
		t.Fatalf("expected redirect to /forbidden, got %d %q", rec.Code, rec.Header().Get("Location"))
	}
}

func TestGuard_UnknownRoleGrantsNothing(t *testing.T) {
	g, sessions := newTestGuard(t)
	u := &domain.User{
		ID:       6,
		Username: "sam",
		Roles:    []domain.Role{{Code: domain.RoleCode("SUPERADMIN")}},
	}
	raw := seedSession(t, sessions, u, time.Hour)

	rec, served := runGuard(t, g.RequireAny(domain.RoleManager), raw)
	if served || rec.Header().Get("Location") != "/forbidden" {
		t.Fatalf("unknown role must not satisfy a gate, got %d (served=%v)", rec.Code, served)
	}
}

// A role revoked mid-session takes effect on the next request, because the
// guard rebuilds state from the persisted record every time.
func TestGuard_RevokedRoleTakesEffectNextRequest(t *testing.T) {
	g, sessions := newTestGuard(t)
	u := employee()
	raw := seedSession(t, sessions, u, time.Hour)

	mw := g.RequireAny(domain.RoleEmployee)
	if _, served := runGuard(t, mw, raw); !served {
		t.Fatalf("first request should be permitted")
	}

	// Revoke: re-persist the user without the role.
	u.Roles = nil
	sessions.SetAuth(context.Background(), "5", raw, u)

	rec, served := runGuard(t, mw, raw)
	if served || rec.Header().Get("Location") != "/forbidden" {
		t.Fatalf("revoked role should forbid on next request, got %d (served=%v)", rec.Code, served)
	}
}

func TestGuard_SetsUserInContext(t *testing.T) {
	g, sessions := newTestGuard(t)
	raw := seedSession(t, sessions, employee(), time.Hour)

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/dashboard", nil)
	req.AddCookie(&http.Cookie{Name: session.CookieName, Value: raw})
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	handler := g.RequireAuth()(func(c echo.Context) error {
		u := UserFromContext(c)
		if u == nil || u.Username != "ana" {
			t.Fatalf("expected user in context, got %+v", u)
		}
		if !RolesFromContext(c).Has(domain.RoleEmployee) {
			t.Fatalf("expected roles in context")
		}
		return c.NoContent(http.StatusOK)
	})
	if err := handler(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}
