package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/nexerp/authgate/internal/api/metrics"
	"github.com/nexerp/authgate/internal/session"
)

// RouteGuardConfig wires the edge-layer guard.
type RouteGuardConfig struct {
	Classifier *Classifier
	Cookie     session.CookieConfig
	// LoginPath is where anonymous requests to protected routes land.
	LoginPath string
	// LandingPath is where authenticated requests to the auth screens land.
	LandingPath string
}

// RouteGuard is the edge-layer guard. It runs on every request, fully
// synchronously, and looks at exactly two things: whether the auth cookie
// is present, and how the path classifies. It checks presence only, not
// validity: an expired token still passes here and is caught by the
// render-layer guard and the API boundary.
func RouteGuard(cfg RouteGuardConfig) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			// Redirect rules apply to navigations. API calls (the login
			// POST included) carry their own auth and pass untouched.
			if m := c.Request().Method; m != http.MethodGet && m != http.MethodHead {
				return next(c)
			}

			path := c.Request().URL.Path
			class := cfg.Classifier.Classify(path)
			hasToken := session.TokenFromCookie(c.Request(), cfg.Cookie) != ""

			// First match wins.
			switch {
			case hasToken && class == RoutePublicAuth:
				metrics.RouteGuardDecisionsTotal.WithLabelValues("redirect_landing", class.String()).Inc()
				return c.Redirect(http.StatusFound, cfg.LandingPath)
			case !hasToken && class == RouteProtected:
				metrics.RouteGuardDecisionsTotal.WithLabelValues("redirect_login", class.String()).Inc()
				return c.Redirect(http.StatusFound, cfg.LoginPath)
			default:
				metrics.RouteGuardDecisionsTotal.WithLabelValues("pass", class.String()).Inc()
				return next(c)
			}
		}
	}
}
