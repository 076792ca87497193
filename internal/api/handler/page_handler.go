package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	apimw "github.com/nexerp/authgate/internal/api/middleware"
)

// PageHandler serves the page endpoints the guards redirect between. The
// real ERP front-end renders these; the gateway exposes them as JSON stubs
// so every redirect target resolves.
type PageHandler struct{}

func NewPageHandler() *PageHandler {
	return &PageHandler{}
}

// LoginPage is the public login screen target.
func (h *PageHandler) LoginPage(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{"page": "login"})
}

// RegisterPage is the public registration screen target.
func (h *PageHandler) RegisterPage(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{"page": "register"})
}

// Dashboard is the default authenticated landing route.
func (h *PageHandler) Dashboard(c echo.Context) error {
	username := ""
	if u := apimw.UserFromContext(c); u != nil {
		username = u.Username
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"page": "dashboard",
		"user": username,
	})
}

// Forbidden is where the render-layer guard sends permitted-but-unprivileged
// users. Navigating elsewhere recovers; nothing is sticky.
func (h *PageHandler) Forbidden(c echo.Context) error {
	return c.JSON(http.StatusForbidden, map[string]string{
		"page":  "forbidden",
		"error": "you do not have the required role for that page",
	})
}
