package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/nexerp/authgate/internal/api/metrics"
	"github.com/nexerp/authgate/internal/core/domain"
	"github.com/nexerp/authgate/internal/core/ports"
	"github.com/nexerp/authgate/internal/session"
	"github.com/nexerp/authgate/internal/token"
)

type AuthHandler struct {
	authService ports.AuthService
	cookie      session.CookieConfig
}

func NewAuthHandler(authService ports.AuthService, cookie session.CookieConfig) *AuthHandler {
	return &AuthHandler{authService: authService, cookie: cookie}
}

type registerRequest struct {
	Username string   `json:"username" validate:"required,min=3"`
	Password string   `json:"password" validate:"required,min=6"`
	FullName string   `json:"full_name"`
	Email    string   `json:"email" validate:"omitempty,email"`
	Roles    []string `json:"roles"`
}

type loginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type profileRequest struct {
	FullName     *string `json:"full_name,omitempty"`
	Email        *string `json:"email,omitempty" validate:"omitempty,email"`
	EmployeeCode *string `json:"employee_code,omitempty"`
}

type authResponse struct {
	Token string       `json:"token,omitempty"`
	User  *domain.User `json:"user,omitempty"`
}

// Register creates a new user account.
//
// @Summary      Register a new user
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      registerRequest  true  "User registration details"
// @Success      201   {object}  authResponse
// @Failure      400   {object}  map[string]string
// @Failure      409   {object}  map[string]string
// @Router       /auth/register [post]
func (h *AuthHandler) Register(c echo.Context) error {
	var req registerRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	user, err := h.authService.Register(c.Request().Context(), req.Username, req.Password, req.FullName, req.Email, req.Roles)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusCreated, authResponse{User: user})
}

// Login authenticates a user, persists the session, and mirrors the token
// into the auth cookie the edge-layer guard reads.
//
// @Summary      Login
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      loginRequest  true  "Login credentials"
// @Success      200   {object}  authResponse
// @Failure      400   {object}  map[string]string
// @Failure      401   {object}  map[string]string
// @Router       /auth/login [post]
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	tok, user, err := h.authService.Login(c.Request().Context(), req.Username, req.Password)
	if err != nil {
		if err == domain.ErrInvalidCredentials || err == domain.ErrUserNotFound {
			metrics.LoginsTotal.WithLabelValues("invalid_credentials").Inc()
		} else {
			metrics.LoginsTotal.WithLabelValues("error").Inc()
		}
		return err
	}

	metrics.LoginsTotal.WithLabelValues("success").Inc()
	c.SetCookie(session.AuthCookie(tok, h.cookie))
	return c.JSON(http.StatusOK, authResponse{Token: tok, User: user})
}

// Logout clears the persisted session and expires the mirrored cookie.
//
// @Summary      Logout
// @Tags         auth
// @Produce      json
// @Success      204
// @Router       /auth/logout [post]
func (h *AuthHandler) Logout(c echo.Context) error {
	// A best-effort sid from the mirrored cookie; a missing or garbled
	// token still clears the cookie. The raw token goes along so the
	// service can refuse to clear a session the caller does not hold.
	raw := session.TokenFromCookie(c.Request(), h.cookie)
	if claims := token.Decode(raw); claims != nil && claims.Subject != "" {
		if err := h.authService.Logout(c.Request().Context(), claims.Subject, raw); err != nil {
			return err
		}
	}

	metrics.LogoutsTotal.Inc()
	c.SetCookie(session.ExpiredAuthCookie(h.cookie))
	return c.NoContent(http.StatusNoContent)
}

// Session returns the identity behind the caller's verified token.
//
// @Summary      Current session
// @Tags         auth
// @Produce      json
// @Success      200  {object}  authResponse
// @Failure      401  {object}  map[string]string
// @Router       /auth/session [get]
func (h *AuthHandler) Session(c echo.Context) error {
	sid, err := ctxSubject(c)
	if err != nil {
		return err
	}

	user, err := h.authService.Session(c.Request().Context(), sid)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, authResponse{User: user})
}

// UpdateProfile merges profile fields into the account and live session.
//
// @Summary      Update profile
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      profileRequest  true  "Fields to merge"
// @Success      200   {object}  authResponse
// @Failure      401   {object}  map[string]string
// @Router       /auth/profile [patch]
func (h *AuthHandler) UpdateProfile(c echo.Context) error {
	sid, err := ctxSubject(c)
	if err != nil {
		return err
	}

	var req profileRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	patch := domain.UserPatch{
		FullName:     req.FullName,
		Email:        req.Email,
		EmployeeCode: req.EmployeeCode,
	}
	user, err := h.authService.UpdateProfile(c.Request().Context(), sid, patch)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, authResponse{User: user})
}
