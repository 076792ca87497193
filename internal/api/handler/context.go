package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// ctxSubject extracts the subject claim injected by the Auth middleware.
// Its presence proves the middleware ran; a missing subject means the route
// was wired without it, which must fail closed.
func ctxSubject(c echo.Context) (string, error) {
	sub, _ := c.Get("sub").(string)
	if sub == "" {
		return "", echo.NewHTTPError(http.StatusUnauthorized, "missing authentication claims")
	}
	return sub, nil
}
