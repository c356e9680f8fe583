package sessions

import (
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
)

// CookieMaxAge is how long a visitor session cookie lives.
const CookieMaxAge = 14 * 24 * time.Hour

// Resolve returns the caller's session ID, issuing a new cookie when the
// request doesn't carry one.
func Resolve(c echo.Context, cookieName string) (string, error) {
	if cookie, err := c.Cookie(cookieName); err == nil && strings.HasPrefix(cookie.Value, idPrefix) {
		return cookie.Value, nil
	}

	id, err := NewID()
	if err != nil {
		return "", err
	}

	c.SetCookie(&http.Cookie{
		Name:     cookieName,
		Value:    id,
		Path:     "/",
		MaxAge:   int(CookieMaxAge.Seconds()),
		HttpOnly: true,
		Secure:   c.Request().TLS != nil || c.Request().Header.Get("X-Forwarded-Proto") == "https",
		SameSite: http.SameSiteLaxMode,
	})
	return id, nil
}
