package middleware

import (
	"net/http"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

// VisitorCookieName is the cookie carrying the anonymous visitor token.
const VisitorCookieName = "tt_vid"

// VisitorContextKey is the echo context key the resolved token is stored under.
const VisitorContextKey = "visitorID"

const visitorCookieMaxAge = 365 * 24 * time.Hour

// VisitorIdentity resolves the anonymous visitor token from the request
// cookie, minting and setting a fresh one when absent. The token is only
// ever used as a join key for likes; absence is not an error.
func VisitorIdentity() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			visitorID := ""
			if cookie, err := c.Cookie(VisitorCookieName); err == nil {
				visitorID = cookie.Value
			}

			// visitor_id is a uuid column; a missing or forged cookie
			// value is replaced rather than passed through.
			if _, err := uuid.Parse(visitorID); err != nil {
				visitorID = uuid.NewString()
				c.SetCookie(&http.Cookie{
					Name:     VisitorCookieName,
					Value:    visitorID,
					Path:     "/",
					MaxAge:   int(visitorCookieMaxAge.Seconds()),
					HttpOnly: true,
					SameSite: http.SameSiteLaxMode,
					Secure:   os.Getenv("ENV") == "production",
				})
			}

			// Store visitor token in context
			c.Set(VisitorContextKey, visitorID)

			return next(c)
		}
	}
}
