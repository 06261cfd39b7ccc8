package handlers

import (
	"github.com/Voluto75/tapetag/internal/middleware"
	"github.com/labstack/echo/v4"
)

// getVisitorIDFromContext returns the anonymous visitor token resolved by
// the VisitorIdentity middleware, or "" when the middleware did not run.
func getVisitorIDFromContext(c echo.Context) string {
	if v, ok := c.Get(middleware.VisitorContextKey).(string); ok {
		return v
	}
	return ""
}
