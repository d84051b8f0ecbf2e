package middleware // middleware provides shared request processing for handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/blog-platform/internal/policy"
)

// RequireRole returns a middleware that enforces that the authenticated
// caller holds one of the given roles. It assumes JWTAuth ran earlier and
// stored the claims in the context; a missing or disallowed role is
// rejected with 403 Forbidden. The decision itself is delegated to the
// policy package so route-level gating and in-handler checks share one
// implementation.
func RequireRole(roles ...string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if err := policy.RequireRole(ClaimsFrom(c), roles...); err != nil {
				return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
			}
			return next(c)
		}
	}
}
