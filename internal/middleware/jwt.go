package middleware // declare the middleware package; contains reusable HTTP middleware functions

import (
	"errors"
	"net/http" // HTTP status codes for responses
	"strings"  // string utilities for prefix checking and trimming

	"github.com/labstack/echo/v4" // Echo framework used for defining middleware and handlers

	"github.com/iliyamo/blog-platform/internal/utils"
)

// ClaimsKey is the context key under which JWTAuth stores the verified
// claims for the lifetime of the request.
const ClaimsKey = "claims"

// ErrMalformedHeader reports an Authorization header that does not carry a
// bearer token in the exact expected shape.
var ErrMalformedHeader = errors.New("malformed authorization header")

// ExtractBearer returns the raw token from an Authorization header value.
// The scheme prefix must be exactly "Bearer " — case-sensitive, single
// space — anything else is ErrMalformedHeader.
func ExtractBearer(header string) (string, error) {
	const prefix = "Bearer "
	if !strings.HasPrefix(header, prefix) {
		return "", ErrMalformedHeader
	}
	raw := header[len(prefix):]
	if raw == "" {
		return "", ErrMalformedHeader
	}
	return raw, nil
}

// JWTAuth returns an Echo middleware that validates a Bearer access token
// and injects the verified claims into the request context. The provided
// secret must match the one used when issuing tokens. Every failure mode —
// missing header, wrong scheme, bad signature, expiry, garbage token — is
// collapsed into a single 401 so callers cannot probe which check failed.
// Handlers behind this middleware read the caller via ClaimsFrom.
func JWTAuth(secret string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			raw, err := ExtractBearer(c.Request().Header.Get("Authorization"))
			if err != nil {
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "missing bearer token"})
			}
			claims, err := utils.ParseAccessToken(secret, raw)
			if err != nil {
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid token"})
			}
			c.Set(ClaimsKey, claims)
			return next(c)
		}
	}
}

// ClaimsFrom returns the claims stored by JWTAuth, or nil when the request
// never passed through it.
func ClaimsFrom(c echo.Context) *utils.Claims {
	claims, _ := c.Get(ClaimsKey).(*utils.Claims)
	return claims
}
