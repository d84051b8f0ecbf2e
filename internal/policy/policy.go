// Package policy contains the pure authorization decision functions. Each
// function takes the caller's verified claims plus the facts about the
// target and returns nil or ErrForbidden. No I/O, no mutation: given the
// same claims and resource state the decision is deterministic, which is
// what makes these trivially unit-testable and safe to call from any
// handler before it touches the resource.
package policy

import (
	"errors"

	"github.com/iliyamo/blog-platform/internal/utils"
)

// ErrForbidden is returned whenever a policy check fails, regardless of
// whether the cause was role membership or ownership. Handlers translate it
// into an HTTP 403 response.
var ErrForbidden = errors.New("forbidden")

// RequireRole passes iff the caller's role is one of the allowed roles.
// Used to gate admin-only operations such as listing all users.
func RequireRole(claims *utils.Claims, roles ...string) error {
	if claims == nil {
		return ErrForbidden
	}
	for _, r := range roles {
		if claims.Role == r {
			return nil
		}
	}
	return ErrForbidden
}

// RequireOwnerOrRole passes iff the caller owns the resource (their user id
// equals the resource's author id) or their role is one of the bypass
// roles. An admin may act on any post; an owner only on their own.
func RequireOwnerOrRole(claims *utils.Claims, authorID uint64, bypassRoles ...string) error {
	if claims == nil {
		return ErrForbidden
	}
	if claims.UserID == authorID {
		return nil
	}
	return RequireRole(claims, bypassRoles...)
}
