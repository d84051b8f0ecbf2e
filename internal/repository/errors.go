// Package repository defines error types that are reused across multiple
// repositories. These sentinel values allow higher layers such as handlers
// to distinguish between different failure scenarios without inspecting
// driver errors: ErrEmailExists signals the unique-email constraint fired
// on signup, ErrNotFound signals that a requested row does not exist.
package repository

import "errors"

// ErrEmailExists is returned when an insert collides with the unique index
// on users.email. Handlers should translate this into an HTTP 409 response.
var ErrEmailExists = errors.New("email already exists")

// ErrNotFound is returned when a lookup matches no row. Handlers translate
// it into HTTP 404 (resources) or 401 (login lookups, where the absence of
// an account must stay indistinguishable from a wrong password).
var ErrNotFound = errors.New("not found")
