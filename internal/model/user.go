package model

import "time"

// Role values stored in users.role. Signup always assigns RoleUser; admin
// accounts are promoted out of band.
const (
	RoleUser  = "USER"
	RoleAdmin = "ADMIN"
)

// User represents an application user record as stored in the `users`
// table. The password hash never leaves the repository/handler boundary;
// handlers expose separate response types with appropriate JSON tags.
//
// Fields:
//
//	ID           – primary key identifier of the user.
//	Email        – unique email address (normalized to lower case).
//	PasswordHash – bcrypt hashed password, never serialized.
//	Role         – role name (USER or ADMIN).
//	CreatedAt    – timestamp of creation.
//	UpdatedAt    – timestamp of last update.
type User struct {
	ID           uint64    // users.id
	Email        string    // users.email
	PasswordHash string    // users.password_hash
	Role         string    // users.role
	CreatedAt    time.Time // users.created_at
	UpdatedAt    time.Time // users.updated_at
}
