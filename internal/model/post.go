package model

import "time"

// Post represents a blog post as stored in the `posts` table. Every post is
// owned by exactly one user via AuthorID; authorization on update/delete
// compares this field against the caller's identity.
//
// AuthorEmail and AuthorRole are populated by queries that join the users
// table so list/detail responses can embed a sanitized author view without
// an extra lookup per row.
type Post struct {
	ID          uint64    // posts.id
	Title       string    // posts.title
	Content     string    // posts.content
	AuthorID    uint64    // posts.author_id (references users.id, non-null)
	CreatedAt   time.Time // posts.created_at
	UpdatedAt   time.Time // posts.updated_at
	AuthorEmail string    // users.email (joined)
	AuthorRole  string    // users.role (joined)
}
