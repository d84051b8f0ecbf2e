// Package queue defines message payloads exchanged over the message broker.
package queue

import "time"

// Queue names used for domain events. Queues are declared durable by both
// the publisher and the consumer, so declaration order does not matter.
const (
	UserRegisteredQueue = "user.registered"
	PostPublishedQueue  = "post.published"
)

// UserRegisteredEvent is published after a successful signup. Downstream
// consumers (welcome mailer, analytics) get enough to act without querying
// the primary database. The password hash is never part of an event.
type UserRegisteredEvent struct {
	UserID       uint64    `json:"user_id"`
	Email        string    `json:"email"`
	Role         string    `json:"role"`
	RegisteredAt time.Time `json:"registered_at"`
}

// PostPublishedEvent is published when a post is created, for feed fan-out
// and notification consumers.
type PostPublishedEvent struct {
	PostID      uint64    `json:"post_id"`
	AuthorID    uint64    `json:"author_id"`
	Title       string    `json:"title"`
	PublishedAt time.Time `json:"published_at"`
}
