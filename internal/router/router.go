package router // package router defines how HTTP routes are registered for the API

import (
	"github.com/labstack/echo/v4" // Echo web framework for routing
	"github.com/redis/go-redis/v9"

	"github.com/iliyamo/blog-platform/internal/config"
	"github.com/iliyamo/blog-platform/internal/handler"
	"github.com/iliyamo/blog-platform/internal/middleware"
	"github.com/iliyamo/blog-platform/internal/model"
)

// RegisterRoutes registers routes that do not require authentication on the
// provided Echo instance. Currently it exposes only a health check.
func RegisterRoutes(e *echo.Echo) {
	e.GET("/healthz", handler.Health)
}

// RegisterAuth registers the authentication endpoints. Signup and login are
// open; /auth/users is gated to admins and /auth/me to any valid token.
// The jwtSecret must match the one used by the auth handler to issue
// tokens.
func RegisterAuth(e *echo.Echo, a *handler.AuthHandler, jwtSecret string) {
	g := e.Group("/auth")
	g.POST("/signup", a.Signup)
	g.POST("/login", a.Login)
	g.GET("/users", a.ListUsers, middleware.JWTAuth(jwtSecret), middleware.RequireRole(model.RoleAdmin))
	g.GET("/me", a.Me, middleware.JWTAuth(jwtSecret))
}

// RegisterPosts registers the post endpoints. Reads are public and served
// through the Redis response cache; writes require a bearer token, with
// per-post ownership decided inside the handlers.
func RegisterPosts(e *echo.Echo, p *handler.PostHandler, jwtSecret string, cacheCfg config.CacheConfig, rdb *redis.Client) {
	cache := middleware.NewRedisCache(cacheCfg, rdb)

	g := e.Group("/posts")
	g.GET("", p.List, cache)
	g.GET("/:id", p.Get, cache)

	g.POST("", p.Create, middleware.JWTAuth(jwtSecret))
	g.PATCH("/:id", p.Update, middleware.JWTAuth(jwtSecret))
	g.DELETE("/:id", p.Delete, middleware.JWTAuth(jwtSecret))
}
