package main // Entry point package

import (
	"log" // Logging library

	"github.com/joho/godotenv"    // .env loader for local development
	"github.com/labstack/echo/v4" // Echo web framework

	"github.com/iliyamo/blog-platform/internal/config"
	"github.com/iliyamo/blog-platform/internal/database"
	"github.com/iliyamo/blog-platform/internal/handler"
	"github.com/iliyamo/blog-platform/internal/queue"
	"github.com/iliyamo/blog-platform/internal/repository"
	"github.com/iliyamo/blog-platform/internal/router"
	queue_publisher "github.com/iliyamo/blog-platform/internal/service"
)

func main() {
	// Load .env if present; real deployments set the environment directly.
	_ = godotenv.Load()

	cfg := config.Load()

	db, err := database.Open(cfg)
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	defer func() { _ = db.Close() }()

	// Redis is optional: a nil client disables the response cache.
	rdb := config.NewRedisClient()
	if rdb == nil {
		log.Print("redis unavailable; response cache disabled")
	}

	users := repository.NewUserRepo(db)
	posts := repository.NewPostRepo(db)

	authHandler := handler.NewAuthHandler(cfg, users)
	postHandler := handler.NewPostHandler(posts)

	e := echo.New()
	router.RegisterRoutes(e)
	router.RegisterAuth(e, authHandler, cfg.JWTSecret)
	router.RegisterPosts(e, postHandler, cfg.JWTSecret, config.LoadCacheConfig(), rdb)

	// Welcome-notification consumer runs for the life of the process and
	// reconnects on its own.
	go func() {
		if err := queue.StartNotificationConsumer(queue_publisher.BrokerURL()); err != nil {
			log.Printf("notification consumer stopped: %v", err)
		}
	}()

	addr := ":" + cfg.Port
	log.Printf("listening on %s (env=%s)", addr, cfg.Env)

	if err := e.Start(addr); err != nil {
		log.Fatal(err)
	}
}
