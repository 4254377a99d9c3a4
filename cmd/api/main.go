package main

import (
	"context"
	"database/sql"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"

	"github.com/FilipeAphrody/loggate/internal/config"
	delivery "github.com/FilipeAphrody/loggate/internal/delivery/http"
	"github.com/FilipeAphrody/loggate/internal/logquery"
	"github.com/FilipeAphrody/loggate/internal/repository"
	"github.com/FilipeAphrody/loggate/internal/usecase"
	"github.com/FilipeAphrody/loggate/pkg/security"

	_ "github.com/lib/pq" // Postgres driver
)

func main() {
	// 1. Setup Framework
	e := echo.New()

	// 2. Load Configuration from Environment
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// 3. Initialize Infrastructure (Persistence)
	db, err := sql.Open("postgres", cfg.DBURL)
	if err != nil {
		log.Fatalf("Failed to connect to PostgreSQL: %v", err)
	}
	defer db.Close()

	rdb := redis.NewClient(&redis.Options{
		Addr: cfg.RedisAddr,
	})
	defer rdb.Close()

	// 4. Initialize Repositories
	userRepo := repository.NewPostgresUserRepo(db)
	limiter := repository.NewRedisLoginLimiter(rdb)

	// 5. Initialize Business Logic
	codec, err := security.NewTokenCodec(cfg.SecretKey, cfg.Algorithm)
	if err != nil {
		log.Fatalf("Failed to initialize token codec: %v", err)
	}

	authUsecase := usecase.NewAuthUsecase(userRepo, limiter, codec, cfg.AccessTokenTTL, cfg.RefreshTokenTTL)
	logEngine := logquery.NewEngine(cfg.LogDir)

	// 6. Global Middlewares
	e.Use(middleware.Logger())
	e.Use(middleware.Recover())
	e.Use(middleware.CORS())
	e.Use(middleware.Secure())

	// 7. Register Delivery Handlers (Routes)
	root := e.Group("")
	delivery.NewAuthHandler(root, authUsecase)
	delivery.NewLogsHandler(root, logEngine, codec)

	// 8. Health Check
	e.GET("/health", func(c echo.Context) error {
		return c.JSON(http.StatusOK, echo.Map{
			"status":  "healthy",
			"version": "1.0.0",
			"time":    time.Now().Format(time.RFC3339),
		})
	})

	// 9. Start Server with Graceful Shutdown
	go func() {
		log.Printf("Starting Loggate Server on port %s", cfg.Port)
		if err := e.Start(":" + cfg.Port); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Shutting down the server due to error: %v", err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down gracefully...")
	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if err := e.Shutdown(ctx); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}

	log.Println("Server exiting")
}
