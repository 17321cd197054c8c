package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/Misakaaaaaz/Parent-Portal/internal/account"
	"github.com/Misakaaaaaz/Parent-Portal/internal/auth"
	"github.com/Misakaaaaaz/Parent-Portal/internal/career"
	"github.com/Misakaaaaaz/Parent-Portal/internal/catalog"
	"github.com/Misakaaaaaz/Parent-Portal/internal/cloudinary"
	"github.com/Misakaaaaaz/Parent-Portal/internal/config"
	"github.com/Misakaaaaaz/Parent-Portal/internal/event"
	"github.com/Misakaaaaaz/Parent-Portal/internal/handler"
	"github.com/Misakaaaaaz/Parent-Portal/internal/httpmiddleware"
	"github.com/Misakaaaaaz/Parent-Portal/internal/linking"
	"github.com/Misakaaaaaz/Parent-Portal/internal/notify"
	"github.com/Misakaaaaaz/Parent-Portal/internal/queue"
	"github.com/Misakaaaaaz/Parent-Portal/internal/store"
	"github.com/Misakaaaaaz/Parent-Portal/internal/student"
	"github.com/Misakaaaaaz/Parent-Portal/internal/survey"
)

func main() {
	cfg := config.Load()

	// A missing signing secret is a startup failure, not a per-request one.
	if cfg.JWTSecret == "" {
		log.Fatal("JWT_SECRET is required")
	}

	if cfg.Env == "production" || cfg.Env == "prod" {
		gin.SetMode(gin.ReleaseMode)
	}

	if err := runHTTP(cfg); err != nil {
		log.Fatalf("http server failed: %v", err)
	}
}

func runHTTP(cfg config.App) error {
	db, err := store.NewDB(cfg.DatabaseURL)
	if err != nil {
		return err
	}
	defer db.Close()

	redisClient := store.NewRedis(cfg.RedisAddr)

	var q queue.Queue
	switch cfg.QueueBackend {
	case "memory":
		q = queue.NewInMemory(64)
	case "amqp":
		amqpQueue, err := queue.NewAMQPQueue(cfg.AMQPURL, cfg.NotifyQueueKey)
		if err != nil {
			return err
		}
		defer amqpQueue.Close()
		q = amqpQueue
	default:
		q = queue.NewRedisQueue(redisClient.Client, cfg.NotifyQueueKey)
	}

	issuer := auth.NewIssuer(cfg.JWTSecret)

	userRepo := account.NewPostgresRepository(db.Client)
	studentRepo := student.NewPostgresRepository(db.Client)
	resolver := linking.NewResolver(studentRepo)
	accounts := account.NewService(userRepo, resolver, issuer, notify.NewPublisher(q))

	catalogRepo := catalog.NewPostgresRepository(db.Client)
	shortlists := catalog.NewService(catalogRepo)
	events := event.NewRepository(db.Client)
	careers := career.NewRepository(db.Client)
	surveys := survey.NewRepository(db.Client)

	// Cloudinary client (nil when not configured)
	var cdnClient *cloudinary.Client
	if cfg.CloudinaryCloudName != "" && cfg.CloudinaryAPIKey != "" && cfg.CloudinaryAPISecret != "" {
		cdnClient = cloudinary.New(cfg.CloudinaryCloudName, cfg.CloudinaryAPIKey, cfg.CloudinaryAPISecret, cfg.CloudinaryFolder)
		log.Println("Cloudinary configured:", cfg.CloudinaryCloudName)
	} else {
		log.Println("Cloudinary not configured (CLOUDINARY_CLOUD_NAME / API_KEY / API_SECRET not set)")
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(gin.LoggerWithConfig(gin.LoggerConfig{
		SkipPaths: []string{"/healthz", "/metrics"},
	}))
	r.Use(corsMiddleware())
	r.Use(securityHeaders())
	r.Use(httpmiddleware.NewSimpleTokenBucket(cfg.RateLimitPerMin, cfg.RateLimitPerMin).GinMiddleware())

	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	h := handler.New(accounts, studentRepo, shortlists, events, careers, surveys, issuer, cdnClient, db, redisClient)
	h.Register(r)

	srv := &http.Server{
		Addr:         ":" + cfg.HTTPPort,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Printf("Starting server on :%s", cfg.HTTPPort)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server error: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	// Give outstanding requests 10 seconds to complete
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("Server forced shutdown: %v", err)
	}

	log.Println("Server exited")
	return nil
}

// CORS middleware for browser requests
func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		origin := c.Request.Header.Get("Origin")
		if origin == "" {
			origin = "*"
		}

		c.Header("Access-Control-Allow-Origin", origin)
		c.Header("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Origin, Content-Type, Accept, Authorization")
		c.Header("Access-Control-Allow-Credentials", "true")
		c.Header("Access-Control-Max-Age", "86400")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	}
}

// Security headers middleware
func securityHeaders() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("X-Content-Type-Options", "nosniff")
		c.Header("X-Frame-Options", "DENY")
		c.Header("X-XSS-Protection", "1; mode=block")
		c.Header("Referrer-Policy", "strict-origin-when-cross-origin")

		// Only add HSTS in production
		if gin.Mode() == gin.ReleaseMode {
			c.Header("Strict-Transport-Security", "max-age=31536000; includeSubDomains")
		}

		c.Next()
	}
}
