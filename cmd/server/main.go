package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/retoneapp/api/internal/client"
	"github.com/retoneapp/api/internal/config"
	"github.com/retoneapp/api/internal/handler"
	"github.com/retoneapp/api/internal/middleware"
	"github.com/retoneapp/api/internal/service"
)

// @title          Retone API
// @version        1.0
// @description    HTTP API that rewrites text to a target character length with optional emotion and language steering.
// @host           localhost:8000
// @BasePath       /
// @schemes        http https
func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// The service cannot do anything without upstream access
	if cfg.Gemini.APIKey == "" {
		log.Fatal("GEMINI_API_KEY is required")
	}

	// Initialize Redis client (rate limiting only; limiter fails open
	// when Redis is unreachable)
	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})

	ctx := context.Background()
	if err := redisClient.Ping(ctx).Err(); err != nil {
		log.Printf("Warning: Redis not available: %v", err)
	}

	// Initialize validator
	validate := validator.New()

	// Initialize external client
	geminiClient := client.NewGeminiClient(&cfg.Gemini)

	// Initialize service and handler
	generateService := service.NewGenerateService(geminiClient)
	generateHandler := handler.NewGenerateHandler(generateService, validate)

	rateLimiter := middleware.NewRateLimiter(redisClient)

	// Initialize Fiber app
	app := fiber.New(fiber.Config{
		ErrorHandler: customErrorHandler,
	})

	// Global middleware
	app.Use(recover.New())
	app.Use(requestid.New(requestid.Config{
		Generator: uuid.NewString,
	}))
	isDebug := strings.EqualFold(cfg.Server.LogLevel, "debug")
	logFormat := "[${time}] ${locals:requestid} ${status} - ${latency} ${method} ${path}\n"
	if isDebug {
		logFormat = "[${time}] ${locals:requestid} ${status} - ${latency} ${method} ${path} ${body}\n"
		log.Println("Debug logging enabled")
	}
	app.Use(logger.New(logger.Config{
		Format: logFormat,
	}))
	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowMethods: "POST,OPTIONS",
		AllowHeaders: "Content-Type",
		MaxAge:       86400,
	}))

	// Base URL - timestamp
	app.Get("/", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"timestamp": time.Now().Unix(),
		})
	})

	// Health check
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status": "ok",
			"services": fiber.Map{
				"gemini": geminiClient.IsConfigured(),
				"redis":  redisClient.Ping(c.Context()).Err() == nil,
			},
		})
	})

	// Generate endpoint (OPTIONS preflight is answered by the CORS middleware)
	app.Post("/generate", rateLimiter.GenerateLimit(cfg.RateLimit.GeneratePerMin), generateHandler.Generate)

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-quit
		log.Println("Shutting down server...")
		if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
			log.Printf("Server shutdown error: %v", err)
		}
	}()

	// Start server
	addr := ":" + cfg.Server.Port
	log.Printf("Server starting on %s", addr)
	if err := app.Listen(addr); err != nil {
		log.Fatalf("Server error: %v", err)
	}
}

func customErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	message := "Internal Server Error"

	if e, ok := err.(*fiber.Error); ok {
		code = e.Code
		message = e.Message
	}

	return c.Status(code).JSON(fiber.Map{
		"text":  "",
		"error": message,
	})
}
