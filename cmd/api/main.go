// @title Padhai Karo API
// @version 1.0
// @description LLM-backed study aid: quizzes, remediation plans and module-wise question banks.
// @host localhost:8090
// @BasePath /api
// @schemes http
package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"padhai-karo/internal/adapter"
	"padhai-karo/internal/adapter/completion"
	"padhai-karo/internal/cache"
	"padhai-karo/internal/config"
	"padhai-karo/internal/domain"
	"padhai-karo/internal/handler"
	"padhai-karo/internal/logger"
	"padhai-karo/internal/middleware"
	"padhai-karo/internal/report"
	"padhai-karo/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

// requestLogger is a middleware that logs HTTP requests
func requestLogger() fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		path := c.Path()
		method := c.Method()

		err := c.Next()

		duration := time.Since(start)
		status := c.Response().StatusCode()

		logger.Get().Info("HTTP Request",
			zap.String("method", method),
			zap.String("path", path),
			zap.Int("status", status),
			zap.Duration("duration", duration),
			zap.String("ip", c.IP()),
			zap.String("user_agent", c.Get("User-Agent")),
		)

		return err
	}
}

func main() {
	// A missing .env is fine; real environments export variables directly.
	_ = godotenv.Load()

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	if err := logger.Initialize(cfg.Logger); err != nil {
		panic(err)
	}
	appLogger := logger.Get()
	defer logger.Sync()

	ctx := context.Background()

	// Completion backend
	var completionClient domain.CompletionClient
	switch cfg.Completion.Source {
	case "googleai":
		appLogger.Info("Initializing Google AI completion client", zap.String("model", cfg.Completion.Model))
		completionClient, err = completion.NewGoogleAIClient(ctx, cfg.Completion.APIKey, cfg.Completion.Model, cfg.Completion.Timeout)
		if err != nil {
			appLogger.Fatal("Failed to create Google AI completion client", zap.Error(err))
		}
	case "openai":
		appLogger.Info("Initializing OpenAI completion client", zap.String("model", cfg.OpenAI.Model))
		completionClient, err = completion.NewOpenAIClient(cfg.OpenAI.APIKey, cfg.OpenAI.Model, cfg.Completion.Timeout)
		if err != nil {
			appLogger.Fatal("Failed to create OpenAI completion client", zap.Error(err))
		}
	default:
		appLogger.Fatal(fmt.Sprintf("Unsupported completion source: %s. Please check COMPLETION_SOURCE in config.", cfg.Completion.Source))
	}

	// Redis-backed remediation memo cache
	redisClient, err := cache.NewRedisClient(cfg.Redis)
	if err != nil {
		appLogger.Fatal("Failed to connect to Redis", zap.Error(err))
	}
	appLogger.Info("Successfully connected to Redis")
	cacheAdapter := adapter.NewRedisCacheAdapter(redisClient)

	// Services
	generationService := service.NewQuizGenerationService(completionClient)
	remediationService := service.NewRemediationService(completionClient, cacheAdapter)
	sessionService := service.NewSessionService(generationService, remediationService)
	bankService := service.NewBankService(completionClient)
	renderer := report.NewRenderer(cfg.Report.Attribution)

	// Handlers
	quizHandler := handler.NewQuizHandler(sessionService, generationService)
	bankHandler := handler.NewBankHandler(bankService, renderer)
	healthHandler := handler.NewHealthHandler(cacheAdapter)

	app := fiber.New(fiber.Config{
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		BodyLimit:    cfg.Server.BodyLimit,
		ErrorHandler: middleware.ErrorHandler(),
	})

	app.Use(requestLogger())
	app.Use(cors.New(cors.Config{AllowOrigins: "*", AllowMethods: "GET,POST,PUT,DELETE,OPTIONS", AllowHeaders: "Origin,Content-Type,Accept", MaxAge: 300}))
	app.Use(recover.New())

	handler.RegisterRoutes(app, quizHandler, bankHandler, healthHandler)

	go func() {
		appLogger.Info("Starting server", zap.Int("port", cfg.Server.Port), zap.String("env", os.Getenv("ENV")))
		if err := app.Listen(":" + strconv.Itoa(cfg.Server.Port)); err != nil {
			appLogger.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	appLogger.Info("Shutting down server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		appLogger.Fatal("Server forced to shutdown", zap.Error(err))
	}
	appLogger.Info("Server exited gracefully")
}
