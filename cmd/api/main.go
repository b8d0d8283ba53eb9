package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"skillbridge/gap-analyzer/internal/config"
	"skillbridge/gap-analyzer/internal/handlers"
	"skillbridge/gap-analyzer/internal/repositories"
	"skillbridge/gap-analyzer/internal/services"
)

// Room for a maximum size resume sent as a base64 data URL.
const bodyLimit = 16 * 1024 * 1024

func main() {
	// Load configuration
	cfg := config.Load()
	log := config.NewLogger(cfg)
	if err := cfg.Validate(); err != nil {
		log.Fatal().Err(err).Msg("❌ Invalid configuration")
	}
	log.Info().Str("env", cfg.Server.Env).Msg("✅ Config loaded successfully")

	// Initialize repositories
	sessionRepo := repositories.NewSessionRepository()
	log.Info().Msg("✅ Repositories initialized successfully")

	// Initialize services
	documentSource := services.NewDocumentSource()
	documentInspector := services.NewDocumentInspector()
	encoder := services.NewDocumentEncoder()
	log.Info().Msg("✅ Services initialized successfully")

	// Initialize Gemini AI
	geminiService := services.NewGeminiService(services.GeminiOptions{
		APIKey:      cfg.Gemini.APIKey,
		Model:       cfg.Gemini.Model,
		Temperature: cfg.Gemini.Temperature,
		TopK:        cfg.Gemini.TopK,
		TopP:        cfg.Gemini.TopP,
	}, log)
	if cfg.Gemini.APIKey == "" {
		log.Warn().Msg("⚠️ GEMINI_API_KEY is not set; submissions will fail until it is configured")
	} else {
		log.Info().Str("model", cfg.Gemini.Model).Msg("✅ Gemini AI initialized successfully")
	}

	// Initialize analyzer
	analyzerService := services.NewAnalyzerService(encoder, geminiService, log)
	log.Info().Msg("✅ Analyzer service initialized")

	// Initialize worker
	worker := services.NewWorker(sessionRepo, services.WorkerOptions{
		Concurrency:   cfg.Worker.Concurrency,
		QueueSize:     cfg.Worker.QueueSize,
		SessionTTL:    cfg.Worker.SessionTTL,
		SweepInterval: cfg.Worker.SweepInterval,
	}, log)

	// Start worker
	ctx := context.Background()
	worker.Start(ctx)
	log.Info().Msg("✅ Worker started successfully")

	// Initialize Handlers
	sessionHandler := handlers.NewSessionHandler(sessionRepo, analyzerService, log)
	uploadHandler := handlers.NewUploadHandler(sessionRepo, documentSource, documentInspector, log)
	submitHandler := handlers.NewSubmitHandler(sessionRepo, worker)
	resultHandler := handlers.NewResultHandler(sessionRepo)
	log.Info().Msg("✅ Handlers initialized")

	// Create Fiber app
	app := fiber.New(fiber.Config{
		AppName:      "Skillbridge Gap Analyzer API",
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		BodyLimit:    bodyLimit,
		ErrorHandler: customErrorHandler,
	})

	// Middleware
	app.Use(recover.New())
	app.Use(logger.New(logger.Config{
		Format:     "[${time}] ${status} - ${latency} ${method} ${path}\n",
		TimeFormat: "2006-01-02 15:04:05",
	}))

	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowMethods: "GET,POST,PUT,DELETE,OPTIONS",
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
	}))

	// Routes
	api := app.Group("/api/v1")

	// Health check
	api.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status":   "healthy",
			"time":     time.Now(),
			"sessions": sessionRepo.Count(),
		})
	})

	// API endpoints
	sessions := api.Group("/sessions")
	sessions.Post("/", sessionHandler.HandleCreate)
	sessions.Get("/:id", sessionHandler.HandleGet)
	sessions.Delete("/:id", sessionHandler.HandleDelete)
	sessions.Put("/:id/document", uploadHandler.HandleSelectDocument)
	sessions.Put("/:id/role", sessionHandler.HandleSetRole)
	sessions.Post("/:id/submit", submitHandler.HandleSubmit)
	sessions.Post("/:id/reset", sessionHandler.HandleReset)
	sessions.Get("/:id/result", resultHandler.HandleGetResult)
	sessions.Get("/:id/transcript", resultHandler.HandleDownloadTranscript)

	// Root route
	app.Get("/", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"message":            "Skillbridge Gap Analyzer API",
			"version":            "1.0.0",
			"accepted_documents": services.AcceptedExtensions(),
			"endpoints": []string{
				"POST /api/v1/sessions",
				"GET /api/v1/sessions/:id",
				"DELETE /api/v1/sessions/:id",
				"PUT /api/v1/sessions/:id/document",
				"PUT /api/v1/sessions/:id/role",
				"POST /api/v1/sessions/:id/submit",
				"POST /api/v1/sessions/:id/reset",
				"GET /api/v1/sessions/:id/result",
				"GET /api/v1/sessions/:id/transcript",
			},
		})
	})

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-quit
		log.Info().Msg("🛑 Shutting down server...")
		worker.Stop()
		if err := app.Shutdown(); err != nil {
			log.Error().Err(err).Msg("❌ Server forced to shutdown")
		}
	}()

	// Start server
	addr := fmt.Sprintf(":%s", cfg.Server.Port)
	log.Info().Msgf("🚀 Server starting on %s", addr)
	log.Info().Msgf("📖 API Documentation: http://localhost%s", addr)

	if err := app.Listen(addr); err != nil {
		log.Fatal().Err(err).Msg("❌ Failed to start server")
	}
}

func customErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError

	if e, ok := err.(*fiber.Error); ok {
		code = e.Code
	}

	return c.Status(code).JSON(fiber.Map{
		"error": err.Error(),
		"code":  code,
	})
}
