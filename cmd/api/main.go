package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"ai-interviewer/internal/config"
	"ai-interviewer/internal/handlers"
	"ai-interviewer/internal/repositories"
	"ai-interviewer/internal/services"
)

func main() {
	// Load configuration
	cfg := config.Load()
	log.Println("✅ Config loaded successfully")

	// Initialize database
	db, err := config.InitDatabase(cfg)
	if err != nil {
		log.Fatalf("❌ Failed to initialize database: %v", err)
	}

	// Initialize repositories
	interviewRepo := repositories.NewInterviewRepository(db)
	sessionRepo := repositories.NewSessionRepository(db)
	evalRepo := repositories.NewEvaluationRepository(db)
	log.Println("✅ Repositories initialized successfully")

	// Question generation and scoring: heuristic by default, Gemini-backed
	// behind the same interfaces when an API key is configured.
	var bank services.QuestionBank = services.NewHeuristicQuestionBank()
	var scorer services.AnswerScorer = services.NewHeuristicScorer()

	if cfg.Gemini.APIKey != "" {
		geminiService, err := services.NewGeminiService(cfg.Gemini.APIKey, cfg.Gemini.Model)
		if err != nil {
			log.Fatalf("❌ Failed to initialize Gemini AI: %v", err)
		}
		bank = services.NewGeminiQuestionBank(geminiService, cfg.Gemini.RetryMaxAttempts)
		scorer = services.NewGeminiScorer(geminiService, cfg.Gemini.RetryMaxAttempts)
		log.Println("✅ Gemini AI initialized successfully")
	} else {
		log.Println("ℹ️  GEMINI_API_KEY not set, using heuristic question bank and scorer")
	}

	evaluator := services.NewEvaluator()
	notifier := services.NewLogNotifier()

	// Initialize session service
	sessionService := services.NewSessionService(
		interviewRepo,
		sessionRepo,
		evalRepo,
		bank,
		scorer,
		evaluator,
		notifier,
		services.SessionServiceConfig{
			MaxActiveSessions:   cfg.Interview.MaxActiveSessions,
			RequireVerification: cfg.Interview.RequireVerification,
			TokenTTL:            cfg.Interview.TokenTTL,
			BaseURL:             cfg.Server.BaseURL,
		},
	)
	log.Println("✅ Session service initialized")

	// Start reaper for expired pending sessions
	ctx := context.Background()
	reaper := services.NewSessionReaper(sessionRepo, cfg.Reaper.Interval, cfg.Interview.TokenTTL)
	reaper.Start(ctx)

	// Initialize handlers
	adminGate := handlers.NewTokenAdminGate(cfg.Admin.Token)
	interviewHandler := handlers.NewInterviewHandler(interviewRepo)
	sessionHandler := handlers.NewSessionHandler(sessionService, sessionRepo)
	evaluationHandler := handlers.NewEvaluationHandler(evalRepo)
	log.Println("✅ Handlers initialized")

	// Create Fiber app
	app := fiber.New(fiber.Config{
		AppName:      "AI Interviewer API",
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
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
		AllowHeaders: "Origin, Content-Type, Accept, Authorization, X-Admin-Token",
	}))

	// Routes
	api := app.Group("/api/v1")

	// Health check
	api.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status": "healthy",
			"time":   time.Now(),
		})
	})

	admin := handlers.RequireAdmin(adminGate)

	// Admin endpoints
	api.Post("/interviews", admin, interviewHandler.HandleCreate)
	api.Get("/interviews", admin, interviewHandler.HandleList)
	api.Delete("/interviews/:id", admin, interviewHandler.HandleDelete)
	api.Post("/sessions/:id/lock", admin, sessionHandler.HandleLock)
	api.Delete("/sessions/:id", admin, sessionHandler.HandleDelete)
	api.Get("/evaluations", admin, evaluationHandler.HandleList)
	api.Get("/evaluations/:sessionId", admin, evaluationHandler.HandleGetBySession)

	// Candidate endpoints
	api.Post("/sessions/request", sessionHandler.HandleRequest)
	api.Post("/sessions/start", sessionHandler.HandleStart)
	api.Post("/sessions/answer", sessionHandler.HandleAnswer)
	api.Get("/sessions/:id", sessionHandler.HandleGet)

	// Root route
	app.Get("/", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"message": "AI Interviewer API",
			"version": "1.0.0",
			"endpoints": []string{
				"POST /api/v1/interviews",
				"POST /api/v1/sessions/start",
				"POST /api/v1/sessions/answer",
				"GET /api/v1/sessions/:id",
				"GET /api/v1/evaluations",
			},
		})
	})

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-quit
		log.Println("\n🛑 Shutting down server...")
		reaper.Stop()
		if err := app.Shutdown(); err != nil {
			log.Printf("❌ Server forced to shutdown: %v", err)
		}
	}()

	// Start server
	addr := fmt.Sprintf(":%s", cfg.Server.Port)
	log.Printf("🚀 Server starting on %s\n", addr)

	if err := app.Listen(addr); err != nil {
		log.Fatalf("❌ Failed to start server: %v", err)
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
