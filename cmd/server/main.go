package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"riskdesk/internal/adapters/http/middleware"
	"riskdesk/internal/adapters/http/routes"
	"riskdesk/internal/adapters/persistence/models"
	"riskdesk/internal/adapters/persistence/repositories"
	"riskdesk/internal/adapters/scoring"
	"riskdesk/internal/config"
	"riskdesk/internal/core/services"
	"riskdesk/internal/telemetry"

	"github.com/gofiber/fiber/v2"

	_ "riskdesk/docs" // Swagger docs
)

// @title Loan Risk Dashboard API
// @version 1.0
// @description Session-gated page views over the loan risk scoring service.

// @BasePath /

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("❌ Failed to load configuration: %v", err)
	}

	// Tracing of outbound scoring calls
	shutdownTelemetry := telemetry.Setup("riskdesk", cfg.OTLP)
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdownTelemetry(ctx); err != nil {
			log.Printf("⚠️ Telemetry shutdown error: %v", err)
		}
	}()

	// Connect to database
	db, err := config.ConnectDatabase(cfg)
	if err != nil {
		log.Fatalf("❌ Failed to connect to database: %v", err)
	}
	defer config.CloseDatabase()

	// Auto migrate (creates tables if not exist)
	if err := models.AutoMigrate(db); err != nil {
		log.Fatalf("❌ Failed to auto migrate: %v", err)
	}
	log.Println("✅ Database migration completed")

	// Session store, warmed from the persisted sessions
	sessionStore := services.NewSessionStore(repositories.NewSessionRepository(db))
	if err := sessionStore.Warm(context.Background()); err != nil {
		log.Fatalf("❌ Failed to load sessions: %v", err)
	}

	// Purge sessions whose upstream token expired
	janitor := services.NewSessionJanitor(sessionStore, cfg.Session.PurgeSchedule)
	if err := janitor.Start(); err != nil {
		log.Fatalf("❌ Failed to start session janitor: %v", err)
	}
	defer janitor.Stop()

	// Create Fiber app
	app := fiber.New(fiber.Config{
		AppName:      "Loan Risk Dashboard v1.0",
		ErrorHandler: middleware.CustomErrorHandler,
	})

	// Setup middlewares
	middleware.Setup(app, cfg)

	// Setup routes
	gateway := scoring.NewGateway(cfg.Scoring)
	routes.Setup(app, cfg, sessionStore, gateway, config.HealthCheck)

	// Graceful shutdown
	go gracefulShutdown(app)

	// Start server
	log.Printf("🚀 Server starting on port %s [MODE: %s, scoring: %s]", cfg.Port, cfg.AppMode, cfg.Scoring.BaseURL)
	if err := app.Listen(":" + cfg.Port); err != nil {
		log.Fatalf("❌ Failed to start server: %v", err)
	}
}

// gracefulShutdown handles graceful shutdown
func gracefulShutdown(app *fiber.App) {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("🛑 Shutting down server...")
	if err := app.Shutdown(); err != nil {
		log.Printf("❌ Error during shutdown: %v", err)
	}
	log.Println("✅ Server stopped gracefully")
}
