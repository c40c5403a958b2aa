package routes

import (
	"riskdesk/internal/adapters/http/handlers"
	"riskdesk/internal/adapters/http/middleware"
	"riskdesk/internal/config"
	"riskdesk/internal/core/access"
	"riskdesk/internal/core/services"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/swagger"
)

// Setup configures all routes for the application
func Setup(app *fiber.App, cfg *config.Config, sessions services.Sessions, gateway services.ScoringGateway, dbCheck func() error) {
	// Initialize services
	fetches := services.NewFetchTracker()
	authService := services.NewAuthService(gateway, sessions, fetches, cfg)
	dashboardService := services.NewDashboardService(gateway, fetches)
	borrowerService := services.NewBorrowerService(gateway, fetches)
	historyService := services.NewHistoryService(gateway, fetches)

	// Initialize handlers
	healthHandler := handlers.NewHealthHandler(dashboardService, cfg, dbCheck)
	authHandler := handlers.NewAuthHandler(authService, cfg)
	dashboardHandler := handlers.NewDashboardHandler(dashboardService, authService, cfg)
	borrowerHandler := handlers.NewBorrowerHandler(borrowerService, authService, cfg)
	historyHandler := handlers.NewHistoryHandler(historyService, authService, cfg)

	// ============================================================
	// Outside the access gate
	// ============================================================
	app.Get("/health", healthHandler.HealthCheck)
	app.Get("/swagger/*", swagger.HandlerDefault)
	app.Post("/logout", middleware.NoCacheHeaders(), authHandler.Logout)

	// ============================================================
	// Pages - every request re-evaluates the access policy
	// ============================================================
	app.Use(middleware.AccessGate(authService, cfg), middleware.NoCacheHeaders())

	app.Get(access.RouteLogin, authHandler.LoginPage)
	app.Post(access.RouteLogin, middleware.AuthRateLimiter(), authHandler.Login)

	app.Get(access.RouteHome, dashboardHandler.Home)
	app.Get(access.RouteAnalytics, dashboardHandler.Analytics)
	app.Get(access.RouteTopRisky, borrowerHandler.TopRisky)
	app.Get(access.RouteNeedOfficer, borrowerHandler.NeedOfficer)
	app.Get(access.RouteHistory, historyHandler.History)
}
