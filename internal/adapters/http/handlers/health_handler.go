package handlers

import (
	"context"
	"time"

	"riskdesk/internal/config"
	"riskdesk/internal/core/services"

	"github.com/gofiber/fiber/v2"
)

const scoringHealthTimeout = 3 * time.Second

// HealthHandler handles health check endpoints
type HealthHandler struct {
	dashboardService *services.DashboardService
	cfg              *config.Config
	dbCheck          func() error
}

// NewHealthHandler creates a new health handler
func NewHealthHandler(dashboardService *services.DashboardService, cfg *config.Config, dbCheck func() error) *HealthHandler {
	if dbCheck == nil {
		dbCheck = config.HealthCheck
	}
	return &HealthHandler{
		dashboardService: dashboardService,
		cfg:              cfg,
		dbCheck:          dbCheck,
	}
}

// HealthCheck handles health check
// @Summary Health check
// @Description Check API, session database and scoring service health
// @Tags Health
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Failure 503 {object} map[string]interface{}
// @Router /health [get]
func (h *HealthHandler) HealthCheck(c *fiber.Ctx) error {
	// Check database
	dbStatus := "healthy"
	if err := h.dbCheck(); err != nil {
		dbStatus = "unhealthy"
	}

	// Check scoring service
	scoringStatus := "healthy"
	modelLoaded := false
	ctx, cancel := context.WithTimeout(c.UserContext(), scoringHealthTimeout)
	defer cancel()
	if health, err := h.dashboardService.ScoringHealth(ctx); err != nil {
		scoringStatus = "unreachable"
	} else {
		modelLoaded = health.ModelLoaded
		if health.Status != "ok" {
			scoringStatus = "unhealthy"
		}
	}

	status := "ok"
	code := fiber.StatusOK
	if dbStatus != "healthy" {
		status = "degraded"
		code = fiber.StatusServiceUnavailable
	} else if scoringStatus != "healthy" {
		status = "degraded"
	}

	return c.Status(code).JSON(fiber.Map{
		"status": status,
		"mode":   h.cfg.AppMode,
		"checks": fiber.Map{
			"api":          "healthy",
			"database":     dbStatus,
			"scoring":      scoringStatus,
			"model_loaded": modelLoaded,
		},
	})
}
