package handlers

import (
	"log/slog"
	"time"

	"github.com/ahmetcoskunkizilkaya/pixellift-backend/internal/database"
	"github.com/ahmetcoskunkizilkaya/pixellift-backend/internal/dto"
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

type HealthHandler struct {
	db *gorm.DB
}

func NewHealthHandler(db *gorm.DB) *HealthHandler {
	return &HealthHandler{db: db}
}

// Check reports liveness; a failing database is reported in the body, not the status.
func (h *HealthHandler) Check(c *fiber.Ctx) error {
	dbStatus := "ok"
	if err := database.Ping(h.db); err != nil {
		slog.Error("health check database ping failed", "request_id", requestID(c), "error", err.Error())
		dbStatus = "unhealthy"
	}

	return c.JSON(dto.HealthResponse{
		Status:    "OK",
		Message:   "Backend is running",
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		DB:        dbStatus,
	})
}
