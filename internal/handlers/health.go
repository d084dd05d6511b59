package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/yukikurage/organization-service/internal/constants"
	"github.com/yukikurage/organization-service/internal/database"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const healthCheckTimeout = 2 * time.Second

// HealthHandler reports service and database liveness.
type HealthHandler struct {
	db  *gorm.DB
	log *zap.Logger
}

// NewHealthHandler creates a new HealthHandler.
func NewHealthHandler(db *gorm.DB, log *zap.Logger) *HealthHandler {
	return &HealthHandler{db: db, log: log}
}

// Root returns the service banner.
func (h *HealthHandler) Root(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"message": constants.ServiceTitle,
		"version": constants.ServiceVersion,
		"docs":    constants.DocsPath,
	})
}

// Health always answers 200; an unreachable database is reported in the body.
func (h *HealthHandler) Health(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), healthCheckTimeout)
	defer cancel()

	if err := database.Ping(ctx, h.db); err != nil {
		h.log.Warn("Health check failed", zap.Error(err))
		c.JSON(http.StatusOK, gin.H{"status": "unhealthy", "database": "disconnected"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "healthy", "database": "connected"})
}
