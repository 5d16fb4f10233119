package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/ethanrimes/tiktok-recommendation-engine/internal/database"
)

type HealthHandler struct {
	logger *logrus.Logger
	db     *database.Database
}

func NewHealthHandler(logger *logrus.Logger, db *database.Database) *HealthHandler {
	return &HealthHandler{
		logger: logger,
		db:     db,
	}
}

// Check reports per-dependency health. Redis is a soft dependency, so a
// failed ping degrades the status instead of failing it.
func (h *HealthHandler) Check(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()

	status := "healthy"
	httpStatus := http.StatusOK
	checks := gin.H{}

	if h.db != nil && h.db.PG != nil {
		if err := h.db.PG.Ping(ctx); err != nil {
			h.logger.WithError(err).Warn("PostgreSQL health check failed")
			checks["postgresql"] = "unhealthy"
			status = "unhealthy"
			httpStatus = http.StatusServiceUnavailable
		} else {
			checks["postgresql"] = "healthy"
		}
	}

	if h.db != nil && h.db.Redis != nil {
		if err := h.db.Redis.Ping(ctx).Err(); err != nil {
			h.logger.WithError(err).Warn("Redis health check failed")
			checks["redis"] = "unhealthy"
			if status == "healthy" {
				status = "degraded"
			}
		} else {
			checks["redis"] = "healthy"
		}
	}

	c.JSON(httpStatus, gin.H{
		"status":    status,
		"checks":    checks,
		"timestamp": time.Now().UTC(),
	})
}
