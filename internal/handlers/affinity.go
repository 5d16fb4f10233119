package handlers

import (
	"encoding/json"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/ethanrimes/tiktok-recommendation-engine/internal/services"
	"github.com/ethanrimes/tiktok-recommendation-engine/internal/validation"
	"github.com/ethanrimes/tiktok-recommendation-engine/pkg/models"
)

type AffinityHandler struct {
	affinityService *services.AffinityService
	validator       *validation.SchemaValidator
	logger          *logrus.Logger
}

func NewAffinityHandler(
	affinityService *services.AffinityService,
	validator *validation.SchemaValidator,
	logger *logrus.Logger,
) *AffinityHandler {
	return &AffinityHandler{
		affinityService: affinityService,
		validator:       validator,
		logger:          logger,
	}
}

// Profile handles POST /api/v1/users/:username/affinities.
func (h *AffinityHandler) Profile(c *gin.Context) {
	username := c.Param("username")
	if username == "" {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": gin.H{
				"code":    "MISSING_USERNAME",
				"message": "Username path parameter is required",
			},
		})
		return
	}

	body, err := io.ReadAll(c.Request.Body)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": gin.H{
				"code":    "INVALID_REQUEST_BODY",
				"message": "Failed to read request body",
			},
		})
		return
	}

	if result := h.validator.ValidateAffinityRequest(body); !result.Valid {
		c.JSON(http.StatusBadRequest, result.ToAPIError())
		return
	}

	var req models.AffinityRequest
	if err := json.Unmarshal(body, &req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": gin.H{
				"code":    "INVALID_REQUEST_BODY",
				"message": "Invalid request body format",
			},
		})
		return
	}

	if !bindValid(c, &req) {
		return
	}

	resp, err := h.affinityService.Profile(c.Request.Context(), username, req)
	if err != nil {
		respondServiceError(c, h.logger, err, "INVALID_ACTIVITY_DATA", "AFFINITY_COMPUTATION_FAILED", "Failed to compute user affinities")
		return
	}

	c.JSON(http.StatusOK, resp)
}

// List handles GET /api/v1/users/:username/affinities.
func (h *AffinityHandler) List(c *gin.Context) {
	username := c.Param("username")

	affinities, err := h.affinityService.List(c.Request.Context(), username)
	if err != nil {
		h.logger.WithError(err).WithField("username", username).Error("Failed to load affinities")
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": gin.H{
				"code":    "AFFINITY_LOOKUP_FAILED",
				"message": "Failed to load user affinities",
			},
		})
		return
	}

	if len(affinities) == 0 {
		c.JSON(http.StatusNotFound, gin.H{
			"error": gin.H{
				"code":    "PROFILE_NOT_FOUND",
				"message": "No affinity profile stored for this user",
			},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"username":   username,
		"affinities": affinities,
	})
}
