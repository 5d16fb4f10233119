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

type RecommendationHandler struct {
	recommendationService *services.RecommendationService
	validator             *validation.SchemaValidator
	logger                *logrus.Logger
}

func NewRecommendationHandler(
	recommendationService *services.RecommendationService,
	validator *validation.SchemaValidator,
	logger *logrus.Logger,
) *RecommendationHandler {
	return &RecommendationHandler{
		recommendationService: recommendationService,
		validator:             validator,
		logger:                logger,
	}
}

// Rank handles POST /api/v1/users/:username/recommendations.
func (h *RecommendationHandler) Rank(c *gin.Context) {
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

	if result := h.validator.ValidateRecommendationRequest(body); !result.Valid {
		c.JSON(http.StatusBadRequest, result.ToAPIError())
		return
	}

	var req models.RecommendationRequest
	if err := json.Unmarshal(body, &req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": gin.H{
				"code":    "INVALID_REQUEST_BODY",
				"message": "Invalid request body format",
			},
		})
		return
	}

	// Inline affinities belong to the path user regardless of what the
	// payload carries.
	for i := range req.Affinities {
		req.Affinities[i].Username = username
	}

	if !bindValid(c, &req) {
		return
	}

	resp, err := h.recommendationService.Rank(c.Request.Context(), username, req)
	if err != nil {
		respondServiceError(c, h.logger, err, "INVALID_CANDIDATE_DATA", "RANKING_FAILED", "Failed to generate recommendations")
		return
	}

	c.JSON(http.StatusOK, resp)
}

// Latest handles GET /api/v1/users/:username/recommendations. It serves the
// most recently persisted ranking run.
func (h *RecommendationHandler) Latest(c *gin.Context) {
	username := c.Param("username")

	recommendations, err := h.recommendationService.Latest(c.Request.Context(), username)
	if err != nil {
		h.logger.WithError(err).WithField("username", username).Error("Failed to load recommendations")
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": gin.H{
				"code":    "RECOMMENDATION_LOOKUP_FAILED",
				"message": "Failed to load recommendations",
			},
		})
		return
	}

	if len(recommendations) == 0 {
		c.JSON(http.StatusNotFound, gin.H{
			"error": gin.H{
				"code":    "RUN_NOT_FOUND",
				"message": "No ranking run stored for this user",
			},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"username":        username,
		"recommendations": recommendations,
	})
}
