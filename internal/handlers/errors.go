package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/ethanrimes/tiktok-recommendation-engine/internal/scoring"
)

// respondServiceError maps a service failure onto the API error envelope.
// Scoring validation failures mean the caller sent malformed records and get
// 422 with the offending field named; anything else is an internal failure.
// Both entry points share this so the two classes stay distinguishable no
// matter which endpoint surfaced them.
func respondServiceError(c *gin.Context, logger *logrus.Logger, err error, invalidCode, failedCode, failedMessage string) {
	var verr *scoring.ValidationError
	if errors.As(err, &verr) {
		c.JSON(http.StatusUnprocessableEntity, gin.H{
			"error": gin.H{
				"code":    invalidCode,
				"message": verr.Error(),
			},
		})
		return
	}

	logger.WithError(err).WithField("username", c.Param("username")).Error(failedMessage)
	c.JSON(http.StatusInternalServerError, gin.H{
		"error": gin.H{
			"code":    failedCode,
			"message": failedMessage,
		},
	})
}
