package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
)

// Struct tag validation runs after schema validation: schemas check the JSON
// shape, tags check cross-field constraints on the decoded values.
var validate = validator.New()

func bindValid(c *gin.Context, req interface{}) bool {
	if err := validate.Struct(req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": gin.H{
				"code":    "VALIDATION_ERROR",
				"message": err.Error(),
			},
		})
		return false
	}
	return true
}
