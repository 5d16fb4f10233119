package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ethanrimes/tiktok-recommendation-engine/internal/scoring"
)

func TestRespondServiceError(t *testing.T) {
	gin.SetMode(gin.TestMode)

	logger := logrus.New()
	logger.SetLevel(logrus.PanicLevel)

	tests := []struct {
		name           string
		err            error
		expectedStatus int
		expectedCode   string
	}{
		{
			name:           "validation error maps to 422",
			err:            &scoring.ValidationError{Record: "video v1", Field: "plays", Reason: "negative count"},
			expectedStatus: http.StatusUnprocessableEntity,
			expectedCode:   "INVALID_ACTIVITY_DATA",
		},
		{
			name:           "wrapped validation error still maps to 422",
			err:            fmt.Errorf("affinity aggregation for chef: %w", &scoring.ValidationError{Record: "item 3", Field: "source", Reason: "unknown kind"}),
			expectedStatus: http.StatusUnprocessableEntity,
			expectedCode:   "INVALID_ACTIVITY_DATA",
		},
		{
			name:           "infrastructure error maps to 500",
			err:            fmt.Errorf("connection refused"),
			expectedStatus: http.StatusInternalServerError,
			expectedCode:   "AFFINITY_COMPUTATION_FAILED",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(w)
			c.Request = httptest.NewRequest(http.MethodPost, "/", nil)

			respondServiceError(c, logger, tt.err, "INVALID_ACTIVITY_DATA", "AFFINITY_COMPUTATION_FAILED", "Failed to compute user affinities")

			assert.Equal(t, tt.expectedStatus, w.Code)

			var resp struct {
				Error struct {
					Code    string `json:"code"`
					Message string `json:"message"`
				} `json:"error"`
			}
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
			assert.Equal(t, tt.expectedCode, resp.Error.Code)
			assert.NotEmpty(t, resp.Error.Message)
		})
	}
}
