package handlers

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/pashagolub/pgxmock/v3"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ethanrimes/tiktok-recommendation-engine/internal/config"
	"github.com/ethanrimes/tiktok-recommendation-engine/internal/scoring"
	"github.com/ethanrimes/tiktok-recommendation-engine/internal/services"
	"github.com/ethanrimes/tiktok-recommendation-engine/internal/storage"
	"github.com/ethanrimes/tiktok-recommendation-engine/internal/validation"
	"github.com/ethanrimes/tiktok-recommendation-engine/pkg/models"
)

func handlerTestConfig() *config.Config {
	return &config.Config{
		Ranking: config.RankingConfig{
			ViralityWeight:      scoring.DefaultViralityWeight,
			RelevanceWeight:     scoring.DefaultRelevanceWeight,
			EngagementWeight:    scoring.DefaultEngagementWeight,
			MinScore:            scoring.DefaultMinScore,
			AuthorPenalty:       scoring.DefaultAuthorPenalty,
			TagSignaturePenalty: scoring.DefaultTagSignaturePenalty,
			DefaultCount:        20,
			ScoringWorkers:      2,
		},
		Profiling: config.ProfilingConfig{
			MinAffinity: scoring.DefaultMinAffinity,
		},
	}
}

func testRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	logger := logrus.New()
	logger.SetLevel(logrus.ErrorLevel) // Reduce noise in tests

	cfg := handlerTestConfig()

	validator, err := validation.NewSchemaValidator()
	require.NoError(t, err)

	recommendationService := services.NewRecommendationService(cfg, logger, nil, nil, nil, nil, nil)
	affinityService := services.NewAffinityService(cfg, logger, nil)

	router := gin.New()
	users := router.Group("/api/v1/users/:username")
	users.POST("/affinities", NewAffinityHandler(affinityService, validator, logger).Profile)
	users.POST("/recommendations", NewRecommendationHandler(recommendationService, validator, logger).Rank)

	return router
}

func rankBody(t *testing.T) []byte {
	t.Helper()

	body, err := json.Marshal(models.RecommendationRequest{
		Candidates: []models.Video{
			{
				ID:          "v1",
				Author:      "alice",
				Description: "morning yoga flow",
				Stats:       models.VideoStats{Plays: 3_000_000, Likes: 400_000, Comments: 90_000, Shares: 70_000},
				CreatedAt:   time.Now().Add(-8 * time.Hour),
				SourceTags:  []string{"fitness"},
			},
			{
				ID:          "v2",
				Author:      "bob",
				Description: "street food tour",
				Stats:       models.VideoStats{Plays: 1_200_000, Likes: 150_000, Comments: 40_000, Shares: 25_000},
				CreatedAt:   time.Now().Add(-20 * time.Hour),
				SourceTags:  []string{"food"},
			},
		},
		Affinities: []models.UserTopicAffinity{
			{Tag: "fitness", Affinity: 0.9},
		},
	})
	require.NoError(t, err)
	return body
}

func TestRecommendationHandler_Rank(t *testing.T) {
	router := testRouter(t)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/users/testuser/recommendations", bytes.NewReader(rankBody(t)))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var resp models.RecommendationResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))

	assert.Equal(t, "testuser", resp.Username)
	assert.NotEmpty(t, resp.Recommendations)
	for i := 1; i < len(resp.Recommendations); i++ {
		assert.GreaterOrEqual(t, resp.Recommendations[i-1].Score, resp.Recommendations[i].Score)
	}
	for _, rec := range resp.Recommendations {
		assert.Equal(t, "testuser", rec.Username)
	}
}

func TestRecommendationHandler_Rank_CandidateEmbeddings(t *testing.T) {
	gin.SetMode(gin.TestMode)

	mockDB, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mockDB.Close()

	logger := logrus.New()
	logger.SetLevel(logrus.ErrorLevel)

	validator, err := validation.NewSchemaValidator()
	require.NoError(t, err)

	categoryRepo := storage.NewCategoryRepository(mockDB, logger)
	recommendationService := services.NewRecommendationService(handlerTestConfig(), logger, nil, nil, categoryRepo, nil, nil)

	router := gin.New()
	router.POST("/api/v1/users/:username/recommendations", NewRecommendationHandler(recommendationService, validator, logger).Rank)

	mockDB.ExpectQuery("SELECT tag, description, keywords, embedding, created_at").
		WillReturnRows(pgxmock.NewRows([]string{"tag", "description", "keywords", "embedding", "created_at"}).
			AddRow("fitness", "workouts and training", []string{"workout"}, []float32{1, 0, 0}, time.Now()))

	// Candidates identical except for their embeddings: one aligned with
	// the fitness category vector, one orthogonal to it.
	createdAt := time.Now().Add(-6 * time.Hour).UTC().Format(time.RFC3339)
	body := fmt.Sprintf(`{
		"candidates": [
			{"id": "v-ortho", "author": "bob", "source_tags": ["fitness"],
			 "stats": {"plays": 2000000, "likes": 300000, "comments": 80000, "shares": 60000},
			 "created_at": %q, "embedding": [0, 1, 0]},
			{"id": "v-align", "author": "alice", "source_tags": ["fitness"],
			 "stats": {"plays": 2000000, "likes": 300000, "comments": 80000, "shares": 60000},
			 "created_at": %q, "embedding": [1, 0, 0]}
		],
		"affinities": [{"tag": "fitness", "affinity": 0.9}]
	}`, createdAt, createdAt)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/users/testuser/recommendations", bytes.NewReader([]byte(body)))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var resp models.RecommendationResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Len(t, resp.Recommendations, 2)

	// The aligned embedding must pull v-align ahead: cosine 1 maps to 1.0
	// while the orthogonal vector maps to 0.5, a 0.2 relevance gap.
	assert.Equal(t, "v-align", resp.Recommendations[0].VideoID)
	assert.Equal(t, "v-ortho", resp.Recommendations[1].VideoID)
	assert.InDelta(t, 0.2, resp.Recommendations[0].Scores.Relevance-resp.Recommendations[1].Scores.Relevance, 1e-9)

	assert.NoError(t, mockDB.ExpectationsWereMet())
}

func TestRecommendationHandler_Rank_BadRequests(t *testing.T) {
	router := testRouter(t)

	tests := []struct {
		name string
		body string
	}{
		{name: "Empty candidates", body: `{"candidates": []}`},
		{name: "Missing candidates", body: `{"options": {"count": 5}}`},
		{name: "Wrong candidate type", body: `{"candidates": "not-an-array"}`},
		{name: "Negative stat", body: `{"candidates": [{"id": "v1", "stats": {"plays": -5}}]}`},
		{name: "Not JSON", body: `plays go brrr`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/api/v1/users/testuser/recommendations", bytes.NewReader([]byte(tt.body)))
			req.Header.Set("Content-Type", "application/json")
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			assert.Equal(t, http.StatusBadRequest, w.Code)
		})
	}
}

func TestAffinityHandler_Profile(t *testing.T) {
	router := testRouter(t)

	body := `{
		"base_affinities": {
			"cooking": {"affinity": 0.7, "reason": "posts recipe videos"},
			"faint": {"affinity": 0.1}
		},
		"follower_count": 12000
	}`

	req := httptest.NewRequest(http.MethodPost, "/api/v1/users/chef/affinities", bytes.NewReader([]byte(body)))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var resp models.AffinityResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))

	assert.Equal(t, "chef", resp.Username)
	require.Len(t, resp.Affinities, 1)
	assert.Equal(t, "cooking", resp.Affinities[0].Tag)
}

func TestAffinityHandler_Profile_InvalidBody(t *testing.T) {
	router := testRouter(t)

	tests := []struct {
		name string
		body string
	}{
		{name: "Missing base affinities", body: `{"follower_count": 10}`},
		{name: "Affinity above one", body: `{"base_affinities": {"x": {"affinity": 1.5}}}`},
		{name: "Unknown activity source", body: `{"base_affinities": {}, "activity_items": [{"source": "hover"}]}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/api/v1/users/chef/affinities", bytes.NewReader([]byte(tt.body)))
			req.Header.Set("Content-Type", "application/json")
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			assert.Equal(t, http.StatusBadRequest, w.Code)
		})
	}
}
