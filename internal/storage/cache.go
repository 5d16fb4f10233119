package storage

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"sort"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/ethanrimes/tiktok-recommendation-engine/pkg/models"
)

// RecommendationCache keeps completed ranking responses in Redis for a
// configured TTL, keyed by user and candidate set. Identical requests
// within the window skip re-ranking entirely.
type RecommendationCache struct {
	redis  *redis.Client
	ttl    time.Duration
	logger *logrus.Logger
}

func NewRecommendationCache(redisClient *redis.Client, ttl time.Duration, logger *logrus.Logger) *RecommendationCache {
	return &RecommendationCache{redis: redisClient, ttl: ttl, logger: logger}
}

// Key derives the cache key from the username and a digest of the candidate
// IDs plus options. Candidate order must not change the key.
func (c *RecommendationCache) Key(username string, candidates []models.Video, opts models.RankingOptions) string {
	ids := make([]string, len(candidates))
	for i, v := range candidates {
		ids[i] = v.ID
	}
	sort.Strings(ids)

	h := sha256.New()
	for _, id := range ids {
		h.Write([]byte(id))
		h.Write([]byte{0})
	}
	if optBytes, err := json.Marshal(opts); err == nil {
		h.Write(optBytes)
	}

	return fmt.Sprintf("recs:%s:%s", username, hex.EncodeToString(h.Sum(nil))[:16])
}

func (c *RecommendationCache) Get(ctx context.Context, key string) (*models.RecommendationResponse, bool) {
	if c == nil || c.redis == nil {
		return nil, false
	}

	data, err := c.redis.Get(ctx, key).Bytes()
	if err != nil {
		return nil, false
	}

	var resp models.RecommendationResponse
	if err := json.Unmarshal(data, &resp); err != nil {
		c.logger.WithError(err).Warn("Failed to decode cached recommendations")
		return nil, false
	}

	return &resp, true
}

func (c *RecommendationCache) Set(ctx context.Context, key string, resp *models.RecommendationResponse) {
	if c == nil || c.redis == nil {
		return
	}

	data, err := json.Marshal(resp)
	if err != nil {
		c.logger.WithError(err).Warn("Failed to encode recommendations for cache")
		return
	}

	if err := c.redis.Set(ctx, key, data, c.ttl).Err(); err != nil {
		c.logger.WithError(err).Warn("Failed to cache recommendations")
	}
}
