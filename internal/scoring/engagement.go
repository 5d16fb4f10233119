package scoring

import (
	"math"

	"github.com/ethanrimes/tiktok-recommendation-engine/pkg/models"
)

// Engagement quality weights. Comments carry the most weight: writing one
// is a stronger signal of genuine interest than a passive like.
const (
	engagementLikeWeight    = 0.3
	engagementCommentWeight = 0.4
	engagementShareWeight   = 0.3
)

// EngagementQualityScore rates interaction depth in [0,1] from per-play
// ratios. Zero-play videos score 0 rather than erroring; the floor of 1 in
// the denominator deliberately under-weights them.
func EngagementQualityScore(videoID string, stats models.VideoStats) (float64, error) {
	if err := validateStats("video "+videoID, stats); err != nil {
		return 0, err
	}

	plays := math.Max(float64(stats.Plays), 1)
	likeRatio := math.Min(float64(stats.Likes)/plays, 1)
	commentRatio := math.Min(float64(stats.Comments)/plays, 1)
	shareRatio := math.Min(float64(stats.Shares)/plays, 1)

	score := engagementLikeWeight*likeRatio +
		engagementCommentWeight*commentRatio +
		engagementShareWeight*shareRatio

	return clamp01(score), nil
}
