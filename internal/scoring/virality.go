package scoring

import (
	"math"
	"time"

	"github.com/ethanrimes/tiktok-recommendation-engine/pkg/models"
)

// Virality component weights. Reach and interaction intensity dominate;
// share behavior and recency refine.
const (
	viralityPlayWeight       = 0.3
	viralityEngagementWeight = 0.3
	viralityShareWeight      = 0.2
	viralityRecencyWeight    = 0.2
)

// ViralityBreakdown exposes the per-signal inputs behind a virality score,
// for explanations and telemetry.
type ViralityBreakdown struct {
	PlayNorm        float64
	EngagementRate  float64
	ShareRatio      float64
	Recency         float64
	EngagementLabel string
}

// ViralityScore rates one candidate's breakout potential in [0,1] from its
// raw stats and age at the given reference time. Negative counters are an
// upstream contract violation and fail the call.
func ViralityScore(video models.Video, now time.Time) (float64, ViralityBreakdown, error) {
	if err := validateStats("video "+video.ID, video.Stats); err != nil {
		return 0, ViralityBreakdown{}, err
	}

	stats := video.Stats
	plays := math.Max(float64(stats.Plays), 1)

	b := ViralityBreakdown{
		PlayNorm:       NormalizePlayCount(stats.Plays),
		EngagementRate: math.Min(float64(stats.Likes+stats.Comments+stats.Shares)/plays, 1),
		ShareRatio:     math.Min(float64(stats.Shares)/plays, 1),
		Recency:        TimeDecay(now.Sub(video.CreatedAt).Hours() / 24),
	}
	b.EngagementLabel = EngagementRateLabel(b.EngagementRate)

	score := viralityPlayWeight*b.PlayNorm +
		viralityEngagementWeight*b.EngagementRate +
		viralityShareWeight*b.ShareRatio +
		viralityRecencyWeight*b.Recency

	return clamp01(score), b, nil
}
