package scoring

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ethanrimes/tiktok-recommendation-engine/pkg/models"
)

func TestEngagementQualityScore(t *testing.T) {
	tests := []struct {
		name     string
		stats    models.VideoStats
		expected float64
	}{
		{
			name:     "zero plays scores zero",
			stats:    models.VideoStats{},
			expected: 0.0,
		},
		{
			name:     "typical ratios",
			stats:    models.VideoStats{Plays: 10_000, Likes: 1_000, Comments: 100, Shares: 50},
			expected: 0.3*0.1 + 0.4*0.01 + 0.3*0.005,
		},
		{
			name: "comments outweigh likes",
			// Same interaction volume split differently: the comment-heavy
			// video must score higher than a like-heavy one (checked below).
			stats:    models.VideoStats{Plays: 1_000, Comments: 100},
			expected: 0.4 * 0.1,
		},
		{
			name:     "ratios capped at one",
			stats:    models.VideoStats{Plays: 1, Likes: 50, Comments: 50, Shares: 50},
			expected: 1.0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			score, err := EngagementQualityScore("v", tt.stats)
			require.NoError(t, err)
			assert.InDelta(t, tt.expected, score, 0.0001)
		})
	}
}

func TestEngagementQualityScore_CommentWeighting(t *testing.T) {
	commentHeavy, err := EngagementQualityScore("a", models.VideoStats{Plays: 1_000, Comments: 100})
	require.NoError(t, err)
	likeHeavy, err := EngagementQualityScore("b", models.VideoStats{Plays: 1_000, Likes: 100})
	require.NoError(t, err)

	assert.Greater(t, commentHeavy, likeHeavy)
}

func TestEngagementQualityScore_RejectsNegativeStats(t *testing.T) {
	_, err := EngagementQualityScore("bad", models.VideoStats{Shares: -1})

	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "shares", verr.Field)
}
