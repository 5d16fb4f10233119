package scoring

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ethanrimes/tiktok-recommendation-engine/pkg/models"
)

func candidate(id, author string, virality, relevance, engagement float64, tags ...string) ScoredCandidate {
	return ScoredCandidate{
		Video:       models.Video{ID: id, Author: author},
		Virality:    virality,
		Relevance:   relevance,
		Engagement:  engagement,
		MatchedTags: tags,
	}
}

func TestRankCandidates_MinScoreFilter(t *testing.T) {
	now := time.Now()
	cfg := DefaultRankerConfig()

	// 0.3×0.49 + 0.4×0.49 + 0.3×0.49 = 0.49 < 0.5: dropped no matter how
	// the components split.
	below := candidate("low", "a", 0.49, 0.49, 0.49)
	above := candidate("high", "b", 0.9, 0.9, 0.9)

	recs := RankCandidates("user", []ScoredCandidate{below, above}, cfg, 0, now)

	require.Len(t, recs, 1)
	assert.Equal(t, "high", recs[0].VideoID)
	assert.InDelta(t, 0.9, recs[0].Score, 0.0001)
}

func TestRankCandidates_DuplicateAuthorPenalty(t *testing.T) {
	now := time.Now()
	cfg := DefaultRankerConfig()

	// Both candidates fuse to exactly 0.8 and share an author. The
	// tie-break (video ID ascending) makes "a1" the first occurrence; the
	// repeat drops to 0.8 × 0.9 = 0.72.
	first := candidate("a1", "creator", 0.8, 0.8, 0.8, "cooking")
	second := candidate("a2", "creator", 0.8, 0.8, 0.8, "gaming")

	recs := RankCandidates("user", []ScoredCandidate{second, first}, cfg, 0, now)

	require.Len(t, recs, 2)
	assert.Equal(t, "a1", recs[0].VideoID)
	assert.InDelta(t, 0.8, recs[0].Score, 0.0001)
	assert.Equal(t, "a2", recs[1].VideoID)
	assert.InDelta(t, 0.72, recs[1].Score, 0.0001)
}

func TestRankCandidates_TagSignaturePenalty(t *testing.T) {
	now := time.Now()
	cfg := DefaultRankerConfig()

	// Same matched tags in different order form the same signature.
	first := candidate("t1", "alice", 0.9, 0.9, 0.9, "cooking", "baking")
	second := candidate("t2", "bob", 0.8, 0.8, 0.8, "baking", "cooking")

	recs := RankCandidates("user", []ScoredCandidate{first, second}, cfg, 0, now)

	require.Len(t, recs, 2)
	assert.InDelta(t, 0.9, recs[0].Score, 0.0001)
	assert.InDelta(t, 0.8*0.85, recs[1].Score, 0.0001)
}

func TestRankCandidates_PenaltiesCompose(t *testing.T) {
	now := time.Now()
	cfg := DefaultRankerConfig()

	first := candidate("c1", "creator", 0.9, 0.9, 0.9, "music")
	repeat := candidate("c2", "creator", 0.8, 0.8, 0.8, "music")

	recs := RankCandidates("user", []ScoredCandidate{first, repeat}, cfg, 0, now)

	require.Len(t, recs, 2)
	// Same author and same signature: 0.8 × 0.9 × 0.85.
	assert.InDelta(t, 0.8*0.9*0.85, recs[1].Score, 0.0001)
}

func TestRankCandidates_EmptyTagsNeverTopicalDuplicates(t *testing.T) {
	now := time.Now()
	cfg := DefaultRankerConfig()

	first := candidate("e1", "alice", 0.9, 0.9, 0.9)
	second := candidate("e2", "bob", 0.8, 0.8, 0.8)

	recs := RankCandidates("user", []ScoredCandidate{first, second}, cfg, 0, now)

	require.Len(t, recs, 2)
	assert.InDelta(t, 0.8, recs[1].Score, 0.0001)
}

func TestRankCandidates_PenaltyNeverIncreasesScore(t *testing.T) {
	now := time.Now()
	cfg := DefaultRankerConfig()

	candidates := []ScoredCandidate{
		candidate("v1", "a", 0.9, 0.9, 0.9, "x"),
		candidate("v2", "a", 0.85, 0.85, 0.85, "x"),
		candidate("v3", "a", 0.8, 0.8, 0.8, "x"),
		candidate("v4", "b", 0.7, 0.7, 0.7, "y"),
	}

	recs := RankCandidates("user", candidates, cfg, 0, now)

	base := map[string]float64{"v1": 0.9, "v2": 0.85, "v3": 0.8, "v4": 0.7}
	for _, rec := range recs {
		assert.LessOrEqual(t, rec.Score, base[rec.VideoID])
		assert.GreaterOrEqual(t, rec.Score, 0.0)
	}
}

func TestRankCandidates_DeterministicTieBreaks(t *testing.T) {
	now := time.Now()
	cfg := DefaultRankerConfig()

	// Identical fused scores, distinct authors and tags: order falls back
	// to video ID ascending.
	candidates := []ScoredCandidate{
		candidate("zeta", "a", 0.7, 0.7, 0.7, "t1"),
		candidate("alpha", "b", 0.7, 0.7, 0.7, "t2"),
		candidate("mid", "c", 0.7, 0.7, 0.7, "t3"),
	}

	recs := RankCandidates("user", candidates, cfg, 0, now)

	require.Len(t, recs, 3)
	assert.Equal(t, "alpha", recs[0].VideoID)
	assert.Equal(t, "mid", recs[1].VideoID)
	assert.Equal(t, "zeta", recs[2].VideoID)
}

func TestRankCandidates_Idempotent(t *testing.T) {
	now := time.Now()
	cfg := DefaultRankerConfig()

	candidates := []ScoredCandidate{
		candidate("v1", "a", 0.9, 0.8, 0.7, "cooking"),
		candidate("v2", "a", 0.8, 0.9, 0.6, "cooking"),
		candidate("v3", "b", 0.7, 0.7, 0.9, "travel"),
		candidate("v4", "c", 0.6, 0.9, 0.8, "travel", "food"),
		candidate("v5", "b", 0.9, 0.9, 0.9),
	}

	first := RankCandidates("user", candidates, cfg, 0, now)
	for i := 0; i < 10; i++ {
		assert.Equal(t, first, RankCandidates("user", candidates, cfg, 0, now))
	}
}

func TestRankCandidates_TruncationAndTimestamp(t *testing.T) {
	now := time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)
	cfg := DefaultRankerConfig()

	var candidates []ScoredCandidate
	for _, id := range []string{"v1", "v2", "v3", "v4", "v5"} {
		candidates = append(candidates, candidate(id, "author-"+id, 0.8, 0.8, 0.8, "tag-"+id))
	}

	recs := RankCandidates("user", candidates, cfg, 3, now)

	require.Len(t, recs, 3)
	for _, rec := range recs {
		assert.Equal(t, now, rec.CreatedAt)
		assert.Equal(t, "user", rec.Username)
	}
}

func TestRankCandidates_EmptyInput(t *testing.T) {
	recs := RankCandidates("user", nil, DefaultRankerConfig(), 10, time.Now())
	assert.Empty(t, recs)
}

func TestRankCandidates_CustomWeightsClamped(t *testing.T) {
	now := time.Now()
	cfg := RankerConfig{
		ViralityWeight:      1.0,
		RelevanceWeight:     1.0,
		EngagementWeight:    1.0,
		MinScore:            0.5,
		AuthorPenalty:       0.9,
		TagSignaturePenalty: 0.85,
	}

	recs := RankCandidates("user", []ScoredCandidate{candidate("v1", "a", 0.9, 0.9, 0.9)}, cfg, 0, now)

	require.Len(t, recs, 1)
	assert.Equal(t, 1.0, recs[0].Score)
}

func TestTagSignature(t *testing.T) {
	assert.Equal(t, "", tagSignature(nil))
	assert.Equal(t, tagSignature([]string{"b", "a"}), tagSignature([]string{"a", "b"}))
	assert.NotEqual(t, tagSignature([]string{"a"}), tagSignature([]string{"a", "b"}))
}
