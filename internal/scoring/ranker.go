package scoring

import (
	"sort"
	"strings"
	"time"

	"github.com/ethanrimes/tiktok-recommendation-engine/pkg/models"
)

// Ranker defaults.
const (
	DefaultViralityWeight      = 0.3
	DefaultRelevanceWeight     = 0.4
	DefaultEngagementWeight    = 0.3
	DefaultMinScore            = 0.5
	DefaultAuthorPenalty       = 0.9
	DefaultTagSignaturePenalty = 0.85
)

// RankerConfig holds the fusion weights and diversity penalties for one
// ranking run. Weights need not sum to 1; the fused score is clamped.
type RankerConfig struct {
	ViralityWeight      float64
	RelevanceWeight     float64
	EngagementWeight    float64
	MinScore            float64
	AuthorPenalty       float64
	TagSignaturePenalty float64
}

// DefaultRankerConfig returns the production defaults.
func DefaultRankerConfig() RankerConfig {
	return RankerConfig{
		ViralityWeight:      DefaultViralityWeight,
		RelevanceWeight:     DefaultRelevanceWeight,
		EngagementWeight:    DefaultEngagementWeight,
		MinScore:            DefaultMinScore,
		AuthorPenalty:       DefaultAuthorPenalty,
		TagSignaturePenalty: DefaultTagSignaturePenalty,
	}
}

// ScoredCandidate pairs a candidate video with its three component scores,
// produced by the per-candidate scorers.
type ScoredCandidate struct {
	Video       models.Video
	Virality    float64
	Relevance   float64
	Engagement  float64
	MatchedTags []string
}

type rankedCandidate struct {
	ScoredCandidate
	base     float64
	adjusted float64
}

// RankCandidates fuses component scores, drops candidates below the minimum,
// applies the diversity pass and truncates to topN (topN <= 0 keeps all).
// The result is fully deterministic for identical inputs: ordering is by
// adjusted score descending with ties broken by pre-penalty score and then
// video ID.
func RankCandidates(
	username string,
	candidates []ScoredCandidate,
	cfg RankerConfig,
	topN int,
	now time.Time,
) []models.Recommendation {
	ranked := make([]rankedCandidate, 0, len(candidates))
	for _, c := range candidates {
		base := clamp01(cfg.ViralityWeight*c.Virality +
			cfg.RelevanceWeight*c.Relevance +
			cfg.EngagementWeight*c.Engagement)
		if base < cfg.MinScore {
			continue
		}
		ranked = append(ranked, rankedCandidate{ScoredCandidate: c, base: base, adjusted: base})
	}

	applyDiversityPenalties(ranked, cfg)

	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].adjusted != ranked[j].adjusted {
			return ranked[i].adjusted > ranked[j].adjusted
		}
		if ranked[i].base != ranked[j].base {
			return ranked[i].base > ranked[j].base
		}
		return ranked[i].Video.ID < ranked[j].Video.ID
	})

	if topN > 0 && len(ranked) > topN {
		ranked = ranked[:topN]
	}

	recs := make([]models.Recommendation, len(ranked))
	for i, r := range ranked {
		recs[i] = models.Recommendation{
			Username:    username,
			VideoID:     r.Video.ID,
			Author:      r.Video.Author,
			Description: r.Video.Description,
			URL:         r.Video.URL,
			Score:       r.adjusted,
			Scores: models.ComponentScores{
				Virality:   r.Virality,
				Relevance:  r.Relevance,
				Engagement: r.Engagement,
			},
			MatchedTags: r.MatchedTags,
			CreatedAt:   now,
		}
	}
	return recs
}

// applyDiversityPenalties walks candidates in descending pre-penalty order,
// multiplying down every later repeat of an already-seen author or matched
// tag signature. The first (best) occurrence always keeps its score; the
// running seen sets make the pass O(n) instead of pairwise. Penalties only
// ever shrink a score and never below zero.
func applyDiversityPenalties(ranked []rankedCandidate, cfg RankerConfig) {
	order := make([]*rankedCandidate, len(ranked))
	for i := range ranked {
		order[i] = &ranked[i]
	}
	sort.Slice(order, func(i, j int) bool {
		if order[i].base != order[j].base {
			return order[i].base > order[j].base
		}
		return order[i].Video.ID < order[j].Video.ID
	})

	seenAuthors := make(map[string]struct{})
	seenSignatures := make(map[string]struct{})

	for _, c := range order {
		penalty := 1.0
		if _, ok := seenAuthors[c.Video.Author]; ok {
			penalty *= cfg.AuthorPenalty
		}

		sig := tagSignature(c.MatchedTags)
		if sig != "" {
			if _, ok := seenSignatures[sig]; ok {
				penalty *= cfg.TagSignaturePenalty
			}
			seenSignatures[sig] = struct{}{}
		}
		seenAuthors[c.Video.Author] = struct{}{}

		adjusted := c.base * penalty
		if adjusted < 0 {
			adjusted = 0
		}
		c.adjusted = adjusted
	}
}

// tagSignature is the order-independent identity of a matched-tag set.
// Candidates without matched tags have no signature and are never treated
// as topical duplicates of each other.
func tagSignature(tags []string) string {
	if len(tags) == 0 {
		return ""
	}
	sorted := make([]string, len(tags))
	copy(sorted, tags)
	sort.Strings(sorted)
	return strings.Join(sorted, ",")
}
