package scoring

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/floats"

	"github.com/ethanrimes/tiktok-recommendation-engine/pkg/models"
)

// Relevance component weights.
const (
	relevanceTagWeight       = 0.4
	relevanceEmbeddingWeight = 0.4
	relevanceSourceWeight    = 0.2

	// Tag matching and the interest centroid consider only the user's
	// strongest affinities; weak tail topics add noise, not signal.
	relevanceTopTags = 10

	partialMatchWeight = 0.5
)

// RelevanceScorer rates candidates against one user's topic profile. It is
// stateless per candidate; a single instance is shared across a ranking run.
type RelevanceScorer struct {
	categories map[string]models.Category
}

// NewRelevanceScorer indexes the taxonomy by tag. Category keywords feed
// partial tag matching and category embeddings feed the interest centroid.
func NewRelevanceScorer(categories []models.Category) *RelevanceScorer {
	byTag := make(map[string]models.Category, len(categories))
	for _, c := range categories {
		byTag[c.Tag] = c
	}
	return &RelevanceScorer{categories: byTag}
}

// Score rates how well one video matches the user's interests, in [0,1],
// and returns the contributing tags ordered strongest-first.
//
// Tag matching gives full weight when the tag itself appears in the video's
// text or source tags and half weight when only its terms or category
// keywords do, normalized by the total affinity mass considered. The
// embedding term compares the video vector against the affinity-weighted
// centroid of the user's top category embeddings, mapped from cosine [-1,1]
// onto [0,1]; a missing vector on either side contributes 0 instead of
// failing the run. The source boost fires when the video was retrieved via
// a query built from any topic the user cares about.
func (s *RelevanceScorer) Score(video models.Video, affinities []models.UserTopicAffinity) (float64, []string) {
	top := topAffinities(affinities, relevanceTopTags)

	tagMatch, matched := s.tagMatch(video, top)
	embedding := s.embeddingSimilarity(video, top)
	boost := sourceBoost(video, affinities)

	score := relevanceTagWeight*tagMatch +
		relevanceEmbeddingWeight*embedding +
		relevanceSourceWeight*boost

	return clamp01(score), matched
}

type tagContribution struct {
	tag      string
	score    float64
	affinity float64
}

func (s *RelevanceScorer) tagMatch(video models.Video, top []models.UserTopicAffinity) (float64, []string) {
	if len(top) == 0 {
		return 0, nil
	}

	videoTokens := tokenSet(append([]string{video.Description, video.MusicTitle}, video.Hashtags...)...)
	sourceTags := make(map[string]struct{}, len(video.SourceTags))
	for _, t := range video.SourceTags {
		sourceTags[canonicalize(t)] = struct{}{}
	}

	var contributions []tagContribution
	total, maxPossible := 0.0, 0.0

	for _, aff := range top {
		tag := canonicalize(aff.Tag)
		maxPossible += aff.Affinity

		weight := 0.0
		if _, ok := videoTokens[tag]; ok {
			weight = 1.0
		} else if _, ok := sourceTags[tag]; ok {
			weight = 1.0
		} else if s.partialMatch(aff.Tag, videoTokens) {
			weight = partialMatchWeight
		}

		if weight > 0 {
			contribution := aff.Affinity * weight
			total += contribution
			contributions = append(contributions, tagContribution{tag: aff.Tag, score: contribution, affinity: aff.Affinity})
		}
	}

	sort.Slice(contributions, func(i, j int) bool {
		if contributions[i].score != contributions[j].score {
			return contributions[i].score > contributions[j].score
		}
		if contributions[i].affinity != contributions[j].affinity {
			return contributions[i].affinity > contributions[j].affinity
		}
		return contributions[i].tag < contributions[j].tag
	})

	matched := make([]string, len(contributions))
	for i, c := range contributions {
		matched[i] = c.tag
	}

	if maxPossible == 0 {
		return 0, matched
	}
	return total / maxPossible, matched
}

// partialMatch checks whether any term of the tag, or any keyword of its
// category, appears as a token of the video text. Token-level comparison
// avoids the false hits raw substring containment produces on short terms.
func (s *RelevanceScorer) partialMatch(tag string, videoTokens map[string]struct{}) bool {
	for _, term := range tagTokens(tag) {
		if _, ok := videoTokens[term]; ok {
			return true
		}
	}
	if cat, ok := s.categories[tag]; ok {
		for _, kw := range cat.Keywords {
			for term := range tokenSet(kw) {
				if _, ok := videoTokens[term]; ok {
					return true
				}
			}
		}
	}
	return false
}

// embeddingSimilarity compares the video vector with the affinity-weighted
// centroid of the user's top category embeddings.
func (s *RelevanceScorer) embeddingSimilarity(video models.Video, top []models.UserTopicAffinity) float64 {
	if len(video.Embedding) == 0 {
		return 0
	}

	videoVec := toFloat64(video.Embedding)
	centroid := make([]float64, len(videoVec))
	weightSum := 0.0

	for _, aff := range top {
		cat, ok := s.categories[aff.Tag]
		if !ok || len(cat.Embedding) != len(videoVec) {
			continue
		}
		floats.AddScaled(centroid, aff.Affinity, toFloat64(cat.Embedding))
		weightSum += aff.Affinity
	}
	if weightSum == 0 {
		return 0
	}

	cos := cosineSimilarity(videoVec, centroid)
	return (cos + 1) / 2
}

func sourceBoost(video models.Video, affinities []models.UserTopicAffinity) float64 {
	if len(video.SourceTags) == 0 {
		return 0
	}
	userTags := make(map[string]struct{}, len(affinities))
	for _, aff := range affinities {
		userTags[canonicalize(aff.Tag)] = struct{}{}
	}
	for _, t := range video.SourceTags {
		if _, ok := userTags[canonicalize(t)]; ok {
			return 1.0
		}
	}
	return 0
}

// topAffinities returns the n strongest affinities, tolerating unsorted
// input from callers that bypass the aggregator.
func topAffinities(affinities []models.UserTopicAffinity, n int) []models.UserTopicAffinity {
	sorted := make([]models.UserTopicAffinity, len(affinities))
	copy(sorted, affinities)
	sort.Slice(sorted, func(i, j int) bool {
		if sorted[i].Affinity != sorted[j].Affinity {
			return sorted[i].Affinity > sorted[j].Affinity
		}
		return sorted[i].Tag < sorted[j].Tag
	})
	if len(sorted) > n {
		sorted = sorted[:n]
	}
	return sorted
}

func cosineSimilarity(a, b []float64) float64 {
	if len(a) != len(b) || len(a) == 0 {
		return 0
	}
	normA := floats.Norm(a, 2)
	normB := floats.Norm(b, 2)
	if normA == 0 || normB == 0 {
		return 0
	}
	cos := floats.Dot(a, b) / (normA * normB)
	// Guard rounding drift past the cosine bounds.
	return math.Max(-1, math.Min(1, cos))
}

func toFloat64(v []float32) []float64 {
	out := make([]float64, len(v))
	for i, x := range v {
		out[i] = float64(x)
	}
	return out
}
