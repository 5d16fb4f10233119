package models

import (
	"time"

	"github.com/google/uuid"
)

// ComponentScores carries the individual signal scores behind a final score.
type ComponentScores struct {
	Virality   float64 `json:"virality"`
	Relevance  float64 `json:"relevance"`
	Engagement float64 `json:"engagement"`
}

// Recommendation is one ranked video for one user, immutable once produced.
// Score reflects diversity adjustment; Scores holds the pre-fusion
// components, each in [0,1].
type Recommendation struct {
	Username    string          `json:"username" db:"username"`
	VideoID     string          `json:"video_id" db:"video_id"`
	Author      string          `json:"author" db:"author"`
	Description string          `json:"description" db:"description"`
	URL         string          `json:"url" db:"url"`
	Score       float64         `json:"score" db:"score"`
	Scores      ComponentScores `json:"scores"`
	MatchedTags []string        `json:"matched_tags" db:"matched_tags"`
	CreatedAt   time.Time       `json:"created_at" db:"created_at"`
}

// AffinityRequest is the profiling request body: everything the affinity
// aggregator needs, already fetched and classified upstream.
type AffinityRequest struct {
	ActivityItems  []ActivityItem          `json:"activity_items" validate:"dive"`
	BaseAffinities map[string]BaseAffinity `json:"base_affinities" validate:"required"`
	FollowerCount  int64                   `json:"follower_count" validate:"min=0"`
	MinAffinity    *float64                `json:"min_affinity,omitempty" validate:"omitempty,min=0,max=1"`
}

// AffinityResponse returns the surviving affinities in descending order.
type AffinityResponse struct {
	Username    string              `json:"username"`
	Affinities  []UserTopicAffinity `json:"affinities"`
	GeneratedAt time.Time           `json:"generated_at"`
}

// RankingOptions are the recognized per-request overrides for the ranker.
// Zero-valued fields fall back to configured defaults.
type RankingOptions struct {
	ViralityWeight      *float64 `json:"virality_weight,omitempty" validate:"omitempty,min=0"`
	RelevanceWeight     *float64 `json:"relevance_weight,omitempty" validate:"omitempty,min=0"`
	EngagementWeight    *float64 `json:"engagement_weight,omitempty" validate:"omitempty,min=0"`
	MinScore            *float64 `json:"min_score,omitempty" validate:"omitempty,min=0,max=1"`
	AuthorPenalty       *float64 `json:"author_penalty,omitempty" validate:"omitempty,min=0,max=1"`
	TagSignaturePenalty *float64 `json:"tag_signature_penalty,omitempty" validate:"omitempty,min=0,max=1"`
	Count               int      `json:"count" validate:"omitempty,min=1,max=100"`
}

// RecommendationRequest is the ranking request body. Affinities are optional;
// when omitted the stored profile is used.
type RecommendationRequest struct {
	Candidates []Video             `json:"candidates" validate:"required,min=1,dive"`
	Affinities []UserTopicAffinity `json:"affinities,omitempty" validate:"omitempty,dive"`
	Options    RankingOptions      `json:"options"`
}

// RecommendationResponse is one completed ranking run.
type RecommendationResponse struct {
	RunID           uuid.UUID        `json:"run_id"`
	Username        string           `json:"username"`
	Recommendations []Recommendation `json:"recommendations"`
	GeneratedAt     time.Time        `json:"generated_at"`
	CacheHit        bool             `json:"cache_hit"`
}
