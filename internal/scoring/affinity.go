package scoring

import (
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/ethanrimes/tiktok-recommendation-engine/pkg/models"
)

// DefaultMinAffinity is the threshold below which a topic is dropped from
// the profile.
const DefaultMinAffinity = 0.3

// Source weights: original content signals interest more strongly than a
// repost, which in turn beats a bare like.
var sourceWeights = map[models.ActivitySource]float64{
	models.ActivityPost:   1.0,
	models.ActivityRepost: 0.8,
	models.ActivityLike:   0.6,
}

// ComputeUserAffinities turns a user's classified activity into per-topic
// affinities in [0,1]. Each activity item contributes relevance × source
// weight × engagement multiplier to every topic it references; the boost for
// a topic is the average of those contributions, scaled by
// the user's follower-count influence factor and added to the base affinity
// from content-theme analysis. Topics below minAffinity are dropped and the
// survivors are returned in descending affinity order, ties broken by tag.
//
// A topic with no qualifying activity keeps its base affinity unchanged;
// that is degraded signal, not an error. Malformed items (unknown source,
// negative counters, relevance outside [0,1]) abort the whole computation.
func ComputeUserAffinities(
	username string,
	items []models.ActivityItem,
	base map[string]models.BaseAffinity,
	followerCount int64,
	minAffinity float64,
	now time.Time,
) ([]models.UserTopicAffinity, error) {
	if followerCount < 0 {
		return nil, &ValidationError{Record: "user " + username, Field: "follower_count", Reason: "negative count"}
	}

	type topicAccum struct {
		contributionSum float64
		itemCount       int
	}
	accum := make(map[string]*topicAccum)

	for i, item := range items {
		record := fmt.Sprintf("activity item %d", i)

		weight, ok := sourceWeights[item.Source]
		if !ok {
			return nil, &ValidationError{Record: record, Field: "source", Reason: fmt.Sprintf("unknown kind %q", item.Source)}
		}
		if err := validateStats(record, item.Stats); err != nil {
			return nil, err
		}

		mult := engagementMultiplier(item.Stats)

		for tag, relevance := range item.Relevance {
			if err := validateUnitScore(record, "relevance["+tag+"]", relevance); err != nil {
				return nil, err
			}
			acc := accum[tag]
			if acc == nil {
				acc = &topicAccum{}
				accum[tag] = acc
			}
			acc.contributionSum += relevance * weight * mult
			acc.itemCount++
		}
	}

	influence := InfluenceFactor(followerCount)

	// Topics come from the union of base affinities and activity: a topic
	// the classifier saw but theme analysis missed starts from base 0.
	topics := make(map[string]struct{}, len(base)+len(accum))
	for tag := range base {
		topics[tag] = struct{}{}
	}
	for tag := range accum {
		topics[tag] = struct{}{}
	}

	var result []models.UserTopicAffinity
	for tag := range topics {
		b := base[tag]
		if err := validateUnitScore("topic "+tag, "base_affinity", b.Affinity); err != nil {
			return nil, err
		}

		boost := 0.0
		itemCount := 0
		if acc := accum[tag]; acc != nil && acc.itemCount > 0 {
			boost = acc.contributionSum / float64(acc.itemCount)
			itemCount = acc.itemCount
		}

		affinity := clamp01(b.Affinity + boost*influence)
		if affinity < minAffinity {
			continue
		}

		result = append(result, models.UserTopicAffinity{
			Username:  username,
			Tag:       tag,
			Affinity:  affinity,
			Reason:    affinityReason(b, boost, influence, itemCount),
			UpdatedAt: now,
		})
	}

	sort.Slice(result, func(i, j int) bool {
		if result[i].Affinity != result[j].Affinity {
			return result[i].Affinity > result[j].Affinity
		}
		return result[i].Tag < result[j].Tag
	})

	return result, nil
}

// engagementMultiplier is the capped per-play interaction rate of one item.
// Zero plays yield zero: an unwatched item carries no engagement evidence.
func engagementMultiplier(stats models.VideoStats) float64 {
	if stats.Plays == 0 {
		return 0
	}
	rate := float64(stats.Likes+stats.Comments+stats.Shares) / float64(stats.Plays)
	return math.Min(rate, 1)
}

// InfluenceFactor scales engagement evidence by audience size: engagement
// on a large account is harder to earn and therefore worth more.
func InfluenceFactor(followers int64) float64 {
	switch {
	case followers < 1_000:
		return 0.8
	case followers < 10_000:
		return 0.9
	case followers < 100_000:
		return 1.0
	case followers < 1_000_000:
		return 1.1
	default:
		return 1.2
	}
}

func affinityReason(b models.BaseAffinity, boost, influence float64, itemCount int) string {
	if itemCount == 0 || boost == 0 {
		if b.Reason != "" {
			return b.Reason
		}
		return fmt.Sprintf("base affinity %.2f from content themes", b.Affinity)
	}
	reason := fmt.Sprintf("engagement boost %.2f from %d activity items (influence %.1f)", boost*influence, itemCount, influence)
	if b.Reason != "" {
		return b.Reason + "; " + reason
	}
	return reason
}
