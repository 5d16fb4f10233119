package services

import (
	"context"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/ethanrimes/tiktok-recommendation-engine/internal/config"
	"github.com/ethanrimes/tiktok-recommendation-engine/internal/scoring"
	"github.com/ethanrimes/tiktok-recommendation-engine/internal/storage"
	"github.com/ethanrimes/tiktok-recommendation-engine/pkg/models"
)

// AffinityService runs the profiling step: activity in, persisted topic
// affinities out.
type AffinityService struct {
	cfg          *config.Config
	logger       *logrus.Logger
	affinityRepo *storage.AffinityRepository
}

func NewAffinityService(cfg *config.Config, logger *logrus.Logger, affinityRepo *storage.AffinityRepository) *AffinityService {
	return &AffinityService{
		cfg:          cfg,
		logger:       logger,
		affinityRepo: affinityRepo,
	}
}

// Profile aggregates a user's activity into topic affinities and stores the
// result, replacing any previous profile.
func (s *AffinityService) Profile(ctx context.Context, username string, req models.AffinityRequest) (*models.AffinityResponse, error) {
	minAffinity := s.cfg.Profiling.MinAffinity
	if req.MinAffinity != nil {
		minAffinity = *req.MinAffinity
	}

	items := capActivityItems(req.ActivityItems, s.cfg.Profiling.MaxPostsAnalyzed, s.cfg.Profiling.MaxLikedPosts)

	now := time.Now().UTC()
	affinities, err := scoring.ComputeUserAffinities(username, items, req.BaseAffinities, req.FollowerCount, minAffinity, now)
	if err != nil {
		return nil, fmt.Errorf("affinity aggregation for %s: %w", username, err)
	}

	if s.affinityRepo != nil {
		if err := s.affinityRepo.Upsert(ctx, username, affinities); err != nil {
			return nil, err
		}
	}

	affinityRuns.Inc()
	s.logger.WithFields(logrus.Fields{
		"username": username,
		"items":    len(items),
		"topics":   len(affinities),
	}).Info("Computed user topic affinities")

	return &models.AffinityResponse{
		Username:    username,
		Affinities:  affinities,
		GeneratedAt: now,
	}, nil
}

// List returns the stored affinity profile for a user, highest first.
func (s *AffinityService) List(ctx context.Context, username string) ([]models.UserTopicAffinity, error) {
	if s.affinityRepo == nil {
		return nil, fmt.Errorf("affinity store not configured")
	}
	return s.affinityRepo.ListByUser(ctx, username)
}

// capActivityItems bounds the analyzed activity per source kind: posts and
// reposts up to maxPosts, likes up to maxLiked. Classification cost grows
// linearly with items, and old tail activity adds little signal.
func capActivityItems(items []models.ActivityItem, maxPosts, maxLiked int) []models.ActivityItem {
	if maxPosts <= 0 && maxLiked <= 0 {
		return items
	}

	var out []models.ActivityItem
	posts, likes := 0, 0
	for _, item := range items {
		switch item.Source {
		case models.ActivityLike:
			if maxLiked > 0 && likes >= maxLiked {
				continue
			}
			likes++
		default:
			if maxPosts > 0 && posts >= maxPosts {
				continue
			}
			posts++
		}
		out = append(out, item)
	}
	return out
}
