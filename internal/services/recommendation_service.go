package services

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/ethanrimes/tiktok-recommendation-engine/internal/config"
	"github.com/ethanrimes/tiktok-recommendation-engine/internal/messaging"
	"github.com/ethanrimes/tiktok-recommendation-engine/internal/scoring"
	"github.com/ethanrimes/tiktok-recommendation-engine/internal/storage"
	"github.com/ethanrimes/tiktok-recommendation-engine/pkg/models"
)

// RecommendationService runs ranking end to end: score candidates in
// parallel, fuse and diversify, persist and publish the run.
type RecommendationService struct {
	cfg          *config.Config
	logger       *logrus.Logger
	affinityRepo *storage.AffinityRepository
	recRepo      *storage.RecommendationRepository
	categoryRepo *storage.CategoryRepository
	cache        *storage.RecommendationCache
	publisher    *messaging.Publisher
}

func NewRecommendationService(
	cfg *config.Config,
	logger *logrus.Logger,
	affinityRepo *storage.AffinityRepository,
	recRepo *storage.RecommendationRepository,
	categoryRepo *storage.CategoryRepository,
	cache *storage.RecommendationCache,
	publisher *messaging.Publisher,
) *RecommendationService {
	return &RecommendationService{
		cfg:          cfg,
		logger:       logger,
		affinityRepo: affinityRepo,
		recRepo:      recRepo,
		categoryRepo: categoryRepo,
		cache:        cache,
		publisher:    publisher,
	}
}

// Rank produces the ordered recommendation list for one user. Scoring runs
// across a bounded worker pool; the diversity pass is the single sequential
// step. A validation failure on any candidate aborts the whole run, since
// partial results would break the global ordering the diversity pass needs.
func (s *RecommendationService) Rank(ctx context.Context, username string, req models.RecommendationRequest) (*models.RecommendationResponse, error) {
	start := time.Now()

	cacheKey := s.cache.Key(username, req.Candidates, req.Options)
	if cached, ok := s.cache.Get(ctx, cacheKey); ok {
		cacheResults.WithLabelValues("hit").Inc()
		cached.CacheHit = true
		return cached, nil
	}
	cacheResults.WithLabelValues("miss").Inc()

	affinities := req.Affinities
	if len(affinities) == 0 && s.affinityRepo != nil {
		stored, err := s.affinityRepo.ListByUser(ctx, username)
		if err != nil {
			return nil, err
		}
		affinities = stored
	}

	var categories []models.Category
	if s.categoryRepo != nil {
		loaded, err := s.categoryRepo.List(ctx)
		if err != nil {
			return nil, err
		}
		categories = loaded
	}

	now := time.Now().UTC()
	scored, err := s.scoreCandidates(req.Candidates, affinities, categories, now)
	if err != nil {
		return nil, err
	}

	rankerCfg, topN := s.resolveOptions(req.Options)
	recommendations := scoring.RankCandidates(username, scored, rankerCfg, topN, now)

	response := &models.RecommendationResponse{
		RunID:           uuid.New(),
		Username:        username,
		Recommendations: recommendations,
		GeneratedAt:     now,
	}

	if s.recRepo != nil && len(recommendations) > 0 {
		if err := s.recRepo.InsertRun(ctx, response.RunID, recommendations); err != nil {
			return nil, err
		}
	}

	if s.publisher != nil {
		event := messaging.RankedEvent{
			RunID:           response.RunID,
			Username:        username,
			Recommendations: recommendations,
			CandidateCount:  len(req.Candidates),
			Timestamp:       now,
		}
		if err := s.publisher.PublishRankedEvent(ctx, event); err != nil {
			// Downstream consumers poll the store as fallback; the run
			// itself succeeded.
			s.logger.WithError(err).Warn("Failed to publish ranked event")
		}
	}

	s.cache.Set(ctx, cacheKey, response)

	candidatesScored.Add(float64(len(req.Candidates)))
	recommendationsProduced.Add(float64(len(recommendations)))
	rankingDuration.Observe(time.Since(start).Seconds())

	s.logger.WithFields(logrus.Fields{
		"username":        username,
		"candidates":      len(req.Candidates),
		"recommendations": len(recommendations),
		"duration":        time.Since(start),
	}).Info("Completed ranking run")

	return response, nil
}

// Latest returns the most recently persisted run for a user.
func (s *RecommendationService) Latest(ctx context.Context, username string) ([]models.Recommendation, error) {
	if s.recRepo == nil {
		return nil, fmt.Errorf("recommendation store not configured")
	}
	return s.recRepo.LatestRun(ctx, username)
}

// scoreCandidates fans per-candidate scoring out over a bounded worker
// pool. Results land in an index-addressed slice, so completion order never
// affects the outcome.
func (s *RecommendationService) scoreCandidates(
	candidates []models.Video,
	affinities []models.UserTopicAffinity,
	categories []models.Category,
	now time.Time,
) ([]scoring.ScoredCandidate, error) {
	relevanceScorer := scoring.NewRelevanceScorer(categories)

	workers := s.cfg.Ranking.ScoringWorkers
	if workers <= 0 {
		workers = 1
	}
	if workers > len(candidates) {
		workers = len(candidates)
	}

	scored := make([]scoring.ScoredCandidate, len(candidates))
	errs := make([]error, len(candidates))
	jobs := make(chan int)

	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				scored[i], errs[i] = s.scoreOne(relevanceScorer, candidates[i], affinities, now)
			}
		}()
	}

	for i := range candidates {
		jobs <- i
	}
	close(jobs)
	wg.Wait()

	for _, err := range errs {
		if err != nil {
			return nil, err
		}
	}
	return scored, nil
}

func (s *RecommendationService) scoreOne(
	relevanceScorer *scoring.RelevanceScorer,
	video models.Video,
	affinities []models.UserTopicAffinity,
	now time.Time,
) (scoring.ScoredCandidate, error) {
	virality, breakdown, err := scoring.ViralityScore(video, now)
	if err != nil {
		return scoring.ScoredCandidate{}, err
	}
	engagementLabels.WithLabelValues(breakdown.EngagementLabel).Inc()

	engagement, err := scoring.EngagementQualityScore(video.ID, video.Stats)
	if err != nil {
		return scoring.ScoredCandidate{}, err
	}

	relevance, matchedTags := relevanceScorer.Score(video, affinities)

	return scoring.ScoredCandidate{
		Video:       video,
		Virality:    virality,
		Relevance:   relevance,
		Engagement:  engagement,
		MatchedTags: matchedTags,
	}, nil
}

func (s *RecommendationService) resolveOptions(opts models.RankingOptions) (scoring.RankerConfig, int) {
	ranking := s.cfg.Ranking

	cfg := scoring.RankerConfig{
		ViralityWeight:      ranking.ViralityWeight,
		RelevanceWeight:     ranking.RelevanceWeight,
		EngagementWeight:    ranking.EngagementWeight,
		MinScore:            ranking.MinScore,
		AuthorPenalty:       ranking.AuthorPenalty,
		TagSignaturePenalty: ranking.TagSignaturePenalty,
	}

	if opts.ViralityWeight != nil {
		cfg.ViralityWeight = *opts.ViralityWeight
	}
	if opts.RelevanceWeight != nil {
		cfg.RelevanceWeight = *opts.RelevanceWeight
	}
	if opts.EngagementWeight != nil {
		cfg.EngagementWeight = *opts.EngagementWeight
	}
	if opts.MinScore != nil {
		cfg.MinScore = *opts.MinScore
	}
	if opts.AuthorPenalty != nil {
		cfg.AuthorPenalty = *opts.AuthorPenalty
	}
	if opts.TagSignaturePenalty != nil {
		cfg.TagSignaturePenalty = *opts.TagSignaturePenalty
	}

	topN := ranking.DefaultCount
	if opts.Count > 0 {
		topN = opts.Count
	}

	return cfg, topN
}
