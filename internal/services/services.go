package services

import (
	"github.com/sirupsen/logrus"

	"github.com/ethanrimes/tiktok-recommendation-engine/internal/config"
	"github.com/ethanrimes/tiktok-recommendation-engine/internal/database"
	"github.com/ethanrimes/tiktok-recommendation-engine/internal/messaging"
	"github.com/ethanrimes/tiktok-recommendation-engine/internal/storage"
)

type Services struct {
	Auth           *AuthService
	Affinity       *AffinityService
	Recommendation *RecommendationService
	Publisher      *messaging.Publisher
}

func New(cfg *config.Config, logger *logrus.Logger, db *database.Database) (*Services, error) {
	authService := NewAuthService(cfg, logger)

	affinityRepo := storage.NewAffinityRepository(db.PG, logger)
	recRepo := storage.NewRecommendationRepository(db.PG, logger)
	categoryRepo := storage.NewCategoryRepository(db.PG, logger)
	cache := storage.NewRecommendationCache(db.Redis, cfg.Caching.RecommendationsTTL, logger)

	// The broker is optional: a ranking run is complete without the event.
	publisher, err := messaging.NewPublisher(cfg, logger)
	if err != nil {
		logger.WithError(err).Warn("Kafka publisher disabled")
		publisher = nil
	}

	affinityService := NewAffinityService(cfg, logger, affinityRepo)
	recommendationService := NewRecommendationService(
		cfg, logger, affinityRepo, recRepo, categoryRepo, cache, publisher,
	)

	return &Services{
		Auth:           authService,
		Affinity:       affinityService,
		Recommendation: recommendationService,
		Publisher:      publisher,
	}, nil
}
