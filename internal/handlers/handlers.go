package handlers

import (
	"github.com/sirupsen/logrus"

	"github.com/ethanrimes/tiktok-recommendation-engine/internal/database"
	"github.com/ethanrimes/tiktok-recommendation-engine/internal/services"
	"github.com/ethanrimes/tiktok-recommendation-engine/internal/validation"
)

type Handlers struct {
	Health         *HealthHandler
	Affinity       *AffinityHandler
	Recommendation *RecommendationHandler
}

func New(logger *logrus.Logger, services *services.Services, db *database.Database) (*Handlers, error) {
	validator, err := validation.NewSchemaValidator()
	if err != nil {
		return nil, err
	}

	return &Handlers{
		Health:         NewHealthHandler(logger, db),
		Affinity:       NewAffinityHandler(services.Affinity, validator, logger),
		Recommendation: NewRecommendationHandler(services.Recommendation, validator, logger),
	}, nil
}
