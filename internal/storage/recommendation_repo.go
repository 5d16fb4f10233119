package storage

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/ethanrimes/tiktok-recommendation-engine/pkg/models"
)

// RecommendationRepository stores completed ranking runs, write-only from
// the engine's point of view; the presentation layer reads them back.
type RecommendationRepository struct {
	db     Querier
	logger *logrus.Logger
}

func NewRecommendationRepository(db Querier, logger *logrus.Logger) *RecommendationRepository {
	return &RecommendationRepository{db: db, logger: logger}
}

// InsertRun stores every recommendation of one run under a shared run ID.
func (r *RecommendationRepository) InsertRun(ctx context.Context, runID uuid.UUID, recs []models.Recommendation) error {
	for i, rec := range recs {
		_, err := r.db.Exec(ctx, `
			INSERT INTO recommendations
				(run_id, username, video_id, author, description, url,
				 score, virality_score, relevance_score, engagement_score,
				 matched_tags, position, created_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`,
			runID, rec.Username, rec.VideoID, rec.Author, rec.Description, rec.URL,
			rec.Score, rec.Scores.Virality, rec.Scores.Relevance, rec.Scores.Engagement,
			rec.MatchedTags, i+1, rec.CreatedAt)
		if err != nil {
			return fmt.Errorf("failed to insert recommendation %s/%s: %w", rec.Username, rec.VideoID, err)
		}
	}

	r.logger.WithFields(logrus.Fields{
		"run_id": runID,
		"count":  len(recs),
	}).Debug("Stored ranking run")

	return nil
}

// LatestRun returns the most recent run's recommendations for a user in
// ranked order. A user with no runs yields an empty slice, not an error.
func (r *RecommendationRepository) LatestRun(ctx context.Context, username string) ([]models.Recommendation, error) {
	rows, err := r.db.Query(ctx, `
		SELECT username, video_id, author, description, url,
		       score, virality_score, relevance_score, engagement_score,
		       matched_tags, created_at
		FROM recommendations
		WHERE username = $1
		  AND run_id = (
			SELECT run_id FROM recommendations
			WHERE username = $1
			ORDER BY created_at DESC
			LIMIT 1
		  )
		ORDER BY position ASC`, username)
	if err != nil {
		return nil, fmt.Errorf("failed to query recommendations for %s: %w", username, err)
	}
	defer rows.Close()

	var recs []models.Recommendation
	for rows.Next() {
		var rec models.Recommendation
		if err := rows.Scan(
			&rec.Username, &rec.VideoID, &rec.Author, &rec.Description, &rec.URL,
			&rec.Score, &rec.Scores.Virality, &rec.Scores.Relevance, &rec.Scores.Engagement,
			&rec.MatchedTags, &rec.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan recommendation row: %w", err)
		}
		recs = append(recs, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("recommendation rows: %w", err)
	}

	return recs, nil
}
