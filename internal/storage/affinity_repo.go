package storage

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/ethanrimes/tiktok-recommendation-engine/pkg/models"
)

// AffinityRepository persists user topic affinities. Rows are unique per
// (username, tag); re-profiling overwrites in place.
type AffinityRepository struct {
	db     Querier
	logger *logrus.Logger
}

func NewAffinityRepository(db Querier, logger *logrus.Logger) *AffinityRepository {
	return &AffinityRepository{db: db, logger: logger}
}

// Upsert replaces the user's profile with the given affinities: stale topics
// are removed first so a shrinking profile does not leave orphan rows.
func (r *AffinityRepository) Upsert(ctx context.Context, username string, affinities []models.UserTopicAffinity) error {
	if _, err := r.db.Exec(ctx,
		`DELETE FROM user_topic_affinities WHERE username = $1`, username); err != nil {
		return fmt.Errorf("failed to clear affinities for %s: %w", username, err)
	}

	for _, a := range affinities {
		_, err := r.db.Exec(ctx, `
			INSERT INTO user_topic_affinities (username, tag, affinity, reason, updated_at)
			VALUES ($1, $2, $3, $4, $5)
			ON CONFLICT (username, tag)
			DO UPDATE SET affinity = EXCLUDED.affinity,
			              reason = EXCLUDED.reason,
			              updated_at = EXCLUDED.updated_at`,
			a.Username, a.Tag, a.Affinity, a.Reason, a.UpdatedAt)
		if err != nil {
			return fmt.Errorf("failed to upsert affinity (%s, %s): %w", a.Username, a.Tag, err)
		}
	}

	r.logger.WithFields(logrus.Fields{
		"username": username,
		"topics":   len(affinities),
	}).Debug("Stored user topic affinities")

	return nil
}

// ListByUser returns the stored profile in descending affinity order.
func (r *AffinityRepository) ListByUser(ctx context.Context, username string) ([]models.UserTopicAffinity, error) {
	rows, err := r.db.Query(ctx, `
		SELECT username, tag, affinity, reason, updated_at
		FROM user_topic_affinities
		WHERE username = $1
		ORDER BY affinity DESC, tag ASC`, username)
	if err != nil {
		return nil, fmt.Errorf("failed to query affinities for %s: %w", username, err)
	}
	defer rows.Close()

	var affinities []models.UserTopicAffinity
	for rows.Next() {
		var a models.UserTopicAffinity
		if err := rows.Scan(&a.Username, &a.Tag, &a.Affinity, &a.Reason, &a.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan affinity row: %w", err)
		}
		affinities = append(affinities, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("affinity rows: %w", err)
	}

	return affinities, nil
}
