package storage

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/ethanrimes/tiktok-recommendation-engine/pkg/models"
)

// CategoryRepository reads the taxonomy the external taxonomy pipeline
// maintains. The engine never writes categories.
type CategoryRepository struct {
	db     Querier
	logger *logrus.Logger
}

func NewCategoryRepository(db Querier, logger *logrus.Logger) *CategoryRepository {
	return &CategoryRepository{db: db, logger: logger}
}

// List returns every category with its keywords and embedding.
func (r *CategoryRepository) List(ctx context.Context) ([]models.Category, error) {
	rows, err := r.db.Query(ctx, `
		SELECT tag, description, keywords, embedding, created_at
		FROM categories
		ORDER BY tag ASC`)
	if err != nil {
		return nil, fmt.Errorf("failed to query categories: %w", err)
	}
	defer rows.Close()

	var categories []models.Category
	for rows.Next() {
		var c models.Category
		if err := rows.Scan(&c.Tag, &c.Description, &c.Keywords, &c.Embedding, &c.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan category row: %w", err)
		}
		categories = append(categories, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("category rows: %w", err)
	}

	return categories, nil
}
