package database

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/asysc2020/relationship-manager-project/internal/domain/outreach"
	"github.com/asysc2020/relationship-manager-project/internal/domain/relationship"
)

type PostgresRecommendationRepository struct {
	db *sql.DB
}

func NewPostgresRecommendationRepository(db *sql.DB) *PostgresRecommendationRepository {
	return &PostgresRecommendationRepository{db: db}
}

func (r *PostgresRecommendationRepository) ListByCategory(ctx context.Context, category relationship.Category) ([]*outreach.Recommendation, error) {
	query := `SELECT id, category, method FROM recommendations WHERE category = $1 ORDER BY id ASC`
	rows, err := r.db.QueryContext(ctx, query, category)
	if err != nil {
		return nil, fmt.Errorf("error querying recommendations by category: %w", err)
	}
	defer rows.Close()

	recs := make([]*outreach.Recommendation, 0)
	for rows.Next() {
		rec := outreach.Recommendation{}
		if err := rows.Scan(&rec.ID, &rec.Category, &rec.Method); err != nil {
			return nil, fmt.Errorf("error scanning recommendation row: %w", err)
		}
		recs = append(recs, &rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating recommendation rows: %w", err)
	}
	return recs, nil
}
