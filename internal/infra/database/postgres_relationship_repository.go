package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/lib/pq"

	"github.com/asysc2020/relationship-manager-project/internal/domain/relationship"
)

// Custom errors
var ErrRelationshipNotFound = fmt.Errorf("relationship not found")

type PostgresRelationshipRepository struct {
	db *sql.DB
}

func NewPostgresRelationshipRepository(db *sql.DB) *PostgresRelationshipRepository {
	return &PostgresRelationshipRepository{db: db}
}

func (r *PostgresRelationshipRepository) Create(ctx context.Context, rel *relationship.Relationship) error {
	query := `INSERT INTO relationships (user_id, first_name, last_name, category, methods)
               VALUES ($1, $2, $3, $4, $5)
               RETURNING id, created_at, updated_at`

	err := r.db.QueryRowContext(ctx, query, rel.UserID, rel.FirstName, rel.LastName, rel.Category, pq.Array(rel.Methods)).
		Scan(&rel.ID, &rel.CreatedAt, &rel.UpdatedAt)
	if err != nil {
		return fmt.Errorf("error creating relationship: %w", err)
	}
	return nil
}

func (r *PostgresRelationshipRepository) GetByID(ctx context.Context, id int64) (*relationship.Relationship, error) {
	query := `SELECT id, user_id, first_name, last_name, category, methods, created_at, updated_at
               FROM relationships WHERE id = $1`
	rel := &relationship.Relationship{}
	err := r.db.QueryRowContext(ctx, query, id).
		Scan(&rel.ID, &rel.UserID, &rel.FirstName, &rel.LastName, &rel.Category, pq.Array(&rel.Methods), &rel.CreatedAt, &rel.UpdatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrRelationshipNotFound
		}
		return nil, fmt.Errorf("error getting relationship by ID: %w", err)
	}
	return rel, nil
}

func (r *PostgresRelationshipRepository) ListByUser(ctx context.Context, userID int64) ([]*relationship.Relationship, error) {
	query := `SELECT id, user_id, first_name, last_name, category, methods, created_at, updated_at
               FROM relationships WHERE user_id = $1 ORDER BY first_name ASC, last_name ASC, id ASC`
	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("error listing relationships for user: %w", err)
	}
	defer rows.Close()

	var rels []*relationship.Relationship
	for rows.Next() {
		rel := &relationship.Relationship{}
		if err := rows.Scan(&rel.ID, &rel.UserID, &rel.FirstName, &rel.LastName, &rel.Category, pq.Array(&rel.Methods), &rel.CreatedAt, &rel.UpdatedAt); err != nil {
			return nil, fmt.Errorf("error scanning relationship row: %w", err)
		}
		rels = append(rels, rel)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating relationship rows: %w", err)
	}
	return rels, nil
}

func (r *PostgresRelationshipRepository) SetMethods(ctx context.Context, id int64, methods []string) error {
	query := `UPDATE relationships SET methods = $1, updated_at = NOW()
               WHERE id = $2
               RETURNING updated_at`

	var updatedAt time.Time
	err := r.db.QueryRowContext(ctx, query, pq.Array(methods), id).Scan(&updatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return ErrRelationshipNotFound
		}
		return fmt.Errorf("error setting relationship methods: %w", err)
	}
	return nil
}

func (r *PostgresRelationshipRepository) ApplyFieldUpdate(ctx context.Context, id int64, upd relationship.FieldUpdate) error {
	// Column names come from a closed switch, never from the caller.
	var query string
	switch upd.Field {
	case relationship.UpdateFirstName:
		query = `UPDATE relationships SET first_name = $1, updated_at = NOW() WHERE id = $2 RETURNING updated_at`
	case relationship.UpdateLastName:
		query = `UPDATE relationships SET last_name = $1, updated_at = NOW() WHERE id = $2 RETURNING updated_at`
	case relationship.UpdateCategory:
		query = `UPDATE relationships SET category = $1, updated_at = NOW() WHERE id = $2 RETURNING updated_at`
	default:
		return relationship.ErrUnknownUpdateField
	}

	var updatedAt time.Time
	err := r.db.QueryRowContext(ctx, query, upd.Value, id).Scan(&updatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return ErrRelationshipNotFound
		}
		return fmt.Errorf("error updating relationship %s: %w", upd.Field, err)
	}
	return nil
}
