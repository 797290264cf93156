package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/asysc2020/relationship-manager-project/internal/domain/outreach"
)

// Custom errors
var ErrEventNotFound = fmt.Errorf("outreach event not found")

type PostgresEventRepository struct {
	db *sql.DB
}

func NewPostgresEventRepository(db *sql.DB) *PostgresEventRepository {
	return &PostgresEventRepository{db: db}
}

func (r *PostgresEventRepository) BulkCreate(ctx context.Context, events []*outreach.Event) error {
	if len(events) == 0 {
		return nil
	}

	txn, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction for bulk create: %w", err)
	}
	defer txn.Rollback() // Rollback if not committed

	stmt, err := txn.PrepareContext(ctx, `INSERT INTO outreach_events (user_id, relationship_id, method, scheduled_at, created_at)
                                         VALUES ($1, $2, $3, $4, NOW())`)
	if err != nil {
		return fmt.Errorf("failed to prepare statement for bulk create: %w", err)
	}
	defer stmt.Close()

	for _, ev := range events {
		_, err := stmt.ExecContext(ctx, ev.UserID, ev.RelationshipID, ev.Method, ev.ScheduledAt)
		if err != nil {
			return fmt.Errorf("error executing statement for bulk create (event for R:%d, M:%s): %w", ev.RelationshipID, ev.Method, err)
		}
	}

	return txn.Commit()
}

func (r *PostgresEventRepository) HasSchedule(ctx context.Context, relationshipID int64) (bool, error) {
	query := `SELECT EXISTS(SELECT 1 FROM outreach_events WHERE relationship_id = $1)`
	var exists bool
	err := r.db.QueryRowContext(ctx, query, relationshipID).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("error checking schedule existence: %w", err)
	}
	return exists, nil
}

func (r *PostgresEventRepository) ListByUser(ctx context.Context, userID int64) ([]*outreach.UserEvent, error) {
	query := `SELECT e.id, e.user_id, e.relationship_id, e.method, e.scheduled_at, e.notified_at, e.created_at,
                      rel.first_name, rel.last_name
               FROM outreach_events e
               JOIN relationships rel ON rel.id = e.relationship_id
               WHERE e.user_id = $1
               ORDER BY e.scheduled_at ASC, e.id ASC`
	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("error querying events for user: %w", err)
	}
	defer rows.Close()

	events := make([]*outreach.UserEvent, 0)
	for rows.Next() {
		ue := outreach.UserEvent{}
		if err := rows.Scan(
			&ue.ID, &ue.UserID, &ue.RelationshipID, &ue.Method, &ue.ScheduledAt, &ue.NotifiedAt, &ue.CreatedAt,
			&ue.ContactFirstName, &ue.ContactLastName,
		); err != nil {
			return nil, fmt.Errorf("error scanning event row: %w", err)
		}
		events = append(events, &ue)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating event rows: %w", err)
	}
	return events, nil
}

func (r *PostgresEventRepository) Delete(ctx context.Context, id int64, userID int64) error {
	query := `DELETE FROM outreach_events WHERE id = $1 AND user_id = $2 RETURNING id`
	var deletedID int64
	err := r.db.QueryRowContext(ctx, query, id, userID).Scan(&deletedID)
	if err != nil {
		if err == sql.ErrNoRows {
			return ErrEventNotFound
		}
		return fmt.Errorf("error deleting event: %w", err)
	}
	return nil
}

func (r *PostgresEventRepository) ListDue(ctx context.Context, before time.Time) ([]*outreach.DueReminder, error) {
	query := `SELECT e.id, e.user_id, e.relationship_id, e.method, e.scheduled_at, e.notified_at, e.created_at,
                      rel.first_name, rel.last_name, u.telegram_chat_id
               FROM outreach_events e
               JOIN relationships rel ON rel.id = e.relationship_id
               JOIN users u ON u.id = e.user_id
               WHERE e.scheduled_at < $1 AND e.notified_at IS NULL
               ORDER BY e.scheduled_at ASC` // Process older ones first
	rows, err := r.db.QueryContext(ctx, query, before)
	if err != nil {
		return nil, fmt.Errorf("error querying due reminders: %w", err)
	}
	defer rows.Close()

	reminders := make([]*outreach.DueReminder, 0)
	for rows.Next() {
		dr := outreach.DueReminder{}
		if err := rows.Scan(
			&dr.ID, &dr.UserID, &dr.RelationshipID, &dr.Method, &dr.ScheduledAt, &dr.NotifiedAt, &dr.CreatedAt,
			&dr.ContactFirstName, &dr.ContactLastName, &dr.TelegramChatID,
		); err != nil {
			return nil, fmt.Errorf("error scanning due reminder row: %w", err)
		}
		reminders = append(reminders, &dr)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating due reminder rows: %w", err)
	}
	return reminders, nil
}

func (r *PostgresEventRepository) MarkNotified(ctx context.Context, id int64, at time.Time) error {
	query := `UPDATE outreach_events SET notified_at = $1 WHERE id = $2 RETURNING id`
	var updatedID int64
	err := r.db.QueryRowContext(ctx, query, at, id).Scan(&updatedID)
	if err != nil {
		if err == sql.ErrNoRows {
			return ErrEventNotFound
		}
		return fmt.Errorf("error marking event notified: %w", err)
	}
	return nil
}
