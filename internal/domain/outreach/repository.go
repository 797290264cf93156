package outreach

import (
	"context"
	"time"
)

// Repository defines operations for persisting and querying scheduled
// outreach events.
type Repository interface {
	// BulkCreate inserts a generated schedule in a single transaction.
	BulkCreate(ctx context.Context, events []*Event) error
	// HasSchedule reports whether any events exist for the relationship.
	HasSchedule(ctx context.Context, relationshipID int64) (bool, error)
	// ListByUser returns the user's events joined with contact names,
	// ordered by scheduled date.
	ListByUser(ctx context.Context, userID int64) ([]*UserEvent, error)
	// Delete removes one event, constrained to the owning user.
	Delete(ctx context.Context, id int64, userID int64) error
	// ListDue returns events scheduled before the given bound that have
	// not been dispatched yet.
	ListDue(ctx context.Context, before time.Time) ([]*DueReminder, error)
	// MarkNotified stamps an event as dispatched.
	MarkNotified(ctx context.Context, id int64, at time.Time) error
}
