package relationship

import (
	"context"
)

// Repository defines the operations for persisting and retrieving
// Relationship entities.
type Repository interface {
	Create(ctx context.Context, rel *Relationship) error
	GetByID(ctx context.Context, id int64) (*Relationship, error)
	ListByUser(ctx context.Context, userID int64) ([]*Relationship, error)
	// SetMethods stores the outreach methods chosen at schedule
	// finalization.
	SetMethods(ctx context.Context, id int64, methods []string) error
	// ApplyFieldUpdate mutates exactly one updatable field. The update has
	// already been validated against the closed field enumeration.
	ApplyFieldUpdate(ctx context.Context, id int64, upd FieldUpdate) error
}
