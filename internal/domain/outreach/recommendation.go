package outreach

import (
	"context"

	"github.com/asysc2020/relationship-manager-project/internal/domain/relationship"
)

// Recommendation is a suggested outreach method for a relationship
// category, offered when the user picks methods for a new contact.
type Recommendation struct {
	ID       int32
	Category relationship.Category
	Method   string
}

// RecommendationRepository provides read access to the seeded method
// recommendations.
type RecommendationRepository interface {
	ListByCategory(ctx context.Context, category relationship.Category) ([]*Recommendation, error)
}
