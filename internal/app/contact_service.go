package app

import (
	"context"
	"fmt"
	"strings"

	"github.com/asysc2020/relationship-manager-project/internal/domain/outreach"
	"github.com/asysc2020/relationship-manager-project/internal/domain/relationship"
	idb "github.com/asysc2020/relationship-manager-project/internal/infra/database"
)

// Custom application-level errors for the contact service
var ErrEmptyName = fmt.Errorf("first and last name must not be empty")

type ContactService struct {
	relRepo relationship.Repository
	recRepo outreach.RecommendationRepository
}

func NewContactService(rr relationship.Repository, recr outreach.RecommendationRepository) *ContactService {
	return &ContactService{
		relRepo: rr,
		recRepo: recr,
	}
}

// AddContact validates and stores a new relationship for the acting user.
// The category arrives as its submitted name (friend, family, professional)
// and is parsed strictly.
func (s *ContactService) AddContact(ctx context.Context, actingUserID int64, firstName, lastName, rawCategory string) (*relationship.Relationship, error) {
	firstName = strings.TrimSpace(firstName)
	lastName = strings.TrimSpace(lastName)
	if firstName == "" || lastName == "" {
		return nil, ErrEmptyName
	}

	category, err := relationship.ParseCategory(rawCategory)
	if err != nil {
		return nil, err
	}

	rel := &relationship.Relationship{
		UserID:    actingUserID,
		FirstName: firstName,
		LastName:  lastName,
		Category:  category,
		Methods:   []string{},
	}

	if err := s.relRepo.Create(ctx, rel); err != nil {
		return nil, fmt.Errorf("failed to create relationship in repository: %w", err)
	}

	return rel, nil
}

// ListContacts returns the acting user's contacts ordered by first name.
func (s *ContactService) ListContacts(ctx context.Context, actingUserID int64) ([]*relationship.Relationship, error) {
	rels, err := s.relRepo.ListByUser(ctx, actingUserID)
	if err != nil {
		return nil, fmt.Errorf("failed to list relationships: %w", err)
	}
	return rels, nil
}

// GetContact returns one contact, constrained to the acting user. Contacts
// owned by someone else read as absent.
func (s *ContactService) GetContact(ctx context.Context, actingUserID, relationshipID int64) (*relationship.Relationship, error) {
	rel, err := s.relRepo.GetByID(ctx, relationshipID)
	if err != nil {
		if err == idb.ErrRelationshipNotFound {
			return nil, idb.ErrRelationshipNotFound
		}
		return nil, fmt.Errorf("failed to get relationship: %w", err)
	}

	if rel.UserID != actingUserID {
		return nil, idb.ErrRelationshipNotFound
	}

	return rel, nil
}

// UpdateContact applies a single validated field change to an owned contact
// and echoes the applied update.
func (s *ContactService) UpdateContact(ctx context.Context, actingUserID, relationshipID int64, rawField, rawValue string) (relationship.FieldUpdate, error) {
	upd, err := relationship.NewFieldUpdate(rawField, rawValue)
	if err != nil {
		return relationship.FieldUpdate{}, err
	}

	if _, err := s.GetContact(ctx, actingUserID, relationshipID); err != nil {
		return relationship.FieldUpdate{}, err
	}

	if err := s.relRepo.ApplyFieldUpdate(ctx, relationshipID, upd); err != nil {
		return relationship.FieldUpdate{}, fmt.Errorf("failed to apply field update: %w", err)
	}

	return upd, nil
}

// MethodOptions holds the data behind the method selection step: the
// contact's category and the methods recommended for it.
type MethodOptions struct {
	Category relationship.Category
	Methods  []string
}

// MethodOptions returns the recommended outreach methods for an owned
// contact's category.
func (s *ContactService) MethodOptions(ctx context.Context, actingUserID, relationshipID int64) (*MethodOptions, error) {
	rel, err := s.GetContact(ctx, actingUserID, relationshipID)
	if err != nil {
		return nil, err
	}

	recs, err := s.recRepo.ListByCategory(ctx, rel.Category)
	if err != nil {
		return nil, fmt.Errorf("failed to list recommendations: %w", err)
	}

	opts := &MethodOptions{
		Category: rel.Category,
		Methods:  make([]string, 0, len(recs)),
	}
	for _, rec := range recs {
		opts.Methods = append(opts.Methods, rec.Method)
	}
	return opts, nil
}
