package relationship

import (
	"fmt"
	"strings"
)

// UpdateField enumerates the relationship fields that may be changed after
// creation. Edits arrive from the contact profile as (field, value) pairs;
// anything outside this enumeration is rejected before it reaches storage.
type UpdateField string

const (
	UpdateFirstName UpdateField = "first_name"
	UpdateLastName  UpdateField = "last_name"
	UpdateCategory  UpdateField = "category"
)

var (
	ErrUnknownUpdateField = fmt.Errorf("field is not updatable")
	ErrEmptyUpdateValue   = fmt.Errorf("update value must not be empty")
)

// ParseUpdateField maps a submitted field name onto the closed enumeration.
func ParseUpdateField(raw string) (UpdateField, error) {
	switch UpdateField(raw) {
	case UpdateFirstName, UpdateLastName, UpdateCategory:
		return UpdateField(raw), nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownUpdateField, raw)
	}
}

// FieldUpdate is a validated single-field change request for a relationship.
// Category updates carry the stored category code in Value.
type FieldUpdate struct {
	Field UpdateField
	Value string
}

// NewFieldUpdate validates raw (field, value) input into a FieldUpdate.
// Name values must be non-empty after trimming; category values are parsed
// strictly and normalized to their stored code.
func NewFieldUpdate(rawField, rawValue string) (FieldUpdate, error) {
	field, err := ParseUpdateField(rawField)
	if err != nil {
		return FieldUpdate{}, err
	}

	value := strings.TrimSpace(rawValue)
	if value == "" {
		return FieldUpdate{}, ErrEmptyUpdateValue
	}

	if field == UpdateCategory {
		category, err := ParseCategory(value)
		if err != nil {
			return FieldUpdate{}, err
		}
		value = string(category)
	}

	return FieldUpdate{Field: field, Value: value}, nil
}
