package relationship

import (
	"fmt"
	"time"
)

// Category classifies a relationship and drives its outreach cadence.
// The short codes are the stored representation.
type Category string

const (
	CategoryFriend       Category = "fr"
	CategoryFamily       Category = "fam"
	CategoryProfessional Category = "prf"
)

var ErrUnknownCategory = fmt.Errorf("unknown relationship category")

// ParseCategory maps a submitted category name onto its stored code.
// Only the three known names are accepted.
func ParseCategory(raw string) (Category, error) {
	switch raw {
	case "friend":
		return CategoryFriend, nil
	case "family":
		return CategoryFamily, nil
	case "professional":
		return CategoryProfessional, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownCategory, raw)
	}
}

// IsValid reports whether c is one of the three stored category codes.
func (c Category) IsValid() bool {
	switch c {
	case CategoryFriend, CategoryFamily, CategoryProfessional:
		return true
	}
	return false
}

// Label returns the human-readable category name shown to users.
func (c Category) Label() string {
	switch c {
	case CategoryFriend:
		return "friend"
	case CategoryFamily:
		return "family"
	case CategoryProfessional:
		return "professional"
	default:
		return string(c)
	}
}

// Relationship is a contact tracked by a user, categorized as friend,
// family, or professional. Methods holds the outreach methods chosen when
// the user finalized the contact's reminder schedule; it stays empty until
// then.
type Relationship struct {
	ID        int64
	UserID    int64
	FirstName string
	LastName  string
	Category  Category
	Methods   []string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// FullName joins the contact's first and last name for display.
func (r *Relationship) FullName() string {
	if r.LastName == "" {
		return r.FirstName
	}
	return r.FirstName + " " + r.LastName
}
