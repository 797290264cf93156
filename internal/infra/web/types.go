package web

import (
	"time"

	"github.com/asysc2020/relationship-manager-project/internal/domain/outreach"
	"github.com/asysc2020/relationship-manager-project/internal/domain/relationship"
	"github.com/asysc2020/relationship-manager-project/internal/domain/user"
)

// APIResponse is the envelope every JSON endpoint answers with.
type APIResponse struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   string      `json:"error,omitempty"`
}

// RegisterRequest creates an account. The facebook id is optional and only
// feeds the lookup flow.
type RegisterRequest struct {
	FacebookID string `json:"facebook_id"`
	FirstName  string `json:"first_name" binding:"required"`
	LastName   string `json:"last_name" binding:"required"`
	Email      string `json:"email" binding:"required"`
	Password   string `json:"password" binding:"required"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type LinkTelegramRequest struct {
	ChatID int64 `json:"chat_id" binding:"required"`
}

// UserSummary is the account view returned after register and login. The
// password hash never leaves the service layer.
type UserSummary struct {
	ID        int64  `json:"id"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Email     string `json:"email"`
}

func newUserSummary(u *user.User) UserSummary {
	return UserSummary{
		ID:        u.ID,
		FirstName: u.FirstName,
		LastName:  u.LastName,
		Email:     u.Email,
	}
}

type LookupResponse struct {
	Registered bool  `json:"registered"`
	UserID     int64 `json:"user_id,omitempty"`
}

// ContactRequest carries the category as its submitted name; name and
// category validation happens in the contact service.
type ContactRequest struct {
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Category  string `json:"category"`
}

type ContactResponse struct {
	ID        int64     `json:"id"`
	FirstName string    `json:"first_name"`
	LastName  string    `json:"last_name"`
	Category  string    `json:"category"`
	Methods   []string  `json:"methods"`
	CreatedAt time.Time `json:"created_at"`
}

func newContactResponse(rel *relationship.Relationship) ContactResponse {
	methods := rel.Methods
	if methods == nil {
		methods = []string{}
	}
	return ContactResponse{
		ID:        rel.ID,
		FirstName: rel.FirstName,
		LastName:  rel.LastName,
		Category:  rel.Category.Label(),
		Methods:   methods,
		CreatedAt: rel.CreatedAt,
	}
}

// ContactUpdateRequest is a single tagged field change; the field name is
// validated against the closed enumeration in the domain layer.
type ContactUpdateRequest struct {
	Field string `json:"field"`
	Value string `json:"value"`
}

// ContactUpdateResponse echoes the applied update. Category values come back
// as their stored code.
type ContactUpdateResponse struct {
	Field string `json:"field"`
	Value string `json:"value"`
}

type MethodOptionsResponse struct {
	Category           string   `json:"category"`
	RecommendedMethods []string `json:"recommended_methods"`
}

// FinalizeMethodsRequest intentionally allows an empty list; it finalizes to
// an empty schedule.
type FinalizeMethodsRequest struct {
	Methods []string `json:"methods"`
}

type ScheduleSummaryResponse struct {
	RelationshipID int64      `json:"relationship_id"`
	Methods        []string   `json:"methods"`
	EventCount     int        `json:"event_count"`
	FirstScheduled *time.Time `json:"first_scheduled_at,omitempty"`
	LastScheduled  *time.Time `json:"last_scheduled_at,omitempty"`
}

type EventResponse struct {
	ID             int64     `json:"id"`
	RelationshipID int64     `json:"relationship_id"`
	ContactName    string    `json:"contact_name"`
	Method         string    `json:"method"`
	ScheduledAt    time.Time `json:"scheduled_at"`
	Notified       bool      `json:"notified"`
}

func newEventResponse(ue *outreach.UserEvent) EventResponse {
	name := ue.ContactFirstName
	if ue.ContactLastName != "" {
		name += " " + ue.ContactLastName
	}
	return EventResponse{
		ID:             ue.ID,
		RelationshipID: ue.RelationshipID,
		ContactName:    name,
		Method:         ue.Method,
		ScheduledAt:    ue.ScheduledAt,
		Notified:       ue.NotifiedAt.Valid,
	}
}

type HealthResponse struct {
	Status    string    `json:"status"`
	Timestamp time.Time `json:"timestamp"`
	Uptime    string    `json:"uptime"`
}
