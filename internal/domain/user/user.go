package user

import (
	"database/sql"
	"time"
)

// User represents a registered account in the system.
type User struct {
	ID             int64
	FacebookID     sql.NullString // external identity used by the lookup flow
	FirstName      string
	LastName       string
	Email          string
	PasswordHash   string
	TelegramChatID sql.NullInt64 // optional reminder delivery channel
	CreatedAt      time.Time
	UpdatedAt      time.Time
}
