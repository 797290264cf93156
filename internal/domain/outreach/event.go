package outreach

import (
	"database/sql"
	"time"
)

// Event is one scheduled outreach reminder for a relationship. Events are
// written in bulk when the user finalizes their outreach methods and are
// never modified afterwards, apart from deletion and the dispatcher's
// notified-at stamp.
type Event struct {
	ID             int64
	UserID         int64
	RelationshipID int64
	Method         string
	ScheduledAt    time.Time
	NotifiedAt     sql.NullTime
	CreatedAt      time.Time
}

// UserEvent is an event joined with its contact's name, as shown on the
// event overview and in the calendar feed.
type UserEvent struct {
	Event
	ContactFirstName string
	ContactLastName  string
}

// DueReminder is an event due for dispatch, joined with the contact's name
// and the owning user's delivery channel.
type DueReminder struct {
	Event
	ContactFirstName string
	ContactLastName  string
	TelegramChatID   sql.NullInt64
}
