package notify

import "fmt"

// ErrNoRecipient is returned by notifiers that need a delivery address the
// user has not configured. The dispatcher treats it as a quiet skip, not a
// delivery failure.
var ErrNoRecipient = fmt.Errorf("no recipient channel configured")

// Notifier delivers a reminder message to a user's configured channel.
// This decouples the dispatch logic from the concrete delivery transport.
type Notifier interface {
	Send(recipientChatID int64, text string) error
}
