package user

import (
	"context"
)

// Repository defines the operations for persisting and retrieving User
// entities.
type Repository interface {
	Create(ctx context.Context, u *User) error
	GetByID(ctx context.Context, id int64) (*User, error)
	GetByEmail(ctx context.Context, email string) (*User, error)
	GetByFacebookID(ctx context.Context, facebookID string) (*User, error)
	// SetTelegramChatID links the chat the reminder dispatcher delivers to.
	SetTelegramChatID(ctx context.Context, id int64, chatID int64) error
}
