package app

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"github.com/asysc2020/relationship-manager-project/internal/domain/user"
	idb "github.com/asysc2020/relationship-manager-project/internal/infra/database"
)

// Custom application-level errors for the auth service
var ErrEmailTaken = fmt.Errorf("email is already registered")
var ErrInvalidCredentials = fmt.Errorf("email or password is incorrect")
var ErrInvalidChatID = fmt.Errorf("telegram chat id must be positive")

type AuthService struct {
	userRepo user.Repository
}

func NewAuthService(ur user.Repository) *AuthService {
	return &AuthService{userRepo: ur}
}

// Register creates an account with a bcrypt-hashed password. The email is
// lowercased before storage and lookup so it acts as a case-insensitive key.
func (s *AuthService) Register(ctx context.Context, facebookID, firstName, lastName, email, password string) (*user.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	// Check if the email is already registered
	_, err := s.userRepo.GetByEmail(ctx, email)
	if err == nil {
		return nil, ErrEmailTaken
	}
	if err != idb.ErrUserNotFound {
		return nil, fmt.Errorf("failed to check existing user: %w", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	var fbID sql.NullString
	if facebookID != "" {
		fbID.String = facebookID
		fbID.Valid = true
	}

	newUser := &user.User{
		FacebookID:   fbID,
		FirstName:    firstName,
		LastName:     lastName,
		Email:        email,
		PasswordHash: string(hash),
	}

	if err := s.userRepo.Create(ctx, newUser); err != nil {
		if err == idb.ErrDuplicateEmail { // GetByEmail raced with a concurrent registration
			return nil, ErrEmailTaken
		}
		return nil, fmt.Errorf("failed to create user in repository: %w", err)
	}

	return newUser, nil
}

// Login verifies the credentials and returns the account. Unknown emails and
// wrong passwords are indistinguishable to the caller.
func (s *AuthService) Login(ctx context.Context, email, password string) (*user.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	u, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		if err == idb.ErrUserNotFound {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("failed to get user by email: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	return u, nil
}

// LookupResult reports whether an account matching a lookup query exists.
type LookupResult struct {
	Registered bool
	UserID     int64
}

// Lookup checks registration by email first, then by Facebook ID. Either
// argument may be empty; a fully empty query reports not registered.
func (s *AuthService) Lookup(ctx context.Context, email, facebookID string) (*LookupResult, error) {
	if email != "" {
		u, err := s.userRepo.GetByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
		if err == nil {
			return &LookupResult{Registered: true, UserID: u.ID}, nil
		}
		if err != idb.ErrUserNotFound {
			return nil, fmt.Errorf("failed to look up user by email: %w", err)
		}
	}

	if facebookID != "" {
		u, err := s.userRepo.GetByFacebookID(ctx, facebookID)
		if err == nil {
			return &LookupResult{Registered: true, UserID: u.ID}, nil
		}
		if err != idb.ErrUserNotFound {
			return nil, fmt.Errorf("failed to look up user by facebook id: %w", err)
		}
	}

	return &LookupResult{}, nil
}

// LinkTelegramChat stores the chat the reminder dispatcher delivers to.
func (s *AuthService) LinkTelegramChat(ctx context.Context, actingUserID int64, chatID int64) error {
	if chatID <= 0 {
		return ErrInvalidChatID
	}

	if err := s.userRepo.SetTelegramChatID(ctx, actingUserID, chatID); err != nil {
		if err == idb.ErrUserNotFound {
			return idb.ErrUserNotFound
		}
		return fmt.Errorf("failed to link telegram chat: %w", err)
	}
	return nil
}
