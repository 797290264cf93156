package database

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/asysc2020/relationship-manager-project/internal/domain/user"
)

// Custom errors
var ErrUserNotFound = fmt.Errorf("user not found")
var ErrDuplicateEmail = fmt.Errorf("user with this email already exists")

type PostgresUserRepository struct {
	db *sql.DB
}

func NewPostgresUserRepository(db *sql.DB) *PostgresUserRepository {
	return &PostgresUserRepository{db: db}
}

func (r *PostgresUserRepository) Create(ctx context.Context, u *user.User) error {
	query := `INSERT INTO users (facebook_id, first_name, last_name, email, password_hash)
               VALUES ($1, $2, $3, $4, $5)
               RETURNING id, created_at, updated_at`

	err := r.db.QueryRowContext(ctx, query, u.FacebookID, u.FirstName, u.LastName, u.Email, u.PasswordHash).
		Scan(&u.ID, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		if strings.Contains(err.Error(), "unique constraint") && strings.Contains(err.Error(), "users_email_key") {
			return ErrDuplicateEmail
		}
		return fmt.Errorf("error creating user: %w", err)
	}
	return nil
}

func (r *PostgresUserRepository) GetByID(ctx context.Context, id int64) (*user.User, error) {
	query := `SELECT id, facebook_id, first_name, last_name, email, password_hash, telegram_chat_id, created_at, updated_at
               FROM users WHERE id = $1`
	u := &user.User{}
	err := r.db.QueryRowContext(ctx, query, id).
		Scan(&u.ID, &u.FacebookID, &u.FirstName, &u.LastName, &u.Email, &u.PasswordHash, &u.TelegramChatID, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("error getting user by ID: %w", err)
	}
	return u, nil
}

func (r *PostgresUserRepository) GetByEmail(ctx context.Context, email string) (*user.User, error) {
	query := `SELECT id, facebook_id, first_name, last_name, email, password_hash, telegram_chat_id, created_at, updated_at
               FROM users WHERE email = $1`
	u := &user.User{}
	err := r.db.QueryRowContext(ctx, query, email).
		Scan(&u.ID, &u.FacebookID, &u.FirstName, &u.LastName, &u.Email, &u.PasswordHash, &u.TelegramChatID, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("error getting user by email: %w", err)
	}
	return u, nil
}

func (r *PostgresUserRepository) GetByFacebookID(ctx context.Context, facebookID string) (*user.User, error) {
	query := `SELECT id, facebook_id, first_name, last_name, email, password_hash, telegram_chat_id, created_at, updated_at
               FROM users WHERE facebook_id = $1`
	u := &user.User{}
	err := r.db.QueryRowContext(ctx, query, facebookID).
		Scan(&u.ID, &u.FacebookID, &u.FirstName, &u.LastName, &u.Email, &u.PasswordHash, &u.TelegramChatID, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("error getting user by Facebook ID: %w", err)
	}
	return u, nil
}

func (r *PostgresUserRepository) SetTelegramChatID(ctx context.Context, id int64, chatID int64) error {
	query := `UPDATE users SET telegram_chat_id = $1, updated_at = NOW()
               WHERE id = $2
               RETURNING updated_at`

	var updatedAt time.Time
	err := r.db.QueryRowContext(ctx, query, chatID, id).Scan(&updatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return ErrUserNotFound
		}
		return fmt.Errorf("error setting telegram chat for user: %w", err)
	}
	return nil
}
