package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/MrJamesThe3rd/billed/internal/auth"
)

type Store struct {
	db *sql.DB
}

func New(db *sql.DB) *Store {
	return &Store{db: db}
}

func (s *Store) UpsertUser(ctx context.Context, user *auth.User) error {
	query := `
		INSERT INTO users (email, type, password_hash, created_at)
		VALUES ($1, $2, $3, NOW())
		ON CONFLICT (email) DO UPDATE SET type = EXCLUDED.type, password_hash = EXCLUDED.password_hash
		RETURNING created_at
	`

	err := s.db.QueryRowContext(ctx, query, user.Email, user.Type, user.PasswordHash).Scan(&user.CreatedAt)
	if err != nil {
		return fmt.Errorf("upserting user: %w", err)
	}

	return nil
}

func (s *Store) GetUserByEmail(ctx context.Context, email string) (*auth.User, error) {
	query := `SELECT email, type, password_hash, created_at FROM users WHERE email = $1`

	var user auth.User

	var typeStr string

	err := s.db.QueryRowContext(ctx, query, email).Scan(&user.Email, &typeStr, &user.PasswordHash, &user.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, auth.ErrUserNotFound
		}

		return nil, fmt.Errorf("getting user: %w", err)
	}

	user.Type = auth.UserType(typeStr)

	return &user, nil
}
