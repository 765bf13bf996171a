package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"golang.org/x/crypto/bcrypt"
)

var (
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrUserNotFound       = errors.New("user not found")
	ErrInvalidUserType    = errors.New("invalid user type")
)

// UserStorage is the persistence the authenticator needs.
type UserStorage interface {
	UpsertUser(ctx context.Context, user *User) error
	GetUserByEmail(ctx context.Context, email string) (*User, error)
}

// Service checks passwords with bcrypt and issues tokens.
type Service struct {
	users UserStorage
	jwt   *JWTManager
}

func NewService(users UserStorage, jwtManager *JWTManager) *Service {
	return &Service{users: users, jwt: jwtManager}
}

// Login verifies the credentials and returns the user with a fresh token.
func (s *Service) Login(ctx context.Context, email, password string) (*User, string, error) {
	user, err := s.users.GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return nil, "", ErrInvalidCredentials
		}

		return nil, "", fmt.Errorf("getting user: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, "", ErrInvalidCredentials
	}

	token, err := s.jwt.Generate(user)
	if err != nil {
		return nil, "", err
	}

	return user, token, nil
}

// Ensure creates or resets the user with the given password.
func (s *Service) Ensure(ctx context.Context, email, password string, userType UserType) error {
	if !userType.Valid() {
		return fmt.Errorf("%w: %q", ErrInvalidUserType, userType)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hashing password: %w", err)
	}

	if err := s.users.UpsertUser(ctx, &User{Email: email, Type: userType, PasswordHash: string(hash)}); err != nil {
		return err
	}

	slog.Info("user ensured", "email", email, "type", userType)

	return nil
}

func (s *Service) Validate(token string) (*Claims, error) {
	return s.jwt.Validate(token)
}
