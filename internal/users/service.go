// Package users stores user rows keyed by email.
package users

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/startupsetu/setu/internal/db"
	"github.com/startupsetu/setu/internal/db/sqlc"
)

// ErrEmailTaken is returned when a user with the same email already exists.
var ErrEmailTaken = errors.New("email already registered")

// Queries is the subset of sqlc queries the user store needs.
type Queries interface {
	GetUserByEmail(ctx context.Context, email string) (sqlc.User, error)
	GetUserByID(ctx context.Context, id pgtype.UUID) (sqlc.User, error)
	CreateUser(ctx context.Context, arg sqlc.CreateUserParams) (sqlc.User, error)
}

type Service struct {
	queries Queries
	logger  *slog.Logger
}

func NewService(log *slog.Logger, queries Queries) *Service {
	if log == nil {
		log = slog.Default()
	}
	return &Service{
		queries: queries,
		logger:  log.With(slog.String("service", "users")),
	}
}

// NormalizeEmail trims surrounding whitespace. Case is kept: emails are unique as stored.
func NormalizeEmail(email string) string {
	return strings.TrimSpace(email)
}

// GetByEmail returns the user with email. ok is false when no such user exists.
func (s *Service) GetByEmail(ctx context.Context, email string) (User, bool, error) {
	row, err := s.queries.GetUserByEmail(ctx, NormalizeEmail(email))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return User{}, false, nil
		}
		return User{}, false, fmt.Errorf("get user by email: %w", err)
	}
	return toUser(row), true, nil
}

// Get returns the user by id. ok is false when no such user exists.
func (s *Service) Get(ctx context.Context, userID string) (User, bool, error) {
	pgID, err := db.ParseUUID(userID)
	if err != nil {
		return User{}, false, err
	}
	row, err := s.queries.GetUserByID(ctx, pgID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return User{}, false, nil
		}
		return User{}, false, fmt.Errorf("get user: %w", err)
	}
	return toUser(row), true, nil
}

// Create inserts a user. A unique violation on email maps to ErrEmailTaken.
func (s *Service) Create(ctx context.Context, email, passwordHash string) (User, error) {
	email = NormalizeEmail(email)
	if email == "" {
		return User{}, fmt.Errorf("email is required")
	}
	hash := pgtype.Text{}
	if passwordHash != "" {
		hash = db.Text(passwordHash)
	}
	row, err := s.queries.CreateUser(ctx, sqlc.CreateUserParams{
		ID:           db.NewUUID(),
		Email:        email,
		PasswordHash: hash,
	})
	if err != nil {
		if db.IsUniqueViolation(err) {
			return User{}, ErrEmailTaken
		}
		return User{}, fmt.Errorf("create user: %w", err)
	}
	s.logger.Info("user created", slog.String("user_id", db.UUIDToString(row.ID)))
	return toUser(row), nil
}

func toUser(row sqlc.User) User {
	return User{
		ID:           db.UUIDToString(row.ID),
		Email:        row.Email,
		PasswordHash: db.TextToString(row.PasswordHash),
		CreatedAt:    db.TimeFromPg(row.CreatedAt),
	}
}
