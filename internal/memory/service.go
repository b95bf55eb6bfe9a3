// Package memory stores the founder's startup profile and extracts profile updates from chat messages.
package memory

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/startupsetu/setu/internal/db"
	"github.com/startupsetu/setu/internal/db/sqlc"
)

// Queries is the subset of sqlc queries the memory store needs.
type Queries interface {
	GetStartupMemory(ctx context.Context, userID pgtype.UUID) (sqlc.StartupMemory, error)
	UpsertStartupMemory(ctx context.Context, arg sqlc.UpsertStartupMemoryParams) error
}

// Service reads and writes startup_memory rows.
type Service struct {
	queries Queries
	logger  *slog.Logger
}

// NewService creates a memory service.
func NewService(log *slog.Logger, queries Queries) *Service {
	if log == nil {
		log = slog.Default()
	}
	return &Service{
		queries: queries,
		logger:  log.With(slog.String("service", "memory")),
	}
}

// Get returns the user's profile. A missing row is reported as ok=false with a nil error.
func (s *Service) Get(ctx context.Context, userID string) (StartupMemory, bool, error) {
	pgID, err := db.ParseUUID(userID)
	if err != nil {
		return StartupMemory{}, false, err
	}
	row, err := s.queries.GetStartupMemory(ctx, pgID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return StartupMemory{}, false, nil
		}
		return StartupMemory{}, false, fmt.Errorf("get startup memory: %w", err)
	}
	return StartupMemory{
		Idea:     db.TextToString(row.Idea),
		Stage:    db.TextToString(row.Stage),
		Industry: db.TextToString(row.Industry),
		Problem:  db.TextToString(row.Problem),
		Solution: db.TextToString(row.Solution),
	}, true, nil
}

// Upsert writes only the fields present in upd; other stored columns are left untouched.
func (s *Service) Upsert(ctx context.Context, userID string, upd Update) error {
	if len(upd) == 0 {
		return nil
	}
	pgID, err := db.ParseUUID(userID)
	if err != nil {
		return err
	}
	params := sqlc.UpsertStartupMemoryParams{UserID: pgID}
	for f, v := range upd {
		switch f {
		case FieldIdea:
			params.Idea = db.Text(v)
		case FieldStage:
			params.Stage = db.Text(v)
		case FieldIndustry:
			params.Industry = db.Text(v)
		case FieldProblem:
			params.Problem = db.Text(v)
		case FieldSolution:
			params.Solution = db.Text(v)
		default:
			return fmt.Errorf("unknown memory field %q", f)
		}
	}
	if err := s.queries.UpsertStartupMemory(ctx, params); err != nil {
		return fmt.Errorf("upsert startup memory: %w", err)
	}
	s.logger.Debug("startup memory updated", slog.String("user_id", userID), slog.Int("fields", len(upd)))
	return nil
}
