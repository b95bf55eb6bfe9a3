// Package subscriptions manages per-agent subscription flags.
package subscriptions

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/startupsetu/setu/internal/agents"
	"github.com/startupsetu/setu/internal/db"
	"github.com/startupsetu/setu/internal/db/sqlc"
)

// Queries is the subset of sqlc queries the subscription store needs.
type Queries interface {
	CreateSubscription(ctx context.Context, arg sqlc.CreateSubscriptionParams) error
	UpsertSubscription(ctx context.Context, arg sqlc.UpsertSubscriptionParams) error
	GetSubscription(ctx context.Context, arg sqlc.GetSubscriptionParams) (sqlc.Subscription, error)
	ListSubscriptionsByUser(ctx context.Context, userID pgtype.UUID) ([]sqlc.Subscription, error)
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
		logger:  log.With(slog.String("service", "subscriptions")),
	}
}

// GrantFree inserts the active free-agent row for a new user. An existing row is left as is.
func (s *Service) GrantFree(ctx context.Context, userID string) error {
	pgID, err := db.ParseUUID(userID)
	if err != nil {
		return err
	}
	if err := s.queries.CreateSubscription(ctx, sqlc.CreateSubscriptionParams{
		UserID:   pgID,
		AgentID:  string(agents.FreeAgent),
		IsActive: true,
	}); err != nil {
		return fmt.Errorf("grant free subscription: %w", err)
	}
	return nil
}

// EnsureFree (re)marks the free-agent row active. Safe to call on every login.
func (s *Service) EnsureFree(ctx context.Context, userID string) error {
	return s.Set(ctx, userID, string(agents.FreeAgent), true)
}

// Set upserts the subscription flag for (user, agent).
func (s *Service) Set(ctx context.Context, userID, agentID string, active bool) error {
	pgID, err := db.ParseUUID(userID)
	if err != nil {
		return err
	}
	if err := s.queries.UpsertSubscription(ctx, sqlc.UpsertSubscriptionParams{
		UserID:   pgID,
		AgentID:  agentID,
		IsActive: active,
	}); err != nil {
		return fmt.Errorf("upsert subscription: %w", err)
	}
	return nil
}

// IsActive reports whether (user, agent) has an active row. A missing row is inactive.
func (s *Service) IsActive(ctx context.Context, userID, agentID string) (bool, error) {
	pgID, err := db.ParseUUID(userID)
	if err != nil {
		return false, err
	}
	row, err := s.queries.GetSubscription(ctx, sqlc.GetSubscriptionParams{UserID: pgID, AgentID: agentID})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return false, nil
		}
		return false, fmt.Errorf("get subscription: %w", err)
	}
	return row.IsActive, nil
}

// ActiveAgents lists the agent IDs with an active row. Inactive rows are left out, never reported as false.
func (s *Service) ActiveAgents(ctx context.Context, userID string) (map[string]bool, error) {
	pgID, err := db.ParseUUID(userID)
	if err != nil {
		return nil, err
	}
	rows, err := s.queries.ListSubscriptionsByUser(ctx, pgID)
	if err != nil {
		return nil, fmt.Errorf("list subscriptions: %w", err)
	}
	out := make(map[string]bool, len(rows))
	for _, row := range rows {
		if row.IsActive {
			out[row.AgentID] = true
		}
	}
	return out, nil
}
