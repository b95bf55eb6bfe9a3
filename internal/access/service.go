// Package access decides whether a user may talk to an agent. Every agent declares
// one gate in the catalog; this package is the only place gates are evaluated.
package access

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5"

	"github.com/startupsetu/setu/internal/agents"
	"github.com/startupsetu/setu/internal/db"
	"github.com/startupsetu/setu/internal/db/sqlc"
	"github.com/startupsetu/setu/internal/subscriptions"
)

// Queries is the subset of sqlc queries the access decision needs. Subscription
// gates go through the subscriptions store; unlock gates read agent_access here.
type Queries interface {
	subscriptions.Queries
	GetAgentAccess(ctx context.Context, arg sqlc.GetAgentAccessParams) (sqlc.AgentAccess, error)
	UpsertAgentAccess(ctx context.Context, arg sqlc.UpsertAgentAccessParams) error
}

// Decision is the outcome of an access check.
type Decision struct {
	Allowed bool
	Agent   agents.Agent
	// UpgradeMessage is set when Allowed is false.
	UpgradeMessage string
}

// Service evaluates agent gates against stored flags.
type Service struct {
	queries       Queries
	subscriptions *subscriptions.Service
	logger        *slog.Logger
}

// NewService creates an access service.
func NewService(log *slog.Logger, queries Queries) *Service {
	if log == nil {
		log = slog.Default()
	}
	return &Service{
		queries:       queries,
		subscriptions: subscriptions.NewService(log, queries),
		logger:        log.With(slog.String("service", "access")),
	}
}

// UpgradeMessage is the reply shown when agent is locked.
func UpgradeMessage(agent agents.Agent) string {
	if agent.Gate == agents.GateUnlock {
		return fmt.Sprintf("Based on your current stage, you need the %s to continue. Please upgrade or unlock access to this agent to proceed.", agent.Name)
	}
	return "This agent requires a premium subscription. Please upgrade to unlock access."
}

// Decide evaluates agent's gate for userID. Missing rows deny. On a lookup error the
// returned decision is a denial and the error is returned alongside it.
func (s *Service) Decide(ctx context.Context, userID string, agent agents.Agent) (Decision, error) {
	allowed, err := s.allowed(ctx, userID, agent)
	d := Decision{Allowed: allowed && err == nil, Agent: agent}
	if !d.Allowed {
		d.UpgradeMessage = UpgradeMessage(agent)
	}
	return d, err
}

func (s *Service) allowed(ctx context.Context, userID string, agent agents.Agent) (bool, error) {
	if agent.Gate == agents.GateFree {
		return true, nil
	}
	pgID, err := db.ParseUUID(userID)
	if err != nil {
		return false, err
	}
	switch agent.Gate {
	case agents.GateUnlock:
		row, err := s.queries.GetAgentAccess(ctx, sqlc.GetAgentAccessParams{UserID: pgID, AgentName: agent.Name})
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return false, nil
			}
			return false, fmt.Errorf("get agent access: %w", err)
		}
		return row.Unlocked, nil
	default:
		return s.subscriptions.IsActive(ctx, userID, string(agent.ID))
	}
}

// Grant opens (or closes) agent for userID through whichever gate the agent declares.
func (s *Service) Grant(ctx context.Context, userID string, agent agents.Agent, allowed bool) error {
	if agent.Gate == agents.GateFree {
		return nil
	}
	pgID, err := db.ParseUUID(userID)
	if err != nil {
		return err
	}
	if agent.Gate == agents.GateUnlock {
		if err := s.queries.UpsertAgentAccess(ctx, sqlc.UpsertAgentAccessParams{
			UserID: pgID, AgentName: agent.Name, Unlocked: allowed,
		}); err != nil {
			return fmt.Errorf("upsert agent access: %w", err)
		}
	} else if err := s.subscriptions.Set(ctx, userID, string(agent.ID), allowed); err != nil {
		return err
	}
	s.logger.Info("agent access changed",
		slog.String("user_id", userID),
		slog.String("agent", string(agent.ID)),
		slog.String("gate", agent.Gate.String()),
		slog.Bool("allowed", allowed),
	)
	return nil
}
