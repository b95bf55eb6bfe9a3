// Package history persists and reads chat turns per (user, agent).
package history

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strings"

	"github.com/startupsetu/setu/internal/db"
	"github.com/startupsetu/setu/internal/db/sqlc"
)

// DefaultRecentLimit is the number of prior turns fed back into a prompt.
const DefaultRecentLimit = 10

// Queries is the subset of sqlc queries the history store needs.
type Queries interface {
	CreateChatHistory(ctx context.Context, arg sqlc.CreateChatHistoryParams) (sqlc.ChatHistory, error)
	ListRecentChatHistory(ctx context.Context, arg sqlc.ListRecentChatHistoryParams) ([]sqlc.ChatHistory, error)
	ListChatHistory(ctx context.Context, arg sqlc.ListChatHistoryParams) ([]sqlc.ChatHistory, error)
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
		logger:  log.With(slog.String("service", "history")),
	}
}

// Append stores one turn.
func (s *Service) Append(ctx context.Context, userID, agentName, userMessage, aiReply string) (Turn, error) {
	pgUser, err := db.ParseUUID(userID)
	if err != nil {
		return Turn{}, err
	}
	agentName = strings.TrimSpace(agentName)
	if agentName == "" {
		return Turn{}, fmt.Errorf("agent name is required")
	}
	row, err := s.queries.CreateChatHistory(ctx, sqlc.CreateChatHistoryParams{
		ID:          db.NewUUID(),
		UserID:      pgUser,
		AgentName:   agentName,
		UserMessage: userMessage,
		AiReply:     aiReply,
	})
	if err != nil {
		return Turn{}, fmt.Errorf("append chat history: %w", err)
	}
	return toTurn(row), nil
}

// Recent returns up to limit of the latest turns for (user, agent), oldest first.
func (s *Service) Recent(ctx context.Context, userID, agentName string, limit int) ([]Turn, error) {
	pgUser, err := db.ParseUUID(userID)
	if err != nil {
		return nil, err
	}
	if limit <= 0 {
		limit = DefaultRecentLimit
	}
	rows, err := s.queries.ListRecentChatHistory(ctx, sqlc.ListRecentChatHistoryParams{
		UserID:    pgUser,
		AgentName: agentName,
		Limit:     int32(limit),
	})
	if err != nil {
		return nil, fmt.Errorf("list recent chat history: %w", err)
	}
	return toTurns(rows), nil
}

// List returns every turn for (user, agent), oldest first.
func (s *Service) List(ctx context.Context, userID, agentName string) ([]Turn, error) {
	pgUser, err := db.ParseUUID(userID)
	if err != nil {
		return nil, err
	}
	rows, err := s.queries.ListChatHistory(ctx, sqlc.ListChatHistoryParams{
		UserID:    pgUser,
		AgentName: agentName,
	})
	if err != nil {
		return nil, fmt.Errorf("list chat history: %w", err)
	}
	return toTurns(rows), nil
}

// toTurns re-sorts by (created_at, id) so ordering does not depend on the driver.
func toTurns(rows []sqlc.ChatHistory) []Turn {
	items := make([]Turn, 0, len(rows))
	for _, row := range rows {
		items = append(items, toTurn(row))
	}
	sort.SliceStable(items, func(i, j int) bool {
		if !items[i].CreatedAt.Equal(items[j].CreatedAt) {
			return items[i].CreatedAt.Before(items[j].CreatedAt)
		}
		return items[i].ID < items[j].ID
	})
	return items
}

func toTurn(row sqlc.ChatHistory) Turn {
	return Turn{
		ID:          db.UUIDToString(row.ID),
		UserID:      db.UUIDToString(row.UserID),
		AgentName:   row.AgentName,
		UserMessage: row.UserMessage,
		AIReply:     row.AiReply,
		CreatedAt:   db.TimeFromPg(row.CreatedAt),
	}
}
