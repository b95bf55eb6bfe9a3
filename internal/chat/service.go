// Package chat runs one chat turn: validate, authorize, build context, generate,
// persist, then extract profile updates from the user's message.
package chat

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/startupsetu/setu/internal/access"
	"github.com/startupsetu/setu/internal/agents"
	"github.com/startupsetu/setu/internal/history"
	"github.com/startupsetu/setu/internal/llm"
	"github.com/startupsetu/setu/internal/logger"
	"github.com/startupsetu/setu/internal/memory"
	"github.com/startupsetu/setu/internal/writes"
)

// AccessDecider evaluates an agent's gate for a user.
type AccessDecider interface {
	Decide(ctx context.Context, userID string, agent agents.Agent) (access.Decision, error)
}

// MemoryStore reads and partially updates the startup profile.
type MemoryStore interface {
	Get(ctx context.Context, userID string) (memory.StartupMemory, bool, error)
	Upsert(ctx context.Context, userID string, upd memory.Update) error
}

// HistoryStore reads and appends chat turns.
type HistoryStore interface {
	Recent(ctx context.Context, userID, agentName string, limit int) ([]history.Turn, error)
	Append(ctx context.Context, userID, agentName, userMessage, aiReply string) (history.Turn, error)
}

var (
	opAppendHistory = writes.Op{Name: "history.append", Policy: writes.Background}
	opUpsertMemory  = writes.Op{Name: "memory.upsert", Policy: writes.Background}
)

// Service orchestrates chat turns.
type Service struct {
	access        AccessDecider
	memory        MemoryStore
	history       HistoryStore
	completer     llm.Completer
	writer        *writes.Writer
	historyWindow int
	logger        *slog.Logger
}

// NewService creates the chat orchestrator. historyWindow <= 0 uses history.DefaultRecentLimit.
func NewService(log *slog.Logger, decider AccessDecider, mem MemoryStore, hist HistoryStore, completer llm.Completer, writer *writes.Writer, historyWindow int) *Service {
	if log == nil {
		log = slog.Default()
	}
	if historyWindow <= 0 {
		historyWindow = history.DefaultRecentLimit
	}
	return &Service{
		access:        decider,
		memory:        mem,
		history:       hist,
		completer:     completer,
		writer:        writer,
		historyWindow: historyWindow,
		logger:        log.With(slog.String("service", "chat")),
	}
}

// Chat runs one turn. Validation problems come back as *ValidationError; a locked agent
// is a normal response with UpgradeRequired set.
func (s *Service) Chat(ctx context.Context, req ChatRequest) (ChatResponse, error) {
	if problems := ValidateRequest(req); len(problems) > 0 {
		return ChatResponse{}, &ValidationError{Problems: problems}
	}
	log := s.logger
	if scoped := logger.FromContext(ctx); scoped != logger.L {
		log = scoped.With(slog.String("service", "chat"))
	}
	log = log.With(slog.String("user_id", req.UserID), slog.String("session_id", req.SessionID))

	agent := agents.Resolve(req.PreferredAgent)
	decision, err := s.access.Decide(ctx, req.UserID, agent)
	if err != nil {
		log.Warn("access lookup failed; treating as locked", slog.String("agent", string(agent.ID)), slog.Any("error", err))
		decision = access.Decision{Agent: agent, UpgradeMessage: access.UpgradeMessage(agent)}
	}
	if !decision.Allowed {
		return ChatResponse{
			Reply:           decision.UpgradeMessage,
			Agent:           agent.Name,
			UpgradeRequired: true,
		}, nil
	}

	stored, _, err := s.memory.Get(ctx, req.UserID)
	if err != nil {
		log.Warn("memory fetch failed; continuing without profile", slog.Any("error", err))
		stored = memory.StartupMemory{}
	}
	turns, err := s.history.Recent(ctx, req.UserID, string(agent.ID), s.historyWindow)
	if err != nil {
		log.Warn("history fetch failed; continuing without context", slog.Any("error", err))
		turns = nil
	}

	messages := make([]llm.Message, 0, 2*len(turns)+2)
	messages = append(messages, llm.Message{Role: llm.RoleSystem, Content: agents.BuildSystemPrompt(agent, &stored, turns)})
	for _, t := range turns {
		messages = append(messages,
			llm.Message{Role: llm.RoleUser, Content: t.UserMessage},
			llm.Message{Role: llm.RoleAssistant, Content: t.AIReply},
		)
	}
	messages = append(messages, llm.Message{Role: llm.RoleUser, Content: req.Message})

	reply, err := s.completer.Generate(ctx, messages)
	if err != nil {
		return ChatResponse{}, fmt.Errorf("%w: %w", ErrGeneration, err)
	}

	userID, agentKey, userMessage := req.UserID, string(agent.ID), req.Message
	_ = s.writer.Do(ctx, opAppendHistory, func(ctx context.Context) error {
		_, err := s.history.Append(ctx, userID, agentKey, userMessage, reply)
		return err
	})

	if extracted, ok := memory.Extract(req.Message); ok {
		if changed := memory.Diff(stored, extracted); len(changed) > 0 {
			_ = s.writer.Do(ctx, opUpsertMemory, func(ctx context.Context) error {
				return s.memory.Upsert(ctx, userID, changed)
			})
		}
	}

	return ChatResponse{Reply: reply, Agent: agent.Name}, nil
}
