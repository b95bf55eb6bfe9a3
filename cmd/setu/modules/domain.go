package modules

import (
	"log/slog"

	"go.uber.org/fx"

	"github.com/startupsetu/setu/internal/access"
	"github.com/startupsetu/setu/internal/accounts"
	"github.com/startupsetu/setu/internal/chat"
	"github.com/startupsetu/setu/internal/config"
	dbsqlc "github.com/startupsetu/setu/internal/db/sqlc"
	"github.com/startupsetu/setu/internal/history"
	"github.com/startupsetu/setu/internal/llm"
	"github.com/startupsetu/setu/internal/memory"
	"github.com/startupsetu/setu/internal/subscriptions"
	"github.com/startupsetu/setu/internal/users"
	"github.com/startupsetu/setu/internal/writes"
)

var DomainModule = fx.Module(
	"domain",
	fx.Provide(
		provideUsers,
		provideSubscriptions,
		provideAccess,
		provideMemory,
		provideHistory,
		provideAccounts,
		provideChat,
	),
)

func provideUsers(log *slog.Logger, queries *dbsqlc.Queries) *users.Service {
	return users.NewService(log, queries)
}

func provideSubscriptions(log *slog.Logger, queries *dbsqlc.Queries) *subscriptions.Service {
	return subscriptions.NewService(log, queries)
}

func provideAccess(log *slog.Logger, queries *dbsqlc.Queries) *access.Service {
	return access.NewService(log, queries)
}

func provideMemory(log *slog.Logger, queries *dbsqlc.Queries) *memory.Service {
	return memory.NewService(log, queries)
}

func provideHistory(log *slog.Logger, queries *dbsqlc.Queries) *history.Service {
	return history.NewService(log, queries)
}

func provideAccounts(log *slog.Logger, userService *users.Service, subs *subscriptions.Service, writer *writes.Writer) *accounts.Service {
	return accounts.NewService(log, userService, subs, writer)
}

func provideChat(
	log *slog.Logger,
	cfg config.Config,
	accessService *access.Service,
	memoryService *memory.Service,
	historyService *history.Service,
	completer llm.Completer,
	writer *writes.Writer,
) *chat.Service {
	return chat.NewService(log, accessService, memoryService, historyService, completer, writer, cfg.Chat.HistoryWindow)
}
