package modules

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/fx"

	"github.com/startupsetu/setu/internal/boot"
	"github.com/startupsetu/setu/internal/config"
	"github.com/startupsetu/setu/internal/db"
	dbsqlc "github.com/startupsetu/setu/internal/db/sqlc"
	"github.com/startupsetu/setu/internal/llm"
	"github.com/startupsetu/setu/internal/logger"
	"github.com/startupsetu/setu/internal/writes"
)

var InfraModule = fx.Module(
	"infra",
	fx.Provide(
		ProvideConfig,
		provideLogger,
		boot.ProvideRuntimeConfig,
		provideDBConn,
		provideDBQueries,
		provideCompleter,
		provideWriter,
	),
)

// ProvideConfig loads the TOML file named by CONFIG_PATH, or config.toml.
func ProvideConfig() (config.Config, error) {
	cfg, err := config.Load(os.Getenv("CONFIG_PATH"))
	if err != nil {
		return config.Config{}, fmt.Errorf("load config: %w", err)
	}
	return cfg, nil
}

func provideLogger(cfg config.Config) *slog.Logger {
	logger.Init(cfg.Log.Level, cfg.Log.Format)
	return logger.L
}

// DatabaseURL picks url when set and falls back to the discrete postgres fields.
func DatabaseURL(cfg config.Config, url string) string {
	if strings.TrimSpace(url) != "" {
		return url
	}
	return db.DSN(cfg.Postgres)
}

func provideDBConn(lc fx.Lifecycle, cfg config.Config, rc *boot.RuntimeConfig) (*pgxpool.Pool, error) {
	conn, err := db.Open(context.Background(), DatabaseURL(cfg, rc.DatabaseURL))
	if err != nil {
		return nil, fmt.Errorf("db connect: %w", err)
	}
	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			conn.Close()
			return nil
		},
	})
	return conn, nil
}

func provideDBQueries(conn *pgxpool.Pool) *dbsqlc.Queries {
	return dbsqlc.New(conn)
}

func provideCompleter(log *slog.Logger, rc *boot.RuntimeConfig) (llm.Completer, error) {
	completer, err := llm.New(log, rc.LLM)
	if err != nil {
		return nil, fmt.Errorf("completion provider: %w", err)
	}
	return completer, nil
}

// provideWriter drains background writes before the pool closes; fx stops hooks in reverse order.
func provideWriter(lc fx.Lifecycle, log *slog.Logger, cfg config.Config, _ *pgxpool.Pool) *writes.Writer {
	w := writes.NewWriter(log, cfg.Chat.WriteTimeout())
	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			return w.Close(ctx)
		},
	})
	return w
}
