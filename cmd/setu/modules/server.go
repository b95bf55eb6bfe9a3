package modules

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"go.uber.org/fx"
	"go.uber.org/fx/fxevent"

	"github.com/startupsetu/setu/internal/accounts"
	"github.com/startupsetu/setu/internal/boot"
	"github.com/startupsetu/setu/internal/config"
	"github.com/startupsetu/setu/internal/handlers"
	"github.com/startupsetu/setu/internal/server"
	"github.com/startupsetu/setu/internal/version"
)

var ServerModule = fx.Module(
	"server",
	fx.Provide(
		provideServerHandler(handlers.NewPingHandler),
		provideServerHandler(provideAuthHandler),
		provideServerHandler(handlers.NewChatHandler),
		provideServerHandler(handlers.NewHistoryHandler),
		provideServerHandler(handlers.NewSwaggerHandler),
		provideServer,
	),
	fx.Invoke(startServer),
)

// Logger routes fx lifecycle events through slog.
var Logger = fx.WithLogger(func(log *slog.Logger) fxevent.Logger {
	return &fxevent.SlogLogger{Logger: log.With(slog.String("component", "fx"))}
})

func provideServerHandler(fn any) any {
	return fx.Annotate(
		fn,
		fx.As(new(server.Handler)),
		fx.ResultTags(`group:"server_handlers"`),
	)
}

func provideAuthHandler(log *slog.Logger, accountService *accounts.Service, rc *boot.RuntimeConfig, cfg config.Config) *handlers.AuthHandler {
	return handlers.NewAuthHandler(log, accountService, handlers.AuthOptions{
		JWTSecret:  rc.JwtSecret,
		ExpiresIn:  rc.JwtExpiresIn,
		LoginRate:  cfg.Auth.LoginRate,
		LoginBurst: cfg.Auth.LoginBurst,
	})
}

type serverParams struct {
	fx.In

	Logger         *slog.Logger
	RuntimeConfig  *boot.RuntimeConfig
	Config         config.Config
	ServerHandlers []server.Handler `group:"server_handlers"`
}

func provideServer(params serverParams) *server.Server {
	return server.NewServer(params.Logger, params.RuntimeConfig.ServerAddr, params.RuntimeConfig.JwtSecret, server.Options{
		CORSOrigins: params.Config.Server.CORSOrigins,
		BodyLimit:   params.Config.Server.BodyLimit,
	}, params.ServerHandlers...)
}

func startServer(lc fx.Lifecycle, logger *slog.Logger, srv *server.Server, shutdowner fx.Shutdowner) {
	logger.Info("starting setu", slog.String("version", version.GetInfo()))

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			go func() {
				if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					logger.Error("server failed", slog.Any("error", err))
					_ = shutdowner.Shutdown()
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			if err := srv.Stop(ctx); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return fmt.Errorf("server stop: %w", err)
			}
			return nil
		},
	})
}
