package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"go.uber.org/fx"

	"github.com/startupsetu/setu/cmd/setu/modules"
	setudb "github.com/startupsetu/setu/db"
	"github.com/startupsetu/setu/internal/access"
	"github.com/startupsetu/setu/internal/agents"
	"github.com/startupsetu/setu/internal/boot"
	"github.com/startupsetu/setu/internal/db"
	dbsqlc "github.com/startupsetu/setu/internal/db/sqlc"
	"github.com/startupsetu/setu/internal/logger"
	"github.com/startupsetu/setu/internal/users"
	"github.com/startupsetu/setu/internal/version"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var configPath string
	root := &cobra.Command{
		Use:           "setu",
		Short:         "Startup Setu chat backend",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
				return fmt.Errorf("load .env: %w", err)
			}
			if configPath != "" {
				return os.Setenv("CONFIG_PATH", configPath)
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe()
		},
	}
	root.PersistentFlags().StringVarP(&configPath, "config", "c", "", "path to config.toml (default $CONFIG_PATH or ./config.toml)")

	root.AddCommand(
		&cobra.Command{
			Use:   "serve",
			Short: "Run the HTTP API",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				return runServe()
			},
		},
		newMigrateCmd(),
		newGrantCmd(),
		newVersionCmd(),
	)
	return root
}

func runServe() error {
	app := fx.New(
		modules.InfraModule,
		modules.DomainModule,
		modules.ServerModule,
		modules.Logger,
	)
	if err := app.Err(); err != nil {
		return err
	}
	app.Run()
	return nil
}

// cliRuntime loads config and logging for one-shot commands that do not start fx.
func cliRuntime() (*slog.Logger, string, error) {
	cfg, err := modules.ProvideConfig()
	if err != nil {
		return nil, "", err
	}
	logger.Init(cfg.Log.Level, cfg.Log.Format)
	return logger.L, modules.DatabaseURL(cfg, boot.ResolveDatabaseURL(cfg)), nil
}

func newMigrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:       "migrate <up|down|version|force N>",
		Short:     "Apply or inspect database migrations",
		Args:      cobra.MinimumNArgs(1),
		ValidArgs: []string{"up", "down", "version", "force"},
		RunE: func(cmd *cobra.Command, args []string) error {
			log, dsn, err := cliRuntime()
			if err != nil {
				return err
			}
			migrations, err := setudb.Migrations()
			if err != nil {
				return fmt.Errorf("load migrations: %w", err)
			}
			return db.RunMigrate(log, dsn, migrations, args[0], args[1:])
		},
	}
}

func newGrantCmd() *cobra.Command {
	var revoke bool
	cmd := &cobra.Command{
		Use:   "grant <user_id> <agent>",
		Short: "Activate (or with --revoke, deactivate) a premium agent for a user",
		Long: "Grant access to an agent by ID or display name. Subscription agents flip the subscription row;\n" +
			"unlock agents flip the per-agent unlock row.",
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			log, dsn, err := cliRuntime()
			if err != nil {
				return err
			}
			agent, ok := agents.Lookup(args[1])
			if !ok {
				known := make([]string, 0, len(agents.All()))
				for _, a := range agents.All() {
					known = append(known, string(a.ID))
				}
				return fmt.Errorf("unknown agent %q (known: %s)", args[1], strings.Join(known, ", "))
			}
			if agent.Gate == agents.GateFree {
				return fmt.Errorf("%s is free for every user", agent.Name)
			}

			ctx, cancel := context.WithTimeout(cmd.Context(), 30*time.Second)
			defer cancel()
			pool, err := db.Open(ctx, dsn)
			if err != nil {
				return fmt.Errorf("db connect: %w", err)
			}
			defer pool.Close()

			queries := dbsqlc.New(pool)
			userID := strings.TrimSpace(args[0])
			if _, found, err := users.NewService(log, queries).Get(ctx, userID); err != nil {
				return err
			} else if !found {
				return fmt.Errorf("no user with id %s", userID)
			}
			if err := access.NewService(log, queries).Grant(ctx, userID, agent, !revoke); err != nil {
				return err
			}
			verb := "granted"
			if revoke {
				verb = "revoked"
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s %s (%s) for %s\n", verb, agent.Name, agent.Gate, args[0])
			return nil
		},
	}
	cmd.Flags().BoolVar(&revoke, "revoke", false, "deactivate instead of activate")
	return cmd
}

func newVersionCmd() *cobra.Command {
	var asJSON bool
	cmd := &cobra.Command{
		Use:   "version",
		Short: "Print build information",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			info := version.Get()
			if asJSON {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(info)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "setu %s %s\n", info, info.GoVersion)
			return nil
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "print as JSON")
	return cmd
}
