package main

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/spec-kit/ticket-desk/internal/config"
	"github.com/spec-kit/ticket-desk/internal/observability"
	"github.com/spec-kit/ticket-desk/internal/persistence"
)

// version is overridden at build time with -ldflags "-X main.version=...".
var version string

var (
	rootCmd = &cobra.Command{
		Use:           "ticket-desk",
		Short:         "Support ticket API with AI-assisted triage",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE:          serve,
	}

	migrateCmd = &cobra.Command{
		Use:   "migrate",
		Short: "Apply pending database migrations and exit",
		RunE:  migrate,
	}

	versionCmd = &cobra.Command{
		Use:   "version",
		Short: "Print the ticket-desk version",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintln(cmd.OutOrStdout(), resolveVersion(os.Getenv("APP_VERSION")))
		},
	}
)

func main() {
	rootCmd.AddCommand(migrateCmd, versionCmd)
	if err := rootCmd.Execute(); err != nil {
		log.Fatalf("ticket-desk: %v", err)
	}
}

func resolveVersion(fromEnv string) string {
	if version != "" {
		return version
	}
	if fromEnv != "" {
		return fromEnv
	}
	return "dev"
}

func migrate(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if cfg.Postgres.DSN == "" {
		return fmt.Errorf("POSTGRES_DSN is required to run migrations")
	}

	logger, err := observability.NewLogger(cfg.Logger, cfg.App.Name, cfg.App.Env)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer logger.Sync() //nolint:errcheck

	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	pg, err := persistence.NewPostgres(ctx, cfg.Postgres, logger)
	if err != nil {
		return fmt.Errorf("connect postgres: %w", err)
	}
	defer pg.Close()

	if err := persistence.RunMigrations(ctx, pg.PoolHandle(), logger); err != nil {
		logger.Error("migrations failed", zap.Error(err))
		return err
	}
	return nil
}
