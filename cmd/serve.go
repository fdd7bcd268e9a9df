package cmd

import (
	"os/signal"
	"syscall"

	"job_scoring_backend/internal/app"
	"job_scoring_backend/internal/config"
	"job_scoring_backend/pkg/logger"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API",
	RunE:  serve,
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().Bool("migrate", false, "force database migration on start (even in release mode)")
	serveCmd.Flags().Bool("migrate-only", false, "run database migration and exit")
}

func serve(cmd *cobra.Command, _ []string) error {
	cfg, err := config.LoadConfig(configDir)
	if err != nil {
		return err
	}

	migrate, _ := cmd.Flags().GetBool("migrate")
	migrateOnly, _ := cmd.Flags().GetBool("migrate-only")
	cfg.ForceMigrate = migrate || migrateOnly
	cfg.MigrateOnly = migrateOnly

	application, err := app.NewApp(cfg)
	if err != nil {
		return err
	}
	defer logger.Log.Sync()

	// 迁移完成后直接退出
	if migrateOnly {
		logger.Log.Info("Database migration finished, exiting")
		return nil
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := application.Run(ctx, configDir); err != nil {
		logger.Log.Error("Server stopped with error", zap.Error(err))
		return err
	}
	return nil
}
