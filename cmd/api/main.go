package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"collabhub/internal/common"
	"collabhub/internal/config"
	"collabhub/internal/database"
	"collabhub/internal/domain/telegram"
	"collabhub/internal/observability"
	"collabhub/internal/repository/postgres"
)

func main() {
	if err := rootCommand().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func rootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:           "collabhub-api",
		Short:         "Role matching and invitation backend",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return serve(cmd.Context())
		},
	}
	root.AddCommand(serveCommand(), migrateCommand(), telegramCommand())
	return root
}

func serveCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return serve(cmd.Context())
		},
	}
}

// bootstrap loads configuration and builds the logger shared by every command.
func bootstrap() (*config.Config, *zap.Logger, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, err
	}
	logger, err := observability.NewLogger(cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		return nil, nil, fmt.Errorf("init logger: %w", err)
	}
	return cfg, logger, nil
}

func migrateCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Apply or roll back database migrations",
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "up",
		Short: "Apply all pending migrations",
		RunE: func(*cobra.Command, []string) error {
			cfg, logger, err := bootstrap()
			if err != nil {
				return err
			}
			defer func() { _ = logger.Sync() }()
			if cfg.PostgresDSN == "" {
				return errors.New("DATABASE_URL is required for migrations")
			}
			return database.MigrateUp(cfg.PostgresDSN, logger)
		},
	})
	var steps int
	down := &cobra.Command{
		Use:   "down",
		Short: "Roll back migrations",
		RunE: func(*cobra.Command, []string) error {
			cfg, logger, err := bootstrap()
			if err != nil {
				return err
			}
			defer func() { _ = logger.Sync() }()
			if cfg.PostgresDSN == "" {
				return errors.New("DATABASE_URL is required for migrations")
			}
			return database.MigrateDown(cfg.PostgresDSN, steps, logger)
		},
	}
	down.Flags().IntVar(&steps, "steps", 1, "number of migrations to roll back")
	cmd.AddCommand(down)
	return cmd
}

// telegramCommand links a user to the chat that receives their notifications.
// Chat ids are confirmed out of band by the bot operator.
func telegramCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "telegram",
		Short: "Manage Telegram notification links",
	}
	link := &cobra.Command{
		Use:   "link <user-id> <chat-id>",
		Short: "Deliver a user's notifications to a Telegram chat",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			userID, err := common.ParseUUID(args[0])
			if err != nil {
				return fmt.Errorf("invalid user id: %w", err)
			}
			chatID, err := strconv.ParseInt(args[1], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid chat id: %w", err)
			}
			cfg, logger, err := bootstrap()
			if err != nil {
				return err
			}
			defer func() { _ = logger.Sync() }()
			if cfg.PostgresDSN == "" {
				return errors.New("DATABASE_URL is required to store telegram links")
			}
			ctx, cancel := context.WithTimeout(cmd.Context(), cfg.DBConnectWait)
			defer cancel()
			db, err := database.NewPostgres(ctx, postgresConfig(cfg), logger)
			if err != nil {
				return err
			}
			defer db.Close()
			repo := postgres.NewTelegramLinkRepository(db)
			if err := repo.Link(ctx, telegram.Link{UserID: userID, ChatID: chatID, VerifiedAt: time.Now().UTC()}); err != nil {
				return err
			}
			logger.Info("telegram chat linked", zap.String("user_id", userID.String()), zap.Int64("chat_id", chatID))
			return nil
		},
	}
	cmd.AddCommand(link)
	return cmd
}

func postgresConfig(cfg *config.Config) database.PostgresConfig {
	return database.PostgresConfig{
		DSN:             cfg.PostgresDSN,
		MaxOpenConns:    cfg.DBMaxOpenConns,
		MaxIdleConns:    cfg.DBMaxIdleConns,
		ConnMaxIdle:     cfg.DBConnMaxIdle,
		ConnMaxLifetime: cfg.DBConnMaxLife,
		ConnectTimeout:  cfg.DBConnectWait,
	}
}
