package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"print-order-bot/internal/activity"
	"print-order-bot/internal/catalog"
	"print-order-bot/internal/drive"
	"print-order-bot/internal/file"
	"print-order-bot/internal/order"
	"print-order-bot/internal/pkg"
	"print-order-bot/internal/pkg/config"
	"print-order-bot/internal/reconciler"
	"print-order-bot/internal/telegram"
	"syscall"
	"time"

	"github.com/jackc/pgx"
	"github.com/spf13/cobra"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		slog.Error("Fatal error", "error", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "print-order-bot",
		Short:         "Telegram bot that collects print orders into Google Drive",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE:          runServe,
	}
	root.PersistentFlags().String("config", "config.yaml", "Path to the YAML config file.")
	root.AddCommand(newServeCmd(), newLogCmd())
	return root
}

// newServeCmd is the explicit form of running the binary without a command.
func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the bot with long polling",
		Args:  cobra.NoArgs,
		RunE:  runServe,
	}
}

func runServe(cmd *cobra.Command, args []string) error {
	path, err := cmd.Flags().GetString("config")
	if err != nil {
		return err
	}
	return serve(cmd.Context(), path)
}

func serve(parent context.Context, configPath string) error {
	ctx, cancel := signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
	defer cancel()

	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	messages, err := catalog.Load(cfg.Catalog.Path)
	if err != nil {
		return err
	}

	activityLog := activity.NewLogger(cfg.Activity.Path)

	uploader, err := drive.NewUploader(ctx, &cfg.Google)
	if err != nil {
		return err
	}

	var repo order.Repo = order.NopRepo{}
	if cfg.Archive.Enabled {
		conn, err := pgx.Connect(pgx.ConnConfig{
			Host:     cfg.Archive.Host,
			Port:     cfg.Archive.Port,
			User:     cfg.Archive.Username,
			Password: cfg.Archive.Password,
			Database: cfg.Archive.Database,
		})
		if err != nil {
			return fmt.Errorf("failed to connect to order archive: %w", err)
		}
		defer func() {
			if err := conn.Close(); err != nil {
				slog.Error("Failed to close order archive connection", "error", err)
			}
		}()
		repo = order.NewDefaultRepo(conn)
		if err := repo.EnsureSchema(ctx); err != nil {
			return err
		}
	}

	fileService := file.NewDefaultService(nil, &cfg.FileService)
	orderService := order.NewDefaultService(fileService, uploader, repo)

	bot, err := telegram.NewBot(telegram.Deps{
		OrderService: orderService,
		Catalog:      messages,
		Activity:     activityLog,
		Formats:      cfg.Formats,
		Now:          time.Now,
	}, &cfg.TelegramCfg)
	if err != nil {
		return err
	}
	fileService.SetDownloader(file.NewTelegramDownloader(bot.API(), pkg.HTTPClient))
	bot.Start(ctx)

	reconcilerService := reconciler.NewDefaultService(fileService, &cfg.Reconciler)
	if err := reconcilerService.Start(ctx); err != nil {
		return err
	}

	<-ctx.Done()
	slog.Info("Shutting down...")
	shutdownCtx, shutdown := context.WithTimeout(context.Background(), time.Second*15)
	defer shutdown()

	if err := reconcilerService.Stop(shutdownCtx); err != nil && !errors.Is(err, context.DeadlineExceeded) {
		return err
	}
	return nil
}

func newLogCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "log",
		Short: "Print the user activity log",
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := cmd.Flags().GetString("config")
			if err != nil {
				return err
			}
			logPath := config.Default().Activity.Path
			if cfg, err := config.LoadFile(path); err == nil {
				logPath = cfg.Activity.Path
			} else if !errors.Is(err, config.ErrMissingConfig) {
				return err
			}
			return printLog(cmd, activity.NewLogger(logPath))
		},
	}
}

func printLog(cmd *cobra.Command, logger *activity.Logger) error {
	entries, err := logger.Entries()
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	if len(entries) == 0 {
		fmt.Fprintln(out, "Log file is empty.")
		return nil
	}
	for _, entry := range entries {
		fmt.Fprintf(out, "User ID: %d\n", entry.UserID)
		fmt.Fprintf(out, "Timestamp: %s\n", entry.Timestamp.Format(time.RFC3339))
		fmt.Fprintf(out, "Message: %s\n", entry.Message)
		fmt.Fprintln(out, "---")
	}
	return nil
}
