// Package main is the entry point for the AuraFX relay: a Discord bot
// plus an HTTP webhook server sharing one in-memory statistics store.
//
// Usage:
//
//	aurafx-relay serve
//	aurafx-relay version
//
// Configuration comes from the environment (or a .env file):
// BOT_TOKEN, CLIENT_ID, and CHANNEL_ID are required; PORT, LOG_LEVEL,
// and WEBHOOK_SECRET are optional.
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/sleepsweetly/aurafx-relay/bot"
	"github.com/sleepsweetly/aurafx-relay/config"
	"github.com/sleepsweetly/aurafx-relay/notify"
	"github.com/sleepsweetly/aurafx-relay/stats"
	"github.com/sleepsweetly/aurafx-relay/web"
)

// Version information (set via ldflags during build).
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	rootCmd := &cobra.Command{
		Use:     "aurafx-relay",
		Short:   "Discord notification relay for the AuraFX effect editor",
		Version: fmt.Sprintf("%s (commit: %s, built: %s)", version, commit, date),
	}
	rootCmd.AddCommand(newServeCmd())
	rootCmd.AddCommand(newVersionCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the relay (Discord bot + notification HTTP server)",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe()
		},
	}
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("Version:  %s\n", version)
			fmt.Printf("Commit:   %s\n", commit)
			fmt.Printf("Built:    %s\n", date)
		},
	}
}

func runServe() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	logger := buildLogger(cfg.LogLevel)
	slog.SetDefault(logger)

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	store := stats.NewStore()

	b, err := bot.New(cfg.BotToken, cfg.ClientID, store, bot.WithLogger(logger))
	if err != nil {
		return err
	}
	if err := b.Open(); err != nil {
		return err
	}
	defer b.Close()

	notifier := notify.NewDiscord(b.Session(), cfg.ChannelID, notify.WithLogger(logger))
	defer notifier.Close()

	srv := web.New(store, notifier,
		web.WithLogger(logger),
		web.WithVersion(version),
		web.WithSecret(cfg.WebhookSecret))

	httpServer := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           srv.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
		MaxHeaderBytes:    1 << 16, // 64 KiB
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("notification server running", "addr", httpServer.Addr)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case <-ctx.Done():
		logger.Info("shutting down")
	case err := <-errCh:
		return fmt.Errorf("http server: %w", err)
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logger.Error("http shutdown", "error", err)
	}
	return nil
}

func buildLogger(level string) *slog.Logger {
	var lvl slog.Level
	switch level {
	case "debug":
		lvl = slog.LevelDebug
	case "warn":
		lvl = slog.LevelWarn
	case "error":
		lvl = slog.LevelError
	default:
		lvl = slog.LevelInfo
	}
	return slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: lvl}))
}
