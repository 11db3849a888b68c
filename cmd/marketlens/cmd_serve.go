package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"MarketLens/internal/api"
	"MarketLens/internal/notifier"
	"MarketLens/internal/scheduler"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

var runOnStart bool

// serveCmd runs the long-lived service
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API, scheduled reports and the Telegram bot",
	RunE:  runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().BoolVar(&runOnStart, "run-on-start", os.Getenv("RUN_ON_START") == "true", "Send the overview report immediately")
}

func runServe(cmd *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.Close()
	log.Info().Msg("MarketLens starting")

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	var sender scheduler.Sender
	var tn *notifier.TelegramNotifier
	if a.cfg.TelegramEnabled() {
		tn = notifier.NewTelegramNotifier(a.cfg.Telegram.BotToken, a.cfg.Telegram.ChatID, a.cfg.Proxy)
		sender = tn
	} else {
		log.Warn().Msg("telegram not configured, reports are logged only")
	}

	sched := scheduler.NewScheduler(ctx, a.collector, sender, a.cfg)
	if err := sched.RegisterAll(); err != nil {
		return err
	}
	sched.Start()
	defer sched.Stop()

	if tn != nil {
		go tn.StartPolling(ctx, sched.HandleCommand)
		log.Info().Msg("telegram polling started")
	}
	if runOnStart {
		log.Info().Msg("run-on-start enabled, sending overview now")
		go sched.RunOverviewNow()
	}

	srv := api.NewServer(a.cfg, a.collector, a.recorder, a.metrics)
	errCh := make(chan error, 1)
	go func() { errCh <- srv.Start() }()

	log.Info().Msg("MarketLens is running. Press Ctrl+C to stop.")
	select {
	case <-ctx.Done():
		log.Info().Msg("shutdown signal received, stopping")
	case err := <-errCh:
		if err != nil {
			return err
		}
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("http shutdown")
	}
	log.Info().Msg("MarketLens stopped")
	return nil
}
