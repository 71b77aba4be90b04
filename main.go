package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"courtside/internal/bot"
	"courtside/internal/common"
	"courtside/internal/config"
	"courtside/internal/health"
	"courtside/internal/records"
	"courtside/internal/sportspress"
	"courtside/internal/store"
)

func main() {

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Msg(fmt.Sprintf("Could not load configuration: %s", err.Error()))
	}
	setupLogging(cfg.LogLevel)
	log.Info().Msg("Hello from inside courtside")

	// League API client. The upstream site is small, so stay well
	// below one request per second on average
	restrictions := []common.Restriction{
		{Requests: 5, Duration: 10 * time.Second},
		{Requests: 60, Duration: 10 * time.Minute},
	}
	client := sportspress.NewClient(cfg.BaseUrl, cfg.RequestTimeout, cfg.Retries, cfg.RetryDelay, restrictions)

	// State file and reconciler
	st := store.NewStore(cfg.StatePath)
	reconciler := records.NewReconciler(client, st, cfg.Records)

	// Discord bot
	discordBot, err := bot.CreateBot(cfg.DiscordToken, cfg.AdminRoles, cfg.AllTimeListId,
		cfg.Seasons, cfg.LeadersCount, cfg.CommandTimeout, client, reconciler)
	if err != nil {
		log.Fatal().Msg(fmt.Sprintf("Could not create discord bot: %s", err.Error()))
	}

	// Health endpoints for the deployment tooling
	healthServer := health.NewServer(cfg.HealthAddr, reconciler, health.Echo{
		BaseUrl:             cfg.BaseUrl,
		PollInterval:        cfg.PollInterval.String(),
		RecordsScanInterval: cfg.RecordsScanInterval.String(),
		StatePath:           st.Path(),
	})
	go func() {
		log.Info().Msg(fmt.Sprintf("Health endpoints listening on %s", cfg.HealthAddr))
		if err := healthServer.Start(); err != nil {
			log.Warn().Msg(fmt.Sprintf("Health server stopped: %s", err.Error()))
		}
	}()

	// Shut down on SIGINT or SIGTERM. An in-flight pass finishes its
	// commit before the process exits
	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		signals := make(chan os.Signal, 1)
		signal.Notify(signals, os.Interrupt, syscall.SIGTERM)
		received := <-signals
		log.Info().Msg(fmt.Sprintf("Received signal %s, shutting down", received))
		cancel()
	}()

	// Background reconciliation loop
	done := make(chan struct{})
	go func() {
		defer close(done)
		monitor(ctx, reconciler, &discordBot, cfg.PollInterval, cfg.RecordsScanInterval)
	}()

	// Run the bot until the context is cancelled
	if err := discordBot.Run(ctx); err != nil {
		log.Error().Msg(fmt.Sprintf("Discord bot stopped: %s", err.Error()))
		cancel()
	}

	// Wait for the reconciliation loop to finish its current pass
	<-done
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	healthServer.Shutdown(shutdownCtx)
	log.Info().Msg("Bye from inside courtside")
}

// monitor runs the periodic reconciliation passes. Every tick polls the
// recent games; the full history rescan runs on its own slower timeout
func monitor(ctx context.Context, reconciler *records.Reconciler, discordBot *bot.Bot, pollInterval time.Duration, recordsScanInterval time.Duration) {

	runPass := func(backfill bool) {
		changes, err := reconciler.Reconcile(ctx, backfill)
		if err != nil {
			log.Error().Msg(fmt.Sprintf("Reconciliation pass failed: %s", err.Error()))
			return
		}
		discordBot.Dispatch(changes)
	}

	// The first call fires immediately, so the complete history gets
	// scanned right after startup
	rescanExecutor := common.NewTimedExecutor(recordsScanInterval, func() { runPass(true) })
	rescanExecutor.Execute()

	ticker := time.NewTicker(pollInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			rescanExecutor.Execute()
			runPass(false)
		}
	}
}

func setupLogging(level string) {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	parsed, err := zerolog.ParseLevel(level)
	if err != nil {
		parsed = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(parsed)
}
