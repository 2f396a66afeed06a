package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gentlyventures/harboragent/internal/archive"
	"github.com/gentlyventures/harboragent/internal/client"
	"github.com/gentlyventures/harboragent/internal/config"
	"github.com/gentlyventures/harboragent/internal/logger"
	"github.com/gentlyventures/harboragent/internal/repository"
	"github.com/gentlyventures/harboragent/internal/server"
	"github.com/gentlyventures/harboragent/internal/service"
	"github.com/gentlyventures/harboragent/internal/token"

	"github.com/caarlos0/env/v10"
	"github.com/joho/godotenv"
)

func main() {
	// load .env into os.Environ
	if err := godotenv.Load(); err != nil {
		fmt.Println("No .env file found (ok in prod)")
	}

	cfg := &config.Config{}
	if err := env.Parse(cfg); err != nil {
		fmt.Printf("Failed to parse config: %v\n", err)
		os.Exit(1)
	}

	log := logger.New(cfg.Log, cfg.Environment.Name)

	if err := cfg.Validate(); err != nil {
		log.Fatal().Err(err).Msg("invalid config")
	}
	if cfg.Stripe.WebhookSecret == "" {
		log.Warn().Msg("STRIPE_WEBHOOK_SECRET not set, webhook signatures will not be verified")
	}

	db, err := client.InitDBClient(cfg.Database)
	if err != nil {
		log.Fatal().Err(err).Str("driver", cfg.Database.Driver).Msg("init database")
	}

	stripeClient := client.NewStripeClient(&cfg.Stripe, log)
	postmarkClient := client.NewPostmarkClient(&cfg.Postmark)

	webhookEventRepo := repository.NewWebhookEventRepository(db)
	downloadRepo := repository.NewDownloadRepository(db)

	signer := token.NewSigner(cfg.SigningKey(), cfg.Download.TokenTTL)
	builder := archive.NewBuilder(nil)

	checkoutService := service.NewCheckoutService(stripeClient, cfg.PriceID, log)
	downloadService := service.NewDownloadService(
		checkoutService,
		signer,
		builder,
		downloadRepo,
		cfg.Download,
		log,
	)
	webhookService := service.NewWebhookService(
		cfg.Stripe.WebhookSecret,
		signer,
		cfg.Download.TokenTTL,
		postmarkClient,
		webhookEventRepo,
		cfg.Postmark,
		log,
	)

	srv := server.NewServer(cfg, downloadService, checkoutService, webhookService, log)

	serverAddr := cfg.HTTP.Address()
	log.Info().Str("addr", serverAddr).Msg("starting HTTP server")
	go func() {
		if err := srv.Start(serverAddr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("HTTP server error")
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGTERM, syscall.SIGINT)

	<-sigChan
	log.Info().Msg("signal received, starting graceful shutdown")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("HTTP server shutdown error")
	}

	if sqlDB, err := db.DB(); err == nil {
		_ = sqlDB.Close()
	}
}
