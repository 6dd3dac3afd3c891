package main

import (
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"

	"loan-ledger/config"
	"loan-ledger/internal/adapter/queue"
	"loan-ledger/internal/service"
	"loan-ledger/pkg/logger"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

func workerCmd(cfgPath func() string) *cobra.Command {
	return &cobra.Command{
		Use:   "worker",
		Short: "Deliver resolution notifications from the queue",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, log, err := loadConfig(cfgPath())
			if err != nil {
				return err
			}
			handler, err := newNotificationHandler(cfg.Notification, log)
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			srv := queue.NewServer(redisClientOpt(cfg.Redis), cfg.Notification.Queue,
				cfg.Notification.Concurrency, logger.Component(log, "worker"))
			if err := srv.Start(queue.NewServeMux(handler)); err != nil {
				return fmt.Errorf("start worker: %w", err)
			}
			log.Info().
				Str("queue", cfg.Notification.Queue).
				Int("concurrency", cfg.Notification.Concurrency).
				Msg("Notification worker started")

			<-ctx.Done()
			log.Info().Msg("Shutting down worker...")
			srv.Shutdown()
			return nil
		},
	}
}

func newNotificationHandler(cfg config.NotificationConfig, log zerolog.Logger) (*queue.NotificationHandler, error) {
	if !cfg.Enabled {
		return nil, errors.New("notification.enabled is false")
	}
	if cfg.WebhookURL == "" {
		return nil, errors.New("notification.webhook_url is required")
	}
	deliverer := service.NewWebhookDeliverer(
		cfg.WebhookURL,
		cfg.Secret,
		cfg.MaxElapsed,
		service.NewHMACSignatureService(),
		&http.Client{Timeout: cfg.Timeout},
		logger.Component(log, "webhook"),
	)
	return queue.NewNotificationHandler(deliverer, logger.Component(log, "worker")), nil
}
