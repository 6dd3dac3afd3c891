package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	httpHandler "loan-ledger/internal/adapter/http/handler"
	"loan-ledger/pkg/tracing"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
)

func serveCmd(cfgPath func() string) *cobra.Command {
	var seedFunds string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the member and console HTTP API",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, log, err := loadConfig(cfgPath())
			if err != nil {
				return err
			}

			log.Info().
				Str("mode", cfg.Server.Mode).
				Str("store", cfg.Store.Driver).
				Int("port", cfg.Server.Port).
				Msg("Starting loan ledger")

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			serviceName := ""
			if cfg.Tracing.Enabled {
				shutdown, err := tracing.Setup(ctx, cfg.Tracing.ServiceName, cfg.Tracing.Endpoint, log)
				if err != nil {
					return fmt.Errorf("setup tracing: %w", err)
				}
				defer func() {
					if err := shutdown(context.Background()); err != nil {
						log.Error().Err(err).Msg("Tracer shutdown failed")
					}
				}()
				serviceName = cfg.Tracing.ServiceName
			}

			a, err := newApp(ctx, cfg, log)
			if err != nil {
				return err
			}
			defer a.Close()

			if seedFunds != "" {
				if err := a.seedFunds(seedFunds); err != nil {
					return err
				}
			}

			srv := &http.Server{
				Addr:              cfg.Server.Addr(),
				Handler:           a.router(serviceName),
				ReadHeaderTimeout: 10 * time.Second,
			}

			errCh := make(chan error, 1)
			go func() {
				log.Info().Str("addr", srv.Addr).Msg("HTTP server listening")
				if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					errCh <- err
				}
				close(errCh)
			}()

			select {
			case err := <-errCh:
				if err != nil {
					return fmt.Errorf("http server: %w", err)
				}
				return nil
			case <-ctx.Done():
			}
			log.Info().Msg("Shutting down server...")

			shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			if err := srv.Shutdown(shutdownCtx); err != nil {
				log.Error().Err(err).Msg("Server forced to shutdown")
			}

			log.Info().Msg("Server exited")
			return nil
		},
	}

	cmd.Flags().StringVar(&seedFunds, "seed-funds", "", "initial funds pool for the in-memory store")

	return cmd
}

// router builds the HTTP engine. A non-empty serviceName turns on request spans.
func (a *app) router(serviceName string) *gin.Engine {
	deps := httpHandler.RouterDeps{
		LoanSvc:        a.loans,
		PaymentSvc:     a.payments,
		SavingsSvc:     a.savings,
		SettingsSvc:    a.settings,
		ReportingSvc:   a.reporting,
		Coordinator:    a.coordinator,
		Reconciliation: a.reconciliation,
		TokenSvc:       a.tokens,
		RateLimitStore: a.rateLimit,
		HealthCheckers: a.healthCheckers,
		AuditSvc:       a.audit,
		ServiceName:    serviceName,
		Mode:           a.cfg.Server.Mode,
		Logger:         a.log,
	}
	return httpHandler.SetupRouter(deps)
}

func (a *app) seedFunds(raw string) error {
	if a.memStore == nil {
		return errors.New("--seed-funds requires store.driver=memory")
	}
	v, err := decimal.NewFromString(raw)
	if err != nil {
		return fmt.Errorf("parse --seed-funds: %w", err)
	}
	a.memStore.Funds().Seed(v)
	a.log.Info().Str("funds", v.String()).Msg("Seeded funds pool")
	return nil
}
