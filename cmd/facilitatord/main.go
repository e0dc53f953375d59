// facilitatord serves the x402 payment-facilitator HTTP API.
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

	"github.com/spf13/cobra"

	"github.com/hgraphpay/swapflow/config"
	"github.com/hgraphpay/swapflow/facilitator"
	"github.com/hgraphpay/swapflow/logger"
	"github.com/hgraphpay/swapflow/metrics"
	"github.com/hgraphpay/swapflow/server"
)

var logLevel string

var rootCmd = &cobra.Command{
	Use:   "facilitatord",
	Short: "x402 payment facilitator for the hash-graph networks",
	Long: `facilitatord verifies and settles x402 "exact" scheme payments.
Clients build and partially sign a transfer transaction against the
facilitator's published fee-payer account; the server verifies it, co-signs
with the operator key and submits it.

Configuration is read from .swapflow.yaml or SWAPFLOW_-prefixed environment
variables (operator_id, operator_key, facilitator_network).`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return serve()
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "log level (debug, info, warn, error)")
}

func serve() error {
	log := logger.NewZapLogger(logLevel)
	defer log.Sync()

	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if len(cfg.Facilitators) == 0 {
		return fmt.Errorf("no facilitator operator configured")
	}

	rec := metrics.NewPrometheusRecorder(nil)

	services := make([]*facilitator.Service, 0, len(cfg.Facilitators))
	for _, fc := range cfg.Facilitators {
		svc, err := facilitator.New(fc.Network, fc.OperatorID, fc.OperatorKey, log, rec)
		if err != nil {
			return fmt.Errorf("facilitator %s: %w", fc.Network, err)
		}
		services = append(services, svc)
	}

	srv := server.New(&server.Config{
		Address:        cfg.ListenAddress,
		AllowedOrigins: cfg.AllowedOrigins,
		EnableMetrics:  cfg.EnableMetrics,
		RequestTimeout: cfg.RequestTimeout,
	}, services, log)

	errCh := make(chan error, 1)
	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return err
	case sig := <-stop:
		log.Info("shutting down", map[string]any{"signal": sig.String()})
	}

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	return srv.Shutdown(ctx)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
