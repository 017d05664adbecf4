package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"

	"github.com/aretw0/folio"
	httpAdapter "github.com/aretw0/folio/internal/adapters/http"
	"github.com/aretw0/folio/internal/secrets"
	"github.com/aretw0/folio/pkg/validate"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the health and metrics server",
	Long:  `Exposes /health, /ready, /ping, and /metrics for the deployment hosting the paper pipeline.`,
	Run: func(cmd *cobra.Command, args []string) {
		cfg, logger, err := loadConfig(cmd)
		if err != nil {
			fmt.Println(err)
			os.Exit(1)
		}

		if port, _ := cmd.Flags().GetInt("port"); port != 0 {
			cfg.Port = port
		}
		if _, err := validate.Port(cfg.Port); err != nil {
			fmt.Println(err)
			os.Exit(1)
		}

		registry := prometheus.NewRegistry()
		registry.MustRegister(collectors.NewGoCollector())

		server := httpAdapter.NewServer(folio.Version, cfg.Workspace, secrets.NewManager(), registry)

		srv := &http.Server{
			Addr:    ":" + strconv.Itoa(cfg.Port),
			Handler: server.Handler(),
		}

		// Channel to listen for errors coming from the listener.
		serverErrors := make(chan error, 1)

		go func() {
			logger.Info("starting folio health server", "addr", srv.Addr, "workspace", cfg.Workspace)
			serverErrors <- srv.ListenAndServe()
		}()

		// Channel to listen for interrupt or terminate signals.
		shutdown := make(chan os.Signal, 1)
		signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

		select {
		case err := <-serverErrors:
			fmt.Printf("Server error: %v\n", err)
			os.Exit(1)

		case sig := <-shutdown:
			logger.Info("starting shutdown", "signal", sig.String())

			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()

			if err := srv.Shutdown(ctx); err != nil {
				logger.Error("graceful shutdown did not complete", "err", err)
				if err := srv.Close(); err != nil {
					logger.Error("error killing server", "err", err)
				}
			}
			logger.Info("folio health server stopped")
		}
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().IntP("port", "p", 0, "Port to listen on (overrides the config file)")
}
