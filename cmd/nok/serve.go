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

	"github.com/sufield/nok/internal/adapters/outbound/cli"
	"github.com/sufield/nok/internal/adapters/outbound/helm"
	"github.com/sufield/nok/internal/adapters/outbound/kubectl"
	"github.com/sufield/nok/internal/adapters/token"
	"github.com/sufield/nok/internal/app"
	"github.com/sufield/nok/internal/config"
	"github.com/sufield/nok/internal/httpserver"
)

const shutdownGrace = 10 * time.Second

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the notebook web service",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(configPath)
		if err != nil {
			return err
		}
		if err := cfg.Validate(); err != nil {
			return fmt.Errorf("invalid configuration: %w", err)
		}
		return serve(cfg)
	},
}

func serve(cfg config.Config) error {
	log := newLogger(cfg)
	log.Info("starting nok",
		"version", version,
		"namespace", cfg.Namespace,
		"listen_addr", cfg.ListenAddr,
		"command_timeout", cfg.Timeout().String(),
	)

	kubectlRunner := cli.NewKubectl(cfg, log)
	helmRunner := cli.NewHelm(cfg, log)

	cluster := kubectl.NewClient(kubectlRunner, log)
	catalog := helm.NewCatalog(helmRunner, cfg.ChartPath, log)

	resolver, err := token.NewResolver(token.DefaultCacheSize)
	if err != nil {
		return err
	}

	notebooks := app.NewNotebookService(catalog, cluster, log)
	server := httpserver.New(cfg, notebooks, cluster, resolver, log)

	httpServer := &http.Server{
		Addr:              cfg.ListenAddr,
		Handler:           server.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		if err := httpServer.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return err
	case sig := <-stop:
		log.Info("shutting down", "signal", sig.String())
	}

	ctx, cancel := context.WithTimeout(context.Background(), shutdownGrace)
	defer cancel()
	return httpServer.Shutdown(ctx)
}

func newLogger(cfg config.Config) *slog.Logger {
	var level slog.Level
	switch cfg.LogLevel {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}
	return slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}
