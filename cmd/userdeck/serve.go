package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"github.com/userdeck/userdeck/internal/config"
	"github.com/userdeck/userdeck/internal/dashboard"
	"github.com/userdeck/userdeck/internal/directory"
	httpapp "github.com/userdeck/userdeck/internal/http"
	"github.com/userdeck/userdeck/internal/metrics"
	"github.com/userdeck/userdeck/internal/paging"
	"github.com/userdeck/userdeck/internal/session"
	"golang.org/x/sync/errgroup"
)

const shutdownTimeout = 10 * time.Second

var serveCmd = &cobra.Command{
	Use:         "serve",
	Short:       "Run the web server, dashboard sweeper and optional metrics listener.",
	Args:        cobra.NoArgs,
	Annotations: structuredLog(),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()
		return runServe(ctx)
	},
}

func runServe(ctx context.Context) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	logger := slog.Default()

	backend, err := session.OpenBackend(ctx, cfg)
	if err != nil {
		return err
	}
	defer backend.Close()
	sessions := session.New(session.NewManager(cfg, backend.Store))

	client, err := directory.New(cfg.DirectoryBaseURL, cfg.DirectoryTimeout)
	if err != nil {
		return err
	}
	client.Logger = logger

	dashboards := dashboard.NewRegistry(func(token string) dashboard.Fetcher {
		return &paging.Engine{
			Lister:   client.WithToken(token),
			PageSize: cfg.PageSize,
			Fields:   directory.RecordFields,
		}
	}, cfg.PageSize)

	srv, err := httpapp.NewEchoServer(cfg, client, sessions, dashboards, logger)
	if err != nil {
		return err
	}
	httpServer := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           srv.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		logger.Info("listening", "addr", cfg.HTTPAddr, "directory", cfg.DirectoryBaseURL, "session_store", cfg.SessionStore)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return httpServer.Shutdown(shutdownCtx)
	})

	_, metricsErr := metrics.StartServer(gctx, cfg.MetricsAddr, logger)
	g.Go(func() error {
		select {
		case err := <-metricsErr:
			return err
		case <-gctx.Done():
			return nil
		}
	})

	sweeper := &dashboard.Sweeper{
		Registry:  dashboards,
		Interval:  cfg.DashboardSweepInterval,
		IdleAfter: cfg.SessionIdleTimeout,
		Logger:    logger,
	}
	g.Go(func() error {
		sweeper.Run(gctx)
		return nil
	})

	return g.Wait()
}
