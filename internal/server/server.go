// Package server boots every dependency and runs the HTTP and gRPC servers
// until the process is signalled.
package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/projectdesk/projectdesk/app/routes"
	"github.com/projectdesk/projectdesk/config"
	"github.com/projectdesk/projectdesk/internal/kernel"
	"github.com/projectdesk/projectdesk/pkg/auth"
	"github.com/projectdesk/projectdesk/pkg/cache"
	"github.com/projectdesk/projectdesk/pkg/database"
	"github.com/projectdesk/projectdesk/pkg/event"
	"github.com/projectdesk/projectdesk/pkg/grpc"
	"github.com/projectdesk/projectdesk/pkg/logger"
	"github.com/projectdesk/projectdesk/pkg/model"
	"github.com/projectdesk/projectdesk/pkg/storage"
	"github.com/projectdesk/projectdesk/pkg/workerpool"
	"github.com/projectdesk/projectdesk/pkg/ws"
)

const shutdownTimeout = 15 * time.Second

// Start runs until SIGINT or SIGTERM, then drains both servers.
func Start() error {
	if err := config.Load(); err != nil {
		return err
	}
	cfg := config.Current()

	closeLog, err := logger.Setup(cfg)
	if err != nil {
		return err
	}
	defer closeLog()

	if err := database.Connect(); err != nil {
		return err
	}
	defer database.Close() //nolint:errcheck

	if err := cache.Connect(cfg.Redis); err != nil {
		logger.Warn("cache disabled", "error", err)
	}
	defer cache.Close() //nolint:errcheck

	if err := storage.Connect(cfg.Storage); err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	store := model.NewStore(database.DB)
	hub := ws.NewHub()
	go hub.Run(ctx)

	pool := workerpool.New(cfg.App.BulkWorkers)
	defer pool.Shutdown()

	r, err := kernel.New(cfg, routes.Deps{
		Store:          store,
		Signer:         auth.Default(),
		Hub:            hub,
		Pool:           pool,
		Events:         event.NewDispatcher(),
		Disk:           storage.Default(),
		ReportTimeout:  cfg.App.ReportTimeout,
		CacheTTL:       cfg.Redis.TTL,
		MaxUploadBytes: cfg.Storage.MaxUploadBytes,
	})
	if err != nil {
		return fmt.Errorf("build routes: %w", err)
	}

	grpcSrv, err := grpc.Start(cfg.App.GRPCPort, store)
	if err != nil {
		return err
	}
	defer grpc.Stop(grpcSrv)

	srv := &http.Server{
		Addr:              ":" + cfg.App.Port,
		Handler:           r.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("HTTP server starting", "addr", srv.Addr, "env", cfg.App.Env)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("http: %w", err)
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
