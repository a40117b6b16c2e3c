package commands

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/sync/errgroup"

	"github.com/saferoute/vault/internal/app"
	"github.com/saferoute/vault/internal/config"
	vaultUseCase "github.com/saferoute/vault/internal/vault/usecase"
)

// runnable is a server started and stopped together with the process.
type runnable interface {
	Start(ctx context.Context) error
	Shutdown(ctx context.Context) error
}

// RunServer starts the API server, the metrics server and the record reaper.
// Blocks until receiving SIGINT/SIGTERM or until one of them fails, then shuts the servers
// down within ShutdownTimeout. Stored records and the master key are dropped on exit.
func RunServer(ctx context.Context, version string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	// Set Gin mode based on log level
	gin.SetMode(cfg.GetGinMode())

	container := app.NewContainer(cfg, version)

	logger := container.Logger()
	logger.Info("starting server",
		slog.String("version", version),
		slog.String("algorithm", cfg.Algorithm),
		slog.Duration("ttl", cfg.TTL),
	)

	// Ensure cleanup on exit
	defer closeContainer(container, logger)

	server, err := container.HTTPServer()
	if err != nil {
		return fmt.Errorf("failed to initialize HTTP server: %w", err)
	}
	servers := []runnable{server}

	metricsServer, err := container.MetricsServer()
	if err != nil {
		return fmt.Errorf("failed to initialize metrics server: %w", err)
	}
	if metricsServer != nil {
		servers = append(servers, metricsServer)
	}

	reaper, err := container.Reaper()
	if err != nil {
		return fmt.Errorf("failed to initialize reaper: %w", err)
	}

	ctx, cancel := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer cancel()

	return runServices(ctx, logger, cfg.ShutdownTimeout, servers, reaper)
}

// runServices runs servers and reaper until ctx is done or one of them fails.
func runServices(
	ctx context.Context,
	logger *slog.Logger,
	shutdownTimeout time.Duration,
	servers []runnable,
	reaper vaultUseCase.ReaperUseCase,
) error {
	g, gctx := errgroup.WithContext(ctx)

	for _, server := range servers {
		g.Go(func() error {
			return server.Start(gctx)
		})
	}

	g.Go(func() error {
		if err := reaper.Start(gctx); err != nil && !errors.Is(err, context.Canceled) {
			return fmt.Errorf("reaper error: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		if ctx.Err() != nil {
			logger.Info("shutdown signal received")
		} else {
			logger.Error("service failed, initiating shutdown")
		}

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer shutdownCancel()

		var shutdownErrors []error
		for _, server := range servers {
			if err := server.Shutdown(shutdownCtx); err != nil {
				shutdownErrors = append(shutdownErrors, fmt.Errorf("server shutdown: %w", err))
			}
		}
		return errors.Join(shutdownErrors...)
	})

	return g.Wait()
}
