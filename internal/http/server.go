// Package http provides the vault's API server, metrics server, and shared middleware.
package http

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel/metric"

	"github.com/saferoute/vault/internal/config"
	"github.com/saferoute/vault/internal/metrics"
	vaultHTTP "github.com/saferoute/vault/internal/vault/http"
)

// ServiceName is reported by the health endpoint.
const ServiceName = "vault"

// Server is the vault API server.
type Server struct {
	server  *http.Server
	router  *gin.Engine
	logger  *slog.Logger
	version string
	ready   atomic.Bool
}

// NewServer creates a server bound to host:port. SetupRouter must be called before Start.
func NewServer(host string, port int, version string, logger *slog.Logger) *Server {
	return &Server{
		logger:  logger,
		version: version,
		server: &http.Server{
			Addr:              fmt.Sprintf("%s:%d", host, port),
			ReadHeaderTimeout: 5 * time.Second,
			ReadTimeout:       15 * time.Second,
			WriteTimeout:      15 * time.Second,
			IdleTimeout:       60 * time.Second,
		},
	}
}

// SetupRouter registers middleware and routes.
// meterProvider may be nil when metrics are disabled.
func (s *Server) SetupRouter(
	cfg *config.Config,
	vaultHandler *vaultHTTP.VaultHandler,
	meterProvider metric.MeterProvider,
) {
	router := gin.New()

	router.Use(gin.Recovery())
	router.Use(newRequestIDMiddleware())
	router.Use(CustomLoggerMiddleware(s.logger))

	if corsMiddleware := createCORSMiddleware(cfg.CORSEnabled, cfg.CORSAllowOrigins, s.logger); corsMiddleware != nil {
		router.Use(corsMiddleware)
	}

	if meterProvider != nil {
		router.Use(metrics.HTTPMetricsMiddleware(meterProvider, cfg.MetricsNamespace))
	}

	router.GET("/health", s.healthHandler)
	router.GET("/ready", s.readinessHandler)

	router.POST("/store", vaultHandler.StoreHandler)
	router.GET("/retrieve/:request_id", vaultHandler.RetrieveHandler)
	router.GET("/metrics", vaultHandler.StatsHandler)

	s.router = router
}

// Handler returns the configured router.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Start listens and serves until Shutdown is called. It returns nil after a graceful shutdown.
func (s *Server) Start(ctx context.Context) error {
	if s.router == nil {
		return errors.New("router is not configured")
	}
	s.server.Handler = s.router
	listener, err := net.Listen("tcp", s.server.Addr)
	if err != nil {
		return fmt.Errorf("failed to start server: %w", err)
	}

	s.logger.Info("starting http server", slog.String("addr", listener.Addr().String()))
	s.ready.Store(true)

	if err := s.server.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
		s.ready.Store(false)
		return fmt.Errorf("failed to start server: %w", err)
	}

	return nil
}

// Shutdown marks the server not ready, then drains in-flight requests.
func (s *Server) Shutdown(ctx context.Context) error {
	s.ready.Store(false)
	s.logger.Info("shutting down http server")
	return s.server.Shutdown(ctx)
}

// healthHandler reports liveness. It has no dependency on the store.
func (s *Server) healthHandler(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "healthy",
		"service": ServiceName,
		"version": s.version,
	})
}

// readinessHandler reports 503 before Start and once Shutdown begins.
func (s *Server) readinessHandler(c *gin.Context) {
	if !s.ready.Load() {
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "not_ready"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ready"})
}

func newRequestIDMiddleware() gin.HandlerFunc {
	return requestid.New(requestid.WithGenerator(func() string {
		return uuid.Must(uuid.NewV7()).String()
	}))
}
