package http

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/aescanero/clustergram/internal/application/health"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

// Converter turns request payloads into viz documents
type Converter interface {
	Convert(ctx context.Context, data string) (string, error)
	ConvertHeatmaps(ctx context.Context, document []byte) (string, error)
}

// HealthReporter reports the latest dependency health
type HealthReporter interface {
	Status() *health.Status
}

// Server represents the HTTP API server
type Server struct {
	router    *gin.Engine
	handler   http.Handler
	server    *http.Server
	converter Converter
	health    HealthReporter
	logger    *zap.Logger
}

// Config holds HTTP server configuration
type Config struct {
	Host              string
	Port              int
	Converter         Converter
	Health            HealthReporter
	Logger            *zap.Logger
	MaxBodyBytes      int64
	ReadHeaderTimeout time.Duration

	// Gatherer backs /metrics; nil means the default registry
	Gatherer prometheus.Gatherer
}

// NewServer creates a new HTTP server
func NewServer(cfg *Config) *Server {
	gin.SetMode(gin.ReleaseMode)

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(requestID())
	router.Use(requestLogger(cfg.Logger))
	router.Use(bodyLimit(cfg.MaxBodyBytes))

	s := &Server{
		router:    router,
		converter: cfg.Converter,
		health:    cfg.Health,
		logger:    cfg.Logger,
	}

	s.setupRoutes(cfg.Gatherer)
	s.handler = corsPolicy().Handler(router)

	s.server = &http.Server{
		Addr:              net.JoinHostPort(cfg.Host, strconv.Itoa(cfg.Port)),
		Handler:           s.handler,
		ReadHeaderTimeout: cfg.ReadHeaderTimeout,
	}

	return s
}

// setupRoutes configures API routes
func (s *Server) setupRoutes(gatherer prometheus.Gatherer) {
	s.router.GET("/", s.handleHello)
	s.router.GET("/health", s.handleHealth)

	metrics := promhttp.Handler()
	if gatherer != nil {
		metrics = promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})
	}
	s.router.GET("/metrics", gin.WrapH(metrics))

	s.router.POST("/convert", s.handleConvert)
	s.router.GET("/convert", s.handleConvert)
	s.router.OPTIONS("/convert", s.handleOptions)
	s.router.POST("/convert/heatmaps", s.handleConvertHeatmaps)
}

// Handler returns the CORS-wrapped router
func (s *Server) Handler() http.Handler {
	return s.handler
}

// Addr returns the listen address
func (s *Server) Addr() string {
	return s.server.Addr
}

// Start starts the HTTP server
func (s *Server) Start() error {
	s.logger.Info("starting HTTP server", zap.String("addr", s.server.Addr))

	if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("failed to start HTTP server: %w", err)
	}

	return nil
}

// Shutdown gracefully shuts down the server
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("shutting down HTTP server")

	if err := s.server.Shutdown(ctx); err != nil {
		return fmt.Errorf("failed to shutdown HTTP server: %w", err)
	}

	s.logger.Info("HTTP server shut down complete")
	return nil
}
