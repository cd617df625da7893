package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/aescanero/clustergram/internal/application/converter"
	"github.com/aescanero/clustergram/internal/application/health"
	"github.com/aescanero/clustergram/internal/config"
	"github.com/aescanero/clustergram/pkg/adapters/cache/memory"
	rediscache "github.com/aescanero/clustergram/pkg/adapters/cache/redis"
	"github.com/aescanero/clustergram/pkg/adapters/metrics/prometheus"
	"github.com/aescanero/clustergram/pkg/api/grpc"
	"github.com/aescanero/clustergram/pkg/api/http"
	"github.com/aescanero/clustergram/pkg/clustergram"
	"github.com/aescanero/clustergram/pkg/ports"

	goredis "github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	// Version is set by build flags
	Version   = "dev"
	BuildTime = "unknown"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	logger := initLogger(cfg.LogLevel)
	defer logger.Sync()

	logger.Info("starting clustergram service",
		zap.String("version", Version),
		zap.String("build_time", BuildTime))

	metricsCollector := prometheus.NewCollector(nil)

	monitor := health.NewMonitor(
		cfg.Timeouts.HealthCheckInterval,
		cfg.Timeouts.HealthCheckTimeout,
		metricsCollector,
		logger,
	)

	cache, closeCache := initCache(cfg, monitor, logger)
	defer closeCache()

	validator, err := converter.NewValidator()
	if err != nil {
		logger.Fatal("failed to create heatmap validator", zap.Error(err))
	}

	svc := converter.NewService(&converter.Config{
		NetworkFactory: func() ports.Network { return clustergram.New() },
		Metrics:        metricsCollector,
		Validator:      validator,
		Logger:         logger,
		Options:        cfg.ClusterOptions(),
		Cache:          cache,
		CacheTTL:       cfg.Cache.TTL,
		Timeout:        cfg.Timeouts.ConvertTimeout,
		LogPayloads:    cfg.LogPayloads,
	})

	// Initialize API servers
	httpServer := http.NewServer(&http.Config{
		Host:              cfg.HTTPHost,
		Port:              cfg.HTTPPort,
		Converter:         svc,
		Health:            monitor,
		Logger:            logger,
		MaxBodyBytes:      cfg.MaxBodyBytes,
		ReadHeaderTimeout: cfg.Timeouts.ReadHeaderTimeout,
	})

	var grpcServer *grpc.Server
	if cfg.GRPCEnabled() {
		grpcServer, err = grpc.NewServer(&grpc.Config{
			Host:   cfg.HTTPHost,
			Port:   cfg.GRPCPort,
			Logger: logger,
		})
		if err != nil {
			logger.Fatal("failed to create gRPC server", zap.Error(err))
		}
		monitor.OnChange(grpcServer.SetServing)
	}

	monitor.Start()

	// Start servers
	go func() {
		if err := httpServer.Start(); err != nil {
			logger.Fatal("HTTP server failed", zap.Error(err))
		}
	}()

	if grpcServer != nil {
		go func() {
			if err := grpcServer.Start(); err != nil {
				logger.Fatal("gRPC server failed", zap.Error(err))
			}
		}()
	}

	logger.Info("clustergram service started",
		zap.String("http_addr", cfg.GetHTTPAddr()),
		zap.Int("grpc_port", cfg.GRPCPort),
		zap.String("cache_backend", cfg.Cache.Backend),
		zap.Bool("run_clustering", cfg.Cluster.RunClustering))

	// Wait for interrupt signal
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	<-sigCh

	logger.Info("received shutdown signal")

	// Graceful shutdown
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Timeouts.ShutdownTimeout)
	defer cancel()

	monitor.Stop()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logger.Error("HTTP server shutdown error", zap.Error(err))
	}

	if grpcServer != nil {
		if err := grpcServer.Shutdown(shutdownCtx); err != nil {
			logger.Error("gRPC server shutdown error", zap.Error(err))
		}
	}

	logger.Info("clustergram service shut down complete")
}

// initCache builds the configured result cache and registers its health
// check. The returned func releases its connections.
func initCache(cfg *config.Config, monitor *health.Monitor, logger *zap.Logger) (ports.Cache, func()) {
	switch cfg.Cache.Backend {
	case config.CacheMemory:
		cache, err := memory.NewLRUCache(cfg.Cache.Size)
		if err != nil {
			logger.Fatal("failed to create memory cache", zap.Error(err))
		}
		logger.Info("using in-memory result cache", zap.Int("size", cfg.Cache.Size))
		return cache, func() {}

	case config.CacheRedis:
		redisClient := goredis.NewClient(&goredis.Options{
			Addr:         cfg.Redis.Addr,
			Password:     cfg.Redis.Password,
			DB:           cfg.Redis.DB,
			PoolSize:     cfg.Redis.PoolSize,
			MinIdleConns: cfg.Redis.MinIdleConns,
			MaxRetries:   cfg.Redis.MaxRetries,
			DialTimeout:  cfg.Redis.DialTimeout,
			ReadTimeout:  cfg.Redis.ReadTimeout,
			WriteTimeout: cfg.Redis.WriteTimeout,
		})

		// Test Redis connection
		if err := redisClient.Ping(context.Background()).Err(); err != nil {
			logger.Fatal("failed to connect to Redis", zap.Error(err))
		}
		logger.Info("connected to Redis", zap.String("addr", cfg.Redis.Addr))

		cache := rediscache.NewCache(redisClient, logger)
		monitor.Register("redis", cache.Ping)

		return cache, func() {
			if err := redisClient.Close(); err != nil {
				logger.Error("Redis close error", zap.Error(err))
			}
		}

	default:
		return nil, func() {}
	}
}

// initLogger initializes the logger based on log level
func initLogger(level string) *zap.Logger {
	var zapLevel zapcore.Level
	switch level {
	case "debug":
		zapLevel = zapcore.DebugLevel
	case "info":
		zapLevel = zapcore.InfoLevel
	case "warn":
		zapLevel = zapcore.WarnLevel
	case "error":
		zapLevel = zapcore.ErrorLevel
	default:
		zapLevel = zapcore.InfoLevel
	}

	config := zap.NewProductionConfig()
	config.Level = zap.NewAtomicLevelAt(zapLevel)
	config.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	logger, err := config.Build()
	if err != nil {
		panic(fmt.Sprintf("failed to initialize logger: %v", err))
	}

	return logger
}
