package config

import (
	"fmt"
	"net"
	"strconv"
	"time"

	"github.com/aescanero/clustergram/pkg/clustergram"
	"github.com/caarlos0/env/v10"
	"go.uber.org/multierr"
)

// Cache backends
const (
	CacheNone   = "none"
	CacheMemory = "memory"
	CacheRedis  = "redis"
)

// Config holds all configuration for the clustergram service
type Config struct {
	// Server configuration
	HTTPHost string `env:"CLUSTERGRAM_HTTP_HOST" envDefault:""`
	HTTPPort int    `env:"CLUSTERGRAM_HTTP_PORT" envDefault:"5000"`
	GRPCPort int    `env:"CLUSTERGRAM_GRPC_PORT" envDefault:"0"` // 0 disables gRPC
	LogLevel string `env:"LOG_LEVEL" envDefault:"info"`

	// LogPayloads logs every input matrix and output document in full
	LogPayloads  bool  `env:"LOG_PAYLOADS" envDefault:"true"`
	MaxBodyBytes int64 `env:"MAX_BODY_BYTES" envDefault:"33554432"`

	// Clustering options applied to every conversion
	Cluster ClusterConfig

	// Result cache
	Cache CacheConfig

	// Redis configuration, used by the redis cache backend
	Redis RedisConfig

	// Timeouts
	Timeouts TimeoutConfig
}

// ClusterConfig holds the clustering options
type ClusterConfig struct {
	RunClustering bool   `env:"CLUSTER_RUN_CLUSTERING" envDefault:"false"`
	Dendro        bool   `env:"CLUSTER_DENDRO" envDefault:"false"`
	Distance      string `env:"CLUSTER_DISTANCE" envDefault:"cosine"`
	Linkage       string `env:"CLUSTER_LINKAGE" envDefault:"average"`
}

// CacheConfig holds result cache configuration
type CacheConfig struct {
	Backend string        `env:"CACHE_BACKEND" envDefault:"none"`
	Size    int           `env:"CACHE_SIZE" envDefault:"256"`
	TTL     time.Duration `env:"CACHE_TTL" envDefault:"10m"`
}

// RedisConfig holds Redis connection configuration
type RedisConfig struct {
	Addr     string `env:"REDIS_ADDR" envDefault:"localhost:6379"`
	Password string `env:"REDIS_PASS"`
	DB       int    `env:"REDIS_DB" envDefault:"0"`

	// Connection pool settings
	PoolSize     int           `env:"REDIS_POOL_SIZE" envDefault:"10"`
	MinIdleConns int           `env:"REDIS_MIN_IDLE_CONNS" envDefault:"2"`
	MaxRetries   int           `env:"REDIS_MAX_RETRIES" envDefault:"3"`
	DialTimeout  time.Duration `env:"REDIS_DIAL_TIMEOUT" envDefault:"5s"`
	ReadTimeout  time.Duration `env:"REDIS_READ_TIMEOUT" envDefault:"3s"`
	WriteTimeout time.Duration `env:"REDIS_WRITE_TIMEOUT" envDefault:"3s"`
}

// TimeoutConfig holds various timeout configurations
type TimeoutConfig struct {
	ConvertTimeout    time.Duration `env:"CONVERT_TIMEOUT" envDefault:"60s"` // 0 disables
	ReadHeaderTimeout time.Duration `env:"READ_HEADER_TIMEOUT" envDefault:"10s"`
	ShutdownTimeout   time.Duration `env:"TIMEOUT_SHUTDOWN" envDefault:"30s"`

	// Dependency health checks
	HealthCheckInterval time.Duration `env:"HEALTH_CHECK_INTERVAL" envDefault:"30s"`
	HealthCheckTimeout  time.Duration `env:"HEALTH_CHECK_TIMEOUT" envDefault:"2s"`
}

// Load reads configuration from environment variables
func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

// Validate checks if the configuration is valid and reports every problem
func (c *Config) Validate() error {
	var err error

	// Validate server ports
	if c.HTTPPort < 1 || c.HTTPPort > 65535 {
		err = multierr.Append(err, fmt.Errorf("invalid HTTP port: %d", c.HTTPPort))
	}
	if c.GRPCPort < 0 || c.GRPCPort > 65535 {
		err = multierr.Append(err, fmt.Errorf("invalid gRPC port: %d", c.GRPCPort))
	}
	if c.MaxBodyBytes < 1 {
		err = multierr.Append(err, fmt.Errorf("max body bytes must be positive"))
	}

	// Validate clustering options
	if verr := c.ClusterOptions().Validate(); verr != nil {
		err = multierr.Append(err, verr)
	}

	// Validate cache config
	switch c.Cache.Backend {
	case CacheNone:
	case CacheMemory:
		if c.Cache.Size < 1 {
			err = multierr.Append(err, fmt.Errorf("cache size must be at least 1"))
		}
	case CacheRedis:
		if c.Redis.Addr == "" {
			err = multierr.Append(err, fmt.Errorf("redis address is required"))
		}
	default:
		err = multierr.Append(err, fmt.Errorf("unsupported cache backend: %s (must be none, memory, or redis)", c.Cache.Backend))
	}
	if c.Cache.TTL < 0 {
		err = multierr.Append(err, fmt.Errorf("cache TTL must not be negative"))
	}

	if c.Timeouts.ConvertTimeout < 0 {
		err = multierr.Append(err, fmt.Errorf("convert timeout must not be negative"))
	}
	if c.Timeouts.HealthCheckInterval <= 0 || c.Timeouts.HealthCheckTimeout <= 0 {
		err = multierr.Append(err, fmt.Errorf("health check interval and timeout must be positive"))
	}

	// Validate log level
	validLogLevels := map[string]bool{
		"debug": true,
		"info":  true,
		"warn":  true,
		"error": true,
	}
	if !validLogLevels[c.LogLevel] {
		err = multierr.Append(err, fmt.Errorf("invalid log level: %s (must be debug, info, warn, or error)", c.LogLevel))
	}

	return err
}

// GetHTTPAddr returns the HTTP server address
func (c *Config) GetHTTPAddr() string {
	return net.JoinHostPort(c.HTTPHost, strconv.Itoa(c.HTTPPort))
}

// ClusterOptions returns the options passed to every MakeClust call
func (c *Config) ClusterOptions() clustergram.Options {
	return clustergram.Options{
		RunClustering: c.Cluster.RunClustering,
		Dendro:        c.Cluster.Dendro,
		DistanceType:  c.Cluster.Distance,
		LinkageType:   c.Cluster.Linkage,
	}
}

// GRPCEnabled reports whether the gRPC health server should run
func (c *Config) GRPCEnabled() bool {
	return c.GRPCPort > 0
}
