package converter

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/aescanero/clustergram/pkg/clustergram"
	"github.com/aescanero/clustergram/pkg/ports"
	"go.uber.org/zap"
)

// Conversion sources, used as metrics labels
const (
	SourceMatrix   = "matrix"
	SourceHeatmaps = "heatmaps"
)

// Service converts matrix payloads into viz documents
type Service struct {
	newNetwork  ports.NetworkFactory
	cache       ports.Cache
	cacheTTL    time.Duration
	metrics     ports.MetricsCollector
	validator   *Validator
	logger      *zap.Logger
	options     clustergram.Options
	timeout     time.Duration
	logPayloads bool
}

// Config holds converter configuration
type Config struct {
	NetworkFactory ports.NetworkFactory
	Metrics        ports.MetricsCollector
	Validator      *Validator
	Logger         *zap.Logger

	// Options is passed to every MakeClust call
	Options clustergram.Options

	// Cache is optional
	Cache    ports.Cache
	CacheTTL time.Duration

	// Timeout bounds a single conversion; zero disables it
	Timeout time.Duration

	// LogPayloads logs full inputs and outputs instead of their sizes
	LogPayloads bool
}

// NewService creates a new converter service
func NewService(cfg *Config) *Service {
	newNetwork := cfg.NetworkFactory
	if newNetwork == nil {
		newNetwork = func() ports.Network { return clustergram.New() }
	}

	return &Service{
		newNetwork:  newNetwork,
		cache:       cfg.Cache,
		cacheTTL:    cfg.CacheTTL,
		metrics:     cfg.Metrics,
		validator:   cfg.Validator,
		logger:      cfg.Logger,
		options:     cfg.Options,
		timeout:     cfg.Timeout,
		logPayloads: cfg.LogPayloads,
	}
}

// Convert turns a delimited matrix string into a viz JSON document
func (s *Service) Convert(ctx context.Context, data string) (string, error) {
	return s.convert(ctx, SourceMatrix, data)
}

// ConvertHeatmaps validates a heatmap document, lays it out as a matrix and
// converts it
func (s *Service) ConvertHeatmaps(ctx context.Context, document []byte) (string, error) {
	start := time.Now()

	data, err := s.heatmapMatrix(document)
	if err != nil {
		s.logger.Warn("rejected heatmap document", zap.Error(err))
		s.metrics.RecordConversion(SourceHeatmaps, status(err), time.Since(start))
		return "", err
	}

	return s.convert(ctx, SourceHeatmaps, data)
}

func (s *Service) heatmapMatrix(document []byte) (string, error) {
	if s.validator != nil {
		if err := s.validator.Validate(document); err != nil {
			return "", err
		}
	}

	var payload struct {
		Heatmaps []clustergram.Heatmap `json:"heatmaps"`
	}
	if err := json.Unmarshal(document, &payload); err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidDocument, err)
	}

	data, err := clustergram.MatrixFromHeatmaps(payload.Heatmaps)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidMatrix, err)
	}

	return data, nil
}

func (s *Service) convert(ctx context.Context, source, data string) (string, error) {
	start := time.Now()

	out, err := s.run(ctx, data)
	err = classify(err)
	duration := time.Since(start)
	s.metrics.RecordConversion(source, status(err), duration)

	if errors.Is(err, ErrCanceled) {
		s.logger.Info("conversion canceled by caller",
			zap.String("source", source),
			zap.Duration("duration", duration))
		return "", err
	}
	if err != nil {
		s.logger.Warn("conversion failed",
			zap.String("source", source),
			zap.Duration("duration", duration),
			zap.Error(err))
		return "", err
	}

	s.logger.Debug("conversion completed",
		zap.String("source", source),
		zap.Int("output_bytes", len(out)),
		zap.Duration("duration", duration))

	return out, nil
}

func (s *Service) run(ctx context.Context, data string) (string, error) {
	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	s.metrics.RecordPayloadBytes("in", len(data))
	if s.logPayloads {
		s.logger.Info("received matrix", zap.String("data", data))
	}

	key := s.cacheKey(data)
	if s.cache != nil {
		out, ok, err := s.cache.Get(ctx, key)
		if err != nil {
			s.logger.Warn("cache lookup failed", zap.Error(err))
		} else {
			s.metrics.RecordCacheLookup(ok)
			if ok {
				s.logCached(out)
				return out, nil
			}
		}
	}

	net := s.newNetwork()
	if err := net.LoadString(data); err != nil {
		return "", err
	}

	if sized, ok := net.(interface{ Shape() (int, int) }); ok {
		rows, cols := sized.Shape()
		s.metrics.RecordMatrixSize(rows, cols)
	}

	if err := net.MakeClust(ctx, s.options); err != nil {
		return "", err
	}

	out, err := net.ExportNetJSON(clustergram.ViewViz, clustergram.NoIndent)
	if err != nil {
		return "", fmt.Errorf("failed to export network: %w", err)
	}

	s.metrics.RecordPayloadBytes("out", len(out))
	if s.logPayloads {
		s.logger.Info("produced viz document", zap.String("json", out))
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, key, out, s.cacheTTL); err != nil {
			s.logger.Warn("failed to cache document", zap.Error(err))
		}
	}

	return out, nil
}

func (s *Service) logCached(out string) {
	if s.logPayloads {
		s.logger.Info("produced viz document", zap.String("json", out), zap.Bool("cached", true))
	}
}

// cacheKey hashes the clustering options together with the matrix
func (s *Service) cacheKey(data string) string {
	h := sha256.New()
	opts, _ := json.Marshal(s.options)
	h.Write(opts)
	h.Write([]byte{0})
	h.Write([]byte(data))
	return hex.EncodeToString(h.Sum(nil))
}
