// Package service provides the core scoring service that implements the
// dependencies required by the HTTP API.
package service

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/retainiq/churn/internal/adapters/http/api"
	"github.com/retainiq/churn/internal/adapters/repository"
	"github.com/retainiq/churn/internal/domain/classifier"
	"github.com/retainiq/churn/internal/domain/scoring"
	"github.com/retainiq/churn/pkg/logger"
	"github.com/retainiq/churn/pkg/metrics"
)

const nanosecondsPerMillisecond = 1e6

// Service owns the loaded model for the lifetime of the process. The model
// is loaded exactly once in Start and never mutated afterwards, so request
// handlers read it concurrently without coordination.
type Service struct {
	modelPath string
	model     *classifier.Model
	scorer    *scoring.ModelScorer

	started   bool
	startedAt time.Time

	recordsScored    atomic.Int64
	validationErrors atomic.Int64
	scoringErrors    atomic.Int64

	logger logger.Logger
}

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithModelPath sets the artifact file loaded at startup.
func WithModelPath(path string) Option {
	return func(s *Service) {
		if path != "" {
			s.modelPath = path
		}
	}
}

// WithModel injects an already-fitted model, bypassing the artifact load.
func WithModel(m *classifier.Model) Option {
	return func(s *Service) {
		s.model = m
	}
}

// WithLogger sets a custom logger for the service.
func WithLogger(l logger.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// New creates the service with configuration options.
func New(opts ...Option) *Service {
	s := &Service{
		modelPath: "data/churn_model.json",
		logger:    logger.Get().Named("service"),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Start loads the model artifact and makes the service ready to score.
func (s *Service) Start(ctx context.Context) error {
	if s.started {
		return nil
	}

	if s.model == nil {
		m, err := repository.LoadModel(s.modelPath)
		if err != nil {
			return fmt.Errorf("load model: %w", err)
		}
		s.model = m
	}

	scorer, err := scoring.New(s.model)
	if err != nil {
		return err
	}
	s.scorer = scorer
	s.started = true
	s.startedAt = time.Now()

	metrics.RecordModelLoaded(float64(s.startedAt.Unix()))
	s.logger.Info(ctx, "model loaded",
		logger.String("model_id", s.model.ID),
		logger.Time("trained_at", s.model.TrainedAt),
		logger.Int("columns", len(s.model.Columns)),
	)
	return nil
}

// Stop releases the service. The model needs no teardown; this exists so
// main can pair Start/Stop symmetrically.
func (s *Service) Stop() {
	s.started = false
}

// ScoreRecord computes the churn probability for one feature record.
func (s *Service) ScoreRecord(ctx context.Context, rec scoring.Record) (float64, error) {
	if !s.started {
		return 0, scoring.ErrNoModel
	}

	start := time.Now()
	prob, err := s.scorer.Score(ctx, rec)
	metrics.RecordScoringLatency(float64(time.Since(start).Nanoseconds()) / nanosecondsPerMillisecond)

	switch {
	case err == nil:
		s.recordsScored.Add(1)
		metrics.RecordRecordScored(prob)
	case isValidation(err):
		s.validationErrors.Add(1)
	default:
		s.scoringErrors.Add(1)
	}
	return prob, err
}

// ModelInfo describes the loaded artifact.
func (s *Service) ModelInfo() api.ModelInfo {
	if s.model == nil {
		return api.ModelInfo{}
	}
	return api.ModelInfo{
		ID:        s.model.ID,
		TrainedAt: s.model.TrainedAt,
		Columns:   append([]string(nil), s.model.Columns...),
	}
}

// GetStats exposes service counters for the /stats endpoint.
func (s *Service) GetStats() map[string]interface{} {
	stats := map[string]interface{}{
		"records_scored":    s.recordsScored.Load(),
		"validation_errors": s.validationErrors.Load(),
		"scoring_errors":    s.scoringErrors.Load(),
	}
	if s.started {
		stats["model_id"] = s.model.ID
		stats["uptime_seconds"] = int64(time.Since(s.startedAt).Seconds())
	}
	return stats
}

func isValidation(err error) bool {
	return errors.Is(err, scoring.ErrMissingFields) || errors.Is(err, scoring.ErrBadFieldType)
}
