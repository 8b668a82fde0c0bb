package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/retainiq/churn/internal/adapters/batch"
	"github.com/retainiq/churn/internal/adapters/repository"
	"github.com/retainiq/churn/internal/config"
	"github.com/retainiq/churn/internal/domain/scoring"
	"github.com/retainiq/churn/pkg/logger"
	"github.com/retainiq/churn/pkg/metrics"
)

const jobName = "score_batch"

func main() {
	if err := logger.Init(); err != nil {
		os.Stderr.WriteString("failed to initialize logging: " + err.Error() + "\n")
		os.Exit(1)
	}
	defer func() {
		if err := logger.Sync(); err != nil {
			logger.Error(err)
		}
	}()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load(ctx)
	if err != nil {
		os.Stderr.WriteString("failed to load config: " + err.Error() + "\n")
		os.Exit(1)
	}
	if err := logger.SetLevelString(cfg.LogLevel); err != nil {
		_ = logger.SetLevelString("info")
	}

	if err := run(ctx, cfg); err != nil {
		logger.Get().Error(ctx, "batch scoring failed", logger.Error(err))
		switch {
		case errors.Is(err, repository.ErrNotFound):
			os.Stderr.WriteString("a required file is missing; expected a model at " +
				cfg.ModelPath() + " and features at " + cfg.FeaturesPath() + "\n" +
				"run cmd/build-features and cmd/train first\n")
		case errors.Is(err, scoring.ErrMissingFields):
			os.Stderr.WriteString("the feature table does not carry the model's columns; " +
				"rebuild it: go run cmd/build-features/main.go\n")
		}
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *config.Config) error {
	start := time.Now()
	log := logger.Get().Named(jobName)

	log.Info(ctx, "scoring feature table",
		logger.String("features", cfg.FeaturesPath()),
		logger.String("model", cfg.ModelPath()),
		logger.Int("workers", cfg.ScoreWorkers))

	m, err := repository.LoadModel(cfg.ModelPath())
	if err != nil {
		return err
	}
	scorer, err := scoring.New(m)
	if err != nil {
		return err
	}

	tbl, err := repository.ReadTable(cfg.FeaturesPath())
	if err != nil {
		return err
	}

	scored, err := batch.New(scorer, batch.WithWorkers(cfg.ScoreWorkers)).ScoreTable(ctx, tbl)
	if err != nil {
		return err
	}

	if err := repository.WriteTable(cfg.ScoredPath(), scored); err != nil {
		return err
	}

	metrics.UpdateBatchRowsScored(len(scored.Rows))
	metrics.RecordJobDuration(jobName, time.Since(start).Seconds())

	log.Info(ctx, "scored table written",
		logger.String("path", cfg.ScoredPath()),
		logger.Int("rows", len(scored.Rows)),
		logger.String("model_id", m.ID),
		logger.Duration("took", time.Since(start)))
	return nil
}
