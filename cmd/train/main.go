package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/retainiq/churn/internal/adapters/repository"
	"github.com/retainiq/churn/internal/config"
	"github.com/retainiq/churn/internal/domain/training"
	"github.com/retainiq/churn/pkg/logger"
	"github.com/retainiq/churn/pkg/metrics"
)

const jobName = "train"

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
		logger.Get().Error(ctx, "training failed", logger.Error(err))
		switch {
		case errors.Is(err, repository.ErrNotFound):
			os.Stderr.WriteString("feature table not found at " + cfg.FeaturesPath() +
				"; run the feature build first: go run cmd/build-features/main.go\n")
		case errors.Is(err, training.ErrMissingColumns):
			os.Stderr.WriteString("the feature table is missing required columns; " +
				"rebuild it: go run cmd/build-features/main.go\n")
		case errors.Is(err, training.ErrSingleClass):
			os.Stderr.WriteString("training needs both churned and retained users in the labels\n")
		}
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *config.Config) error {
	start := time.Now()
	log := logger.Get().Named(jobName)

	log.Info(ctx, "training churn model",
		logger.String("features", cfg.FeaturesPath()),
		logger.Int("seed", int(cfg.Seed)),
		logger.Float64("test_fraction", cfg.TestFraction))

	tbl, err := repository.ReadTable(cfg.FeaturesPath())
	if err != nil {
		return err
	}

	trainer := training.New(
		training.WithSeed(cfg.Seed),
		training.WithTestFraction(cfg.TestFraction),
	)
	result, err := trainer.Train(ctx, tbl)
	if err != nil {
		return err
	}

	if err := repository.SaveModel(cfg.ModelPath(), result.Model); err != nil {
		return err
	}
	if err := repository.WriteMetrics(cfg.MetricsPath(), result.Metrics); err != nil {
		return err
	}
	if err := repository.WriteImportances(cfg.ImportancesPath(), result.Importances); err != nil {
		return err
	}

	metrics.RecordTrainAUC(result.Metrics.AUC)
	metrics.RecordJobDuration(jobName, time.Since(start).Seconds())

	log.Info(ctx, "model trained",
		logger.String("model_id", result.Model.ID),
		logger.Float64("auc", result.Metrics.AUC),
		logger.String("model", cfg.ModelPath()),
		logger.String("metrics", cfg.MetricsPath()),
		logger.String("importances", cfg.ImportancesPath()),
		logger.Duration("took", time.Since(start)))
	return nil
}
