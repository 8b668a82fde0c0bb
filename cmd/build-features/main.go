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
	"github.com/retainiq/churn/internal/domain/features"
	"github.com/retainiq/churn/pkg/logger"
	"github.com/retainiq/churn/pkg/metrics"
)

const jobName = "build_features"

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
		logger.Get().Error(ctx, "feature build failed", logger.Error(err))
		if errors.Is(err, repository.ErrNotFound) {
			os.Stderr.WriteString("a required input file is missing; expected " +
				cfg.UsersPath() + ", " + cfg.EventsPath() + " and " + cfg.SupportPath() + "\n")
		}
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *config.Config) error {
	start := time.Now()
	log := logger.Get().Named(jobName)

	log.Info(ctx, "building feature table",
		logger.String("data_dir", cfg.DataDir),
		logger.Int("window_days", cfg.WindowDays))

	users, err := repository.LoadUsers(cfg.UsersPath())
	if err != nil {
		return err
	}
	events, err := repository.LoadEvents(cfg.EventsPath())
	if err != nil {
		return err
	}
	tickets, err := repository.LoadSupport(cfg.SupportPath())
	if err != nil {
		return err
	}
	labels, err := repository.LoadLabels(cfg.LabelsPath())
	if err != nil {
		return err
	}
	if labels == nil {
		log.Warn(ctx, "labels file not found; churn_label defaults to 0",
			logger.String("path", cfg.LabelsPath()))
	}

	builder := features.New(features.WithWindowDays(cfg.WindowDays))
	vectors, err := builder.Build(ctx, features.Input{
		Users:   users,
		Events:  events,
		Tickets: tickets,
		Labels:  labels,
	})
	if err != nil {
		return err
	}

	if err := repository.WriteFeatureTable(cfg.FeaturesPath(), vectors); err != nil {
		return err
	}

	metrics.UpdateFeatureRowsBuilt(len(vectors))
	metrics.RecordJobDuration(jobName, time.Since(start).Seconds())

	refDate, _ := builder.ReferenceDate(events)
	log.Info(ctx, "feature table written",
		logger.String("path", cfg.FeaturesPath()),
		logger.Int("rows", len(vectors)),
		logger.Time("reference_date", refDate),
		logger.Duration("took", time.Since(start)))
	return nil
}
