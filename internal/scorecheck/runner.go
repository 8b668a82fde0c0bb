// Package scorecheck replays a batch-scored table against a running
// scoring service and verifies that the online probabilities match the
// batch ones. It is the end-to-end consistency check for the two
// scoring paths.
package scorecheck

import (
	"context"
	"fmt"
	"math"
	"strconv"
	"sync"
	"sync/atomic"
	"time"

	"github.com/retainiq/churn/internal/adapters/batch"
	"github.com/retainiq/churn/internal/adapters/repository"
	"github.com/retainiq/churn/internal/domain/model"
	"github.com/retainiq/churn/pkg/logger"
)

const healthStatusOK = 200

// Run executes the complete consistency check.
func Run(ctx context.Context, config *Config) error {
	stats := &Stats{
		StartTime: time.Now(),
	}

	logger.Get().Info(ctx, "starting score consistency check",
		logger.String("baseURL", config.BaseURL),
		logger.String("scoredFile", config.ScoredFile),
		logger.Int("workers", config.Workers),
		logger.String("timeout", config.Timeout.String()),
		logger.Float64("tolerance", config.Tolerance))

	if err := checkServiceHealth(ctx, config); err != nil {
		return fmt.Errorf("service health check failed: %w", err)
	}

	tbl, expected, err := loadScoredTable(config.ScoredFile)
	if err != nil {
		return fmt.Errorf("failed to load scored table: %w", err)
	}
	stats.RowsLoaded = len(tbl.Rows)

	if err := replayRows(ctx, config, tbl, expected, stats); err != nil {
		return fmt.Errorf("row replay failed: %w", err)
	}

	stats.EndTime = time.Now()
	stats.Duration = stats.EndTime.Sub(stats.StartTime)

	displayFinalStats(stats)

	if stats.Mismatches > 0 || stats.RequestsFail > 0 {
		return fmt.Errorf("consistency check failed: %d mismatches, %d request failures",
			stats.Mismatches, stats.RequestsFail)
	}

	logger.Get().Info(ctx, "batch and online scores are consistent")
	return nil
}

// checkServiceHealth verifies the service is running.
func checkServiceHealth(ctx context.Context, config *Config) error {
	logger.Get().Info(ctx, "checking service health")

	client := newHTTPClient(config.Timeout)
	url := config.BaseURL + "/healthz"

	resp, err := client.Get(ctx, url)
	if err != nil {
		return fmt.Errorf("failed to connect to service: %w", err)
	}
	defer func() {
		if err := resp.Body.Close(); err != nil {
			logger.Get().Error(context.Background(), "failed to close response body", logger.Error(err))
		}
	}()

	// Any 200 response counts as healthy (the endpoint serves Prometheus metrics).
	if resp.StatusCode != healthStatusOK {
		return fmt.Errorf("service health check failed with status: %d", resp.StatusCode)
	}

	logger.Get().Info(ctx, "service is healthy")
	return nil
}

// loadScoredTable reads the batch output and extracts the expected
// probability per row.
func loadScoredTable(path string) (*model.Table, []float64, error) {
	tbl, err := repository.ReadTable(path)
	if err != nil {
		return nil, nil, err
	}

	probCol := tbl.ColumnIndex(batch.ProbColumn)
	if probCol < 0 {
		return nil, nil, fmt.Errorf("scored table has no %q column; run the batch scorer first", batch.ProbColumn)
	}
	for _, name := range model.FeatureColumns() {
		if !tbl.HasColumn(name) {
			return nil, nil, fmt.Errorf("scored table has no %q column", name)
		}
	}

	expected := make([]float64, len(tbl.Rows))
	for i := range tbl.Rows {
		v, err := strconv.ParseFloat(tbl.Rows[i][probCol], 64)
		if err != nil {
			return nil, nil, fmt.Errorf("row %d has an unparseable %s value: %w", i+2, batch.ProbColumn, err)
		}
		expected[i] = v
	}
	return tbl, expected, nil
}

// replayRows posts every row to the service concurrently and compares
// probabilities.
func replayRows(ctx context.Context, config *Config, tbl *model.Table, expected []float64, stats *Stats) error {
	logger.Get().Info(ctx, "replaying rows against the service",
		logger.Int("rows", len(tbl.Rows)),
		logger.Int("workers", config.Workers))

	client := newHTTPClient(config.Timeout)
	url := config.BaseURL + "/score"

	featureCols := model.FeatureColumns()
	colIdx := make([]int, len(featureCols))
	for i, name := range featureCols {
		colIdx[i] = tbl.ColumnIndex(name)
	}

	var (
		checked  int64
		matches  int64
		mismatch int64
		failed   int64
	)

	rowChan := make(chan int, config.Workers*2)
	var wg sync.WaitGroup

	for w := 0; w < config.Workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()

			for row := range rowChan {
				select {
				case <-ctx.Done():
					return
				default:
				}

				record := make(map[string]float64, len(featureCols))
				for i, name := range featureCols {
					record[name] = tbl.Float(row, colIdx[i])
				}

				atomic.AddInt64(&checked, 1)
				prob, err := client.scoreRow(ctx, url, record)
				if err != nil {
					atomic.AddInt64(&failed, 1)
					logger.Get().Warn(ctx, "score request failed",
						logger.Int("row", row), logger.Error(err))
					continue
				}

				if math.Abs(prob-expected[row]) <= config.Tolerance {
					atomic.AddInt64(&matches, 1)
					continue
				}

				atomic.AddInt64(&mismatch, 1)
				logger.Get().Warn(ctx, "batch and online probabilities differ",
					logger.Int("row", row),
					logger.Float64("batch", expected[row]),
					logger.Float64("online", prob))
			}
		}()
	}

	go func() {
		defer close(rowChan)
		for row := range tbl.Rows {
			select {
			case <-ctx.Done():
				return
			case rowChan <- row:
			}
		}
	}()

	wg.Wait()

	stats.RowsChecked = int(atomic.LoadInt64(&checked))
	stats.Matches = int(atomic.LoadInt64(&matches))
	stats.Mismatches = int(atomic.LoadInt64(&mismatch))
	stats.RequestsFail = int(atomic.LoadInt64(&failed))

	return ctx.Err()
}

// displayFinalStats prints the final check statistics.
func displayFinalStats(stats *Stats) {
	var rowsPerSecond float64
	if stats.Duration > 0 {
		rowsPerSecond = float64(stats.RowsChecked) / stats.Duration.Seconds()
	}

	logger.Get().Info(context.Background(), "final statistics",
		logger.Int("rowsLoaded", stats.RowsLoaded),
		logger.Int("rowsChecked", stats.RowsChecked),
		logger.Int("matches", stats.Matches),
		logger.Int("mismatches", stats.Mismatches),
		logger.Int("requestFailures", stats.RequestsFail),
		logger.String("duration", stats.Duration.String()),
		logger.Float64("rowsPerSecond", rowsPerSecond))
}
