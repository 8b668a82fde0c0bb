package scorecheck

import (
	"fmt"
	"os"

	"github.com/retainiq/churn/pkg/logger"
)

// SetupLogging initializes the shared logger for the check tool.
func SetupLogging() error {
	if err := logger.Init(); err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	return nil
}

// ShowHelp prints usage information for the score check tool.
func ShowHelp() {
	os.Stdout.WriteString(`Score Consistency Check Tool
============================

Replays a batch-scored CSV against a running scoring service and verifies
that the online probabilities match the batch ones.

Usage:
  go run cmd/score-check/main.go [options]

Options:
  -url string
        Base URL of the scoring service (default "http://localhost:5000")
  -scored string
        Batch-scored CSV to replay (default "data/scored_batch.csv")
  -workers int
        Number of concurrent workers (default CPU cores * 2)
  -timeout duration
        HTTP request timeout (default 30s)
  -tolerance float
        Maximum allowed probability difference (default 1e-9)
  -verbose
        Enable verbose logging
  -help
        Show this help message

Examples:
  # Check with default settings
  go run cmd/score-check/main.go

  # Check a custom file against a remote service
  go run cmd/score-check/main.go -scored out/scored.csv -url http://scoring:5000
`)
}
