package main

import (
	"context"
	"flag"
	"os"
	"runtime"
	"time"

	"github.com/retainiq/churn/internal/scorecheck"
)

// Default configuration constants.
const (
	defaultScoredFile   = "data/scored_batch.csv"
	defaultWorkers      = 2 // multiplier for runtime.NumCPU()
	defaultTimeout      = 30 * time.Second
	defaultTolerance    = 1e-9
	defaultCheckTimeout = 10 * time.Minute
)

func main() {
	var (
		baseURL    = flag.String("url", "http://localhost:5000", "Base URL of the scoring service")
		scoredFile = flag.String("scored", defaultScoredFile, "Batch-scored CSV to replay")
		workers    = flag.Int("workers", runtime.NumCPU()*defaultWorkers, "Number of concurrent workers")
		timeout    = flag.Duration("timeout", defaultTimeout, "HTTP request timeout")
		tolerance  = flag.Float64("tolerance", defaultTolerance, "Maximum allowed probability difference")
		verbose    = flag.Bool("verbose", false, "Enable verbose logging")
		help       = flag.Bool("help", false, "Show help")
	)
	flag.Parse()

	if *help {
		scorecheck.ShowHelp()
		return
	}

	if err := scorecheck.SetupLogging(); err != nil {
		os.Stderr.WriteString("Failed to setup logging: " + err.Error() + "\n")
		os.Exit(1)
	}

	ctx, cancel := context.WithTimeout(context.Background(), defaultCheckTimeout)
	defer cancel()

	config := &scorecheck.Config{
		BaseURL:    *baseURL,
		ScoredFile: *scoredFile,
		Workers:    *workers,
		Timeout:    *timeout,
		Tolerance:  *tolerance,
		Verbose:    *verbose,
	}

	if err := scorecheck.Run(ctx, config); err != nil {
		os.Stderr.WriteString("Check failed: " + err.Error() + "\n")
		os.Exit(1)
	}
}
