// Package config defines configuration for the churn service and jobs.
//
// Conventions:
// - Provide New() to build a Config with defaults.
// - Load(ctx) layers defaults, an optional YAML file, and env vars.
// - External errors must be wrapped via this package's sentinel errors.
package config

import (
	"path/filepath"
	"runtime"
)

// Config contains process configuration shared by the service and the
// offline jobs. Jobs read only the fields they need.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// Addr configures the HTTP listen address, e.g. ":8080".
	Addr string `koanf:"addr"`

	// DataDir is the directory holding the raw tables and produced
	// artifacts.
	DataDir string `koanf:"data_dir"`

	// WindowDays is the activity aggregation window anchored at the
	// reference date.
	WindowDays int `koanf:"window_days"`

	// Seed drives the stratified train/test split.
	Seed int64 `koanf:"seed"`

	// TestFraction is the share of rows held out for evaluation.
	TestFraction float64 `koanf:"test_fraction"`

	// ScoreWorkers bounds the batch scoring fan-out.
	ScoreWorkers int `koanf:"score_workers"`

	// MaxBatchRecords caps the size of a single POST /score array.
	MaxBatchRecords int `koanf:"max_batch_records"`

	// File names inside DataDir.
	UsersFile       string `koanf:"users_file"`
	EventsFile      string `koanf:"events_file"`
	SupportFile     string `koanf:"support_file"`
	LabelsFile      string `koanf:"labels_file"`
	FeaturesFile    string `koanf:"features_file"`
	ModelFile       string `koanf:"model_file"`
	MetricsFile     string `koanf:"metrics_file"`
	ImportancesFile string `koanf:"importances_file"`
	ScoredFile      string `koanf:"scored_file"`
}

// New creates a Config with defaults mirroring the historical data layout.
func New() *Config {
	return &Config{
		LogLevel:        "info",
		Addr:            ":5000",
		DataDir:         "data",
		WindowDays:      30,
		Seed:            42,
		TestFraction:    0.2,
		ScoreWorkers:    runtime.NumCPU(),
		MaxBatchRecords: 10_000,
		UsersFile:       "users.csv",
		EventsFile:      "events.csv",
		SupportFile:     "support.csv",
		LabelsFile:      "labels.csv",
		FeaturesFile:    "features_table.csv",
		ModelFile:       "churn_model.json",
		MetricsFile:     "performance_metrics.json",
		ImportancesFile: "feature_importances.csv",
		ScoredFile:      "scored_batch.csv",
	}
}

// Path helpers resolve file names against DataDir.

func (c *Config) UsersPath() string       { return filepath.Join(c.DataDir, c.UsersFile) }
func (c *Config) EventsPath() string      { return filepath.Join(c.DataDir, c.EventsFile) }
func (c *Config) SupportPath() string     { return filepath.Join(c.DataDir, c.SupportFile) }
func (c *Config) LabelsPath() string      { return filepath.Join(c.DataDir, c.LabelsFile) }
func (c *Config) FeaturesPath() string    { return filepath.Join(c.DataDir, c.FeaturesFile) }
func (c *Config) ModelPath() string       { return filepath.Join(c.DataDir, c.ModelFile) }
func (c *Config) MetricsPath() string     { return filepath.Join(c.DataDir, c.MetricsFile) }
func (c *Config) ImportancesPath() string { return filepath.Join(c.DataDir, c.ImportancesFile) }
func (c *Config) ScoredPath() string      { return filepath.Join(c.DataDir, c.ScoredFile) }
