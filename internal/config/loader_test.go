package config_test

import (
	"context"
	"os"
	"testing"

	"github.com/retainiq/churn/internal/config"
	"github.com/smartystreets/goconvey/convey"
)

func TestConfigLoader(t *testing.T) {
	convey.Convey("Given a config loader", t, func() {
		ctx := context.Background()

		convey.Convey("When loading config with defaults only", func() {
			clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should load successfully with defaults", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg, convey.ShouldNotBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":5000")
				convey.So(cfg.DataDir, convey.ShouldEqual, "data")
				convey.So(cfg.WindowDays, convey.ShouldEqual, 30)
				convey.So(cfg.Seed, convey.ShouldEqual, 42)
			})
		})

		convey.Convey("When loading config with environment variables", func() {
			_ = os.Setenv("CHURN_ADDR", ":8080")
			_ = os.Setenv("CHURN_DATA_DIR", "/tmp/churn-data")
			_ = os.Setenv("CHURN_WINDOW_DAYS", "14")
			_ = os.Setenv("CHURN_SEED", "7")
			_ = os.Setenv("CHURN_SCORE_WORKERS", "4")
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should override defaults with env vars", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg, convey.ShouldNotBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":8080")
				convey.So(cfg.DataDir, convey.ShouldEqual, "/tmp/churn-data")
				convey.So(cfg.WindowDays, convey.ShouldEqual, 14)
				convey.So(cfg.Seed, convey.ShouldEqual, 7)
				convey.So(cfg.ScoreWorkers, convey.ShouldEqual, 4)
			})
		})

		convey.Convey("When loading config with a YAML file", func() {
			yamlContent := `
addr: ":9090"
data_dir: "/srv/churn"
window_days: 60
test_fraction: 0.25
model_file: "model_v2.json"
`
			tmpFile := createTempConfigFile(t, yamlContent)
			defer func() { _ = os.Remove(tmpFile) }()

			clearConfigEnvVars()
			_ = os.Setenv("CHURN_CONFIG", tmpFile)
			defer func() { _ = os.Unsetenv("CHURN_CONFIG") }()

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should apply the file values", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":9090")
				convey.So(cfg.DataDir, convey.ShouldEqual, "/srv/churn")
				convey.So(cfg.WindowDays, convey.ShouldEqual, 60)
				convey.So(cfg.TestFraction, convey.ShouldEqual, 0.25)
				convey.So(cfg.ModelFile, convey.ShouldEqual, "model_v2.json")
			})
		})

		convey.Convey("When the config is invalid", func() {
			clearConfigEnvVars()
			_ = os.Setenv("CHURN_WINDOW_DAYS", "0")
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should fail validation", func() {
				convey.So(cfg, convey.ShouldBeNil)
				convey.So(err, convey.ShouldNotBeNil)
			})
		})
	})
}

func clearConfigEnvVars() {
	for _, key := range []string{
		"CHURN_CONFIG",
		"CHURN_ADDR",
		"CHURN_DATA_DIR",
		"CHURN_WINDOW_DAYS",
		"CHURN_SEED",
		"CHURN_TEST_FRACTION",
		"CHURN_SCORE_WORKERS",
		"CHURN_MAX_BATCH_RECORDS",
	} {
		_ = os.Unsetenv(key)
	}
}

func createTempConfigFile(t *testing.T, content string) string {
	t.Helper()
	f, err := os.CreateTemp("", "churn-config-*.yaml")
	if err != nil {
		t.Fatalf("failed to create temp config: %v", err)
	}
	if _, err := f.WriteString(content); err != nil {
		t.Fatalf("failed to write temp config: %v", err)
	}
	_ = f.Close()
	return f.Name()
}
