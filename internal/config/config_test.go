package config_test

import (
	"path/filepath"
	"runtime"
	"testing"

	"github.com/retainiq/churn/internal/config"
	"github.com/smartystreets/goconvey/convey"
)

func TestConfig_New(t *testing.T) {
	convey.Convey("Given a new config with default options", t, func() {
		cfg := config.New()

		convey.Convey("Then it should have sensible defaults", func() {
			convey.So(cfg.Addr, convey.ShouldEqual, ":5000")
			convey.So(cfg.DataDir, convey.ShouldEqual, "data")
			convey.So(cfg.WindowDays, convey.ShouldEqual, 30)
			convey.So(cfg.Seed, convey.ShouldEqual, 42)
			convey.So(cfg.TestFraction, convey.ShouldEqual, 0.2)
			convey.So(cfg.ScoreWorkers, convey.ShouldEqual, runtime.NumCPU())
			convey.So(cfg.MaxBatchRecords, convey.ShouldEqual, 10_000)
		})

		convey.Convey("Then path helpers should resolve against DataDir", func() {
			convey.So(cfg.UsersPath(), convey.ShouldEqual, filepath.Join("data", "users.csv"))
			convey.So(cfg.EventsPath(), convey.ShouldEqual, filepath.Join("data", "events.csv"))
			convey.So(cfg.FeaturesPath(), convey.ShouldEqual, filepath.Join("data", "features_table.csv"))
			convey.So(cfg.ModelPath(), convey.ShouldEqual, filepath.Join("data", "churn_model.json"))
			convey.So(cfg.ScoredPath(), convey.ShouldEqual, filepath.Join("data", "scored_batch.csv"))
		})
	})
}
