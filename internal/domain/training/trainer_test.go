package training_test

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/retainiq/churn/internal/domain/model"
	"github.com/retainiq/churn/internal/domain/training"
	. "github.com/smartystreets/goconvey/convey"
)

// featureTable builds a table where low activity and many tickets imply
// churn, with enough rows for a meaningful split.
func featureTable(n int) *model.Table {
	tbl := &model.Table{
		Columns: []string{
			"user_id", "plan",
			"sessions_30d", "avg_session_minutes_30d", "tickets_30d",
			"days_since_last_login", "account_age_days", "churn_label",
		},
	}
	for i := 0; i < n; i++ {
		churned := i%3 == 0
		sessions, minutes, tickets, lastLogin := 20+i%10, 12.0, 0, i%3
		label := "0"
		if churned {
			sessions, minutes, tickets, lastLogin = i%3, 2.5, 3+i%3, 20+i%8
			label = "1"
		}
		tbl.Rows = append(tbl.Rows, []string{
			fmt.Sprintf("u%04d", i), "basic",
			model.FormatFloat(float64(sessions)),
			model.FormatFloat(minutes),
			model.FormatFloat(float64(tickets)),
			model.FormatFloat(float64(lastLogin)),
			model.FormatFloat(float64(100 + i)),
			label,
		})
	}
	return tbl
}

func TestTrainer_Train(t *testing.T) {
	Convey("Given a well-formed feature table", t, func() {
		tbl := featureTable(120)
		trainer := training.New(training.WithSeed(42))

		Convey("When training", func() {
			res, err := trainer.Train(context.Background(), tbl)
			So(err, ShouldBeNil)

			Convey("Then the model separates the synthetic classes", func() {
				So(res.Metrics.AUC, ShouldBeGreaterThan, 0.9)
				So(res.Metrics.Report.Positive.Support, ShouldBeGreaterThan, 0)
				So(res.Metrics.Report.Negative.Support, ShouldBeGreaterThan, 0)
				So(res.Metrics.Report.Accuracy, ShouldBeGreaterThan, 0.8)
			})

			Convey("Then importances cover the full schema, ranked descending", func() {
				So(res.Importances, ShouldHaveLength, len(model.FeatureColumns()))
				for i := 1; i < len(res.Importances); i++ {
					So(res.Importances[i].Importance, ShouldBeLessThanOrEqualTo, res.Importances[i-1].Importance)
				}
			})

			Convey("Then a rerun with the same seed reproduces everything observable", func() {
				again, err := training.New(training.WithSeed(42)).Train(context.Background(), tbl)
				So(err, ShouldBeNil)
				So(again.Metrics, ShouldResemble, res.Metrics)
				So(again.Importances, ShouldResemble, res.Importances)
				So(again.Model.Weights, ShouldResemble, res.Model.Weights)
			})
		})
	})

	Convey("Given a table missing several required columns", t, func() {
		tbl := &model.Table{
			Columns: []string{"user_id", "sessions_30d", "account_age_days"},
			Rows:    [][]string{{"u1", "3", "100"}},
		}

		Convey("Then training fails naming every missing column", func() {
			_, err := training.New().Train(context.Background(), tbl)
			So(err, ShouldWrap, training.ErrMissingColumns)

			var missingErr *training.MissingColumnsError
			So(errors.As(err, &missingErr), ShouldBeTrue)
			So(missingErr.Missing, ShouldResemble, []string{
				"avg_session_minutes_30d",
				"tickets_30d",
				"days_since_last_login",
				"churn_label",
			})
		})
	})

	Convey("Given a table with rows but a single label class", t, func() {
		tbl := featureTable(40)
		labelCol := tbl.ColumnIndex("churn_label")
		for _, row := range tbl.Rows {
			row[labelCol] = "0"
		}

		Convey("Then training fails: AUC is undefined", func() {
			_, err := training.New().Train(context.Background(), tbl)
			So(err, ShouldWrap, training.ErrSingleClass)
		})
	})

	Convey("Given an empty table with a valid header", t, func() {
		tbl := featureTable(0)

		Convey("Then training fails with ErrNoRows", func() {
			_, err := training.New().Train(context.Background(), tbl)
			So(err, ShouldWrap, training.ErrNoRows)
		})
	})

	Convey("Given missing numeric cells", t, func() {
		tbl := featureTable(60)
		col := tbl.ColumnIndex("tickets_30d")
		for i := range tbl.Rows {
			if i%5 == 0 {
				tbl.Rows[i][col] = ""
			}
		}

		Convey("Then they are treated as zero and training still succeeds", func() {
			res, err := training.New().Train(context.Background(), tbl)
			So(err, ShouldBeNil)
			So(res.Model, ShouldNotBeNil)
		})
	})
}
