package batch_test

import (
	"context"
	"strconv"
	"testing"

	"github.com/retainiq/churn/internal/adapters/batch"
	"github.com/retainiq/churn/internal/domain/classifier"
	"github.com/retainiq/churn/internal/domain/model"
	"github.com/retainiq/churn/internal/domain/scoring"
	. "github.com/smartystreets/goconvey/convey"
)

func fittedScorer(t *testing.T) *scoring.ModelScorer {
	t.Helper()
	x := [][]float64{
		{25, 12, 0, 0, 200}, {22, 10, 0, 1, 150}, {28, 14, 1, 0, 300},
		{1, 2, 4, 25, 90}, {0, 0, 5, -1, 40}, {2, 3, 3, 20, 120},
	}
	y := []int{0, 0, 0, 1, 1, 1}
	m, err := classifier.Fit(context.Background(), model.FeatureColumns(), x, y)
	if err != nil {
		t.Fatalf("fit failed: %v", err)
	}
	s, err := scoring.New(m)
	if err != nil {
		t.Fatalf("scorer failed: %v", err)
	}
	return s
}

func scoringTable(n int) *model.Table {
	tbl := &model.Table{
		Columns: append([]string{"user_id", "plan"}, model.FeatureColumns()...),
	}
	for i := 0; i < n; i++ {
		tbl.Rows = append(tbl.Rows, []string{
			"u" + strconv.Itoa(i), "basic",
			model.FormatFloat(float64(i % 30)),
			model.FormatFloat(float64(i % 15)),
			model.FormatFloat(float64(i % 4)),
			model.FormatFloat(float64(i % 40)),
			model.FormatFloat(float64(50 + i)),
		})
	}
	return tbl
}

func TestScoreTable(t *testing.T) {
	Convey("Given a feature table and a batch scorer", t, func() {
		scorer := fittedScorer(t)
		tbl := scoringTable(200)
		b := batch.New(scorer, batch.WithWorkers(8))

		Convey("When scoring the table", func() {
			scored, err := b.ScoreTable(context.Background(), tbl)
			So(err, ShouldBeNil)

			Convey("Then churn_prob is appended and everything else is preserved", func() {
				So(scored.Columns, ShouldResemble, append(append([]string{}, tbl.Columns...), batch.ProbColumn))
				So(scored.Rows, ShouldHaveLength, len(tbl.Rows))
				for i, row := range scored.Rows {
					So(row[:len(tbl.Columns)], ShouldResemble, tbl.Rows[i])
				}
			})

			Convey("Then the input table is not modified", func() {
				So(len(tbl.Columns), ShouldEqual, 7)
				So(len(tbl.Rows[0]), ShouldEqual, 7)
			})

			Convey("Then batch probabilities match the online path row by row", func() {
				probCol := scored.ColumnIndex(batch.ProbColumn)
				cols := make([]int, 0, len(model.FeatureColumns()))
				for _, name := range model.FeatureColumns() {
					cols = append(cols, tbl.ColumnIndex(name))
				}
				for i := range tbl.Rows {
					rec := scoring.Record{}
					row := tbl.FeatureRow(i, cols)
					for j, name := range model.FeatureColumns() {
						rec[name] = row[j]
					}
					want, err := scorer.Score(context.Background(), rec)
					So(err, ShouldBeNil)
					So(scored.Rows[i][probCol], ShouldEqual, model.FormatFloat(want))
				}
			})

			Convey("Then a sequential run produces identical output", func() {
				sequential, err := batch.New(scorer, batch.WithWorkers(1)).ScoreTable(context.Background(), tbl)
				So(err, ShouldBeNil)
				So(sequential, ShouldResemble, scored)
			})
		})

		Convey("When the table lacks feature columns", func() {
			bad := &model.Table{Columns: []string{"user_id", "sessions_30d"}, Rows: [][]string{{"u1", "3"}}}
			_, err := b.ScoreTable(context.Background(), bad)

			Convey("Then the missing columns are reported", func() {
				So(err, ShouldWrap, scoring.ErrMissingFields)
			})
		})

		Convey("When a numeric cell is empty", func() {
			tbl.Rows[0][tbl.ColumnIndex("tickets_30d")] = ""
			scored, err := b.ScoreTable(context.Background(), tbl)

			Convey("Then it scores as zero instead of failing the row", func() {
				So(err, ShouldBeNil)
				So(scored.Rows[0][scored.ColumnIndex(batch.ProbColumn)], ShouldNotBeEmpty)
			})
		})
	})
}
