package classifier_test

import (
	"context"
	"testing"

	"github.com/retainiq/churn/internal/domain/classifier"
	. "github.com/smartystreets/goconvey/convey"
)

var testColumns = []string{"sessions_30d", "tickets_30d"}

// separable rows: low sessions and high tickets churn.
func separableData() ([][]float64, []int) {
	x := [][]float64{
		{20, 0}, {18, 1}, {25, 0}, {22, 0}, {19, 1}, {30, 0},
		{1, 4}, {0, 5}, {2, 3}, {1, 5}, {0, 4}, {3, 3},
	}
	y := []int{0, 0, 0, 0, 0, 0, 1, 1, 1, 1, 1, 1}
	return x, y
}

func TestFitAndPredict(t *testing.T) {
	Convey("Given linearly separable training data", t, func() {
		x, y := separableData()
		m, err := classifier.Fit(context.Background(), testColumns, x, y)
		So(err, ShouldBeNil)

		Convey("Then probabilities separate the classes", func() {
			retained, err := m.PredictProba([]float64{24, 0})
			So(err, ShouldBeNil)
			churned, err := m.PredictProba([]float64{0, 5})
			So(err, ShouldBeNil)
			So(retained, ShouldBeLessThan, 0.5)
			So(churned, ShouldBeGreaterThan, 0.5)
		})

		Convey("Then probabilities stay in [0, 1]", func() {
			for _, row := range x {
				p, err := m.PredictProba(row)
				So(err, ShouldBeNil)
				So(p, ShouldBeBetweenOrEqual, 0, 1)
			}
		})

		Convey("Then refitting the same data gives identical parameters", func() {
			again, err := classifier.Fit(context.Background(), testColumns, x, y)
			So(err, ShouldBeNil)
			So(again.Weights, ShouldResemble, m.Weights)
			So(again.Intercept, ShouldEqual, m.Intercept)
			So(again.Means, ShouldResemble, m.Means)
			So(again.Stddevs, ShouldResemble, m.Stddevs)
		})

		Convey("Then a wrong-width row is rejected", func() {
			_, err := m.PredictProba([]float64{1, 2, 3})
			So(err, ShouldWrap, classifier.ErrShapeMismatch)
		})
	})

	Convey("Given degenerate inputs", t, func() {
		Convey("An empty training set is rejected", func() {
			_, err := classifier.Fit(context.Background(), testColumns, nil, nil)
			So(err, ShouldWrap, classifier.ErrEmptyTrainingSet)
		})

		Convey("Mismatched rows and labels are rejected", func() {
			_, err := classifier.Fit(context.Background(), testColumns, [][]float64{{1, 2}}, []int{0, 1})
			So(err, ShouldWrap, classifier.ErrShapeMismatch)
		})

		Convey("A constant column does not blow up standardization", func() {
			x := [][]float64{{1, 0}, {2, 0}, {3, 0}, {4, 0}}
			y := []int{0, 0, 1, 1}
			m, err := classifier.Fit(context.Background(), testColumns, x, y)
			So(err, ShouldBeNil)
			p, err := m.PredictProba([]float64{2, 0})
			So(err, ShouldBeNil)
			So(p, ShouldBeBetweenOrEqual, 0, 1)
		})
	})
}

func TestImportances(t *testing.T) {
	Convey("Given a fitted model", t, func() {
		x, y := separableData()
		m, err := classifier.Fit(context.Background(), testColumns, x, y)
		So(err, ShouldBeNil)

		imps := m.Importances()

		Convey("Then importances cover every column, sum to one, and rank descending", func() {
			So(imps, ShouldHaveLength, len(testColumns))
			var sum float64
			for i, imp := range imps {
				sum += imp.Importance
				if i > 0 {
					So(imp.Importance, ShouldBeLessThanOrEqualTo, imps[i-1].Importance)
				}
			}
			So(sum, ShouldAlmostEqual, 1.0, 1e-9)
		})
	})
}

func TestArtifactRoundTrip(t *testing.T) {
	Convey("Given a fitted model", t, func() {
		x, y := separableData()
		m, err := classifier.Fit(context.Background(), testColumns, x, y)
		So(err, ShouldBeNil)

		Convey("When marshaled and unmarshaled", func() {
			data, err := m.Marshal()
			So(err, ShouldBeNil)
			loaded, err := classifier.Unmarshal(data)
			So(err, ShouldBeNil)

			Convey("Then the loaded model scores identically", func() {
				for _, row := range x {
					want, err := m.PredictProba(row)
					So(err, ShouldBeNil)
					got, err := loaded.PredictProba(row)
					So(err, ShouldBeNil)
					So(got, ShouldEqual, want)
				}
			})
		})

		Convey("When the artifact is corrupted", func() {
			_, err := classifier.Unmarshal([]byte("{"))
			So(err, ShouldWrap, classifier.ErrBadArtifact)

			_, err = classifier.Unmarshal([]byte(`{"columns":["a"],"means":[0],"stddevs":[0],"weights":[1]}`))
			So(err, ShouldWrap, classifier.ErrBadArtifact)

			_, err = classifier.Unmarshal([]byte(`{"columns":[],"means":[],"stddevs":[],"weights":[]}`))
			So(err, ShouldWrap, classifier.ErrBadArtifact)
		})
	})
}
