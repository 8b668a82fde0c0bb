package training

import (
	"testing"

	. "github.com/smartystreets/goconvey/convey"
)

func TestStratifiedSplit(t *testing.T) {
	Convey("Given labels with a 1:4 class ratio", t, func() {
		y := make([]int, 100)
		for i := 0; i < 20; i++ {
			y[i] = 1
		}

		Convey("When splitting with a 0.2 test fraction", func() {
			train, test := stratifiedSplit(y, 0.2, 42)

			Convey("Then the partitions are disjoint and complete", func() {
				So(len(train)+len(test), ShouldEqual, 100)
				seen := map[int]bool{}
				for _, idx := range append(append([]int{}, train...), test...) {
					So(seen[idx], ShouldBeFalse)
					seen[idx] = true
				}
			})

			Convey("Then both partitions preserve the label ratio", func() {
				countPos := func(idx []int) int {
					n := 0
					for _, i := range idx {
						if y[i] == 1 {
							n++
						}
					}
					return n
				}
				So(countPos(test), ShouldEqual, 4)   // 20% of 20
				So(countPos(train), ShouldEqual, 16) // 80% of 20
				So(len(test), ShouldEqual, 20)
			})

			Convey("Then the same seed reproduces the split", func() {
				train2, test2 := stratifiedSplit(y, 0.2, 42)
				So(train2, ShouldResemble, train)
				So(test2, ShouldResemble, test)
			})

			Convey("Then a different seed moves rows around", func() {
				_, test2 := stratifiedSplit(y, 0.2, 7)
				So(len(test2), ShouldEqual, len(test))
			})
		})

		Convey("When a class has only two rows", func() {
			small := []int{0, 0, 0, 0, 0, 0, 0, 0, 1, 1}
			train, test := stratifiedSplit(small, 0.2, 1)

			Convey("Then neither partition loses the class entirely", func() {
				var trainPos, testPos int
				for _, i := range train {
					trainPos += small[i]
				}
				for _, i := range test {
					testPos += small[i]
				}
				So(trainPos, ShouldEqual, 1)
				So(testPos, ShouldEqual, 1)
			})
		})
	})
}

func TestRocAUC(t *testing.T) {
	Convey("Given perfectly separated probabilities", t, func() {
		y := []int{0, 0, 1, 1}
		probs := []float64{0.1, 0.2, 0.8, 0.9}

		auc, err := rocAUC(y, probs)
		So(err, ShouldBeNil)
		So(auc, ShouldEqual, 1.0)
	})

	Convey("Given inverted probabilities", t, func() {
		y := []int{1, 1, 0, 0}
		probs := []float64{0.1, 0.2, 0.8, 0.9}

		auc, err := rocAUC(y, probs)
		So(err, ShouldBeNil)
		So(auc, ShouldEqual, 0.0)
	})

	Convey("Given fully tied probabilities", t, func() {
		y := []int{0, 1, 0, 1}
		probs := []float64{0.5, 0.5, 0.5, 0.5}

		auc, err := rocAUC(y, probs)
		So(err, ShouldBeNil)
		So(auc, ShouldEqual, 0.5)
	})

	Convey("Given a single-class label set", t, func() {
		_, err := rocAUC([]int{1, 1, 1}, []float64{0.1, 0.5, 0.9})
		So(err, ShouldWrap, ErrSingleClass)
	})
}

func TestClassificationReport(t *testing.T) {
	Convey("Given known predictions", t, func() {
		y := []int{1, 1, 1, 1, 0, 0, 0, 0, 0, 0}
		pred := []int{1, 1, 1, 0, 0, 0, 0, 0, 1, 1}

		report := classificationReport(y, pred)

		Convey("Then per-class numbers match hand computation", func() {
			// tp=3 fn=1 fp=2 tn=4
			So(report.Positive.Precision, ShouldEqual, 0.6)
			So(report.Positive.Recall, ShouldEqual, 0.75)
			So(report.Positive.Support, ShouldEqual, 4)
			So(report.Negative.Recall, ShouldAlmostEqual, 4.0/6.0)
			So(report.Negative.Precision, ShouldEqual, 0.8)
			So(report.Negative.Support, ShouldEqual, 6)
			So(report.Accuracy, ShouldEqual, 0.7)
		})

		Convey("Then averages weight by support", func() {
			So(report.MacroAvg.Support, ShouldEqual, 10)
			So(report.WeightedAvg.Precision, ShouldAlmostEqual, (0.8*6+0.6*4)/10)
		})
	})
}
