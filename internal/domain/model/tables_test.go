package model_test

import (
	"testing"
	"time"

	"github.com/retainiq/churn/internal/domain/model"
	. "github.com/smartystreets/goconvey/convey"
)

func TestFeatureVector_Features(t *testing.T) {
	Convey("Given a populated feature vector", t, func() {
		v := model.FeatureVector{
			UserID:               "u1",
			SignupDate:           time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
			Sessions30d:          5,
			AvgSessionMinutes30d: 9,
			Tickets30d:           2,
			DaysSinceLastLogin:   0,
			AccountAgeDays:       180,
		}

		Convey("Then Features follows the schema order", func() {
			So(v.Features(), ShouldResemble, []float64{5, 9, 2, 0, 180})
		})

		Convey("And the column lists stay aligned", func() {
			So(model.FeatureColumns(), ShouldResemble, []string{
				"sessions_30d",
				"avg_session_minutes_30d",
				"tickets_30d",
				"days_since_last_login",
				"account_age_days",
			})
			So(len(model.TableColumns()), ShouldEqual, 11)
			So(model.TableColumns()[0], ShouldEqual, "user_id")
			So(model.TableColumns()[8], ShouldEqual, "churn_label")
		})
	})
}
