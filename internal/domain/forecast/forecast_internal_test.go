package forecast

import (
	"errors"
	"testing"
	"time"

	"github.com/okian/skillpulse/internal/domain/model"
	. "github.com/smartystreets/goconvey/convey"
)

func TestRound2(t *testing.T) {
	Convey("Rounding is half away from zero", t, func() {
		So(round2(0.125), ShouldEqual, 0.13)
		So(round2(-0.125), ShouldEqual, -0.13)
		So(round2(1.234), ShouldEqual, 1.23)
		So(round2(42), ShouldEqual, 42)
	})
}

func TestChangePercent(t *testing.T) {
	Convey("Zero current demand yields zero change", t, func() {
		So(changePercent(0, 57), ShouldEqual, 0)
		So(changePercent(10, 15), ShouldEqual, 50)
		So(changePercent(10, 5), ShouldEqual, -50)
	})
}

func TestNewPointClamps(t *testing.T) {
	Convey("Bounds that cross the prediction are clamped onto it", t, func() {
		day := time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC)
		p := newPoint(day, 10, 11, 9)
		So(p.Date, ShouldEqual, "2024-01-02")
		So(p.LowerBound, ShouldEqual, 10)
		So(p.UpperBound, ShouldEqual, 10)
	})
}

func TestFitAdditive(t *testing.T) {
	Convey("Given fewer than two points", t, func() {
		_, err := fitAdditive([]model.HistoryPoint{{Month: time.Now(), MentionCount: 1}}, defaultSeasonalPenalty)
		So(errors.Is(err, ErrInsufficientHistory), ShouldBeTrue)
	})

	Convey("Given two points in the same month", t, func() {
		m := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
		_, err := fitAdditive([]model.HistoryPoint{{Month: m, MentionCount: 1}, {Month: m, MentionCount: 2}}, defaultSeasonalPenalty)
		So(errors.Is(err, ErrFitFailed), ShouldBeTrue)
	})

	Convey("Given a linear series", t, func() {
		var pts []model.HistoryPoint
		for i := 0; i < 6; i++ {
			pts = append(pts, model.HistoryPoint{Month: time.Date(2023, time.Month(i+1), 1, 0, 0, 0, 0, time.UTC), MentionCount: 10 + 2*i})
		}
		m, err := fitAdditive(pts, defaultSeasonalPenalty)
		So(err, ShouldBeNil)

		Convey("Then in-sample predictions stay close to observations", func() {
			row := make([]float64, numFeatures())
			for _, p := range pts {
				got := m.predict(daysBetween(m.origin, p.Month), row)
				So(got, ShouldAlmostEqual, float64(p.MentionCount), 1.5)
			}
		})
	})
}

func TestProjectionInterval(t *testing.T) {
	counts := []int{5, 8, 6, 8, 5, 7, 8, 5, 6, 8}
	for _, n := range []int{3, 6, 10} {
		var pts []model.HistoryPoint
		for i := 0; i < n; i++ {
			pts = append(pts, model.HistoryPoint{
				Month:        time.Date(2023, time.Month(i+1), 1, 0, 0, 0, 0, time.UTC),
				MentionCount: counts[i],
			})
		}

		Convey("Given a noisy monthly series", t, func() {
			m, err := fitAdditive(pts, defaultSeasonalPenalty)
			So(err, ShouldBeNil)

			Convey("Then the interval is at least the count noise", func() {
				So(m.sigma, ShouldBeGreaterThanOrEqualTo, 2.2)
			})

			Convey("Then the interval is open and widens with the horizon", func() {
				data, _, err := m.project(pts[n-1].Month, 6*daysPerMonth)
				So(err, ShouldBeNil)
				first, last := data[0], data[len(data)-1]
				So(first.UpperBound-first.LowerBound, ShouldBeGreaterThan, 1)
				So(last.UpperBound-last.LowerBound, ShouldBeGreaterThan, first.UpperBound-first.LowerBound)
			})
		})
	}
}
