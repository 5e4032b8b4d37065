package schedule_test

import (
	"errors"
	"testing"
	"time"

	"github.com/okian/healthfetch/internal/domain/schedule"
	"github.com/smartystreets/goconvey/convey"
)

func TestRange(t *testing.T) {
	convey.Convey("Given date range inputs", t, func() {
		convey.Convey("When the range spans three days", func() {
			dates, err := schedule.Range("2024-01-01", "2024-01-03")

			convey.So(err, convey.ShouldBeNil)
			convey.So(dates, convey.ShouldResemble, []string{"2024-01-01", "2024-01-02", "2024-01-03"})
		})

		convey.Convey("When the range is a single day", func() {
			dates, err := schedule.Range("2024-02-29", "2024-02-29")

			convey.So(err, convey.ShouldBeNil)
			convey.So(dates, convey.ShouldResemble, []string{"2024-02-29"})
		})

		convey.Convey("When the range crosses a month and year boundary", func() {
			dates, err := schedule.Range("2023-12-30", "2024-01-02")

			convey.So(err, convey.ShouldBeNil)
			convey.So(len(dates), convey.ShouldEqual, 4)
			convey.So(dates[2], convey.ShouldEqual, "2024-01-01")
		})

		convey.Convey("When from is after to", func() {
			_, err := schedule.Range("2024-01-05", "2024-01-01")

			convey.So(errors.Is(err, schedule.ErrInvertedRange), convey.ShouldBeTrue)
		})

		convey.Convey("When a date is malformed", func() {
			for _, bad := range []string{"2024-1-5", "05/01/2024", "", "2024-02-30"} {
				_, err := schedule.Range(bad, "2024-03-01")
				convey.So(errors.Is(err, schedule.ErrInvalidDate), convey.ShouldBeTrue)
			}
		})
	})
}

func TestToday(t *testing.T) {
	convey.Convey("Given a clock reading", t, func() {
		now := time.Date(2024, 7, 9, 23, 59, 0, 0, time.UTC)

		convey.So(schedule.Today(now), convey.ShouldResemble, []string{"2024-07-09"})
	})
}
