package record_test

import (
	"encoding/json"
	"testing"

	"github.com/okian/healthfetch/internal/domain/record"
	. "github.com/smartystreets/goconvey/convey"
)

func TestSanitize(t *testing.T) {
	Convey("Given raw upstream values", t, func() {
		Convey("Placeholders become Unavailable regardless of case", func() {
			for _, raw := range []any{nil, "", "null", "NULL", "None", "nan", "NaN", "not found",
				"NotFound", "n/a", "N/A", "na", "-", "Not Available"} {
				So(record.Sanitize(raw).IsPresent(), ShouldBeFalse)
				So(record.Sanitize(raw).String(), ShouldEqual, record.Sentinel)
			}
		})

		Convey("Real data keeps its string form", func() {
			So(record.Sanitize("150").String(), ShouldEqual, "150")
			So(record.Sanitize(json.Number("12.50")).String(), ShouldEqual, "12.50")
			So(record.Sanitize(float64(7)).String(), ShouldEqual, "7")
			So(record.Sanitize(3).String(), ShouldEqual, "3")
			So(record.Sanitize(true).String(), ShouldEqual, "True")
			So(record.Sanitize(false).String(), ShouldEqual, "False")
			So(record.Sanitize("0").String(), ShouldEqual, "0")
		})

		Convey("Whitespace is not trimmed", func() {
			v := record.Sanitize(" null ")
			So(v.IsPresent(), ShouldBeTrue)
			So(v.String(), ShouldEqual, " null ")
		})

		Convey("Nested values are rendered as JSON", func() {
			So(record.Sanitize(map[string]any{"a": json.Number("1")}).String(), ShouldEqual, `{"a":1}`)
			So(record.Sanitize([]any{"x"}).String(), ShouldEqual, `["x"]`)
		})

		Convey("Sanitize is idempotent", func() {
			for _, raw := range []any{nil, "na", "42", "Not Available", json.Number("1.5"), false} {
				once := record.Sanitize(raw)
				So(record.Sanitize(once), ShouldResemble, once)
				So(record.Sanitize(once.String()).String(), ShouldEqual, once.String())
			}
		})
	})
}

func TestValue(t *testing.T) {
	Convey("Given tagged values", t, func() {
		So(record.Present("").IsPresent(), ShouldBeFalse)
		So(record.Present("9").IsPresent(), ShouldBeTrue)
		So(record.Unavailable().String(), ShouldEqual, "Not Available")

		var zero record.Value
		So(zero.IsPresent(), ShouldBeFalse)

		b, err := json.Marshal(record.Unavailable())
		So(err, ShouldBeNil)
		So(string(b), ShouldEqual, `"Not Available"`)
	})
}

func TestDailyRecord(t *testing.T) {
	Convey("Given a new daily record", t, func() {
		rec := record.New()

		Convey("Every column is present and unavailable", func() {
			So(record.ColumnCount, ShouldEqual, 58)
			row := rec.Row()
			So(len(row), ShouldEqual, 58)
			for _, v := range row {
				So(v, ShouldEqual, record.Sentinel)
			}
			So(len(rec.Map()), ShouldEqual, 58)
		})

		Convey("The column order is fixed", func() {
			cols := record.Columns()
			So(cols[0], ShouldEqual, record.DataDate)
			So(cols[len(cols)-1], ShouldEqual, record.FetchedAt)
			So(record.ColumnNames()[4], ShouldEqual, "month")
		})

		Convey("When setting values", func() {
			So(rec.Set(record.DataDate, record.Present("2024-03-05")), ShouldBeTrue)
			So(rec.Set(record.Doctors, record.Present("null")), ShouldBeTrue)
			So(rec.Set(record.Column("bogus"), record.Present("1")), ShouldBeFalse)

			Convey("Then they are readable by column", func() {
				So(rec.DataDate(), ShouldEqual, "2024-03-05")
				So(rec.Map()["number_of_doctors"], ShouldEqual, "null")
				So(rec.Get(record.Column("bogus")).IsPresent(), ShouldBeFalse)
				So(record.Known(record.Beds), ShouldBeTrue)
			})

			Convey("Then sanitizing replaces placeholders without touching the original", func() {
				clean := rec.Sanitized()
				So(clean.Get(record.Doctors).String(), ShouldEqual, record.Sentinel)
				So(rec.Get(record.Doctors).String(), ShouldEqual, "null")
				So(clean.DataDate(), ShouldEqual, "2024-03-05")
			})

			Convey("Then JSON encodes the flat stored form", func() {
				b, err := json.Marshal(rec.Sanitized())
				So(err, ShouldBeNil)
				var m map[string]string
				So(json.Unmarshal(b, &m), ShouldBeNil)
				So(m["data_date"], ShouldEqual, "2024-03-05")
				So(m["number_of_beds"], ShouldEqual, record.Sentinel)
			})
		})
	})
}
