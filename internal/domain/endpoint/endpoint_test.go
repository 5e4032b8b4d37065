package endpoint_test

import (
	"testing"

	"github.com/okian/healthfetch/internal/domain/endpoint"
	. "github.com/smartystreets/goconvey/convey"
)

func TestRegistry(t *testing.T) {
	Convey("Given the endpoint registry", t, func() {
		all := endpoint.All()

		Convey("Then it holds 34 uniquely named, non-empty descriptors", func() {
			So(len(all), ShouldEqual, 34)
			So(endpoint.Count, ShouldEqual, 34)
			seen := map[string]bool{}
			for _, d := range all {
				So(d.Name, ShouldNotBeBlank)
				So(d.Path, ShouldNotBeBlank)
				So(d.Description, ShouldNotBeBlank)
				So(seen[d.Name], ShouldBeFalse)
				seen[d.Name] = true
			}
		})

		Convey("Then the order is fixed", func() {
			So(all[0].Name, ShouldEqual, "staff_data")
			So(all[33].Name, ShouldEqual, "delivery_count")
		})

		Convey("When the returned slice is modified", func() {
			all[0].Name = "changed"

			Convey("Then the registry is unaffected", func() {
				So(endpoint.All()[0].Name, ShouldEqual, "staff_data")
			})
		})

		Convey("When looking up by name", func() {
			d, ok := endpoint.Lookup("male_female_count")
			_, missing := endpoint.Lookup("nope")

			So(ok, ShouldBeTrue)
			So(d.Path, ShouldEqual, "malefemaleCount")
			So(missing, ShouldBeFalse)
		})
	})
}
