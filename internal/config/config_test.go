package config_test

import (
	"testing"
	"time"

	"github.com/okian/healthfetch/internal/config"
	"github.com/smartystreets/goconvey/convey"
)

func TestConfig_New(t *testing.T) {
	convey.Convey("Given a new config with default options", t, func() {
		cfg := config.New()

		convey.Convey("Then it carries the upstream accommodations as explicit values", func() {
			convey.So(cfg.Addr, convey.ShouldEqual, ":8000")
			convey.So(cfg.TokenTimeout(), convey.ShouldEqual, 30*time.Second)
			convey.So(cfg.FetchTimeout(), convey.ShouldEqual, 10*time.Second)
			convey.So(cfg.MaxRetries, convey.ShouldEqual, 2)
			convey.So(cfg.BackoffFactor(), convey.ShouldEqual, time.Second)
			convey.So(cfg.InsecureSkipVerify, convey.ShouldBeTrue)
			convey.So(cfg.DBDriver, convey.ShouldEqual, config.DriverSQLite)
			convey.So(cfg.StateName, convey.ShouldEqual, "Bihar")
		})

		convey.Convey("And the defaults validate", func() {
			convey.So(cfg.Validate(), convey.ShouldBeNil)
		})
	})
}
