package main

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/smartystreets/goconvey/convey"
)

func TestBuild(t *testing.T) {
	convey.Convey("Given flags naming custom credentials and a failing path", t, func() {
		cmd := newRootCommand()
		convey.So(cmd.ParseFlags([]string{"--secret-key", "s1", "--client-key", "c1", "--fail", "MLCCount"}), convey.ShouldBeNil)
		o := &options{}
		o.secret, _ = cmd.Flags().GetString("secret-key")
		o.client, _ = cmd.Flags().GetString("client-key")
		o.failing, _ = cmd.Flags().GetStringSlice("fail")
		srv := httptest.NewServer(build(o).Handler())
		defer srv.Close()

		convey.Convey("Then only the configured credentials get a token", func() {
			bad, err := http.Post(srv.URL+"/generateToken", "application/json", strings.NewReader(`{"secretKey":"secret","clientKey":"client"}`))
			convey.So(err, convey.ShouldBeNil)
			_ = bad.Body.Close()
			good, err := http.Post(srv.URL+"/generateToken", "application/json", strings.NewReader(`{"secretKey":"s1","clientKey":"c1"}`))
			convey.So(err, convey.ShouldBeNil)
			_ = good.Body.Close()

			convey.So(bad.StatusCode, convey.ShouldEqual, http.StatusUnauthorized)
			convey.So(good.StatusCode, convey.ShouldEqual, http.StatusOK)
		})
	})
}
