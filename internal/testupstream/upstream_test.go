package testupstream_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/okian/healthfetch/internal/domain/endpoint"
	"github.com/okian/healthfetch/internal/testupstream"
	"github.com/smartystreets/goconvey/convey"
)

func TestUpstream(t *testing.T) {
	convey.Convey("Given a fake upstream", t, func() {
		up := testupstream.New()
		srv := httptest.NewServer(up.Handler())
		defer srv.Close()

		token := func(secret, client string) (*http.Response, map[string]string) {
			body, _ := json.Marshal(testupstream.Credentials{SecretKey: secret, ClientKey: client})
			resp, err := http.Post(srv.URL+"/generateToken", "application/json", bytes.NewReader(body))
			convey.So(err, convey.ShouldBeNil)
			defer func() { _ = resp.Body.Close() }()
			out := map[string]string{}
			_ = json.NewDecoder(resp.Body).Decode(&out)
			return resp, out
		}

		convey.Convey("When the right credentials are exchanged", func() {
			resp, out := token("secret", "client")

			convey.So(resp.StatusCode, convey.ShouldEqual, http.StatusOK)
			convey.So(out["token"], convey.ShouldEqual, "token-1")
			convey.So(up.TokensIssued(), convey.ShouldEqual, 1)
		})

		convey.Convey("When the wrong credentials are exchanged", func() {
			resp, _ := token("secret", "nope")

			convey.So(resp.StatusCode, convey.ShouldEqual, http.StatusUnauthorized)
			convey.So(up.TokensIssued(), convey.ShouldEqual, 0)
		})

		convey.Convey("When fetching data", func() {
			_, out := token("secret", "client")
			get := func(path, tok string) int {
				req, _ := http.NewRequest(http.MethodGet, srv.URL+"/"+path,
					bytes.NewReader([]byte(`{"tdate":"2024-01-01","dEndDate":"2024-01-01"}`)))
				req.Header.Set("Authorization", "Bearer "+tok)
				resp, err := http.DefaultClient.Do(req)
				convey.So(err, convey.ShouldBeNil)
				_ = resp.Body.Close()
				return resp.StatusCode
			}

			convey.So(get("malefemaleCount", out["token"]), convey.ShouldEqual, http.StatusOK)
			convey.So(get("malefemaleCount", "bogus"), convey.ShouldEqual, http.StatusUnauthorized)
			convey.So(up.Calls("malefemaleCount"), convey.ShouldEqual, 2)
			convey.So(string(up.LastBody("malefemaleCount")), convey.ShouldContainSubstring, "2024-01-01")

			up.RevokeTokens()
			convey.So(get("malefemaleCount", out["token"]), convey.ShouldEqual, http.StatusUnauthorized)
		})

		convey.Convey("When an override is limited", func() {
			_, out := token("secret", "client")
			up.SetBehavior("MLCCount", testupstream.Behavior{Status: http.StatusBadGateway, Times: 1})
			get := func() int {
				req, _ := http.NewRequest(http.MethodGet, srv.URL+"/MLCCount", nil)
				req.Header.Set("Authorization", "Bearer "+out["token"])
				resp, err := http.DefaultClient.Do(req)
				convey.So(err, convey.ShouldBeNil)
				_ = resp.Body.Close()
				return resp.StatusCode
			}

			convey.So(get(), convey.ShouldEqual, http.StatusBadGateway)
			convey.So(get(), convey.ShouldEqual, http.StatusOK)
		})
	})
}

func TestPayload(t *testing.T) {
	convey.Convey("Given generated payloads", t, func() {
		d, _ := endpoint.Lookup("male_female_count")

		convey.So(testupstream.Payload(d, "2024-01-01"), convey.ShouldResemble, testupstream.Payload(d, "2024-01-01"))
		convey.So(testupstream.Value("a", "b", "c"), convey.ShouldBeBetweenOrEqual, 1, 5000)
		for _, d := range endpoint.All() {
			convey.So(json.Valid(testupstream.Payload(d, "2024-01-01")), convey.ShouldBeTrue)
		}
	})
}
