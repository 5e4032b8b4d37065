package auth_test

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/okian/healthfetch/internal/adapters/upstream/auth"
	"github.com/okian/healthfetch/internal/adapters/upstream/transport"
	logging "github.com/okian/healthfetch/pkg/logger"
	"github.com/smartystreets/goconvey/convey"
)

// fakeDoer hands out tok-1, tok-2, ... or fails while fail is set.
type fakeDoer struct {
	calls int32
	fail  atomic.Bool
	delay time.Duration
	last  transport.RequestSpec
	mu    sync.Mutex
}

func (f *fakeDoer) Do(ctx context.Context, req transport.RequestSpec, class transport.CallClass) (*transport.Response, error) {
	n := atomic.AddInt32(&f.calls, 1)
	f.mu.Lock()
	f.last = req
	f.mu.Unlock()
	if f.delay > 0 {
		time.Sleep(f.delay)
	}
	if f.fail.Load() {
		return &transport.Response{Status: 403, Body: []byte(`{"message":"denied"}`)}, nil
	}
	body, _ := json.Marshal(map[string]string{"token": fmt.Sprintf("tok-%d", n)})
	return &transport.Response{Status: 200, Body: body}, nil
}

func TestSession(t *testing.T) {
	convey.Convey("Given a session", t, func() {
		_ = logging.Init()
		ctx := context.Background()
		doer := &fakeDoer{}
		s := auth.New(doer, "https://api.example/bhavya/", auth.Credentials{SecretKey: "s", ClientKey: "c"})

		convey.Convey("When obtaining a token", func() {
			tok, err := s.Obtain(ctx)

			convey.Convey("Then it is stored and the credentials were posted", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(tok, convey.ShouldEqual, "tok-1")
				convey.So(s.Token(), convey.ShouldEqual, "tok-1")
				convey.So(doer.last.Method, convey.ShouldEqual, "POST")
				convey.So(doer.last.URL, convey.ShouldEqual, "https://api.example/bhavya/generateToken")
				convey.So(string(doer.last.Body), convey.ShouldEqual, `{"secretKey":"s","clientKey":"c"}`)
			})
		})

		convey.Convey("When the exchange is rejected", func() {
			_, _ = s.Obtain(ctx)
			doer.fail.Store(true)

			convey.Convey("Then Obtain fails and keeps the old token", func() {
				_, err := s.Obtain(ctx)
				convey.So(errors.Is(err, auth.ErrTokenExchange), convey.ShouldBeTrue)
				convey.So(s.Token(), convey.ShouldEqual, "tok-1")
			})

			convey.Convey("Then a proactive refresh keeps the old token", func() {
				convey.So(s.Refresh(ctx), convey.ShouldNotBeNil)
				convey.So(s.Token(), convey.ShouldEqual, "tok-1")
			})

			convey.Convey("Then a forced refresh leaves the token cleared", func() {
				_, err := s.CompareAndRefresh(ctx, "tok-1")
				convey.So(err, convey.ShouldNotBeNil)
				convey.So(s.Token(), convey.ShouldBeEmpty)
			})
		})

		convey.Convey("When Ensure is called with and without a token", func() {
			first, err := s.Ensure(ctx)
			second, _ := s.Ensure(ctx)

			convey.So(err, convey.ShouldBeNil)
			convey.So(first, convey.ShouldEqual, "tok-1")
			convey.So(second, convey.ShouldEqual, "tok-1")
			convey.So(atomic.LoadInt32(&doer.calls), convey.ShouldEqual, 1)
		})

		convey.Convey("When the token was already replaced by another caller", func() {
			_, _ = s.Obtain(ctx)
			_, _ = s.Obtain(ctx)

			tok, err := s.CompareAndRefresh(ctx, "tok-1")

			convey.So(err, convey.ShouldBeNil)
			convey.So(tok, convey.ShouldEqual, "tok-2")
			convey.So(atomic.LoadInt32(&doer.calls), convey.ShouldEqual, 2)
		})

		convey.Convey("When many fetches observe the same rejected token at once", func() {
			_, _ = s.Obtain(ctx)
			doer.delay = 5 * time.Millisecond
			var wg sync.WaitGroup
			results := make([]string, 20)
			for i := range results {
				wg.Add(1)
				go func(i int) {
					defer wg.Done()
					results[i], _ = s.CompareAndRefresh(ctx, "tok-1")
				}(i)
			}
			wg.Wait()

			convey.Convey("Then only one refresh is performed", func() {
				convey.So(atomic.LoadInt32(&doer.calls), convey.ShouldEqual, 2)
				for _, r := range results {
					convey.So(r, convey.ShouldEqual, "tok-2")
				}
			})
		})

		convey.Convey("When invalidated", func() {
			_, _ = s.Obtain(ctx)
			s.Invalidate()

			convey.So(s.Token(), convey.ShouldBeEmpty)
		})
	})
}

func TestParseToken(t *testing.T) {
	convey.Convey("Given token response bodies", t, func() {
		cases := map[string]string{
			`"bare-token"`:                           "bare-token",
			`{"token":"a"}`:                          "a",
			`{"access_token":"b"}`:                   "b",
			`{"accessToken":"c"}`:                    "c",
			`{"token":"","accessToken":"d"}`:         "d",
			`{"token":"e","access_token":"ignored"}`: "e",
		}
		for body, want := range cases {
			got, ok := auth.ParseToken([]byte(body))
			convey.So(ok, convey.ShouldBeTrue)
			convey.So(got, convey.ShouldEqual, want)
		}

		for _, body := range []string{`{}`, `""`, `[]`, `not json`, `{"token":5}`} {
			_, ok := auth.ParseToken([]byte(body))
			convey.So(ok, convey.ShouldBeFalse)
		}
	})
}
