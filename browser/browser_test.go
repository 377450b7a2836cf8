package browser

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	. "github.com/smartystreets/goconvey/convey"
)

func TestOpen(t *testing.T) {
	Convey("Given an unknown engine", t, func() {
		_, err := Open(context.Background(), Options{Engine: "netscape"})

		Convey("Open should fail", func() {
			So(err, ShouldNotBeNil)
			So(err.Error(), ShouldContainSubstring, "netscape")
		})
	})

	Convey("Given the http engine", t, func() {
		sessions, err := OpenPool(context.Background(), 3, Options{Engine: EngineHTTP, UserAgent: "scout"})

		Convey("OpenPool should open independent sessions", func() {
			So(err, ShouldBeNil)
			So(sessions, ShouldHaveLength, 3)
			So(sessions[0], ShouldNotPointTo, sessions[1])
			So(sessions[2].Identity(), ShouldEqual, "scout")
			So(ClosePool(sessions), ShouldBeNil)
		})
	})
}

func TestStatic(t *testing.T) {
	Convey("Given a page behind a redirect", t, func() {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			switch r.URL.Path {
			case "/old":
				http.Redirect(w, r, "/live", http.StatusFound)
			case "/live":
				_, _ = io.WriteString(w, `<html><body data-ua="`+r.Header.Get("User-Agent")+`"></body></html>`)
			default:
				http.NotFound(w, r)
			}
		}))
		defer server.Close()

		s := NewStatic(Options{UserAgent: "scout"})
		defer s.Close()

		Convey("Markup should fail before navigation", func() {
			_, err := s.Markup(context.Background())
			So(err, ShouldEqual, ErrNotNavigated)
		})

		Convey("When navigating", func() {
			err := s.Navigate(context.Background(), server.URL+"/old", time.Second)
			So(err, ShouldBeNil)

			Convey("The markup should be the final document", func() {
				markup, err := s.Markup(context.Background())
				So(err, ShouldBeNil)
				So(markup, ShouldContainSubstring, `data-ua="scout"`)
			})

			Convey("The request log should hold every hop in order", func() {
				requests := s.Requests()
				So(requests, ShouldHaveLength, 2)
				So(requests[0].URL, ShouldEqual, server.URL+"/old")
				So(requests[1].URL, ShouldEqual, server.URL+"/live")
			})

			Convey("A failed navigation should reset the log", func() {
				err := s.Navigate(context.Background(), server.URL+"/missing", time.Second)
				So(err, ShouldNotBeNil)
				So(s.Requests(), ShouldBeEmpty)

				_, err = s.Markup(context.Background())
				So(err, ShouldEqual, ErrNotNavigated)
			})
		})
	})
}

func TestSettle(t *testing.T) {
	Convey("Given a cancelled context", t, func() {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		Convey("Settle should return early", func() {
			start := time.Now()
			err := Settle(ctx, time.Minute)
			So(err, ShouldEqual, context.Canceled)
			So(time.Since(start), ShouldBeLessThan, time.Second)
		})
	})

	Convey("Given a short window", t, func() {
		Convey("Settle should wait it out", func() {
			So(Settle(context.Background(), 10*time.Millisecond), ShouldBeNil)
		})
	})
}
