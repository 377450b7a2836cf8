package version

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/chanscout/chanscout/constant"
	"github.com/chanscout/chanscout/filesystem"
	. "github.com/smartystreets/goconvey/convey"
)

func init() {
	filesystem.SetMemMapFs()
}

func TestCompare(t *testing.T) {
	Convey("Given version pairs", t, func() {
		Convey("Newer, older and equal versions should compare", func() {
			c, err := Compare("v1.2.3", "1.2.2")
			So(err, ShouldBeNil)
			So(c, ShouldEqual, 1)

			c, err = Compare("0.9.9", "1.0.0")
			So(err, ShouldBeNil)
			So(c, ShouldEqual, -1)

			c, err = Compare("0.3.1", "v0.3.1")
			So(err, ShouldBeNil)
			So(c, ShouldEqual, 0)
		})

		Convey("Short and pre-release versions should compare by their numeric core", func() {
			c, err := Compare("1.2", "1.2.0")
			So(err, ShouldBeNil)
			So(c, ShouldEqual, 0)

			c, err = Compare("v1.3.0-rc.1", "1.2.9")
			So(err, ShouldBeNil)
			So(c, ShouldEqual, 1)
		})

		Convey("Malformed versions should fail", func() {
			_, err := Compare("latest", "1.0.0")
			So(err, ShouldNotBeNil)

			_, err = Compare("1.0.0.1", "1.0.0")
			So(err, ShouldNotBeNil)

			_, err = Compare("", "1.0.0")
			So(err, ShouldNotBeNil)
		})
	})
}

func TestLatest(t *testing.T) {
	Convey("Given a releases endpoint", t, func() {
		var hits atomic.Int32
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			hits.Add(1)
			if r.URL.Path != "/repos/"+constant.Repository+"/releases/latest" {
				http.NotFound(w, r)
				return
			}
			_, _ = io.WriteString(w, `{"tag_name":"v9.1.0"}`)
		}))
		defer server.Close()

		previous := releasesAPI
		releasesAPI = server.URL
		defer func() { releasesAPI = previous }()

		Convey("Latest should strip the prefix and cache the result", func() {
			v, err := Latest(context.Background())
			So(err, ShouldBeNil)
			So(v, ShouldEqual, "9.1.0")

			v, err = Latest(context.Background())
			So(err, ShouldBeNil)
			So(v, ShouldEqual, "9.1.0")
			So(hits.Load(), ShouldEqual, 1)
		})
	})
}
