package network

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	. "github.com/smartystreets/goconvey/convey"
)

func TestTLSClient(t *testing.T) {
	Convey("Given a plain http origin", t, func() {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Path == "/moved" {
				http.Redirect(w, r, "/page", http.StatusFound)
				return
			}
			_, _ = io.WriteString(w, "ua="+r.Header.Get("User-Agent"))
		}))
		defer server.Close()

		client := NewTLSClient(0)
		So(client.Timeout, ShouldEqual, DefaultTLSTimeout)

		Convey("Do should fetch the page over HTTP/1.1", func() {
			req, _ := http.NewRequest(http.MethodGet, server.URL+"/page", nil)
			req.Header.Set("User-Agent", "scout")
			resp, err := client.Do(req)
			So(err, ShouldBeNil)
			defer resp.Body.Close()

			body, _ := io.ReadAll(resp.Body)
			So(string(body), ShouldEqual, "ua=scout")
		})

		Convey("Do should follow redirects", func() {
			req, _ := http.NewRequest(http.MethodGet, server.URL+"/moved", nil)
			resp, err := client.Do(req)
			So(err, ShouldBeNil)
			defer resp.Body.Close()
			So(strings.HasSuffix(resp.Request.URL.Path, "/page"), ShouldBeTrue)
		})
	})
}
