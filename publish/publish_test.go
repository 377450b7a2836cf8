package publish

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	. "github.com/smartystreets/goconvey/convey"
	"github.com/spf13/afero"
)

// contentsAPI is a minimal in-memory repository contents endpoint.
type contentsAPI struct {
	mu     sync.Mutex
	files  map[string]string
	puts   []map[string]string
	status int
}

func (c *contentsAPI) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if r.Header.Get("Authorization") != "Bearer secret" {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = io.WriteString(w, `{"message":"Bad credentials"}`)
		return
	}

	path := r.URL.Path
	switch r.Method {
	case http.MethodGet:
		content, ok := c.files[path]
		if !ok {
			http.NotFound(w, r)
			return
		}
		_ = json.NewEncoder(w).Encode(map[string]string{"sha": "sha-" + content})
	case http.MethodPut:
		var body map[string]string
		_ = json.NewDecoder(r.Body).Decode(&body)
		c.puts = append(c.puts, body)

		if c.status != 0 {
			w.WriteHeader(c.status)
			_, _ = io.WriteString(w, `{"message":"sha does not match"}`)
			return
		}

		content, _ := base64.StdEncoding.DecodeString(body["content"])
		_, existed := c.files[path]
		c.files[path] = string(content)
		if existed {
			w.WriteHeader(http.StatusOK)
		} else {
			w.WriteHeader(http.StatusCreated)
		}
		_, _ = io.WriteString(w, `{}`)
	}
}

func TestGitHub(t *testing.T) {
	Convey("Given a repository contents API", t, func() {
		api := &contentsAPI{files: map[string]string{}}
		server := httptest.NewServer(api)
		defer server.Close()

		sink, err := New(Options{Sink: SinkGitHub, API: server.URL, Repo: "owner/tv", Branch: "main", Token: "secret"})
		So(err, ShouldBeNil)
		So(sink.String(), ShouldEqual, "github:owner/tv@main")

		const path = "/repos/owner/tv/contents/lists/playlist.m3u"

		Convey("Publishing a new file should create it without a sha", func() {
			So(sink.Publish(context.Background(), "lists/playlist.m3u", []byte("#EXTM3U\n")), ShouldBeNil)
			So(api.files[path], ShouldEqual, "#EXTM3U\n")
			So(api.puts[0]["sha"], ShouldBeEmpty)
			So(api.puts[0]["branch"], ShouldEqual, "main")
			So(api.puts[0]["message"], ShouldEqual, "Update playlist")

			Convey("Publishing again should update it with the current sha", func() {
				So(sink.Publish(context.Background(), "lists/playlist.m3u", []byte("#EXTM3U\nnew\n")), ShouldBeNil)
				So(api.files[path], ShouldEqual, "#EXTM3U\nnew\n")
				So(api.puts[1]["sha"], ShouldEqual, "sha-#EXTM3U\n")
			})
		})

		Convey("A refused update should be reported as rejected", func() {
			api.status = http.StatusConflict
			err := sink.Publish(context.Background(), "lists/playlist.m3u", []byte("x"))
			So(errors.Is(err, ErrRejected), ShouldBeTrue)
			So(err.Error(), ShouldContainSubstring, "sha does not match")
		})

		Convey("Bad credentials should be reported as rejected", func() {
			bad, err := New(Options{API: server.URL, Repo: "owner/tv", Token: "wrong"})
			So(err, ShouldBeNil)
			err = bad.Publish(context.Background(), "playlist.m3u", []byte("x"))
			So(errors.Is(err, ErrRejected), ShouldBeTrue)
			So(err.Error(), ShouldContainSubstring, "Bad credentials")
		})
	})

	Convey("Given incomplete settings", t, func() {
		_, err := New(Options{Sink: SinkGitHub, Repo: "tv", Token: "secret"})
		So(err, ShouldNotBeNil)

		_, err = New(Options{Sink: SinkGitHub, Repo: "owner/tv"})
		So(err, ShouldNotBeNil)

		_, err = New(Options{Sink: "ftp"})
		So(err, ShouldNotBeNil)
	})
}

func TestFile(t *testing.T) {
	Convey("Given a file sink", t, func() {
		fs := afero.NewMemMapFs()
		sink, err := New(Options{Sink: SinkFile, Fs: fs, Dir: "/srv/www"})
		So(err, ShouldBeNil)

		Convey("Publishing should create and then replace the file", func() {
			So(sink.Publish(context.Background(), "tv/playlist.m3u", []byte("one")), ShouldBeNil)
			So(sink.Publish(context.Background(), "tv/playlist.m3u", []byte("two")), ShouldBeNil)

			data, err := afero.ReadFile(fs, "/srv/www/tv/playlist.m3u")
			So(err, ShouldBeNil)
			So(string(data), ShouldEqual, "two")

			exists, _ := afero.Exists(fs, "/srv/www/tv/playlist.m3u.tmp")
			So(exists, ShouldBeFalse)
		})

		Convey("Paths should not escape the directory", func() {
			So(sink.Publish(context.Background(), "../../etc/playlist.m3u", []byte("x")), ShouldBeNil)
			exists, _ := afero.Exists(fs, "/srv/www/etc/playlist.m3u")
			So(exists, ShouldBeTrue)
		})

		Convey("A read-only destination should be rejected", func() {
			ro, _ := New(Options{Sink: SinkFile, Fs: afero.NewReadOnlyFs(fs), Dir: "/srv/www"})
			err := ro.Publish(context.Background(), "playlist.m3u", []byte("x"))
			So(errors.Is(err, ErrRejected), ShouldBeTrue)
		})

		Convey("A canceled context should keep its cause alongside the rejection", func() {
			ctx, cancel := context.WithCancel(context.Background())
			cancel()

			err := sink.Publish(ctx, "playlist.m3u", []byte("x"))
			So(errors.Is(err, ErrRejected), ShouldBeTrue)
			So(errors.Is(err, context.Canceled), ShouldBeTrue)

			exists, _ := afero.Exists(fs, "/srv/www/playlist.m3u")
			So(exists, ShouldBeFalse)
		})
	})
}
