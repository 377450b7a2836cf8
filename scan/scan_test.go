package scan

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"regexp"
	"testing"
	"time"

	"github.com/chanscout/chanscout/browser"
	"github.com/chanscout/chanscout/browser/browsertest"
	"github.com/chanscout/chanscout/catalog"
	"github.com/chanscout/chanscout/channel"
	"github.com/chanscout/chanscout/filesystem"
	"github.com/chanscout/chanscout/history"
	"github.com/chanscout/chanscout/playlist"
	"github.com/chanscout/chanscout/publish"
	"github.com/chanscout/chanscout/resolver"
	"github.com/chanscout/chanscout/strategy"
	"github.com/samber/mo"
	. "github.com/smartystreets/goconvey/convey"
	"github.com/spf13/afero"
)

func init() {
	filesystem.SetMemMapFs()
}

const catalogURL = "https://tv.example.com/"

const index = `<ul id="channels">
  <li class="channel"><a href="/channel.html?id=yayin1">Kanal D</a></li>
  <li class="channel"><a href="/channel.html?id=trt1">TRT 1</a></li>
  <li class="channel"><a href="/promo.html">Promo</a></li>
</ul>`

func options(t *testing.T, pages map[string]browsertest.Page) (*Options, *browsertest.Session) {
	session := browsertest.New("scout/1.0", pages)

	strategies, err := strategy.ByName([]string{"constant", "sniff"}, strategy.Options{
		Identifier: "baseurl",
		Suffix:     ".manifest",
		Policy:     strategy.PolicyLast,
	})
	if err != nil {
		t.Fatal(err)
	}

	return &Options{
		Out:        &bytes.Buffer{},
		CatalogURL: catalogURL,
		Catalog: catalog.Options{
			Container: "#channels",
			Item:      ".channel",
			IDParam:   "id",
			IDAttrs:   []string{"data-id"},
			IDPattern: regexp.MustCompile(`^(.+)$`),
		},
		Open: func(context.Context, int) ([]browser.Session, error) {
			return []browser.Session{session}, nil
		},
		Resolver: resolver.Options{Strategies: strategies},
		Playlist: playlist.Options{Group: "Live", Extension: ".m3u8", Aggregate: "playlist.m3u"},
		Fs:       afero.NewOsFs(),
		Output:   filepath.Join(t.TempDir(), "playlist"),
	}, session
}

func seed(dir string) {
	_ = os.MkdirAll(dir, 0755)
	_ = os.WriteFile(filepath.Join(dir, "playlist.m3u"), []byte("previous"), 0644)
}

func previous(dir string) string {
	data, _ := os.ReadFile(filepath.Join(dir, "playlist.m3u"))
	return string(data)
}

func TestRun(t *testing.T) {
	Convey("Given a catalog whose channel pages expose the base template", t, func() {
		page := browsertest.Page{Markup: `<script>const baseurl = "https://cdn.example.com/live";</script>`}
		opts, session := options(t, map[string]browsertest.Page{
			catalogURL: {Markup: index},
			"https://tv.example.com/channel.html?id=yayin1": page,
			"https://tv.example.com/channel.html?id=trt1":   page,
		})
		seed(opts.Output)

		fs := afero.NewMemMapFs()
		sink, _ := publish.New(publish.Options{Sink: publish.SinkFile, Fs: fs, Dir: "/srv"})
		opts.Publish = mo.Some(sink)
		opts.Json = true
		opts.Record = true
		_ = history.Clear()

		report, err := Run(context.Background(), opts)
		So(err, ShouldBeNil)

		Convey("Every channel should be resolved and written", func() {
			So(report.Attempted, ShouldEqual, 2)
			So(report.Resolved, ShouldEqual, 2)
			So(report.Channels[0].MediaURL, ShouldEqual, "https://cdn.example.com/live/yayin1.manifest")
			So(report.Channels[1].File, ShouldEqual, "TRT_1.m3u8")

			entries, err := playlist.Parse(previous(opts.Output))
			So(err, ShouldBeNil)
			So(entries, ShouldHaveLength, 2)
			So(entries[0].Headers["Referer"], ShouldEqual, "https://tv.example.com/channel.html?id=yayin1")
			So(entries[0].Headers["User-Agent"], ShouldEqual, "scout/1.0")
		})

		Convey("The aggregate should be published", func() {
			So(report.Published, ShouldBeTrue)
			published, err := afero.ReadFile(fs, "/srv/playlist.m3u")
			So(err, ShouldBeNil)
			So(string(published), ShouldEqual, previous(opts.Output))
		})

		Convey("The catalog should be read once and the warming stop at the first channel", func() {
			So(session.Navigations(), ShouldResemble, []string{
				catalogURL,
				"https://tv.example.com/channel.html?id=yayin1",
			})
		})

		Convey("The JSON report should be written", func() {
			var decoded Report
			So(json.Unmarshal(opts.Out.(*bytes.Buffer).Bytes(), &decoded), ShouldBeNil)
			So(decoded.Resolved, ShouldEqual, 2)
			So(decoded.Template, ShouldEqual, "https://cdn.example.com/live/{id}.manifest")
		})

		Convey("The run should be recorded", func() {
			records, err := history.Get()
			So(err, ShouldBeNil)
			So(records, ShouldHaveLength, 1)
			So(records[0].Resolved, ShouldEqual, 2)
		})
	})

	Convey("Given a sink that rejects the aggregate", t, func() {
		page := browsertest.Page{Markup: `<script>const baseurl = "https://cdn.example.com/live";</script>`}
		opts, _ := options(t, map[string]browsertest.Page{
			catalogURL: {Markup: index},
			"https://tv.example.com/channel.html?id=yayin1": page,
			"https://tv.example.com/channel.html?id=trt1":   page,
		})
		seed(opts.Output)

		sink, _ := publish.New(publish.Options{Sink: publish.SinkFile, Fs: afero.NewReadOnlyFs(afero.NewMemMapFs()), Dir: "/srv"})
		opts.Publish = mo.Some(sink)

		report, err := Run(context.Background(), opts)

		Convey("The run should fail with the rejection", func() {
			So(errors.Is(err, publish.ErrRejected), ShouldBeTrue)
			So(report.Published, ShouldBeFalse)
			So(report.PublishError, ShouldNotBeEmpty)
		})

		Convey("The committed output should stay on disk", func() {
			So(report.Output, ShouldEqual, opts.Output)
			So(report.Resolved, ShouldEqual, 2)

			entries, err := playlist.Parse(previous(opts.Output))
			So(err, ShouldBeNil)
			So(entries, ShouldHaveLength, 2)

			_, err = os.Stat(filepath.Join(opts.Output, "TRT_1.m3u8"))
			So(err, ShouldBeNil)
		})
	})

	Convey("Given a catalog without entries", t, func() {
		opts, _ := options(t, map[string]browsertest.Page{
			catalogURL: {Markup: `<ul id="channels"></ul>`},
		})
		seed(opts.Output)

		report, err := Run(context.Background(), opts)

		Convey("The run should stop with CatalogNotFound and leave the output untouched", func() {
			So(errors.Is(err, catalog.ErrNotFound), ShouldBeTrue)
			So(report.Resolved, ShouldEqual, 0)
			So(previous(opts.Output), ShouldEqual, "previous")
		})
	})

	Convey("Given channels that never expose a template", t, func() {
		opts, _ := options(t, map[string]browsertest.Page{
			catalogURL: {Markup: index},
			"https://tv.example.com/channel.html?id=yayin1": {Markup: "offline"},
			"https://tv.example.com/channel.html?id=trt1":   {Markup: "offline"},
		})
		seed(opts.Output)

		report, err := Run(context.Background(), opts)

		Convey("The run should be exhausted and nothing written", func() {
			So(errors.Is(err, resolver.ErrExhausted), ShouldBeTrue)
			So(report.Attempted, ShouldEqual, 2)
			So(report.Error, ShouldNotBeEmpty)
			So(previous(opts.Output), ShouldEqual, "previous")
		})
	})

	Convey("Given a static table and a filter", t, func() {
		page := browsertest.Page{Markup: `<script>let baseurl = "https://cdn.example.com/hls/";</script>`}
		opts, session := options(t, map[string]browsertest.Page{
			"https://kool.example/play/b2": page,
		})
		opts.Static = []string{"ATV=a1", "Show TV=b2", "Show TV=b2"}
		opts.Catalog.PageTemplate = "https://kool.example/play/{id}"
		opts.Dedupe = true
		opts.Filter = ParseFilter([]string{"show"})

		report, err := Run(context.Background(), opts)

		Convey("Only matching channels should be resolved, without loading a catalog page", func() {
			So(err, ShouldBeNil)
			So(report.Attempted, ShouldEqual, 1)
			So(report.Channels, ShouldResemble, []Channel{{
				Name:     "Show TV",
				ID:       "b2",
				PageURL:  "https://kool.example/play/b2",
				MediaURL: "https://cdn.example.com/hls/b2.manifest",
				Headers:  map[string]string{"Referer": "https://kool.example/play/b2", "User-Agent": "scout/1.0"},
				File:     "Show_TV.m3u8",
			}})
			So(session.Navigations(), ShouldResemble, []string{"https://kool.example/play/b2"})
		})
	})

	Convey("Given a run canceled before anything resolved", t, func() {
		opts, _ := options(t, map[string]browsertest.Page{
			catalogURL: {Markup: index},
		})
		seed(opts.Output)

		ctx, cancel := context.WithCancel(context.Background())
		opts.Open = func(context.Context, int) ([]browser.Session, error) {
			s := browsertest.New("scout", map[string]browsertest.Page{catalogURL: {Markup: index}})
			return []browser.Session{&cancelOnNavigate{Session: s, after: 1, cancel: cancel}}, nil
		}

		report, err := Run(ctx, opts)

		Convey("No output should be committed", func() {
			So(err, ShouldBeNil)
			So(report.Canceled, ShouldBeTrue)
			So(previous(opts.Output), ShouldEqual, "previous")
		})
	})
}

// cancelOnNavigate cancels the run once more than after navigations were started.
type cancelOnNavigate struct {
	*browsertest.Session
	after  int
	count  int
	cancel context.CancelFunc
}

func (c *cancelOnNavigate) Navigate(ctx context.Context, url string, timeout time.Duration) error {
	c.count++
	if c.count > c.after {
		c.cancel()
		return ctx.Err()
	}
	return c.Session.Navigate(ctx, url, timeout)
}

func TestParseFilter(t *testing.T) {
	Convey("Given filter patterns", t, func() {
		refs := []channel.Ref{{Name: "TRT Çocuk"}, {Name: "Kanal D"}, {Name: "TRT 1"}}

		Convey("Matching should be fuzzy and ignore case and diacritics", func() {
			filter := ParseFilter([]string{"trtcocuk", " kanal "}).MustGet()
			So(filter(refs), ShouldResemble, []channel.Ref{{Name: "TRT Çocuk"}, {Name: "Kanal D"}})
		})

		Convey("Blank patterns should disable filtering", func() {
			So(ParseFilter([]string{"", "  "}).IsPresent(), ShouldBeFalse)
		})
	})
}
