package scan

import (
	"context"
	"io"
	"strings"
	"time"

	"github.com/chanscout/chanscout/browser"
	"github.com/chanscout/chanscout/catalog"
	"github.com/chanscout/chanscout/channel"
	"github.com/chanscout/chanscout/playlist"
	"github.com/chanscout/chanscout/publish"
	"github.com/chanscout/chanscout/resolver"
	"github.com/lithammer/fuzzysearch/fuzzy"
	"github.com/samber/lo"
	"github.com/samber/mo"
	"github.com/spf13/afero"
)

type (
	// Opener starts n browser sessions.
	Opener func(ctx context.Context, n int) ([]browser.Session, error)
	// ChannelFilter narrows the catalog before resolution.
	ChannelFilter func([]channel.Ref) []channel.Ref
)

// Options of a single discovery run.
type Options struct {
	// Out receives the JSON report when Json is set.
	Out  io.Writer
	Json bool

	// CatalogURL is the index page. Ignored when Static is set.
	CatalogURL string
	Catalog    catalog.Options
	// Static is a fixed "Name=id" table used instead of the index page.
	Static []string
	Dedupe bool
	Filter mo.Option[ChannelFilter]

	Open    Opener
	Workers int
	// Timeout bounds each navigation and Settle is the wait after the index page loads.
	Timeout time.Duration
	Settle  time.Duration

	Resolver resolver.Options
	Playlist playlist.Options

	Fs     afero.Fs
	Output string

	Publish     mo.Option[publish.Sink]
	PublishPath string

	// Record saves the run to history.
	Record bool
}

// ParseFilter builds a filter keeping channels whose name fuzzily matches any pattern.
func ParseFilter(patterns []string) mo.Option[ChannelFilter] {
	patterns = lo.Filter(lo.Map(patterns, func(p string, _ int) string {
		return strings.TrimSpace(p)
	}), func(p string, _ int) bool {
		return p != ""
	})

	if len(patterns) == 0 {
		return mo.None[ChannelFilter]()
	}

	return mo.Some[ChannelFilter](func(refs []channel.Ref) []channel.Ref {
		return lo.Filter(refs, func(r channel.Ref, _ int) bool {
			return lo.SomeBy(patterns, func(p string) bool {
				return fuzzy.MatchNormalizedFold(p, r.Name)
			})
		})
	})
}
