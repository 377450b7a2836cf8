// Package scan runs one discovery pass: catalog, resolution, playlist output and publishing.
package scan

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"os"
	"time"

	"github.com/chanscout/chanscout/browser"
	"github.com/chanscout/chanscout/catalog"
	"github.com/chanscout/chanscout/channel"
	"github.com/chanscout/chanscout/history"
	"github.com/chanscout/chanscout/log"
	"github.com/chanscout/chanscout/playlist"
	"github.com/chanscout/chanscout/resolver"
	"github.com/chanscout/chanscout/strategy"
	"github.com/chanscout/chanscout/util"
	"github.com/samber/lo"
	"github.com/spf13/afero"
)

// Run performs the pass. The report is returned together with any error so the caller can always
// show resolved against attempted. Faults before resolution completes leave the output directory untouched.
func Run(ctx context.Context, options *Options) (report *Report, err error) {
	if options.Out == nil {
		options.Out = os.Stdout
	}
	if options.Fs == nil {
		options.Fs = afero.NewOsFs()
	}

	report = &Report{
		Started:  time.Now(),
		Catalog:  options.CatalogURL,
		Channels: []Channel{},
	}

	defer func() {
		report.Finished = time.Now()
		if err != nil {
			report.Error = err.Error()
		}

		if options.Record {
			if herr := history.Save(report.record()); herr != nil {
				log.Warnf("save history: %s", herr)
			}
		}

		if options.Json {
			if werr := writeJson(options.Out, report); werr != nil && err == nil {
				err = werr
			}
		}
	}()

	if options.Open == nil {
		return report, errors.New("no browser configured")
	}

	workers := util.Max(options.Workers, 1)
	sessions, err := options.Open(ctx, workers)
	if err != nil {
		return report, fmt.Errorf("open browser: %w", err)
	}
	defer func() {
		if cerr := browser.ClosePool(sessions); cerr != nil {
			log.Warnf("close browser: %s", cerr)
		}
	}()

	refs, err := loadRefs(ctx, sessions[0], options)
	if err != nil {
		return report, err
	}

	log.Infof("catalog holds %s", util.Quantify(len(refs), "channel", "channels"))

	if options.Dedupe {
		refs = catalog.Dedupe(refs)
	}
	if filter, ok := options.Filter.Get(); ok {
		refs = filter(refs)
		if len(refs) == 0 {
			return report, errors.New("no channel matches the filter")
		}
	}

	result, err := resolver.New(&strategy.Cache{}, options.Resolver).Resolve(ctx, refs, sessions...)
	report.Attempted = result.Attempted
	report.Template = string(result.Template)
	report.Canceled = result.Canceled
	report.Warming = result.Warming
	if err != nil {
		return report, err
	}

	report.Resolved = len(result.Streams)
	if result.Canceled && len(result.Streams) == 0 {
		log.Warn("run canceled before any channel resolved, output left untouched")
		return report, nil
	}

	p := playlist.Build(result.Streams, options.Playlist)
	if err := playlist.Commit(options.Fs, options.Output, p); err != nil {
		return report, fmt.Errorf("commit playlist: %w", err)
	}
	report.Output = options.Output
	report.Channels = channels(result.Streams, p.Order)

	log.Infof("resolved %d/%d channels into %s", report.Resolved, report.Attempted, options.Output)

	sink, ok := options.Publish.Get()
	switch {
	case !ok:
		return report, nil
	case result.Canceled:
		log.Warn("run canceled, publishing skipped")
		return report, nil
	}

	path := lo.Ternary(options.PublishPath != "", options.PublishPath, p.AggregateName)
	if err := sink.Publish(ctx, path, []byte(p.Aggregate)); err != nil {
		report.PublishError = err.Error()
		return report, err
	}

	report.Published = true
	report.PublishedTo = sink.String()
	log.Infof("published %s to %s", path, sink)

	return report, nil
}

// LoadCatalog returns the channel entries of the configured catalog.
func LoadCatalog(ctx context.Context, session browser.Session, options *Options) ([]channel.Ref, error) {
	return loadRefs(ctx, session, options)
}

func loadRefs(ctx context.Context, session browser.Session, options *Options) ([]channel.Ref, error) {
	if len(options.Static) > 0 {
		return catalog.Static(options.Static, options.Catalog.PageTemplate)
	}

	if options.CatalogURL == "" {
		return nil, errors.New("catalog url is not set")
	}

	base, err := url.Parse(options.CatalogURL)
	if err != nil {
		return nil, fmt.Errorf("parse catalog url: %w", err)
	}

	if err := session.Navigate(ctx, options.CatalogURL, options.Timeout); err != nil {
		return nil, fmt.Errorf("load catalog: %w", err)
	}
	if err := browser.Settle(ctx, options.Settle); err != nil {
		return nil, fmt.Errorf("load catalog: %w", err)
	}

	markup, err := session.Markup(ctx)
	if err != nil {
		return nil, fmt.Errorf("load catalog: %w", err)
	}

	refs, err := catalog.Extract(markup, base, options.Catalog)
	if err != nil {
		return nil, err
	}
	if len(refs) == 0 {
		return nil, fmt.Errorf("%w: no entry with an identifier", catalog.ErrNotFound)
	}

	return refs, nil
}

func channels(streams []channel.Stream, files []string) []Channel {
	return lo.Map(streams, func(s channel.Stream, i int) Channel {
		return Channel{
			Name:     s.Channel.Name,
			ID:       s.Channel.ID,
			PageURL:  s.Channel.PageURL,
			MediaURL: s.MediaURL,
			Headers:  s.Headers,
			File:     files[i],
		}
	})
}
