package cmd

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/chanscout/chanscout/auth"
	"github.com/chanscout/chanscout/browser"
	"github.com/chanscout/chanscout/catalog"
	"github.com/chanscout/chanscout/filesystem"
	"github.com/chanscout/chanscout/key"
	"github.com/chanscout/chanscout/playlist"
	"github.com/chanscout/chanscout/publish"
	"github.com/chanscout/chanscout/resolver"
	"github.com/chanscout/chanscout/scan"
	"github.com/chanscout/chanscout/strategy"
	"github.com/chanscout/chanscout/where"
	"github.com/samber/mo"
	"github.com/spf13/viper"
)

func seconds(k string) time.Duration {
	return time.Duration(viper.GetInt(k)) * time.Second
}

func browserOptions() browser.Options {
	return browser.Options{
		Engine:      viper.GetString(key.BrowserEngine),
		Bin:         viper.GetString(key.BrowserBin),
		Headless:    viper.GetBool(key.BrowserHeadless),
		UserAgent:   viper.GetString(key.BrowserUserAgent),
		DownloadDir: where.Browser(),
	}
}

func catalogOptions() (catalog.Options, error) {
	pattern, err := regexp.Compile(viper.GetString(key.CatalogIDPattern))
	if err != nil {
		return catalog.Options{}, fmt.Errorf("%s: %w", key.CatalogIDPattern, err)
	}

	return catalog.Options{
		Container:    viper.GetString(key.CatalogContainer),
		Item:         viper.GetString(key.CatalogItem),
		IDParam:      viper.GetString(key.CatalogIDParam),
		IDAttrs:      viper.GetStringSlice(key.CatalogIDAttrs),
		IDPattern:    pattern,
		PageTemplate: viper.GetString(key.CatalogPageTemplate),
	}, nil
}

func strategyOptions() (strategy.Options, error) {
	policy, err := strategy.ParsePolicy(viper.GetString(key.ResolverSniffPolicy))
	if err != nil {
		return strategy.Options{}, err
	}

	return strategy.Options{
		Timeout:    seconds(key.BrowserTimeout),
		Settle:     seconds(key.BrowserSettle),
		Identifier: viper.GetString(key.ResolverIdentifier),
		Suffix:     viper.GetString(key.ResolverSuffix),
		Policy:     policy,
		Contains:   viper.GetStringSlice(key.ResolverSniffContains),
		Exclude:    viper.GetStringSlice(key.ResolverSniffExclude),
	}, nil
}

// parseHeaders reads "Key=Value" entries. An "id:Key=Value" entry applies to that channel only.
func parseHeaders(entries []string) (map[string]string, map[string]map[string]string, error) {
	var (
		global    = make(map[string]string)
		overrides = make(map[string]map[string]string)
	)

	for _, entry := range entries {
		k, v, ok := strings.Cut(entry, "=")
		if !ok {
			return nil, nil, fmt.Errorf("invalid header %q: expected Key=Value", entry)
		}

		id, name, scoped := strings.Cut(strings.TrimSpace(k), ":")
		if !scoped {
			name = id
		}
		if name == "" {
			return nil, nil, fmt.Errorf("invalid header %q: empty name", entry)
		}

		if !scoped {
			global[name] = strings.TrimSpace(v)
			continue
		}

		if overrides[id] == nil {
			overrides[id] = make(map[string]string)
		}
		overrides[id][name] = strings.TrimSpace(v)
	}

	return global, overrides, nil
}

func resolverOptions() (resolver.Options, error) {
	sopts, err := strategyOptions()
	if err != nil {
		return resolver.Options{}, err
	}

	strategies, err := strategy.ByName(viper.GetStringSlice(key.ResolverStrategies), sopts)
	if err != nil {
		return resolver.Options{}, err
	}

	headers, overrides, err := parseHeaders(viper.GetStringSlice(key.ResolverHeaders))
	if err != nil {
		return resolver.Options{}, err
	}

	return resolver.Options{
		Sample:     viper.GetInt(key.ResolverSample),
		Strategies: strategies,
		Headers:    headers,
		Overrides:  overrides,
	}, nil
}

func publishSink() (mo.Option[publish.Sink], error) {
	if !viper.GetBool(key.PublishEnable) {
		return mo.None[publish.Sink](), nil
	}

	opts := publish.Options{
		Sink:    viper.GetString(key.PublishSink),
		Fs:      filesystem.API(),
		Dir:     viper.GetString(key.PublishDir),
		API:     viper.GetString(key.PublishGithubAPI),
		Repo:    viper.GetString(key.PublishGithubRepo),
		Branch:  viper.GetString(key.PublishGithubBranch),
		Message: viper.GetString(key.PublishGithubMessage),
		Token:   viper.GetString(key.PublishGithubToken),
	}

	if opts.Token == "" && !strings.EqualFold(opts.Sink, publish.SinkFile) {
		token, err := auth.GetToken()
		if err != nil && !errors.Is(err, auth.ErrNoToken) {
			return mo.None[publish.Sink](), fmt.Errorf("read token from keyring: %w", err)
		}
		opts.Token = token
	}

	sink, err := publish.New(opts)
	if err != nil {
		return mo.None[publish.Sink](), err
	}

	return mo.Some(sink), nil
}

// scanOptions assembles a run from the configuration.
func scanOptions() (*scan.Options, error) {
	copts, err := catalogOptions()
	if err != nil {
		return nil, err
	}

	ropts, err := resolverOptions()
	if err != nil {
		return nil, err
	}

	sink, err := publishSink()
	if err != nil {
		return nil, err
	}

	bopts := browserOptions()

	return &scan.Options{
		CatalogURL: viper.GetString(key.CatalogURL),
		Catalog:    copts,
		Static:     viper.GetStringSlice(key.CatalogStatic),
		Dedupe:     viper.GetBool(key.CatalogDedupe),
		Filter:     scan.ParseFilter(viper.GetStringSlice(key.CatalogFilter)),
		Open: func(ctx context.Context, n int) ([]browser.Session, error) {
			return browser.OpenPool(ctx, n, bopts)
		},
		Workers:  viper.GetInt(key.ResolverWorkers),
		Timeout:  seconds(key.BrowserTimeout),
		Settle:   seconds(key.BrowserSettle),
		Resolver: ropts,
		Playlist: playlist.Options{
			Group:     viper.GetString(key.PlaylistGroup),
			Extension: viper.GetString(key.PlaylistExtension),
			Aggregate: viper.GetString(key.PlaylistAggregate),
		},
		Fs:          filesystem.API(),
		Output:      viper.GetString(key.PlaylistOutput),
		Publish:     sink,
		PublishPath: viper.GetString(key.PublishPath),
		Record:      true,
	}, nil
}
