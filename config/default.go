// Package config provides centralized management for application settings, defaults, and the Viper-based configuration engine.
package config

import (
	"encoding/json"
	"fmt"
	"reflect"
	"strconv"
	"strings"
	"text/template"

	"github.com/chanscout/chanscout/color"
	"github.com/chanscout/chanscout/constant"
	"github.com/chanscout/chanscout/key"
	"github.com/chanscout/chanscout/style"
	"github.com/muesli/reflow/wordwrap"
	"github.com/samber/lo"
	"github.com/spf13/viper"
)

// descriptionWidth is the column at which field descriptions are wrapped in pretty output.
const descriptionWidth = 72

// Field represents a configuration field definition.
type Field struct {
	Key         string
	Value       any
	Description string
}

// Pretty returns a colored string representation of the field for display.
func (f *Field) Pretty() string {
	var b strings.Builder
	lo.Must0(prettyTemplate.Execute(&b, f))
	return b.String()
}

// Env returns the environment variable name for this field.
func (f *Field) Env() string {
	env := strings.ToUpper(EnvKeyReplacer.Replace(f.Key))
	prefix := strings.ToUpper(constant.Chanscout + "_")
	if strings.HasPrefix(env, prefix) {
		return env
	}
	return prefix + env
}

// MarshalJSON customizes JSON output to include current and default values.
func (f *Field) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Key         string `json:"key"`
		Value       any    `json:"value"`
		Default     any    `json:"default"`
		Description string `json:"description"`
		Type        string `json:"type"`
	}{
		Key:         f.Key,
		Value:       viper.Get(f.Key),
		Default:     f.Value,
		Description: f.Description,
		Type:        f.typeName(),
	})
}

func (f *Field) typeName() string {
	switch f.Value.(type) {
	case string:
		return "string"
	case int:
		return "int"
	case bool:
		return "bool"
	case []string:
		return "[]string"
	default:
		return "unknown"
	}
}

// Default holds the map of all configuration fields.
var Default = make(map[string]Field)

// EnvExposed holds keys that are bound to environment variables.
var EnvExposed []string

// DefaultSniffExclude lists substrings of advertising and analytics hosts whose manifests are never the player's.
var DefaultSniffExclude = []string{
	"doubleclick.net",
	"googlesyndication.com",
	"googleadservices.com",
	"imasdk.googleapis.com",
	"adservice.",
	"/ads/",
}

func init() {
	register := func(k string, v any, desc string) {
		if _, exists := Default[k]; exists {
			panic("Duplicate config key: " + k)
		}
		Default[k] = Field{Key: k, Value: v, Description: desc}
		EnvExposed = append(EnvExposed, k)
	}

	register(key.CatalogURL, "", "URL of the page listing every channel")
	register(key.CatalogContainer, "#channels", "CSS selector of the element that holds the channel entries")
	register(key.CatalogItem, ".channel", "CSS selector of a single channel entry inside the container")
	register(key.CatalogIDParam, "id", "Query parameter on the channel link that carries the channel identifier")
	register(key.CatalogIDAttrs, []string{"data-id", "id"}, "Entry attributes consulted when the link has no identifier parameter")
	register(key.CatalogIDPattern, `^(?:channel[-_])?(.+)$`, "Regular expression applied to attribute identifiers.\nThe first capture group is the identifier")
	register(key.CatalogStatic, []string{}, "Static channel table as Name=id pairs.\nWhen set, the catalog page is not loaded")
	register(key.CatalogPageTemplate, "", "Channel page URL for static entries, {id} is replaced by the identifier")
	register(key.CatalogDedupe, false, "Drop catalog entries whose identifier was already seen")
	register(key.CatalogFilter, []string{}, "Only resolve channels whose name fuzzy-matches one of these terms")

	register(key.BrowserEngine, "rod", "Page automation backend.\nAvailable options are: rod (headless chromium), http (static fetch, no scripts)")
	register(key.BrowserBin, "", "Browser binary used by the rod engine.\nLeft empty, a system browser is looked up or downloaded")
	register(key.BrowserHeadless, true, "Run the browser without a window")
	register(key.BrowserUserAgent, constant.UserAgent, "User-Agent presented to the site and attached to every stream")
	register(key.BrowserTimeout, 30, "Per-navigation timeout in seconds")
	register(key.BrowserSettle, 15, "Seconds to wait after page load so player scripts can issue their requests")

	register(key.ResolverWorkers, 1, "Number of browser sessions used while warming the template cache")
	register(key.ResolverSample, 5, "How many channels may be tried before the run gives up finding a template")
	register(key.ResolverStrategies, []string{"constant", "sniff"}, "Order of navigating strategies.\nAvailable options are: constant, sniff")
	register(key.ResolverIdentifier, "baseurl", "JavaScript identifier assigned the stream base URL in the channel page")
	register(key.ResolverSuffix, ".m3u8", "Manifest file suffix")
	register(key.ResolverSniffPolicy, "last", "Which matching network request wins.\nAvailable options are: first, last")
	register(key.ResolverSniffContains, []string{}, "Substrings a sniffed manifest URL must contain")
	register(key.ResolverSniffExclude, DefaultSniffExclude, "Substrings that disqualify a sniffed manifest URL")
	register(key.ResolverHeaders, []string{}, "Extra Key=Value request headers attached to every stream")

	register(key.PlaylistOutput, "playlist", "Directory receiving the aggregate and per-channel playlists")
	register(key.PlaylistAggregate, "playlist.m3u", "Filename of the aggregate playlist")
	register(key.PlaylistExtension, ".m3u8", "Extension of per-channel playlists")
	register(key.PlaylistGroup, "Live", "Group label written on every entry")

	register(key.PublishEnable, false, "Publish the aggregate playlist after a successful run")
	register(key.PublishSink, "github", "Publish target.\nAvailable options are: github, file")
	register(key.PublishPath, "playlist.m3u", "Path of the published playlist inside the sink")
	register(key.PublishDir, "", "Root directory of the file sink")
	register(key.PublishGithubRepo, "", "GitHub repository as owner/name")
	register(key.PublishGithubBranch, "main", "Branch receiving the commit")
	register(key.PublishGithubAPI, "https://api.github.com", "GitHub API base URL")
	register(key.PublishGithubMessage, "Update playlist", "Commit message")
	register(key.PublishGithubToken, "", "GitHub token.\nLeft empty, the token stored with \"chanscout auth set\" is used")

	register(key.RunTimeout, 0, "Overall run deadline in minutes, 0 disables it")

	register(key.LogsWrite, false, "Write logs")
	register(key.LogsLevel, "info", "Available options are: (from less to most verbose)\npanic, fatal, error, warn, info, debug, trace")
	register(key.LogsJson, false, "Use json format for logs")
	register(key.CliColored, true, "Enable colored CLI output")
	register(key.CliVersionCheck, false, "Enable automatic version check")
	register(key.IconsVariant, "plain", "Icons variant.\nAvailable options are: emoji, kaomoji, plain, squares, nerd (nerd-font required)")
}

var prettyTemplate = lo.Must(template.New("pretty").Funcs(template.FuncMap{
	"faint":    style.Faint,
	"bold":     style.Bold,
	"purple":   style.Fg(color.Purple),
	"blue":     style.Fg(color.Blue),
	"cyan":     style.Fg(color.Cyan),
	"wrap":     func(s string) string { return wordwrap.String(s, descriptionWidth) },
	"value":    func(k string) any { return viper.Get(k) },
	"typename": func(v any) string { return reflect.TypeOf(v).String() },
	"hl": func(v any) string {
		switch value := v.(type) {
		case bool:
			b := strconv.FormatBool(value)
			if value {
				return style.Fg(color.Green)(b)
			}
			return style.Fg(color.Red)(b)
		case string:
			return style.Fg(color.Yellow)(value)
		default:
			return fmt.Sprint(value)
		}
	},
}).Parse(`{{ faint (wrap .Description) }}
{{ blue "Key:" }}     {{ purple .Key }}
{{ blue "Env:" }}     {{ .Env }}
{{ blue "Value:" }}   {{ hl (value .Key) }}
{{ blue "Default:" }} {{ hl (.Value) }}
{{ blue "Type:" }}    {{ typename .Value }}`))
