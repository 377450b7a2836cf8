// Package key defines the canonical set of configuration identifiers used for centralized settings management.
package key

// Catalog Discovery - these keys locate the channel index and govern identifier extraction.
const (
	CatalogURL          = "catalog.url"
	CatalogContainer    = "catalog.container"
	CatalogItem         = "catalog.item"
	CatalogIDParam      = "catalog.id_param"
	CatalogIDAttrs      = "catalog.id_attrs"
	CatalogIDPattern    = "catalog.id_pattern"
	CatalogStatic       = "catalog.static"
	CatalogPageTemplate = "catalog.page_template"
	CatalogDedupe       = "catalog.dedupe"
	CatalogFilter       = "catalog.filter"
)

// Browser Session - these keys configure the page automation backend.
const (
	BrowserEngine    = "browser.engine"
	BrowserBin       = "browser.bin"
	BrowserHeadless  = "browser.headless"
	BrowserUserAgent = "browser.user_agent"
	BrowserTimeout   = "browser.timeout"
	BrowserSettle    = "browser.settle"
)

// Stream Resolution - these keys tune the strategy chain and the cache-warming phase.
const (
	ResolverWorkers       = "resolver.workers"
	ResolverSample        = "resolver.sample"
	ResolverStrategies    = "resolver.strategies"
	ResolverIdentifier    = "resolver.identifier"
	ResolverSuffix        = "resolver.suffix"
	ResolverSniffPolicy   = "resolver.sniff_policy"
	ResolverSniffContains = "resolver.sniff_contains"
	ResolverSniffExclude  = "resolver.sniff_exclude"
	ResolverHeaders       = "resolver.headers"
)

// Playlist Output - these keys shape the written artifacts.
const (
	PlaylistOutput    = "playlist.output"
	PlaylistAggregate = "playlist.aggregate"
	PlaylistExtension = "playlist.extension"
	PlaylistGroup     = "playlist.group"
)

// Publishing - these keys configure the remote sink for the aggregate playlist.
const (
	PublishEnable        = "publish.enable"
	PublishSink          = "publish.sink"
	PublishPath          = "publish.path"
	PublishDir           = "publish.dir"
	PublishGithubRepo    = "publish.github.repo"
	PublishGithubBranch  = "publish.github.branch"
	PublishGithubAPI     = "publish.github.api"
	PublishGithubMessage = "publish.github.message"
	PublishGithubToken   = "publish.github.token"
)

// Run Control
const (
	RunTimeout = "run.timeout"
)

// Logging Infrastructure - these keys manage the application's internal diagnostics and auditing system.
const (
	LogsWrite = "logs.write"
	LogsLevel = "logs.level"
	LogsJson  = "logs.json"
)

// CLI Execution Environment - these flags and settings govern the terminal behavior.
const (
	CliColored      = "cli.colored"
	CliVersionCheck = "cli.version_check"
)

// Iconography - these keys manage the visual rendering of UI symbols.
const (
	IconsVariant = "icons.variant"
)
