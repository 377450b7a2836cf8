package constant

// Playlist wire tokens.
const (
	PlaylistHeader = "#EXTM3U"
	EntryDirective = "#EXTINF:"
	// HeaderSeparator separates the URI from its inline request headers.
	HeaderSeparator = "|"
	// Placeholder marks the channel identifier position inside a base template.
	Placeholder = "{id}"
)
