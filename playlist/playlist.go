// Package playlist serializes resolved streams into an aggregate document and one document per channel.
package playlist

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/chanscout/chanscout/channel"
	"github.com/chanscout/chanscout/constant"
	"github.com/chanscout/chanscout/util"
)

// Options control naming and labels.
type Options struct {
	// Group is the label written on every metadata line.
	Group string
	// Extension of the per-channel documents, with the leading dot.
	Extension string
	// Aggregate is the filename of the aggregate document.
	Aggregate string
}

// Playlist is the output of one run.
type Playlist struct {
	// AggregateName is the aggregate document's filename.
	AggregateName string
	Aggregate     string
	// Channels maps a per-channel filename to its document.
	Channels map[string]string
	// Order lists the per-channel filenames in stream order.
	Order []string
}

// Files returns every document keyed by filename, the aggregate included.
func (p *Playlist) Files() map[string]string {
	files := make(map[string]string, len(p.Channels)+1)
	for name, doc := range p.Channels {
		files[name] = doc
	}
	files[p.AggregateName] = p.Aggregate
	return files
}

// Build serializes streams in order. An empty input yields a header-only aggregate.
func Build(streams []channel.Stream, opts Options) *Playlist {
	if opts.Aggregate == "" {
		opts.Aggregate = "playlist.m3u"
	}

	p := &Playlist{
		AggregateName: opts.Aggregate,
		Channels:      make(map[string]string, len(streams)),
		Order:         make([]string, 0, len(streams)),
	}

	seen := map[string]struct{}{strings.ToLower(opts.Aggregate): {}}

	var aggregate strings.Builder
	aggregate.WriteString(constant.PlaylistHeader + "\n")

	for _, s := range streams {
		record := Record(s, opts.Group)
		aggregate.WriteString(record)

		name := uniqueName(util.SanitizeFilename(s.Channel.Name), opts.Extension, seen)
		p.Channels[name] = constant.PlaylistHeader + "\n" + record
		p.Order = append(p.Order, name)
	}

	p.Aggregate = aggregate.String()
	return p
}

// uniqueName appends _2, _3, ... to stem until the filename is unused. Comparison ignores case.
func uniqueName(stem, ext string, seen map[string]struct{}) string {
	name := stem + ext
	for i := 2; ; i++ {
		if _, ok := seen[strings.ToLower(name)]; !ok {
			break
		}
		name = stem + "_" + strconv.Itoa(i) + ext
	}

	seen[strings.ToLower(name)] = struct{}{}
	return name
}

// Record renders the two lines of one stream: the metadata line and the URI line.
func Record(s channel.Stream, group string) string {
	return fmt.Sprintf("%s-1 group-title=\"%s\",%s\n%s\n",
		constant.EntryDirective,
		strings.ReplaceAll(singleLine(group), `"`, "'"),
		singleLine(s.Channel.Name),
		URI(s),
	)
}

// URI returns the media URL with headers appended as url|Key1=Value1&Key2=Value2, keys sorted.
func URI(s channel.Stream) string {
	if len(s.Headers) == 0 {
		return s.MediaURL
	}

	pairs := make([]string, 0, len(s.Headers))
	for _, k := range s.HeaderKeys() {
		pairs = append(pairs, escape(k)+"="+escape(s.Headers[k]))
	}

	return s.MediaURL + constant.HeaderSeparator + strings.Join(pairs, "&")
}

func escape(s string) string {
	return strings.ReplaceAll(url.QueryEscape(s), "+", "%20")
}

var lineBreaks = strings.NewReplacer("\r\n", " ", "\n", " ", "\r", " ")

func singleLine(s string) string {
	return strings.TrimSpace(lineBreaks.Replace(s))
}
