package playlist

import (
	"bufio"
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/chanscout/chanscout/constant"
)

// Entry is one record read back from a document.
type Entry struct {
	Name     string
	Group    string
	MediaURL string
	Headers  map[string]string
}

// Parse reads a document produced by Build.
func Parse(doc string) ([]Entry, error) {
	scanner := bufio.NewScanner(strings.NewReader(doc))
	scanner.Buffer(make([]byte, 0, 64*1024), 1<<20)

	if !scanner.Scan() || strings.TrimSpace(scanner.Text()) != constant.PlaylistHeader {
		return nil, errors.New("missing playlist header")
	}

	var (
		entries []Entry
		pending *Entry
		line    = 1
	)

	for scanner.Scan() {
		line++
		text := strings.TrimSpace(scanner.Text())

		switch {
		case text == "":
			continue
		case strings.HasPrefix(text, constant.EntryDirective):
			if pending != nil {
				return nil, fmt.Errorf("line %d: metadata without uri", line-1)
			}
			e := parseMetadata(strings.TrimPrefix(text, constant.EntryDirective))
			pending = &e
		case strings.HasPrefix(text, "#"):
			continue
		default:
			if pending == nil {
				return nil, fmt.Errorf("line %d: uri without metadata", line)
			}
			pending.MediaURL, pending.Headers = parseURI(text)
			entries = append(entries, *pending)
			pending = nil
		}
	}

	if err := scanner.Err(); err != nil {
		return nil, err
	}
	if pending != nil {
		return nil, errors.New("last metadata line has no uri")
	}

	return entries, nil
}

// parseMetadata splits `-1 key="value" ...,Name` at the first comma outside quotes.
func parseMetadata(s string) Entry {
	var (
		entry  Entry
		quoted bool
		cut    = -1
	)

	for i, r := range s {
		if r == '"' {
			quoted = !quoted
		}
		if r == ',' && !quoted {
			cut = i
			break
		}
	}

	attrs := s
	if cut >= 0 {
		attrs, entry.Name = s[:cut], strings.TrimSpace(s[cut+1:])
	}

	const groupAttr = `group-title="`
	if i := strings.Index(attrs, groupAttr); i >= 0 {
		rest := attrs[i+len(groupAttr):]
		if j := strings.IndexByte(rest, '"'); j >= 0 {
			entry.Group = rest[:j]
		}
	}

	return entry
}

// parseURI splits off inline headers. A suffix that is not a header list stays part of the URL.
func parseURI(s string) (string, map[string]string) {
	i := strings.LastIndex(s, constant.HeaderSeparator)
	if i < 0 {
		return s, nil
	}

	headers := make(map[string]string)
	for _, pair := range strings.Split(s[i+1:], "&") {
		k, v, ok := strings.Cut(pair, "=")
		if !ok || k == "" {
			return s, nil
		}

		key, err := url.QueryUnescape(k)
		if err != nil {
			return s, nil
		}
		value, err := url.QueryUnescape(v)
		if err != nil {
			return s, nil
		}
		headers[key] = value
	}

	return s[:i], headers
}
