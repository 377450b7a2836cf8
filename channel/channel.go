// Package channel defines the value types that flow through a discovery run.
package channel

import (
	"regexp"
	"slices"

	"github.com/samber/lo"
)

var urlSafe = regexp.MustCompile(`^[A-Za-z0-9._~-]+$`)

// IsURLSafe reports whether id can be spliced into a URL path without escaping.
func IsURLSafe(id string) bool {
	return urlSafe.MatchString(id)
}

// Ref is a catalog entry: a channel name, the page that plays it and its stable identifier.
type Ref struct {
	Name    string `json:"name"`
	PageURL string `json:"page_url"`
	ID      string `json:"id"`
}

// Valid reports whether the entry carries a usable identifier.
func (r Ref) Valid() bool {
	return r.ID != "" && IsURLSafe(r.ID)
}

func (r Ref) String() string {
	if r.Name != "" {
		return r.Name
	}
	return r.ID
}

// Stream is a channel resolved to a directly playable media URL.
// Headers may be empty; origins are free not to enforce them.
type Stream struct {
	Channel  Ref               `json:"channel"`
	MediaURL string            `json:"media_url"`
	Headers  map[string]string `json:"headers,omitempty"`
}

// HeaderKeys returns the header names in a stable order.
func (s Stream) HeaderKeys() []string {
	keys := lo.Keys(s.Headers)
	slices.Sort(keys)
	return keys
}

func (s Stream) String() string {
	return s.Channel.String()
}
