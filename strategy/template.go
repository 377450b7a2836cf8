package strategy

import (
	"strings"
	"sync/atomic"
	"unicode"
	"unicode/utf8"

	"github.com/chanscout/chanscout/constant"
	"github.com/samber/mo"
)

// Template is a media URL with the channel identifier replaced by a placeholder.
type Template string

// Valid reports whether t carries the identifier placeholder.
func (t Template) Valid() bool {
	return strings.Contains(string(t), constant.Placeholder)
}

// Expand substitutes id into the template.
func (t Template) Expand(id string) string {
	return strings.ReplaceAll(string(t), constant.Placeholder, id)
}

// JoinBase builds the template base + "/" + id + suffix with exactly one separator,
// however many the base ends with.
func JoinBase(base, suffix string) Template {
	return Template(strings.TrimRight(base, "/") + "/" + constant.Placeholder + suffix)
}

// TemplateFromURL factors id out of mediaURL. Only occurrences that stand alone between
// non-alphanumeric neighbours count. The path is searched before the query, and the
// template is derived only when the searched part holds exactly one occurrence.
func TemplateFromURL(mediaURL, id string) (Template, bool) {
	if id == "" {
		return "", false
	}

	end := len(mediaURL)
	if i := strings.IndexAny(mediaURL, "?#"); i >= 0 {
		end = i
	}

	for _, part := range [][2]int{{0, end}, {end, len(mediaURL)}} {
		found := occurrences(mediaURL, id, part[0], part[1])
		switch len(found) {
		case 0:
			continue
		case 1:
			i := found[0]
			return Template(mediaURL[:i] + constant.Placeholder + mediaURL[i+len(id):]), true
		default:
			return "", false
		}
	}

	return "", false
}

// occurrences returns the offsets of standalone matches of id within s[from:to].
func occurrences(s, id string, from, to int) []int {
	var found []int

	for i := from; i+len(id) <= to; {
		j := strings.Index(s[i:to], id)
		if j < 0 {
			break
		}

		at := i + j
		if !isAlnumAt(s, at-1) && !isAlnumAt(s, at+len(id)) {
			found = append(found, at)
		}
		i = at + 1
	}

	return found
}

func isAlnumAt(s string, i int) bool {
	if i < 0 || i >= len(s) {
		return false
	}

	r, _ := utf8.DecodeRuneInString(s[i:])
	return unicode.IsLetter(r) || unicode.IsDigit(r)
}

// Cache holds the base template of a run. It is written at most once until Reset.
type Cache struct {
	template atomic.Pointer[Template]
}

// Load returns the template if the cache is warm.
func (c *Cache) Load() mo.Option[Template] {
	if t := c.template.Load(); t != nil {
		return mo.Some(*t)
	}
	return mo.None[Template]()
}

// Store sets the template if the cache is empty. The first writer wins; it reports whether t was stored.
func (c *Cache) Store(t Template) bool {
	if !t.Valid() {
		return false
	}
	return c.template.CompareAndSwap(nil, &t)
}

// Reset empties the cache. Called only at the start of a run.
func (c *Cache) Reset() {
	c.template.Store(nil)
}
