// Package catalog turns the rendered index page into channel entries.
package catalog

import (
	"errors"
	"fmt"
	"net/url"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/chanscout/chanscout/channel"
	"github.com/chanscout/chanscout/constant"
	"github.com/samber/lo"
)

// ErrNotFound is returned when the catalog container is absent from the page.
var ErrNotFound = errors.New("catalog container not found")

// Options locate the catalog inside the page and describe how identifiers are derived.
type Options struct {
	// Container selects the element holding one entry per channel.
	Container string
	// Item selects a single entry inside the container.
	Item string
	// IDParam is the query parameter of the entry link carrying the identifier.
	IDParam string
	// IDAttrs are structural attributes tried, in order, when the link has no IDParam.
	IDAttrs []string
	// IDPattern extracts the identifier from a structural attribute value.
	// The first capture group is used, or the whole match when the pattern has none.
	IDPattern *regexp.Regexp
	// PageTemplate builds the page URL of entries without a link.
	PageTemplate string
}

var whitespace = regexp.MustCompile(`\s+`)

// Extract parses markup into channel entries in document order.
// Entries without a usable identifier are dropped. Duplicates are kept.
func Extract(markup string, base *url.URL, opts Options) ([]channel.Ref, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(markup))
	if err != nil {
		return nil, fmt.Errorf("parse catalog: %w", err)
	}

	container := doc.Find(opts.Container).First()
	if container.Length() == 0 {
		return nil, ErrNotFound
	}

	refs := make([]channel.Ref, 0)
	container.Find(opts.Item).Each(func(_ int, item *goquery.Selection) {
		if ref, ok := entry(item, base, opts); ok {
			refs = append(refs, ref)
		}
	})

	return refs, nil
}

func entry(item *goquery.Selection, base *url.URL, opts Options) (channel.Ref, bool) {
	link := item
	if !item.Is("a[href]") {
		link = item.Find("a[href]").First()
	}

	var (
		ref  channel.Ref
		page *url.URL
	)

	if href, ok := link.Attr("href"); ok {
		if u, ok := pageLink(base, href); ok {
			page = u
			ref.PageURL = u.String()
			if opts.IDParam != "" {
				ref.ID = strings.TrimSpace(u.Query().Get(opts.IDParam))
			}
		}
	}

	if ref.ID == "" {
		ref.ID = structuralID(item, link, opts)
	}

	if !ref.Valid() {
		return channel.Ref{}, false
	}

	if page == nil {
		switch {
		case opts.PageTemplate != "":
			ref.PageURL = strings.ReplaceAll(opts.PageTemplate, constant.Placeholder, ref.ID)
		case base != nil:
			ref.PageURL = base.String()
		}
	}

	ref.Name = name(item, link)
	if ref.Name == "" {
		ref.Name = ref.ID
	}

	return ref, true
}

// pageLink resolves href and accepts it as a channel page only when it is an http(s) URL
// other than the catalog itself. Script, mail and fragment-only links are rejected.
func pageLink(base *url.URL, href string) (*url.URL, bool) {
	u, err := resolve(base, href)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") {
		return nil, false
	}

	if base != nil && withoutFragment(u) == withoutFragment(base) {
		return nil, false
	}

	return u, true
}

func withoutFragment(u *url.URL) string {
	c := *u
	c.Fragment = ""
	c.RawFragment = ""
	return c.String()
}

func resolve(base *url.URL, href string) (*url.URL, error) {
	u, err := url.Parse(strings.TrimSpace(href))
	if err != nil {
		return nil, err
	}
	if base != nil {
		u = base.ResolveReference(u)
	}
	return u, nil
}

func structuralID(item, link *goquery.Selection, opts Options) string {
	for _, sel := range []*goquery.Selection{item, link} {
		for _, attr := range opts.IDAttrs {
			value, ok := sel.Attr(attr)
			if !ok {
				continue
			}

			if id := matchID(strings.TrimSpace(value), opts.IDPattern); id != "" {
				return id
			}
		}
	}

	return ""
}

func matchID(value string, pattern *regexp.Regexp) string {
	if value == "" || pattern == nil {
		return value
	}

	groups := pattern.FindStringSubmatch(value)
	switch {
	case groups == nil:
		return ""
	case len(groups) > 1:
		return groups[1]
	default:
		return groups[0]
	}
}

func name(item, link *goquery.Selection) string {
	candidates := []string{
		link.AttrOr("title", ""),
		link.Text(),
		item.AttrOr("title", ""),
		item.AttrOr("aria-label", ""),
		item.Text(),
		item.Find("img[alt]").AttrOr("alt", ""),
	}

	for _, c := range candidates {
		if c = strings.TrimSpace(whitespace.ReplaceAllString(c, " ")); c != "" {
			return c
		}
	}

	return ""
}

// Dedupe drops repeated identifiers, keeping the first occurrence.
func Dedupe(refs []channel.Ref) []channel.Ref {
	return lo.UniqBy(refs, func(r channel.Ref) string {
		return r.ID
	})
}
