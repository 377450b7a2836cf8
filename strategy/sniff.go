package strategy

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/chanscout/chanscout/browser"
	"github.com/chanscout/chanscout/channel"
	"github.com/chanscout/chanscout/log"
	"github.com/samber/lo"
)

// Policy picks one of several matching requests.
type Policy string

const (
	PolicyFirst Policy = "first"
	PolicyLast  Policy = "last"
)

// ParsePolicy parses a policy name. An empty name selects PolicyLast.
func ParsePolicy(name string) (Policy, error) {
	switch p := Policy(strings.ToLower(strings.TrimSpace(name))); p {
	case "":
		return PolicyLast, nil
	case PolicyFirst, PolicyLast:
		return p, nil
	default:
		return "", fmt.Errorf("unknown sniff policy: %s", name)
	}
}

// NetworkSniff loads the page, waits for the settle window and picks a manifest request from the log.
type NetworkSniff struct {
	Options Options
}

func (n *NetworkSniff) Name() string {
	return NameSniff
}

func (n *NetworkSniff) Attempt(ctx context.Context, session browser.Session, ref channel.Ref, _ *Cache) Result {
	if err := session.Navigate(ctx, ref.PageURL, n.Options.Timeout); err != nil {
		return failed(NameSniff, err)
	}

	if err := browser.Settle(ctx, n.Options.Settle); err != nil {
		return failed(NameSniff, err)
	}

	observed := session.Requests()
	matched := lo.Filter(observed, func(r browser.Request, _ int) bool {
		return n.Match(r.URL)
	})

	entry := log.WithFields(log.Fields{
		"channel":  ref.Name,
		"id":       ref.ID,
		"strategy": NameSniff,
		"matched":  len(matched),
		"observed": len(observed),
	})

	if len(matched) == 0 {
		entry.Debug("no manifest request observed")
		return notFound(NameSniff)
	}

	pick := matched[len(matched)-1]
	if n.Options.Policy == PolicyFirst {
		pick = matched[0]
	}
	entry.WithField("url", pick.URL).Debug("manifest request picked")

	template, ok := TemplateFromURL(pick.URL, ref.ID)
	if !ok {
		template = ""
	}

	return found(NameSniff, pick.URL, template)
}

// Match reports whether raw looks like a manifest request: the path carries the suffix,
// every required substring is present and no excluded one is.
func (n *NetworkSniff) Match(raw string) bool {
	u, err := url.Parse(raw)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") {
		return false
	}

	if !strings.HasSuffix(strings.ToLower(u.Path), strings.ToLower(n.Options.Suffix)) {
		return false
	}

	for _, c := range n.Options.Contains {
		if !strings.Contains(raw, c) {
			return false
		}
	}

	for _, e := range n.Options.Exclude {
		if e != "" && strings.Contains(raw, e) {
			return false
		}
	}

	return true
}
