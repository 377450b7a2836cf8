// Package strategy holds the interchangeable algorithms that turn a channel entry into a media URL.
package strategy

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/chanscout/chanscout/browser"
	"github.com/chanscout/chanscout/channel"
)

// Outcome of a single strategy attempt.
type Outcome int

const (
	// NotFound means the strategy saw nothing usable. It is the common case, not a fault.
	NotFound Outcome = iota
	// Resolved means MediaURL is set.
	Resolved
	// Failed means the attempt hit a transport, timeout or parse fault, carried in Err.
	Failed
)

func (o Outcome) String() string {
	switch o {
	case Resolved:
		return "resolved"
	case Failed:
		return "failed"
	default:
		return "not found"
	}
}

// Result of an attempt. Template is set when the media URL could be factored into a reusable template.
type Result struct {
	Outcome  Outcome
	Strategy string
	MediaURL string
	Template Template
	Err      error
}

func found(name, mediaURL string, template Template) Result {
	return Result{Outcome: Resolved, Strategy: name, MediaURL: mediaURL, Template: template}
}

func notFound(name string) Result {
	return Result{Outcome: NotFound, Strategy: name}
}

func failed(name string, err error) Result {
	return Result{Outcome: Failed, Strategy: name, Err: err}
}

// Strategy attempts to resolve ref, possibly by driving session.
// Implementations must not return Resolved with an empty MediaURL.
type Strategy interface {
	Name() string
	Attempt(ctx context.Context, session browser.Session, ref channel.Ref, cache *Cache) Result
}

// Strategy names.
const (
	NameCached   = "cached"
	NameConstant = "constant"
	NameSniff    = "sniff"
)

// Options shared by the navigating strategies.
type Options struct {
	// Timeout bounds a single navigation.
	Timeout time.Duration
	// Settle is the wait after load before the request log is inspected.
	Settle time.Duration
	// Identifier is the script constant holding the base template.
	Identifier string
	// Suffix is the manifest suffix appended to synthesized URLs and required of sniffed ones.
	Suffix string
	// Policy picks among several sniffed matches.
	Policy Policy
	// Contains lists substrings a sniffed URL must all carry.
	Contains []string
	// Exclude lists substrings that disqualify a sniffed URL.
	Exclude []string
}

// ByName builds the ordered navigating strategies. The cached template strategy is implicit.
func ByName(names []string, opts Options) ([]Strategy, error) {
	if len(names) == 0 {
		return nil, fmt.Errorf("no strategies configured")
	}

	strategies := make([]Strategy, 0, len(names))
	for _, name := range names {
		switch strings.ToLower(strings.TrimSpace(name)) {
		case NameConstant:
			strategies = append(strategies, &ConstantExtraction{Options: opts})
		case NameSniff:
			strategies = append(strategies, &NetworkSniff{Options: opts})
		case NameCached:
			return nil, fmt.Errorf("strategy %q is always tried first and cannot be listed", name)
		default:
			return nil, fmt.Errorf("unknown strategy: %s", name)
		}
	}

	return strategies, nil
}
