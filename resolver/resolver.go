// Package resolver turns catalog entries into playable streams.
// A bounded warming phase drives the browser to discover a base template,
// then every channel is resolved by substituting its identifier into it.
package resolver

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/chanscout/chanscout/browser"
	"github.com/chanscout/chanscout/channel"
	"github.com/chanscout/chanscout/log"
	"github.com/chanscout/chanscout/strategy"
	"github.com/chanscout/chanscout/util"
	"github.com/samber/lo"
)

// DefaultSample is the number of channels tried while warming the cache.
const DefaultSample = 5

// ErrExhausted is returned when no channel in the warming sample yields a template.
var ErrExhausted = errors.New("resolution exhausted: no template found in the warming sample")

// Options configure a resolver.
type Options struct {
	// Sample bounds the warming phase.
	Sample int
	// Strategies are the navigating strategies in priority order.
	Strategies []strategy.Strategy
	// Headers are attached to every stream after Referer and User-Agent.
	Headers map[string]string
	// Overrides are per-channel headers keyed by identifier. An empty value removes the header.
	Overrides map[string]map[string]string
}

// Attempt records how one channel of the warming sample went.
type Attempt struct {
	Channel  channel.Ref `json:"channel"`
	Strategy string      `json:"strategy,omitempty"`
	Outcome  string      `json:"outcome"`
	Error    string      `json:"error,omitempty"`
}

// Result of a resolution run.
type Result struct {
	// Streams in catalog order.
	Streams []channel.Stream
	// Attempted is the number of channels handed to the resolver.
	Attempted int
	// Template is the base template the bulk phase used, if any.
	Template strategy.Template
	// Canceled is set when the run was interrupted; Streams then holds what resolved before.
	Canceled bool
	// Warming lists the channels the warming phase visited.
	Warming []Attempt
}

// Resolver owns the base template cache for the duration of a run.
type Resolver struct {
	cache *strategy.Cache
	opts  Options
}

// New creates a resolver around cache.
func New(cache *strategy.Cache, opts Options) *Resolver {
	if cache == nil {
		cache = &strategy.Cache{}
	}
	if opts.Sample <= 0 {
		opts.Sample = DefaultSample
	}

	return &Resolver{cache: cache, opts: opts}
}

// Resolve runs both phases over refs. Each session serves one warming worker and is used serially.
func (r *Resolver) Resolve(ctx context.Context, refs []channel.Ref, sessions ...browser.Session) (Result, error) {
	r.cache.Reset()

	result := Result{Attempted: len(refs)}
	if len(refs) == 0 {
		return result, nil
	}
	if len(sessions) == 0 {
		return result, errors.New("no browser session")
	}
	if len(r.opts.Strategies) == 0 {
		return result, errors.New("no strategy configured")
	}

	sample := refs[:util.Min(r.opts.Sample, len(refs))]
	direct, warming := r.warm(ctx, sample, sessions)
	result.Warming = warming

	template, warm := r.cache.Load().Get()
	if !warm {
		if ctx.Err() != nil {
			result.Canceled = true
			result.Streams = r.collect(sample, direct, sessions[0].Identity())
			log.Warnf("run canceled while warming, %s resolved", util.Quantify(len(result.Streams), "channel", "channels"))
			return result, nil
		}

		return result, fmt.Errorf("%w (%d tried)", ErrExhausted, len(sample))
	}

	result.Template = template
	result.Canceled = ctx.Err() != nil
	result.Streams = lo.Map(refs, func(ref channel.Ref, _ int) channel.Stream {
		return r.stream(ref, template.Expand(ref.ID), sessions[0].Identity())
	})

	return result, nil
}

// warm fans the sample out to one worker per session, returning the directly resolved media URLs by index.
// With a single session the sample is visited strictly in order.
func (r *Resolver) warm(ctx context.Context, sample []channel.Ref, sessions []browser.Session) ([]string, []Attempt) {
	warmCtx, stop := context.WithCancel(ctx)
	defer stop()

	var (
		direct   = make([]string, len(sample))
		attempts = make([]*Attempt, len(sample))
		jobs     = make(chan int)
		wg       = sync.WaitGroup{}
		mutex    = sync.Mutex{}
	)

	workers := sessions[:util.Min(len(sessions), len(sample))]
	wg.Add(len(workers))
	for _, s := range workers {
		go func(s browser.Session) {
			defer wg.Done()

			for i := range jobs {
				if warmCtx.Err() != nil {
					continue
				}

				ref := sample[i]
				res := r.attempt(warmCtx, s, ref)

				attempt := &Attempt{Channel: ref, Strategy: res.Strategy, Outcome: res.Outcome.String()}
				if res.Err != nil {
					attempt.Error = res.Err.Error()
				}

				mutex.Lock()
				attempts[i] = attempt
				if res.Outcome == strategy.Resolved {
					direct[i] = res.MediaURL
				}
				mutex.Unlock()

				if res.Outcome == strategy.Resolved && r.cache.Store(res.Template) {
					log.WithFields(log.Fields{
						"channel":  ref.Name,
						"strategy": res.Strategy,
						"template": string(res.Template),
					}).Info("base template cached")
					stop()
				}
			}
		}(s)
	}

	for i := range sample {
		if warmCtx.Err() != nil {
			break
		}

		select {
		case jobs <- i:
		case <-warmCtx.Done():
		}
	}
	close(jobs)
	wg.Wait()

	visited := make([]Attempt, 0, len(sample))
	for _, a := range attempts {
		if a != nil {
			visited = append(visited, *a)
		}
	}

	return direct, visited
}

// attempt tries the strategies in order; the first non-NotFound result other than a fault wins.
func (r *Resolver) attempt(ctx context.Context, session browser.Session, ref channel.Ref) strategy.Result {
	last := strategy.Result{Outcome: strategy.NotFound}

	for _, s := range r.opts.Strategies {
		if ctx.Err() != nil {
			return strategy.Result{Outcome: strategy.Failed, Strategy: s.Name(), Err: ctx.Err()}
		}

		res := s.Attempt(ctx, session, ref, r.cache)
		entry := log.WithFields(log.Fields{
			"channel":  ref.Name,
			"id":       ref.ID,
			"strategy": s.Name(),
		})

		switch res.Outcome {
		case strategy.Resolved:
			entry.WithField("url", res.MediaURL).Info("channel resolved")
			return res
		case strategy.Failed:
			entry.WithError(res.Err).Warn("strategy failed")
			last = res
		default:
			entry.Debug("strategy found nothing")
			if last.Outcome != strategy.Failed {
				last = res
			}
		}
	}

	return last
}

func (r *Resolver) collect(sample []channel.Ref, direct []string, identity string) []channel.Stream {
	streams := make([]channel.Stream, 0, len(sample))
	for i, ref := range sample {
		if direct[i] != "" {
			streams = append(streams, r.stream(ref, direct[i], identity))
		}
	}
	return streams
}

func (r *Resolver) stream(ref channel.Ref, mediaURL, identity string) channel.Stream {
	headers := make(map[string]string, 2+len(r.opts.Headers))
	if ref.PageURL != "" {
		headers["Referer"] = ref.PageURL
	}
	if identity != "" {
		headers["User-Agent"] = identity
	}
	for k, v := range r.opts.Headers {
		headers[k] = v
	}
	for k, v := range r.opts.Overrides[ref.ID] {
		if v == "" {
			delete(headers, k)
			continue
		}
		headers[k] = v
	}

	return channel.Stream{Channel: ref, MediaURL: mediaURL, Headers: headers}
}
