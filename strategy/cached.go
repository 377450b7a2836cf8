package strategy

import (
	"context"

	"github.com/chanscout/chanscout/browser"
	"github.com/chanscout/chanscout/channel"
)

// CachedTemplate substitutes the identifier into the warmed template. It never navigates.
type CachedTemplate struct{}

func (CachedTemplate) Name() string {
	return NameCached
}

func (CachedTemplate) Attempt(_ context.Context, _ browser.Session, ref channel.Ref, cache *Cache) Result {
	if cache == nil {
		return notFound(NameCached)
	}

	template, ok := cache.Load().Get()
	if !ok {
		return notFound(NameCached)
	}

	return found(NameCached, template.Expand(ref.ID), template)
}
