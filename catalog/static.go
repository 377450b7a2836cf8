package catalog

import (
	"fmt"
	"strings"

	"github.com/chanscout/chanscout/channel"
	"github.com/chanscout/chanscout/constant"
)

// Static builds entries from a fixed table of "Name=id" lines.
// The page URL of every entry is pageTemplate with the identifier substituted.
func Static(entries []string, pageTemplate string) ([]channel.Ref, error) {
	if !strings.Contains(pageTemplate, constant.Placeholder) {
		return nil, fmt.Errorf("page template %q has no %s placeholder", pageTemplate, constant.Placeholder)
	}

	refs := make([]channel.Ref, 0, len(entries))
	for _, e := range entries {
		name, id, ok := strings.Cut(e, "=")
		name, id = strings.TrimSpace(name), strings.TrimSpace(id)
		if !ok || name == "" {
			return nil, fmt.Errorf("invalid static entry %q: expected Name=id", e)
		}

		ref := channel.Ref{
			Name:    name,
			ID:      id,
			PageURL: strings.ReplaceAll(pageTemplate, constant.Placeholder, id),
		}
		if !ref.Valid() {
			return nil, fmt.Errorf("invalid static entry %q: identifier is not url safe", e)
		}

		refs = append(refs, ref)
	}

	return refs, nil
}
