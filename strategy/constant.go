package strategy

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"regexp"
	"strings"
	"time"

	"github.com/chanscout/chanscout/browser"
	"github.com/chanscout/chanscout/channel"
	"github.com/chanscout/chanscout/log"
	"github.com/dop251/goja"
)

// evalTimeout bounds the evaluation of a single extracted expression.
const evalTimeout = 250 * time.Millisecond

// ConstantExtraction reads the page source and evaluates the script constant holding the base template.
type ConstantExtraction struct {
	Options Options
}

func (c *ConstantExtraction) Name() string {
	return NameConstant
}

func (c *ConstantExtraction) Attempt(ctx context.Context, session browser.Session, ref channel.Ref, _ *Cache) Result {
	if err := session.Navigate(ctx, ref.PageURL, c.Options.Timeout); err != nil {
		return failed(NameConstant, err)
	}

	markup, err := session.Markup(ctx)
	if err != nil {
		return failed(NameConstant, err)
	}

	base, ok, err := ExtractConstant(markup, c.Options.Identifier)
	switch {
	case err != nil:
		return failed(NameConstant, err)
	case !ok:
		return notFound(NameConstant)
	}

	template := JoinBase(base, c.Options.Suffix)
	log.WithFields(log.Fields{
		"channel":  ref.Name,
		"id":       ref.ID,
		"strategy": NameConstant,
		"base":     base,
	}).Debug("base template extracted")

	return found(NameConstant, template.Expand(ref.ID), template)
}

// expression matches a right-hand side up to the statement end or the closing script tag.
// Quoted literals may contain any of those.
const expression = `((?:"(?:[^"\\\n]|\\.)*"|'(?:[^'\\\n]|\\.)*'|` + "`[^`]*`" + `|[^;\r\n<"'` + "`" + `])+)`

func assignment(identifier string) *regexp.Regexp {
	return regexp.MustCompile(`\b(?:const|let|var)\s+` + regexp.QuoteMeta(identifier) + `\s*=\s*` + expression)
}

// ExtractConstant finds the assignment of identifier in markup and evaluates its right-hand side.
// It reports false when no assignment is present. The value must be an absolute http(s) URL.
func ExtractConstant(markup, identifier string) (string, bool, error) {
	if identifier == "" {
		return "", false, errors.New("empty identifier")
	}

	matches := assignment(identifier).FindAllStringSubmatch(markup, -1)
	if len(matches) == 0 {
		return "", false, nil
	}

	var lastErr error
	for _, m := range matches {
		value, err := evaluate(strings.TrimSpace(m[1]))
		if err != nil {
			lastErr = err
			continue
		}

		if err := checkBase(value); err != nil {
			lastErr = err
			continue
		}

		return value, true, nil
	}

	return "", false, fmt.Errorf("constant %s: %w", identifier, lastErr)
}

func evaluate(expr string) (string, error) {
	vm := goja.New()
	timer := time.AfterFunc(evalTimeout, func() {
		vm.Interrupt("evaluation timed out")
	})
	defer timer.Stop()

	v, err := vm.RunString("(" + expr + ")")
	if err != nil {
		return "", fmt.Errorf("evaluate %q: %w", expr, err)
	}

	s, ok := v.Export().(string)
	if !ok {
		return "", fmt.Errorf("evaluate %q: not a string", expr)
	}

	return strings.TrimSpace(s), nil
}

func checkBase(value string) error {
	u, err := url.Parse(value)
	if err != nil {
		return fmt.Errorf("parse base %q: %w", value, err)
	}

	if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("base %q is not an absolute http url", value)
	}

	return nil
}
