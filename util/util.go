// Package util provides a collection of domain-agnostic utility functions and cross-platform helpers.
package util

import (
	"fmt"
	"os"
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/exp/constraints"
	"golang.org/x/term"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// FallbackFilename is used when nothing printable survives sanitization.
const FallbackFilename = "channel"

var (
	illegalChars   = regexp.MustCompile(`[\\/<>:;"'|?!*{}#%&^+,~=\x00-\x1f\x7f]`)
	whitespaceRuns = regexp.MustCompile(`\s+`)
	separatorRuns  = regexp.MustCompile(`__+`)
	edgeSeparators = regexp.MustCompile(`^[_\-.]+|[_\-.]+$`)
)

// letters that do not decompose into a base letter plus combining marks.
var transliterations = map[rune]string{
	'ı': "i",
	'ß': "ss",
	'ø': "o", 'Ø': "O",
	'ł': "l", 'Ł': "L",
	'đ': "d", 'Đ': "D",
	'ð': "d", 'Ð': "D",
	'þ': "th", 'Þ': "Th",
	'æ': "ae", 'Æ': "AE",
	'œ': "oe", 'Œ': "OE",
}

// Transliterate folds diacritics into their plain ASCII letters and drops any rune without an ASCII equivalent.
func Transliterate(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	folded, _, err := transform.String(t, s)
	if err != nil {
		folded = s
	}

	var b strings.Builder
	b.Grow(len(folded))
	for _, r := range folded {
		if rep, ok := transliterations[r]; ok {
			b.WriteString(rep)
			continue
		}
		if r < utf8.RuneSelf {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// SanitizeFilename normalizes a display name into a safe, cross-platform filename stem.
// The result is plain ASCII with whitespace collapsed into single underscores; sanitizing it again is a no-op.
func SanitizeFilename(filename string) string {
	filename = Transliterate(filename)
	filename = illegalChars.ReplaceAllString(filename, "")
	filename = whitespaceRuns.ReplaceAllString(filename, "_")
	filename = separatorRuns.ReplaceAllString(filename, "_")
	filename = edgeSeparators.ReplaceAllString(filename, "")

	if filename == "" {
		return FallbackFilename
	}
	return filename
}

// Quantify returns a pluralized string representation of a count and its associated labels.
func Quantify(count int, singular, plural string) string {
	if count == 1 {
		return fmt.Sprintf("%d %s", count, singular)
	}
	return fmt.Sprintf("%d %s", count, plural)
}

// Capitalize transforms the first rune of a string to its uppercase equivalent.
func Capitalize(s string) string {
	if len(s) == 0 {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

// TerminalSize retrieves the current character dimensions of the terminal window.
func TerminalSize() (width, height int, err error) {
	return term.GetSize(int(os.Stdout.Fd()))
}

// Truncate shortens s to at most width runes, marking the cut with an ellipsis.
func Truncate(s string, width int) string {
	if width <= 0 || utf8.RuneCountInString(s) <= width {
		return s
	}
	if width == 1 {
		return "…"
	}
	r := []rune(s)
	return string(r[:width-1]) + "…"
}

// PrintErasable prints an ephemeral message to the terminal and returns a closure to clear it.
func PrintErasable(msg string) (eraser func()) {
	fmt.Fprintf(os.Stdout, "\r%s", msg)
	return func() {
		fmt.Fprintf(os.Stdout, "\r%s\r", strings.Repeat(" ", len(msg)))
	}
}

// Ignore executes a function and explicitly discards its error return value.
func Ignore(f func() error) {
	_ = f()
}

// Max returns the maximum value among arguments.
func Max[T constraints.Ordered](items ...T) (max T) {
	if len(items) == 0 {
		return
	}
	max = items[0]
	for _, item := range items[1:] {
		if item > max {
			max = item
		}
	}
	return
}

// Min returns the minimum value among arguments.
func Min[T constraints.Ordered](items ...T) (min T) {
	if len(items) == 0 {
		return
	}
	min = items[0]
	for _, item := range items[1:] {
		if item < min {
			min = item
		}
	}
	return
}
