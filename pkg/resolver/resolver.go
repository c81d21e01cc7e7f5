// Package resolver guesses LinkedIn company identifiers from display names.
//
// The result is a best-effort slug: callers must treat it as a guess and cope
// with the provider not knowing it.
package resolver

import (
	"regexp"
	"strings"
)

var (
	nonSlug    = regexp.MustCompile(`[^\w\s-]`)
	whitespace = regexp.MustCompile(`\s+`)
	hyphenRuns = regexp.MustCompile(`-+`)
)

// Resolve maps a company display name to a slug.
// Known aliases win (first table entry contained in the name); otherwise the
// name is slugified.
func Resolve(name string) string {
	lower := strings.ToLower(strings.TrimSpace(name))
	for _, a := range aliases {
		if strings.Contains(lower, a.fragment) {
			return a.slug
		}
	}
	return Slugify(lower)
}

// Slugify lowercases s, drops everything that is not a word character,
// whitespace or hyphen, turns whitespace runs into single hyphens and trims
// leading and trailing hyphens.
func Slugify(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	s = nonSlug.ReplaceAllString(s, "")
	s = whitespace.ReplaceAllString(s, "-")
	s = hyphenRuns.ReplaceAllString(s, "-")
	return strings.Trim(s, "-")
}
