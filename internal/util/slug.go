// Package util provides common utility functions.
package util

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var (
	// Matches spaces, underscores, and slashes (for replacement with dashes).
	wordSeparatorRe = regexp.MustCompile(`[\s_/]+`)
	// Matches non-alphanumeric characters (except dashes).
	nonAlphanumericRe = regexp.MustCompile(`[^a-z0-9-]`)
	// Matches multiple consecutive dashes.
	multipleDashRe = regexp.MustCompile(`-+`)

	// Decomposes accented characters and strips the combining marks,
	// so "Café" slugifies to "cafe" instead of dropping the rune.
	deaccent = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
)

// Slugify converts free text into a URL-safe slug.
//
// Rules:
//  1. Strip diacritics ("Café" → "Cafe")
//  2. Trim whitespace and lowercase
//  3. Replace spaces, underscores, and slashes with dashes
//  4. Remove remaining non-alphanumeric characters (except dashes)
//  5. Collapse multiple dashes and trim leading/trailing dashes
//
// Examples:
//
//	"Going Async in Go"  → "going-async-in-go"
//	"  C'est la vie!  "  → "cest-la-vie"
//	"--rust_vs_go--"     → "rust-vs-go"
func Slugify(input string) string {
	s := input
	if out, _, err := transform.String(deaccent, s); err == nil {
		s = out
	}

	s = strings.ToLower(strings.TrimSpace(s))
	s = wordSeparatorRe.ReplaceAllString(s, "-")
	s = nonAlphanumericRe.ReplaceAllString(s, "")
	s = multipleDashRe.ReplaceAllString(s, "-")
	return strings.Trim(s, "-")
}

// NormalizeTagSlug converts user input to a canonical tag slug.
// Tag name uniqueness is case-insensitive, so "Go" and "go"
// normalize to the same slug.
func NormalizeTagSlug(input string) string {
	return Slugify(input)
}
