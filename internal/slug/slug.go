// Package slug turns entity titles into URL path segments.
package slug

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// MaxLength is the longest slug Generate returns.
const MaxLength = 100

var (
	invalidChars = regexp.MustCompile("[^a-z0-9-]+")
	hyphenRuns   = regexp.MustCompile("-+")
)

// Generate creates a URL-friendly slug from a string.
func Generate(s string) string {
	if s == "" {
		return ""
	}

	s = strings.ToLower(transliterate(s))

	// Spaces, underscores and slashes separate words
	s = strings.NewReplacer(" ", "-", "_", "-", "/", "-", "&", "-").Replace(s)

	s = invalidChars.ReplaceAllString(s, "")
	s = hyphenRuns.ReplaceAllString(s, "-")
	s = strings.Trim(s, "-")

	if len(s) > MaxLength {
		s = strings.TrimRight(s[:MaxLength], "-")
	}

	return s
}

// GenerateWithFallback generates a slug, falling back to a default if the
// input produces an empty slug.
func GenerateWithFallback(s, fallback string) string {
	if slug := Generate(s); slug != "" {
		return slug
	}
	return Generate(fallback)
}

// transliterate strips diacritics so "Café" becomes "Cafe".
func transliterate(s string) string {
	t := transform.Chain(norm.NFD, transform.RemoveFunc(isMn), norm.NFC)
	result, _, err := transform.String(t, s)
	if err != nil {
		return s
	}
	return result
}

// isMn checks if a rune is a nonspacing mark (accents, diacritics).
func isMn(r rune) bool {
	return unicode.Is(unicode.Mn, r)
}
