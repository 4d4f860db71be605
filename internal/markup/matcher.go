package markup

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/net/html"
)

// charRefPattern finds candidate character references in raw text. Named
// references may omit the semicolon, as HTML allows for legacy names.
var charRefPattern = regexp.MustCompile(`&(?:#[0-9]+|#[xX][0-9a-fA-F]+|[A-Za-z][A-Za-z0-9]*);?`)

// Matcher finds whole-phrase occurrences of one anchor in raw HTML text.
type Matcher struct {
	re *regexp.Regexp
}

// NewMatcher compiles a matcher for anchor. The entity-escaped form of the
// anchor is matched too, so "R&D" finds "R&amp;D" in source text.
func NewMatcher(anchor string, caseSensitive bool) *Matcher {
	pattern := regexp.QuoteMeta(anchor)
	if escaped := html.EscapeString(anchor); escaped != anchor {
		pattern = "(?:" + pattern + "|" + regexp.QuoteMeta(escaped) + ")"
	}
	if !caseSensitive {
		pattern = "(?i)" + pattern
	}
	return &Matcher{re: regexp.MustCompile(pattern)}
}

// Matches returns the [start, end) byte ranges of every occurrence of the
// anchor in text that does not begin or end in the middle of a word or a
// character reference. Ranges are in order and may overlap when the anchor
// overlaps itself.
func (m *Matcher) Matches(text string) [][2]int {
	var result [][2]int
	refs := charRefs(text)
	pos := 0

	for pos <= len(text) {
		loc := m.re.FindStringIndex(text[pos:])
		if loc == nil {
			break
		}
		start, end := pos+loc[0], pos+loc[1]
		if end > start && atWordBoundary(text, start, end) && !splitsCharRef(refs, start, end) {
			result = append(result, [2]int{start, end})
		}

		// Resume one rune past the match start to find overlapping candidates.
		_, size := utf8.DecodeRuneInString(text[start:])
		if size == 0 {
			break
		}
		pos = start + size
	}

	return result
}

// atWordBoundary reports whether text[start:end] neither starts nor ends
// inside a word. Edges that are not word characters need no boundary.
func atWordBoundary(text string, start, end int) bool {
	first, _ := utf8.DecodeRuneInString(text[start:end])
	if isWordRune(first) && start > 0 {
		before, _ := utf8.DecodeLastRuneInString(text[:start])
		if isWordRune(before) {
			return false
		}
	}

	last, _ := utf8.DecodeLastRuneInString(text[start:end])
	if isWordRune(last) && end < len(text) {
		after, _ := utf8.DecodeRuneInString(text[end:])
		if isWordRune(after) {
			return false
		}
	}

	return true
}

func isWordRune(r rune) bool {
	return r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r)
}

// charRefs returns the spans of text that decode as character references.
// "&amp;" and "&#38;" qualify; "&T" in "AT&T" does not.
func charRefs(text string) [][]int {
	if !strings.Contains(text, "&") {
		return nil
	}
	var refs [][]int
	for _, loc := range charRefPattern.FindAllStringIndex(text, -1) {
		ref := text[loc[0]:loc[1]]
		if html.UnescapeString(ref) != ref {
			refs = append(refs, loc)
		}
	}
	return refs
}

// splitsCharRef reports whether [start, end) cuts through a reference
// rather than covering it whole or missing it.
func splitsCharRef(refs [][]int, start, end int) bool {
	for _, ref := range refs {
		overlaps := start < ref[1] && ref[0] < end
		covers := start <= ref[0] && ref[1] <= end
		if overlaps && !covers {
			return true
		}
	}
	return false
}
