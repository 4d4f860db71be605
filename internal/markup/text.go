package markup

import (
	"strings"

	"golang.org/x/net/html"
)

// countWords counts whitespace-separated words in raw HTML text.
func countWords(raw string) int {
	return len(strings.Fields(html.UnescapeString(raw)))
}

// CountWords returns the number of words in src with all tags stripped.
// Script and style bodies are not content and are not counted.
func CountWords(src string) int {
	z := html.NewTokenizer(strings.NewReader(src))
	skip := 0
	words := 0

	for {
		switch z.Next() {
		case html.ErrorToken:
			return words
		case html.StartTagToken:
			if name, _ := z.TagName(); isRawText(string(name)) {
				skip++
			}
		case html.EndTagToken:
			if name, _ := z.TagName(); isRawText(string(name)) && skip > 0 {
				skip--
			}
		case html.TextToken:
			if skip == 0 {
				words += countWords(string(z.Raw()))
			}
		}
	}
}

// ExistingHrefs returns the distinct href values of anchors already in src,
// in document order.
func ExistingHrefs(src string) []string {
	z := html.NewTokenizer(strings.NewReader(src))
	seen := make(map[string]bool)
	var hrefs []string

	for {
		tt := z.Next()
		if tt == html.ErrorToken {
			return hrefs
		}
		if tt != html.StartTagToken && tt != html.SelfClosingTagToken {
			continue
		}

		name, hasAttr := z.TagName()
		if string(name) != "a" {
			continue
		}
		for hasAttr {
			var key, val []byte
			key, val, hasAttr = z.TagAttr()
			if string(key) != "href" {
				continue
			}
			href := strings.TrimSpace(string(val))
			if href != "" && !seen[href] {
				seen[href] = true
				hrefs = append(hrefs, href)
			}
		}
	}
}

func isRawText(name string) bool {
	return name == "script" || name == "style" || name == "noscript"
}
