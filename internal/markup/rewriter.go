package markup

import (
	"sort"
	"strings"

	"golang.org/x/net/html"

	"github.com/custodia-labs/interlink/internal/core/domain"
)

// Apply wraps each insertion's span of src in an anchor tag.
//
// Insertions are applied from the highest offset down so earlier edits never
// move the offsets of edits still to come. The wrapped text is taken from src
// itself and re-escaped; hrefs are escaped. Insertions that fall outside src
// or overlap one already applied are skipped, so the output never contains
// nested anchors.
func Apply(src string, insertions []domain.LinkInsertion) string {
	if len(insertions) == 0 {
		return src
	}

	ordered := make([]domain.LinkInsertion, len(insertions))
	copy(ordered, insertions)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].Position > ordered[j].Position
	})

	out := src
	floor := len(src) + 1
	for _, ins := range ordered {
		if ins.Position < 0 || ins.Length <= 0 || ins.End() > len(src) {
			continue
		}
		if ins.End() > floor {
			continue
		}
		out = out[:ins.Position] + anchorTag(ins.Href, src[ins.Position:ins.End()]) + out[ins.End():]
		floor = ins.Position
	}

	return out
}

func anchorTag(href, text string) string {
	var b strings.Builder
	b.WriteString(`<a href="`)
	b.WriteString(html.EscapeString(href))
	b.WriteString(`">`)
	b.WriteString(html.EscapeString(html.UnescapeString(text)))
	b.WriteString(`</a>`)
	return b.String()
}
