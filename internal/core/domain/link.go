package domain

import "strings"

// PageContext identifies the page being rendered.
type PageContext struct {
	// EntityID is the entity the page renders.
	EntityID string
}

// LinkTarget is a page eligible to receive a link from the current page.
// Targets are built fresh for each render and discarded afterwards.
type LinkTarget struct {
	// ID is the target entity ID.
	ID string

	// URL is the full hierarchical path of the target page.
	URL string

	// Anchors are the candidate link texts, title first.
	Anchors []string

	// Relation classifies the target relative to the current page.
	Relation RelationKind

	// Priority orders targets; higher is attempted first.
	Priority int
}

// TextRegion is a run of literal text that may be rewritten.
// Offsets are absolute byte offsets into the original HTML string.
type TextRegion struct {
	// Text is the raw source text, exactly as it appears in the HTML.
	Text string

	// Start is the offset of the first byte of Text.
	Start int

	// End is the offset one past the last byte of Text.
	End int

	// Container is the zero-based index of the owning paragraph.
	Container int

	// ContainerWords is the word count of the whole owning paragraph,
	// including text inside excluded elements.
	ContainerWords int
}

// LinkInsertion is one committed instruction to wrap a span in a hyperlink.
type LinkInsertion struct {
	// Position is the absolute byte offset of the matched text.
	Position int

	// Length is the byte length of the matched text.
	Length int

	// Href is the destination URL.
	Href string

	// AnchorText is the matched source text.
	AnchorText string

	// TargetID is the entity the link points to.
	TargetID string
}

// End returns the offset one past the matched text.
func (i LinkInsertion) End() int {
	return i.Position + i.Length
}

// Overlaps reports whether two insertions share any byte.
func (i LinkInsertion) Overlaps(other LinkInsertion) bool {
	return i.Position < other.End() && other.Position < i.End()
}

// LinkResult is what the engine returns for one page render.
type LinkResult struct {
	// HTML is the rewritten content.
	HTML string

	// LinksInserted is the number of links added.
	LinksInserted int

	// TargetURLs are the distinct URLs linked, in insertion order.
	TargetURLs []string

	// Insertions are the committed insertions, in placement order.
	Insertions []LinkInsertion

	// Budget is the link budget computed for the content.
	Budget int

	// WordCount is the number of words in the tag-stripped content.
	WordCount int

	// TargetsConsidered is the number of eligible targets after resolution.
	TargetsConsidered int
}

// Unchanged returns a result carrying the original content and no links.
func Unchanged(html string) *LinkResult {
	return &LinkResult{HTML: html, TargetURLs: []string{}}
}

// NormaliseURL applies prefix and trailing-slash rules to a slug path.
func NormaliseURL(prefix string, segments []string, trailingSlash bool) string {
	var b strings.Builder
	b.WriteString(strings.TrimRight(prefix, "/"))
	for _, seg := range segments {
		b.WriteByte('/')
		b.WriteString(seg)
	}
	if b.Len() == 0 {
		return "/"
	}
	if trailingSlash {
		b.WriteByte('/')
	}
	return b.String()
}
