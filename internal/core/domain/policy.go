package domain

import (
	"fmt"
	"strings"
)

// AnchorSource selects which strings become anchor candidates for a target.
type AnchorSource string

// Available anchor sources.
const (
	// AnchorSourceTitle uses only the entity title.
	AnchorSourceTitle AnchorSource = "title"

	// AnchorSourceSynonyms uses only the vocabulary synonyms.
	AnchorSourceSynonyms AnchorSource = "synonyms"

	// AnchorSourceBoth uses the title followed by synonyms.
	AnchorSourceBoth AnchorSource = "both"
)

// IsValid returns true if the anchor source is recognised.
func (s AnchorSource) IsValid() bool {
	switch s {
	case AnchorSourceTitle, AnchorSourceSynonyms, AnchorSourceBoth:
		return true
	default:
		return false
	}
}

// UsesTitle reports whether the title is an anchor candidate.
func (s AnchorSource) UsesTitle() bool {
	return s == AnchorSourceTitle || s == AnchorSourceBoth
}

// UsesSynonyms reports whether vocabulary synonyms are anchor candidates.
func (s AnchorSource) UsesSynonyms() bool {
	return s == AnchorSourceSynonyms || s == AnchorSourceBoth
}

// String returns the string representation.
func (s AnchorSource) String() string {
	return string(s)
}

// Description returns a human-readable description of the source.
func (s AnchorSource) Description() string {
	switch s {
	case AnchorSourceTitle:
		return "Title only"
	case AnchorSourceSynonyms:
		return "Synonyms only"
	case AnchorSourceBoth:
		return "Title and synonyms"
	default:
		return "Unknown"
	}
}

// AllAnchorSources returns all available anchor sources.
func AllAnchorSources() []AnchorSource {
	return []AnchorSource{AnchorSourceTitle, AnchorSourceSynonyms, AnchorSourceBoth}
}

// LinkPolicy holds every option that shapes one link-insertion pass.
type LinkPolicy struct {
	// Enabled is the master switch. A disabled policy inserts nothing.
	Enabled bool

	// MaxLinksPerPage caps insertions regardless of content length.
	MaxLinksPerPage int

	// LinksPerWordsDivisor allows one link per this many words.
	LinksPerWordsDivisor int

	// MinWordsBeforeLinking is the content length below which no links are added.
	MinWordsBeforeLinking int

	// DedupeAnchors prevents the same anchor text from being linked twice.
	DedupeAnchors bool

	// AllowSelfLink lets a page link to itself.
	AllowSelfLink bool

	// ExcludeHierarchy removes parent, children, descendants, ancestors
	// and siblings from the candidate set.
	ExcludeHierarchy bool

	// IncludeRelations, when non-empty, is an allow-list of relation kinds.
	IncludeRelations []RelationKind

	// ExcludeRelations removes the listed relation kinds.
	ExcludeRelations []RelationKind

	// DenyIDs are entities that are never link targets.
	DenyIDs []string

	// AnchorSource selects title, synonyms or both.
	AnchorSource AnchorSource

	// CaseSensitive turns off case folding for matching and deduplication.
	CaseSensitive bool

	// MaxAnchorsPerTarget truncates each target's anchor list. Zero means no limit.
	MaxAnchorsPerTarget int

	// LimitPerParagraph enables the per-paragraph cap.
	LimitPerParagraph bool

	// MaxLinksPerParagraph is the per-paragraph cap when LimitPerParagraph is set.
	MaxLinksPerParagraph int

	// MinParagraphWords makes shorter paragraphs ineligible.
	MinParagraphWords int

	// PreferNested adds NestedBonus to subcategory targets.
	PreferNested bool

	// SkipLinkedTargets skips targets whose URL is already linked in the content.
	SkipLinkedTargets bool

	// URLPrefix is prepended to every generated target URL (e.g. "/en").
	URLPrefix string

	// TrailingSlash appends "/" to generated target URLs.
	TrailingSlash bool

	// Containers are the paragraph-level tags whose text may be linked.
	Containers []string

	// ExcludedTags are tags whose text is never linked, even inside a container.
	ExcludedTags []string
}

// DefaultContainers returns the default paragraph-level container tags.
func DefaultContainers() []string {
	return []string{"p"}
}

// DefaultExcludedTags returns the tags whose contents are never linked.
func DefaultExcludedTags() []string {
	return []string{
		"a", "code", "pre", "kbd", "samp", "script", "style",
		"h1", "h2", "h3", "h4", "h5", "h6",
		"button", "select", "option", "textarea", "label", "input",
		"nav", "header", "footer", "figcaption",
	}
}

// DefaultLinkPolicy returns the policy used when nothing is configured.
func DefaultLinkPolicy() LinkPolicy {
	return LinkPolicy{
		Enabled:               true,
		MaxLinksPerPage:       5,
		LinksPerWordsDivisor:  100,
		MinWordsBeforeLinking: 80,
		DedupeAnchors:         true,
		AllowSelfLink:         false,
		ExcludeHierarchy:      true,
		AnchorSource:          AnchorSourceBoth,
		CaseSensitive:         false,
		MaxAnchorsPerTarget:   5,
		LimitPerParagraph:     false,
		MaxLinksPerParagraph:  1,
		MinParagraphWords:     0,
		PreferNested:          true,
		SkipLinkedTargets:     true,
		Containers:            DefaultContainers(),
		ExcludedTags:          DefaultExcludedTags(),
	}
}

// Validate rejects policies that cannot be applied.
// It is called before any content is processed.
func (p LinkPolicy) Validate() error {
	switch {
	case p.MaxLinksPerPage < 0:
		return fmt.Errorf("%w: max_links_per_page must not be negative", ErrInvalidPolicy)
	case p.LinksPerWordsDivisor <= 0:
		return fmt.Errorf("%w: links_per_words_divisor must be positive", ErrInvalidPolicy)
	case p.MinWordsBeforeLinking < 0:
		return fmt.Errorf("%w: min_words_before_linking must not be negative", ErrInvalidPolicy)
	case p.MaxAnchorsPerTarget < 0:
		return fmt.Errorf("%w: max_anchors_per_target must not be negative", ErrInvalidPolicy)
	case p.LimitPerParagraph && p.MaxLinksPerParagraph < 1:
		return fmt.Errorf("%w: max_links_per_paragraph must be at least 1", ErrInvalidPolicy)
	case p.MinParagraphWords < 0:
		return fmt.Errorf("%w: min_paragraph_words must not be negative", ErrInvalidPolicy)
	case !p.AnchorSource.IsValid():
		return fmt.Errorf("%w: unknown anchor_source %q", ErrInvalidPolicy, p.AnchorSource)
	case len(p.Containers) == 0:
		return fmt.Errorf("%w: containers must not be empty", ErrInvalidPolicy)
	}

	for _, r := range p.IncludeRelations {
		if !r.IsValid() {
			return fmt.Errorf("%w: unknown include relation %q", ErrInvalidPolicy, r)
		}
	}
	for _, r := range p.ExcludeRelations {
		if !r.IsValid() {
			return fmt.Errorf("%w: unknown exclude relation %q", ErrInvalidPolicy, r)
		}
	}

	return nil
}

// Fold normalises s for comparison under the policy's case rule.
func (p LinkPolicy) Fold(s string) string {
	if p.CaseSensitive {
		return s
	}
	return strings.ToLower(s)
}

// AllowsRelation reports whether targets of kind r survive the include and
// exclude lists.
func (p LinkPolicy) AllowsRelation(r RelationKind) bool {
	for _, excluded := range p.ExcludeRelations {
		if excluded == r {
			return false
		}
	}
	if len(p.IncludeRelations) == 0 {
		return true
	}
	for _, included := range p.IncludeRelations {
		if included == r {
			return true
		}
	}
	return false
}

// Denies reports whether id is on the deny-list.
func (p LinkPolicy) Denies(id string) bool {
	for _, denied := range p.DenyIDs {
		if denied == id {
			return true
		}
	}
	return false
}
