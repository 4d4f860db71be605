package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultLinkPolicy(t *testing.T) {
	p := DefaultLinkPolicy()

	assert.True(t, p.Enabled)
	assert.Equal(t, 5, p.MaxLinksPerPage)
	assert.Equal(t, 100, p.LinksPerWordsDivisor)
	assert.Equal(t, 80, p.MinWordsBeforeLinking)
	assert.True(t, p.DedupeAnchors)
	assert.False(t, p.AllowSelfLink)
	assert.True(t, p.ExcludeHierarchy)
	assert.Equal(t, AnchorSourceBoth, p.AnchorSource)
	assert.False(t, p.CaseSensitive)
	assert.True(t, p.SkipLinkedTargets)
	assert.Equal(t, []string{"p"}, p.Containers)
	assert.Contains(t, p.ExcludedTags, "a")
	assert.Contains(t, p.ExcludedTags, "code")
	assert.Contains(t, p.ExcludedTags, "nav")
	require.NoError(t, p.Validate())
}

func TestLinkPolicy_Validate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(p *LinkPolicy)
		wantErr string
	}{
		{"negative max links", func(p *LinkPolicy) { p.MaxLinksPerPage = -1 }, "max_links_per_page"},
		{"zero divisor", func(p *LinkPolicy) { p.LinksPerWordsDivisor = 0 }, "links_per_words_divisor"},
		{"negative min words", func(p *LinkPolicy) { p.MinWordsBeforeLinking = -5 }, "min_words_before_linking"},
		{"negative max anchors", func(p *LinkPolicy) { p.MaxAnchorsPerTarget = -1 }, "max_anchors_per_target"},
		{"zero paragraph cap", func(p *LinkPolicy) {
			p.LimitPerParagraph = true
			p.MaxLinksPerParagraph = 0
		}, "max_links_per_paragraph"},
		{"negative paragraph words", func(p *LinkPolicy) { p.MinParagraphWords = -1 }, "min_paragraph_words"},
		{"bad anchor source", func(p *LinkPolicy) { p.AnchorSource = "tags" }, "anchor_source"},
		{"no containers", func(p *LinkPolicy) { p.Containers = nil }, "containers"},
		{"bad include", func(p *LinkPolicy) { p.IncludeRelations = []RelationKind{"cousin"} }, "include relation"},
		{"bad exclude", func(p *LinkPolicy) { p.ExcludeRelations = []RelationKind{"cousin"} }, "exclude relation"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := DefaultLinkPolicy()
			tt.mutate(&p)

			err := p.Validate()
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrInvalidPolicy)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestLinkPolicy_ZeroParagraphCapAllowedWhenDisabled(t *testing.T) {
	p := DefaultLinkPolicy()
	p.LimitPerParagraph = false
	p.MaxLinksPerParagraph = 0

	assert.NoError(t, p.Validate())
}

func TestLinkPolicy_Fold(t *testing.T) {
	p := DefaultLinkPolicy()
	assert.Equal(t, "crm for startups", p.Fold("CRM for Startups"))

	p.CaseSensitive = true
	assert.Equal(t, "CRM for Startups", p.Fold("CRM for Startups"))
}

func TestLinkPolicy_AllowsRelation(t *testing.T) {
	p := DefaultLinkPolicy()
	for _, r := range AllRelationKinds() {
		assert.True(t, p.AllowsRelation(r))
	}

	p.ExcludeRelations = []RelationKind{RelationSibling}
	assert.False(t, p.AllowsRelation(RelationSibling))
	assert.True(t, p.AllowsRelation(RelationRelated))

	p.IncludeRelations = []RelationKind{RelationRelated, RelationSibling}
	assert.True(t, p.AllowsRelation(RelationRelated))
	assert.False(t, p.AllowsRelation(RelationChild))
	assert.False(t, p.AllowsRelation(RelationSibling), "exclude wins over include")
}

func TestLinkPolicy_Denies(t *testing.T) {
	p := DefaultLinkPolicy()
	assert.False(t, p.Denies("x"))

	p.DenyIDs = []string{"x"}
	assert.True(t, p.Denies("x"))
	assert.False(t, p.Denies("y"))
}

func TestAnchorSource(t *testing.T) {
	for _, s := range AllAnchorSources() {
		assert.True(t, s.IsValid())
		assert.NotEqual(t, "Unknown", s.Description())
	}

	assert.True(t, AnchorSourceTitle.UsesTitle())
	assert.False(t, AnchorSourceTitle.UsesSynonyms())
	assert.False(t, AnchorSourceSynonyms.UsesTitle())
	assert.True(t, AnchorSourceSynonyms.UsesSynonyms())
	assert.True(t, AnchorSourceBoth.UsesTitle())
	assert.True(t, AnchorSourceBoth.UsesSynonyms())
	assert.False(t, AnchorSource("x").IsValid())
	assert.Equal(t, "Unknown", AnchorSource("x").Description())
}
