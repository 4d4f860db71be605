package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/interlink/internal/core/domain"
	"github.com/custodia-labs/interlink/internal/markup"
)

func regionsOf(src string) []domain.TextRegion {
	return markup.NewSegmenter(nil, nil).Extract(src)
}

func target(id string, priority int, anchors ...string) domain.LinkTarget {
	return domain.LinkTarget{
		ID:       id,
		URL:      "/" + id,
		Anchors:  anchors,
		Relation: domain.RelationRelated,
		Priority: priority,
	}
}

func TestBudget(t *testing.T) {
	tests := []struct {
		name   string
		words  int
		mutate func(p *domain.LinkPolicy)
		want   int
	}{
		{"default 250 words", 250, nil, 2},
		{"capped", 1000, nil, 5},
		{"exactly minimum", 80, nil, 0},
		{"below minimum", 40, nil, 0},
		{"disabled", 1000, func(p *domain.LinkPolicy) { p.Enabled = false }, 0},
		{"no minimum", 150, func(p *domain.LinkPolicy) { p.MinWordsBeforeLinking = 0 }, 1},
		{"zero cap", 1000, func(p *domain.LinkPolicy) { p.MaxLinksPerPage = 0 }, 0},
		{"smaller divisor", 300, func(p *domain.LinkPolicy) { p.LinksPerWordsDivisor = 50 }, 5},
		{"zero divisor", 300, func(p *domain.LinkPolicy) { p.LinksPerWordsDivisor = 0 }, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			policy := domain.DefaultLinkPolicy()
			if tt.mutate != nil {
				tt.mutate(&policy)
			}
			assert.Equal(t, tt.want, Budget(tt.words, policy))
		})
	}
}

func TestPlace_Empty(t *testing.T) {
	placer := NewPlacer()
	policy := domain.DefaultLinkPolicy()
	regions := regionsOf("<p>alpha</p>")
	targets := []domain.LinkTarget{target("alpha", 100, "alpha")}

	assert.Empty(t, placer.Place(nil, regions, 5, policy))
	assert.Empty(t, placer.Place(targets, nil, 5, policy))
	assert.Empty(t, placer.Place(targets, regions, 0, policy))
}

func TestPlace_LongestAnchorFirst(t *testing.T) {
	src := "<p>The CRM for Startups guide</p>"
	insertions := NewPlacer().Place(
		[]domain.LinkTarget{target("crm-for-startups", 100, "CRM", "CRM for Startups")},
		regionsOf(src), 5, domain.DefaultLinkPolicy())

	require.Len(t, insertions, 1)
	assert.Equal(t, "CRM for Startups", insertions[0].AnchorText)
	assert.Equal(t, "CRM for Startups", src[insertions[0].Position:insertions[0].End()])
}

func TestPlace_LongerPhraseOfOtherTargetWins(t *testing.T) {
	targets := []domain.LinkTarget{
		target("crm", 120, "CRM"),
		target("crm-for-startups", 100, "CRM for Startups"),
	}

	insertions := NewPlacer().Place(targets, regionsOf("<p>Pick a CRM for Startups today.</p>"), 5, domain.DefaultLinkPolicy())
	require.Len(t, insertions, 1)
	assert.Equal(t, "crm-for-startups", insertions[0].TargetID)
	assert.Equal(t, "CRM for Startups", insertions[0].AnchorText)

	src := "<p>Pick a CRM for Startups today.</p><p>Every CRM needs data.</p>"
	insertions = NewPlacer().Place(targets, regionsOf(src), 5, domain.DefaultLinkPolicy())
	require.Len(t, insertions, 2)
	assert.Equal(t, "crm", insertions[0].TargetID)
	assert.Equal(t, "CRM", src[insertions[0].Position:insertions[0].End()])
	assert.Greater(t, insertions[0].Position, insertions[1].Position)
}

func TestPlace_UsedAnchorReservesNothing(t *testing.T) {
	targets := []domain.LinkTarget{
		target("startups-guide", 130, "CRM for Startups"),
		target("crm", 120, "CRM"),
		target("crm-for-startups", 100, "CRM for Startups"),
	}
	src := "<p>CRM for Startups</p><p>Pick a CRM for Startups today</p>"

	insertions := NewPlacer().Place(targets, regionsOf(src), 5, domain.DefaultLinkPolicy())

	require.Len(t, insertions, 2)
	assert.Equal(t, "startups-guide", insertions[0].TargetID)
	assert.Equal(t, "crm", insertions[1].TargetID)
	assert.Equal(t, "CRM", src[insertions[1].Position:insertions[1].End()])
	assert.Greater(t, insertions[1].Position, insertions[0].End())
}

func TestPlace_LastLinkIsNotReserved(t *testing.T) {
	targets := []domain.LinkTarget{
		target("crm", 120, "CRM"),
		target("crm-for-startups", 100, "CRM for Startups"),
	}

	insertions := NewPlacer().Place(targets, regionsOf("<p>Pick a CRM for Startups today.</p>"), 1, domain.DefaultLinkPolicy())

	require.Len(t, insertions, 1)
	assert.Equal(t, "crm", insertions[0].TargetID)
	assert.Equal(t, "CRM", insertions[0].AnchorText)
}

func TestPlace_LinkedClaimReservesNothing(t *testing.T) {
	targets := []domain.LinkTarget{
		target("startups", 130, "Startups"),
		target("crm", 120, "CRM"),
		target("crm-for-startups", 100, "CRM for Startups"),
	}

	insertions := NewPlacer().Place(targets, regionsOf("<p>Pick a CRM for Startups today.</p>"), 5, domain.DefaultLinkPolicy())

	require.Len(t, insertions, 2)
	assert.Equal(t, "startups", insertions[0].TargetID)
	assert.Equal(t, "crm", insertions[1].TargetID)
}

func TestPlace_FirstMatchInDocumentOrder(t *testing.T) {
	src := "<p>Intro text.</p><p>Use project management daily.</p><p>More project management.</p>"
	insertions := NewPlacer().Place(
		[]domain.LinkTarget{target("project-management", 100, "Project Management")},
		regionsOf(src), 5, domain.DefaultLinkPolicy())

	require.Len(t, insertions, 1)
	assert.Equal(t, "project management", insertions[0].AnchorText)
	assert.Equal(t, 25, insertions[0].Position)
	assert.Equal(t, "/project-management", insertions[0].Href)
}

func TestPlace_BudgetStopsPlacement(t *testing.T) {
	src := "<p>alpha beta gamma</p>"
	targets := []domain.LinkTarget{
		target("alpha", 100, "alpha"),
		target("beta", 90, "beta"),
		target("gamma", 80, "gamma"),
	}

	insertions := NewPlacer().Place(targets, regionsOf(src), 2, domain.DefaultLinkPolicy())

	require.Len(t, insertions, 2)
	assert.Equal(t, "alpha", insertions[0].TargetID)
	assert.Equal(t, "beta", insertions[1].TargetID)
}

func TestPlace_DedupeAnchors(t *testing.T) {
	src := "<p>crm here and crm there</p>"
	targets := []domain.LinkTarget{
		target("first", 100, "crm"),
		target("second", 90, "CRM"),
	}

	policy := domain.DefaultLinkPolicy()
	insertions := NewPlacer().Place(targets, regionsOf(src), 5, policy)
	require.Len(t, insertions, 1)
	assert.Equal(t, "first", insertions[0].TargetID)

	policy.DedupeAnchors = false
	insertions = NewPlacer().Place(targets, regionsOf(src), 5, policy)
	require.Len(t, insertions, 2)
	assert.Equal(t, "second", insertions[1].TargetID)
	assert.Equal(t, 16, insertions[1].Position)
}

func TestPlace_CaseSensitive(t *testing.T) {
	src := "<p>crm and CRM</p>"
	policy := domain.DefaultLinkPolicy()
	policy.CaseSensitive = true

	insertions := NewPlacer().Place([]domain.LinkTarget{target("crm", 100, "CRM")}, regionsOf(src), 5, policy)

	require.Len(t, insertions, 1)
	assert.Equal(t, 11, insertions[0].Position)
}

func TestPlace_PerParagraphCap(t *testing.T) {
	src := "<p>alpha and beta</p><p>beta again</p>"
	targets := []domain.LinkTarget{
		target("alpha", 100, "alpha"),
		target("beta", 90, "beta"),
	}
	policy := domain.DefaultLinkPolicy()
	policy.LimitPerParagraph = true
	policy.MaxLinksPerParagraph = 1

	insertions := NewPlacer().Place(targets, regionsOf(src), 5, policy)

	require.Len(t, insertions, 2)
	assert.Equal(t, 3, insertions[0].Position)
	assert.Equal(t, "beta", insertions[1].TargetID)
	assert.Equal(t, 24, insertions[1].Position)
}

func TestPlace_MinParagraphWords(t *testing.T) {
	src := "<p>alpha short</p><p>a longer paragraph that mentions alpha</p>"
	policy := domain.DefaultLinkPolicy()
	policy.MinParagraphWords = 4

	insertions := NewPlacer().Place([]domain.LinkTarget{target("alpha", 100, "alpha")}, regionsOf(src), 5, policy)

	require.Len(t, insertions, 1)
	assert.Equal(t, 54, insertions[0].Position)
}

func TestPlace_SkipsExcludedText(t *testing.T) {
	src := `<h2>alpha</h2><p><a href="/x">alpha</a> <code>alpha</code></p>`
	insertions := NewPlacer().Place([]domain.LinkTarget{target("alpha", 100, "alpha")}, regionsOf(src), 5, domain.DefaultLinkPolicy())
	assert.Empty(t, insertions)
}

func TestPlace_WordBoundaries(t *testing.T) {
	src := "<p>CRMs and scrm are not CRM-ready</p>"
	insertions := NewPlacer().Place([]domain.LinkTarget{target("crm", 100, "CRM")}, regionsOf(src), 5, domain.DefaultLinkPolicy())

	require.Len(t, insertions, 1)
	assert.Equal(t, "CRM", insertions[0].AnchorText)
	assert.Equal(t, 25, insertions[0].Position)
}

func TestPlace_MatcherCacheShared(t *testing.T) {
	placer := NewPlacer()
	m1 := placer.matcher("alpha", false)
	m2 := placer.matcher("alpha", false)
	m3 := placer.matcher("alpha", true)

	assert.Same(t, m1, m2)
	assert.NotSame(t, m1, m3)
}
