package services

import (
	"sort"
	"sync"
	"unicode/utf8"

	"github.com/custodia-labs/interlink/internal/core/domain"
	"github.com/custodia-labs/interlink/internal/markup"
)

// Budget returns how many links content of the given length may carry.
func Budget(words int, policy domain.LinkPolicy) int {
	if !policy.Enabled || words < policy.MinWordsBeforeLinking || policy.LinksPerWordsDivisor <= 0 {
		return 0
	}
	budget := words / policy.LinksPerWordsDivisor
	if budget > policy.MaxLinksPerPage {
		budget = policy.MaxLinksPerPage
	}
	if budget < 0 {
		return 0
	}
	return budget
}

// Placer decides where links go. Compiled anchor matchers are cached, so a
// single Placer should be shared by every render of a build.
type Placer struct {
	matchers sync.Map // matcherKey -> *markup.Matcher
}

type matcherKey struct {
	anchor        string
	caseSensitive bool
}

// NewPlacer creates a placer with an empty matcher cache.
func NewPlacer() *Placer {
	return &Placer{}
}

func (p *Placer) matcher(anchor string, caseSensitive bool) *markup.Matcher {
	key := matcherKey{anchor: anchor, caseSensitive: caseSensitive}
	if m, ok := p.matchers.Load(key); ok {
		return m.(*markup.Matcher)
	}
	m, _ := p.matchers.LoadOrStore(key, markup.NewMatcher(anchor, caseSensitive))
	return m.(*markup.Matcher)
}

// span is one anchor occurrence inside a region.
type span struct {
	start, end int
	targetID   string
	anchor     string // folded
}

// placement is the mutable state of one Place call.
type placement struct {
	policy       domain.LinkPolicy
	budget       int
	regions      []domain.TextRegion
	committed    []domain.LinkInsertion
	usedAnchors  map[string]bool
	placed       map[string]bool
	attempted    map[string]bool
	perContainer map[int]int
	// claims holds, per region, every occurrence of every target's anchors.
	claims [][]span
}

// Place picks at most budget insertions.
//
// Targets are tried in the order given. For each target its anchors are
// tried longest first and the first anchor that matches anywhere wins. An
// occurrence that lies inside a longer occurrence of another target's anchor
// is left for that target, so "CRM" never takes the "CRM" of
// "CRM for Startups" while the more specific target can still use it.
func (p *Placer) Place(targets []domain.LinkTarget, regions []domain.TextRegion, budget int, policy domain.LinkPolicy) []domain.LinkInsertion {
	if budget <= 0 || len(targets) == 0 || len(regions) == 0 {
		return nil
	}

	st := &placement{
		policy:       policy,
		budget:       budget,
		regions:      regions,
		usedAnchors:  make(map[string]bool),
		placed:       make(map[string]bool),
		attempted:    make(map[string]bool),
		perContainer: make(map[int]int),
		claims:       p.claims(targets, regions, policy),
	}

	for _, target := range targets {
		if len(st.committed) >= budget {
			break
		}
		if st.placed[target.ID] {
			continue
		}
		p.placeTarget(st, target)
		st.attempted[target.ID] = true
	}

	return st.committed
}

func (p *Placer) placeTarget(st *placement, target domain.LinkTarget) {
	for _, anchor := range longestFirst(target.Anchors) {
		key := st.policy.Fold(anchor)
		if st.policy.DedupeAnchors && st.usedAnchors[key] {
			continue
		}

		m := p.matcher(anchor, st.policy.CaseSensitive)
		for ri, region := range st.regions {
			if !st.eligible(region) {
				continue
			}
			for _, loc := range m.Matches(region.Text) {
				ins := domain.LinkInsertion{
					Position:   region.Start + loc[0],
					Length:     loc[1] - loc[0],
					Href:       target.URL,
					AnchorText: region.Text[loc[0]:loc[1]],
					TargetID:   target.ID,
				}
				if st.overlaps(ins) || st.shadowed(ri, loc[0], loc[1], target.ID) {
					continue
				}

				st.committed = append(st.committed, ins)
				st.usedAnchors[key] = true
				st.placed[target.ID] = true
				st.perContainer[region.Container]++
				return
			}
		}
	}
}

// claims finds every anchor occurrence of every target, per region.
func (p *Placer) claims(targets []domain.LinkTarget, regions []domain.TextRegion, policy domain.LinkPolicy) [][]span {
	claims := make([][]span, len(regions))
	for _, target := range targets {
		for _, anchor := range target.Anchors {
			m := p.matcher(anchor, policy.CaseSensitive)
			key := policy.Fold(anchor)
			for ri, region := range regions {
				for _, loc := range m.Matches(region.Text) {
					claims[ri] = append(claims[ri], span{start: loc[0], end: loc[1], targetID: target.ID, anchor: key})
				}
			}
		}
	}
	return claims
}

// eligible applies the paragraph-level rules to a region.
func (st *placement) eligible(region domain.TextRegion) bool {
	if st.policy.MinParagraphWords > 0 && region.ContainerWords < st.policy.MinParagraphWords {
		return false
	}
	if st.policy.LimitPerParagraph && st.perContainer[region.Container] >= st.policy.MaxLinksPerParagraph {
		return false
	}
	return true
}

// shadowed reports whether [start, end) sits inside a strictly longer
// occurrence that another target could still take. A claim whose target
// was already tried, whose anchor is used up or whose text is already
// linked reserves nothing, and neither does any claim once only one link
// is left to place.
func (st *placement) shadowed(region, start, end int, targetID string) bool {
	if len(st.committed)+1 >= st.budget {
		return false
	}
	offset := st.regions[region].Start
	for _, c := range st.claims[region] {
		if c.targetID == targetID || st.attempted[c.targetID] || st.placed[c.targetID] {
			continue
		}
		if c.start > start || c.end < end || c.end-c.start <= end-start {
			continue
		}
		if st.policy.DedupeAnchors && st.usedAnchors[c.anchor] {
			continue
		}
		if st.overlaps(domain.LinkInsertion{Position: offset + c.start, Length: c.end - c.start}) {
			continue
		}
		return true
	}
	return false
}

func (st *placement) overlaps(ins domain.LinkInsertion) bool {
	for _, c := range st.committed {
		if c.Overlaps(ins) {
			return true
		}
	}
	return false
}

// longestFirst orders anchors by descending rune count, keeping input order on ties.
func longestFirst(anchors []string) []string {
	sorted := make([]string, len(anchors))
	copy(sorted, anchors)
	sort.SliceStable(sorted, func(i, j int) bool {
		return utf8.RuneCountInString(sorted[i]) > utf8.RuneCountInString(sorted[j])
	})
	return sorted
}
