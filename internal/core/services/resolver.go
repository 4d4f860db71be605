package services

import (
	"fmt"
	"sort"
	"strings"

	"github.com/custodia-labs/interlink/internal/core/domain"
)

// TargetResolver computes the eligible link targets of a page.
// It only reads the catalog, so one resolver may serve concurrent renders.
type TargetResolver struct {
	catalog *domain.Catalog
}

// NewTargetResolver creates a resolver over a loaded catalog.
func NewTargetResolver(catalog *domain.Catalog) *TargetResolver {
	return &TargetResolver{catalog: catalog}
}

// relations holds the structural neighbourhood of one page.
type relations struct {
	page        domain.Entity
	parent      string
	children    map[string]bool
	ancestors   map[string]bool
	descendants map[string]bool
	siblings    map[string]bool
}

func newRelations(h *domain.Hierarchy, page domain.Entity) relations {
	r := relations{
		page:        page,
		children:    toSet(h.Children(page.ID)),
		ancestors:   toSet(h.Ancestors(page.ID)),
		descendants: toSet(h.Descendants(page.ID)),
		siblings:    toSet(h.Siblings(page.ID)),
	}
	if parent, ok := h.Parent(page.ID); ok {
		r.parent = parent.ID
	}
	return r
}

// structural reports whether id is part of the page's own branch.
func (r relations) structural(id string) bool {
	return (r.parent != "" && id == r.parent) ||
		r.children[id] || r.descendants[id] || r.ancestors[id] || r.siblings[id]
}

// classify returns the relation of candidate id to the page.
func (r relations) classify(id string) domain.RelationKind {
	if id == r.page.ID {
		return domain.RelationRelated
	}

	switch r.page.Kind {
	case domain.EntityKindRoot:
		switch {
		case r.children[id]:
			return domain.RelationChild
		case r.descendants[id]:
			return domain.RelationDescendant
		}
	case domain.EntityKindNested:
		switch {
		case id == r.parent:
			return domain.RelationParent
		case r.children[id]:
			return domain.RelationChild
		case r.ancestors[id]:
			return domain.RelationAncestor
		case r.descendants[id]:
			return domain.RelationDescendant
		case r.page.IsRelatedTo(id):
			return domain.RelationRelated
		case r.siblings[id]:
			return domain.RelationSibling
		}
	}

	return domain.RelationRelated
}

// Resolve returns the targets the page may link to, highest priority first.
// Candidates that tie keep catalog order. The only error is an unknown page.
func (r *TargetResolver) Resolve(page domain.PageContext, policy domain.LinkPolicy) ([]domain.LinkTarget, error) {
	h := r.catalog.Hierarchy
	current, ok := h.Entity(page.EntityID)
	if !ok {
		return nil, fmt.Errorf("%w: entity %q", domain.ErrNotFound, page.EntityID)
	}

	rel := newRelations(h, current)
	targets := make([]domain.LinkTarget, 0, h.Len())

	for _, candidate := range h.All() {
		if candidate.ID == current.ID && !policy.AllowSelfLink {
			continue
		}
		if policy.ExcludeHierarchy && rel.structural(candidate.ID) {
			continue
		}
		if policy.Denies(candidate.ID) {
			continue
		}

		kind := rel.classify(candidate.ID)
		if !policy.AllowsRelation(kind) {
			continue
		}

		anchors := r.anchors(candidate, policy)
		if len(anchors) == 0 {
			continue
		}

		segments, _ := h.Path(candidate.ID)
		targets = append(targets, domain.LinkTarget{
			ID:       candidate.ID,
			URL:      domain.NormaliseURL(policy.URLPrefix, segments, policy.TrailingSlash),
			Anchors:  anchors,
			Relation: kind,
			Priority: priority(current, candidate, kind, policy),
		})
	}

	sort.SliceStable(targets, func(i, j int) bool {
		return targets[i].Priority > targets[j].Priority
	})

	return targets, nil
}

// anchors builds the candidate link texts of an entity: title first, then
// synonyms, without blanks or duplicates under the policy's case rule.
func (r *TargetResolver) anchors(e domain.Entity, policy domain.LinkPolicy) []string {
	var raw []string
	if policy.AnchorSource.UsesTitle() {
		raw = append(raw, e.Title)
	}
	if policy.AnchorSource.UsesSynonyms() {
		raw = append(raw, r.catalog.Vocabulary.Synonyms(e.ID)...)
	}

	seen := make(map[string]bool, len(raw))
	result := make([]string, 0, len(raw))
	for _, a := range raw {
		a = strings.TrimSpace(a)
		if a == "" {
			continue
		}
		key := policy.Fold(a)
		if seen[key] {
			continue
		}
		seen[key] = true
		result = append(result, a)
		if policy.MaxAnchorsPerTarget > 0 && len(result) == policy.MaxAnchorsPerTarget {
			break
		}
	}
	return result
}

func priority(page, candidate domain.Entity, kind domain.RelationKind, policy domain.LinkPolicy) int {
	p := kind.Weight()
	if policy.PreferNested && candidate.IsNested() {
		p += domain.NestedBonus
	}
	if page.IsRelatedTo(candidate.ID) {
		p += domain.CrossReferenceBonus
	}
	return p
}

func toSet(ids []string) map[string]bool {
	set := make(map[string]bool, len(ids))
	for _, id := range ids {
		set[id] = true
	}
	return set
}
