package domain

import (
	"fmt"
	"strings"
)

// RelationKind classifies a candidate target with respect to the current page.
type RelationKind string

// Available relation kinds.
const (
	RelationParent     RelationKind = "parent"
	RelationChild      RelationKind = "child"
	RelationAncestor   RelationKind = "ancestor"
	RelationDescendant RelationKind = "descendant"
	RelationSibling    RelationKind = "sibling"
	RelationRelated    RelationKind = "related"
)

// Priority bonuses added on top of the relation weight.
const (
	// NestedBonus favours subcategories over top-level categories
	// when LinkPolicy.PreferNested is set.
	NestedBonus = 10

	// CrossReferenceBonus favours entities listed in the page's RelatedIDs
	// over entities that are merely unrelated.
	CrossReferenceBonus = 20
)

// AllRelationKinds returns every relation kind in weight order.
func AllRelationKinds() []RelationKind {
	return []RelationKind{
		RelationRelated,
		RelationChild,
		RelationSibling,
		RelationDescendant,
		RelationParent,
		RelationAncestor,
	}
}

// IsValid returns true if the relation kind is recognised.
func (r RelationKind) IsValid() bool {
	switch r {
	case RelationParent, RelationChild, RelationAncestor,
		RelationDescendant, RelationSibling, RelationRelated:
		return true
	default:
		return false
	}
}

// Weight returns the base priority for the relation kind.
// Related links score highest: structural links are already visible
// in navigation, cross-topic ones are not.
func (r RelationKind) Weight() int {
	switch r {
	case RelationRelated:
		return 100
	case RelationChild:
		return 60
	case RelationSibling:
		return 50
	case RelationDescendant:
		return 40
	case RelationParent:
		return 30
	case RelationAncestor:
		return 20
	default:
		return 0
	}
}

// String returns the string representation.
func (r RelationKind) String() string {
	return string(r)
}

// ParseRelationKind parses a relation kind name, ignoring case and spaces.
func ParseRelationKind(s string) (RelationKind, error) {
	r := RelationKind(strings.ToLower(strings.TrimSpace(s)))
	if !r.IsValid() {
		return "", fmt.Errorf("%w: relation %q", ErrUnsupportedType, s)
	}
	return r, nil
}

// ParseRelationKinds parses a list of relation kind names.
func ParseRelationKinds(values []string) ([]RelationKind, error) {
	result := make([]RelationKind, 0, len(values))
	for _, v := range values {
		if strings.TrimSpace(v) == "" {
			continue
		}
		r, err := ParseRelationKind(v)
		if err != nil {
			return nil, err
		}
		result = append(result, r)
	}
	return result, nil
}
