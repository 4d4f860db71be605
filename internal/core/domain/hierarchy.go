package domain

import "fmt"

// Hierarchy is an immutable index over a set of entities.
// It is built once per build pass and shared read-only between renders,
// so every query is safe for concurrent use.
type Hierarchy struct {
	order      []string
	byID       map[string]Entity
	children   map[string][]string
	duplicates []string
}

// NewHierarchy indexes entities in the given order.
// When an ID appears more than once the first record wins.
func NewHierarchy(entities []Entity) *Hierarchy {
	h := &Hierarchy{
		order:    make([]string, 0, len(entities)),
		byID:     make(map[string]Entity, len(entities)),
		children: make(map[string][]string),
	}

	for _, e := range entities {
		if _, exists := h.byID[e.ID]; exists {
			h.duplicates = append(h.duplicates, e.ID)
			continue
		}
		h.byID[e.ID] = e
		h.order = append(h.order, e.ID)
		if e.IsNested() && e.ParentID != "" {
			h.children[e.ParentID] = append(h.children[e.ParentID], e.ID)
		}
	}

	return h
}

// Len returns the number of indexed entities.
func (h *Hierarchy) Len() int {
	return len(h.order)
}

// All returns every entity in index order.
func (h *Hierarchy) All() []Entity {
	result := make([]Entity, 0, len(h.order))
	for _, id := range h.order {
		result = append(result, h.byID[id])
	}
	return result
}

// Entity returns the entity with the given ID.
func (h *Hierarchy) Entity(id string) (Entity, bool) {
	e, ok := h.byID[id]
	return e, ok
}

// Parent returns the resolved parent of id.
// It returns false for root entities and for dangling parent references.
func (h *Hierarchy) Parent(id string) (Entity, bool) {
	e, ok := h.byID[id]
	if !ok || !e.IsNested() {
		return Entity{}, false
	}
	parent, ok := h.byID[e.ParentID]
	return parent, ok
}

// Children returns the IDs of entities whose parent is id, in index order.
func (h *Hierarchy) Children(id string) []string {
	kids := h.children[id]
	result := make([]string, len(kids))
	copy(result, kids)
	return result
}

// Ancestors walks the parent chain of id, nearest first.
// The walk stops silently at a root, at an unknown parent, or on a cycle.
func (h *Hierarchy) Ancestors(id string) []string {
	var result []string
	visited := map[string]bool{id: true}

	current, ok := h.byID[id]
	for ok && current.IsNested() {
		parentID := current.ParentID
		if visited[parentID] {
			break
		}
		parent, found := h.byID[parentID]
		if !found {
			break
		}
		visited[parentID] = true
		result = append(result, parentID)
		current = parent
	}

	return result
}

// Descendants returns every transitive child of id, breadth first.
func (h *Hierarchy) Descendants(id string) []string {
	var result []string
	visited := map[string]bool{id: true}
	queue := []string{id}

	for len(queue) > 0 {
		next := queue[0]
		queue = queue[1:]
		for _, child := range h.children[next] {
			if visited[child] {
				continue
			}
			visited[child] = true
			result = append(result, child)
			queue = append(queue, child)
		}
	}

	return result
}

// Siblings returns the other entities sharing id's parent.
// Root entities have no siblings.
func (h *Hierarchy) Siblings(id string) []string {
	e, ok := h.byID[id]
	if !ok || !e.IsNested() {
		return nil
	}

	var result []string
	for _, other := range h.children[e.ParentID] {
		if other != id {
			result = append(result, other)
		}
	}
	return result
}

// Path returns the slug chain from the outermost resolvable ancestor down to id.
func (h *Hierarchy) Path(id string) ([]string, bool) {
	e, ok := h.byID[id]
	if !ok {
		return nil, false
	}

	ancestors := h.Ancestors(id)
	segments := make([]string, 0, len(ancestors)+1)
	for i := len(ancestors) - 1; i >= 0; i-- {
		segments = append(segments, h.byID[ancestors[i]].Slug)
	}
	segments = append(segments, e.Slug)

	return segments, true
}

// IntegrityIssue describes a data problem found in the catalog.
// Issues never stop linking; affected entities just link less.
type IntegrityIssue struct {
	EntityID string
	Problem  string
}

// String returns a log-friendly description.
func (i IntegrityIssue) String() string {
	return fmt.Sprintf("%s: %s", i.EntityID, i.Problem)
}

// Integrity reports duplicate IDs, dangling references, parent cycles and
// sibling slug collisions, in index order.
func (h *Hierarchy) Integrity() []IntegrityIssue {
	var issues []IntegrityIssue

	for _, id := range h.duplicates {
		issues = append(issues, IntegrityIssue{EntityID: id, Problem: "duplicate id ignored"})
	}

	for _, id := range h.order {
		e := h.byID[id]
		if e.IsNested() {
			if _, ok := h.byID[e.ParentID]; !ok {
				issues = append(issues, IntegrityIssue{
					EntityID: id,
					Problem:  fmt.Sprintf("unknown parent %q", e.ParentID),
				})
			} else if h.inCycle(id) {
				issues = append(issues, IntegrityIssue{EntityID: id, Problem: "parent chain forms a cycle"})
			}
		}
		for _, rel := range e.RelatedIDs {
			if _, ok := h.byID[rel]; !ok {
				issues = append(issues, IntegrityIssue{
					EntityID: id,
					Problem:  fmt.Sprintf("unknown related id %q", rel),
				})
			}
		}
	}

	issues = append(issues, h.slugCollisions()...)
	return issues
}

func (h *Hierarchy) inCycle(id string) bool {
	seen := map[string]bool{}
	current := id
	for {
		e, ok := h.byID[current]
		if !ok || !e.IsNested() {
			return false
		}
		if e.ParentID == id {
			return true
		}
		if seen[current] {
			return false
		}
		seen[current] = true
		current = e.ParentID
	}
}

// slugCollisions finds entities under the same parent sharing a slug,
// which would produce identical URLs.
func (h *Hierarchy) slugCollisions() []IntegrityIssue {
	var issues []IntegrityIssue
	seen := make(map[string]string)

	for _, id := range h.order {
		e := h.byID[id]
		key := e.ParentID + "/" + e.Slug
		if first, ok := seen[key]; ok {
			issues = append(issues, IntegrityIssue{
				EntityID: id,
				Problem:  fmt.Sprintf("slug %q collides with %q", e.Slug, first),
			})
			continue
		}
		seen[key] = id
	}

	return issues
}
