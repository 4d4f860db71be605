package domain

import "fmt"

// EntityKind distinguishes top-level categories from nested subcategories.
type EntityKind string

// Available entity kinds.
const (
	// EntityKindRoot is a top-level category with no parent.
	EntityKindRoot EntityKind = "root"

	// EntityKindNested is a subcategory with exactly one parent.
	EntityKindNested EntityKind = "nested"
)

// IsValid returns true if the kind is recognised.
func (k EntityKind) IsValid() bool {
	switch k {
	case EntityKindRoot, EntityKindNested:
		return true
	default:
		return false
	}
}

// String returns the string representation.
func (k EntityKind) String() string {
	return string(k)
}

// Entity is a category or subcategory node in the content hierarchy.
// Child IDs are never stored; the Hierarchy computes them.
type Entity struct {
	// ID is the unique identifier.
	ID string

	// Slug is the URL path segment for this entity.
	Slug string

	// Title is the display title. It is always one anchor candidate.
	Title string

	// Kind tags the entity as root or nested.
	Kind EntityKind

	// ParentID is set only for nested entities.
	ParentID string

	// RelatedIDs are cross-hierarchy references. They may point anywhere.
	RelatedIDs []string
}

// NewRootEntity creates a top-level entity.
func NewRootEntity(id, slug, title string, relatedIDs ...string) Entity {
	return Entity{
		ID:         id,
		Slug:       slug,
		Title:      title,
		Kind:       EntityKindRoot,
		RelatedIDs: relatedIDs,
	}
}

// NewNestedEntity creates an entity under parentID.
func NewNestedEntity(id, parentID, slug, title string, relatedIDs ...string) Entity {
	return Entity{
		ID:         id,
		Slug:       slug,
		Title:      title,
		Kind:       EntityKindNested,
		ParentID:   parentID,
		RelatedIDs: relatedIDs,
	}
}

// IsNested reports whether the entity sits below another entity.
func (e Entity) IsNested() bool {
	switch e.Kind {
	case EntityKindNested:
		return true
	case EntityKindRoot:
		return false
	default:
		return e.ParentID != ""
	}
}

// IsRelatedTo reports whether id is one of the entity's cross-references.
func (e Entity) IsRelatedTo(id string) bool {
	for _, rel := range e.RelatedIDs {
		if rel == id {
			return true
		}
	}
	return false
}

// Validate checks the entity's shape. It does not check that ParentID
// resolves; that is an integrity concern of the whole catalog.
func (e Entity) Validate() error {
	if e.ID == "" {
		return fmt.Errorf("%w: id is required", ErrInvalidEntity)
	}
	if e.Slug == "" {
		return fmt.Errorf("%w: %s: slug is required", ErrInvalidEntity, e.ID)
	}

	switch e.Kind {
	case EntityKindRoot:
		if e.ParentID != "" {
			return fmt.Errorf("%w: %s: root entity cannot have a parent", ErrInvalidEntity, e.ID)
		}
	case EntityKindNested:
		if e.ParentID == "" {
			return fmt.Errorf("%w: %s: nested entity requires a parent", ErrInvalidEntity, e.ID)
		}
		if e.ParentID == e.ID {
			return fmt.Errorf("%w: %s: entity cannot be its own parent", ErrInvalidEntity, e.ID)
		}
	default:
		return fmt.Errorf("%w: %s: unknown kind %q", ErrInvalidEntity, e.ID, e.Kind)
	}

	return nil
}
