package domain

// Vocabulary maps entity IDs to their ordered synonym lists.
// A missing entry is valid and means the entity has no synonyms.
type Vocabulary map[string][]string

// Synonyms returns the synonyms for id, or nil.
func (v Vocabulary) Synonyms(id string) []string {
	if v == nil {
		return nil
	}
	return v[id]
}

// Catalog is the read-only dataset shared by every render in a build.
type Catalog struct {
	// Hierarchy indexes all entities.
	Hierarchy *Hierarchy

	// Vocabulary holds synonym lists per entity.
	Vocabulary Vocabulary

	// Issues are integrity problems found while loading.
	Issues []IntegrityIssue
}

// NewCatalog builds a catalog from entities and vocabulary.
func NewCatalog(entities []Entity, vocab Vocabulary) *Catalog {
	h := NewHierarchy(entities)
	if vocab == nil {
		vocab = Vocabulary{}
	}
	return &Catalog{
		Hierarchy:  h,
		Vocabulary: vocab,
		Issues:     h.Integrity(),
	}
}
