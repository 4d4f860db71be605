package driven

import (
	"context"

	"github.com/custodia-labs/interlink/internal/core/domain"
)

// EntityStore reads category and subcategory records.
// The engine never writes through it.
type EntityStore interface {
	// List returns every entity in a stable order.
	List(ctx context.Context) ([]domain.Entity, error)

	// Get retrieves an entity by ID.
	// Returns domain.ErrNotFound if the entity does not exist.
	Get(ctx context.Context, id string) (*domain.Entity, error)
}

// CatalogWriter replaces the whole catalog held by a store.
type CatalogWriter interface {
	// Replace removes all entities and synonyms and stores the given ones.
	Replace(ctx context.Context, entities []domain.Entity, vocab domain.Vocabulary) error
}
