package driven

import (
	"context"

	"github.com/custodia-labs/interlink/internal/core/domain"
)

// VocabularyStore provides the synonym lists used as anchor candidates.
type VocabularyStore interface {
	// Synonyms returns the ordered synonyms for an entity.
	// An entity without synonyms returns an empty list and no error.
	Synonyms(ctx context.Context, entityID string) ([]string, error)

	// All returns every synonym list keyed by entity ID.
	All(ctx context.Context) (domain.Vocabulary, error)
}
