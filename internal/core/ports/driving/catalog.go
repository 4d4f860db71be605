package driving

import (
	"context"

	"github.com/custodia-labs/interlink/internal/core/domain"
	"github.com/custodia-labs/interlink/internal/core/ports/driven"
)

// CatalogService loads the entity catalog shared by a build.
type CatalogService interface {
	// Load reads entities and vocabulary and indexes them.
	Load(ctx context.Context) (*domain.Catalog, error)

	// CopyTo loads the catalog and replaces the contents of dst with it.
	// Returns the number of entities written.
	CopyTo(ctx context.Context, dst driven.CatalogWriter) (int, error)
}
