package driven

import (
	"context"

	"github.com/custodia-labs/interlink/internal/core/domain"
)

// PageStore reads page content and writes linked output.
type PageStore interface {
	// List returns every page available for linking, sorted by entity ID.
	List(ctx context.Context) ([]domain.PageSource, error)

	// Read returns the HTML content of a page.
	Read(ctx context.Context, page domain.PageSource) (string, error)

	// Write stores the linked HTML for a page.
	Write(ctx context.Context, page domain.PageSource, html string) error

	// Watch emits the entity ID of each page whose content changes.
	// The channel is closed when ctx is cancelled.
	Watch(ctx context.Context) (<-chan string, error)
}
