package driving

import (
	"context"

	"github.com/custodia-labs/interlink/internal/core/domain"
)

// LinkService inserts internal links into page content.
type LinkService interface {
	// Link rewrites html with links to eligible pages for the given page.
	// Nothing-to-do outcomes return the original html with zero links.
	// Only an invalid policy or an unknown page entity is an error.
	Link(ctx context.Context, html string, page domain.PageContext, policy domain.LinkPolicy) (*domain.LinkResult, error)

	// Targets returns the eligible targets for a page in priority order.
	Targets(ctx context.Context, page domain.PageContext, policy domain.LinkPolicy) ([]domain.LinkTarget, error)
}
