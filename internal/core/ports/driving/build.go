package driving

import (
	"context"

	"github.com/custodia-labs/interlink/internal/core/domain"
)

// BuildService links every page of a site in one pass.
type BuildService interface {
	// Run links the selected pages and writes the output.
	// Per-page failures are reported, not returned.
	Run(ctx context.Context, opts domain.BuildOptions) (*domain.BuildReport, error)

	// Watch runs a build whenever page content changes until ctx is cancelled.
	// onBuild is called after each build.
	Watch(ctx context.Context, opts domain.BuildOptions, onBuild func(*domain.BuildReport)) error
}
