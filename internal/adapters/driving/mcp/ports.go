package mcp

import (
	"github.com/custodia-labs/interlink/internal/core/domain"
	"github.com/custodia-labs/interlink/internal/core/ports/driving"
)

// Ports aggregates all driving port interfaces required by the MCP server.
// This provides a single injection point for dependency injection.
type Ports struct {
	// Link inserts links and resolves targets.
	Link driving.LinkService

	// Settings supplies the link policy. Defaults apply when nil.
	Settings driving.SettingsService

	// Catalog backs the entity resources. Optional.
	Catalog driving.CatalogService
}

// Validate ensures all required ports are set.
// Returns an error if any required port is nil.
func (p *Ports) Validate() error {
	if p.Link == nil {
		return ErrMissingLinkService
	}
	return nil
}

// policy returns the configured link policy, or the defaults.
func (p *Ports) policy() (domain.LinkPolicy, error) {
	if p.Settings == nil {
		return domain.DefaultLinkPolicy(), nil
	}
	policy, err := p.Settings.Get()
	if err != nil {
		return domain.LinkPolicy{}, err
	}
	return *policy, nil
}
