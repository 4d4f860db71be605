package driving

import "github.com/custodia-labs/interlink/internal/core/domain"

// SettingsService manages the stored link policy.
type SettingsService interface {
	// Get returns the stored policy overlaid on the defaults.
	Get() (*domain.LinkPolicy, error)

	// Save validates and persists a policy.
	Save(policy *domain.LinkPolicy) error

	// Set parses and stores a single setting by key.
	Set(key, value string) error

	// Keys returns every recognised setting key in display order.
	Keys() []string

	// GetDefaults returns the default policy.
	GetDefaults() domain.LinkPolicy
}
