package mcp

import (
	"context"

	"github.com/custodia-labs/interlink/internal/core/domain"
	"github.com/custodia-labs/interlink/internal/core/ports/driven"
)

// mockLinkService is a mock implementation of driving.LinkService.
type mockLinkService struct {
	result  *domain.LinkResult
	targets []domain.LinkTarget
	err     error

	lastHTML   string
	lastPage   domain.PageContext
	lastPolicy domain.LinkPolicy
}

func (m *mockLinkService) Link(
	_ context.Context,
	html string,
	page domain.PageContext,
	policy domain.LinkPolicy,
) (*domain.LinkResult, error) {
	m.lastHTML = html
	m.lastPage = page
	m.lastPolicy = policy
	if m.err != nil {
		return nil, m.err
	}
	if m.result == nil {
		return domain.Unchanged(html), nil
	}
	return m.result, nil
}

func (m *mockLinkService) Targets(
	_ context.Context,
	page domain.PageContext,
	policy domain.LinkPolicy,
) ([]domain.LinkTarget, error) {
	m.lastPage = page
	m.lastPolicy = policy
	return m.targets, m.err
}

// mockSettingsService is a mock implementation of driving.SettingsService.
type mockSettingsService struct {
	policy *domain.LinkPolicy
	err    error
}

func (m *mockSettingsService) Get() (*domain.LinkPolicy, error) {
	if m.err != nil {
		return nil, m.err
	}
	if m.policy == nil {
		p := domain.DefaultLinkPolicy()
		return &p, nil
	}
	return m.policy, nil
}

func (m *mockSettingsService) Save(_ *domain.LinkPolicy) error {
	return m.err
}

func (m *mockSettingsService) Set(_, _ string) error {
	return m.err
}

func (m *mockSettingsService) Keys() []string {
	return nil
}

func (m *mockSettingsService) GetDefaults() domain.LinkPolicy {
	return domain.DefaultLinkPolicy()
}

// mockCatalogService is a mock implementation of driving.CatalogService.
type mockCatalogService struct {
	catalog *domain.Catalog
	err     error
}

func (m *mockCatalogService) Load(_ context.Context) (*domain.Catalog, error) {
	return m.catalog, m.err
}

func (m *mockCatalogService) CopyTo(_ context.Context, _ driven.CatalogWriter) (int, error) {
	return 0, m.err
}

func testCatalog() *domain.Catalog {
	return domain.NewCatalog([]domain.Entity{
		domain.NewRootEntity("crm", "crm-software", "CRM Software", "email"),
		domain.NewNestedEntity("crm-startups", "crm", "crm-for-startups", "CRM for Startups"),
		domain.NewRootEntity("email", "email-marketing", "Email Marketing"),
	}, domain.Vocabulary{"crm": {"customer relationship management"}})
}
