package services

import (
	"strings"

	"golang.org/x/net/html"

	"github.com/custodia-labs/interlink/internal/core/domain"
)

// fixtureEntities builds:
//
//	crm-software
//	├── crm-for-startups  (related: project-management, email-marketing)
//	│   └── free-crm
//	└── enterprise-crm
//	project-management
//	email-marketing
func fixtureEntities() []domain.Entity {
	return []domain.Entity{
		domain.NewRootEntity("crm-software", "crm-software", "CRM Software"),
		domain.NewNestedEntity("crm-for-startups", "crm-software", "crm-for-startups", "CRM for Startups",
			"project-management", "email-marketing"),
		domain.NewNestedEntity("free-crm", "crm-for-startups", "free-crm", "Free CRM"),
		domain.NewNestedEntity("enterprise-crm", "crm-software", "enterprise-crm", "Enterprise CRM"),
		domain.NewRootEntity("project-management", "project-management", "Project Management"),
		domain.NewRootEntity("email-marketing", "email-marketing", "Email Marketing"),
	}
}

func fixtureCatalog() *domain.Catalog {
	return domain.NewCatalog(fixtureEntities(), nil)
}

// filler returns n neutral words that match no fixture anchor.
func filler(n int) string {
	return strings.TrimSpace(strings.Repeat("lorem ", n))
}

func targetIDs(targets []domain.LinkTarget) []string {
	ids := make([]string, 0, len(targets))
	for _, t := range targets {
		ids = append(ids, t.ID)
	}
	return ids
}

// maxAnchorDepth reports the deepest nesting of <a> elements in src.
func maxAnchorDepth(src string) int {
	z := html.NewTokenizer(strings.NewReader(src))
	depth, deepest := 0, 0
	for {
		switch z.Next() {
		case html.ErrorToken:
			return deepest
		case html.StartTagToken:
			if name, _ := z.TagName(); string(name) == "a" {
				depth++
				if depth > deepest {
					deepest = depth
				}
			}
		case html.EndTagToken:
			if name, _ := z.TagName(); string(name) == "a" && depth > 0 {
				depth--
			}
		}
	}
}
