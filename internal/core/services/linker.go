package services

import (
	"context"
	"strings"

	"github.com/custodia-labs/interlink/internal/core/domain"
	"github.com/custodia-labs/interlink/internal/core/ports/driving"
	"github.com/custodia-labs/interlink/internal/logger"
	"github.com/custodia-labs/interlink/internal/markup"
)

// Ensure LinkService implements the interface.
var _ driving.LinkService = (*LinkService)(nil)

// LinkService is the engine entry point: it resolves targets, segments the
// content, places links within budget and rewrites the HTML.
type LinkService struct {
	resolver *TargetResolver
	placer   *Placer
}

// NewLinkService creates a link service over a loaded catalog.
func NewLinkService(catalog *domain.Catalog) *LinkService {
	return &LinkService{
		resolver: NewTargetResolver(catalog),
		placer:   NewPlacer(),
	}
}

// Targets returns the eligible targets for a page in priority order.
func (s *LinkService) Targets(ctx context.Context, page domain.PageContext, policy domain.LinkPolicy) ([]domain.LinkTarget, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := policy.Validate(); err != nil {
		return nil, err
	}
	return s.resolver.Resolve(page, policy)
}

// Link inserts internal links into html for the given page.
func (s *LinkService) Link(ctx context.Context, html string, page domain.PageContext, policy domain.LinkPolicy) (*domain.LinkResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := policy.Validate(); err != nil {
		return nil, err
	}
	if !policy.Enabled || strings.TrimSpace(html) == "" {
		return domain.Unchanged(html), nil
	}

	targets, err := s.resolver.Resolve(page, policy)
	if err != nil {
		return nil, err
	}

	result := domain.Unchanged(html)
	result.TargetsConsidered = len(targets)
	result.WordCount = markup.CountWords(html)
	result.Budget = Budget(result.WordCount, policy)

	if policy.SkipLinkedTargets {
		var linked int
		targets, linked = withoutLinked(targets, markup.ExistingHrefs(html))
		// Links from an earlier pass count against the budget.
		result.Budget -= linked
		if result.Budget < 0 {
			result.Budget = 0
		}
	}

	logger.Debug("link %s: %d words, budget %d, %d targets", page.EntityID, result.WordCount, result.Budget, len(targets))
	if result.Budget == 0 || len(targets) == 0 {
		return result, nil
	}

	regions := markup.NewSegmenter(policy.Containers, policy.ExcludedTags).Extract(html)
	insertions := s.placer.Place(targets, regions, result.Budget, policy)
	if len(insertions) == 0 {
		return result, nil
	}

	result.HTML = markup.Apply(html, insertions)
	result.Insertions = insertions
	result.LinksInserted = len(insertions)
	result.TargetURLs = distinctHrefs(insertions)

	for _, ins := range insertions {
		logger.Debug("  %q -> %s", ins.AnchorText, ins.Href)
	}

	return result, nil
}

// withoutLinked drops targets whose URL is already linked in the content
// and reports how many were dropped.
func withoutLinked(targets []domain.LinkTarget, hrefs []string) ([]domain.LinkTarget, int) {
	if len(hrefs) == 0 {
		return targets, 0
	}
	existing := toSet(hrefs)
	kept := make([]domain.LinkTarget, 0, len(targets))
	for _, t := range targets {
		if !existing[t.URL] {
			kept = append(kept, t)
		}
	}
	return kept, len(targets) - len(kept)
}

func distinctHrefs(insertions []domain.LinkInsertion) []string {
	seen := make(map[string]bool, len(insertions))
	urls := make([]string, 0, len(insertions))
	for _, ins := range insertions {
		if !seen[ins.Href] {
			seen[ins.Href] = true
			urls = append(urls, ins.Href)
		}
	}
	return urls
}
