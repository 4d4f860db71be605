package services

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/custodia-labs/interlink/internal/core/domain"
	"github.com/custodia-labs/interlink/internal/core/ports/driven"
	"github.com/custodia-labs/interlink/internal/core/ports/driving"
	"github.com/custodia-labs/interlink/internal/logger"
)

// Ensure BuildService implements the interface.
var _ driving.BuildService = (*BuildService)(nil)

// DefaultDebounce is how long Watch waits for changes to settle.
const DefaultDebounce = 300 * time.Millisecond

// BuildService links every page in a page store.
// Pages are independent and the catalog is read-only, so pages are linked
// in parallel without locking.
type BuildService struct {
	linker   driving.LinkService
	pages    driven.PageStore
	policy   domain.LinkPolicy
	debounce time.Duration
}

// NewBuildService creates a build service that links pages with policy.
func NewBuildService(linker driving.LinkService, pages driven.PageStore, policy domain.LinkPolicy) *BuildService {
	return &BuildService{
		linker:   linker,
		pages:    pages,
		policy:   policy,
		debounce: DefaultDebounce,
	}
}

// SetDebounce changes the settle time used by Watch.
func (s *BuildService) SetDebounce(d time.Duration) {
	s.debounce = d
}

// Run links the selected pages and writes the output unless opts.DryRun.
func (s *BuildService) Run(ctx context.Context, opts domain.BuildOptions) (*domain.BuildReport, error) {
	report := &domain.BuildReport{
		RunID:     uuid.NewString(),
		StartedAt: time.Now(),
	}
	logger.Section("Build " + report.RunID)

	sources, err := s.pages.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list pages: %w", err)
	}
	sources = selectPages(sources, opts.Only)

	workers := opts.Workers
	if workers < 1 {
		workers = 1
	}

	pages := make([]domain.PageReport, len(sources))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)

	for i, source := range sources {
		if gctx.Err() != nil {
			break
		}
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			pages[i] = s.buildPage(gctx, source, opts.DryRun)
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("build %s: %w", report.RunID, err)
	}
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("build %s: %w", report.RunID, err)
	}

	report.Pages = pages
	for _, p := range pages {
		report.LinksInserted += p.LinksInserted
		if p.Failed() {
			report.Failed++
		}
	}
	report.Duration = time.Since(report.StartedAt)

	logger.Info("build %s: %d pages, %d links, %d failed in %s",
		report.RunID, len(pages), report.LinksInserted, report.Failed, report.Duration)

	return report, nil
}

func (s *BuildService) buildPage(ctx context.Context, source domain.PageSource, dryRun bool) domain.PageReport {
	report := domain.PageReport{EntityID: source.EntityID, TargetURLs: []string{}}

	content, err := s.pages.Read(ctx, source)
	if err != nil {
		report.Error = fmt.Sprintf("read: %v", err)
		logger.Warn("page %s: %s", source.EntityID, report.Error)
		return report
	}

	result, err := s.linker.Link(ctx, content, domain.PageContext{EntityID: source.EntityID}, s.policy)
	if err != nil {
		report.Error = fmt.Sprintf("link: %v", err)
		logger.Warn("page %s: %s", source.EntityID, report.Error)
		return report
	}

	report.LinksInserted = result.LinksInserted
	report.TargetURLs = result.TargetURLs

	if dryRun {
		return report
	}
	if err := s.pages.Write(ctx, source, result.HTML); err != nil {
		report.Error = fmt.Sprintf("write: %v", err)
		logger.Warn("page %s: %s", source.EntityID, report.Error)
	}

	return report
}

// Watch builds once, then rebuilds the pages that change until ctx is
// cancelled. Bursts of changes are collected until they settle.
func (s *BuildService) Watch(ctx context.Context, opts domain.BuildOptions, onBuild func(*domain.BuildReport)) error {
	events, err := s.pages.Watch(ctx)
	if err != nil {
		return fmt.Errorf("watch pages: %w", err)
	}

	report, err := s.Run(ctx, opts)
	if err != nil {
		return err
	}
	notify(onBuild, report)

	allowed := toSet(opts.Only)
	pending := make(map[string]bool)
	var settle <-chan time.Time

	for {
		select {
		case <-ctx.Done():
			return nil

		case id, ok := <-events:
			if !ok {
				return nil
			}
			if len(allowed) > 0 && !allowed[id] {
				continue
			}
			logger.Debug("watch: %s changed", id)
			pending[id] = true
			settle = time.After(s.debounce)

		case <-settle:
			settle = nil
			changed := make([]string, 0, len(pending))
			for id := range pending {
				changed = append(changed, id)
			}
			sort.Strings(changed)
			pending = make(map[string]bool)

			rebuild := opts
			rebuild.Only = changed
			report, err := s.Run(ctx, rebuild)
			if err != nil {
				if ctx.Err() != nil {
					return nil
				}
				logger.Warn("watch: rebuild failed: %v", err)
				continue
			}
			notify(onBuild, report)
		}
	}
}

func notify(onBuild func(*domain.BuildReport), report *domain.BuildReport) {
	if onBuild != nil {
		onBuild(report)
	}
}

// selectPages keeps the pages listed in only, or all pages when only is empty.
func selectPages(pages []domain.PageSource, only []string) []domain.PageSource {
	if len(only) == 0 {
		return pages
	}
	wanted := toSet(only)
	selected := make([]domain.PageSource, 0, len(only))
	for _, p := range pages {
		if wanted[p.EntityID] {
			selected = append(selected, p)
		}
	}
	return selected
}
