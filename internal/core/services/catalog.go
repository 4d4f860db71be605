package services

import (
	"context"
	"fmt"

	"github.com/custodia-labs/interlink/internal/core/domain"
	"github.com/custodia-labs/interlink/internal/core/ports/driven"
	"github.com/custodia-labs/interlink/internal/core/ports/driving"
	"github.com/custodia-labs/interlink/internal/logger"
)

// Ensure CatalogService implements the interface.
var _ driving.CatalogService = (*CatalogService)(nil)

// CatalogService loads entities and vocabulary into an immutable catalog.
type CatalogService struct {
	entities driven.EntityStore
	vocab    driven.VocabularyStore
}

// NewCatalogService creates a catalog service.
// vocab may be nil, in which case entities have only their titles as anchors.
func NewCatalogService(entities driven.EntityStore, vocab driven.VocabularyStore) *CatalogService {
	return &CatalogService{entities: entities, vocab: vocab}
}

// Load reads both stores and indexes the result.
// Invalid entities are skipped and integrity problems are logged; only a
// store failure is an error.
func (s *CatalogService) Load(ctx context.Context) (*domain.Catalog, error) {
	defer logger.Timed("load catalog")()

	entities, vocab, err := s.read(ctx)
	if err != nil {
		return nil, err
	}

	catalog := domain.NewCatalog(entities, vocab)
	for _, issue := range catalog.Issues {
		logger.Warn("catalog: %s", issue)
	}
	logger.Info("catalog: %d entities, %d synonym lists", catalog.Hierarchy.Len(), len(catalog.Vocabulary))

	return catalog, nil
}

// CopyTo writes the valid entities and vocabulary into dst.
func (s *CatalogService) CopyTo(ctx context.Context, dst driven.CatalogWriter) (int, error) {
	entities, vocab, err := s.read(ctx)
	if err != nil {
		return 0, err
	}
	if err := dst.Replace(ctx, entities, vocab); err != nil {
		return 0, fmt.Errorf("write catalog: %w", err)
	}
	return len(entities), nil
}

func (s *CatalogService) read(ctx context.Context) ([]domain.Entity, domain.Vocabulary, error) {
	if s.entities == nil {
		return nil, nil, domain.ErrCatalogUnavailable
	}

	all, err := s.entities.List(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("list entities: %w", err)
	}

	valid := make([]domain.Entity, 0, len(all))
	for _, e := range all {
		if err := e.Validate(); err != nil {
			logger.Warn("catalog: skipping entity: %v", err)
			continue
		}
		valid = append(valid, e)
	}

	vocab := domain.Vocabulary{}
	if s.vocab != nil {
		vocab, err = s.vocab.All(ctx)
		if err != nil {
			return nil, nil, fmt.Errorf("load vocabulary: %w", err)
		}
	}

	return valid, vocab, nil
}
