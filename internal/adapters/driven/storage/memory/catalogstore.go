package memory

import (
	"context"
	"sync"

	"github.com/custodia-labs/interlink/internal/core/domain"
	"github.com/custodia-labs/interlink/internal/core/ports/driven"
)

// Ensure CatalogStore implements the interfaces.
var (
	_ driven.EntityStore     = (*CatalogStore)(nil)
	_ driven.VocabularyStore = (*CatalogStore)(nil)
	_ driven.CatalogWriter   = (*CatalogStore)(nil)
)

// CatalogStore is an in-memory entity and vocabulary store.
// Entities are listed in the order they were first saved.
type CatalogStore struct {
	mu       sync.RWMutex
	order    []string
	entities map[string]domain.Entity
	synonyms domain.Vocabulary
}

// NewCatalogStore creates a store holding the given entities.
func NewCatalogStore(entities ...domain.Entity) *CatalogStore {
	s := &CatalogStore{
		entities: make(map[string]domain.Entity),
		synonyms: make(domain.Vocabulary),
	}
	for _, e := range entities {
		s.save(e)
	}
	return s
}

// Save stores or updates an entity.
func (s *CatalogStore) Save(_ context.Context, e domain.Entity) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.save(e)
	return nil
}

func (s *CatalogStore) save(e domain.Entity) {
	if _, exists := s.entities[e.ID]; !exists {
		s.order = append(s.order, e.ID)
	}
	s.entities[e.ID] = e
}

// SetSynonyms replaces the synonym list of an entity.
func (s *CatalogStore) SetSynonyms(entityID string, synonyms ...string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.synonyms[entityID] = append([]string(nil), synonyms...)
}

// List returns all entities in insertion order.
func (s *CatalogStore) List(_ context.Context) ([]domain.Entity, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	result := make([]domain.Entity, 0, len(s.order))
	for _, id := range s.order {
		result = append(result, s.entities[id])
	}
	return result, nil
}

// Get retrieves an entity by ID.
func (s *CatalogStore) Get(_ context.Context, id string) (*domain.Entity, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	e, ok := s.entities[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &e, nil
}

// Synonyms returns the synonyms of an entity, or an empty list.
func (s *CatalogStore) Synonyms(_ context.Context, entityID string) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]string{}, s.synonyms[entityID]...), nil
}

// All returns a copy of every synonym list.
func (s *CatalogStore) All(_ context.Context) (domain.Vocabulary, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	result := make(domain.Vocabulary, len(s.synonyms))
	for id, list := range s.synonyms {
		result[id] = append([]string(nil), list...)
	}
	return result, nil
}

// Replace discards the current catalog and stores the given one.
func (s *CatalogStore) Replace(_ context.Context, entities []domain.Entity, vocab domain.Vocabulary) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.order = nil
	s.entities = make(map[string]domain.Entity, len(entities))
	s.synonyms = make(domain.Vocabulary, len(vocab))
	for _, e := range entities {
		s.save(e)
	}
	for id, list := range vocab {
		s.synonyms[id] = append([]string(nil), list...)
	}
	return nil
}
