package jsonfile

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"github.com/custodia-labs/interlink/internal/core/domain"
	"github.com/custodia-labs/interlink/internal/core/ports/driven"
	"github.com/custodia-labs/interlink/internal/slug"
)

// Ensure Store implements the interfaces.
var (
	_ driven.EntityStore     = (*Store)(nil)
	_ driven.VocabularyStore = (*Store)(nil)
	_ driven.CatalogWriter   = (*Store)(nil)
)

// Data file names.
const (
	CategoriesFile    = "categories.json"
	SubcategoriesFile = "subcategories.json"
	AnchorsFile       = "anchors.json"
)

// record is one entry of categories.json or subcategories.json.
type record struct {
	ID         string   `json:"id"`
	Slug       string   `json:"slug,omitempty"`
	Title      string   `json:"title"`
	ParentID   string   `json:"parentId,omitempty"`
	RelatedIDs []string `json:"relatedIds,omitempty"`
}

// Store reads entities and synonyms from a data directory.
// Files are read on first use and cached until Replace or Reload.
type Store struct {
	dir string

	mu       sync.RWMutex
	loaded   bool
	entities []domain.Entity
	index    map[string]int
	vocab    domain.Vocabulary
}

// NewStore creates a store for the data directory.
func NewStore(dir string) *Store {
	return &Store{dir: dir}
}

// Dir returns the data directory.
func (s *Store) Dir() string {
	return s.dir
}

// Reload discards cached data so the next read goes back to disk.
func (s *Store) Reload() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.loaded = false
}

// List returns categories followed by subcategories, in file order.
func (s *Store) List(_ context.Context) ([]domain.Entity, error) {
	if err := s.ensureLoaded(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]domain.Entity, len(s.entities))
	copy(result, s.entities)
	return result, nil
}

// Get retrieves an entity by ID.
func (s *Store) Get(_ context.Context, id string) (*domain.Entity, error) {
	if err := s.ensureLoaded(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	i, ok := s.index[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	e := s.entities[i]
	return &e, nil
}

// Synonyms returns the synonyms of an entity.
func (s *Store) Synonyms(_ context.Context, entityID string) ([]string, error) {
	if err := s.ensureLoaded(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	return append([]string{}, s.vocab[entityID]...), nil
}

// All returns every synonym list.
func (s *Store) All(_ context.Context) (domain.Vocabulary, error) {
	if err := s.ensureLoaded(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make(domain.Vocabulary, len(s.vocab))
	for id, list := range s.vocab {
		result[id] = append([]string(nil), list...)
	}
	return result, nil
}

// Replace writes the catalog as the three data files.
func (s *Store) Replace(_ context.Context, entities []domain.Entity, vocab domain.Vocabulary) error {
	var categories, subcategories []record
	for _, e := range entities {
		r := record{
			ID:         e.ID,
			Slug:       e.Slug,
			Title:      e.Title,
			RelatedIDs: e.RelatedIDs,
		}
		if e.IsNested() {
			r.ParentID = e.ParentID
			subcategories = append(subcategories, r)
		} else {
			categories = append(categories, r)
		}
	}
	if vocab == nil {
		vocab = domain.Vocabulary{}
	}

	if err := os.MkdirAll(s.dir, 0755); err != nil {
		return fmt.Errorf("creating data dir: %w", err)
	}
	files := []struct {
		name  string
		value any
	}{
		{CategoriesFile, nonNilRecords(categories)},
		{SubcategoriesFile, nonNilRecords(subcategories)},
		{AnchorsFile, vocab},
	}
	for _, f := range files {
		if err := writeJSON(filepath.Join(s.dir, f.name), f.value); err != nil {
			return err
		}
	}

	s.Reload()
	return nil
}

func (s *Store) ensureLoaded() error {
	s.mu.RLock()
	loaded := s.loaded
	s.mu.RUnlock()
	if loaded {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.loaded {
		return nil
	}

	var categories, subcategories []record
	if err := readJSON(filepath.Join(s.dir, CategoriesFile), &categories, true); err != nil {
		return err
	}
	if err := readJSON(filepath.Join(s.dir, SubcategoriesFile), &subcategories, false); err != nil {
		return err
	}
	vocab := domain.Vocabulary{}
	if err := readJSON(filepath.Join(s.dir, AnchorsFile), &vocab, false); err != nil {
		return err
	}

	entities := make([]domain.Entity, 0, len(categories)+len(subcategories))
	for _, r := range categories {
		entities = append(entities, domain.NewRootEntity(r.ID, slugFor(r), r.Title, r.RelatedIDs...))
	}
	for _, r := range subcategories {
		entities = append(entities, domain.NewNestedEntity(r.ID, r.ParentID, slugFor(r), r.Title, r.RelatedIDs...))
	}

	index := make(map[string]int, len(entities))
	for i, e := range entities {
		if _, dup := index[e.ID]; !dup {
			index[e.ID] = i
		}
	}

	s.entities = entities
	s.index = index
	s.vocab = vocab
	s.loaded = true
	return nil
}

// slugFor returns the record's slug, generating one from the title if absent.
func slugFor(r record) string {
	if r.Slug != "" {
		return r.Slug
	}
	return slug.GenerateWithFallback(r.Title, r.ID)
}

func readJSON(path string, v any, required bool) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if !required && errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("reading %s: %w", filepath.Base(path), err)
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("%w: parsing %s: %v", domain.ErrInvalidInput, filepath.Base(path), err)
	}
	return nil
}

func writeJSON(path string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding %s: %w", filepath.Base(path), err)
	}
	if err := os.WriteFile(path, append(data, '\n'), 0644); err != nil {
		return fmt.Errorf("writing %s: %w", filepath.Base(path), err)
	}
	return nil
}

func nonNilRecords(records []record) []record {
	if records == nil {
		return []record{}
	}
	return records
}
