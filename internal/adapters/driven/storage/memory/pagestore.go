package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/custodia-labs/interlink/internal/core/domain"
	"github.com/custodia-labs/interlink/internal/core/ports/driven"
)

// Ensure PageStore implements the interface.
var _ driven.PageStore = (*PageStore)(nil)

// PageStore keeps page content and linked output in memory.
type PageStore struct {
	mu       sync.RWMutex
	pages    map[string]string
	output   map[string]string
	watchers []chan string
}

// NewPageStore creates an empty page store.
func NewPageStore() *PageStore {
	return &PageStore{
		pages:  make(map[string]string),
		output: make(map[string]string),
	}
}

// Put stores page content and notifies watchers.
func (s *PageStore) Put(entityID, html string) {
	s.mu.Lock()
	s.pages[entityID] = html
	watchers := append([]chan string(nil), s.watchers...)
	s.mu.Unlock()

	for _, w := range watchers {
		select {
		case w <- entityID:
		default:
		}
	}
}

// Output returns the linked HTML written for a page.
func (s *PageStore) Output(entityID string) (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	html, ok := s.output[entityID]
	return html, ok
}

// List returns every stored page sorted by entity ID.
func (s *PageStore) List(_ context.Context) ([]domain.PageSource, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	result := make([]domain.PageSource, 0, len(s.pages))
	for id := range s.pages {
		result = append(result, domain.PageSource{EntityID: id, Path: id})
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].EntityID < result[j].EntityID
	})
	return result, nil
}

// Read returns the content of a page.
func (s *PageStore) Read(_ context.Context, page domain.PageSource) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	html, ok := s.pages[page.EntityID]
	if !ok {
		return "", domain.ErrNotFound
	}
	return html, nil
}

// Write stores linked output for a page.
func (s *PageStore) Write(_ context.Context, page domain.PageSource, html string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.output[page.EntityID] = html
	return nil
}

// Watch emits the entity ID of every page passed to Put.
// Events are dropped while the receiver is not keeping up.
func (s *PageStore) Watch(ctx context.Context) (<-chan string, error) {
	ch := make(chan string, 16)

	s.mu.Lock()
	s.watchers = append(s.watchers, ch)
	s.mu.Unlock()

	go func() {
		<-ctx.Done()
		s.mu.Lock()
		defer s.mu.Unlock()
		for i, w := range s.watchers {
			if w == ch {
				s.watchers = append(s.watchers[:i], s.watchers[i+1:]...)
				break
			}
		}
		close(ch)
	}()

	return ch, nil
}
