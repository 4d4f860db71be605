package filesystem

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/fsnotify/fsnotify"

	"github.com/custodia-labs/interlink/internal/core/domain"
	"github.com/custodia-labs/interlink/internal/core/ports/driven"
	"github.com/custodia-labs/interlink/internal/logger"
)

// Ensure PageStore implements the interface.
var _ driven.PageStore = (*PageStore)(nil)

// PageExt is the extension of page files.
const PageExt = ".html"

// eventBuffer is the size of the watch event channel.
const eventBuffer = 64

// PageStore reads pages from a content directory and writes linked output
// to an output directory.
type PageStore struct {
	contentDir string
	outputDir  string

	mu     sync.Mutex
	closed bool
}

// NewPageStore creates a page store. An empty outputDir writes output back
// into the content directory.
func NewPageStore(contentDir, outputDir string) *PageStore {
	if outputDir == "" {
		outputDir = contentDir
	}
	return &PageStore{
		contentDir: contentDir,
		outputDir:  outputDir,
	}
}

// ContentDir returns the directory pages are read from.
func (s *PageStore) ContentDir() string {
	return s.contentDir
}

// OutputDir returns the directory linked pages are written to.
func (s *PageStore) OutputDir() string {
	return s.outputDir
}

// List returns every page file in the content directory sorted by entity ID.
func (s *PageStore) List(_ context.Context) ([]domain.PageSource, error) {
	entries, err := os.ReadDir(s.contentDir)
	if err != nil {
		return nil, fmt.Errorf("content dir error: %w", err)
	}

	pages := make([]domain.PageSource, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		id, ok := entityID(entry.Name())
		if !ok {
			continue
		}
		pages = append(pages, domain.PageSource{
			EntityID: id,
			Path:     filepath.Join(s.contentDir, entry.Name()),
		})
	}

	sort.Slice(pages, func(i, j int) bool {
		return pages[i].EntityID < pages[j].EntityID
	})
	return pages, nil
}

// Read returns the content of a page.
func (s *PageStore) Read(_ context.Context, page domain.PageSource) (string, error) {
	path := page.Path
	if path == "" {
		path = s.pagePath(s.contentDir, page.EntityID)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return "", fmt.Errorf("%w: page %s", domain.ErrNotFound, page.EntityID)
		}
		return "", fmt.Errorf("reading page %s: %w", page.EntityID, err)
	}
	return string(data), nil
}

// Write stores linked HTML under the output directory. Identical content is
// not rewritten, so a watcher on a shared directory does not see a change.
func (s *PageStore) Write(_ context.Context, page domain.PageSource, html string) error {
	if err := os.MkdirAll(s.outputDir, 0755); err != nil {
		return fmt.Errorf("creating output dir: %w", err)
	}

	path := s.pagePath(s.outputDir, page.EntityID)
	if existing, err := os.ReadFile(path); err == nil && bytes.Equal(existing, []byte(html)) {
		return nil
	}

	// Write to a temp file first so readers never see a partial page
	tmp, err := os.CreateTemp(s.outputDir, "."+page.EntityID+"-*.tmp")
	if err != nil {
		return fmt.Errorf("writing page %s: %w", page.EntityID, err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.WriteString(html); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("writing page %s: %w", page.EntityID, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("writing page %s: %w", page.EntityID, err)
	}
	if err := os.Chmod(tmpName, 0644); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("writing page %s: %w", page.EntityID, err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("writing page %s: %w", page.EntityID, err)
	}
	return nil
}

// Watch emits the entity ID of every page file created or modified in the
// content directory. The channel is closed when ctx is cancelled.
func (s *PageStore) Watch(ctx context.Context) (<-chan string, error) {
	s.mu.Lock()
	closed := s.closed
	s.mu.Unlock()
	if closed {
		return nil, errors.New("page store is closed")
	}

	info, err := os.Stat(s.contentDir)
	if err != nil {
		return nil, fmt.Errorf("content dir error: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("content dir error: %s is not a directory", s.contentDir)
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("creating watcher: %w", err)
	}
	if err := watcher.Add(s.contentDir); err != nil {
		watcher.Close()
		return nil, fmt.Errorf("watching %s: %w", s.contentDir, err)
	}

	changes := make(chan string, eventBuffer)
	go func() {
		defer close(changes)
		defer watcher.Close()

		for {
			select {
			case <-ctx.Done():
				return

			case event, ok := <-watcher.Events:
				if !ok {
					return
				}
				id, ok := s.handleFsEvent(event)
				if !ok {
					continue
				}
				select {
				case changes <- id:
				case <-ctx.Done():
					return
				}

			case err, ok := <-watcher.Errors:
				if !ok {
					return
				}
				logger.Warn("watch %s: %v", s.contentDir, err)
			}
		}
	}()

	return changes, nil
}

// Close stops new watches from starting. Running watches end with their context.
func (s *PageStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	return nil
}

// handleFsEvent maps a filesystem event to the entity ID of a changed page.
// Removals are not reported: there is nothing left to link.
func (s *PageStore) handleFsEvent(event fsnotify.Event) (string, bool) {
	if !event.Has(fsnotify.Create) && !event.Has(fsnotify.Write) {
		return "", false
	}

	id, ok := entityID(filepath.Base(event.Name))
	if !ok {
		return "", false
	}

	info, err := os.Stat(event.Name)
	if err != nil || info.IsDir() {
		return "", false
	}

	return id, true
}

func (s *PageStore) pagePath(dir, id string) string {
	return filepath.Join(dir, id+PageExt)
}

// entityID extracts the entity ID from a page file name.
func entityID(name string) (string, bool) {
	if isHidden(name) || !strings.EqualFold(filepath.Ext(name), PageExt) {
		return "", false
	}
	id := name[:len(name)-len(PageExt)]
	if id == "" {
		return "", false
	}
	return id, true
}

// isHidden reports whether a file name starts with a dot.
func isHidden(name string) bool {
	return strings.HasPrefix(name, ".")
}
